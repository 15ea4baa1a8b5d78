package lex

import (
	"strings"
	"unicode"
)

func isValueRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	return strings.ContainsRune("_.-+/:@%", r)
}

// IsValueWord reports whether a parameter value can be written unquoted.
func IsValueWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isValueRune(r) {
			return false
		}
	}
	return true
}

// QuoteValue renders a parameter value: bare when it is a value word,
// otherwise double-quoted, or single-quoted when it contains a double quote
// and no single quote. Newlines are escaped.
func QuoteValue(v string) string {
	if IsValueWord(v) {
		return v
	}
	q := '"'
	if strings.ContainsRune(v, '"') && !strings.ContainsRune(v, '\'') {
		q = '\''
	}
	var sb strings.Builder
	sb.WriteRune(q)
	for _, r := range v {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case q:
			sb.WriteRune('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteRune(q)
	return sb.String()
}

// Unquote resolves the backslash escapes of a raw string interior.
func Unquote(raw string) string {
	if !strings.ContainsRune(raw, '\\') {
		return raw
	}
	var sb strings.Builder
	rs := []rune(raw)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r != '\\' || i+1 >= len(rs) {
			sb.WriteRune(r)
			continue
		}
		i++
		switch rs[i] {
		case 'n':
			sb.WriteRune('\n')
		case 't':
			sb.WriteRune('\t')
		default:
			sb.WriteRune(rs[i])
		}
	}
	return sb.String()
}

func isParamSeparator(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}

// parseParams parses the interior of a parameter bracket. base is the
// column of body[0] in the line, used for error token offsets.
func parseParams(body []rune, base int) ([]Param, []Token) {
	var params []Param
	var errs []Token

	errorFrom := func(i int) {
		errs = append(errs, Token{
			Kind:   KindError,
			Offset: base + i,
			Length: len(body) - i,
			Text:   string(body[i:]),
		})
	}

	i := 0
	for i < len(body) {
		for i < len(body) && isParamSeparator(body[i]) {
			i++
		}
		if i >= len(body) {
			break
		}
		if !IsWordStart(body[i]) {
			errorFrom(i)
			break
		}
		end := wordEnd(body, i)
		key := string(body[i:end])

		j := end
		for j < len(body) && body[j] == ' ' {
			j++
		}
		if j >= len(body) || body[j] != '=' {
			params = append(params, Param{Key: key})
			i = end
			continue
		}

		k := j + 1
		for k < len(body) && body[k] == ' ' {
			k++
		}
		if k < len(body) && (body[k] == '"' || body[k] == '\'') {
			if q := quoteEnd(body, k); q >= 0 {
				params = append(params, Param{Key: key, Value: Unquote(string(body[k+1 : q])), HasValue: true})
				i = q + 1
				continue
			}
		}
		if k < len(body) && isValueRune(body[k]) {
			v := k
			for v < len(body) && isValueRune(body[v]) {
				v++
			}
			params = append(params, Param{Key: key, Value: string(body[k:v]), HasValue: true})
			i = v
			continue
		}

		params = append(params, Param{Key: key})
		errorFrom(j)
		break
	}
	return params, errs
}
