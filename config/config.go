// Package config loads per-project parser settings from a TOML file.
//
// A configuration file looks like this:
//
//	grammar = "tag"
//	text_grammar = "textplus"
//	escape = "+"
//
//	[[sigil]]
//	sigil = "%"
//	grammar = "code"
//	closer = "%"
package config

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/dhamidi/tagline/lex"
	"github.com/dhamidi/tagline/syntax"
	"github.com/pelletier/go-toml/v2"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = ".tagline.toml"

type Sigil struct {
	Sigil   string `toml:"sigil"`
	Grammar string `toml:"grammar"`
	Closer  string `toml:"closer,omitempty"`
}

// Config holds the settings that shape how documents are parsed. Empty
// fields keep the parser's defaults.
type Config struct {
	Grammar     string  `toml:"grammar,omitempty"`
	TextGrammar string  `toml:"text_grammar,omitempty"`
	Escape      string  `toml:"escape,omitempty"`
	Sigils      []Sigil `toml:"sigil,omitempty"`
}

// Error reports a configuration file that could not be used.
type Error struct {
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return "config: " + e.Message
	}
	return fmt.Sprintf("config %s: %s", e.Path, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Load reads the configuration at path. A missing file yields the zero
// configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(path, data)
}

// Parse decodes TOML data.
func Parse(data []byte) (*Config, error) {
	return parse("", data)
}

// Read decodes the TOML read from r.
func Read(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse("", data)
}

func parse(path string, data []byte) (*Config, error) {
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, &Error{Path: path, Message: err.Error(), Err: err}
	}
	if err := c.Validate(); err != nil {
		if e, ok := err.(*Error); ok {
			e.Path = path
		}
		return nil, err
	}
	return &c, nil
}

// Validate checks that every grammar name is known and every sigil is a
// run of punctuation.
func (c *Config) Validate() error {
	grammars := syntax.DefaultGrammars()
	known := func(name string) bool {
		_, ok := grammars[name]
		return name == "" || ok
	}

	if !known(c.Grammar) {
		return &Error{Message: fmt.Sprintf("unknown grammar %q", c.Grammar)}
	}
	if !known(c.TextGrammar) {
		return &Error{Message: fmt.Sprintf("unknown text_grammar %q", c.TextGrammar)}
	}
	if c.Escape != "" && !isPunct(c.Escape) {
		return &Error{Message: fmt.Sprintf("escape %q is not punctuation", c.Escape)}
	}
	for i, s := range c.Sigils {
		if !isPunct(s.Sigil) {
			return &Error{Message: fmt.Sprintf("sigil %d: %q is not punctuation", i, s.Sigil)}
		}
		if !known(s.Grammar) {
			return &Error{Message: fmt.Sprintf("sigil %q: unknown grammar %q", s.Sigil, s.Grammar)}
		}
	}
	return nil
}

func isPunct(s string) bool {
	if s == "" || !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if !lex.IsPunct(r) {
			return false
		}
	}
	return true
}

// Options turns the configuration into document options.
func (c *Config) Options() []syntax.Option {
	var opts []syntax.Option
	if c.Grammar != "" {
		opts = append(opts, syntax.WithGrammar(c.Grammar))
	}
	if c.TextGrammar != "" {
		opts = append(opts, syntax.WithTextGrammar(c.TextGrammar))
	}
	if c.Escape != "" {
		opts = append(opts, syntax.WithEscape(c.Escape))
	}
	for _, s := range c.Sigils {
		opts = append(opts, syntax.WithSigil(s.Sigil, s.Grammar, s.Closer))
	}
	return opts
}

// Marshal encodes the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
