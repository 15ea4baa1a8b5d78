package format

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/tagline/config"
	"github.com/dhamidi/tagline/syntax"
)

var testcasesDir string
var testFilter string

func init() {
	flag.StringVar(&testcasesDir, "testcases", "", "directory containing .tl test files")
	flag.StringVar(&testFilter, "filter", "", "filter test files by substring match on filename")
}

func TestMain(m *testing.M) {
	flag.Parse()
	os.Exit(m.Run())
}

// TestRoundTrip_Testcases parses every .tl file below the testcases
// directory (testdata by default) and checks that rendering reproduces it.
// A .toml file with the same base name configures the parse.
func TestRoundTrip_Testcases(t *testing.T) {
	dir := testcasesDir
	if dir == "" {
		dir = "testdata"
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".tl") {
			if testFilter != "" && !strings.Contains(path, testFilter) {
				return nil
			}
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to walk testcases directory: %v", err)
	}
	if len(files) == 0 {
		t.Skipf("no .tl files found in %s", dir)
	}

	for _, file := range files {
		relPath, err := filepath.Rel(dir, file)
		if err != nil {
			relPath = filepath.Base(file)
		}
		testName := strings.ReplaceAll(relPath, string(filepath.Separator), "_")
		testName = strings.TrimSuffix(testName, ".tl")

		t.Run(testName, func(t *testing.T) {
			runRoundTripTest(t, file)
		})
	}
}

func runRoundTripTest(t *testing.T, filename string) {
	cfg, err := config.Load(strings.TrimSuffix(filename, ".tl") + ".toml")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	doc, err := syntax.ParseFile(filename, cfg.Options()...)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if hasErrors(doc.Root()) {
		t.Skipf("source has malformed lines")
	}

	source, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}

	var out bytes.Buffer
	if err := NewCanonEncoder(&out).Encode(doc.Root()); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if out.String() != string(source) {
		t.Errorf("round trip differs\n=== got ===\n%s\n=== want ===\n%s", out.String(), source)
		return
	}

	// The node listing must survive a second parse of the rendered text.
	again := syntax.ParseString(out.String(), cfg.Options()...)
	first := listing(t, doc.Root())
	second := listing(t, again)
	if first != second {
		t.Errorf("node listing changed after reparse\n=== first ===\n%s\n=== second ===\n%s", first, second)
	}
}

func hasErrors(root *syntax.Node) bool {
	found := false
	syntax.Inspect(root, func(n *syntax.Node) bool {
		if n.HasErrors() {
			found = true
		}
		return !found
	})
	return found
}

func listing(t *testing.T, root *syntax.Node) string {
	t.Helper()
	var out bytes.Buffer
	if err := NewLineEncoder(&out).Encode(root); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return out.String()
}
