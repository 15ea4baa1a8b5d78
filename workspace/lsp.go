package workspace

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dhamidi/tagline/config"
	"github.com/dhamidi/tagline/syntax"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "tagline"

type LSPServer struct {
	workspace *Workspace
	watcher   *Watcher
	handler   protocol.Handler
	server    *server.Server
	version   string
	config    *config.Config

	mu     sync.Mutex
	open   map[string]protocol.DocumentUri
	notify glsp.NotifyFunc
}

// NewLSPServer returns a server that parses documents with cfg. A nil cfg
// is replaced by the configuration file found in the workspace root.
func NewLSPServer(version string, cfg *config.Config) *LSPServer {
	ls := &LSPServer{
		version: version,
		config:  cfg,
		open:    make(map[string]protocol.DocumentUri),
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		TextDocumentFormatting:     ls.textDocumentFormatting,
		TextDocumentHover:          ls.textDocumentHover,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	cfg := ls.config
	if cfg == nil {
		loaded, err := config.Load(filepath.Join(rootDir, config.DefaultFile))
		if err != nil {
			log.Errorf("%s", err)
			loaded = &config.Config{}
		}
		cfg = loaded
	}
	ls.workspace = New(rootDir, cfg.Options()...)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.DocumentSymbolProvider = true
	capabilities.DocumentFormattingProvider = true
	capabilities.HoverProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.mu.Lock()
	ls.notify = ctx.Notify
	ls.mu.Unlock()

	ls.workspace.ScanAll()

	w, err := NewWatcher(ls.workspace)
	if err != nil {
		log.Warningf("file watching disabled: %s", err)
		return nil
	}
	w.Changed = ls.fileChanged
	w.Ignore = ls.isOpen
	if err := w.Start(); err != nil {
		log.Warningf("file watching disabled: %s", err)
		return nil
	}
	ls.watcher = w
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.mu.Lock()
	ls.open[path] = params.TextDocument.URI
	ls.mu.Unlock()

	ls.workspace.UpdateFile(path, []byte(params.TextDocument.Text))
	ls.publish(ctx.Notify, params.TextDocument.URI, path)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.workspace.UpdateFile(path, []byte(textChange.Text))
			ls.publish(ctx.Notify, params.TextDocument.URI, path)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.mu.Lock()
	delete(ls.open, path)
	ls.mu.Unlock()
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.workspace.UpdateFile(path, []byte(*params.Text))
	} else {
		ls.workspace.ScanFile(path)
	}
	ls.publish(ctx.Notify, params.TextDocument.URI, path)
	return nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	log.Debugf("documentSymbol %s", params.TextDocument.URI)
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.workspace.GetFile(path)
	if f == nil {
		return nil, nil
	}
	return f.Symbols(), nil
}

func (ls *LSPServer) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	log.Debugf("formatting %s", params.TextDocument.URI)
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.workspace.GetFile(path)
	if f == nil {
		return nil, nil
	}
	canon := f.Root.Canon()
	if canon == string(f.Content) {
		return nil, nil
	}
	return []protocol.TextEdit{{Range: f.fullRange(), NewText: canon}}, nil
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	log.Debugf("hover %s", params.TextDocument.URI)
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.workspace.GetFile(path)
	if f == nil {
		return nil, nil
	}
	n := f.NodeAt(int(params.Position.Line) + 1)
	if n == nil {
		return nil, nil
	}
	r := f.nodeRange(n)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: Describe(n),
		},
		Range: &r,
	}, nil
}

// isOpen reports whether the editor owns the content of path.
func (ls *LSPServer) isOpen(path string) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	_, ok := ls.open[path]
	return ok
}

func (ls *LSPServer) fileChanged(path string) {
	ls.mu.Lock()
	notify := ls.notify
	ls.mu.Unlock()
	if notify == nil {
		return
	}
	ls.publish(notify, pathToURI(path), path)
}

func (ls *LSPServer) publish(notify glsp.NotifyFunc, uri protocol.DocumentUri, path string) {
	diagnostics := []protocol.Diagnostic{}
	if f := ls.workspace.GetFile(path); f != nil {
		diagnostics = f.Diagnostics()
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// Describe is the hover text of a node: its path and what it is.
func Describe(n *syntax.Node) string {
	path := n.Path()
	if path == "" {
		path = "."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "`%s`\n\n%s", path, strings.ToLower(n.Kind.String()))
	if n.Sigil != "" {
		fmt.Fprintf(&sb, " `%s`", n.Sigil)
	}
	fmt.Fprintf(&sb, ", line %d", n.Line)
	return sb.String()
}

// Diagnostics reports the file's problems as errors.
func (f *FileInfo) Diagnostics() []protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := lsName
	diagnostics := []protocol.Diagnostic{}
	for _, p := range f.Problems() {
		line := protocol.UInteger(max(p.Line-1, 0))
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: protocol.UInteger(p.Column)},
				End:   protocol.Position{Line: line, Character: protocol.UInteger(p.Column + p.Length)},
			},
			Severity: &severity,
			Source:   &source,
			Message:  p.Message,
		})
	}
	return diagnostics
}

// Symbols returns the outline of the file.
func (f *FileInfo) Symbols() []protocol.DocumentSymbol {
	return f.symbols(f.Root)
}

func (f *FileInfo) symbols(n *syntax.Node) []protocol.DocumentSymbol {
	if n.Invisible {
		var out []protocol.DocumentSymbol
		for _, child := range n.Children() {
			out = append(out, f.symbols(child)...)
		}
		return out
	}
	if n.IsSeparator() || n.Line == 0 {
		return nil
	}

	r := f.nodeRange(n)
	detail := strings.ToLower(n.Kind.String())
	sym := protocol.DocumentSymbol{
		Name:           symbolName(n),
		Detail:         &detail,
		Kind:           symbolKind(n),
		Range:          r,
		SelectionRange: f.lineRange(n.Line),
	}
	for _, child := range n.Children() {
		sym.Children = append(sym.Children, f.symbols(child)...)
	}
	return []protocol.DocumentSymbol{sym}
}

// symbolName is the tag and first name of a tagged node. Other nodes are
// named by their canonical line.
func symbolName(n *syntax.Node) string {
	if n.Kind == syntax.KindTagged && n.Tag != "" && !n.IsSigiled() {
		if name := n.Name(); name != "" {
			return n.Tag + " " + name
		}
		return n.Tag
	}
	if line := n.CanonLine(); strings.TrimSpace(line) != "" {
		return strings.TrimSpace(line)
	}
	return strings.ToLower(n.Kind.String())
}

func symbolKind(n *syntax.Node) protocol.SymbolKind {
	switch n.Kind {
	case syntax.KindParagraph, syntax.KindText:
		return protocol.SymbolKindString
	case syntax.KindCode:
		return protocol.SymbolKindConstant
	case syntax.KindQuote:
		return protocol.SymbolKindNamespace
	}
	if len(n.Children()) > 0 {
		return protocol.SymbolKindObject
	}
	return protocol.SymbolKindField
}

// lastLine is the last source line covered by n and its descendants.
func lastLine(n *syntax.Node) int {
	last := n.Line
	if n.Body != nil && n.Body.Last() > last {
		last = n.Body.Last()
	}
	for _, child := range n.Children() {
		if l := lastLine(child); l > last {
			last = l
		}
	}
	return last
}

func (f *FileInfo) nodeRange(n *syntax.Node) protocol.Range {
	start := f.lineRange(n.Line)
	end := f.lineRange(lastLine(n))
	return protocol.Range{Start: start.Start, End: end.End}
}

func (f *FileInfo) lineRange(num int) protocol.Range {
	line := protocol.UInteger(max(num-1, 0))
	width := 0
	if num > 0 && num <= len(f.Lines) {
		width = len(f.Lines[num-1])
	}
	return protocol.Range{
		Start: protocol.Position{Line: line, Character: 0},
		End:   protocol.Position{Line: line, Character: protocol.UInteger(width)},
	}
}

func (f *FileInfo) fullRange() protocol.Range {
	last := len(f.Lines) - 1
	if last < 0 {
		last = 0
	}
	width := 0
	if len(f.Lines) > 0 {
		width = len(f.Lines[last])
	}
	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: protocol.UInteger(last), Character: protocol.UInteger(width)},
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}
