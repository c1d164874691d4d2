package kctx

import (
	"errors"
	"os"

	"github.com/standardbeagle/kconfig-lsp/internal/document"
	"github.com/standardbeagle/kconfig-lsp/internal/kconfig"
	"github.com/standardbeagle/kconfig-lsp/internal/kerrors"
	"github.com/standardbeagle/kconfig-lsp/internal/lsp"
	"github.com/standardbeagle/kconfig-lsp/internal/uri"
)

// State is a KconfigContext's position in its parse/load lifecycle.
type State int

const (
	StateFresh State = iota
	StateParsing
	StateParsed
	StateParseFailed
	StateLoading
	StateLoaded
	StateLoadFailed
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateParsing:
		return "parsing"
	case StateParsed:
		return "parsed"
	case StateParseFailed:
		return "parse-failed"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateLoadFailed:
		return "load-failed"
	default:
		return "unknown"
	}
}

// symbolInfo is the parse-time cache of everything the evaluator needs
// about a single symbol, rebuilt each time the tree is reparsed.
type symbolInfo struct {
	name      string
	typ       kconfig.Type
	nodes     []*kconfig.Node
	directDep kconfig.Expr // OR across nodes[i].DependsOn; nil on any node means unconditionally reachable
}

// selectEdge is one `select`/`imply NAME [if COND]` directive, indexed in
// reverse (keyed by the target NAME) so evaluation can find what forces a
// symbol on without scanning every other symbol's Selects each time.
type selectEdge struct {
	from  string
	cond  kconfig.Expr
	imply bool
}

// choiceGroup is the set of definition nodes making up one logical choice
// (possibly merged across several `choice NAME`/`endchoice` blocks), used
// by the CHOICE node-ID scheme to number choices and their locations.
type choiceGroup struct {
	key   string
	nodes []*kconfig.Node
}

// Context is one managed build: a build directory, the environment used
// to parse its Kconfig root, a board defconfig (optional) and a list of
// user .conf files layered on top of it, and the resulting parsed tree
// plus assignment/diagnostic state. Context implements kconfig.Evaluator
// so Expr.Eval can resolve symbol references against its current values.
type Context struct {
	URI       uri.URI // build directory
	RootPath  string  // root Kconfig file
	Env       map[string]string
	Board     *BoardConf
	ConfFiles []*ConfFile

	LastAccess int // bumped by the context-selection policy in internal/server

	state   State
	version int
	tree    *kconfig.Tree
	loader  kconfig.Loader

	symbols      map[string]*symbolInfo
	symbolOrder  []string
	selectors    map[string][]selectEdge
	choiceGroups []*choiceGroup

	values   map[string]string // user-assigned raw values, keyed by symbol name
	modified []string          // names touched by Set, in first-touch order

	boardConfFile *ConfFile
	cmdDiags      []*lsp.Diagnostic
	kconfigDiags  map[string][]*lsp.Diagnostic

	evalStack map[string]bool // cycle guard while resolving select/default chains
}

// NewContext creates a Context for a build rooted at root, parsed with
// env, with buildURI identifying the owning build directory. store backs
// the document-aware loader used for every file this context reads,
// including its Kconfig tree and its .conf files.
func NewContext(buildURI uri.URI, root string, confFiles []*ConfFile, env map[string]string, store *document.Store) *Context {
	c := &Context{
		URI:          buildURI,
		RootPath:     root,
		Env:          env,
		ConfFiles:    confFiles,
		loader:       NewDocumentLoader(store),
		values:       map[string]string{},
		kconfigDiags: map[string][]*lsp.Diagnostic{},
		evalStack:    map[string]bool{},
	}
	if board := env["BOARD"]; board != "" {
		c.Board = &BoardConf{Name: board, Arch: env["ARCH"], Dir: env["BOARD_DIR"]}
		c.boardConfFile = c.Board.ConfFile()
	}
	return c
}

// Valid reports whether the context holds a usable, up-to-date tree.
func (c *Context) Valid() bool {
	return c.tree != nil && c.state != StateFresh && c.state != StateParseFailed
}

// Invalidate marks the current tree stale, forcing the next Refresh to
// reparse before anything else is served from it.
func (c *Context) Invalidate() {
	c.state = StateFresh
}

// StateValue returns the context's current lifecycle state.
func (c *Context) StateValue() State {
	return c.state
}

// Tree returns the parsed menu tree, or nil before a first successful parse.
func (c *Context) Tree() *kconfig.Tree {
	return c.tree
}

// activateEnv copies this context's environment into the process
// environment. The parser's $(VAR) interpolation does not read it (Parse
// hands c.Env to kconfig.Parse directly), and $(shell, ...) is never
// executed. This is a deliberate, documented global side effect: only one context
// is ever being parsed at a time, since message handling is single
// threaded, but two contexts' environments are never merged or restored.
func (c *Context) activateEnv() {
	for k, v := range c.Env {
		os.Setenv(k, v)
	}
}

// Parse (re)parses the Kconfig tree rooted at RootPath, rebuilding the
// evaluator's symbol/select/choice indices on success. User-assigned
// values (from Set/Unset or a prior LoadConfig) are left untouched; only
// the structural tree and its diagnostics are reset.
func (c *Context) Parse() error {
	c.state = StateParsing
	c.kconfigDiags = map[string][]*lsp.Diagnostic{}
	c.cmdDiags = nil

	c.activateEnv()

	tree, err := kconfig.Parse(c.RootPath, c.loader, c.Env)
	c.version++
	if err != nil {
		c.state = StateParseFailed
		c.recordParseError(err)
		return err
	}

	c.tree = tree
	c.buildIndex()
	c.state = StateParsed
	return nil
}

// Refresh reparses if the tree is stale, then replays the board
// defconfig and user .conf files through it and runs the linter. This is
// the context-local half of the server's refresh_ctx: the server layer
// additionally decides which context to refresh and publishes the
// resulting diagnostics.
func (c *Context) Refresh() {
	if !c.Valid() {
		if err := c.Parse(); err != nil {
			c.state = StateParseFailed
			return
		}
	}
	c.state = StateLoading
	c.LoadConfig()
	if c.state == StateLoading {
		c.state = StateLoaded
	}
}

// HasFile reports whether u names one of this context's managed .conf
// files (board defconfig included).
func (c *Context) HasFile(u uri.URI) bool {
	for _, f := range c.AllConfFiles() {
		if uri.Equal(f.URI, u) {
			return true
		}
	}
	return false
}

// AllConfFiles returns the board defconfig (if any) followed by every
// user .conf file, in load order.
func (c *Context) AllConfFiles() []*ConfFile {
	var files []*ConfFile
	if c.boardConfFile != nil {
		files = append(files, c.boardConfFile)
	}
	files = append(files, c.ConfFiles...)
	return files
}

// CmdDiags returns diagnostics with no file to anchor to (a parse error
// before any file was even opened, for instance).
func (c *Context) CmdDiags() []*lsp.Diagnostic {
	return c.cmdDiags
}

// KconfigDiagsFor returns the Kconfig-source diagnostics for a URI.
func (c *Context) KconfigDiagsFor(u uri.URI) []*lsp.Diagnostic {
	return c.kconfigDiags[u.String()]
}

// KconfigDiags returns every Kconfig-source diagnostic bucket, keyed by
// the URI string it was recorded against, for the server's publish loop
// to replay in full (including files no ConfFile tracks, such as an
// included Kconfig fragment with a parse warning).
func (c *Context) KconfigDiags() map[string][]*lsp.Diagnostic {
	return c.kconfigDiags
}

// buildIndex rebuilds every per-symbol/select/choice cache from the
// freshly parsed tree. Called once per successful Parse.
func (c *Context) buildIndex() {
	c.symbols = map[string]*symbolInfo{}
	c.symbolOrder = nil
	c.selectors = map[string][]selectEdge{}

	for name, nodes := range c.tree.Symbols {
		info := &symbolInfo{name: name, nodes: nodes}
		unconditional := false
		var dep kconfig.Expr
		for _, n := range nodes {
			if n.Type != kconfig.TypeUnknown {
				info.typ = n.Type
			}
			if n.DependsOn == nil {
				unconditional = true
				continue
			}
			if dep == nil {
				dep = n.DependsOn
			} else {
				dep = &kconfig.OrExpr{L: dep, R: n.DependsOn}
			}
		}
		if !unconditional {
			info.directDep = dep // nil here too means unconditional: no nodes at all, an impossible case
		}
		c.symbols[name] = info
	}

	_ = c.tree.Walk(func(n *kconfig.Node) error {
		if n.Kind == kconfig.KindConfig || n.Kind == kconfig.KindMenuConfig {
			if _, ok := c.symbols[n.Name]; ok {
				if !contains(c.symbolOrder, n.Name) {
					c.symbolOrder = append(c.symbolOrder, n.Name)
				}
			}
			for _, sel := range n.Selects {
				c.selectors[sel.Name] = append(c.selectors[sel.Name], selectEdge{from: n.Name, cond: sel.Condition, imply: sel.Imply})
			}
		}
		return nil
	})

	c.choiceGroups = nil
	seen := map[string]*choiceGroup{}
	_ = c.tree.Walk(func(n *kconfig.Node) error {
		if n.Kind != kconfig.KindChoice {
			return nil
		}
		if n.Name != "" {
			if _, ok := seen[n.Name]; ok {
				return nil
			}
		}
		g := &choiceGroup{key: n.Name, nodes: c.tree.ChoiceNodes(n)}
		c.choiceGroups = append(c.choiceGroups, g)
		if n.Name != "" {
			seen[n.Name] = g
		}
		return nil
	})
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

// recordParseError turns a parse failure into a diagnostic anchored at
// the file/line it occurred at, or a command-line diagnostic when no
// file location is available.
func (c *Context) recordParseError(err error) {
	var perr *kerrors.ParseError
	if errors.As(err, &perr) && perr.FilePath != "" {
		u := uri.File(perr.FilePath)
		diag := lsp.ErrDiagnostic(perr.Underlying.Error(), lineRange(perr.Line))
		c.kconfigDiags[u.String()] = append(c.kconfigDiags[u.String()], diag)
		return
	}
	c.cmdDiags = append(c.cmdDiags, lsp.ErrDiagnostic(err.Error(), lsp.Range{}))
}

func lineRange(line1 int) lsp.Range {
	line0 := line1 - 1
	if line0 < 0 {
		line0 = 0
	}
	return lsp.Range{Start: lsp.Position{Line: line0}, End: lsp.Position{Line: line0, Character: 1 << 20}}
}
