package kconfig

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/standardbeagle/kconfig-lsp/internal/kerrors"
)

// Loader resolves a Kconfig source path to its contents. internal/kctx
// supplies one backed by the document store, so editor-open unsaved
// buffers are honored, falling back to disk; the standalone linter CLI
// uses the same loader over an empty store, so it reads from disk.
type Loader interface {
	Read(path string) ([]byte, error)
}

// Tree is a fully parsed Kconfig menu hierarchy.
type Tree struct {
	Root    *Node
	Symbols map[string][]*Node // every config/menuconfig definition node, keyed by name, in source order
	Menus   []*Node            // every KindGroup node that came from an actual `menu` block (not `if`)
	Choices map[string][]*Node // every named KindChoice node, keyed by choice name; anonymous choices are not listed
	Comments []*Node
	Files   []string // every file consulted while parsing, in source order
}

// ChoiceNodes returns the definition nodes making up the choice containing n,
// aggregating every `choice`/`endchoice` block that shares n's name (or just
// n itself, for an anonymous choice).
func (t *Tree) ChoiceNodes(n *Node) []*Node {
	if n.Name != "" {
		return t.Choices[n.Name]
	}
	return []*Node{n}
}

// Walk visits every node in the tree, depth-first from Root.
func (t *Tree) Walk(cb func(*Node) error) error {
	if t.Root == nil {
		return nil
	}
	return t.Root.Walk(cb)
}

type kconfigParser struct {
	*lexer
	loader   Loader
	includes []*lexer
	files    []string
	stack    []*Node
	cur      *Node
	baseDir  string

	helpTarget *Node // non-nil while accumulating a help block
	helpBase   int   // indentation level of the block's first line, -1 until seen
	helpBuf    []string
}

// Parse parses the Kconfig file at path (and everything it transitively
// sources), resolving file contents through loader and substituting the
// given environment into $(VAR) references.
func Parse(path string, loader Loader, env map[string]string) (*Tree, error) {
	data, err := loader.Read(path)
	if err != nil {
		return nil, kerrors.NewParseError(path, 0, 0, "", err)
	}

	kp := &kconfigParser{
		lexer:   newLexer(data, path, env),
		loader:  loader,
		baseDir: filepath.Dir(path),
		files:   []string{path},
	}

	kp.parseFile()
	if kp.err != nil {
		return nil, kerrors.NewParseError(kp.file, kp.line, kp.col, "", kp.err)
	}
	if len(kp.stack) == 0 {
		return nil, kerrors.NewParseError(path, 0, 0, "", fmt.Errorf("no mainmenu found"))
	}

	root := kp.stack[0]
	tree := &Tree{
		Root:    root,
		Symbols: make(map[string][]*Node),
		Choices: make(map[string][]*Node),
		Files:   kp.files,
	}
	tree.link(root, nil, nil)
	return tree, nil
}

// link walks the freshly built tree exactly once, propagating inherited
// dependency/visibility conditions down from enclosing menu/if/choice
// blocks and populating the tree's lookup tables.
func (t *Tree) link(n *Node, dependsOn, visibleIf Expr) {
	n.tree = t
	n.DependsOn = exprAnd(dependsOn, n.DependsOn)
	n.VisibleIf = exprAnd(visibleIf, n.VisibleIf)

	switch n.Kind {
	case KindConfig, KindMenuConfig:
		t.Symbols[n.Name] = append(t.Symbols[n.Name], n)
	case KindGroup:
		if n.Prompt.Text != "" { // a real `menu` block, not an `if`
			t.Menus = append(t.Menus, n)
		}
	case KindChoice:
		if n.Name != "" {
			t.Choices[n.Name] = append(t.Choices[n.Name], n)
		}
	case KindComment:
		t.Comments = append(t.Comments, n)
	}

	for _, child := range n.Children {
		t.link(child, n.DependsOn, n.VisibleIf)
	}
}

func (kp *kconfigParser) parseFile() {
	for kp.nextLine() {
		kp.parseLine()
	}
	if kp.helpTarget != nil {
		kp.flushHelp()
	}
	kp.endCurrent()
}

func (kp *kconfigParser) parseLine() {
	if kp.helpTarget != nil && kp.tryContinueHelp() {
		return
	}

	if kp.eol() {
		return
	}

	if kp.tryConsume("#") {
		kp.consumeLine()
		return
	}

	ident := kp.ident()
	if kp.tryConsume("=") || kp.tryConsume(":=") {
		// Macro/variable assignment (Kconfig macro language); not
		// evaluated beyond $(VAR) substitution elsewhere.
		kp.consumeLine()
		return
	}

	kp.parseMenu(ident)
}

func (kp *kconfigParser) parseMenu(cmd string) {
	line := kp.line
	switch cmd {
	case "source":
		file, ok := kp.tryQuotedString()
		if !ok {
			file = kp.consumeLine()
		}
		kp.includeSource(file)

	case "mainmenu":
		kp.pushCurrent(&Node{Kind: KindMain, Prompt: Prompt{Text: kp.quotedString()}, Source: kp.file, Line: line})

	case "comment":
		kp.newCurrent(&Node{Kind: KindComment, Prompt: Prompt{Text: kp.quotedString()}, Source: kp.file, Line: line})

	case "menu":
		kp.pushCurrent(&Node{Kind: KindGroup, Prompt: Prompt{Text: kp.quotedString()}, Source: kp.file, Line: line})

	case "if":
		// An enclosing if EXPR behaves exactly like "depends on EXPR" added
		// to every contained symbol, as well as gating visibility: it folds
		// into both DependsOn and VisibleIf, not VisibleIf alone.
		cond := kp.parseExpr()
		kp.pushCurrent(&Node{Kind: KindGroup, DependsOn: cond, VisibleIf: cond, Source: kp.file, Line: line})

	case "choice":
		name, _ := kp.tryQuotedString()
		if name == "" {
			if ch := kp.peek(); ch >= 'A' && ch <= 'Z' || ch == '_' {
				name = kp.ident()
			}
		}
		kp.pushCurrent(&Node{Kind: KindChoice, Name: name, Source: kp.file, Line: line})

	case "endmenu", "endif", "endchoice":
		kp.popCurrent()

	case "config":
		kp.newCurrent(&Node{Kind: KindConfig, Name: kp.ident(), Source: kp.file, Line: line})

	case "menuconfig":
		kp.newCurrent(&Node{Kind: KindMenuConfig, Name: kp.ident(), Source: kp.file, Line: line})

	default:
		kp.parseConfigType(cmd)
	}
}

func (kp *kconfigParser) parseConfigType(typ string) {
	cur := kp.current()
	switch typ {
	case "tristate":
		cur.Type = TypeTristate
		kp.tryParsePrompt()
	case "def_tristate":
		cur.Type = TypeTristate
		kp.parseDefaultValue()
	case "bool":
		cur.Type = TypeBool
		kp.tryParsePrompt()
	case "def_bool":
		cur.Type = TypeBool
		kp.parseDefaultValue()
	case "int":
		cur.Type = TypeInt
		kp.tryParsePrompt()
	case "def_int":
		cur.Type = TypeInt
		kp.parseDefaultValue()
	case "hex":
		cur.Type = TypeHex
		kp.tryParsePrompt()
	case "def_hex":
		cur.Type = TypeHex
		kp.parseDefaultValue()
	case "string":
		cur.Type = TypeString
		kp.tryParsePrompt()
	case "def_string":
		cur.Type = TypeString
		kp.parseDefaultValue()
	default:
		kp.parseProperty(typ)
	}
}

func (kp *kconfigParser) parseProperty(prop string) {
	cur := kp.current()
	switch prop {
	case "prompt":
		kp.tryParsePrompt()

	case "depends":
		kp.mustConsume("on")
		cur.DependsOn = exprAnd(cur.DependsOn, kp.parseExpr())

	case "visible":
		kp.mustConsume("if")
		cur.VisibleIf = exprAnd(cur.VisibleIf, kp.parseExpr())

	case "select", "imply":
		name := strings.TrimPrefix(kp.ident(), "CONFIG_")
		sel := Select{Name: name, Imply: prop == "imply"}
		if kp.tryConsume("if") {
			sel.Condition = kp.parseExpr()
		}
		cur.Selects = append(cur.Selects, sel)

	case "option":
		kp.consumeLine()

	case "modules", "optional":
		// no-ops for LSP purposes

	case "default":
		kp.parseDefaultValue()

	case "range":
		low := kp.parseExpr()
		high := kp.parseExpr()
		rc := RangeConstraint{Low: low, High: high}
		if kp.tryConsume("if") {
			rc.Condition = kp.parseExpr()
		}
		cur.Ranges = append(cur.Ranges, rc)

	case "help", "---help---":
		kp.tryParseHelp()

	default:
		kp.failf("unknown property %q", prop)
	}
}

func (kp *kconfigParser) includeSource(file string) {
	if file == "" {
		return
	}
	kp.newCurrent(nil)

	if !filepath.IsAbs(file) {
		file = filepath.Join(kp.baseDir, file)
	}
	data, err := kp.loader.Read(file)
	if err != nil {
		kp.failf("%v", err)
		return
	}
	kp.files = append(kp.files, file)

	kp.includes = append(kp.includes, kp.lexer)
	kp.lexer = newLexer(data, file, kp.env)
	kp.parseFile()
	err = kp.err
	kp.lexer = kp.includes[len(kp.includes)-1]
	kp.includes = kp.includes[:len(kp.includes)-1]

	if kp.err == nil {
		kp.err = err
	}
}

func (kp *kconfigParser) pushCurrent(n *Node) {
	kp.endCurrent()
	kp.cur = n
	kp.stack = append(kp.stack, n)
}

func (kp *kconfigParser) popCurrent() {
	kp.endCurrent()
	if len(kp.stack) < 2 {
		return
	}
	last := kp.stack[len(kp.stack)-1]
	kp.stack = kp.stack[:len(kp.stack)-1]
	top := kp.stack[len(kp.stack)-1]
	last.Parent = top
	top.Children = append(top.Children, last)
}

func (kp *kconfigParser) newCurrent(n *Node) {
	kp.endCurrent()
	kp.cur = n
}

func (kp *kconfigParser) current() *Node {
	if kp.cur == nil {
		kp.failf("config property outside of config")
		return &Node{}
	}
	return kp.cur
}

func (kp *kconfigParser) endCurrent() {
	if kp.cur == nil {
		return
	}
	if len(kp.stack) == 0 {
		kp.failf("unbalanced endmenu/endif/endchoice")
		kp.cur = nil
		return
	}

	top := kp.stack[len(kp.stack)-1]
	if top != kp.cur {
		kp.cur.Parent = top
		top.Children = append(top.Children, kp.cur)
	}
	kp.cur = nil
}

func (kp *kconfigParser) tryParsePrompt() {
	if str, ok := kp.tryQuotedString(); ok {
		prompt := Prompt{Text: str}
		if kp.tryConsume("if") {
			prompt.Condition = kp.parseExpr()
		}
		kp.current().Prompt = prompt
	}
}

func (kp *kconfigParser) parseDefaultValue() {
	def := Default{Value: kp.parseExpr()}
	if kp.tryConsume("if") {
		def.Condition = kp.parseExpr()
	}
	kp.current().Defaults = append(kp.current().Defaults, def)
}

// tryParseHelp arms help-block accumulation; the actual lines are picked up
// by tryContinueHelp on each subsequent call to parseLine; since the lexer
// has no line pushback, the block's extent is discovered incrementally
// rather than read in one pass the way a buffered reader could.
func (kp *kconfigParser) tryParseHelp() {
	kp.helpTarget = kp.current()
	kp.helpBase = -1
	kp.helpBuf = nil
}

// tryContinueHelp consumes the current line as help text if it belongs to
// the in-progress block, returning false (without consuming) once a line
// dedents below the block's first line, ending it.
func (kp *kconfigParser) tryContinueHelp() bool {
	if kp.eol() {
		kp.helpBuf = append(kp.helpBuf, "")
		return true
	}

	level := kp.identLevel()
	if kp.helpBase == -1 {
		kp.helpBase = level
	}
	if level < kp.helpBase {
		kp.flushHelp()
		return false
	}

	kp.helpBuf = append(kp.helpBuf, kp.consumeLine())
	return true
}

func (kp *kconfigParser) flushHelp() {
	kp.helpTarget.Help = strings.TrimSpace(strings.Join(kp.helpBuf, " "))
	kp.helpTarget = nil
	kp.helpBase = -1
	kp.helpBuf = nil
}
