package kconfig

// NodeKind discriminates the kind of menu-tree entry a Node represents.
type NodeKind string

const (
	KindMain       NodeKind = "main"
	KindMenuConfig NodeKind = "menuconfig"
	KindConfig     NodeKind = "config"
	KindGroup      NodeKind = "group" // menu or if block
	KindChoice     NodeKind = "choice"
	KindComment    NodeKind = "comment"
)

// Type is a Kconfig symbol's value type.
type Type string

const (
	TypeUnknown  Type = ""
	TypeBool     Type = "bool"
	TypeTristate Type = "tristate"
	TypeString   Type = "string"
	TypeInt      Type = "int"
	TypeHex      Type = "hex"
)

// Prompt is the human-readable label shown for a menu entry, optionally
// gated by a visibility condition.
type Prompt struct {
	Text      string
	Condition Expr
}

// Default is one `default VALUE [if COND]` line; a symbol may carry
// several, the first whose condition evaluates true applies.
type Default struct {
	Value     Expr
	Condition Expr
}

// Select is a `select`/`imply` directive: enables (or suggests) another
// symbol when this one is set.
type Select struct {
	Name      string
	Condition Expr
	Imply     bool
}

// RangeConstraint restricts an int/hex symbol's numeric value.
type RangeConstraint struct {
	Low, High Expr
	Condition Expr
}

// Node is a single entry in the parsed Kconfig menu tree. Name holds the
// symbol name for KindConfig/KindMenuConfig, and the (optional) choice name
// for KindChoice when the source used `choice NAME`, letting several
// `choice`/`endchoice` blocks across files extend the same choice.
type Node struct {
	Kind     NodeKind
	Type     Type
	Name     string // without the CONFIG_ prefix
	Children []*Node
	Parent   *Node

	Prompt   Prompt
	Help     string
	Defaults []Default
	Selects  []Select
	Ranges   []RangeConstraint

	DependsOn Expr
	VisibleIf Expr

	Source string // file this node was defined in
	Line   int    // 1-based line within Source

	tree *Tree
}

// DependsOnSymbols returns the transitive set of symbol names this node's
// dependency/visibility expressions reference, following through the
// dependencies of each referenced symbol in turn.
func (n *Node) DependsOnSymbols() map[string]bool {
	deps := make(map[string]bool)
	if n.DependsOn != nil {
		n.DependsOn.collectDeps(deps)
	}
	if n.VisibleIf != nil {
		n.VisibleIf.collectDeps(deps)
	}
	if n.tree == nil {
		return deps
	}

	var indirect []string
	for name := range deps {
		for _, dep := range n.tree.Symbols[name] {
			for t := range dep.DependsOnSymbols() {
				indirect = append(indirect, t)
			}
		}
	}
	for _, name := range indirect {
		deps[name] = true
	}
	return deps
}

// Walk visits n and every descendant, depth-first, stopping early if cb
// returns an error.
func (n *Node) Walk(cb func(*Node) error) error {
	if err := cb(n); err != nil {
		return err
	}
	for _, child := range n.Children {
		if err := child.Walk(cb); err != nil {
			return err
		}
	}
	return nil
}
