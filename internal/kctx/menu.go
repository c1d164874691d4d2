package kctx

import (
	"github.com/standardbeagle/kconfig-lsp/internal/kconfig"
	"github.com/standardbeagle/kconfig-lsp/internal/lsp"
	"github.com/standardbeagle/kconfig-lsp/internal/uri"
)

// ItemKind discriminates what a MenuItem represents in a rendered menu.
type ItemKind string

const (
	ItemMenu    ItemKind = "menu"
	ItemSymbol  ItemKind = "symbol"
	ItemChoice  ItemKind = "choice"
	ItemComment ItemKind = "comment"
	ItemUnknown ItemKind = "unknown"
)

// MenuItem is one row in a rendered menu screen.
type MenuItem struct {
	ID          string       `json:"id"`
	Kind        ItemKind     `json:"kind"`
	Visible     bool         `json:"visible"`
	Loc         lsp.Location `json:"location"`
	IsMenu      bool         `json:"isMenu"` // true for a menuconfig item: opening it reveals its own screen
	HasChildren bool         `json:"hasChildren"`
	Depth       int          `json:"depth"`
	Prompt      string       `json:"prompt,omitempty"`
	Help        string       `json:"help,omitempty"`
	Name        string       `json:"name,omitempty"`
	Type        kconfig.Type `json:"type,omitempty"`
	Value       string       `json:"value,omitempty"`
	UserValue   string       `json:"userValue,omitempty"`
	Options     []string     `json:"options,omitempty"`
}

// Menu is a single navigable screen: the node that was opened, and the
// (possibly filtered) list of its items.
type Menu struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

// GetMenu renders the screen rooted at id (the top-level mainmenu when id
// is ""), including every child regardless of visibility when showAll is
// true, else only children with a currently-true prompt.
func (c *Context) GetMenu(id string, showAll bool) (*Menu, bool) {
	if !c.Valid() {
		return nil, false
	}

	var node *kconfig.Node
	if id == "" {
		node = c.tree.Root
	} else {
		n, ok := c.FindNode(id)
		if !ok {
			return nil, false
		}
		node = n
	}

	menu := &Menu{ID: c.NodeID(node), Name: node.Prompt.Text}
	for _, ch := range c.children(node) {
		vis := c.visible(ch)
		if !showAll && !(ch.Prompt.Text != "" && vis) {
			continue
		}
		menu.Items = append(menu.Items, c.menuItem(ch, vis))
	}
	return menu, true
}

// visible reports whether n currently has a prompt satisfying its own
// condition and every enclosing if-block/menu visibility condition
// inherited down through VisibleIf.
func (c *Context) visible(n *kconfig.Node) bool {
	if n.Prompt.Text == "" {
		return false
	}
	if n.Prompt.Condition != nil && n.Prompt.Condition.Eval(c) == kconfig.No {
		return false
	}
	if n.VisibleIf != nil && n.VisibleIf.Eval(c) == kconfig.No {
		return false
	}
	return true
}

// isScreenBoundary reports whether n opens its own menu screen: children
// nested inside one are rendered only when that screen's own GetMenu call
// is made, not flattened into the enclosing listing.
func isScreenBoundary(n *kconfig.Node) bool {
	switch n.Kind {
	case kconfig.KindMain, kconfig.KindMenuConfig, kconfig.KindChoice:
		return true
	case kconfig.KindGroup:
		return n.Prompt.Text != ""
	default:
		return false
	}
}

// suboptionDepth counts the non-screen-opening ancestors (anonymous
// if-blocks, in practice) between n and the nearest enclosing screen.
func suboptionDepth(n *kconfig.Node) int {
	depth := 0
	for p := n.Parent; p != nil && !isScreenBoundary(p); p = p.Parent {
		depth++
	}
	return depth
}

// flattenChildren lists node's item-level children, transparently
// recursing through anonymous if-block groups (which carry no prompt of
// their own and so never appear as a row) but stopping at every other
// child, including a nested menu.
func flattenChildren(node *kconfig.Node) []*kconfig.Node {
	var out []*kconfig.Node
	var walk func(n *kconfig.Node)
	walk = func(n *kconfig.Node) {
		for _, ch := range n.Children {
			if ch.Kind == kconfig.KindGroup && ch.Prompt.Text == "" {
				walk(ch)
				continue
			}
			out = append(out, ch)
		}
	}
	walk(node)
	return out
}

// children lists node's effective item-level children. A choice
// aggregates its options across every `choice NAME`/`endchoice` block
// sharing its name; anything else just flattens through if-blocks.
func (c *Context) children(node *kconfig.Node) []*kconfig.Node {
	if node.Kind == kconfig.KindChoice {
		return c.choiceChildren(node)
	}
	return flattenChildren(node)
}

// choiceChildren merges a choice's options across every location sharing
// its name: the queried location's own options always appear, other
// locations' options appear only for names not already present, so two
// `choice FOO` blocks that both declare the same option don't duplicate it.
func (c *Context) choiceChildren(node *kconfig.Node) []*kconfig.Node {
	added := map[string]bool{}
	var result []*kconfig.Node

	own := flattenChildren(node)
	for _, ch := range own {
		result = append(result, ch)
		if ch.Name != "" {
			added[ch.Name] = true
		}
	}

	for _, loc := range c.tree.ChoiceNodes(node) {
		if loc == node {
			continue
		}
		for _, ch := range flattenChildren(loc) {
			if ch.Name != "" && added[ch.Name] {
				continue
			}
			result = append(result, ch)
			if ch.Name != "" {
				added[ch.Name] = true
			}
		}
	}
	return result
}

func (c *Context) menuItem(n *kconfig.Node, vis bool) MenuItem {
	item := MenuItem{
		ID:          c.NodeID(n),
		Visible:     vis,
		Loc:         lsp.Location{URI: uri.File(n.Source).String(), Range: lineRange(n.Line)},
		IsMenu:      n.Kind == kconfig.KindMenuConfig,
		HasChildren: len(c.children(n)) > 0,
		Depth:       suboptionDepth(n),
		Prompt:      n.Prompt.Text,
		Help:        n.Help,
	}

	switch n.Kind {
	case kconfig.KindConfig, kconfig.KindMenuConfig:
		item.Kind = ItemSymbol
		item.Name = n.Name
		if info, ok := c.symbols[n.Name]; ok {
			item.Type = info.typ
			item.Value = c.SymbolString(n.Name)
			item.Options = c.Assignable(n.Name)
		}
		if uv, ok := c.values[n.Name]; ok {
			item.UserValue = uv
		}
	case kconfig.KindChoice:
		item.Kind = ItemChoice
		item.Name = n.Name
		item.Value = c.choiceSelection(n)
	case kconfig.KindComment:
		item.Kind = ItemComment
	case kconfig.KindGroup:
		item.Kind = ItemMenu
	default:
		item.Kind = ItemUnknown
	}
	return item
}

// choiceSelection names the prompt of whichever option in node's choice
// is currently the selected one, or "" if none is.
func (c *Context) choiceSelection(node *kconfig.Node) string {
	for _, ch := range c.children(node) {
		if ch.Kind != kconfig.KindConfig && ch.Kind != kconfig.KindMenuConfig {
			continue
		}
		if c.SymbolTriState(ch.Name) == kconfig.Yes {
			if ch.Prompt.Text != "" {
				return ch.Prompt.Text
			}
			return ch.Name
		}
	}
	return ""
}
