package kctx

import (
	"strconv"
	"strings"

	"github.com/standardbeagle/kconfig-lsp/internal/kconfig"
)

const idSep = "@"

// NodeID renders an LSP-round-trippable opaque identifier for n, embedding
// this context's parse version so a stale ID (from before the tree was
// last reparsed) fails closed in FindNode rather than resolving to the
// wrong node after the tree shape has shifted underneath it.
func (c *Context) NodeID(n *kconfig.Node) string {
	if c.tree == nil || n == nil {
		return ""
	}

	var parts []string
	switch {
	case n == c.tree.Root:
		parts = []string{"MAINMENU"}
	case n.Kind == kconfig.KindGroup && n.Prompt.Text != "" && indexOfNode(c.tree.Menus, n) >= 0:
		parts = []string{"MENU", strconv.Itoa(indexOfNode(c.tree.Menus, n))}
	case n.Kind == kconfig.KindConfig || n.Kind == kconfig.KindMenuConfig:
		parts = []string{"SYM", n.Name, strconv.Itoa(indexOfNode(c.tree.Symbols[n.Name], n))}
	case n.Kind == kconfig.KindChoice:
		gi, ni := c.choiceIndices(n)
		parts = []string{"CHOICE", strconv.Itoa(gi), strconv.Itoa(ni)}
	case n.Kind == kconfig.KindComment:
		parts = []string{"COMMENT", strconv.Itoa(indexOfNode(c.tree.Comments, n))}
	default: // anonymous if-block group, addressed by source position
		parts = []string{"GROUP", n.Source, strconv.Itoa(n.Line)}
	}
	return strconv.Itoa(c.version) + idSep + strings.Join(parts, idSep)
}

// FindNode resolves a NodeID back to its Node, failing closed (ok=false)
// whenever the embedded version doesn't match the tree's current parse
// version: the tree has been reparsed since the ID was issued, and node
// indices may no longer mean what they meant when it was minted.
func (c *Context) FindNode(id string) (*kconfig.Node, bool) {
	if c.tree == nil || id == "" {
		return nil, false
	}
	parts := strings.Split(id, idSep)
	if len(parts) < 2 {
		return nil, false
	}
	version, err := strconv.Atoi(parts[0])
	if err != nil || version != c.version {
		return nil, false
	}

	switch parts[1] {
	case "MAINMENU":
		return c.tree.Root, true

	case "MENU":
		if len(parts) != 3 {
			return nil, false
		}
		i, err := strconv.Atoi(parts[2])
		if err != nil || i < 0 || i >= len(c.tree.Menus) {
			return nil, false
		}
		return c.tree.Menus[i], true

	case "SYM":
		if len(parts) != 4 {
			return nil, false
		}
		name := parts[2]
		i, err := strconv.Atoi(parts[3])
		if err != nil {
			return nil, false
		}
		nodes := c.tree.Symbols[name]
		if i < 0 || i >= len(nodes) {
			return nil, false
		}
		return nodes[i], true

	case "CHOICE":
		if len(parts) != 4 {
			return nil, false
		}
		gi, err1 := strconv.Atoi(parts[2])
		ni, err2 := strconv.Atoi(parts[3])
		if err1 != nil || err2 != nil || gi < 0 || gi >= len(c.choiceGroups) {
			return nil, false
		}
		g := c.choiceGroups[gi]
		if ni < 0 || ni >= len(g.nodes) {
			return nil, false
		}
		return g.nodes[ni], true

	case "COMMENT":
		if len(parts) != 3 {
			return nil, false
		}
		i, err := strconv.Atoi(parts[2])
		if err != nil || i < 0 || i >= len(c.tree.Comments) {
			return nil, false
		}
		return c.tree.Comments[i], true

	case "GROUP":
		if len(parts) != 4 {
			return nil, false
		}
		source := parts[2]
		line, err := strconv.Atoi(parts[3])
		if err != nil {
			return nil, false
		}
		var found *kconfig.Node
		_ = c.tree.Walk(func(n *kconfig.Node) error {
			if n.Kind == kconfig.KindGroup && n.Prompt.Text == "" && n.Source == source && n.Line == line {
				found = n
			}
			return nil
		})
		return found, found != nil

	default:
		return nil, false
	}
}

func indexOfNode(nodes []*kconfig.Node, n *kconfig.Node) int {
	for i, x := range nodes {
		if x == n {
			return i
		}
	}
	return -1
}

// choiceIndices returns n's position as (choice-group index, definition
// -node index within that group).
func (c *Context) choiceIndices(n *kconfig.Node) (int, int) {
	for gi, g := range c.choiceGroups {
		if ni := indexOfNode(g.nodes, n); ni >= 0 {
			return gi, ni
		}
	}
	return -1, -1
}
