package kconfig

import "testing"

func buildTestTree() *Tree {
	root := &Node{Kind: KindMain, Name: ""}
	a := &Node{Kind: KindConfig, Name: "A", Type: TypeBool}
	b := &Node{Kind: KindConfig, Name: "B", Type: TypeBool, DependsOn: &SymbolExpr{Name: "A"}}
	c := &Node{Kind: KindConfig, Name: "C", Type: TypeBool, DependsOn: &SymbolExpr{Name: "B"}}
	root.Children = []*Node{a, b, c}
	for _, n := range root.Children {
		n.Parent = root
	}

	tree := &Tree{Root: root, Symbols: map[string][]*Node{"A": {a}, "B": {b}, "C": {c}}}
	a.tree, b.tree, c.tree, root.tree = tree, tree, tree, tree
	return tree
}

func TestNodeWalkVisitsAllNodes(t *testing.T) {
	tree := buildTestTree()
	var names []string
	tree.Walk(func(n *Node) error {
		names = append(names, n.Name)
		return nil
	})
	if len(names) != 4 {
		t.Fatalf("expected 4 nodes, got %d: %v", len(names), names)
	}
}

func TestDependsOnSymbolsTransitive(t *testing.T) {
	tree := buildTestTree()
	c := tree.Symbols["C"][0]
	deps := c.DependsOnSymbols()
	if !deps["B"] || !deps["A"] {
		t.Fatalf("expected transitive deps A and B, got %v", deps)
	}
}

func TestDependsOnSymbolsNoTree(t *testing.T) {
	n := &Node{DependsOn: &SymbolExpr{Name: "X"}}
	deps := n.DependsOnSymbols()
	if !deps["X"] {
		t.Fatalf("expected direct dep even without a tree, got %v", deps)
	}
}
