package kconfig

import "testing"

type memLoader map[string]string

func (m memLoader) Read(path string) ([]byte, error) {
	if data, ok := m[path]; ok {
		return []byte(data), nil
	}
	return nil, errNotFound(path)
}

type errNotFound string

func (e errNotFound) Error() string { return "file not found: " + string(e) }

func firstSym(tree *Tree, name string) *Node {
	nodes := tree.Symbols[name]
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func TestParseSimpleMenu(t *testing.T) {
	loader := memLoader{
		"/root/Kconfig": `mainmenu "Test"

config FOO
	bool "Enable foo"
	default y

config BAR
	bool "Enable bar"
	depends on FOO
	help
	  Bar needs foo.
`,
	}

	tree, err := Parse("/root/Kconfig", loader, nil)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if tree.Root.Kind != KindMain {
		t.Fatalf("expected root kind main, got %v", tree.Root.Kind)
	}
	if len(tree.Root.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(tree.Root.Children))
	}

	foo := firstSym(tree, "FOO")
	if foo == nil || foo.Type != TypeBool {
		t.Fatalf("expected FOO bool symbol, got %#v", foo)
	}
	if len(foo.Defaults) != 1 {
		t.Fatalf("expected one default on FOO, got %d", len(foo.Defaults))
	}

	bar := firstSym(tree, "BAR")
	if bar == nil {
		t.Fatal("expected BAR symbol")
	}
	if bar.DependsOn == nil {
		t.Fatal("expected BAR to carry a dependency expression")
	}
	if bar.Help == "" {
		t.Fatal("expected BAR help text to be captured")
	}
}

func TestParseMenuAndIfNesting(t *testing.T) {
	loader := memLoader{
		"/root/Kconfig": `mainmenu "Test"

menu "Networking"

if ARCH_X86

config NET
	bool "Network support"

endif

endmenu
`,
	}

	tree, err := Parse("/root/Kconfig", loader, nil)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	menu := tree.Root.Children[0]
	if menu.Kind != KindGroup {
		t.Fatalf("expected group kind for menu, got %v", menu.Kind)
	}
	if len(tree.Menus) != 1 {
		t.Fatalf("expected menu registered in tree.Menus, got %d", len(tree.Menus))
	}
	ifBlock := menu.Children[0]
	if ifBlock.VisibleIf == nil {
		t.Fatal("expected if-block to carry a visibility expression")
	}

	net := firstSym(tree, "NET")
	if net == nil {
		t.Fatal("expected NET symbol")
	}
	if net.VisibleIf == nil {
		t.Fatal("expected NET to inherit the enclosing if-block's visibility condition")
	}
	if net.DependsOn == nil {
		t.Fatal("expected NET to inherit the enclosing if-block's condition as a dependency too")
	}
}

func TestParseSource(t *testing.T) {
	loader := memLoader{
		"/root/Kconfig": `mainmenu "Test"

source "sub/Kconfig"
`,
		"/root/sub/Kconfig": `config SUB
	bool "Sub option"
`,
	}

	tree, err := Parse("/root/Kconfig", loader, nil)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if firstSym(tree, "SUB") == nil {
		t.Fatal("expected SUB symbol pulled in via source")
	}
	if len(tree.Files) != 2 {
		t.Fatalf("expected 2 files tracked, got %d: %v", len(tree.Files), tree.Files)
	}
}

func TestParseSelectAndRange(t *testing.T) {
	loader := memLoader{
		"/root/Kconfig": `mainmenu "Test"

config FOO
	bool "Foo"
	select BAR

config BAR
	bool "Bar"

config COUNT
	int "Count"
	range 0 10
`,
	}

	tree, err := Parse("/root/Kconfig", loader, nil)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	foo := firstSym(tree, "FOO")
	if len(foo.Selects) != 1 || foo.Selects[0].Name != "BAR" {
		t.Fatalf("expected FOO to select BAR, got %#v", foo.Selects)
	}

	count := firstSym(tree, "COUNT")
	if len(count.Ranges) != 1 {
		t.Fatalf("expected one range constraint on COUNT, got %d", len(count.Ranges))
	}
}

func TestParseMultipleDefinitionNodes(t *testing.T) {
	loader := memLoader{
		"/root/Kconfig": `mainmenu "Test"

config FOO
	bool "Foo in root"

source "sub/Kconfig"
`,
		"/root/sub/Kconfig": `config FOO
	bool "Foo in sub"
`,
	}

	tree, err := Parse("/root/Kconfig", loader, nil)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	nodes := tree.Symbols["FOO"]
	if len(nodes) != 2 {
		t.Fatalf("expected 2 definition nodes for FOO, got %d", len(nodes))
	}
}

func TestParseNamedChoiceMergesAcrossBlocks(t *testing.T) {
	loader := memLoader{
		"/root/Kconfig": `mainmenu "Test"

choice CPU_FAMILY
	prompt "CPU family"

config CPU_ARM
	bool "ARM"

endchoice

choice CPU_FAMILY

config CPU_RISCV
	bool "RISC-V"

endchoice
`,
	}

	tree, err := Parse("/root/Kconfig", loader, nil)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	nodes := tree.Choices["CPU_FAMILY"]
	if len(nodes) != 2 {
		t.Fatalf("expected 2 choice blocks merged under CPU_FAMILY, got %d", len(nodes))
	}
}

func TestParseMissingMainmenuErrors(t *testing.T) {
	loader := memLoader{"/root/Kconfig": "config FOO\n\tbool \"Foo\"\n"}
	_, err := Parse("/root/Kconfig", loader, nil)
	if err == nil {
		t.Fatal("expected an error when there's content but endCurrent has nothing to attach to")
	}
}
