package kctx

import "testing"

const nodeIDRoot = `mainmenu "Test"

menu "Net"

config NET
	bool "Network"

endmenu

choice CPU
	prompt "CPU"

config CPU_ARM
	bool "ARM"

endchoice

comment "a note"
`

func TestNodeIDRoundTrip(t *testing.T) {
	loader := memLoader{"/root/Kconfig": nodeIDRoot}
	c := newTestContext(t, loader, "/root/Kconfig", nil, nil)

	menu := c.tree.Menus[0]
	id := c.NodeID(menu)
	got, ok := c.FindNode(id)
	if !ok || got != menu {
		t.Fatalf("expected MENU id to round-trip, got ok=%v node=%v", ok, got)
	}

	sym := c.tree.Symbols["NET"][0]
	id = c.NodeID(sym)
	got, ok = c.FindNode(id)
	if !ok || got != sym {
		t.Fatalf("expected SYM id to round-trip, got ok=%v node=%v", ok, got)
	}

	choiceNode := c.tree.Choices["CPU"][0]
	id = c.NodeID(choiceNode)
	got, ok = c.FindNode(id)
	if !ok || got != choiceNode {
		t.Fatalf("expected CHOICE id to round-trip, got ok=%v node=%v", ok, got)
	}

	comment := c.tree.Comments[0]
	id = c.NodeID(comment)
	got, ok = c.FindNode(id)
	if !ok || got != comment {
		t.Fatalf("expected COMMENT id to round-trip, got ok=%v node=%v", ok, got)
	}

	root := c.tree.Root
	id = c.NodeID(root)
	got, ok = c.FindNode(id)
	if !ok || got != root {
		t.Fatalf("expected MAINMENU id to round-trip, got ok=%v node=%v", ok, got)
	}
}

func TestNodeIDFailsClosedOnStaleVersion(t *testing.T) {
	loader := memLoader{"/root/Kconfig": nodeIDRoot}
	c := newTestContext(t, loader, "/root/Kconfig", nil, nil)

	id := c.NodeID(c.tree.Symbols["NET"][0])

	c.Invalidate()
	c.Refresh()

	if _, ok := c.FindNode(id); ok {
		t.Fatal("expected a node ID minted before a reparse to fail to resolve")
	}
}

func TestNodeIDUnknown(t *testing.T) {
	loader := memLoader{"/root/Kconfig": nodeIDRoot}
	c := newTestContext(t, loader, "/root/Kconfig", nil, nil)

	if _, ok := c.FindNode("not-a-real-id"); ok {
		t.Fatal("expected a malformed ID to fail to resolve")
	}
	if _, ok := c.FindNode(""); ok {
		t.Fatal("expected an empty ID to fail to resolve")
	}
}
