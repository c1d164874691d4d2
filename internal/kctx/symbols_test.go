package kctx

import "testing"

const symbolsRoot = `mainmenu "Test"

config ALPHA
	bool "Alpha"
	help
	  Help for alpha.

config ALPHA_EXTRA
	bool "Alpha Extra"

config BETA
	bool "Beta"

config HIDDEN
	bool "Hidden" if NOPE

config NOPE
	bool "Nope"
`

func TestSymbolsFilterAndOrder(t *testing.T) {
	loader := memLoader{"/root/Kconfig": symbolsRoot}
	c := newTestContext(t, loader, "/root/Kconfig", nil, nil)

	all := c.Symbols("")
	if len(all) != 5 {
		t.Fatalf("expected all 5 declared symbols, got %d", len(all))
	}
	if all[0].name != "ALPHA" || all[1].name != "ALPHA_EXTRA" {
		t.Fatalf("expected declaration order ALPHA, ALPHA_EXTRA first, got %s, %s", all[0].name, all[1].name)
	}

	filtered := c.Symbols("ALPHA")
	if len(filtered) != 2 {
		t.Fatalf("expected ALPHA and ALPHA_EXTRA to match prefix ALPHA, got %d", len(filtered))
	}

	prefixed := c.Symbols("CONFIG_BETA")
	if len(prefixed) != 1 || prefixed[0].name != "BETA" {
		t.Fatalf("expected CONFIG_ prefix to be stripped before matching, got %#v", prefixed)
	}
}

func TestSymbolSearchReportsHelpPromptAndVisibility(t *testing.T) {
	loader := memLoader{"/root/Kconfig": symbolsRoot}
	c := newTestContext(t, loader, "/root/Kconfig", nil, nil)

	results := c.SymbolSearch("ALPHA")
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	alpha := results[0]
	if alpha.Name != "ALPHA" || alpha.Prompt != "Alpha" || alpha.Help != "Help for alpha." {
		t.Fatalf("unexpected alpha summary: %#v", alpha)
	}
	if !alpha.Visible {
		t.Fatal("expected ALPHA to be visible (no failing depends on)")
	}

	hidden := c.SymbolSearch("HIDDEN")
	if len(hidden) != 1 {
		t.Fatalf("expected exactly one HIDDEN match, got %d", len(hidden))
	}
	if hidden[0].Visible {
		t.Fatal("expected HIDDEN to be invisible since its prompt condition NOPE defaults off")
	}
}

func TestSymbolAtResolvesByFileKind(t *testing.T) {
	loader := memLoader{"/root/Kconfig": symbolsRoot}
	c := newTestContext(t, loader, "/root/Kconfig", nil, nil)

	if _, ok := c.SymbolAt("/root/Kconfig", "ALPHA"); !ok {
		t.Fatal("expected a bare name to resolve in a Kconfig file")
	}
	if _, ok := c.SymbolAt("/root/drivers/Kconfig.serial", "BETA"); !ok {
		t.Fatal("expected a bare name to resolve in a Kconfig.* file")
	}
	if _, ok := c.SymbolAt("/build/app.conf", "CONFIG_BETA"); !ok {
		t.Fatal("expected a CONFIG_-prefixed name to resolve in a .conf file")
	}
	if _, ok := c.SymbolAt("/build/app.conf", "NOT_A_SYMBOL"); ok {
		t.Fatal("expected an unknown name to fail to resolve")
	}
	if _, ok := c.SymbolAt("/build/app.conf", ""); ok {
		t.Fatal("expected an empty word to fail to resolve")
	}
}

func TestSetAndUnsetSymbol(t *testing.T) {
	loader := memLoader{"/root/Kconfig": symbolsRoot}
	c := newTestContext(t, loader, "/root/Kconfig", nil, nil)

	if err := c.Set("BETA", "y"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.SymbolString("BETA"); got != "y" {
		t.Fatalf("expected BETA=y after Set, got %q", got)
	}
	if !contains(c.modified, "BETA") {
		t.Fatal("expected BETA to be recorded as modified")
	}

	c.Unset("BETA")
	if got := c.SymbolString("BETA"); got != "n" {
		t.Fatalf("expected BETA to revert to its n default after Unset, got %q", got)
	}

	if err := c.Set("GHOST", "y"); err == nil {
		t.Fatal("expected an error setting an undeclared symbol")
	}
}
