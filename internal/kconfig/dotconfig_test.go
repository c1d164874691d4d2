package kconfig

import "testing"

func TestParseDotConfigSetAndUnset(t *testing.T) {
	data := []byte(`CONFIG_FOO=y
# CONFIG_BAR is not set
CONFIG_COUNT=42
CONFIG_NAME="hello"
`)
	dc, err := ParseDotConfigData(data, "test.conf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v, ok := dc.Value("FOO"); !ok || v != ValYes {
		t.Fatalf("expected FOO=y, got %q ok=%v", v, ok)
	}
	if v, ok := dc.Value("BAR"); !ok || v != ValNotSet {
		t.Fatalf("expected BAR unset sentinel, got %q ok=%v", v, ok)
	}
	if v, _ := dc.Value("COUNT"); v != "42" {
		t.Fatalf("expected COUNT=42, got %q", v)
	}
	if v, _ := dc.Value("NAME"); v != "hello" {
		t.Fatalf("expected unquoted NAME, got %q", v)
	}
	if _, ok := dc.Value("MISSING"); ok {
		t.Fatal("expected MISSING to be absent")
	}
}

func TestParseDotConfigLineNumbers(t *testing.T) {
	data := []byte("CONFIG_A=y\n\nCONFIG_B=y\n")
	dc, err := ParseDotConfigData(data, "test.conf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dc.Assignments) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(dc.Assignments))
	}
	if dc.Assignments[0].Line != 1 || dc.Assignments[1].Line != 3 {
		t.Fatalf("unexpected line numbers: %d, %d", dc.Assignments[0].Line, dc.Assignments[1].Line)
	}
}

func TestParseDotConfigDuplicates(t *testing.T) {
	data := []byte("CONFIG_A=y\n# CONFIG_A is not set\n")
	dc, err := ParseDotConfigData(data, "test.conf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dups := dc.Duplicates()
	if len(dups["A"]) != 2 {
		t.Fatalf("expected 2 duplicate assignments for A, got %d", len(dups["A"]))
	}
	if v, _ := dc.Value("A"); v != ValNotSet {
		t.Fatalf("expected last assignment to win, got %q", v)
	}
}

func TestParseDotConfigMalformedLine(t *testing.T) {
	data := []byte("INVALID_TOKEN\nCONFIG_FOO=y\n")
	dc, err := ParseDotConfigData(data, "test.conf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dc.Malformed) != 1 {
		t.Fatalf("expected 1 malformed line, got %d", len(dc.Malformed))
	}
	if dc.Malformed[0].Text != "INVALID_TOKEN" || dc.Malformed[0].Line != 1 {
		t.Fatalf("unexpected malformed entry: %#v", dc.Malformed[0])
	}
	if len(dc.Assignments) != 1 {
		t.Fatalf("expected the valid assignment to still be parsed, got %d", len(dc.Assignments))
	}
}
