package kconfig

import "testing"

type fakeEval map[string]TriState

func (f fakeEval) SymbolTriState(name string) TriState { return f[name] }
func (f fakeEval) SymbolString(name string) string     { return f[name].String() }

func TestTriStateAndOr(t *testing.T) {
	if Yes.And(Mod) != Mod {
		t.Fatalf("y && m should be m")
	}
	if No.Or(Mod) != Mod {
		t.Fatalf("n || m should be m")
	}
	if Yes.Not() != No || No.Not() != Yes || Mod.Not() != Mod {
		t.Fatalf("Not() should flip y/n and leave m alone")
	}
}

func TestExprEval(t *testing.T) {
	ev := fakeEval{"A": Yes, "B": No}
	e := &AndExpr{L: &SymbolExpr{Name: "A"}, R: &NotExpr{X: &SymbolExpr{Name: "B"}}}
	if got := e.Eval(ev); got != Yes {
		t.Fatalf("A && !B = %v, want y", got)
	}
}

func TestExprCollectDeps(t *testing.T) {
	e := &OrExpr{L: &SymbolExpr{Name: "A"}, R: &AndExpr{L: &SymbolExpr{Name: "B"}, R: &NotExpr{X: &SymbolExpr{Name: "C"}}}}
	deps := make(map[string]bool)
	e.collectDeps(deps)
	for _, name := range []string{"A", "B", "C"} {
		if !deps[name] {
			t.Errorf("expected dep %s to be collected", name)
		}
	}
}

func TestCompareExprNumeric(t *testing.T) {
	ev := fakeEval{}
	e := &CompareExpr{Op: OpGreater, L: &ConstExpr{Text: "10"}, R: &ConstExpr{Text: "0x5"}}
	if e.Eval(ev) != Yes {
		t.Fatalf("10 > 0x5 should be y")
	}
}

func TestExprAndNilSafe(t *testing.T) {
	a := &SymbolExpr{Name: "A"}
	if exprAnd(nil, nil) != nil {
		t.Fatalf("exprAnd(nil, nil) should be nil")
	}
	if exprAnd(a, nil) != Expr(a) {
		t.Fatalf("exprAnd(a, nil) should return a unchanged")
	}
	combined := exprAnd(a, a)
	if _, ok := combined.(*AndExpr); !ok {
		t.Fatalf("exprAnd(a, b) should combine into an AndExpr")
	}
}
