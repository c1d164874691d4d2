package kconfig

import "strings"

// TriState is a Kconfig bool/tristate value: n < m < y.
type TriState int

const (
	No TriState = iota
	Mod
	Yes
)

func (t TriState) String() string {
	switch t {
	case Yes:
		return "y"
	case Mod:
		return "m"
	default:
		return "n"
	}
}

// And returns the weaker (more "off") of two tristate values.
func (t TriState) And(o TriState) TriState {
	if t < o {
		return t
	}
	return o
}

// Or returns the stronger (more "on") of two tristate values.
func (t TriState) Or(o TriState) TriState {
	if t > o {
		return t
	}
	return o
}

// Not inverts y<->n, leaving m unchanged.
func (t TriState) Not() TriState {
	switch t {
	case Yes:
		return No
	case No:
		return Yes
	default:
		return Mod
	}
}

// Evaluator resolves a symbol name to its current tristate/value, used
// by Expr.Eval to compute dependency and visibility expressions against
// a particular KconfigContext's assignment state.
type Evaluator interface {
	SymbolTriState(name string) TriState
	SymbolString(name string) string
}

// Expr is a parsed Kconfig dependency/default/visibility expression.
type Expr interface {
	Eval(ev Evaluator) TriState
	String() string
	collectDeps(deps map[string]bool)
}

// ConstExpr is a literal y/m/n/string/number token.
type ConstExpr struct {
	Text  string
	Value TriState
	IsTri bool
}

func (e *ConstExpr) Eval(Evaluator) TriState {
	if e.IsTri {
		return e.Value
	}
	if e.Text == "" {
		return No
	}
	return Yes
}
func (e *ConstExpr) String() string              { return e.Text }
func (e *ConstExpr) collectDeps(map[string]bool) {}

// SymbolExpr references another config symbol by name (without the
// CONFIG_ prefix).
type SymbolExpr struct {
	Name string
}

func (e *SymbolExpr) Eval(ev Evaluator) TriState { return ev.SymbolTriState(e.Name) }
func (e *SymbolExpr) String() string             { return e.Name }
func (e *SymbolExpr) collectDeps(deps map[string]bool) {
	deps[e.Name] = true
}

// NotExpr negates its operand.
type NotExpr struct {
	X Expr
}

func (e *NotExpr) Eval(ev Evaluator) TriState { return e.X.Eval(ev).Not() }
func (e *NotExpr) String() string             { return "!" + e.X.String() }
func (e *NotExpr) collectDeps(deps map[string]bool) {
	e.X.collectDeps(deps)
}

// AndExpr is a conjunction of two expressions.
type AndExpr struct {
	L, R Expr
}

func (e *AndExpr) Eval(ev Evaluator) TriState { return e.L.Eval(ev).And(e.R.Eval(ev)) }
func (e *AndExpr) String() string             { return e.L.String() + " && " + e.R.String() }
func (e *AndExpr) collectDeps(deps map[string]bool) {
	e.L.collectDeps(deps)
	e.R.collectDeps(deps)
}

// OrExpr is a disjunction of two expressions.
type OrExpr struct {
	L, R Expr
}

func (e *OrExpr) Eval(ev Evaluator) TriState { return e.L.Eval(ev).Or(e.R.Eval(ev)) }
func (e *OrExpr) String() string             { return e.L.String() + " || " + e.R.String() }
func (e *OrExpr) collectDeps(deps map[string]bool) {
	e.L.collectDeps(deps)
	e.R.collectDeps(deps)
}

// CompareOp enumerates the comparison operators usable between two values.
type CompareOp int

const (
	OpEqual CompareOp = iota
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
)

var compareOpText = map[CompareOp]string{
	OpEqual: "=", OpNotEqual: "!=", OpLess: "<",
	OpLessEqual: "<=", OpGreater: ">", OpGreaterEqual: ">=",
}

// CompareExpr compares the string values of two expressions, numerically
// when both sides parse as integers.
type CompareExpr struct {
	Op   CompareOp
	L, R Expr
}

func (e *CompareExpr) Eval(ev Evaluator) TriState {
	lv, rv := stringOf(e.L, ev), stringOf(e.R, ev)
	if compareValues(lv, rv, e.Op) {
		return Yes
	}
	return No
}

// ExprString resolves e to its string value against ev, the same way a
// CompareExpr operand is resolved. Used outside this package to compute a
// default value's textual form for non-tristate symbols.
func ExprString(e Expr, ev Evaluator) string {
	return stringOf(e, ev)
}

func stringOf(e Expr, ev Evaluator) string {
	if s, ok := e.(*SymbolExpr); ok {
		return ev.SymbolString(s.Name)
	}
	if c, ok := e.(*ConstExpr); ok {
		return c.Text
	}
	return e.String()
}

func (e *CompareExpr) String() string {
	return e.L.String() + compareOpText[e.Op] + e.R.String()
}
func (e *CompareExpr) collectDeps(deps map[string]bool) {
	e.L.collectDeps(deps)
	e.R.collectDeps(deps)
}

// exprAnd combines two (possibly nil) expressions with &&, short-circuiting
// when either side is nil.
func exprAnd(a, b Expr) Expr {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return &AndExpr{L: a, R: b}
}

func compareValues(l, r string, op CompareOp) bool {
	ln, lok := parseNumber(l)
	rn, rok := parseNumber(r)
	if lok && rok {
		switch op {
		case OpEqual:
			return ln == rn
		case OpNotEqual:
			return ln != rn
		case OpLess:
			return ln < rn
		case OpLessEqual:
			return ln <= rn
		case OpGreater:
			return ln > rn
		case OpGreaterEqual:
			return ln >= rn
		}
	}
	switch op {
	case OpEqual:
		return l == r
	case OpNotEqual:
		return l != r
	case OpLess:
		return l < r
	case OpLessEqual:
		return l <= r
	case OpGreater:
		return l > r
	case OpGreaterEqual:
		return l >= r
	}
	return false
}

func parseNumber(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		s = s[2:]
	}
	var n int64
	for _, c := range s {
		var d int64
		switch {
		case c >= '0' && c <= '9':
			d = int64(c - '0')
		case base == 16 && c >= 'a' && c <= 'f':
			d = int64(c-'a') + 10
		case base == 16 && c >= 'A' && c <= 'F':
			d = int64(c-'A') + 10
		default:
			return 0, false
		}
		n = n*int64(base) + d
	}
	if neg {
		n = -n
	}
	return n, true
}
