package kconfig

import "strings"

// parseExpr parses a dependency/default/visibility expression with the
// usual Kconfig precedence: || binds loosest, then &&, then unary !,
// then comparison operators, then parenthesised/atomic terms.
func (l *lexer) parseExpr() Expr {
	return l.parseOr()
}

func (l *lexer) parseOr() Expr {
	left := l.parseAnd()
	for l.tryConsume("||") {
		right := l.parseAnd()
		left = &OrExpr{L: left, R: right}
	}
	return left
}

func (l *lexer) parseAnd() Expr {
	left := l.parseNot()
	for l.tryConsume("&&") {
		right := l.parseNot()
		left = &AndExpr{L: left, R: right}
	}
	return left
}

func (l *lexer) parseNot() Expr {
	if l.tryConsume("!") {
		return &NotExpr{X: l.parseNot()}
	}
	return l.parseCompare()
}

func (l *lexer) parseCompare() Expr {
	left := l.parsePrimary()
	if op, ok := l.tryCompareOp(); ok {
		right := l.parsePrimary()
		return &CompareExpr{Op: op, L: left, R: right}
	}
	return left
}

func (l *lexer) tryCompareOp() (CompareOp, bool) {
	switch {
	case l.tryConsume("<="):
		return OpLessEqual, true
	case l.tryConsume(">="):
		return OpGreaterEqual, true
	case l.tryConsume("!="):
		return OpNotEqual, true
	case l.tryConsume("="):
		return OpEqual, true
	case l.tryConsume("<"):
		return OpLess, true
	case l.tryConsume(">"):
		return OpGreater, true
	}
	return 0, false
}

func (l *lexer) parsePrimary() Expr {
	if l.tryConsume("(") {
		e := l.parseExpr()
		l.mustConsume(")")
		return e
	}
	if s, ok := l.tryQuotedString(); ok {
		return &ConstExpr{Text: s}
	}

	name := l.ident()
	switch name {
	case "y":
		return &ConstExpr{Text: "y", Value: Yes, IsTri: true}
	case "m":
		return &ConstExpr{Text: "m", Value: Mod, IsTri: true}
	case "n":
		return &ConstExpr{Text: "n", Value: No, IsTri: true}
	default:
		if _, ok := parseNumber(name); ok {
			return &ConstExpr{Text: name}
		}
		return &SymbolExpr{Name: strings.TrimPrefix(name, "CONFIG_")}
	}
}
