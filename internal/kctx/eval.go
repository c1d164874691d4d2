package kctx

import (
	"github.com/standardbeagle/kconfig-lsp/internal/kconfig"
)

// SymbolTriState implements kconfig.Evaluator: the tristate value an Expr
// sees when it references name. Non-bool/tristate symbols read as Yes
// when their current string value is non-empty, matching how Kconfig
// treats a string/int/hex symbol used in a boolean dependency position.
func (c *Context) SymbolTriState(name string) kconfig.TriState {
	info := c.symbols[name]
	if info == nil {
		return kconfig.No
	}
	switch info.typ {
	case kconfig.TypeBool, kconfig.TypeTristate:
		return c.triValue(info)
	default:
		if c.stringValue(info) != "" {
			return kconfig.Yes
		}
		return kconfig.No
	}
}

// SymbolString implements kconfig.Evaluator: the string value an Expr
// sees when it references name in a comparison.
func (c *Context) SymbolString(name string) string {
	info := c.symbols[name]
	if info == nil {
		return ""
	}
	switch info.typ {
	case kconfig.TypeBool, kconfig.TypeTristate:
		return c.triValue(info).String()
	default:
		return c.stringValue(info)
	}
}

// CurrentValue is SymbolString for external callers (menu rendering,
// symbol listings) that want the same current-value computation without
// importing the Evaluator interface.
func (c *Context) CurrentValue(name string) string {
	return c.SymbolString(name)
}

// ceiling is the strongest value a symbol's direct dependency allows: the
// OR of every definition node's `depends on` expression, or always Yes
// when any node carries none at all.
func (c *Context) ceiling(info *symbolInfo) kconfig.TriState {
	if info.directDep == nil {
		return kconfig.Yes
	}
	return info.directDep.Eval(c)
}

// triValue resolves a bool/tristate symbol's current value: an explicit
// user assignment (capped by its ceiling), else the first matching
// default, raised by any `select`/`imply` forcing it on, all capped by
// the ceiling in turn. A symbol mid-evaluation on the call stack (a
// dependency cycle) reads as No rather than recursing forever.
func (c *Context) triValue(info *symbolInfo) kconfig.TriState {
	if c.evalStack[info.name] {
		return kconfig.No
	}
	c.evalStack[info.name] = true
	defer delete(c.evalStack, info.name)

	ceiling := c.ceiling(info)

	var val kconfig.TriState
	if raw, ok := c.values[info.name]; ok {
		val = parseTri(raw)
	} else {
		val = c.defaultTri(info)
	}
	val = val.And(ceiling)

	for _, sel := range c.selectors[info.name] {
		selInfo := c.symbols[sel.from]
		if selInfo == nil {
			continue
		}
		strength := c.triValue(selInfo)
		if sel.cond != nil {
			strength = strength.And(sel.cond.Eval(c))
		}
		if sel.imply {
			if _, explicit := c.values[info.name]; explicit {
				continue // imply never overrides an explicit assignment
			}
		}
		val = val.Or(strength.And(ceiling))
	}
	return val
}

func parseTri(raw string) kconfig.TriState {
	switch raw {
	case "y":
		return kconfig.Yes
	case "m":
		return kconfig.Mod
	default:
		return kconfig.No
	}
}

// defaultTri evaluates the first `default` line (across every definition
// node, in source order) whose condition holds, ignoring any user value.
func (c *Context) defaultTri(info *symbolInfo) kconfig.TriState {
	for _, n := range info.nodes {
		for _, d := range n.Defaults {
			if d.Condition == nil || d.Condition.Eval(c) != kconfig.No {
				return d.Value.Eval(c)
			}
		}
	}
	return kconfig.No
}

// stringValue resolves an int/hex/string symbol's current value: the
// user assignment if any, else the first matching default's text.
func (c *Context) stringValue(info *symbolInfo) string {
	if raw, ok := c.values[info.name]; ok {
		return raw
	}
	return c.defaultString(info)
}

// defaultString is stringValue/defaultTri without considering a user
// override, used by the "redundant default" lint check to tell whether
// an explicit assignment merely restates what the tree already computes.
func (c *Context) defaultString(info *symbolInfo) string {
	switch info.typ {
	case kconfig.TypeBool, kconfig.TypeTristate:
		return c.defaultTri(info).String()
	default:
		for _, n := range info.nodes {
			for _, d := range n.Defaults {
				if d.Condition == nil || d.Condition.Eval(c) != kconfig.No {
					return kconfig.ExprString(d.Value, c)
				}
			}
		}
		return ""
	}
}

// Assignable returns the set of values a bool/tristate symbol could
// legally take given its current ceiling, used to drive completion and
// the menu item's options list. Returns nil for non-tristate types.
func (c *Context) Assignable(name string) []string {
	info := c.symbols[name]
	if info == nil {
		return nil
	}
	switch info.typ {
	case kconfig.TypeBool:
		if c.ceiling(info) == kconfig.Yes {
			return []string{"n", "y"}
		}
		return []string{"n"}
	case kconfig.TypeTristate:
		switch c.ceiling(info) {
		case kconfig.Yes:
			return []string{"n", "m", "y"}
		case kconfig.Mod:
			return []string{"n", "m"}
		default:
			return []string{"n"}
		}
	default:
		return nil
	}
}

// missingDeps returns the conjuncts of a symbol's direct dependency that
// currently evaluate false, used to build the "missing dependencies"
// message and quick-fixes in the assignment-not-propagated check.
func (c *Context) missingDeps(info *symbolInfo) []kconfig.Expr {
	var out []kconfig.Expr
	for _, d := range splitAnd(info.directDep) {
		if d.Eval(c) == kconfig.No {
			out = append(out, d)
		}
	}
	return out
}

func splitAnd(e kconfig.Expr) []kconfig.Expr {
	if e == nil {
		return nil
	}
	if a, ok := e.(*kconfig.AndExpr); ok {
		return append(splitAnd(a.L), splitAnd(a.R)...)
	}
	return []kconfig.Expr{e}
}
