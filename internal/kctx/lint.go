package kctx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/standardbeagle/kconfig-lsp/internal/kconfig"
	"github.com/standardbeagle/kconfig-lsp/internal/lsp"
)

// lint validates every user .conf file's entries against the current
// tree and value state, running the six checks in order against each
// entry and stopping at the first one that fires: an entry can only ever
// carry one diagnostic, the one that explains the most specific problem
// with it.
func (c *Context) lint() {
	_, byFile := c.allEntries()
	var all []*ConfEntry
	for _, f := range c.AllConfFiles() {
		all = append(all, byFile[f]...)
	}

	for _, file := range c.ConfFiles {
		entries := byFile[file]
		for _, entry := range entries {
			info, ok := c.symbols[entry.Name]
			if !ok {
				continue
			}

			if diag, hit := checkUndefined(entry, info); hit {
				file.Diags = append(file.Diags, diag)
				continue
			}
			if diag, hit := checkType(entry, info); hit {
				file.Diags = append(file.Diags, diag)
				continue
			}
			if diag, hit := c.checkAssignment(entry, info, entries); hit {
				file.Diags = append(file.Diags, diag)
				continue
			}
			if diag, hit := checkVisibility(entry, info); hit {
				file.Diags = append(file.Diags, diag)
				continue
			}
			if diag, hit := c.checkDefaults(entry, info); hit {
				file.Diags = append(file.Diags, diag)
				continue
			}
			if diag, hit := checkMultipleAssignments(entry, all); hit {
				file.Diags = append(file.Diags, diag)
				continue
			}
		}
	}
}

// checkUndefined flags an entry for a symbol that has a config block in
// the tree but was never given a type. Names with no config block at all
// are skipped by lint before any check runs.
func checkUndefined(entry *ConfEntry, info *symbolInfo) (*lsp.Diagnostic, bool) {
	if info.typ != kconfig.TypeUnknown {
		return nil, false
	}
	return lsp.ErrDiagnostic(fmt.Sprintf("Undefined symbol CONFIG_%s", info.name), entry.FullRange()), true
}

// checkType flags an entry whose literal syntax doesn't match the
// symbol's declared type, offering a numeric-base conversion quick-fix
// between hex and int when that's the only mismatch.
func checkType(entry *ConfEntry, info *symbolInfo) (*lsp.Diagnostic, bool) {
	entryType := entry.Type()
	if entryType == info.typ {
		return nil, false
	}
	diag := lsp.ErrDiagnostic(fmt.Sprintf("Invalid type. Expected %s", entryTypeString(info.typ)), entry.FullRange())

	if (info.typ == kconfig.TypeHex || info.typ == kconfig.TypeInt) && (entryType == kconfig.TypeHex || entryType == kconfig.TypeInt) {
		if n, ok := entry.Number(); ok {
			var newText string
			if info.typ == kconfig.TypeHex {
				newText = fmt.Sprintf("0x%x", n)
			} else {
				newText = strconv.FormatInt(n, 10)
			}
			action := lsp.NewCodeAction(fmt.Sprintf("Convert value to %s", info.typ))
			action.Edit.Add(entry.Loc.URI, lsp.TextEdit{Range: entry.ValueRange, NewText: newText})
			diag.AddAction(action)
		}
	}
	return diag, true
}

// checkAssignment flags an entry whose value didn't actually take effect:
// either its symbol's computed value differs from what was assigned, or
// (downgraded to a hint) the assignment merely restates an already-off
// default. Missing dependency conjuncts get a quick-fix enabling them.
func (c *Context) checkAssignment(entry *ConfEntry, info *symbolInfo, fileEntries []*ConfEntry) (*lsp.Diagnostic, bool) {
	userValue := c.values[info.name]
	current := c.SymbolString(info.name)

	var msg string
	severity := lsp.SeverityWarning
	hint := false

	switch {
	case userValue == current:
		if current != "n" {
			return nil, false
		}
		msg = fmt.Sprintf("CONFIG_%s was already disabled.", info.name)
		severity = lsp.SeverityHint
		hint = true
	case current != "":
		msg = fmt.Sprintf("CONFIG_%s was assigned %s, but got %s.", info.name, entry.Raw, current)
	default:
		msg = fmt.Sprintf("CONFIG_%s couldn't be set.", info.name)
	}

	var actions []*lsp.CodeAction
	// missingDeps already returns conjuncts outermost-first (splitAnd
	// recurses the AndExpr's L side, built from the ancestor condition,
	// before R, the node's own depends-on), so fixes are emitted in that
	// same order: the outermost dependency first.
	deps := c.missingDeps(info)
	if len(deps) > 0 {
		var parts []string
		for _, d := range deps {
			parts = append(parts, d.String())
		}
		msg += " Missing dependencies:\n" + strings.Join(parts, " && ")

		type depFix struct {
			name string
			edit lsp.TextEdit
		}
		var fixes []depFix
		for _, d := range deps {
			se, ok := d.(*kconfig.SymbolExpr)
			if !ok {
				continue
			}
			depInfo := c.symbols[se.Name]
			if depInfo == nil || depInfo.typ != kconfig.TypeBool {
				continue
			}
			if depEntry := findEntry(fileEntries, se.Name); depEntry != nil {
				fixes = append(fixes, depFix{name: se.Name, edit: lsp.TextEdit{Range: depEntry.ValueRange, NewText: "y"}})
			} else {
				start := entry.LineRange().Start
				fixes = append(fixes, depFix{name: se.Name, edit: lsp.TextEdit{
					Range:   lsp.Range{Start: start, End: start},
					NewText: fmt.Sprintf("CONFIG_%s=y\n", se.Name),
				}})
			}
		}
		if len(fixes) == 1 {
			a := lsp.NewCodeAction(fmt.Sprintf("Enable CONFIG_%s to resolve dependency", fixes[0].name))
			a.Edit.Add(entry.Loc.URI, fixes[0].edit)
			actions = append(actions, a)
		} else if len(fixes) > 1 {
			a := lsp.NewCodeAction(fmt.Sprintf("Enable %d entries to resolve dependencies", len(fixes)))
			for _, f := range fixes {
				a.Edit.Add(entry.Loc.URI, f.edit)
			}
			actions = append(actions, a)
		}
	}
	actions = append(actions, entry.Remove(""))

	diag := lsp.NewDiagnostic(msg, entry.Range(), severity)
	if hint {
		diag.MarkUnnecessary()
	}
	for _, a := range actions {
		diag.AddAction(a)
	}
	return diag, true
}

// checkVisibility flags an entry for a symbol with no prompt at all: it
// can never be set interactively, so an assignment in a .conf file is
// always either a no-op or relying on an implementation detail.
func checkVisibility(entry *ConfEntry, info *symbolInfo) (*lsp.Diagnostic, bool) {
	for _, n := range info.nodes {
		if n.Prompt.Text != "" {
			return nil, false
		}
	}
	diag := lsp.WarnDiagnostic(fmt.Sprintf("Symbol CONFIG_%s cannot be set (has no prompt)", info.name), entry.FullRange())
	diag.AddAction(entry.Remove(""))
	return diag, true
}

// checkDefaults flags an entry that merely restates the value the symbol
// would already take with no assignment at all.
func (c *Context) checkDefaults(entry *ConfEntry, info *symbolInfo) (*lsp.Diagnostic, bool) {
	userValue, ok := c.values[info.name]
	if !ok {
		return nil, false
	}
	if c.defaultString(info) != userValue {
		return nil, false
	}
	diag := lsp.HintDiagnostic(fmt.Sprintf("Value is %s by default", entry.Raw), entry.FullRange())
	diag.MarkUnnecessary()
	diag.AddAction(entry.Remove("Remove redundant entry"))
	return diag, true
}

// checkMultipleAssignments flags every assignment to a symbol after the
// first across all managed conf files (board defconfig included),
// downgraded to a hint with a removal quick-fix when the value didn't
// even change.
func checkMultipleAssignments(entry *ConfEntry, all []*ConfEntry) (*lsp.Diagnostic, bool) {
	var matching []*ConfEntry
	for _, e := range all {
		if e.Name == entry.Name {
			matching = append(matching, e)
		}
	}
	if len(matching) <= 1 {
		return nil, false
	}
	first := matching[0]
	if first == entry {
		return nil, false
	}

	diag := lsp.WarnDiagnostic(
		fmt.Sprintf("CONFIG_%s set more than once. Old value %s, new value %s.", entry.Name, first.Raw, entry.Raw),
		entry.FullRange(),
	)
	for _, e := range matching {
		if e == entry {
			continue
		}
		diag.RelatedInfo = append(diag.RelatedInfo, lsp.DiagnosticRelatedInfo{
			Location: e.Loc,
			Message:  fmt.Sprintf("Already set to %s here", e.Raw),
		})
	}
	if first.Raw == entry.Raw {
		diag.MarkUnnecessary()
		diag.Severity = lsp.SeverityHint
		diag.AddAction(entry.Remove("Remove redundant entry"))
	}
	return diag, true
}
