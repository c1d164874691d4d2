package kctx

import (
	"strings"

	"github.com/standardbeagle/kconfig-lsp/internal/kconfig"
	"github.com/standardbeagle/kconfig-lsp/internal/kerrors"
	"github.com/standardbeagle/kconfig-lsp/internal/lsp"
	"github.com/standardbeagle/kconfig-lsp/internal/uri"
)

// SymbolItem is a summary of a symbol for listing/search results, distinct
// from the richer MenuItem used for menu rendering.
type SymbolItem struct {
	Name    string       `json:"name"`
	Type    kconfig.Type `json:"type"`
	Prompt  string       `json:"prompt"`
	Visible bool         `json:"visible"`
	Help    string       `json:"help"`
}

// Symbols returns every declared symbol whose name starts with filter
// (after stripping a leading CONFIG_, if given), in declaration order.
// An empty filter returns all of them.
func (c *Context) Symbols(filter string) []*symbolInfo {
	filter = strings.TrimPrefix(filter, "CONFIG_")
	var out []*symbolInfo
	for _, name := range c.symbolOrder {
		if filter == "" || strings.HasPrefix(name, filter) {
			out = append(out, c.symbols[name])
		}
	}
	return out
}

// SymbolSearch is Symbols rendered as display-ready SymbolItems.
func (c *Context) SymbolSearch(query string) []SymbolItem {
	var out []SymbolItem
	for _, info := range c.Symbols(query) {
		out = append(out, c.symbolItem(info))
	}
	return out
}

func (c *Context) symbolItem(info *symbolInfo) SymbolItem {
	item := SymbolItem{
		Name:    info.name,
		Type:    info.typ,
		Visible: c.symbolVisible(info),
		Prompt:  firstPrompt(info),
		Help:    firstHelp(info),
	}
	if p, ok := c.visiblePrompt(info); ok {
		item.Prompt = p
	}
	return item
}

func firstPrompt(info *symbolInfo) string {
	for _, n := range info.nodes {
		if n.Prompt.Text != "" {
			return n.Prompt.Text
		}
	}
	return ""
}

func firstHelp(info *symbolInfo) string {
	for _, n := range info.nodes {
		if n.Help != "" {
			return n.Help
		}
	}
	return ""
}

func (c *Context) visiblePrompt(info *symbolInfo) (string, bool) {
	for _, n := range info.nodes {
		if n.Prompt.Text == "" {
			continue
		}
		if n.Prompt.Condition != nil && n.Prompt.Condition.Eval(c) == kconfig.No {
			continue
		}
		if n.VisibleIf != nil && n.VisibleIf.Eval(c) == kconfig.No {
			continue
		}
		return n.Prompt.Text, true
	}
	return "", false
}

func (c *Context) symbolVisible(info *symbolInfo) bool {
	_, ok := c.visiblePrompt(info)
	return ok
}

// Name returns a symbol's declared name. symbolInfo itself stays
// unexported (a handle callers pass around opaquely); this and the
// methods below are the only way internal/server reads its fields.
func (info *symbolInfo) Name() string { return info.name }

// Type returns a symbol's declared type.
func (info *symbolInfo) Type() kconfig.Type { return info.typ }

// Prompt returns a symbol's most accessible prompt: the first one whose
// condition currently holds, or (when ignoreExpr is set) simply the
// first prompt text at all, regardless of whether it would show.
func (c *Context) Prompt(info *symbolInfo, ignoreExpr bool) string {
	if ignoreExpr {
		return firstPrompt(info)
	}
	p, _ := c.visiblePrompt(info)
	return p
}

// Visible reports whether a symbol currently has a prompt satisfying its
// own visibility conditions.
func (c *Context) Visible(info *symbolInfo) bool {
	return c.symbolVisible(info)
}

// FirstHelp returns only the first non-empty help text among the
// definition nodes, for a
// completion item's single-line documentation preview.
func (info *symbolInfo) FirstHelp() string {
	return firstHelp(info)
}

// Help aggregates every definition node's non-empty help text, for a
// hover's full documentation block (distinct from FirstHelp, which a
// SymbolItem summary or completion preview uses instead).
func (info *symbolInfo) Help() string {
	var parts []string
	for _, n := range info.nodes {
		if n.Help != "" {
			parts = append(parts, n.Help)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Locations returns one Location per definition node, in declaration order.
func (info *symbolInfo) Locations() []lsp.Location {
	var out []lsp.Location
	for _, n := range info.nodes {
		out = append(out, lsp.Location{URI: uri.File(n.Source).String(), Range: lineRange(n.Line)})
	}
	return out
}

// CompletionInsertText builds the interactive completion snippet for a
// symbol: "CONFIG_NAME=" followed by a value tabstop shaped to its
// type — a choice of assignable tristate values (most permissive first),
// a quoted string tabstop, a "0x" prefix for hex, or nothing further for
// a freeform int.
func (c *Context) CompletionInsertText(info *symbolInfo) string {
	snippet := lsp.NewSnippet("CONFIG_")
	snippet.AddText(info.name)
	snippet.AddText("=")

	switch info.typ {
	case kconfig.TypeBool, kconfig.TypeTristate:
		choices := c.Assignable(info.name)
		reversed := make([]string, len(choices))
		for i, v := range choices {
			reversed[len(choices)-1-i] = v
		}
		snippet.AddChoice(reversed, lsp.NextTabstop)
	case kconfig.TypeString:
		snippet.AddText(`"`)
		snippet.AddTabstop(lsp.NextTabstop)
		snippet.AddText(`"`)
	case kconfig.TypeHex:
		snippet.AddText("0x")
	}
	return snippet.Text
}

// SymbolAt resolves a word found at a document position to a declared
// symbol, honoring the same CONFIG_-prefix convention the editor text
// itself uses: bare names in a Kconfig file, CONFIG_-prefixed names
// anywhere else (a .conf file, typically).
func (c *Context) SymbolAt(file string, word string) (*symbolInfo, bool) {
	if word == "" {
		return nil, false
	}
	if strings.HasPrefix(file, "Kconfig") || strings.Contains(file, "/Kconfig") {
		info, ok := c.symbols[word]
		return info, ok
	}
	if strings.HasPrefix(word, "CONFIG_") {
		info, ok := c.symbols[strings.TrimPrefix(word, "CONFIG_")]
		return info, ok
	}
	return nil, false
}

// Get returns the named symbol's cached metadata, if declared anywhere in
// the current tree.
func (c *Context) Get(name string) (*symbolInfo, bool) {
	info, ok := c.symbols[name]
	return info, ok
}

// Set assigns a raw value to a symbol, as if the user had typed
// CONFIG_<name>=<value> themselves. Returns a kerrors.ConfigError when
// name isn't declared anywhere in the current tree.
func (c *Context) Set(name, value string) error {
	if _, ok := c.symbols[name]; !ok {
		return kerrors.NewConfigError("symbol", errUnknownSymbol(name))
	}
	c.values[name] = value
	if !contains(c.modified, name) {
		c.modified = append(c.modified, name)
	}
	return nil
}

// Unset removes a symbol's user assignment, reverting it to whatever its
// dependency/select/default chain alone would produce.
func (c *Context) Unset(name string) {
	delete(c.values, name)
}

type unknownSymbolError string

func (e unknownSymbolError) Error() string { return "unknown symbol: " + string(e) }

func errUnknownSymbol(name string) error { return unknownSymbolError(name) }
