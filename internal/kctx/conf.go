package kctx

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/standardbeagle/kconfig-lsp/internal/kconfig"
	"github.com/standardbeagle/kconfig-lsp/internal/lsp"
	"github.com/standardbeagle/kconfig-lsp/internal/uri"
)

// reConfEntry scans a single line for a CONFIG_X=value assignment without
// requiring the whole line to match, unlike the stricter config-loader
// pattern in internal/kconfig: a linter quick-fix or documentSymbol pass
// still wants to find the entry even alongside trailing whitespace or
// text the config loader itself would reject.
var reConfEntry = regexp.MustCompile(`^\s*(CONFIG_(\w+))\s*=("[^"]*"|\w+)`)
var reHexLit = regexp.MustCompile(`^0x[0-9a-fA-F]+$`)
var reIntLit = regexp.MustCompile(`^-?[0-9]+$`)

// ConfFile is a single .conf/.config assignment file managed by a
// Context, either the board's own defconfig or one of the user's layered
// overlay files.
type ConfFile struct {
	URI   uri.URI
	Diags []*lsp.Diagnostic
}

// NewConfFile wraps a URI as a managed conf file.
func NewConfFile(u uri.URI) *ConfFile {
	return &ConfFile{URI: u}
}

// BoardConf identifies the board defconfig, loaded ahead of a build's
// user .conf files: loading it clears every prior assignment, and the
// user files are then merged on top of it.
type BoardConf struct {
	Name string
	Arch string
	Dir  string
}

// ConfFile locates the board's defconfig file within its board directory.
func (b *BoardConf) ConfFile() *ConfFile {
	return NewConfFile(uri.File(filepath.Join(b.Dir, b.Name+"_defconfig")))
}

// ConfEntry is a single `CONFIG_X=value` line found by scanning a conf
// file's text, carrying enough location detail to drive quick-fixes.
type ConfEntry struct {
	Name       string
	Raw        string // the matched right-hand side, as written (quotes included)
	Loc        lsp.Location
	ValueRange lsp.Range
}

// Range is the span of the CONFIG_X name token.
func (e *ConfEntry) Range() lsp.Range { return e.Loc.Range }

// FullRange spans from the CONFIG_X name token through the value.
func (e *ConfEntry) FullRange() lsp.Range {
	return lsp.Range{Start: e.Loc.Range.Start, End: e.ValueRange.End}
}

// LineRange spans the entry's entire source line, including its newline,
// the range a "remove this entry" quick-fix deletes.
func (e *ConfEntry) LineRange() lsp.Range {
	line := e.Loc.Range.Start.Line
	return lsp.Range{Start: lsp.Position{Line: line}, End: lsp.Position{Line: line + 1}}
}

// IsString reports whether the raw value is a double-quoted string literal.
func (e *ConfEntry) IsString() bool {
	return strings.HasPrefix(e.Raw, `"`) && strings.HasSuffix(e.Raw, `"`) && len(e.Raw) >= 2
}

// IsHex reports whether the raw value looks like a 0x-prefixed hex literal.
func (e *ConfEntry) IsHex() bool { return reHexLit.MatchString(e.Raw) }

// IsInt reports whether the raw value looks like a decimal integer literal.
func (e *ConfEntry) IsInt() bool { return reIntLit.MatchString(e.Raw) }

// IsBool reports whether the raw value is a bare "y" or "n".
func (e *ConfEntry) IsBool() bool { return e.Raw == "y" || e.Raw == "n" }

// Value is the entry's decoded value: unquoted for strings, raw otherwise.
func (e *ConfEntry) Value() string {
	if e.IsString() {
		return e.Raw[1 : len(e.Raw)-1]
	}
	return e.Raw
}

// Type infers the symbol type this entry's literal syntax implies. A
// bare "y"/"n" is ambiguous between bool and tristate; callers compare
// against the declared symbol type rather than the other way around.
func (e *ConfEntry) Type() kconfig.Type {
	switch {
	case e.IsString():
		return kconfig.TypeString
	case e.IsHex():
		return kconfig.TypeHex
	case e.IsInt():
		return kconfig.TypeInt
	case e.IsBool():
		return kconfig.TypeBool
	default:
		return kconfig.TypeUnknown
	}
}

// Number parses a hex or int entry's numeric value.
func (e *ConfEntry) Number() (int64, bool) {
	if e.IsHex() {
		n, err := strconv.ParseInt(e.Raw[2:], 16, 64)
		return n, err == nil
	}
	if e.IsInt() {
		n, err := strconv.ParseInt(e.Raw, 10, 64)
		return n, err == nil
	}
	return 0, false
}

// Remove builds a quick-fix action that deletes this entry's line.
func (e *ConfEntry) Remove(title string) *lsp.CodeAction {
	if title == "" {
		title = "Remove entry"
	}
	action := lsp.NewCodeAction(title)
	action.Edit.Add(e.Loc.URI, lsp.RemoveTextEdit(e.LineRange()))
	return action
}

// ScanConfEntries extracts every CONFIG_X=value line from a conf file's
// raw text, tolerating surrounding whitespace and trailing garbage the
// stricter config-loader pattern would reject outright.
func ScanConfEntries(data []byte, u uri.URI) []*ConfEntry {
	var out []*ConfEntry
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		loc := reConfEntry.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		name := line[loc[4]:loc[5]] // group 2: bare name, no CONFIG_ prefix
		raw := line[loc[6]:loc[7]]  // group 3: value
		nameStart, nameEnd := loc[2], loc[3]
		valStart, valEnd := loc[6], loc[7]

		entry := &ConfEntry{
			Name: name,
			Raw:  raw,
			Loc: lsp.Location{
				URI:   u.String(),
				Range: lsp.Range{Start: lsp.Position{Line: i, Character: nameStart}, End: lsp.Position{Line: i, Character: nameEnd}},
			},
			ValueRange: lsp.Range{Start: lsp.Position{Line: i, Character: valStart}, End: lsp.Position{Line: i, Character: valEnd}},
		}
		out = append(out, entry)
	}
	return out
}

// ConfEntries scans file's current contents (editor buffer if open, else
// disk) for its CONFIG_X=value lines.
func (c *Context) ConfEntries(file *ConfFile) []*ConfEntry {
	data, err := c.loader.Read(file.URI.Filename())
	if err != nil {
		return nil
	}
	return ScanConfEntries(data, file.URI)
}

// ConfFile returns the managed conf file (board defconfig included)
// identified by u, if any.
func (c *Context) ConfFile(u uri.URI) (*ConfFile, bool) {
	for _, f := range c.AllConfFiles() {
		if uri.Equal(f.URI, u) {
			return f, true
		}
	}
	return nil, false
}

// allEntries scans every managed conf file once, returning the combined
// list (for duplicate-assignment detection) alongside each file's own
// entries (for per-file lint iteration), sharing the same *ConfEntry
// pointers between the two so identity comparisons agree.
func (c *Context) allEntries() (all []*ConfEntry, byFile map[*ConfFile][]*ConfEntry) {
	byFile = map[*ConfFile][]*ConfEntry{}
	for _, f := range c.AllConfFiles() {
		entries := c.ConfEntries(f)
		byFile[f] = entries
		all = append(all, entries...)
	}
	return all, byFile
}

func findEntry(entries []*ConfEntry, name string) *ConfEntry {
	for _, e := range entries {
		if e.Name == name {
			return e
		}
	}
	return nil
}

func entryTypeString(t kconfig.Type) string {
	if t == kconfig.TypeUnknown {
		return "unknown"
	}
	return string(t)
}
