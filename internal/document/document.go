// Package document implements the live text document model shared by the
// LSP front-end and the standalone linter: line-array-backed buffers with
// incremental edits, offset/position conversion, and a URI-keyed store
// with disk fallback. Grounded on the original Kconfig language server's
// TextDocument/DocumentStore/DocProvider classes (lsp.py).
package document

import (
	"os"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/kconfig-lsp/internal/lsp"
	"github.com/standardbeagle/kconfig-lsp/internal/uri"
)

// UnknownVersion marks a document whose version has not been assigned by
// the client yet (virtual documents created from disk, for instance).
const UnknownVersion = -1

// Document is an in-memory text buffer identified by a URI.
type Document struct {
	URI        uri.URI
	LanguageID string
	Version    int
	Modified   bool

	mu       sync.RWMutex
	lines    []string
	virtual  bool
	loaded   bool
	onChange []func(*Document)
}

// New creates a document already populated with text.
func New(u uri.URI, languageID string, version int, text string) *Document {
	d := &Document{
		URI:        u,
		LanguageID: languageID,
		Version:    version,
		virtual:    u.Scheme != "file",
	}
	d.setText(text)
	d.loaded = true
	return d
}

// OnChange registers a callback invoked whenever the document's text changes.
func (d *Document) OnChange(cb func(*Document)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onChange = append(d.onChange, cb)
}

func (d *Document) setText(text string) {
	d.mu.Lock()
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	d.lines = lines
	callbacks := append([]func(*Document){}, d.onChange...)
	d.mu.Unlock()

	for _, cb := range callbacks {
		cb(d)
	}
}

// Text returns the full buffer joined with trailing newlines.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(d.lines) == 0 {
		return ""
	}
	return strings.Join(d.lines, "\n") + "\n"
}

// Hash returns a fast content hash of the buffer's lines. Reparse
// decisions do not consult it.
func (d *Document) Hash() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	h := xxhash.New()
	for _, l := range d.lines {
		_, _ = h.WriteString(l)
		_, _ = h.WriteString("\n")
	}
	return h.Sum64()
}

// LineCount returns the number of lines in the buffer.
func (d *Document) LineCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.lines)
}

// Line returns the text of a single zero-indexed line, without its
// trailing newline. Out-of-range indices return "".
func (d *Document) Line(index int) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if index < 0 || index >= len(d.lines) {
		return ""
	}
	return d.lines[index]
}

// Offset converts a Position into a zero-based byte offset into Text().
func (d *Document) Offset(pos lsp.Position) int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	offset := 0
	for i := 0; i < pos.Line && i < len(d.lines); i++ {
		offset += len(d.lines[i]) + 1
	}
	if pos.Line < len(d.lines) {
		lineLen := len(d.lines[pos.Line])
		ch := pos.Character
		if ch > lineLen+1 {
			ch = lineLen + 1
		}
		offset += ch
	}
	return offset
}

// Pos converts a byte offset into Text() back into a Position.
func (d *Document) Pos(offset int) lsp.Position {
	d.mu.RLock()
	defer d.mu.RUnlock()

	remaining := offset
	for i, line := range d.lines {
		lineSpan := len(line) + 1
		if remaining <= lineSpan || i == len(d.lines)-1 {
			if remaining > len(line) {
				remaining = len(line)
			}
			return lsp.Position{Line: i, Character: remaining}
		}
		remaining -= lineSpan
	}
	return lsp.Position{Line: 0, Character: 0}
}

// Get extracts the text within a range, or the whole document if r is nil.
func (d *Document) Get(r *lsp.Range) string {
	if r == nil {
		return d.Text()
	}
	text := d.Text()
	start := d.Offset(r.Start)
	end := d.Offset(r.End)
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if start > end {
		start = end
	}
	extracted := text[start:end]
	if r.End.Character != 0 {
		extracted = strings.TrimSuffix(extracted, "\n")
	}
	return extracted
}

var wordChar = func(r byte) bool {
	return r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// WordAt returns the identifier-like token touching the given position.
func (d *Document) WordAt(pos lsp.Position) string {
	line := d.Line(pos.Line)
	ch := pos.Character
	if ch > len(line) {
		ch = len(line)
	}

	start := ch
	for start > 0 && wordChar(line[start-1]) {
		start--
	}
	end := ch
	for end < len(line) && wordChar(line[end]) {
		end++
	}
	return line[start:end]
}

// Replace splices newText into the buffer at r, or replaces the whole
// document when r is nil, marking the document modified.
func (d *Document) Replace(newText string, r *lsp.Range) {
	if r == nil {
		d.setText(newText)
		d.mu.Lock()
		d.Modified = true
		d.mu.Unlock()
		return
	}

	text := d.Text()
	start := d.Offset(r.Start)
	end := d.Offset(r.End)
	if start > len(text) {
		start = len(text)
	}
	if end > len(text) {
		end = len(text)
	}
	if start > end {
		start = end
	}

	spliced := text[:start] + newText + text[end:]
	d.setText(spliced)
	d.mu.Lock()
	d.Modified = true
	d.mu.Unlock()
}

// ReadFromDisk reloads a file-scheme document's contents from disk,
// resetting its version since the client no longer has authority over it.
func (d *Document) ReadFromDisk() error {
	if d.virtual {
		return nil
	}
	content, err := os.ReadFile(d.URI.Filename())
	if err != nil {
		return err
	}
	d.setText(string(content))
	d.mu.Lock()
	d.Version = UnknownVersion
	d.Modified = false
	d.loaded = true
	d.mu.Unlock()
	return nil
}

// WriteToDisk persists a file-scheme document's current buffer to disk.
func (d *Document) WriteToDisk() error {
	if d.virtual {
		return nil
	}
	err := os.WriteFile(d.URI.Filename(), []byte(d.Text()), 0644)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.Modified = false
	d.mu.Unlock()
	return nil
}

// FromDisk constructs a Document by reading a file-scheme URI's contents.
func FromDisk(u uri.URI) (*Document, error) {
	content, err := os.ReadFile(u.Filename())
	if err != nil {
		return nil, err
	}
	return New(u, languageIDFor(u), UnknownVersion, string(content)), nil
}

func languageIDFor(u uri.URI) string {
	name := u.Basename()
	switch {
	case strings.HasSuffix(name, ".conf"):
		return "properties"
	case strings.HasPrefix(name, "Kconfig"):
		return "kconfig"
	default:
		return "plaintext"
	}
}
