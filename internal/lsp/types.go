// Package lsp defines the generic Language Server Protocol vocabulary
// used by the kconfig server: positions, ranges, diagnostics, code
// actions and completion/symbol scaffolding, grounded on the original
// Kconfig language server's lsp.py.
package lsp

import "fmt"

// Position is a zero-indexed line/character location in a text document.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// StartPosition is the first position in any document.
func StartPosition() Position { return Position{0, 0} }

// EndPosition is a sentinel position past the end of any realistic document.
func EndPosition() Position { return Position{999999, 999999} }

// Before reports whether p occurs strictly before o.
func (p Position) Before(o Position) bool {
	return p.Line < o.Line || (p.Line == o.Line && p.Character < o.Character)
}

// After reports whether p occurs strictly after o.
func (p Position) After(o Position) bool {
	return p.Line > o.Line || (p.Line == o.Line && p.Character > o.Character)
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Character)
}

// Range is a start (inclusive) to end (exclusive) span in a text document.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// SingleLine reports whether the range starts and ends on the same line.
func (r Range) SingleLine() bool {
	return r.Start.Line == r.End.Line
}

// UnionRange returns the smallest range containing both a and b.
func UnionRange(a, b Range) Range {
	start := a.Start
	if b.Start.Before(start) {
		start = b.Start
	}
	end := a.End
	if b.End.After(end) {
		end = b.End
	}
	return Range{Start: start, End: end}
}

// Contains reports whether r fully contains the given position.
func (r Range) Contains(p Position) bool {
	return !p.Before(r.Start) && !r.End.Before(p)
}

// ContainsRange reports whether r fully contains other.
func (r Range) ContainsRange(other Range) bool {
	return r.Contains(other.Start) && r.Contains(other.End)
}

// Overlaps reports whether r and o share any position.
func (r Range) Overlaps(o Range) bool {
	return !r.Start.After(o.End) && !o.Start.After(r.End)
}

func (r Range) String() string {
	return fmt.Sprintf("%s - %s", r.Start, r.End)
}

// Location is a range within a specific document URI.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

// CompletionItemKind mirrors the LSP CompletionItemKind enum.
type CompletionItemKind int

const (
	CompletionItemKindText          CompletionItemKind = 1
	CompletionItemKindMethod        CompletionItemKind = 2
	CompletionItemKindFunction      CompletionItemKind = 3
	CompletionItemKindConstructor   CompletionItemKind = 4
	CompletionItemKindField         CompletionItemKind = 5
	CompletionItemKindVariable      CompletionItemKind = 6
	CompletionItemKindClass         CompletionItemKind = 7
	CompletionItemKindInterface     CompletionItemKind = 8
	CompletionItemKindModule        CompletionItemKind = 9
	CompletionItemKindProperty      CompletionItemKind = 10
	CompletionItemKindUnit          CompletionItemKind = 11
	CompletionItemKindValue         CompletionItemKind = 12
	CompletionItemKindEnum          CompletionItemKind = 13
	CompletionItemKindKeyword       CompletionItemKind = 14
	CompletionItemKindSnippet       CompletionItemKind = 15
	CompletionItemKindColor         CompletionItemKind = 16
	CompletionItemKindFile          CompletionItemKind = 17
	CompletionItemKindReference     CompletionItemKind = 18
	CompletionItemKindFolder        CompletionItemKind = 19
	CompletionItemKindEnumMember    CompletionItemKind = 20
	CompletionItemKindConstant      CompletionItemKind = 21
	CompletionItemKindStruct        CompletionItemKind = 22
	CompletionItemKindEvent         CompletionItemKind = 23
	CompletionItemKindOperator      CompletionItemKind = 24
	CompletionItemKindTypeParameter CompletionItemKind = 25
)

// SymbolKind mirrors the LSP SymbolKind enum.
type SymbolKind int

const (
	SymbolKindFile          SymbolKind = 1
	SymbolKindModule        SymbolKind = 2
	SymbolKindNamespace     SymbolKind = 3
	SymbolKindPackage       SymbolKind = 4
	SymbolKindClass         SymbolKind = 5
	SymbolKindMethod        SymbolKind = 6
	SymbolKindProperty      SymbolKind = 7
	SymbolKindField         SymbolKind = 8
	SymbolKindConstructor   SymbolKind = 9
	SymbolKindEnum          SymbolKind = 10
	SymbolKindInterface     SymbolKind = 11
	SymbolKindFunction      SymbolKind = 12
	SymbolKindVariable      SymbolKind = 13
	SymbolKindConstant      SymbolKind = 14
	SymbolKindString        SymbolKind = 15
	SymbolKindNumber        SymbolKind = 16
	SymbolKindBoolean       SymbolKind = 17
	SymbolKindArray         SymbolKind = 18
	SymbolKindObject        SymbolKind = 19
	SymbolKindKey           SymbolKind = 20
	SymbolKindNull          SymbolKind = 21
	SymbolKindEnumMember    SymbolKind = 22
	SymbolKindStruct        SymbolKind = 23
	SymbolKindEvent         SymbolKind = 24
	SymbolKindOperator      SymbolKind = 25
	SymbolKindTypeParameter SymbolKind = 26
)

// InsertTextFormat mirrors the LSP InsertTextFormat enum.
type InsertTextFormat int

const (
	InsertTextFormatPlainText InsertTextFormat = 1
	InsertTextFormatSnippet   InsertTextFormat = 2
)

// FileChangeKind mirrors the LSP FileChangeType enum.
type FileChangeKind int

const (
	FileChangeCreated FileChangeKind = 1
	FileChangeChanged FileChangeKind = 2
	FileChangeDeleted FileChangeKind = 3
)

// Severity levels for Diagnostic, matching the LSP DiagnosticSeverity enum.
const (
	SeverityError       = 1
	SeverityWarning     = 2
	SeverityInformation = 3
	SeverityHint        = 4
)

// DiagnosticTag mirrors the LSP DiagnosticTag enum.
type DiagnosticTag int

const (
	DiagnosticTagUnnecessary DiagnosticTag = 1
	DiagnosticTagDeprecated  DiagnosticTag = 2
)

// DiagnosticRelatedInfo attaches a secondary location/message to a Diagnostic.
type DiagnosticRelatedInfo struct {
	Location Location `json:"location"`
	Message  string   `json:"message"`
}

// Diagnostic is a single error/warning/info/hint surfaced to the editor.
type Diagnostic struct {
	Message     string                  `json:"message"`
	Range       Range                   `json:"range"`
	Severity    int                     `json:"severity"`
	Tags        []DiagnosticTag         `json:"tags,omitempty"`
	RelatedInfo []DiagnosticRelatedInfo `json:"relatedInformation,omitempty"`
	Actions     []*CodeAction           `json:"-"`
}

// NewDiagnostic creates a diagnostic with the given severity.
func NewDiagnostic(message string, r Range, severity int) *Diagnostic {
	return &Diagnostic{Message: message, Range: r, Severity: severity}
}

// ErrDiagnostic creates an error-severity diagnostic.
func ErrDiagnostic(message string, r Range) *Diagnostic {
	return NewDiagnostic(message, r, SeverityError)
}

// WarnDiagnostic creates a warning-severity diagnostic.
func WarnDiagnostic(message string, r Range) *Diagnostic {
	return NewDiagnostic(message, r, SeverityWarning)
}

// InfoDiagnostic creates an information-severity diagnostic.
func InfoDiagnostic(message string, r Range) *Diagnostic {
	return NewDiagnostic(message, r, SeverityInformation)
}

// HintDiagnostic creates a hint-severity diagnostic.
func HintDiagnostic(message string, r Range) *Diagnostic {
	return NewDiagnostic(message, r, SeverityHint)
}

// MarkUnnecessary tags the diagnostic as referring to unnecessary code.
func (d *Diagnostic) MarkUnnecessary() {
	d.Tags = append(d.Tags, DiagnosticTagUnnecessary)
}

// AddAction attaches a quick-fix action to this diagnostic, and the
// diagnostic to the action (editors resolve the link both ways).
func (d *Diagnostic) AddAction(action *CodeAction) {
	action.Diagnostics = append(action.Diagnostics, d)
	d.Actions = append(d.Actions, action)
}

func (d *Diagnostic) String() string {
	names := [...]string{"Unknown", "Error", "Warning", "Information", "Hint"}
	name := "Unknown"
	if d.Severity >= 1 && d.Severity <= len(names)-1 {
		name = names[d.Severity]
	}
	return fmt.Sprintf("%s: %s: %s", d.Range, name, d.Message)
}

// TextEdit is a single edit applied to a TextDocument.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// RemoveTextEdit creates a TextEdit that deletes the text in the given range.
func RemoveTextEdit(r Range) TextEdit {
	return TextEdit{Range: r, NewText: ""}
}

// WorkspaceEdit collects TextEdits across one or more document URIs.
type WorkspaceEdit struct {
	Changes map[string][]TextEdit `json:"changes"`
}

// NewWorkspaceEdit creates an empty WorkspaceEdit.
func NewWorkspaceEdit() *WorkspaceEdit {
	return &WorkspaceEdit{Changes: map[string][]TextEdit{}}
}

// Add appends an edit for the given URI.
func (w *WorkspaceEdit) Add(uri string, edit TextEdit) {
	w.Changes[uri] = append(w.Changes[uri], edit)
}

// HasChanges reports whether any URI has a pending edit.
func (w *WorkspaceEdit) HasChanges() bool {
	for _, edits := range w.Changes {
		if len(edits) > 0 {
			return true
		}
	}
	return false
}

// CodeActionKind mirrors the LSP CodeActionKind string enum.
type CodeActionKind string

const (
	CodeActionQuickFix              CodeActionKind = "quickfix"
	CodeActionRefactor              CodeActionKind = "refactor"
	CodeActionRefactorExtract       CodeActionKind = "refactor.extract"
	CodeActionRefactorInline        CodeActionKind = "refactor.inline"
	CodeActionRefactorRewrite       CodeActionKind = "refactor.rewrite"
	CodeActionSource                CodeActionKind = "source"
	CodeActionSourceOrganizeImports CodeActionKind = "source.organizeImports"
	CodeActionSourceFixAll          CodeActionKind = "source.fixAll"
)

// CodeAction is a quickfix or refactoring suggestion attached to one or
// more diagnostics.
type CodeAction struct {
	Title       string         `json:"title"`
	Kind        CodeActionKind `json:"kind"`
	Diagnostics []*Diagnostic  `json:"diagnostics,omitempty"`
	Edit        *WorkspaceEdit `json:"edit,omitempty"`
	Data        interface{}    `json:"data,omitempty"`
}

// NewCodeAction creates a quickfix-kind CodeAction with the given title.
func NewCodeAction(title string) *CodeAction {
	return &CodeAction{Title: title, Kind: CodeActionQuickFix, Edit: NewWorkspaceEdit()}
}

// DocumentSymbol is a single symbol within a document's outline.
type DocumentSymbol struct {
	Name           string           `json:"name"`
	Kind           SymbolKind       `json:"kind"`
	Range          Range            `json:"range"`
	Detail         string           `json:"detail,omitempty"`
	SelectionRange Range            `json:"selectionRange"`
	Children       []DocumentSymbol `json:"children,omitempty"`
}

// NewDocumentSymbol creates a DocumentSymbol whose selection range equals its range.
func NewDocumentSymbol(name string, kind SymbolKind, r Range, detail string) DocumentSymbol {
	return DocumentSymbol{Name: name, Kind: kind, Range: r, Detail: detail, SelectionRange: r}
}

// SymbolInformation is the workspace-level counterpart to DocumentSymbol.
type SymbolInformation struct {
	Name          string     `json:"name"`
	Kind          SymbolKind `json:"kind"`
	Location      Location   `json:"location"`
	Detail        string     `json:"detail,omitempty"`
	ContainerName string     `json:"containerName,omitempty"`
}

// MarkupKind distinguishes plaintext from markdown MarkupContent.
type MarkupKind string

const (
	MarkupPlainText MarkupKind = "plaintext"
	MarkupMarkdown  MarkupKind = "markdown"
)

// MarkupContent is rich text shown in hovers and symbol details.
type MarkupContent struct {
	Kind  MarkupKind `json:"kind"`
	Value string     `json:"value"`
}

var markupEscaper = func() func(string) string {
	// Escape backtick/brace/bracket by backslash, and angle brackets as entities.
	replacer := func(s string) string {
		out := make([]byte, 0, len(s))
		for i := 0; i < len(s); i++ {
			c := s[i]
			switch c {
			case '`', '{', '}', '[', ']':
				out = append(out, '\\', c)
			case '<':
				out = append(out, []byte("&lt;")...)
			case '>':
				out = append(out, []byte("&gt;")...)
			default:
				out = append(out, c)
			}
		}
		return string(out)
	}
	return replacer
}()

// PlainText creates plaintext MarkupContent.
func PlainText(value string) *MarkupContent {
	return &MarkupContent{Kind: MarkupPlainText, Value: value}
}

// Markdown creates markdown MarkupContent.
func Markdown(value string) *MarkupContent {
	return &MarkupContent{Kind: MarkupMarkdown, Value: value}
}

// CodeMarkup creates markdown MarkupContent containing a fenced code block.
func CodeMarkup(lang, code string) *MarkupContent {
	return Markdown(fmt.Sprintf("```%s\n%s\n```", lang, code))
}

// AddText appends plain text, escaping markdown-significant characters
// when this content is markdown.
func (m *MarkupContent) AddText(text string) {
	if m.Kind == MarkupMarkdown {
		m.Value += markupEscaper(text)
	} else {
		m.Value += text
	}
}

// AddMarkdown appends preformatted markdown, promoting plaintext content
// to markdown first.
func (m *MarkupContent) AddMarkdown(md string) {
	if m.Kind == MarkupPlainText {
		m.Value = markupEscaper(m.Value)
		m.Kind = MarkupMarkdown
	}
	m.Value += md
}

// Paragraph appends a paragraph break.
func (m *MarkupContent) Paragraph() {
	m.Value += "\n\n"
}

// AddCode appends a fenced code block in the given language.
func (m *MarkupContent) AddCode(lang, code string) {
	m.AddMarkdown(fmt.Sprintf("\n```%s\n%s\n```\n", lang, code))
}

// AddLink appends a clickable markdown link.
func (m *MarkupContent) AddLink(url, text string) {
	m.AddMarkdown(fmt.Sprintf("[%s](%s)", text, url))
}

// NextTabstop requests automatic tabstop numbering in Snippet.AddTabstop.
const NextTabstop = -1

// Snippet builds an interactive LSP snippet string (tabstops/placeholders/choices).
type Snippet struct {
	Text         string
	nextTabstop  int
}

// NewSnippet creates a snippet starting with the given raw text.
func NewSnippet(value string) *Snippet {
	return &Snippet{Text: value, nextTabstop: 1}
}

// AddText appends raw text.
func (s *Snippet) AddText(text string) {
	s.Text += text
}

// AddTabstop inserts a bare tabstop, auto-numbered unless number is given.
func (s *Snippet) AddTabstop(number int) {
	if number == NextTabstop {
		number = s.nextTabstop
	}
	s.Text += fmt.Sprintf("${%d}", number)
	s.nextTabstop = number + 1
}

// AddPlaceholder inserts a tabstop pre-filled with placeholder text.
func (s *Snippet) AddPlaceholder(text string, number int) {
	if number == NextTabstop {
		number = s.nextTabstop
	}
	s.Text += fmt.Sprintf("${%d:%s}", number, text)
	s.nextTabstop = number + 1
}

// AddChoice inserts a tabstop offering a fixed list of choices.
func (s *Snippet) AddChoice(choices []string, number int) {
	if number == NextTabstop {
		number = s.nextTabstop
	}
	choiceText := ""
	if len(choices) > 0 {
		joined := ""
		for i, c := range choices {
			if i > 0 {
				joined += ","
			}
			joined += c
		}
		choiceText = "|" + joined + "|"
	}
	s.Text += fmt.Sprintf("${%d%s}", number, choiceText)
	s.nextTabstop = number + 1
}
