package server

import (
	"encoding/json"
	"strings"

	"github.com/standardbeagle/kconfig-lsp/internal/lsp"
	"github.com/standardbeagle/kconfig-lsp/internal/uri"
)

// completionItem is the wire shape of one textDocument/completion result.
type completionItem struct {
	Label            string                 `json:"label"`
	Kind             lsp.CompletionItemKind `json:"kind"`
	Detail           string                 `json:"detail"`
	Documentation    string                 `json:"documentation"`
	InsertText       string                 `json:"insertText"`
	InsertTextFormat lsp.InsertTextFormat   `json:"insertTextFormat"`
}

// handleCompletion offers every symbol matching the word under the
// cursor, correcting a partial "CONFIG_" prefix the same way the
// original editor integration does: typing "TES" completes as though
// the user had typed "CONFIG_TES", so the prefix never has to be typed
// out by hand. Until the whole "CONFIG_" prefix has been typed (an empty
// prefix included), only currently visible symbols are offered and the
// list is marked incomplete, so the client re-queries as the user types;
// from then on non-visible symbols are offered too and the list is complete.
func (s *Server) handleCompletion(params json.RawMessage) (interface{}, error) {
	var p textDocumentPositionParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	u, err := uri.Parse(p.TextDocument.URI)
	if err != nil {
		return nil, nil
	}

	ctx := s.bestCtx(u)
	if ctx == nil {
		s.dbg("no context for %s", u.Path)
		return nil, nil
	}
	if !ctx.Valid() {
		s.refreshCtx(ctx)
		if !ctx.Valid() {
			return nil, nil
		}
	}

	doc, derr := s.docs.Get(u, false)
	if derr != nil {
		s.dbg("unknown document")
		return nil, nil
	}

	line := doc.Line(p.Position.Line)
	showNonVisible := false
	word := ""
	if line != "" {
		ch := p.Position.Character
		if ch > len(line) {
			ch = len(line)
		}
		prefix := line[:ch]
		word = strings.TrimLeft(prefix, " \t")

		if len(word) > 0 {
			common := commonPrefix(word, "CONFIG_")
			if len(common) < len("CONFIG_") {
				word = "CONFIG_" + word[len(common):]
			} else {
				showNonVisible = true
			}
		}
	}

	var items []completionItem
	for _, info := range ctx.Symbols(word) {
		visible := ctx.Visible(info)
		if !visible && !showNonVisible {
			continue
		}
		help := info.FirstHelp()
		if help == "" {
			help = " "
		} else {
			help = strings.ReplaceAll(help, "\n", " ")
		}
		items = append(items, completionItem{
			Label:            "CONFIG_" + info.Name(),
			Kind:             lsp.CompletionItemKindVariable,
			Detail:           string(info.Type()),
			Documentation:    help,
			InsertText:       ctx.CompletionInsertText(info),
			InsertTextFormat: lsp.InsertTextFormatSnippet,
		})
	}

	s.dbg("completion filter %q: %d results", word, len(items))
	return map[string]interface{}{
		"isIncomplete": !showNonVisible,
		"items":        items,
	}, nil
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}
