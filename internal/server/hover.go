package server

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/standardbeagle/kconfig-lsp/internal/lsp"
	"github.com/standardbeagle/kconfig-lsp/internal/uri"
)

// handleHover builds a markdown hover: the symbol's prompt as a title,
// its type and current value, its aggregated help text, and — for a
// Kconfig-source hover outside any build's own .conf files — a link back
// to the build's first .conf file, so the reader can jump to where the
// symbol is actually configured.
func (s *Server) handleHover(params json.RawMessage) (interface{}, error) {
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
	}

	word := ""
	if doc, derr := s.docs.Get(u, false); derr == nil {
		word = doc.WordAt(p.Position)
	}
	info, ok := ctx.SymbolAt(u.Filename(), word)
	if !ok {
		return nil, nil
	}

	contents := lsp.PlainText("")
	if prompt := ctx.Prompt(info, true); prompt != "" {
		contents.AddText(prompt)
	}
	contents.Paragraph()
	contents.AddMarkdown(fmt.Sprintf("Type: `%s`", info.Type()))
	if value := ctx.CurrentValue(info.Name()); value != "" {
		contents.AddMarkdown("\nValue: `" + value + "`")
	}
	contents.Paragraph()

	if help := info.Help(); help != "" {
		contents.AddText(strings.ReplaceAll(help, "\n", " "))
	}

	if !hasConfSuffix(u.Basename()) && len(ctx.ConfFiles) != 0 {
		contents.Paragraph()
		contents.AddMarkdown(fmt.Sprintf("_Kconfig environment: [%s](%s)_",
			lastTwoSegments(ctx.URI.Path), ctx.ConfFiles[0].URI.String()))
	}

	return map[string]interface{}{"contents": contents}, nil
}

// lastTwoSegments names the last two path components of p, the Go
// equivalent of the original's relpath(p, join(p, "..", "..")) trick for
// showing a short, recognizable build-directory label.
func lastTwoSegments(p string) string {
	parent, last := path.Split(strings.TrimRight(p, "/"))
	parent = strings.TrimRight(parent, "/")
	_, parentLast := path.Split(parent)
	if parentLast == "" {
		return last
	}
	return parentLast + "/" + last
}
