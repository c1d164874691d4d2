package server

import (
	"encoding/json"

	"github.com/standardbeagle/kconfig-lsp/internal/kconfig"
	"github.com/standardbeagle/kconfig-lsp/internal/lsp"
	"github.com/standardbeagle/kconfig-lsp/internal/uri"
)

// textDocumentPositionParams is the common shape shared by definition,
// hover, and completion requests.
type textDocumentPositionParams struct {
	TextDocument textDocumentIdentifier `json:"textDocument"`
	Position     lsp.Position           `json:"position"`
}

// resolvedSymbol is everything a handler needs about a symbol resolved
// at a document position, extracted up front: internal/kctx's symbolInfo
// handle stays unexported, so callers across the package boundary can
// only ever see it through Context's accessor methods, never hold it in
// a struct field of their own.
type resolvedSymbol struct {
	Name      string
	Type      kconfig.Type
	Prompt    string // ignoring visibility, for a definition/hover title
	Value     string
	Visible   bool
	Help      string
	Locations []lsp.Location
}

// getSym resolves the textDocument/position pair common to several
// handlers to the symbol touching that position in its best-fit
// context, refreshing the context first if its tree is stale.
func (s *Server) getSym(params json.RawMessage) (*resolvedSymbol, error) {
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

	return &resolvedSymbol{
		Name:      info.Name(),
		Type:      info.Type(),
		Prompt:    ctx.Prompt(info, true),
		Value:     ctx.CurrentValue(info.Name()),
		Visible:   ctx.Visible(info),
		Help:      info.Help(),
		Locations: info.Locations(),
	}, nil
}
