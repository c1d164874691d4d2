package server

import (
	"encoding/json"

	"github.com/standardbeagle/kconfig-lsp/internal/lsp"
	"github.com/standardbeagle/kconfig-lsp/internal/uri"
)

type documentSymbolParams struct {
	TextDocument textDocumentIdentifier `json:"textDocument"`
}

// handleDocumentSymbol lists every CONFIG_X=value entry in a .conf file
// as an outline symbol, annotated with the declaring symbol's prompt
// where one resolves.
func (s *Server) handleDocumentSymbol(params json.RawMessage) (interface{}, error) {
	var p documentSymbolParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	u, err := uri.Parse(p.TextDocument.URI)
	if err != nil {
		return nil, nil
	}

	ctx := s.bestCtx(u)
	if ctx == nil {
		return nil, nil
	}
	file, ok := ctx.ConfFile(u)
	if !ok {
		return nil, nil
	}

	var out []lsp.DocumentSymbol
	for _, e := range ctx.ConfEntries(file) {
		var prompt string
		if info, ok := ctx.Get(e.Name); ok {
			prompt = ctx.Prompt(info, true)
		}
		out = append(out, lsp.NewDocumentSymbol("CONFIG_"+e.Name, lsp.SymbolKindProperty, e.FullRange(), prompt))
	}
	return out, nil
}

type workspaceSymbolParams struct {
	Query string `json:"query"`
}

// handleWorkspaceSymbol searches the most recently touched context (not
// best_ctx — there's no document URI to narrow the search with here)
// for symbols whose name matches query.
func (s *Server) handleWorkspaceSymbol(params json.RawMessage) (interface{}, error) {
	var p workspaceSymbolParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	ctx := s.lastCtx()
	if ctx == nil || !ctx.Valid() {
		return nil, nil
	}

	var out []lsp.SymbolInformation
	for _, info := range ctx.Symbols(p.Query) {
		locs := info.Locations()
		if len(locs) == 0 {
			continue
		}
		out = append(out, lsp.SymbolInformation{
			Name:     "CONFIG_" + info.Name(),
			Kind:     lsp.SymbolKindProperty,
			Location: locs[0],
			Detail:   ctx.Prompt(info, true),
		})
	}
	return out, nil
}
