package server

import (
	"encoding/json"

	"github.com/standardbeagle/kconfig-lsp/internal/lsp"
	"github.com/standardbeagle/kconfig-lsp/internal/uri"
)

type codeActionParams struct {
	TextDocument textDocumentIdentifier `json:"textDocument"`
	Range        lsp.Range              `json:"range"`
}

// handleCodeAction collects the quick-fix actions attached to every
// diagnostic overlapping the requested range in one of this build's
// conf files.
func (s *Server) handleCodeAction(params json.RawMessage) (interface{}, error) {
	var p codeActionParams
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

	conf, ok := ctx.ConfFile(u)
	if !ok {
		s.dbg("no conf file for %s", u.Path)
		return nil, nil
	}

	var actions []*lsp.CodeAction
	for _, diag := range conf.Diags {
		if p.Range.Overlaps(diag.Range) {
			actions = append(actions, diag.Actions...)
		}
	}
	return actions, nil
}
