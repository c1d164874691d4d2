package server

import (
	"github.com/standardbeagle/kconfig-lsp/internal/kctx"
	"github.com/standardbeagle/kconfig-lsp/internal/lsp"
	"github.com/standardbeagle/kconfig-lsp/internal/uri"
)

// publishDiags sends a textDocument/publishDiagnostics notification for
// one URI's current set of diagnostics (possibly empty, to clear a
// previously reported set).
func (s *Server) publishDiags(u uri.URI, diags []*lsp.Diagnostic) {
	if diags == nil {
		diags = []*lsp.Diagnostic{}
	}
	_ = s.rpc.Notify("textDocument/publishDiagnostics", map[string]interface{}{
		"uri":         u.String(),
		"diagnostics": diags,
	})
}

// refreshCtx reparses ctx if its tree is stale, replays its conf files
// and runs the linter, then publishes every diagnostic set it now holds:
// per conf file, a synthetic command-line bucket for diagnostics with no
// file to anchor to, and one per Kconfig-source file with a diagnostic.
func (s *Server) refreshCtx(ctx *kctx.Context) {
	ctx.Refresh()

	for _, conf := range ctx.AllConfFiles() {
		s.publishDiags(conf.URI, conf.Diags)
	}
	s.publishDiags(uri.File("command-line"), ctx.CmdDiags())

	for rawURI, diags := range ctx.KconfigDiags() {
		u, err := uri.Parse(rawURI)
		if err != nil {
			continue
		}
		s.publishDiags(u, diags)
	}
}

// createCtx builds a new managed build context rooted at root, parsed
// with env, registers it under buildURI, and returns it.
func (s *Server) createCtx(buildURI uri.URI, root string, confFiles []*kctx.ConfFile, env map[string]string) *kctx.Context {
	s.dbg("creating context %s", buildURI)
	c := kctx.NewContext(buildURI, root, confFiles, env, s.docs)
	s.ctx[buildURI.String()] = c
	return c
}
