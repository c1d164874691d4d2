// Package server implements the Kconfig language server: one handler per
// LSP request/notification, the best_ctx/get_ctx build-selection policy,
// and the publish-diagnostics lifecycle tying internal/kctx's contexts to
// the client. Grounded on the original Kconfig language server's
// KconfigServer class (kconfiglsp.py) and LSPServer base (lsp.py).
//
// This is the only package that translates internal/kerrors' domain
// error taxonomy into internal/rpc's wire-facing *rpc.Error: internal/kctx
// and internal/kconfig never import internal/rpc.
package server

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/standardbeagle/kconfig-lsp/internal/debug"
	"github.com/standardbeagle/kconfig-lsp/internal/document"
	"github.com/standardbeagle/kconfig-lsp/internal/kctx"
	"github.com/standardbeagle/kconfig-lsp/internal/rpc"
	"github.com/standardbeagle/kconfig-lsp/internal/uri"
	"github.com/standardbeagle/kconfig-lsp/internal/version"
)

const serverName = "zephyr-kconfig"

// Server is a single IDE instance's Kconfig language server: one
// document store and zero or more managed build contexts, each
// identified by its build-directory URI.
type Server struct {
	rpc  *rpc.Server
	docs *document.Store

	rootURI          string
	workspaceFolders []WorkspaceFolder
	trace            string
	capabilityID     int

	mainURI     string
	accessCount int
	ctx         map[string]*kctx.Context
}

// WorkspaceFolder names one root folder of a multi-root workspace.
type WorkspaceFolder struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

// New creates a Server wired atop rpc for transport and docs for buffer
// management, and registers every handler it implements.
func New(rpcServer *rpc.Server, docs *document.Store) *Server {
	s := &Server{
		rpc:   rpcServer,
		docs:  docs,
		trace: "off",
		ctx:   map[string]*kctx.Context{},
	}
	s.registerHandlers()
	return s
}

func (s *Server) registerHandlers() {
	s.rpc.Handle("$/setTrace", s.handleSetTrace)
	s.rpc.Handle("$/cancelRequest", noop)
	s.rpc.Handle("$/progress", noop)
	s.rpc.Handle("shutdown", s.handleShutdown)
	s.rpc.Handle("initialize", s.handleInitialize)
	s.rpc.Handle("initialized", s.handleInitialized)

	s.rpc.Handle("textDocument/didOpen", s.handleDidOpen)
	s.rpc.Handle("textDocument/didChange", s.handleDidChange)
	s.rpc.Handle("textDocument/didClose", s.handleDidClose)
	s.rpc.Handle("workspace/didChangeWatchedFiles", s.handleDidChangeWatchedFiles)

	s.rpc.Handle("kconfig/addBuild", s.handleAddBuild)
	s.rpc.Handle("kconfig/removeBuild", s.handleRemoveBuild)
	s.rpc.Handle("kconfig/setMainBuild", s.handleSetMainBuild)
	s.rpc.Handle("kconfig/getMenu", s.handleGetMenu)
	s.rpc.Handle("kconfig/setVal", s.handleSetVal)
	s.rpc.Handle("kconfig/search", s.handleSearch)

	s.rpc.Handle("textDocument/completion", s.handleCompletion)
	s.rpc.Handle("textDocument/hover", s.handleHover)
	s.rpc.Handle("textDocument/definition", s.handleDefinition)
	s.rpc.Handle("textDocument/documentSymbol", s.handleDocumentSymbol)
	s.rpc.Handle("workspace/symbol", s.handleWorkspaceSymbol)
	s.rpc.Handle("textDocument/codeAction", s.handleCodeAction)
}

func noop(json.RawMessage) (interface{}, error) { return nil, nil }

// capabilities derives the reported feature set from which handlers are
// actually registered, so the client never tries a method the server
// silently drops.
func (s *Server) capabilities() map[string]interface{} {
	has := func(method string) bool {
		_, ok := s.rpc.Handlers()[method]
		return ok
	}

	caps := map[string]interface{}{
		"hoverProvider":           has("textDocument/hover"),
		"definitionProvider":      has("textDocument/definition"),
		"documentSymbolProvider":  has("textDocument/documentSymbol"),
		"codeActionProvider":      has("textDocument/codeAction"),
		"workspaceSymbolProvider": has("workspace/symbol"),
		"textDocumentSync":        2, // incremental
	}
	if has("textDocument/completion") {
		caps["completionProvider"] = map[string]interface{}{}
	}
	return caps
}

// dbg writes to the rolling log file and, when trace is enabled, mirrors
// the message to the client via $/logTrace.
func (s *Server) dbg(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	debug.Log("server", "%s", msg)
	if s.trace != "off" {
		_ = s.rpc.Notify("$/logTrace", map[string]string{"message": msg})
	}
}

// registerCapability asynchronously announces a capability to the client
// after initialize has already returned, used for the file watchers.
func (s *Server) registerCapability(method string, options interface{}) {
	s.capabilityID++
	registration := map[string]interface{}{
		"id":              fmt.Sprintf("%d", s.capabilityID),
		"method":          method,
		"registerOptions": options,
	}
	_ = s.rpc.Request("client/registerCapability", map[string]interface{}{
		"registrations": []interface{}{registration},
	}, nil)
}

// watchFiles registers a file-system watcher for pattern; every matching
// change is reported to onFileChange regardless of which watcher fired.
func (s *Server) watchFiles(pattern string) {
	watcher := map[string]interface{}{
		"globPattern": pattern,
		"kind":        7, // created | changed | deleted
	}
	s.registerCapability("workspace/didChangeWatchedFiles", map[string]interface{}{
		"watchers": []interface{}{watcher},
	})
}

// sortedContexts lists every managed context ordered by ascending
// LastAccess, oldest first.
func (s *Server) sortedContexts() []*kctx.Context {
	out := make([]*kctx.Context, 0, len(s.ctx))
	for _, c := range s.ctx {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastAccess < out[j].LastAccess })
	return out
}

// lastCtx is the most recently accessed context, or nil if none exist.
func (s *Server) lastCtx() *kctx.Context {
	all := s.sortedContexts()
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}

// bestCtx picks the most likely owner of u: the main build's context, if
// it exists and either u isn't a .conf file or that context already
// manages it; otherwise the most recently touched context that owns the
// file (for a .conf file) or any context at all. Every resolution bumps
// the winning context's LastAccess.
func (s *Server) bestCtx(u uri.URI) *kctx.Context {
	isConfFile := hasConfSuffix(u.Basename())

	if main, ok := s.ctx[s.mainURI]; ok {
		if !isConfFile || main.HasFile(u) {
			s.accessCount++
			main.LastAccess = s.accessCount
			return main
		}
	}

	var best *kctx.Context
	for _, c := range s.sortedContexts() {
		if isConfFile && !c.HasFile(u) {
			continue
		}
		best = c
	}
	if best != nil {
		s.accessCount++
		best.LastAccess = s.accessCount
	}
	return best
}

// getCtx resolves an explicit context id (a build URI string), falling
// back to the main build's context, then to whichever context was most
// recently touched.
func (s *Server) getCtx(id string) *kctx.Context {
	if id != "" {
		return s.ctx[id]
	}
	if s.mainURI != "" {
		return s.ctx[s.mainURI]
	}
	return s.lastCtx()
}

func hasConfSuffix(name string) bool {
	return len(name) > len(".conf") && name[len(name)-len(".conf"):] == ".conf"
}

func (s *Server) serverInfo() map[string]interface{} {
	return map[string]interface{}{"name": serverName, "version": version.Version}
}
