package server

import (
	"encoding/json"
	"strings"

	"github.com/standardbeagle/kconfig-lsp/internal/document"
	"github.com/standardbeagle/kconfig-lsp/internal/lsp"
	"github.com/standardbeagle/kconfig-lsp/internal/uri"
)

type setTraceParams struct {
	Value string `json:"value"`
}

func (s *Server) handleSetTrace(params json.RawMessage) (interface{}, error) {
	var p setTraceParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	s.trace = p.Value
	return nil, nil
}

func (s *Server) handleShutdown(json.RawMessage) (interface{}, error) {
	s.rpc.Stop()
	return nil, nil
}

type workspaceFolderWire struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

type initializeParams struct {
	RootURI          string                `json:"rootUri"`
	Trace            string                `json:"trace"`
	WorkspaceFolders []workspaceFolderWire `json:"workspaceFolders"`
}

func (s *Server) handleInitialize(params json.RawMessage) (interface{}, error) {
	var p initializeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	s.rootURI = p.RootURI
	if p.Trace != "" {
		s.trace = p.Trace
	}
	s.workspaceFolders = nil
	for _, f := range p.WorkspaceFolders {
		s.workspaceFolders = append(s.workspaceFolders, WorkspaceFolder{URI: f.URI, Name: f.Name})
	}

	return map[string]interface{}{
		"capabilities": s.capabilities(),
		"serverInfo":   s.serverInfo(),
	}, nil
}

// handleInitialized registers the file watchers the build-lifecycle
// handlers depend on to invalidate stale contexts: any Kconfig source
// file, and the devicetree pickle a context's parse may depend on.
func (s *Server) handleInitialized(json.RawMessage) (interface{}, error) {
	s.watchFiles("**/Kconfig*")
	s.watchFiles("**/edt.pickle")
	return nil, nil
}

type textDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

type didOpenParams struct {
	TextDocument textDocumentItem `json:"textDocument"`
}

func (s *Server) handleDidOpen(params json.RawMessage) (interface{}, error) {
	var p didOpenParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	u, err := uri.Parse(p.TextDocument.URI)
	if err != nil {
		s.dbg("invalid URI: %s", p.TextDocument.URI)
		return nil, nil
	}
	s.docs.Open(document.New(u, p.TextDocument.LanguageID, p.TextDocument.Version, p.TextDocument.Text))
	return nil, nil
}

type versionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

type contentChange struct {
	Range *lsp.Range `json:"range,omitempty"`
	Text  string     `json:"text"`
}

type didChangeParams struct {
	TextDocument   versionedTextDocumentIdentifier `json:"textDocument"`
	ContentChanges []contentChange                 `json:"contentChanges"`
}

// handleDidChange applies every incremental edit to the live document,
// then — unlike the base LSP lifecycle — refreshes whichever context was
// most recently touched, so diagnostics stay in sync with the edit
// without waiting for an explicit kconfig/getMenu or completion request.
func (s *Server) handleDidChange(params json.RawMessage) (interface{}, error) {
	var p didChangeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	u, err := uri.Parse(p.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	doc, err := s.docs.Get(u, false)
	if err != nil {
		return nil, nil
	}
	for _, change := range p.ContentChanges {
		doc.Replace(change.Text, change.Range)
	}
	doc.Version = p.TextDocument.Version

	if last := s.lastCtx(); last != nil {
		s.refreshCtx(last)
	}
	return nil, nil
}

type textDocumentIdentifier struct {
	URI string `json:"uri"`
}

type didCloseParams struct {
	TextDocument textDocumentIdentifier `json:"textDocument"`
}

func (s *Server) handleDidClose(params json.RawMessage) (interface{}, error) {
	var p didCloseParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	u, err := uri.Parse(p.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	s.docs.Close(u)
	return nil, nil
}

type fileEvent struct {
	URI  string `json:"uri"`
	Type int    `json:"type"`
}

type didChangeWatchedFilesParams struct {
	Changes []fileEvent `json:"changes"`
}

func (s *Server) handleDidChangeWatchedFiles(params json.RawMessage) (interface{}, error) {
	var p didChangeWatchedFilesParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	for _, change := range p.Changes {
		u, err := uri.Parse(change.URI)
		if err != nil {
			continue
		}
		s.onFileChange(u)
	}
	return nil, nil
}

// onFileChange invalidates whichever contexts a changed file could have
// affected: any Kconfig source invalidates every context (an included
// file's scope isn't tracked precisely enough to narrow it down), while
// a devicetree pickle only invalidates the one context it was built for.
func (s *Server) onFileChange(u uri.URI) {
	name := u.Basename()
	switch {
	case strings.HasPrefix(name, "Kconfig"):
		for _, c := range s.ctx {
			c.Invalidate()
		}
		s.dbg("invalidated every context because of change in %s", u)
	case name == "edt.pickle":
		buildPath := strings.TrimSuffix(u.Filename(), "/zephyr/edt.pickle")
		if changed, ok := s.ctx[uri.File(buildPath).String()]; ok {
			changed.Invalidate()
			s.dbg("invalidated %s due to devicetree changes", buildPath)
		}
	}
}
