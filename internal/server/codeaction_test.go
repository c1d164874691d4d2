package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/kconfig-lsp/internal/document"
	"github.com/standardbeagle/kconfig-lsp/internal/lsp"
	"github.com/standardbeagle/kconfig-lsp/internal/uri"
)

// TestCodeActionFiltersOverlappingDiagnostics builds a conf file that
// redundantly restates FOO's own default (triggering a lint hint with a
// "remove redundant entry" quick-fix) and confirms the handler only
// returns actions for diagnostics the requested range actually overlaps.
func TestCodeActionFiltersOverlappingDiagnostics(t *testing.T) {
	s := newTestServer(t)
	buildURI := uri.File("/build-a").String()
	openDoc(s, "/build-a/Kconfig", testRoot)
	confURI := uri.File("/build-a/prj.conf")
	s.docs.Open(document.New(confURI, "properties", 1, "CONFIG_FOO=y\n# nothing here\n"))

	_, err := s.handleAddBuild(mustMarshal(t, addBuildParams{
		URI: buildURI, Root: "/build-a/Kconfig", Conf: []string{"/build-a/prj.conf"}, Env: map[string]string{},
	}))
	require.NoError(t, err)
	s.mainURI = buildURI
	s.ctx[buildURI].Refresh()

	// Line 0 (the redundant CONFIG_FOO=y) should have a diagnostic attached.
	result, err := s.handleCodeAction(mustMarshal(t, codeActionParams{
		TextDocument: textDocumentIdentifier{URI: confURI.String()},
		Range:        lsp.Range{Start: lsp.Position{Line: 0, Character: 0}, End: lsp.Position{Line: 0, Character: 1}},
	}))
	require.NoError(t, err)
	assert.NotNil(t, result)

	// Line 1 (a comment, not an entry at all) has none.
	result, err = s.handleCodeAction(mustMarshal(t, codeActionParams{
		TextDocument: textDocumentIdentifier{URI: confURI.String()},
		Range:        lsp.Range{Start: lsp.Position{Line: 1, Character: 0}, End: lsp.Position{Line: 1, Character: 1}},
	}))
	require.NoError(t, err)
	assert.Nil(t, result)
}
