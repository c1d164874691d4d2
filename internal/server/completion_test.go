package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/kconfig-lsp/internal/document"
	"github.com/standardbeagle/kconfig-lsp/internal/lsp"
	"github.com/standardbeagle/kconfig-lsp/internal/uri"
)

func TestCommonPrefix(t *testing.T) {
	assert.Equal(t, "CONFIG_", commonPrefix("CONFIG_FOO", "CONFIG_"))
	assert.Equal(t, "CON", commonPrefix("CONTAINER", "CONFIG_"))
	assert.Equal(t, "", commonPrefix("xyz", "CONFIG_"))
}

func setupCompletionContext(t *testing.T) (*Server, string) {
	t.Helper()
	s := newTestServer(t)
	buildURI := uri.File("/build-a").String()
	openDoc(s, "/build-a/Kconfig", testRoot)
	_, err := s.handleAddBuild(mustMarshal(t, addBuildParams{
		URI: buildURI, Root: "/build-a/Kconfig", Conf: []string{"/build-a/prj.conf"}, Env: map[string]string{},
	}))
	require.NoError(t, err)
	s.mainURI = buildURI
	s.ctx[buildURI].Refresh()
	return s, buildURI
}

// TestCompletionCorrectsPartialPrefix mirrors typing "FO" in a .conf file,
// which should complete as though "CONFIG_FO" had been typed.
func TestCompletionCorrectsPartialPrefix(t *testing.T) {
	s, _ := setupCompletionContext(t)
	confURI := uri.File("/build-a/prj.conf")
	s.docs.Open(document.New(confURI, "properties", 1, "FO"))

	result, err := s.handleCompletion(mustMarshal(t, textDocumentPositionParams{
		TextDocument: textDocumentIdentifier{URI: confURI.String()},
		Position:     lsp.Position{Line: 0, Character: 2},
	}))
	require.NoError(t, err)
	out := result.(map[string]interface{})
	items := out["items"].([]completionItem)
	require.Len(t, items, 1)
	assert.Equal(t, "CONFIG_FOO", items[0].Label)
	assert.Equal(t, true, out["isIncomplete"])
}

// TestCompletionPastPrefixShowsNonVisible confirms that once the user has
// typed all of "CONFIG_", the result is marked complete (non-visible
// symbols are now in scope, not just the currently visible ones).
func TestCompletionPastPrefixShowsNonVisible(t *testing.T) {
	s, _ := setupCompletionContext(t)
	confURI := uri.File("/build-a/prj.conf")
	s.docs.Open(document.New(confURI, "properties", 1, "CONFIG_BAR"))

	result, err := s.handleCompletion(mustMarshal(t, textDocumentPositionParams{
		TextDocument: textDocumentIdentifier{URI: confURI.String()},
		Position:     lsp.Position{Line: 0, Character: 10},
	}))
	require.NoError(t, err)
	out := result.(map[string]interface{})
	assert.Equal(t, false, out["isIncomplete"])
	items := out["items"].([]completionItem)
	require.Len(t, items, 1)
	assert.Equal(t, "CONFIG_BAR", items[0].Label)
}
