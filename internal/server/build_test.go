package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/kconfig-lsp/internal/uri"
)

func TestAddBuildAsMainRefreshesImmediately(t *testing.T) {
	s := newTestServer(t)
	buildURI := uri.File("/build-a").String()
	s.mainURI = buildURI
	openDoc(s, "/build-a/Kconfig", testRoot)

	result, err := s.handleAddBuild(mustMarshal(t, addBuildParams{
		URI: buildURI, Root: "/build-a/Kconfig", Env: map[string]string{},
	}))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"id": buildURI}, result)

	ctx := s.ctx[buildURI]
	require.NotNil(t, ctx)
	assert.True(t, ctx.Valid(), "main build should be parsed immediately, not lazily")
}

func TestRemoveBuildDropsContext(t *testing.T) {
	s := newTestServer(t)
	addTestBuild(t, s, "/build-a")
	buildURI := uri.File("/build-a").String()
	require.NotNil(t, s.ctx[buildURI])

	_, err := s.handleRemoveBuild(mustMarshal(t, removeBuildParams{URI: buildURI}))
	require.NoError(t, err)
	assert.Nil(t, s.ctx[buildURI])
}

func TestSetMainBuildRefreshesExistingContext(t *testing.T) {
	s := newTestServer(t)
	addTestBuild(t, s, "/build-a")
	buildURI := uri.File("/build-a").String()
	require.False(t, s.ctx[buildURI].Valid())

	_, err := s.handleSetMainBuild(mustMarshal(t, setMainBuildParams{URI: buildURI}))
	require.NoError(t, err)
	assert.Equal(t, buildURI, s.mainURI)
	assert.True(t, s.ctx[buildURI].Valid())
}

func TestGetMenuReturnsTopLevelSymbols(t *testing.T) {
	s := newTestServer(t)
	addTestBuild(t, s, "/build-a")
	buildURI := uri.File("/build-a").String()

	result, err := s.handleGetMenu(mustMarshal(t, getMenuParams{Ctx: buildURI}))
	require.NoError(t, err)
	require.NotNil(t, result)
}

func TestSetValOnUnknownSymbolReturnsConfigError(t *testing.T) {
	s := newTestServer(t)
	addTestBuild(t, s, "/build-a")
	buildURI := uri.File("/build-a").String()
	val := "y"

	_, err := s.handleSetVal(mustMarshal(t, setValParams{Ctx: buildURI, Name: "NOT_A_SYMBOL", Val: &val}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOT_A_SYMBOL")
}

func TestSetValThenCurrentValueReflectsAssignment(t *testing.T) {
	s := newTestServer(t)
	addTestBuild(t, s, "/build-a")
	buildURI := uri.File("/build-a").String()
	ctx := s.ctx[buildURI]
	ctx.Refresh()

	val := "hello"
	_, err := s.handleSetVal(mustMarshal(t, setValParams{Ctx: buildURI, Name: "NAME", Val: &val}))
	require.NoError(t, err)
	assert.Equal(t, "hello", ctx.CurrentValue("NAME"))

	_, err = s.handleSetVal(mustMarshal(t, setValParams{Ctx: buildURI, Name: "NAME"}))
	require.NoError(t, err)
	assert.Equal(t, "none", ctx.CurrentValue("NAME"))
}

func TestSearchReturnsMatchingSymbols(t *testing.T) {
	s := newTestServer(t)
	addTestBuild(t, s, "/build-a")
	buildURI := uri.File("/build-a").String()

	result, err := s.handleSearch(mustMarshal(t, searchParams{Ctx: buildURI, Query: "FOO"}))
	require.NoError(t, err)
	out, ok := result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, buildURI, out["ctx"])
	assert.Equal(t, "FOO", out["query"])
}
