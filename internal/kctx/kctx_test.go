package kctx

import (
	"testing"

	"github.com/standardbeagle/kconfig-lsp/internal/lsp"
	"github.com/standardbeagle/kconfig-lsp/internal/uri"
)

// memLoader is an in-memory kconfig.Loader, the same shape as
// internal/kconfig's own test loader, shared by every test in this
// package so fixtures can name files that never touch disk.
type memLoader map[string]string

func (m memLoader) Read(path string) ([]byte, error) {
	if data, ok := m[path]; ok {
		return []byte(data), nil
	}
	return nil, notFoundError(path)
}

type notFoundError string

func (e notFoundError) Error() string { return "file not found: " + string(e) }

func newTestContext(t *testing.T, loader memLoader, root string, confFiles []*ConfFile, env map[string]string) *Context {
	t.Helper()
	c := &Context{
		URI:          uri.File("/build"),
		RootPath:     root,
		Env:          env,
		ConfFiles:    confFiles,
		loader:       loader,
		values:       map[string]string{},
		kconfigDiags: map[string][]*lsp.Diagnostic{},
		evalStack:    map[string]bool{},
	}
	if err := c.Parse(); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return c
}
