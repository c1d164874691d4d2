// Package kctx implements the Kconfig context engine: one KconfigContext
// per managed build, each owning a parsed menu tree, its .conf assignment
// state, and the six-check linter that validates that state against the
// tree. Grounded line-for-line on the original Kconfig language server's
// KconfigContext class (kconfiglsp.py).
package kctx

import (
	"fmt"
	"os"

	"github.com/standardbeagle/kconfig-lsp/internal/document"
	"github.com/standardbeagle/kconfig-lsp/internal/uri"
)

// DocumentLoader resolves Kconfig/.conf file paths through the document
// store first, so an editor's unsaved buffer always wins over what's on
// disk, falling back to disk for anything the client hasn't opened.
type DocumentLoader struct {
	store *document.Store
}

// NewDocumentLoader wraps a document.Store as a kconfig.Loader.
func NewDocumentLoader(store *document.Store) *DocumentLoader {
	return &DocumentLoader{store: store}
}

// Read implements kconfig.Loader.
func (l *DocumentLoader) Read(path string) ([]byte, error) {
	u := uri.File(path)
	if doc, err := l.store.Get(u, false); err == nil {
		return []byte(doc.Text()), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a Kconfig file", path)
	}

	doc, err := l.store.Get(u, true)
	if err != nil {
		return nil, err
	}
	return []byte(doc.Text()), nil
}
