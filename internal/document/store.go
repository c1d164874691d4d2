package document

import (
	"os"
	"sync"

	"github.com/standardbeagle/kconfig-lsp/internal/uri"
)

// Provider supplies documents for a URI scheme other than "file", e.g. a
// "git" provider resolving content at a particular commit. Get returns
// false when it has no opinion about the URI, falling through to the
// store's normal cache/disk lookup.
type Provider interface {
	Scheme() string
	Get(u uri.URI) (*Document, bool)
	Exists(u uri.URI) bool
}

// Store is the process-wide URI -> Document cache. Documents opened by
// the client (didOpen) live here until explicitly closed; documents
// touched only by the linter are loaded from disk on demand and cached.
type Store struct {
	mu        sync.RWMutex
	docs      map[string]*Document
	providers map[string]Provider
}

// NewStore creates an empty document store.
func NewStore() *Store {
	return &Store{
		docs:      make(map[string]*Document),
		providers: make(map[string]Provider),
	}
}

// Open registers a document under its own URI, as issued by textDocument/didOpen.
func (s *Store) Open(d *Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[d.URI.String()] = d
}

// Close drops a document from the live cache. A subsequent Get re-reads
// it from disk or its provider.
func (s *Store) Close(u uri.URI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, u.String())
}

// RegisterProvider installs a Provider for a non-file URI scheme.
func (s *Store) RegisterProvider(p Provider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.providers[p.Scheme()] = p
}

// Reset drops every cached document, keeping registered providers.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]*Document)
}

// Get resolves a URI to a Document: a registered provider is consulted
// first, then the live cache, then disk. When create is false, a miss
// from the live cache never falls through to disk.
func (s *Store) Get(u uri.URI, create bool) (*Document, error) {
	s.mu.RLock()
	if provider, ok := s.providers[u.Scheme]; ok {
		s.mu.RUnlock()
		if d, ok := provider.Get(u); ok {
			return d, nil
		}
		s.mu.RLock()
	}
	if d, ok := s.docs[u.String()]; ok {
		s.mu.RUnlock()
		return d, nil
	}
	s.mu.RUnlock()

	if !create {
		return nil, os.ErrNotExist
	}
	return s.fromDisk(u)
}

func (s *Store) fromDisk(u uri.URI) (*Document, error) {
	d, err := FromDisk(u)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.docs[u.String()] = d
	s.mu.Unlock()
	return d, nil
}

// All returns every document currently held in the live cache.
func (s *Store) All() []*Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d)
	}
	return out
}
