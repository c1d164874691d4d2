package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/standardbeagle/kconfig-lsp/internal/uri"
)

func TestStoreOpenAndGet(t *testing.T) {
	s := NewStore()
	u := uri.File("/virtual/Kconfig")
	d := New(u, "kconfig", 1, "config FOO\n")
	s.Open(d)

	got, err := s.Get(u, true)
	if err != nil {
		t.Fatal(err)
	}
	if got != d {
		t.Fatalf("expected same document instance from cache")
	}
}

func TestStoreCloseFallsBackToDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Kconfig")
	if err := os.WriteFile(path, []byte("config FOO\n\tbool\n"), 0644); err != nil {
		t.Fatal(err)
	}

	u := uri.File(path)
	s := NewStore()
	s.Open(New(u, "kconfig", 1, "config FOO\n\tbool\n\tdefault y\n"))
	s.Close(u)

	got, err := s.Get(u, true)
	if err != nil {
		t.Fatal(err)
	}
	if got.Text() != "config FOO\n\tbool\n" {
		t.Fatalf("expected disk contents after close, got %q", got.Text())
	}
}

func TestStoreGetNoCreate(t *testing.T) {
	s := NewStore()
	u := uri.File("/does/not/exist/Kconfig")
	if _, err := s.Get(u, false); err == nil {
		t.Fatalf("expected error when create=false and not cached")
	}
}

type fakeProvider struct {
	scheme string
	doc    *Document
}

func (p *fakeProvider) Scheme() string { return p.scheme }
func (p *fakeProvider) Get(u uri.URI) (*Document, bool) {
	if u.String() == p.doc.URI.String() {
		return p.doc, true
	}
	return nil, false
}
func (p *fakeProvider) Exists(u uri.URI) bool { return u.String() == p.doc.URI.String() }

func TestStoreProvider(t *testing.T) {
	u, _ := uri.Parse("git:/repo/Kconfig?ref=HEAD")
	doc := New(u, "kconfig", UnknownVersion, "config FOO\n")

	s := NewStore()
	s.RegisterProvider(&fakeProvider{scheme: "git", doc: doc})

	got, err := s.Get(u, true)
	if err != nil {
		t.Fatal(err)
	}
	if got != doc {
		t.Fatalf("expected provider-supplied document")
	}
}

func TestStoreReset(t *testing.T) {
	s := NewStore()
	u := uri.File("/virtual/Kconfig")
	s.Open(New(u, "kconfig", 1, "x\n"))
	s.Reset()
	if _, err := s.Get(u, false); err == nil {
		t.Fatalf("expected cache cleared after reset")
	}
}
