// Package uri implements the subset of RFC 3986 used by the Language
// Server Protocol to identify text documents, grounded on the original
// Kconfig language server's Uri class (lsp.py).
package uri

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// URI is a parsed Uniform Resource Identifier:
//
//	foo://example.com:8042/over/there?name=ferret#nose
//	\_/   \______________/\_________/ \_________/ \__/
//	 |           |            |            |        |
//	scheme   authority       path        query   fragment
type URI struct {
	Scheme    string
	Authority string
	Path      string
	Query     string
	Fragment  string
}

var escapeChars = "!#$&'()*+,\\:;=?@[]"

var windowsDriveLeading = regexp.MustCompile(`^/(\w:/)`)
var windowsDriveRaw = regexp.MustCompile(`^\w:\\`)
var percentEscape = regexp.MustCompile(`%([\da-fA-F]{2})`)
var uriPattern = regexp.MustCompile(`^(.*?):(?://([^?\s/#]*))?(/[^?\s]*)?(?:\?([^#]+))?(?:#(.+))?$`)

// New builds a URI from its components, normalizing a leading Windows
// drive segment ("/C:/foo" -> "C:/foo") the way the original does.
func New(scheme, authority, path, query, fragment string) URI {
	path = windowsDriveLeading.ReplaceAllString(path, "$1")
	return URI{Scheme: scheme, Authority: authority, Path: path, Query: query, Fragment: fragment}
}

func escape(s string) string {
	var b strings.Builder
	for _, c := range s {
		if strings.ContainsRune(escapeChars, c) {
			fmt.Fprintf(&b, "%%%02X", c)
		} else {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func unescape(s string) string {
	return percentEscape.ReplaceAllStringFunc(s, func(m string) string {
		code, err := strconv.ParseInt(m[1:], 16, 32)
		if err != nil {
			return m
		}
		return string(rune(code))
	})
}

// String renders the URI back to its textual form.
func (u URI) String() string {
	path := u.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	s := fmt.Sprintf("%s://%s%s", escape(u.Scheme), escape(u.Authority), escape(path))
	if u.Query != "" {
		s += "?" + u.Query
	}
	if u.Fragment != "" {
		s += "#" + u.Fragment
	}
	return s
}

// Basename returns the final path component, as filepath.Base would.
func (u URI) Basename() string {
	return filepath.Base(u.Path)
}

// IsZero reports whether u is the empty URI value.
func (u URI) IsZero() bool {
	return u == URI{}
}

// Parse parses a raw URI string, unescaping percent-encoded sequences
// and converting a raw Windows path (e.g. "C:\foo\bar") into a file URI
// before matching the generic scheme://authority/path?query#fragment
// grammar.
func Parse(raw string) (URI, error) {
	sanitized := unescape(raw)

	if windowsDriveRaw.MatchString(sanitized) {
		sanitized = "file:///" + strings.ReplaceAll(sanitized, `\`, "/")
	}

	m := uriPattern.FindStringSubmatch(sanitized)
	if m == nil {
		return URI{}, fmt.Errorf("uri: could not parse %q", raw)
	}

	return New(m[1], m[2], m[3], m[4], m[5]), nil
}

// File converts a filesystem path into a file:// URI.
func File(path string) URI {
	return New("file", "", strings.ReplaceAll(path, `\`, "/"), "", "")
}

// Filename converts a file:// URI back to a filesystem path. Other
// schemes return the raw path component unchanged.
func (u URI) Filename() string {
	path := u.Path
	if strings.HasPrefix(path, "/") && len(path) > 2 && path[2] == ':' {
		// "/C:/foo" -> "C:/foo" on the rare case New() didn't normalize it.
		path = path[1:]
	}
	return filepath.FromSlash(path)
}

// Equal reports whether two URIs refer to the same resource.
func Equal(a, b URI) bool {
	return a.String() == b.String()
}
