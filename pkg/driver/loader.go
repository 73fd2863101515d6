package driver

import (
	"os"
	"path/filepath"

	"github.com/jfranklin9000/ucg/pkg/ast"
	"github.com/jfranklin9000/ucg/pkg/diag"
)

// FSLoader is the filesystem importer.Loader used by the CLI: canonical
// paths are read directly, falling back to each configured search path
// (joined with the canonical path's base name) when the direct read fails.
// importer.Resolver has no notion of multiple search roots — it resolves
// literals relative to the importing file or StdRoot only — so the
// search-path fallback lives here instead of in the resolver.
type FSLoader struct {
	SearchPaths []string
}

// Load reads canonicalPath, satisfying importer.Loader.
func (l *FSLoader) Load(canonicalPath string) (string, error) {
	b, err := os.ReadFile(canonicalPath)
	if err == nil {
		return string(b), nil
	}
	firstErr := err

	base := filepath.Base(canonicalPath)
	for _, root := range l.SearchPaths {
		if b, err := os.ReadFile(filepath.Join(root, base)); err == nil {
			return string(b), nil
		}
	}
	span := ast.Span{Start: ast.Position{File: canonicalPath}}
	return "", diag.New(diag.KindIO, span, "%v", firstErr)
}
