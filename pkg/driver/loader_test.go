package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jfranklin9000/ucg/pkg/diag"
)

func TestFSLoaderReadsDirectPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ucg")
	if err := os.WriteFile(path, []byte("let x = 1;"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &FSLoader{}
	got, err := l.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "let x = 1;" {
		t.Fatalf("got %q", got)
	}
}

func TestFSLoaderFallsBackToSearchPaths(t *testing.T) {
	search := t.TempDir()
	if err := os.WriteFile(filepath.Join(search, "lib.ucg"), []byte("let y = 2;"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &FSLoader{SearchPaths: []string{search}}

	got, err := l.Load(filepath.Join(t.TempDir(), "lib.ucg"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "let y = 2;" {
		t.Fatalf("got %q", got)
	}
}

func TestFSLoaderMissingFileIsIoError(t *testing.T) {
	l := &FSLoader{}
	_, err := l.Load(filepath.Join(t.TempDir(), "nope.ucg"))
	de, ok := diag.AsError(err)
	if !ok || de.Kind != diag.KindIO {
		t.Fatalf("expected IoError, got %v", err)
	}
}
