package driver

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jfranklin9000/ucg/pkg/ast"
	"github.com/jfranklin9000/ucg/pkg/diag"
	"github.com/jfranklin9000/ucg/pkg/value"
)

func TestRegistryDispatchesToNamedConverter(t *testing.T) {
	var buf bytes.Buffer
	r := NewRegistry()
	out := r.OutTo(&buf)

	tup := value.NewTuple([]value.TupleField{{Name: "a", Value: value.Int{Val: 1}}})
	if err := out("json", tup, ast.Span{}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != `{"a":1}` {
		t.Fatalf("got %q", buf.String())
	}
}

func TestRegistryUnknownConverterIsError(t *testing.T) {
	r := NewRegistry()
	out := r.OutTo(&bytes.Buffer{})
	err := out("bogus", value.Int{Val: 1}, ast.Span{})
	de, ok := diag.AsError(err)
	if !ok || de.Kind != diag.KindUnknownSymbol {
		t.Fatalf("expected UnknownSymbol, got %v", err)
	}
}

func TestRegistryAllStandardConvertersRegistered(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"json", "yaml", "toml", "flags", "exec", "xml", "txt"} {
		if _, ok := r.converters[name]; !ok {
			t.Fatalf("expected standard converter %q to be registered", name)
		}
	}
}

func TestRegistryConverterErrorWrapsAsDiag(t *testing.T) {
	r := NewRegistry()
	out := r.OutTo(&bytes.Buffer{})
	err := out("toml", value.Null{}, ast.Span{})
	if err == nil || !strings.Contains(err.Error(), "") {
		t.Fatal("expected an error for non-tuple toml output")
	}
	if _, ok := diag.AsError(err); !ok {
		t.Fatalf("expected a diag.Error, got %T", err)
	}
}
