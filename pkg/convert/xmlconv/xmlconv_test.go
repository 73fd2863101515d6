package xmlconv

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jfranklin9000/ucg/pkg/value"
)

func TestConvertScalarFields(t *testing.T) {
	tup := value.NewTuple([]value.TupleField{
		{Name: "name", Value: value.Str{Val: "ucg"}},
		{Name: "port", Value: value.Int{Val: 8080}},
	})
	var buf bytes.Buffer
	if err := Convert(tup, &buf); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if !strings.Contains(got, "<name>ucg</name>") || !strings.Contains(got, "<port>8080</port>") {
		t.Fatalf("got %q", got)
	}
	if !strings.HasPrefix(got, "<tuple>") || !strings.Contains(got, "</tuple>") {
		t.Fatalf("expected root wrapper element, got %q", got)
	}
}

func TestConvertListRepeatsElement(t *testing.T) {
	l := &value.List{Elements: []value.Value{value.Int{Val: 1}, value.Int{Val: 2}}}
	tup := value.NewTuple([]value.TupleField{{Name: "item", Value: l}})
	var buf bytes.Buffer
	if err := Convert(tup, &buf); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if strings.Count(got, "<item>") != 2 {
		t.Fatalf("expected two <item> elements, got %q", got)
	}
}

func TestConvertNestedTuple(t *testing.T) {
	inner := value.NewTuple([]value.TupleField{{Name: "host", Value: value.Str{Val: "localhost"}}})
	tup := value.NewTuple([]value.TupleField{{Name: "db", Value: inner}})
	var buf bytes.Buffer
	if err := Convert(tup, &buf); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if !strings.Contains(got, "<db>") || !strings.Contains(got, "<host>localhost</host>") {
		t.Fatalf("got %q", got)
	}
}

func TestConvertEscapesSpecialCharacters(t *testing.T) {
	tup := value.NewTuple([]value.TupleField{{Name: "note", Value: value.Str{Val: "<a & b>"}}})
	var buf bytes.Buffer
	if err := Convert(tup, &buf); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "<a & b>") {
		t.Fatal("expected special characters to be escaped")
	}
}

func TestConvertNonTupleIsError(t *testing.T) {
	if err := Convert(value.Int{Val: 1}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for non-tuple input")
	}
}
