package flagsconv

import (
	"bytes"
	"testing"

	"github.com/jfranklin9000/ucg/pkg/value"
)

func TestConvertScalarFields(t *testing.T) {
	tup := value.NewTuple([]value.TupleField{
		{Name: "name", Value: value.Str{Val: "ucg"}},
		{Name: "verbose", Value: value.Bool{Val: true}},
		{Name: "count", Value: value.Int{Val: 3}},
	})
	var buf bytes.Buffer
	if err := Convert(tup, &buf); err != nil {
		t.Fatal(err)
	}
	want := "--name 'ucg' --verbose true --count 3 "
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}
}

func TestConvertSingleCharUsesShortFlag(t *testing.T) {
	tup := value.NewTuple([]value.TupleField{{Name: "n", Value: value.Int{Val: 1}}})
	var buf bytes.Buffer
	if err := Convert(tup, &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "-n 1 " {
		t.Fatalf("got %q", buf.String())
	}
}

func TestConvertNullWritesNameOnly(t *testing.T) {
	tup := value.NewTuple([]value.TupleField{{Name: "force", Value: value.Null{}}})
	var buf bytes.Buffer
	if err := Convert(tup, &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "--force " {
		t.Fatalf("got %q", buf.String())
	}
}

func TestConvertNestedTupleUsesSeparator(t *testing.T) {
	inner := value.NewTuple([]value.TupleField{{Name: "port", Value: value.Int{Val: 8080}}})
	tup := value.NewTuple([]value.TupleField{{Name: "db", Value: inner}})
	var buf bytes.Buffer
	if err := Convert(tup, &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "--db.port 8080 " {
		t.Fatalf("got %q", buf.String())
	}
}

func TestConvertScalarListRepeatsFlag(t *testing.T) {
	l := &value.List{Elements: []value.Value{value.Int{Val: 1}, value.Int{Val: 2}}}
	tup := value.NewTuple([]value.TupleField{{Name: "tag", Value: l}})
	var buf bytes.Buffer
	if err := Convert(tup, &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "--tag 1 --tag 2 " {
		t.Fatalf("got %q", buf.String())
	}
}

func TestConvertListWithNonScalarIsSkippedNotFatal(t *testing.T) {
	nested := &value.List{Elements: []value.Value{&value.List{Elements: nil}, value.Int{Val: 5}}}
	tup := value.NewTuple([]value.TupleField{{Name: "x", Value: nested}})
	var buf bytes.Buffer
	if err := Convert(tup, &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "-x 5 " {
		t.Fatalf("got %q", buf.String())
	}
}

func TestConvertFuncAndModuleAreSkipped(t *testing.T) {
	tup := value.NewTuple([]value.TupleField{
		{Name: "fn", Value: &value.Func{Params: []string{"x"}}},
		{Name: "m", Value: &value.Module{}},
		{Name: "kept", Value: value.Int{Val: 1}},
	})
	var buf bytes.Buffer
	if err := Convert(tup, &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "--kept 1 " {
		t.Fatalf("got %q", buf.String())
	}
}

func TestConvertNonTupleIsError(t *testing.T) {
	if err := Convert(value.Int{Val: 1}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for non-tuple input")
	}
}
