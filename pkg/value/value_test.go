package value

import "testing"

func TestEqualTupleRespectsFieldOrder(t *testing.T) {
	a := NewTuple([]TupleField{{Name: "a", Value: Int{1}}, {Name: "b", Value: Int{2}}})
	b := NewTuple([]TupleField{{Name: "b", Value: Int{2}}, {Name: "a", Value: Int{1}}})
	if Equal(a, b) {
		t.Fatal("tuples with same fields in different order must not be equal")
	}
	c := NewTuple([]TupleField{{Name: "a", Value: Int{1}}, {Name: "b", Value: Int{2}}})
	if !Equal(a, c) {
		t.Fatal("tuples with identical ordered fields must be equal")
	}
}

func TestEqualListByElementOrder(t *testing.T) {
	a := &List{Elements: []Value{Int{1}, Int{2}}}
	b := &List{Elements: []Value{Int{2}, Int{1}}}
	if Equal(a, b) {
		t.Fatal("lists with reordered elements must not be equal")
	}
}

func TestEqualFuncAndModuleByReference(t *testing.T) {
	f1 := &Func{Params: []string{"x"}}
	f2 := &Func{Params: []string{"x"}}
	if Equal(f1, f2) {
		t.Fatal("distinct Func values must not compare equal")
	}
	if !Equal(f1, f1) {
		t.Fatal("a Func must equal itself")
	}
}

func TestEqualDifferentVariantsUnequal(t *testing.T) {
	if Equal(Int{1}, Str{"1"}) {
		t.Fatal("different variants must never be equal")
	}
}

func TestTupleWithAppendsNewFieldInOrder(t *testing.T) {
	base := NewTuple([]TupleField{{Name: "a", Value: Int{1}}, {Name: "b", Value: Int{2}}})
	out := base.With("b", Int{3}).With("c", Int{4})
	want := []string{"a", "b", "c"}
	if len(out.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(out.Fields))
	}
	for i, name := range want {
		if out.Fields[i].Name != name {
			t.Fatalf("field %d: got %q want %q", i, out.Fields[i].Name, name)
		}
	}
	if v, _ := out.Field("b"); v.(Int).Val != 3 {
		t.Fatalf("expected b updated in place to 3, got %v", v)
	}
}

func TestRenderScalars(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Null{}, ""},
		{Bool{true}, "true"},
		{Bool{false}, "false"},
		{Int{42}, "42"},
		{Str{"hi"}, "hi"},
	}
	for _, c := range cases {
		if got := Render(c.v); got != c.want {
			t.Errorf("Render(%#v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestRenderListNestsQuotedStrings(t *testing.T) {
	v := &List{Elements: []Value{Str{"a"}, Int{1}}}
	got := Render(v)
	want := `["a", 1]`
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestTypeNameMatchesClosedSet(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Null{}, "null"}, {Bool{}, "bool"}, {Int{}, "int"}, {Float{}, "float"},
		{Str{}, "str"}, {&List{}, "list"}, {NewTuple(nil), "tuple"},
		{&Func{}, "func"}, {&Module{}, "module"},
	}
	for _, c := range cases {
		if got := TypeName(c.v); got != c.want {
			t.Errorf("TypeName(%T) = %q, want %q", c.v, got, c.want)
		}
		if !IsValidTypeName(c.want) {
			t.Errorf("%q should be a valid type name", c.want)
		}
	}
}

func TestEnvironmentScopeChain(t *testing.T) {
	root := NewEnvironment(nil)
	root.Define("x", Int{1})
	child := root.Extend()
	child.Define("y", Int{2})

	if v, ok := child.Get("x"); !ok || v.(Int).Val != 1 {
		t.Fatal("child scope should see parent binding x")
	}
	if _, ok := root.Get("y"); ok {
		t.Fatal("parent scope must not see child binding y")
	}
	child.Define("x", Int{99})
	if v, _ := child.Get("x"); v.(Int).Val != 99 {
		t.Fatal("shadowing in child scope should not affect lookup from child")
	}
	if v, _ := root.Get("x"); v.(Int).Val != 1 {
		t.Fatal("shadowing in child scope must not mutate parent binding")
	}
}
