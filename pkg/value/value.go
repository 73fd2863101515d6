// Package value implements the UCG runtime value model: the Value sum type,
// deep equality, canonical textual rendering, and the closed set of type
// names used by the `is` operator.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jfranklin9000/ucg/pkg/ast"
)

// Kind identifies a runtime value's variant.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindStr
	KindList
	KindTuple
	KindFunc
	KindModule
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStr:
		return "str"
	case KindList:
		return "list"
	case KindTuple:
		return "tuple"
	case KindFunc:
		return "func"
	case KindModule:
		return "module"
	default:
		return "unknown"
	}
}

// Value is the shared behaviour of every runtime value.
type Value interface {
	Kind() Kind
}

// Null is the distinguished empty value, assignable anywhere.
type Null struct{}

func (Null) Kind() Kind { return KindNull }

type Bool struct{ Val bool }

func (Bool) Kind() Kind { return KindBool }

type Int struct{ Val int64 }

func (Int) Kind() Kind { return KindInt }

type Float struct{ Val float64 }

func (Float) Kind() Kind { return KindFloat }

type Str struct{ Val string }

func (Str) Kind() Kind { return KindStr }

// List is an ordered, heterogeneous sequence.
type List struct {
	Elements []Value
}

func (*List) Kind() Kind { return KindList }

// TupleField is one ordered (name, value) entry of a Tuple.
type TupleField struct {
	Name  string
	Value Value
}

// Tuple is an ordered sequence of named fields; field order is part of its
// identity for equality. A tuple is not a hash map.
type Tuple struct {
	Fields []TupleField
	index  map[string]int
}

func (*Tuple) Kind() Kind { return KindTuple }

// NewTuple builds a Tuple and its name→position lookup index.
func NewTuple(fields []TupleField) *Tuple {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f.Name] = i
	}
	return &Tuple{Fields: fields, index: idx}
}

// Field returns a field's value and whether it exists.
func (t *Tuple) Field(name string) (Value, bool) {
	if i, ok := t.index[name]; ok {
		return t.Fields[i].Value, true
	}
	return nil, false
}

// FieldIndex returns a field's position and whether it exists.
func (t *Tuple) FieldIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// With returns a new Tuple with the named field set to val, appending it in
// override order when absent and updating in place (order preserved) when
// present — the structural mechanics behind copy-expression semantics.
func (t *Tuple) With(name string, val Value) *Tuple {
	if i, ok := t.index[name]; ok {
		fields := append([]TupleField(nil), t.Fields...)
		fields[i].Value = val
		return NewTuple(fields)
	}
	fields := append(append([]TupleField(nil), t.Fields...), TupleField{Name: name, Value: val})
	return NewTuple(fields)
}

// Func is a closure: parameter names, a single-expression body, and the
// environment captured at creation. It cannot recurse.
type Func struct {
	Params []string
	Body   ast.Expression
	Env    *Environment
}

func (*Func) Kind() Kind { return KindFunc }

// Module is a parameterizable, deferred-evaluation template. It does not
// close over lexical bindings; File is "" when defined inside `eval`.
type Module struct {
	Params []ast.TupleField
	Out    ast.Expression
	Body   []ast.Statement
	File   string
}

func (*Module) Kind() Kind { return KindModule }

// NativeFunc is a callable implemented in Go rather than as a Func closure —
// used for mod.pkg, which has no AST body of its own.
type NativeFunc struct {
	Arity int
	Call  func(args []Value) (Value, error)
}

func (*NativeFunc) Kind() Kind { return KindFunc }

// Equal is the deep-equality rule: same field names in the same order and
// deep-equal values for tuples; element-order equality for lists; value
// equality for scalars; reference identity for Func and Module.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Null:
		return true
	case Bool:
		return av.Val == b.(Bool).Val
	case Int:
		return av.Val == b.(Int).Val
	case Float:
		return av.Val == b.(Float).Val
	case Str:
		return av.Val == b.(Str).Val
	case *List:
		bv := b.(*List)
		if len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Tuple:
		bv := b.(*Tuple)
		if len(av.Fields) != len(bv.Fields) {
			return false
		}
		for i := range av.Fields {
			if av.Fields[i].Name != bv.Fields[i].Name {
				return false
			}
			if !Equal(av.Fields[i].Value, bv.Fields[i].Value) {
				return false
			}
		}
		return true
	case *Func:
		bv, ok := b.(*Func)
		return ok && av == bv
	case *NativeFunc:
		bv, ok := b.(*NativeFunc)
		return ok && av == bv
	case *Module:
		return av == b.(*Module)
	default:
		return false
	}
}

// Render produces the canonical textual form used for `%` substitution and
// diagnostics: scalars render as their natural text; composites render as a
// stable, readable pretty form. The exact composite layout is otherwise
// unconstrained, as long as it stays stable across calls.
func Render(v Value) string {
	switch vv := v.(type) {
	case Null:
		return ""
	case Bool:
		if vv.Val {
			return "true"
		}
		return "false"
	case Int:
		return strconv.FormatInt(vv.Val, 10)
	case Float:
		return formatFloat(vv.Val)
	case Str:
		return vv.Val
	case *List:
		parts := make([]string, len(vv.Elements))
		for i, e := range vv.Elements {
			parts[i] = renderNested(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Tuple:
		parts := make([]string, len(vv.Fields))
		for i, f := range vv.Fields {
			parts[i] = f.Name + "=" + renderNested(f.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *Func:
		return fmt.Sprintf("<func/%d>", len(vv.Params))
	case *NativeFunc:
		return fmt.Sprintf("<func/%d>", vv.Arity)
	case *Module:
		return fmt.Sprintf("<module/%d>", len(vv.Params))
	default:
		return ""
	}
}

// renderNested quotes strings inside composite renderings so lists/tuples of
// strings are unambiguous, while Render itself leaves a bare Str unquoted.
func renderNested(v Value) string {
	if s, ok := v.(Str); ok {
		return strconv.Quote(s.Val)
	}
	return Render(v)
}

// formatFloat renders the shortest decimal string that round-trips to v.
func formatFloat(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	if math.IsInf(v, -1) {
		return "-inf"
	}
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// TypeName returns the `is`-operator's closed-set type name for v.
func TypeName(v Value) string {
	switch v.(type) {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case Str:
		return "str"
	case *List:
		return "list"
	case *Tuple:
		return "tuple"
	case *Func, *NativeFunc:
		return "func"
	case *Module:
		return "module"
	default:
		return "unknown"
	}
}

// IsValidTypeName reports whether s is a member of the `is` operator's
// closed set of type names.
func IsValidTypeName(s string) bool {
	switch s {
	case "null", "bool", "int", "float", "str", "tuple", "list", "func", "module":
		return true
	default:
		return false
	}
}
