package eval

import (
	"github.com/jfranklin9000/ucg/pkg/ast"
	"github.com/jfranklin9000/ucg/pkg/diag"
	"github.com/jfranklin9000/ucg/pkg/value"
)

// evalProcess implements map/filter/reduce over List, Tuple, and Str
// ("Processing built-ins"). Str iteration is by Unicode code point, an
// approximation of an "extended grapheme cluster" — no grapheme
// segmentation library is available in this stack.
func (e *Evaluator) evalProcess(n *ast.ProcessExpr, env *value.Environment) (value.Value, error) {
	fn, err := e.evalExpr(n.Fn, env)
	if err != nil {
		return nil, err
	}
	var init value.Value
	if n.Init != nil {
		init, err = e.evalExpr(n.Init, env)
		if err != nil {
			return nil, err
		}
	}
	coll, err := e.evalExpr(n.Coll, env)
	if err != nil {
		return nil, err
	}

	switch c := coll.(type) {
	case *value.List:
		return e.processList(n.Kind, fn, init, c, n.Span())
	case *value.Tuple:
		return e.processTuple(n.Kind, fn, init, c, n.Span())
	case value.Str:
		return e.processStr(n.Kind, fn, init, c, n.Span())
	default:
		return nil, diag.New(diag.KindTypeMismatch, n.Coll.Span(), "%s requires a list, tuple, or str, got %s", n.Kind, coll.Kind())
	}
}

func isFilteredOut(v value.Value) bool {
	if b, ok := v.(value.Bool); ok {
		return !b.Val
	}
	if _, ok := v.(value.Null); ok {
		return true
	}
	return false
}

func (e *Evaluator) processList(kind string, fn, init value.Value, c *value.List, span ast.Span) (value.Value, error) {
	switch kind {
	case "map":
		out := make([]value.Value, len(c.Elements))
		for i, item := range c.Elements {
			v, err := e.callFunc(fn, []value.Value{item}, span)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return &value.List{Elements: out}, nil
	case "filter":
		out := make([]value.Value, 0, len(c.Elements))
		for _, item := range c.Elements {
			v, err := e.callFunc(fn, []value.Value{item}, span)
			if err != nil {
				return nil, err
			}
			if !isFilteredOut(v) {
				out = append(out, item)
			}
		}
		return &value.List{Elements: out}, nil
	case "reduce":
		acc := init
		for _, item := range c.Elements {
			v, err := e.callFunc(fn, []value.Value{acc, item}, span)
			if err != nil {
				return nil, err
			}
			acc = v
		}
		return acc, nil
	default:
		return nil, diag.New(diag.KindParse, span, "unsupported process kind %q", kind)
	}
}

func (e *Evaluator) processTuple(kind string, fn, init value.Value, c *value.Tuple, span ast.Span) (value.Value, error) {
	switch kind {
	case "map":
		fields := make([]value.TupleField, 0, len(c.Fields))
		for _, f := range c.Fields {
			v, err := e.callFunc(fn, []value.Value{value.Str{Val: f.Name}, f.Value}, span)
			if err != nil {
				return nil, err
			}
			pair, ok := v.(*value.List)
			if !ok || len(pair.Elements) != 2 {
				return nil, diag.New(diag.KindTypeMismatch, span, "tuple map function must return [name, value]")
			}
			nameV, ok := pair.Elements[0].(value.Str)
			if !ok {
				return nil, diag.New(diag.KindTypeMismatch, span, "tuple map function's new name must be str")
			}
			fields = append(fields, value.TupleField{Name: nameV.Val, Value: pair.Elements[1]})
		}
		return value.NewTuple(fields), nil
	case "filter":
		fields := make([]value.TupleField, 0, len(c.Fields))
		for _, f := range c.Fields {
			v, err := e.callFunc(fn, []value.Value{value.Str{Val: f.Name}, f.Value}, span)
			if err != nil {
				return nil, err
			}
			if !isFilteredOut(v) {
				fields = append(fields, f)
			}
		}
		return value.NewTuple(fields), nil
	case "reduce":
		acc := init
		for _, f := range c.Fields {
			v, err := e.callFunc(fn, []value.Value{acc, value.Str{Val: f.Name}, f.Value}, span)
			if err != nil {
				return nil, err
			}
			acc = v
		}
		return acc, nil
	default:
		return nil, diag.New(diag.KindParse, span, "unsupported process kind %q", kind)
	}
}

func (e *Evaluator) processStr(kind string, fn, init value.Value, c value.Str, span ast.Span) (value.Value, error) {
	runes := []rune(c.Val)
	switch kind {
	case "map":
		var b []rune
		for _, r := range runes {
			v, err := e.callFunc(fn, []value.Value{value.Str{Val: string(r)}}, span)
			if err != nil {
				return nil, err
			}
			s, ok := v.(value.Str)
			if !ok {
				return nil, diag.New(diag.KindTypeMismatch, span, "str map function must return str")
			}
			b = append(b, []rune(s.Val)...)
		}
		return value.Str{Val: string(b)}, nil
	case "filter":
		var b []rune
		for _, r := range runes {
			v, err := e.callFunc(fn, []value.Value{value.Str{Val: string(r)}}, span)
			if err != nil {
				return nil, err
			}
			if !isFilteredOut(v) {
				b = append(b, r)
			}
		}
		return value.Str{Val: string(b)}, nil
	case "reduce":
		acc := init
		for _, r := range runes {
			v, err := e.callFunc(fn, []value.Value{acc, value.Str{Val: string(r)}}, span)
			if err != nil {
				return nil, err
			}
			acc = v
		}
		return acc, nil
	default:
		return nil, diag.New(diag.KindParse, span, "unsupported process kind %q", kind)
	}
}
