package eval

import (
	"github.com/jfranklin9000/ucg/pkg/ast"
	"github.com/jfranklin9000/ucg/pkg/diag"
	"github.com/jfranklin9000/ucg/pkg/value"
)

// evalRange implements `a:b` / `a:s:b` range literals: all operands must be
// Int, step defaults to 1 and must be positive, b < a yields an empty list.
func (e *Evaluator) evalRange(n *ast.RangeExpr, env *value.Environment) (value.Value, error) {
	start, err := e.evalRangeOperand(n.Start, env)
	if err != nil {
		return nil, err
	}
	end, err := e.evalRangeOperand(n.End, env)
	if err != nil {
		return nil, err
	}
	step := int64(1)
	if n.Step != nil {
		step, err = e.evalRangeOperand(n.Step, env)
		if err != nil {
			return nil, err
		}
	}
	if step <= 0 {
		return nil, diag.New(diag.KindRangeError, n.Span(), "range step must be positive, got %d", step)
	}
	if end < start {
		return &value.List{}, nil
	}
	elems := make([]value.Value, 0, (end-start)/step+1)
	for v := start; v <= end; v += step {
		elems = append(elems, value.Int{Val: v})
	}
	return &value.List{Elements: elems}, nil
}

func (e *Evaluator) evalRangeOperand(x ast.Expression, env *value.Environment) (int64, error) {
	v, err := e.evalExpr(x, env)
	if err != nil {
		return 0, err
	}
	iv, ok := v.(value.Int)
	if !ok {
		return 0, diag.New(diag.KindTypeMismatch, x.Span(), "range operands must be int, got %s", v.Kind())
	}
	return iv.Val, nil
}

// evalSelect implements `select KEY[, DEFAULT], { cases }`. When Cases is
// written as a literal tuple, only the matching field's expression is
// evaluated; DEFAULT is likewise evaluated only when no case matches. This
// laziness is required for recursive modules: `select mod.n==3,
// mod.this{n=mod.n+1}, {...}` would recurse unconditionally if DEFAULT were
// evaluated eagerly.
func (e *Evaluator) evalSelect(n *ast.SelectExpr, env *value.Environment) (value.Value, error) {
	keyV, err := e.evalExpr(n.Key, env)
	if err != nil {
		return nil, err
	}
	var keyName string
	switch k := keyV.(type) {
	case value.Str:
		keyName = k.Val
	case value.Bool:
		if k.Val {
			keyName = "true"
		} else {
			keyName = "false"
		}
	default:
		return nil, diag.New(diag.KindTypeMismatch, n.Key.Span(), "select key must be str or bool, got %s", keyV.Kind())
	}

	if tl, ok := n.Cases.(*ast.TupleLiteral); ok {
		for _, f := range tl.Fields {
			if f.Name == keyName {
				return e.evalExpr(f.Value, env)
			}
		}
	} else {
		casesV, err := e.evalExpr(n.Cases, env)
		if err != nil {
			return nil, err
		}
		tup, ok := casesV.(*value.Tuple)
		if !ok {
			return nil, diag.New(diag.KindNotATuple, n.Cases.Span(), "select cases must be a tuple, got %s", casesV.Kind())
		}
		if v, ok := tup.Field(keyName); ok {
			return v, nil
		}
	}

	if n.Default != nil {
		return e.evalExpr(n.Default, env)
	}
	return nil, diag.New(diag.KindSelectNoMatch, n.Span(), "no case matches %q", keyName)
}
