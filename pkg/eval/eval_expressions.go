package eval

import (
	"encoding/base64"
	"fmt"
	"regexp"

	"github.com/jfranklin9000/ucg/pkg/ast"
	"github.com/jfranklin9000/ucg/pkg/diag"
	"github.com/jfranklin9000/ucg/pkg/importer"
	"github.com/jfranklin9000/ucg/pkg/value"
)

// evalExpr is the evaluator's main dispatch: (expr, env) -> (Value, error).
func (e *Evaluator) evalExpr(node ast.Expression, env *value.Environment) (value.Value, error) {
	switch n := node.(type) {
	case *ast.NullLiteral:
		return value.Null{}, nil
	case *ast.BoolLiteral:
		return value.Bool{Val: n.Value}, nil
	case *ast.IntLiteral:
		return value.Int{Val: n.Value}, nil
	case *ast.FloatLiteral:
		return value.Float{Val: n.Value}, nil
	case *ast.StringLiteral:
		return value.Str{Val: n.Value}, nil
	case *ast.Identifier:
		v, ok := env.Get(n.Name)
		if !ok {
			return nil, diag.New(diag.KindUnknownSymbol, n.Span(), "undefined symbol %q", n.Name)
		}
		return v, nil
	case *ast.ListLiteral:
		return e.evalListLiteral(n, env)
	case *ast.TupleLiteral:
		return e.evalTupleLiteral(n, env)
	case *ast.ParenExpr:
		if n.IsTuple {
			return e.evalParenTuple(n, env)
		}
		return e.evalExpr(n.X, env)
	case *ast.FuncLiteral:
		return &value.Func{Params: append([]string(nil), n.Params...), Body: n.Body, Env: env}, nil
	case *ast.ModuleLiteral:
		return &value.Module{Params: n.Params, Out: n.Out, Body: n.Body, File: n.File}, nil
	case *ast.UnaryExpr:
		return e.evalUnary(n, env)
	case *ast.BinaryExpr:
		return e.evalBinary(n, env)
	case *ast.Selector:
		return e.evalSelector(n, env)
	case *ast.CallExpr:
		return e.evalCall(n, env)
	case *ast.CopyExpr:
		return e.evalCopy(n, env)
	case *ast.FormatExpr:
		return e.evalFormat(n, env)
	case *ast.RangeExpr:
		return e.evalRange(n, env)
	case *ast.SelectExpr:
		return e.evalSelect(n, env)
	case *ast.ProcessExpr:
		return e.evalProcess(n, env)
	case *ast.ImportExpr:
		v, err := e.loadImport(n.Span().Start.File, n.Path)
		if err != nil {
			return nil, err
		}
		return v, nil
	case *ast.IncludeExpr:
		return e.evalInclude(n, env)
	case *ast.FailExpr:
		msg, err := e.evalExpr(n.Msg, env)
		if err != nil {
			return nil, err
		}
		s, ok := msg.(value.Str)
		if !ok {
			return nil, diag.New(diag.KindTypeMismatch, n.Span(), "fail requires a str message, got %s", msg.Kind())
		}
		return nil, diag.New(diag.KindUserFailure, n.Span(), "%s", s.Val)
	case *ast.TraceExpr:
		v, err := e.evalExpr(n.X, env)
		if err != nil {
			return nil, err
		}
		if e.Trace != nil {
			e.Trace.Trace(value.Render(v), n.Span())
		}
		return v, nil
	default:
		return nil, diag.New(diag.KindParse, node.Span(), "unsupported expression")
	}
}

func (e *Evaluator) evalListLiteral(n *ast.ListLiteral, env *value.Environment) (value.Value, error) {
	elems := make([]value.Value, len(n.Elements))
	for i, x := range n.Elements {
		v, err := e.evalExpr(x, env)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return &value.List{Elements: elems}, nil
}

// evalParenTuple evaluates a parenthesized comma-list `(a, b, ...)` standing
// on its own rather than consumed as a format expression's positional-args
// operand (see buildFormatExpr in the parser); there is no tuple-of-values
// form in the grammar outside that context, so it is treated as a List.
func (e *Evaluator) evalParenTuple(n *ast.ParenExpr, env *value.Environment) (value.Value, error) {
	elems := make([]value.Value, len(n.Elements))
	for i, x := range n.Elements {
		v, err := e.evalExpr(x, env)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return &value.List{Elements: elems}, nil
}

func (e *Evaluator) evalTupleLiteral(n *ast.TupleLiteral, env *value.Environment) (value.Value, error) {
	fields := make([]value.TupleField, len(n.Fields))
	for i, f := range n.Fields {
		v, err := e.evalExpr(f.Value, env)
		if err != nil {
			return nil, err
		}
		fields[i] = value.TupleField{Name: f.Name, Value: v}
	}
	return value.NewTuple(fields), nil
}

func (e *Evaluator) evalUnary(n *ast.UnaryExpr, env *value.Environment) (value.Value, error) {
	x, err := e.evalExpr(n.X, env)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "not":
		b, ok := x.(value.Bool)
		if !ok {
			return nil, diag.New(diag.KindTypeMismatch, n.Span(), "not requires bool, got %s", x.Kind())
		}
		return value.Bool{Val: !b.Val}, nil
	case "-":
		switch v := x.(type) {
		case value.Int:
			return value.Int{Val: -v.Val}, nil
		case value.Float:
			return value.Float{Val: -v.Val}, nil
		default:
			return nil, diag.New(diag.KindTypeMismatch, n.Span(), "unary - requires int or float, got %s", x.Kind())
		}
	default:
		return nil, diag.New(diag.KindParse, n.Span(), "unsupported unary operator %q", n.Op)
	}
}

func (e *Evaluator) evalBinary(n *ast.BinaryExpr, env *value.Environment) (value.Value, error) {
	switch n.Op {
	case "&&":
		lb, err := e.evalBoolOperand(n.X, env)
		if err != nil {
			return nil, err
		}
		if !lb {
			return value.Bool{Val: false}, nil
		}
		rb, err := e.evalBoolOperand(n.Y, env)
		if err != nil {
			return nil, err
		}
		return value.Bool{Val: rb}, nil
	case "||":
		lb, err := e.evalBoolOperand(n.X, env)
		if err != nil {
			return nil, err
		}
		if lb {
			return value.Bool{Val: true}, nil
		}
		rb, err := e.evalBoolOperand(n.Y, env)
		if err != nil {
			return nil, err
		}
		return value.Bool{Val: rb}, nil
	}

	x, err := e.evalExpr(n.X, env)
	if err != nil {
		return nil, err
	}
	y, err := e.evalExpr(n.Y, env)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "+", "-", "*", "/", "%%":
		return evalArith(n.Op, x, y, n.Span())
	case "<", "<=", ">", ">=":
		return evalOrderComparison(n.Op, x, y, n.Span())
	case "==":
		return value.Bool{Val: value.Equal(x, y)}, nil
	case "!=":
		return value.Bool{Val: !value.Equal(x, y)}, nil
	case "=~", "!~":
		return evalRegexMatch(n.Op, x, y, n.Span())
	case "in":
		return evalIn(x, y, n.Span())
	case "is":
		return evalIs(x, y, n.Span())
	default:
		return nil, diag.New(diag.KindParse, n.Span(), "unsupported binary operator %q", n.Op)
	}
}

func (e *Evaluator) evalBoolOperand(x ast.Expression, env *value.Environment) (bool, error) {
	v, err := e.evalExpr(x, env)
	if err != nil {
		return false, err
	}
	b, ok := v.(value.Bool)
	if !ok {
		return false, diag.New(diag.KindTypeMismatch, x.Span(), "&&/|| operands must be bool, got %s", v.Kind())
	}
	return b.Val, nil
}

func evalArith(op string, x, y value.Value, span ast.Span) (value.Value, error) {
	if op == "+" {
		if xs, ok := x.(value.Str); ok {
			ys, ok := y.(value.Str)
			if !ok {
				return nil, diag.New(diag.KindTypeMismatch, span, "+ on str requires str, got %s", y.Kind())
			}
			return value.Str{Val: xs.Val + ys.Val}, nil
		}
		if xl, ok := x.(*value.List); ok {
			yl, ok := y.(*value.List)
			if !ok {
				return nil, diag.New(diag.KindTypeMismatch, span, "+ on list requires list, got %s", y.Kind())
			}
			out := append(append([]value.Value(nil), xl.Elements...), yl.Elements...)
			return &value.List{Elements: out}, nil
		}
	}
	if op == "%%" {
		xi, xok := x.(value.Int)
		yi, yok := y.(value.Int)
		if !xok || !yok {
			return nil, diag.New(diag.KindTypeMismatch, span, "%%%% requires int operands, got %s and %s", x.Kind(), y.Kind())
		}
		if yi.Val == 0 {
			return nil, diag.New(diag.KindRangeError, span, "modulus by zero")
		}
		return value.Int{Val: xi.Val % yi.Val}, nil
	}
	switch xv := x.(type) {
	case value.Int:
		yv, ok := y.(value.Int)
		if !ok {
			return nil, diag.New(diag.KindTypeMismatch, span, "%s requires matching numeric operands, got int and %s", op, y.Kind())
		}
		switch op {
		case "+":
			return value.Int{Val: xv.Val + yv.Val}, nil
		case "-":
			return value.Int{Val: xv.Val - yv.Val}, nil
		case "*":
			return value.Int{Val: xv.Val * yv.Val}, nil
		case "/":
			if yv.Val == 0 {
				return nil, diag.New(diag.KindRangeError, span, "division by zero")
			}
			return value.Int{Val: xv.Val / yv.Val}, nil
		}
	case value.Float:
		yv, ok := y.(value.Float)
		if !ok {
			return nil, diag.New(diag.KindTypeMismatch, span, "%s requires matching numeric operands, got float and %s", op, y.Kind())
		}
		switch op {
		case "+":
			return value.Float{Val: xv.Val + yv.Val}, nil
		case "-":
			return value.Float{Val: xv.Val - yv.Val}, nil
		case "*":
			return value.Float{Val: xv.Val * yv.Val}, nil
		case "/":
			if yv.Val == 0 {
				return nil, diag.New(diag.KindRangeError, span, "division by zero")
			}
			return value.Float{Val: xv.Val / yv.Val}, nil
		}
	}
	return nil, diag.New(diag.KindTypeMismatch, span, "%s not supported for %s", op, x.Kind())
}

func evalOrderComparison(op string, x, y value.Value, span ast.Span) (value.Value, error) {
	var cmp int
	switch xv := x.(type) {
	case value.Int:
		yv, ok := y.(value.Int)
		if !ok {
			return nil, diag.New(diag.KindTypeMismatch, span, "%s requires matching numeric operands, got int and %s", op, y.Kind())
		}
		switch {
		case xv.Val < yv.Val:
			cmp = -1
		case xv.Val > yv.Val:
			cmp = 1
		}
	case value.Float:
		yv, ok := y.(value.Float)
		if !ok {
			return nil, diag.New(diag.KindTypeMismatch, span, "%s requires matching numeric operands, got float and %s", op, y.Kind())
		}
		switch {
		case xv.Val < yv.Val:
			cmp = -1
		case xv.Val > yv.Val:
			cmp = 1
		}
	default:
		return nil, diag.New(diag.KindTypeMismatch, span, "%s requires int or float operands, got %s", op, x.Kind())
	}
	var result bool
	switch op {
	case "<":
		result = cmp < 0
	case "<=":
		result = cmp <= 0
	case ">":
		result = cmp > 0
	case ">=":
		result = cmp >= 0
	}
	return value.Bool{Val: result}, nil
}

func evalRegexMatch(op string, x, y value.Value, span ast.Span) (value.Value, error) {
	xs, ok := x.(value.Str)
	if !ok {
		return nil, diag.New(diag.KindTypeMismatch, span, "%s requires a str left operand, got %s", op, x.Kind())
	}
	ys, ok := y.(value.Str)
	if !ok {
		return nil, diag.New(diag.KindTypeMismatch, span, "%s requires a str pattern, got %s", op, y.Kind())
	}
	re, err := regexp.Compile(ys.Val)
	if err != nil {
		return nil, diag.New(diag.KindTypeMismatch, span, "invalid regular expression %q: %v", ys.Val, err)
	}
	matched := re.MatchString(xs.Val)
	if op == "!~" {
		matched = !matched
	}
	return value.Bool{Val: matched}, nil
}

func evalIn(x, y value.Value, span ast.Span) (value.Value, error) {
	switch yv := y.(type) {
	case *value.Tuple:
		xs, ok := x.(value.Str)
		if !ok {
			return value.Bool{Val: false}, nil
		}
		_, found := yv.Field(xs.Val)
		return value.Bool{Val: found}, nil
	case *value.List:
		for _, elem := range yv.Elements {
			if value.Equal(x, elem) {
				return value.Bool{Val: true}, nil
			}
		}
		return value.Bool{Val: false}, nil
	default:
		return nil, diag.New(diag.KindTypeMismatch, span, "in requires a tuple or list right operand, got %s", y.Kind())
	}
}

func evalIs(x, y value.Value, span ast.Span) (value.Value, error) {
	ys, ok := y.(value.Str)
	if !ok {
		return nil, diag.New(diag.KindTypeMismatch, span, "is requires a str type-name operand, got %s", y.Kind())
	}
	if !value.IsValidTypeName(ys.Val) {
		return nil, diag.New(diag.KindTypeMismatch, span, "%q is not a valid type name", ys.Val)
	}
	return value.Bool{Val: value.TypeName(x) == ys.Val}, nil
}

func (e *Evaluator) evalSelector(n *ast.Selector, env *value.Environment) (value.Value, error) {
	base, err := e.evalExpr(n.X, env)
	if err != nil {
		return nil, err
	}
	switch b := base.(type) {
	case *EnvProxy:
		if n.IsIndex {
			return nil, diag.New(diag.KindBadSelector, n.Span(), "env does not support index selectors")
		}
		v, warn, err := b.Lookup(n.Name, n.Span())
		if warn && e.Trace != nil {
			e.Trace.Warn(fmt.Sprintf("env.%s is not set, using Null", n.Name), n.Span())
		}
		return v, err
	case *importer.Placeholder:
		name := n.Name
		if n.IsIndex {
			return nil, diag.New(diag.KindBadSelector, n.Span(), "cyclic import placeholder does not support index selectors")
		}
		v, ok := b.Field(name)
		if !ok {
			return nil, importer.CyclicImportUseError(n.Span(), b.Path(), name)
		}
		return v, nil
	case *value.Tuple:
		if n.IsIndex {
			return nil, diag.New(diag.KindBadSelector, n.Span(), "tuples are selected by field name, not index")
		}
		v, ok := b.Field(n.Name)
		if !ok {
			return nil, diag.New(diag.KindBadSelector, n.Span(), "no field named %q", n.Name)
		}
		return v, nil
	case *value.List:
		idx, ok := selectorIndex(n)
		if !ok {
			return nil, diag.New(diag.KindBadSelector, n.Span(), "lists are selected by integer index")
		}
		if idx < 0 || idx >= int64(len(b.Elements)) {
			return nil, diag.New(diag.KindBadSelector, n.Span(), "index %d out of range (len %d)", idx, len(b.Elements))
		}
		return b.Elements[idx], nil
	default:
		if n.IsIndex {
			return nil, diag.New(diag.KindNotAList, n.Span(), "index selector requires a list, got %s", base.Kind())
		}
		return nil, diag.New(diag.KindNotATuple, n.Span(), "field selector requires a tuple, got %s", base.Kind())
	}
}

func selectorIndex(n *ast.Selector) (int64, bool) {
	if n.IsIndex {
		return n.Index, true
	}
	var idx int64
	for _, c := range n.Name {
		if c < '0' || c > '9' {
			return 0, false
		}
		idx = idx*10 + int64(c-'0')
	}
	if n.Name == "" {
		return 0, false
	}
	return idx, true
}

func (e *Evaluator) evalCall(n *ast.CallExpr, env *value.Environment) (value.Value, error) {
	fn, err := e.evalExpr(n.Fn, env)
	if err != nil {
		return nil, err
	}
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := e.evalExpr(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return e.callFunc(fn, args, n.Span())
}

func (e *Evaluator) evalCopy(n *ast.CopyExpr, env *value.Environment) (value.Value, error) {
	base, err := e.evalExpr(n.Source, env)
	if err != nil {
		return nil, err
	}
	switch b := base.(type) {
	case *value.Tuple:
		return e.applyOverrides(env, b, n.Overrides, true, n.Span())
	case *value.Module:
		return e.instantiateModule(b, n.Overrides, env, n.Span())
	default:
		return nil, diag.New(diag.KindNotATuple, n.Span(), "copy target must be a tuple or module, got %s", base.Kind())
	}
}

func (e *Evaluator) evalInclude(n *ast.IncludeExpr, env *value.Environment) (value.Value, error) {
	canonical := e.Resolver.Resolve(n.Span().Start.File, n.Path)
	source, err := e.Loader.Load(canonical)
	if err != nil {
		return nil, diag.New(diag.KindIO, n.Span(), "%v", err)
	}
	switch n.Kind {
	case "str":
		return value.Str{Val: source}, nil
	case "base64":
		return value.Str{Val: base64.StdEncoding.EncodeToString([]byte(source))}, nil
	default:
		return nil, diag.New(diag.KindParse, n.Span(), "unsupported include kind %q", n.Kind)
	}
}
