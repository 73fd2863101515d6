package eval

import (
	"strings"

	"github.com/jfranklin9000/ucg/pkg/ast"
	"github.com/jfranklin9000/ucg/pkg/diag"
	"github.com/jfranklin9000/ucg/pkg/parser"
	"github.com/jfranklin9000/ucg/pkg/value"
)

// evalFormat implements `STR % ARG` ("Format expression"): a
// parenthesized positional-args tuple substitutes one `@` per argument in
// order; any other ARG is evaluated once to `item` and substitutes both
// bare `@` (the first occurrence only) and `@{EXPR}` template expressions
// evaluated with `item` bound.
func (e *Evaluator) evalFormat(n *ast.FormatExpr, env *value.Environment) (value.Value, error) {
	formatV, err := e.evalExpr(n.Format, env)
	if err != nil {
		return nil, err
	}
	formatStr, ok := formatV.(value.Str)
	if !ok {
		return nil, diag.New(diag.KindTypeMismatch, n.Span(), "%% requires a str format operand, got %s", formatV.Kind())
	}

	if n.Positional {
		args := make([]value.Value, len(n.PosArgs))
		for i, a := range n.PosArgs {
			v, err := e.evalExpr(a, env)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return formatPositional(formatStr.Val, args, n.Span())
	}

	item, err := e.evalExpr(n.Arg, env)
	if err != nil {
		return nil, err
	}
	itemEnv := env.Extend()
	itemEnv.Define("item", item)
	return e.formatTemplate(formatStr.Val, item, itemEnv, n.Span())
}

func formatPositional(format string, args []value.Value, span ast.Span) (value.Value, error) {
	var b strings.Builder
	argi := 0
	for i := 0; i < len(format); i++ {
		if format[i] == '@' {
			if argi >= len(args) {
				return nil, diag.New(diag.KindFormatArity, span, "format string has more %q placeholders than arguments (%d given)", "@", len(args))
			}
			b.WriteString(value.Render(args[argi]))
			argi++
			continue
		}
		b.WriteByte(format[i])
	}
	if argi != len(args) {
		return nil, diag.New(diag.KindFormatArity, span, "format string consumed %d of %d arguments", argi, len(args))
	}
	return value.Str{Val: b.String()}, nil
}

func (e *Evaluator) formatTemplate(format string, item value.Value, itemEnv *value.Environment, span ast.Span) (value.Value, error) {
	var b strings.Builder
	itemConsumed := false
	i := 0
	for i < len(format) {
		if format[i] == '@' && i+1 < len(format) && format[i+1] == '{' {
			end, exprSrc, ok := scanBraceExpr(format, i+2)
			if !ok {
				return nil, diag.New(diag.KindFormatArity, span, "unterminated @{...} in format string")
			}
			expr, err := parser.ParseExpr(exprSrc, span.Start.File)
			if err != nil {
				return nil, err
			}
			v, err := e.evalExpr(expr, itemEnv)
			if err != nil {
				return nil, err
			}
			b.WriteString(value.Render(v))
			i = end
			continue
		}
		if format[i] == '@' {
			if itemConsumed {
				return nil, diag.New(diag.KindFormatArity, span, "format string has more %q placeholders than the single template argument", "@")
			}
			b.WriteString(value.Render(item))
			itemConsumed = true
			i++
			continue
		}
		b.WriteByte(format[i])
		i++
	}
	return value.Str{Val: b.String()}, nil
}

// scanBraceExpr scans a brace-depth-balanced `{ ... }` body starting at
// start (just past "@{"), returning the index just past the closing brace
// and the body text, so nested tuple/list literals inside the expression
// don't terminate the scan early.
func scanBraceExpr(s string, start int) (int, string, bool) {
	depth := 1
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, s[start:i], true
			}
		}
	}
	return 0, "", false
}
