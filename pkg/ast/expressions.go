package ast

// Identifier is a bareword symbol reference.
type Identifier struct {
	Base
	Name string
}

func (*Identifier) exprNode() {}

// NullLiteral is the `NULL` literal.
type NullLiteral struct{ Base }

func (*NullLiteral) exprNode() {}

// BoolLiteral is `true` or `false`.
type BoolLiteral struct {
	Base
	Value bool
}

func (*BoolLiteral) exprNode() {}

// IntLiteral is an integer literal with no decimal point.
type IntLiteral struct {
	Base
	Value int64
}

func (*IntLiteral) exprNode() {}

// FloatLiteral is a literal containing a decimal point.
type FloatLiteral struct {
	Base
	Value float64
}

func (*FloatLiteral) exprNode() {}

// StringLiteral is a double-quoted string literal, already unescaped.
type StringLiteral struct {
	Base
	Value string
}

func (*StringLiteral) exprNode() {}

// ListLiteral is `[ e, e, ... ]`.
type ListLiteral struct {
	Base
	Elements []Expression
}

func (*ListLiteral) exprNode() {}

// TupleField is one `name = expr` entry of a tuple literal, copy override
// block, or module parameter list (where Value may be a default).
type TupleField struct {
	Name    string
	NamePos Position
	Value   Expression
}

// TupleLiteral is `{ name = expr, ... }`.
type TupleLiteral struct {
	Base
	Fields []TupleField
}

func (*TupleLiteral) exprNode() {}

// FuncLiteral is `func (a, b) => EXPR`.
type FuncLiteral struct {
	Base
	Params []string
	Body   Expression
}

func (*FuncLiteral) exprNode() {}

// ModuleLiteral is `module PARAMS => [OUT] { STMTS }`.
type ModuleLiteral struct {
	Base
	Params  []TupleField // Value holds the default expression, may be nil
	Out     Expression   // nil when absent
	Body    []Statement
	File    string // originating file path, "" if defined inside `eval`
}

func (*ModuleLiteral) exprNode() {}

// UnaryExpr is `not X` or unary `-X`.
type UnaryExpr struct {
	Base
	Op string
	X  Expression
}

func (*UnaryExpr) exprNode() {}

// BinaryExpr covers every infix operator, including `in` and `is`.
type BinaryExpr struct {
	Base
	Op   string
	X, Y Expression
}

func (*BinaryExpr) exprNode() {}

// Selector is a postfix `.field`, `.0`, or `."quoted"` projection.
type Selector struct {
	Base
	X       Expression
	Name    string
	IsIndex bool
	Index   int64
}

func (*Selector) exprNode() {}

// CallExpr is a postfix `(args...)` application.
type CallExpr struct {
	Base
	Fn   Expression
	Args []Expression
}

func (*CallExpr) exprNode() {}

// CopyExpr is a postfix `{ overrides }` tuple copy.
type CopyExpr struct {
	Base
	Source    Expression
	Overrides []TupleField
}

func (*CopyExpr) exprNode() {}

// FormatExpr is `STR % ARG`.
type FormatExpr struct {
	Base
	Format Expression
	Arg    Expression
	// Positional is true when ARG was written as a parenthesized tuple of
	// expressions, i.e. `"..." % (a, b)`.
	Positional bool
	PosArgs    []Expression
}

func (*FormatExpr) exprNode() {}

// RangeExpr is `a:b` or `a:step:b`.
type RangeExpr struct {
	Base
	Start, Step, End Expression // Step may be nil
}

func (*RangeExpr) exprNode() {}

// SelectExpr is `select KEY[, DEFAULT], { cases }`.
type SelectExpr struct {
	Base
	Key     Expression
	Default Expression // nil when absent
	Cases   Expression
}

func (*SelectExpr) exprNode() {}

// ImportExpr is `import "path"`.
type ImportExpr struct {
	Base
	Path string
}

func (*ImportExpr) exprNode() {}

// IncludeExpr is `include TYPE "path"`.
type IncludeExpr struct {
	Base
	Kind string // "str" or "base64"
	Path string
}

func (*IncludeExpr) exprNode() {}

// ProcessExpr covers `map`, `filter`, and `reduce`.
type ProcessExpr struct {
	Base
	Kind string // "map", "filter", "reduce"
	Fn   Expression
	Init Expression // reduce only, otherwise nil
	Coll Expression
}

func (*ProcessExpr) exprNode() {}

// FailExpr is `fail EXPR`.
type FailExpr struct {
	Base
	Msg Expression
}

func (*FailExpr) exprNode() {}

// TraceExpr is `TRACE EXPR`.
type TraceExpr struct {
	Base
	X Expression
}

func (*TraceExpr) exprNode() {}

// ParenExpr preserves an explicit parenthesization, used to distinguish a
// format-expression's positional-tuple argument `(a, b)` from any other
// parenthesized expression.
type ParenExpr struct {
	Base
	X        Expression
	IsTuple  bool
	Elements []Expression // populated when IsTuple
}

func (*ParenExpr) exprNode() {}
