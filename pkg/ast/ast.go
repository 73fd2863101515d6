// Package ast defines the UCG abstract syntax tree and source positions.
package ast

// Position identifies one point in a source file.
type Position struct {
	File string
	Line int
	Col  int
}

// Span covers a range of source text, used to anchor diagnostics.
type Span struct {
	Start Position
	End   Position
}

// Join returns the smallest span covering both a and b.
func Join(a, b Span) Span {
	return Span{Start: a.Start, End: b.End}
}

// Node is implemented by every AST node.
type Node interface {
	Span() Span
}

// Expression is implemented by every expression node.
type Expression interface {
	Node
	exprNode()
}

// Statement is implemented by every top-level/module-body statement node.
type Statement interface {
	Node
	stmtNode()
}

// Base carries the source span shared by every node. Node structs embed it
// anonymously so Span() is promoted and literals built from other packages
// can set it by field name: `ast.Identifier{Base: ast.NewBase(sp), ...}`.
type Base struct {
	span Span
}

// NewBase constructs the span-carrying embed for a node literal.
func NewBase(sp Span) Base { return Base{span: sp} }

func (b Base) Span() Span { return b.span }

// File is the root of a parsed UCG source file: a sequence of statements.
type File struct {
	Path string
	Body []Statement
}
