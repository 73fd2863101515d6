// Package parser builds a UCG AST from a token stream.
package parser

import (
	"strconv"

	"github.com/jfranklin9000/ucg/pkg/ast"
	"github.com/jfranklin9000/ucg/pkg/diag"
	"github.com/jfranklin9000/ucg/pkg/lexer"
)

type parser struct {
	file   string
	tokens []lexer.Token
	pos    int
	err    *diag.Error
}

// Parse tokenizes and parses source into a File. Parsing stops at the first
// lex or parse error.
func Parse(source, file string) (*ast.File, error) {
	toks, err := lexer.Tokenize(source, file)
	if err != nil {
		return nil, err
	}
	p := &parser{file: file, tokens: toks}
	body := p.parseStatements(lexer.EOF)
	if p.err != nil {
		return nil, p.err
	}
	return &ast.File{Path: file, Body: body}, nil
}

// ParseExpr parses a single standalone expression, used by `ucg eval -e` and
// by format-expression template re-lexing.
func ParseExpr(source, file string) (ast.Expression, error) {
	toks, err := lexer.Tokenize(source, file)
	if err != nil {
		return nil, err
	}
	p := &parser{file: file, tokens: toks}
	expr := p.parseExpression()
	if p.err != nil {
		return nil, p.err
	}
	return expr, nil
}

func (p *parser) cur() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *parser) peek() lexer.Kind { return p.cur().Kind }

func (p *parser) peekAt(n int) lexer.Kind {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return lexer.EOF
	}
	return p.tokens[idx].Kind
}

func (p *parser) advance() lexer.Token {
	tok := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) fail() {
	if p.err == nil {
		tok := p.cur()
		p.err = diag.New(diag.KindParse, tok.Span, "unexpected %s", tok.Kind)
	}
}

func (p *parser) failExpected(want string) {
	if p.err == nil {
		tok := p.cur()
		p.err = diag.New(diag.KindParse, tok.Span, "expected %s, found %s", want, tok.Kind)
	}
}

func (p *parser) expect(k lexer.Kind) (lexer.Token, bool) {
	tok := p.cur()
	if tok.Kind != k {
		p.failExpected(k.String())
		return tok, false
	}
	return p.advance(), true
}

func (p *parser) stopped() bool { return p.err != nil }

func (p *parser) span(start ast.Position) ast.Span {
	return ast.Span{Start: start, End: p.cur().Span.Start}
}

func pos(t lexer.Token) ast.Position { return t.Span.Start }

// parseStatements reads statements until end or a parse error.
func (p *parser) parseStatements(end lexer.Kind) []ast.Statement {
	var stmts []ast.Statement
	for !p.stopped() && p.peek() != end {
		stmts = append(stmts, p.parseStatement())
	}
	return stmts
}

func (p *parser) parseStatement() ast.Statement {
	switch p.peek() {
	case lexer.KwLet:
		return p.parseLetStmt()
	case lexer.KwAssert:
		return p.parseAssertStmt()
	case lexer.KwOut:
		return p.parseOutStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *parser) parseLetStmt() ast.Statement {
	start := p.advance() // 'let'
	name, ok := p.expect(lexer.Ident)
	if !ok {
		return nil
	}
	if _, ok := p.expect(lexer.Assign); !ok {
		return nil
	}
	value := p.parseExpression()
	if p.stopped() {
		return nil
	}
	if _, ok := p.expect(lexer.Semi); !ok {
		return nil
	}
	return &ast.LetStmt{Base: ast.NewBase(p.span(pos(start))), Name: name.Text, Value: value}
}

func (p *parser) parseAssertStmt() ast.Statement {
	start := p.advance() // 'assert'
	value := p.parseExpression()
	if p.stopped() {
		return nil
	}
	if _, ok := p.expect(lexer.Semi); !ok {
		return nil
	}
	return &ast.AssertStmt{Base: ast.NewBase(p.span(pos(start))), Value: value}
}

func (p *parser) parseOutStmt() ast.Statement {
	start := p.advance() // 'out'
	conv, ok := p.expect(lexer.Ident)
	if !ok {
		return nil
	}
	value := p.parseExpression()
	if p.stopped() {
		return nil
	}
	if _, ok := p.expect(lexer.Semi); !ok {
		return nil
	}
	return &ast.OutStmt{Base: ast.NewBase(p.span(pos(start))), Converter: conv.Text, Value: value}
}

func (p *parser) parseExprStmt() ast.Statement {
	start := p.cur()
	x := p.parseExpression()
	if p.stopped() {
		return nil
	}
	if _, ok := p.expect(lexer.Semi); !ok {
		return nil
	}
	return &ast.ExprStmt{Base: ast.NewBase(p.span(pos(start))), X: x}
}

// parseExpression is the grammar's top production: range, then the binary
// precedence chain.
func (p *parser) parseExpression() ast.Expression {
	start := p.cur()
	first := p.parseBinary(1)
	if p.stopped() {
		return nil
	}
	if p.peek() != lexer.Colon {
		return first
	}
	p.advance() // ':'
	second := p.parseBinary(1)
	if p.stopped() {
		return nil
	}
	if p.peek() != lexer.Colon {
		return &ast.RangeExpr{Base: ast.NewBase(p.span(pos(start))), Start: first, Step: nil, End: second}
	}
	p.advance() // ':'
	third := p.parseBinary(1)
	if p.stopped() {
		return nil
	}
	return &ast.RangeExpr{Base: ast.NewBase(p.span(pos(start))), Start: first, Step: second, End: third}
}

// precedence levels, matching the grammar table (higher binds tighter).
func binOpPrec(k lexer.Kind) (op string, prec int, ok bool) {
	switch k {
	case lexer.EqEq:
		return "==", 1, true
	case lexer.NotEq:
		return "!=", 1, true
	case lexer.GtEq:
		return ">=", 1, true
	case lexer.LtEq:
		return "<=", 1, true
	case lexer.Gt:
		return ">", 1, true
	case lexer.Lt:
		return "<", 1, true
	case lexer.Match:
		return "=~", 1, true
	case lexer.NotMatch:
		return "!~", 1, true
	case lexer.KwIn:
		return "in", 2, true
	case lexer.KwIs:
		return "is", 2, true
	case lexer.Plus:
		return "+", 3, true
	case lexer.Minus:
		return "-", 3, true
	case lexer.Star:
		return "*", 4, true
	case lexer.Slash:
		return "/", 4, true
	case lexer.DblPct:
		return "%%", 4, true
	case lexer.Percent:
		return "%", 4, true
	case lexer.AndAnd:
		return "&&", 5, true
	case lexer.OrOr:
		return "||", 5, true
	}
	return "", 0, false
}

func (p *parser) parseBinary(minPrec int) ast.Expression {
	left := p.parseUnary()
	if p.stopped() {
		return nil
	}
	for {
		op, prec, ok := binOpPrec(p.peek())
		if !ok || prec < minPrec {
			return left
		}
		p.advance()
		right := p.parseBinary(prec + 1)
		if p.stopped() {
			return nil
		}
		if op == "%" {
			left = buildFormatExpr(left, right)
		} else {
			left = &ast.BinaryExpr{Base: ast.NewBase(ast.Join(left.Span(), right.Span())), Op: op, X: left, Y: right}
		}
	}
}

func buildFormatExpr(format, arg ast.Expression) ast.Expression {
	fe := &ast.FormatExpr{Base: ast.NewBase(ast.Join(format.Span(), arg.Span())), Format: format}
	if pe, ok := arg.(*ast.ParenExpr); ok && pe.IsTuple {
		fe.Positional = true
		fe.PosArgs = pe.Elements
	} else {
		fe.Arg = arg
	}
	return fe
}

func (p *parser) parseUnary() ast.Expression {
	switch p.peek() {
	case lexer.KwNot:
		start := p.advance()
		x := p.parseUnary()
		if p.stopped() {
			return nil
		}
		return &ast.UnaryExpr{Base: ast.NewBase(p.span(pos(start))), Op: "not", X: x}
	case lexer.Minus:
		start := p.advance()
		x := p.parseUnary()
		if p.stopped() {
			return nil
		}
		return &ast.UnaryExpr{Base: ast.NewBase(p.span(pos(start))), Op: "-", X: x}
	default:
		return p.parsePostfix()
	}
}

func (p *parser) parsePostfix() ast.Expression {
	x := p.parsePrimary()
	if p.stopped() {
		return nil
	}
	for {
		switch p.peek() {
		case lexer.Dot:
			p.advance()
			x = p.parseSelector(x)
		case lexer.LParen:
			x = p.parseCall(x)
		case lexer.LBrace:
			x = p.parseCopy(x)
		case lexer.Float:
			// The lexer scans `.0` as a float; right after an operand, a
			// float spelled as a dot and digits is an integer index selector.
			tok := p.cur()
			if len(tok.Text) < 2 || tok.Text[0] != '.' {
				return x
			}
			n, err := strconv.ParseInt(tok.Text[1:], 10, 64)
			if err != nil {
				return x
			}
			p.advance()
			x = &ast.Selector{Base: ast.NewBase(ast.Join(x.Span(), tok.Span)), X: x, IsIndex: true, Index: n}
		default:
			return x
		}
		if p.stopped() {
			return nil
		}
	}
}

func (p *parser) parseSelector(x ast.Expression) ast.Expression {
	tok := p.cur()
	switch tok.Kind {
	case lexer.Ident:
		p.advance()
		return &ast.Selector{Base: ast.NewBase(ast.Join(x.Span(), tok.Span)), X: x, Name: tok.Text}
	case lexer.Int:
		p.advance()
		n, _ := strconv.ParseInt(tok.Text, 10, 64)
		return &ast.Selector{Base: ast.NewBase(ast.Join(x.Span(), tok.Span)), X: x, IsIndex: true, Index: n}
	case lexer.Str:
		p.advance()
		return &ast.Selector{Base: ast.NewBase(ast.Join(x.Span(), tok.Span)), X: x, Name: tok.Text}
	default:
		p.failExpected("field name, index, or quoted selector")
		return nil
	}
}

func (p *parser) parseCall(fn ast.Expression) ast.Expression {
	start := p.advance() // '('
	var args []ast.Expression
	for p.peek() != lexer.RParen {
		args = append(args, p.parseExpression())
		if p.stopped() {
			return nil
		}
		if p.peek() == lexer.Comma {
			p.advance()
			continue
		}
		break
	}
	end, ok := p.expect(lexer.RParen)
	if !ok {
		return nil
	}
	return &ast.CallExpr{Base: ast.NewBase(ast.Span{Start: pos(start), End: end.Span.End}), Fn: fn, Args: args}
}

func (p *parser) parseCopy(base ast.Expression) ast.Expression {
	start := p.advance() // '{'
	var fields []ast.TupleField
	for p.peek() != lexer.RBrace {
		f, ok := p.parseTupleField()
		if !ok {
			return nil
		}
		fields = append(fields, f)
		if p.peek() == lexer.Comma {
			p.advance()
			continue
		}
		break
	}
	end, ok := p.expect(lexer.RBrace)
	if !ok {
		return nil
	}
	return &ast.CopyExpr{Base: ast.NewBase(ast.Span{Start: pos(start), End: end.Span.End}), Source: base, Overrides: fields}
}

// isFieldNameToken reports whether a token may spell a tuple field name.
// Keywords are allowed here because select-case tuples key on the literal
// field names "true"/"false", since Bool select keys act as those names.
func isFieldNameToken(k lexer.Kind) bool {
	return k == lexer.Ident || k == lexer.KwTrue || k == lexer.KwFalse
}

func (p *parser) parseTupleField() (ast.TupleField, bool) {
	tok := p.cur()
	if !isFieldNameToken(tok.Kind) {
		p.failExpected("field name")
		return ast.TupleField{}, false
	}
	name := p.advance()
	if _, ok := p.expect(lexer.Assign); !ok {
		return ast.TupleField{}, false
	}
	val := p.parseExpression()
	if p.stopped() {
		return ast.TupleField{}, false
	}
	return ast.TupleField{Name: name.Text, NamePos: pos(name), Value: val}, true
}

func (p *parser) parsePrimary() ast.Expression {
	tok := p.cur()
	switch tok.Kind {
	case lexer.KwNull:
		p.advance()
		return &ast.NullLiteral{Base: ast.NewBase(tok.Span)}
	case lexer.KwTrue:
		p.advance()
		return &ast.BoolLiteral{Base: ast.NewBase(tok.Span), Value: true}
	case lexer.KwFalse:
		p.advance()
		return &ast.BoolLiteral{Base: ast.NewBase(tok.Span), Value: false}
	case lexer.Int:
		p.advance()
		n, _ := strconv.ParseInt(tok.Text, 10, 64)
		return &ast.IntLiteral{Base: ast.NewBase(tok.Span), Value: n}
	case lexer.Float:
		p.advance()
		f, _ := strconv.ParseFloat(tok.Text, 64)
		return &ast.FloatLiteral{Base: ast.NewBase(tok.Span), Value: f}
	case lexer.Str:
		p.advance()
		return &ast.StringLiteral{Base: ast.NewBase(tok.Span), Value: tok.Text}
	case lexer.Ident:
		p.advance()
		return &ast.Identifier{Base: ast.NewBase(tok.Span), Name: tok.Text}
	case lexer.LBracket:
		return p.parseListLiteral()
	case lexer.LBrace:
		return p.parseTupleLiteral()
	case lexer.LParen:
		return p.parseParen()
	case lexer.KwFunc:
		return p.parseFuncLiteral()
	case lexer.KwModule:
		return p.parseModuleLiteral()
	case lexer.KwImport:
		return p.parseImportExpr()
	case lexer.KwInclude:
		return p.parseIncludeExpr()
	case lexer.KwSelect:
		return p.parseSelectExpr()
	case lexer.KwMap, lexer.KwFilter, lexer.KwReduce:
		return p.parseProcessExpr()
	case lexer.KwFail:
		p.advance()
		msg := p.parseExpression()
		if p.stopped() {
			return nil
		}
		return &ast.FailExpr{Base: ast.NewBase(p.span(pos(tok))), Msg: msg}
	case lexer.KwTrace:
		p.advance()
		x := p.parseExpression()
		if p.stopped() {
			return nil
		}
		return &ast.TraceExpr{Base: ast.NewBase(p.span(pos(tok))), X: x}
	default:
		p.failExpected("expression")
		return nil
	}
}

func (p *parser) parseListLiteral() ast.Expression {
	start := p.advance() // '['
	var elems []ast.Expression
	for p.peek() != lexer.RBracket {
		elems = append(elems, p.parseExpression())
		if p.stopped() {
			return nil
		}
		if p.peek() == lexer.Comma {
			p.advance()
			continue
		}
		break
	}
	end, ok := p.expect(lexer.RBracket)
	if !ok {
		return nil
	}
	return &ast.ListLiteral{Base: ast.NewBase(ast.Span{Start: pos(start), End: end.Span.End}), Elements: elems}
}

func (p *parser) parseTupleLiteral() ast.Expression {
	start := p.advance() // '{'
	var fields []ast.TupleField
	for p.peek() != lexer.RBrace {
		f, ok := p.parseTupleField()
		if !ok {
			return nil
		}
		fields = append(fields, f)
		if p.peek() == lexer.Comma {
			p.advance()
			continue
		}
		break
	}
	end, ok := p.expect(lexer.RBrace)
	if !ok {
		return nil
	}
	return &ast.TupleLiteral{Base: ast.NewBase(ast.Span{Start: pos(start), End: end.Span.End}), Fields: fields}
}

// parseParen distinguishes a grouped expression `(expr)` from a positional
// tuple `(expr, expr, ...)`, used both as the operand of `%` and in general.
func (p *parser) parseParen() ast.Expression {
	start := p.advance() // '('
	first := p.parseExpression()
	if p.stopped() {
		return nil
	}
	if p.peek() == lexer.Comma {
		elems := []ast.Expression{first}
		for p.peek() == lexer.Comma {
			p.advance()
			if p.peek() == lexer.RParen {
				break
			}
			elems = append(elems, p.parseExpression())
			if p.stopped() {
				return nil
			}
		}
		end, ok := p.expect(lexer.RParen)
		if !ok {
			return nil
		}
		return &ast.ParenExpr{Base: ast.NewBase(ast.Span{Start: pos(start), End: end.Span.End}), IsTuple: true, Elements: elems}
	}
	end, ok := p.expect(lexer.RParen)
	if !ok {
		return nil
	}
	return &ast.ParenExpr{Base: ast.NewBase(ast.Span{Start: pos(start), End: end.Span.End}), X: first}
}

func (p *parser) parseFuncLiteral() ast.Expression {
	start := p.advance() // 'func'
	if _, ok := p.expect(lexer.LParen); !ok {
		return nil
	}
	var params []string
	for p.peek() != lexer.RParen {
		name, ok := p.expect(lexer.Ident)
		if !ok {
			return nil
		}
		params = append(params, name.Text)
		if p.peek() == lexer.Comma {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(lexer.RParen); !ok {
		return nil
	}
	if _, ok := p.expect(lexer.FatArrow); !ok {
		return nil
	}
	body := p.parseExpression()
	if p.stopped() {
		return nil
	}
	return &ast.FuncLiteral{Base: ast.NewBase(p.span(pos(start))), Params: params, Body: body}
}

func (p *parser) parseModuleLiteral() ast.Expression {
	start := p.advance() // 'module'
	if _, ok := p.expect(lexer.LBrace); !ok {
		return nil
	}
	var params []ast.TupleField
	for p.peek() != lexer.RBrace {
		name, ok := p.expect(lexer.Ident)
		if !ok {
			return nil
		}
		var def ast.Expression
		if p.peek() == lexer.Assign {
			p.advance()
			def = p.parseExpression()
			if p.stopped() {
				return nil
			}
		}
		params = append(params, ast.TupleField{Name: name.Text, NamePos: pos(name), Value: def})
		if p.peek() == lexer.Comma {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(lexer.RBrace); !ok {
		return nil
	}
	if _, ok := p.expect(lexer.FatArrow); !ok {
		return nil
	}
	var out ast.Expression
	if p.peek() == lexer.LParen {
		p.advance()
		out = p.parseExpression()
		if p.stopped() {
			return nil
		}
		if _, ok := p.expect(lexer.RParen); !ok {
			return nil
		}
	}
	if _, ok := p.expect(lexer.LBrace); !ok {
		return nil
	}
	body := p.parseStatements(lexer.RBrace)
	if p.stopped() {
		return nil
	}
	if _, ok := p.expect(lexer.RBrace); !ok {
		return nil
	}
	return &ast.ModuleLiteral{Base: ast.NewBase(p.span(pos(start))), Params: params, Out: out, Body: body, File: p.file}
}

func (p *parser) parseImportExpr() ast.Expression {
	start := p.advance() // 'import'
	str, ok := p.expect(lexer.Str)
	if !ok {
		return nil
	}
	return &ast.ImportExpr{Base: ast.NewBase(p.span(pos(start))), Path: str.Text}
}

func (p *parser) parseIncludeExpr() ast.Expression {
	start := p.advance() // 'include'
	kind, ok := p.expect(lexer.Ident)
	if !ok {
		return nil
	}
	if kind.Text != "str" && kind.Text != "base64" {
		p.err = diag.New(diag.KindParse, kind.Span, "expected 'str' or 'base64', found %q", kind.Text)
		return nil
	}
	str, ok := p.expect(lexer.Str)
	if !ok {
		return nil
	}
	return &ast.IncludeExpr{Base: ast.NewBase(p.span(pos(start))), Kind: kind.Text, Path: str.Text}
}

func (p *parser) parseSelectExpr() ast.Expression {
	start := p.advance() // 'select'
	key := p.parseExpression()
	if p.stopped() {
		return nil
	}
	var def ast.Expression
	if _, ok := p.expect(lexer.Comma); !ok {
		return nil
	}
	// lookahead: if the next comma-separated item is itself followed by a
	// comma, it is the DEFAULT; otherwise it is the cases tuple.
	maybeDefault := p.parseExpression()
	if p.stopped() {
		return nil
	}
	if p.peek() == lexer.Comma {
		def = maybeDefault
		p.advance()
		cases := p.parseExpression()
		if p.stopped() {
			return nil
		}
		return &ast.SelectExpr{Base: ast.NewBase(p.span(pos(start))), Key: key, Default: def, Cases: cases}
	}
	return &ast.SelectExpr{Base: ast.NewBase(p.span(pos(start))), Key: key, Cases: maybeDefault}
}

func (p *parser) parseProcessExpr() ast.Expression {
	start := p.advance() // map/filter/reduce
	kind := start.Text
	if _, ok := p.expect(lexer.LParen); !ok {
		return nil
	}
	fn := p.parseExpression()
	if p.stopped() {
		return nil
	}
	if _, ok := p.expect(lexer.Comma); !ok {
		return nil
	}
	var init ast.Expression
	if kind == "reduce" {
		init = p.parseExpression()
		if p.stopped() {
			return nil
		}
		if _, ok := p.expect(lexer.Comma); !ok {
			return nil
		}
	}
	coll := p.parseExpression()
	if p.stopped() {
		return nil
	}
	end, ok := p.expect(lexer.RParen)
	if !ok {
		return nil
	}
	return &ast.ProcessExpr{Base: ast.NewBase(ast.Span{Start: pos(start), End: end.Span.End}), Kind: kind, Fn: fn, Init: init, Coll: coll}
}
