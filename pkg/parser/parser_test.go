package parser_test

import (
	"testing"

	"github.com/jfranklin9000/ucg/pkg/ast"
	"github.com/jfranklin9000/ucg/pkg/parser"
)

func mustParse(t *testing.T, source string) *ast.File {
	t.Helper()
	f, err := parser.Parse(source, "test.ucg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return f
}

func mustFail(t *testing.T, source string) {
	t.Helper()
	f, err := parser.Parse(source, "test.ucg")
	if err == nil {
		t.Fatalf("expected parse error, got file with %d statements", len(f.Body))
	}
}

func singleLet(t *testing.T, source string) *ast.LetStmt {
	t.Helper()
	f := mustParse(t, source)
	if len(f.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(f.Body))
	}
	stmt, ok := f.Body[0].(*ast.LetStmt)
	if !ok {
		t.Fatalf("expected LetStmt, got %T", f.Body[0])
	}
	return stmt
}

func TestParseLetIntLiteral(t *testing.T) {
	stmt := singleLet(t, `let x = 1 + 2 * 3;`)
	bin, ok := stmt.Value.(*ast.BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected top-level '+', got %#v", stmt.Value)
	}
	rhs, ok := bin.Y.(*ast.BinaryExpr)
	if !ok || rhs.Op != "*" {
		t.Fatalf("expected '*' on the right of '+', got %#v", bin.Y)
	}
}

func TestParseCopyExpr(t *testing.T) {
	stmt := singleLet(t, `let u = t{b=3, c=4};`)
	cp, ok := stmt.Value.(*ast.CopyExpr)
	if !ok {
		t.Fatalf("expected CopyExpr, got %#v", stmt.Value)
	}
	if _, ok := cp.Source.(*ast.Identifier); !ok {
		t.Fatalf("expected identifier base, got %#v", cp.Source)
	}
	if len(cp.Overrides) != 2 || cp.Overrides[0].Name != "b" || cp.Overrides[1].Name != "c" {
		t.Fatalf("unexpected overrides: %#v", cp.Overrides)
	}
}

func TestParseFormatPositional(t *testing.T) {
	stmt := singleLet(t, `let x = "https://@:@/" % ("h", 80);`)
	fe, ok := stmt.Value.(*ast.FormatExpr)
	if !ok {
		t.Fatalf("expected FormatExpr, got %#v", stmt.Value)
	}
	if !fe.Positional || len(fe.PosArgs) != 2 {
		t.Fatalf("expected positional with 2 args, got %#v", fe)
	}
}

func TestParseFormatTemplate(t *testing.T) {
	stmt := singleLet(t, `let x = "v=@{item.k}" % {k=5};`)
	fe, ok := stmt.Value.(*ast.FormatExpr)
	if !ok {
		t.Fatalf("expected FormatExpr, got %#v", stmt.Value)
	}
	if fe.Positional {
		t.Fatalf("expected template mode, got positional")
	}
	if _, ok := fe.Arg.(*ast.TupleLiteral); !ok {
		t.Fatalf("expected tuple arg, got %#v", fe.Arg)
	}
}

func TestParseRangeSimple(t *testing.T) {
	stmt := singleLet(t, `let x = 1:10;`)
	r, ok := stmt.Value.(*ast.RangeExpr)
	if !ok || r.Step != nil {
		t.Fatalf("expected simple range, got %#v", stmt.Value)
	}
}

func TestParseRangeWithStep(t *testing.T) {
	stmt := singleLet(t, `let x = 1:2:10;`)
	r, ok := stmt.Value.(*ast.RangeExpr)
	if !ok || r.Step == nil {
		t.Fatalf("expected stepped range, got %#v", stmt.Value)
	}
}

func TestParseSelectWithDefault(t *testing.T) {
	stmt := singleLet(t, `let x = select k, d, { a = 1 };`)
	se, ok := stmt.Value.(*ast.SelectExpr)
	if !ok {
		t.Fatalf("expected SelectExpr, got %#v", stmt.Value)
	}
	if se.Default == nil {
		t.Fatalf("expected default to be set")
	}
	if _, ok := se.Cases.(*ast.TupleLiteral); !ok {
		t.Fatalf("expected tuple cases, got %#v", se.Cases)
	}
}

func TestParseSelectWithoutDefault(t *testing.T) {
	stmt := singleLet(t, `let x = select k, { a = 1 };`)
	se, ok := stmt.Value.(*ast.SelectExpr)
	if !ok {
		t.Fatalf("expected SelectExpr, got %#v", stmt.Value)
	}
	if se.Default != nil {
		t.Fatalf("expected no default, got %#v", se.Default)
	}
}

func TestParseMapFilterReduce(t *testing.T) {
	stmt := singleLet(t, `let x = map(func(x)=>x+1, [1,2,3]);`)
	pe, ok := stmt.Value.(*ast.ProcessExpr)
	if !ok || pe.Kind != "map" || pe.Init != nil {
		t.Fatalf("unexpected: %#v", stmt.Value)
	}

	stmt2 := singleLet(t, `let x = reduce(func(acc,item)=>acc+item, 0, [1,2,3]);`)
	pe2, ok := stmt2.Value.(*ast.ProcessExpr)
	if !ok || pe2.Kind != "reduce" || pe2.Init == nil {
		t.Fatalf("unexpected: %#v", stmt2.Value)
	}
}

func TestParseModuleLiteral(t *testing.T) {
	src := `let m = module{n=0}=>(r){ let r = select mod.n==3, mod.this{n=mod.n+1}, { true = [mod.n] }; };`
	stmt := singleLet(t, src)
	mod, ok := stmt.Value.(*ast.ModuleLiteral)
	if !ok {
		t.Fatalf("expected ModuleLiteral, got %#v", stmt.Value)
	}
	if len(mod.Params) != 1 || mod.Params[0].Name != "n" {
		t.Fatalf("unexpected params: %#v", mod.Params)
	}
	if mod.Out == nil {
		t.Fatalf("expected out-expression")
	}
	if len(mod.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(mod.Body))
	}
}

func TestParseFuncLiteral(t *testing.T) {
	stmt := singleLet(t, `let f = func(a, b) => a + b;`)
	fn, ok := stmt.Value.(*ast.FuncLiteral)
	if !ok || len(fn.Params) != 2 {
		t.Fatalf("unexpected: %#v", stmt.Value)
	}
}

func TestParseSelectorChain(t *testing.T) {
	stmt := singleLet(t, `let x = a.b.0."2";`)
	sel, ok := stmt.Value.(*ast.Selector)
	if !ok {
		t.Fatalf("expected outer Selector, got %#v", stmt.Value)
	}
	if sel.Name != "2" {
		t.Fatalf("expected outer selector name '2', got %q", sel.Name)
	}
	mid, ok := sel.X.(*ast.Selector)
	if !ok || !mid.IsIndex || mid.Index != 0 {
		t.Fatalf("expected middle index selector, got %#v", sel.X)
	}
}

func TestParseImportAndInclude(t *testing.T) {
	stmt := singleLet(t, `let x = import "std/list.ucg";`)
	imp, ok := stmt.Value.(*ast.ImportExpr)
	if !ok || imp.Path != "std/list.ucg" {
		t.Fatalf("unexpected: %#v", stmt.Value)
	}

	stmt2 := singleLet(t, `let y = include str "data.txt";`)
	inc, ok := stmt2.Value.(*ast.IncludeExpr)
	if !ok || inc.Kind != "str" || inc.Path != "data.txt" {
		t.Fatalf("unexpected: %#v", stmt2.Value)
	}
}

func TestParseAssertAndOutStatements(t *testing.T) {
	f := mustParse(t, `assert { ok = true, desc = "x" }; out json {a=1};`)
	if len(f.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(f.Body))
	}
	if _, ok := f.Body[0].(*ast.AssertStmt); !ok {
		t.Fatalf("expected AssertStmt, got %T", f.Body[0])
	}
	out, ok := f.Body[1].(*ast.OutStmt)
	if !ok || out.Converter != "json" {
		t.Fatalf("expected OutStmt json, got %#v", f.Body[1])
	}
}

func TestParseTrailingCommas(t *testing.T) {
	mustParse(t, `let x = [1, 2, 3,];`)
	mustParse(t, `let y = {a=1, b=2,};`)
}

func TestParseFailAndTrace(t *testing.T) {
	f := mustParse(t, `TRACE 1; fail "boom";`)
	if len(f.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(f.Body))
	}
}

func TestParseAndIsTighterThanPlus(t *testing.T) {
	// && binds tighter than + per the grammar's precedence table.
	stmt := singleLet(t, `let x = a + b && c;`)
	bin, ok := stmt.Value.(*ast.BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected top-level '+', got %#v", stmt.Value)
	}
	if _, ok := bin.Y.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected '&&' nested on the right, got %#v", bin.Y)
	}
}

func TestParseUnexpectedTokenFails(t *testing.T) {
	mustFail(t, `let x = ;`)
	mustFail(t, `let x = 1`)
	mustFail(t, `let = 1;`)
}
