package lexer

import (
	"testing"

	"github.com/jfranklin9000/ucg/pkg/diag"
)

func kinds(toks []Token) []Kind {
	ks := make([]Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestTokenizePunctAndOperators(t *testing.T) {
	src := `let x = 1 + 2 * 3 == 4 && a.b[0](c) => @{x}`
	toks, err := Tokenize(src, "test.ucg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Kind{
		KwLet, Ident, Assign, Int, Plus, Int, Star, Int, EqEq, Int, AndAnd,
		Ident, Dot, Ident, LBracket, Int, RBracket, LParen, Ident, RParen,
		FatArrow, AtBrace, Ident, RBrace, EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %d want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeKeywords(t *testing.T) {
	src := `module func select map filter reduce fail TRACE NULL true false in is not assert out convert import include as`
	toks, err := Tokenize(src, "test.ucg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Kind{
		KwModule, KwFunc, KwSelect, KwMap, KwFilter, KwReduce, KwFail, KwTrace,
		KwNull, KwTrue, KwFalse, KwIn, KwIs, KwNot, KwAssert, KwOut, KwConvert,
		KwImport, KwInclude, KwAs, EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeIdentWithHyphen(t *testing.T) {
	toks, err := Tokenize(`foo-bar_baz`, "test.ucg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 2 || toks[0].Kind != Ident || toks[0].Text != "foo-bar_baz" {
		t.Fatalf("unexpected tokens: %+v", toks)
	}
}

func TestTokenizeNumbers(t *testing.T) {
	cases := []struct {
		src  string
		kind Kind
	}{
		{"42", Int},
		{"3.14", Float},
		{".5", Float},
		{"5.", Float},
	}
	for _, c := range cases {
		toks, err := Tokenize(c.src, "test.ucg")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.src, err)
		}
		if toks[0].Kind != c.kind || toks[0].Text != c.src {
			t.Errorf("%s: got kind=%v text=%q", c.src, toks[0].Kind, toks[0].Text)
		}
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks, err := Tokenize(`"a\nb\t\"c\""`, "test.ucg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "a\nb\t\"c\""
	if toks[0].Kind != Str || toks[0].Text != want {
		t.Fatalf("got %q want %q", toks[0].Text, want)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := Tokenize(`"abc`, "test.ucg")
	if err == nil {
		t.Fatal("expected error")
	}
	de, ok := diag.AsError(err)
	if !ok || de.Kind != diag.KindLex {
		t.Fatalf("expected LexError, got %v", err)
	}
}

func TestTokenizeBadEscape(t *testing.T) {
	_, err := Tokenize(`"a\qb"`, "test.ucg")
	if err == nil {
		t.Fatal("expected error")
	}
	de, ok := diag.AsError(err)
	if !ok || de.Kind != diag.KindLex {
		t.Fatalf("expected LexError, got %v", err)
	}
}

func TestTokenizeLineComment(t *testing.T) {
	toks, err := Tokenize("let x = 1 // trailing comment\nlet y = 2", "test.ucg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := kinds(toks)
	want := []Kind{KwLet, Ident, Assign, Int, KwLet, Ident, Assign, Int, EOF}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens want %d (%v)", len(got), len(want), got)
	}
}

func TestTokenizeSpanTracksLineCol(t *testing.T) {
	toks, err := Tokenize("let x =\n  1", "test.ucg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// the Int token "1" is on line 2, column 3
	var intTok Token
	for _, tk := range toks {
		if tk.Kind == Int {
			intTok = tk
		}
	}
	if intTok.Span.Start.Line != 2 || intTok.Span.Start.Col != 3 {
		t.Fatalf("got line=%d col=%d", intTok.Span.Start.Line, intTok.Span.Start.Col)
	}
}
