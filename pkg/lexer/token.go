// Package lexer tokenizes UCG source text.
package lexer

import "github.com/jfranklin9000/ucg/pkg/ast"

// Kind identifies a lexical token class.
type Kind int

const (
	EOF Kind = iota

	Ident
	Int
	Float
	Str

	KwLet
	KwImport
	KwInclude
	KwAs
	KwFunc
	KwModule
	KwSelect
	KwMap
	KwFilter
	KwReduce
	KwFail
	KwTrace
	KwNull
	KwTrue
	KwFalse
	KwIn
	KwIs
	KwNot
	KwAssert
	KwOut
	KwConvert

	LBrace   // {
	RBrace   // }
	LBracket // [
	RBracket // ]
	LParen   // (
	RParen   // )
	Comma    // ,
	Semi     // ;
	Dot      // .
	Colon    // :
	FatArrow // =>
	Assign   // =
	Pipe     // |
	Percent  // %
	DblPct   // %%
	Plus     // +
	Minus    // -
	Star     // *
	Slash    // /
	EqEq     // ==
	NotEq    // !=
	GtEq     // >=
	LtEq     // <=
	Gt       // >
	Lt       // <
	Match    // =~
	NotMatch // !~
	AndAnd   // &&
	OrOr     // ||
	At       // @
	AtBrace  // @{
)

var keywords = map[string]Kind{
	"let":     KwLet,
	"import":  KwImport,
	"include": KwInclude,
	"as":      KwAs,
	"func":    KwFunc,
	"module":  KwModule,
	"select":  KwSelect,
	"map":     KwMap,
	"filter":  KwFilter,
	"reduce":  KwReduce,
	"fail":    KwFail,
	"TRACE":   KwTrace,
	"NULL":    KwNull,
	"true":    KwTrue,
	"false":   KwFalse,
	"in":      KwIn,
	"is":      KwIs,
	"not":     KwNot,
	"assert":  KwAssert,
	"out":     KwOut,
	"convert": KwConvert,
}

// Token is one lexical token with its source span.
type Token struct {
	Kind Kind
	Text string
	Span ast.Span
}

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Ident:
		return "identifier"
	case Int:
		return "integer"
	case Float:
		return "float"
	case Str:
		return "string"
	case LBrace:
		return "'{'"
	case RBrace:
		return "'}'"
	case LBracket:
		return "'['"
	case RBracket:
		return "']'"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case Comma:
		return "','"
	case Semi:
		return "';'"
	case Dot:
		return "'.'"
	case Colon:
		return "':'"
	case FatArrow:
		return "'=>'"
	case Assign:
		return "'='"
	case Pipe:
		return "'|'"
	case Percent:
		return "'%'"
	case DblPct:
		return "'%%'"
	case Plus:
		return "'+'"
	case Minus:
		return "'-'"
	case Star:
		return "'*'"
	case Slash:
		return "'/'"
	case EqEq:
		return "'=='"
	case NotEq:
		return "'!='"
	case GtEq:
		return "'>='"
	case LtEq:
		return "'<='"
	case Gt:
		return "'>'"
	case Lt:
		return "'<'"
	case Match:
		return "'=~'"
	case NotMatch:
		return "'!~'"
	case AndAnd:
		return "'&&'"
	case OrOr:
		return "'||'"
	case At:
		return "'@'"
	case AtBrace:
		return "'@{'"
	default:
		for text, kw := range keywords {
			if kw == k {
				return "'" + text + "'"
			}
		}
		return "token"
	}
}
