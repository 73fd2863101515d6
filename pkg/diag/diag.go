// Package diag defines UCG's diagnostic type and its renderers.
package diag

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jfranklin9000/ucg/pkg/ast"
)

// Kind is one of the closed set of error kinds the language defines.
type Kind string

const (
	KindIO               Kind = "IoError"
	KindLex              Kind = "LexError"
	KindParse            Kind = "ParseError"
	KindTypeMismatch     Kind = "TypeMismatch"
	KindArity            Kind = "Arity"
	KindUnknownSymbol    Kind = "UnknownSymbol"
	KindMissingEnv       Kind = "MissingEnv"
	KindSelectNoMatch    Kind = "SelectNoMatch"
	KindCopyTypeMismatch Kind = "CopyTypeMismatch"
	KindBadSelector      Kind = "BadSelector"
	KindFormatArity      Kind = "FormatArityError"
	KindNotCallable      Kind = "NotCallable"
	KindNotATuple        Kind = "NotATuple"
	KindNotAList         Kind = "NotAList"
	KindCyclicImportUse  Kind = "CyclicImportUse"
	KindUserFailure      Kind = "UserFailure"
	KindRangeError       Kind = "RangeError"
)

// Frame labels one "in ..." context crossed while an error propagated, e.g.
// a function call, a module instantiation, or a copy expression's override
// block.
type Frame struct {
	Label string
	Span  ast.Span
}

// Error is UCG's diagnostic error type: a kind, a primary span, a message,
// and the stack of frames crossed on the way out.
type Error struct {
	Kind    Kind
	Span    ast.Span
	Message string
	Frames  []Frame
}

func New(kind Kind, span ast.Span, format string, args ...any) *Error {
	return &Error{Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)}
}

// In records a frame as the error propagates out through an evaluation
// boundary (function call, module instantiation, copy override, ...).
func (e *Error) In(label string, span ast.Span) *Error {
	e.Frames = append(e.Frames, Frame{Label: label, Span: span})
	return e
}

func (e *Error) Error() string {
	loc := fmt.Sprintf("%s:%d:%d", e.Span.Start.File, e.Span.Start.Line, e.Span.Start.Col)
	return fmt.Sprintf("%s: %s at %s", e.Kind, e.Message, loc)
}

// AsError extracts a UCG diagnostic from a generic error chain, if present.
func AsError(err error) (*Error, bool) {
	d, ok := err.(*Error)
	return d, ok
}

// jsonDiag is the wire shape used by FormatJSON.
type jsonDiag struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Col     int    `json:"col,omitempty"`
	Frames  []struct {
		Label string `json:"label"`
		File  string `json:"file,omitempty"`
		Line  int    `json:"line,omitempty"`
		Col   int    `json:"col,omitempty"`
	} `json:"frames,omitempty"`
}

// FormatJSON renders a diagnostic as a single JSON object, used by `ucg
// build --json` / `ucg test --json`.
func FormatJSON(e *Error) string {
	jd := jsonDiag{
		Kind:    string(e.Kind),
		Message: e.Message,
		File:    e.Span.Start.File,
		Line:    e.Span.Start.Line,
		Col:     e.Span.Start.Col,
	}
	for _, f := range e.Frames {
		jd.Frames = append(jd.Frames, struct {
			Label string `json:"label"`
			File  string `json:"file,omitempty"`
			Line  int    `json:"line,omitempty"`
			Col   int    `json:"col,omitempty"`
		}{Label: f.Label, File: f.Span.Start.File, Line: f.Span.Start.Line, Col: f.Span.Start.Col})
	}
	b, _ := json.Marshal(jd)
	return string(b)
}

// FormatPretty renders a diagnostic with a source excerpt and a caret
// pointing at the primary span's start column, followed by its frame
// chain. When color is true, the kind and caret line are ANSI-colored;
// callers gate that on isatty (see Renderer).
func FormatPretty(e *Error, source string, color bool) string {
	var b strings.Builder
	kindText := string(e.Kind)
	if color {
		kindText = "\x1b[31;1m" + kindText + "\x1b[0m"
	}
	fmt.Fprintf(&b, "%s: %s\n  --> %s:%d:%d\n", kindText, e.Message,
		e.Span.Start.File, e.Span.Start.Line, e.Span.Start.Col)

	if line := sourceLine(source, e.Span.Start.Line); line != "" {
		fmt.Fprintf(&b, "    %s\n", line)
		caret := strings.Repeat(" ", 4+max(0, e.Span.Start.Col-1)) + "^"
		if color {
			caret = "\x1b[31;1m" + caret + "\x1b[0m"
		}
		fmt.Fprintln(&b, caret)
	}

	for i := len(e.Frames) - 1; i >= 0; i-- {
		f := e.Frames[i]
		fmt.Fprintf(&b, "  in %s at %s:%d:%d\n", f.Label, f.Span.Start.File, f.Span.Start.Line, f.Span.Start.Col)
	}
	return b.String()
}

func sourceLine(source string, line int) string {
	if line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}
