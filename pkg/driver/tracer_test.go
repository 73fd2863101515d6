package driver

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jfranklin9000/ucg/pkg/ast"
	"github.com/jfranklin9000/ucg/pkg/diag"
)

func TestRendererTracerWritesLocationAndValue(t *testing.T) {
	var buf bytes.Buffer
	tr := &RendererTracer{Renderer: diag.NewRenderer(&buf, false)}
	tr.Trace("42", ast.Span{Start: ast.Position{File: "/a.ucg", Line: 3, Col: 5}})

	got := buf.String()
	if !strings.Contains(got, "/a.ucg") || !strings.Contains(got, "42") || !strings.Contains(got, "3") {
		t.Fatalf("unexpected trace output: %q", got)
	}
}

func TestRendererTracerWarnWritesLocationAndMessage(t *testing.T) {
	var buf bytes.Buffer
	tr := &RendererTracer{Renderer: diag.NewRenderer(&buf, false)}
	tr.Warn("env.NOPE is not set, using Null", ast.Span{Start: ast.Position{File: "/a.ucg", Line: 3, Col: 5}})

	got := buf.String()
	if !strings.Contains(got, "/a.ucg") || !strings.Contains(got, "env.NOPE") || !strings.Contains(got, "WARN:") {
		t.Fatalf("unexpected warn output: %q", got)
	}
}
