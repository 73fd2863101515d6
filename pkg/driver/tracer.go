package driver

import (
	"github.com/jfranklin9000/ucg/pkg/ast"
	"github.com/jfranklin9000/ucg/pkg/diag"
)

// RendererTracer adapts a diag.Renderer's TRACE side-channel to eval.Tracer,
// so `ucg build`/`ucg test`/`ucg eval` route both diagnostics and TRACE
// output through the same color-gated renderer rather than maintaining two
// separate isatty checks.
type RendererTracer struct {
	Renderer *diag.Renderer
}

func (t *RendererTracer) Trace(rendered string, span ast.Span) {
	t.Renderer.Trace(rendered, span.Start.File, span.Start.Line, span.Start.Col)
}

func (t *RendererTracer) Warn(msg string, span ast.Span) {
	t.Renderer.Warn(msg, span.Start.File, span.Start.Line, span.Start.Col)
}
