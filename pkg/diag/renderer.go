package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Renderer writes diagnostics and TRACE lines to a side-channel writer,
// colorizing the pretty form only when that writer is a real terminal.
type Renderer struct {
	w     io.Writer
	color bool
	json  bool
}

// NewRenderer builds a renderer over w. Color is auto-detected via isatty
// when w is an *os.File; it is always off for --json mode.
func NewRenderer(w io.Writer, jsonMode bool) *Renderer {
	color := false
	if !jsonMode {
		if f, ok := w.(*os.File); ok {
			color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}
	return &Renderer{w: w, color: color, json: jsonMode}
}

// Diagnostic renders one error, given the source text of the file named by
// its primary span (used for the pretty excerpt; ignored in JSON mode).
func (r *Renderer) Diagnostic(e *Error, source string) {
	if r.json {
		fmt.Fprintln(r.w, FormatJSON(e))
		return
	}
	fmt.Fprint(r.w, FormatPretty(e, source, r.color))
}

// Trace writes a TRACE side-channel line; never affected by --json.
func (r *Renderer) Trace(rendered, file string, line, col int) {
	fmt.Fprintf(r.w, "TRACE: %s at file: %s line: %d column: %d\n", rendered, file, line, col)
}

// Warn writes a WARN side-channel line; never affected by --json, same as
// Trace. Used for conditions that are not errors in nostrict mode but are
// still worth surfacing, such as a missing env.NAME resolving to Null.
func (r *Renderer) Warn(msg, file string, line, col int) {
	fmt.Fprintf(r.w, "WARN: %s at file: %s line: %d column: %d\n", msg, file, line, col)
}
