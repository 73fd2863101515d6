// Package textconv implements the `txt` standard converter:
// the value's canonical rendering (value.Render, the same form `%`
// substitution and diagnostics use) followed by a newline. There is no
// structure to preserve order for here beyond what Render already
// guarantees, so no dedicated encoder is needed.
package textconv

import (
	"io"

	"github.com/jfranklin9000/ucg/pkg/value"
)

// Convert writes v's canonical text rendering to w.
func Convert(v value.Value, w io.Writer) error {
	_, err := io.WriteString(w, value.Render(v)+"\n")
	return err
}
