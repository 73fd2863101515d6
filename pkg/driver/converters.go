package driver

import (
	"io"

	"github.com/jfranklin9000/ucg/pkg/ast"
	"github.com/jfranklin9000/ucg/pkg/convert/execconv"
	"github.com/jfranklin9000/ucg/pkg/convert/flagsconv"
	"github.com/jfranklin9000/ucg/pkg/convert/jsonconv"
	"github.com/jfranklin9000/ucg/pkg/convert/textconv"
	"github.com/jfranklin9000/ucg/pkg/convert/tomlconv"
	"github.com/jfranklin9000/ucg/pkg/convert/xmlconv"
	"github.com/jfranklin9000/ucg/pkg/convert/yamlconv"
	"github.com/jfranklin9000/ucg/pkg/diag"
	"github.com/jfranklin9000/ucg/pkg/value"
)

// ConverterFunc matches the converter registry contract:
// `fn(value, writer) -> bytes|Error`.
type ConverterFunc func(v value.Value, w io.Writer) error

// Registry is the named converter table `out` statements dispatch through.
type Registry struct {
	converters map[string]ConverterFunc
}

// NewRegistry builds a Registry pre-populated with every standard
// converter: json, yaml, toml, flags, exec, xml, txt.
func NewRegistry() *Registry {
	r := &Registry{converters: make(map[string]ConverterFunc)}
	r.Register("json", jsonconv.Convert)
	r.Register("yaml", yamlconv.Convert)
	r.Register("toml", tomlconv.Convert)
	r.Register("flags", flagsconv.Convert)
	r.Register("exec", execconv.Convert)
	r.Register("xml", xmlconv.Convert)
	r.Register("txt", textconv.Convert)
	return r
}

// Register adds or replaces a named converter.
func (r *Registry) Register(name string, fn ConverterFunc) {
	r.converters[name] = fn
}

// OutTo builds an eval.OutFunc-shaped dispatcher that writes every
// converted value to w, the single destination `ucg build` streams `out`
// statements to.
func (r *Registry) OutTo(w io.Writer) func(converter string, v value.Value, span ast.Span) error {
	return func(converter string, v value.Value, span ast.Span) error {
		fn, ok := r.converters[converter]
		if !ok {
			return diag.New(diag.KindUnknownSymbol, span, "no converter registered for %q", converter)
		}
		if err := fn(v, w); err != nil {
			return diag.New(diag.KindTypeMismatch, span, "%v", err)
		}
		return nil
	}
}
