package eval

import (
	"github.com/jfranklin9000/ucg/pkg/ast"
	"github.com/jfranklin9000/ucg/pkg/diag"
	"github.com/jfranklin9000/ucg/pkg/value"
)

// EnvProxy is the runtime value bound to the root scope's `env` identifier.
// Its own Kind is reported as Tuple so it participates in normal selector
// dispatch, but field lookups read through to the host environment instead
// of a fixed field set.
type EnvProxy struct {
	provider EnvProvider
	strict   bool
}

func (*EnvProxy) Kind() value.Kind { return value.KindTuple }

// Lookup resolves env.name: Str on success; in strict mode a miss is
// MissingEnv, in nostrict mode it is Null with the bool result set so the
// selector caller can report the warning through Tracer.Warn (the
// evaluator itself has no logging side channel of its own).
func (p *EnvProxy) Lookup(name string, span ast.Span) (value.Value, bool, error) {
	if p.provider != nil {
		if v, ok := p.provider.Lookup(name); ok {
			return value.Str{Val: v}, false, nil
		}
	}
	if p.strict {
		return nil, false, diag.New(diag.KindMissingEnv, span, "environment variable %q is not set", name)
	}
	return value.Null{}, true, nil
}
