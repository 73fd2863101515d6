package eval

import (
	"github.com/jfranklin9000/ucg/pkg/ast"
	"github.com/jfranklin9000/ucg/pkg/diag"
	"github.com/jfranklin9000/ucg/pkg/value"
)

// instantiateModule implements `M{overrides}` ("Modules"): build
// the mod tuple from M's parameter defaults and overrides, attach mod.this
// and mod.pkg, run the body in a fresh scope with no lexical closure, and
// assemble the result from the out-expression or the body's let bindings.
func (e *Evaluator) instantiateModule(m *value.Module, overrides []ast.TupleField, callerEnv *value.Environment, span ast.Span) (value.Value, error) {
	paramBase, err := e.buildParamDefaults(m)
	if err != nil {
		return nil, err
	}
	modTuple, err := e.applyOverrides(callerEnv, paramBase, overrides, false, span)
	if err != nil {
		return nil, err
	}
	modTuple = modTuple.With("this", m)
	if m.File != "" {
		modTuple = modTuple.With("pkg", &value.NativeFunc{
			Arity: 0,
			Call: func(args []value.Value) (value.Value, error) {
				v, err := e.Cache.Load(m.File, e.runFile)
				if err != nil {
					return nil, err
				}
				return v, nil
			},
		})
	}

	modEnv := value.NewEnvironment(nil)
	modEnv.Define("mod", modTuple)

	var letFields []value.TupleField
	bind := func(name string, v value.Value) {
		letFields = appendOrdered(letFields, name, v)
	}
	finalEnv, err := e.runStatements(m.Body, modEnv, bind, nil)
	if err != nil {
		if de, ok := diag.AsError(err); ok {
			return nil, de.In("module instantiation", span)
		}
		return nil, err
	}

	if m.Out != nil {
		return e.evalExpr(m.Out, finalEnv)
	}
	return value.NewTuple(letFields), nil
}

// buildParamDefaults evaluates each parameter's default expression in
// left-to-right order, so a later default may reference an earlier
// parameter's value by name; a parameter with no default is Null. Each
// parameter gets its own child scope rather than reusing one mutable
// paramEnv, so a default that closes over an earlier parameter (a Func
// literal default) is not retroactively changed by a later parameter's
// binding.
func (e *Evaluator) buildParamDefaults(m *value.Module) (*value.Tuple, error) {
	paramEnv := value.NewEnvironment(nil)
	fields := make([]value.TupleField, 0, len(m.Params))
	for _, p := range m.Params {
		var v value.Value = value.Null{}
		if p.Value != nil {
			var err error
			v, err = e.evalExpr(p.Value, paramEnv)
			if err != nil {
				return nil, err
			}
		}
		fields = append(fields, value.TupleField{Name: p.Name, Value: v})
		paramEnv = paramEnv.Extend()
		paramEnv.Define(p.Name, v)
	}
	return value.NewTuple(fields), nil
}

func appendOrdered(fields []value.TupleField, name string, v value.Value) []value.TupleField {
	for i, f := range fields {
		if f.Name == name {
			fields[i].Value = v
			return fields
		}
	}
	return append(fields, value.TupleField{Name: name, Value: v})
}
