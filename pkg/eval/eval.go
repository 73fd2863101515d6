// Package eval implements the UCG tree-walking evaluator: the operator
// semantics, copy/format/range/select expressions, function and module
// application, the processing builtins, and the statement-level effects
// (let, assert, out) that drive file and module-instance evaluation.
package eval

import (
	"github.com/jfranklin9000/ucg/pkg/ast"
	"github.com/jfranklin9000/ucg/pkg/diag"
	"github.com/jfranklin9000/ucg/pkg/importer"
	"github.com/jfranklin9000/ucg/pkg/parser"
	"github.com/jfranklin9000/ucg/pkg/value"
)

// EnvProvider is the host environment-variable lookup capability.
type EnvProvider interface {
	Lookup(name string) (string, bool)
}

// AssertCollector records assert results for the caller to report and
// compute an exit code from.
type AssertCollector interface {
	Record(ok bool, desc string, span ast.Span)
}

// Tracer receives TRACE and WARN side-channel output; it never affects
// evaluation. Warn is how a nostrict-mode miss on env.NAME surfaces the
// warning spec.md requires alongside the Null result, since the evaluator
// itself has no logging capability of its own.
type Tracer interface {
	Trace(rendered string, span ast.Span)
	Warn(msg string, span ast.Span)
}

// OutFunc is the converter dispatch hook invoked by `out CONVERTER EXPR;`
// It is nil outside the file directly passed
// to EvalFile — imported files never trigger conversion.
type OutFunc func(converter string, v value.Value, span ast.Span) error

// Evaluator holds the collaborators the core evaluator needs but does not
// itself implement: import resolution/caching, environment variables,
// assertion collection, and tracing.
type Evaluator struct {
	Cache    *importer.Cache
	Resolver *importer.Resolver
	Loader   importer.Loader
	Asserts  AssertCollector
	Trace    Tracer

	envProxy *EnvProxy
}

// New builds an Evaluator. env may be nil (no env.* lookups ever succeed);
// strict controls whether a missing env.NAME is MissingEnv or warn-and-Null.
func New(cache *importer.Cache, resolver *importer.Resolver, loader importer.Loader, env EnvProvider, strict bool, asserts AssertCollector, trace Tracer) *Evaluator {
	return &Evaluator{
		Cache:    cache,
		Resolver: resolver,
		Loader:   loader,
		Asserts:  asserts,
		Trace:    trace,
		envProxy: &EnvProxy{provider: env, strict: strict},
	}
}

// rootEnv builds the distinguished root scope every file and eval starts
// from: only the `env` proxy is bound.
func (e *Evaluator) rootEnv() *value.Environment {
	root := value.NewEnvironment(nil)
	root.Define("env", e.envProxy)
	return root
}

// EvalFile evaluates file's statements as a top-level program, routed
// through the import cache under canonicalPath so that a self-import from
// within one of its module bodies observes the same cache entry. onOut is
// invoked for every `out` statement encountered; pass nil to discard them
// (e.g. when merely type-checking or testing).
func (e *Evaluator) EvalFile(file *ast.File, canonicalPath string, onOut OutFunc) (*value.Tuple, error) {
	v, err := e.Cache.Load(canonicalPath, func(cp string, bind func(string, value.Value)) error {
		env := e.rootEnv()
		_, err := e.runStatements(file.Body, env, bind, onOut)
		return err
	})
	if err != nil {
		return nil, err
	}
	tup, ok := v.(*value.Tuple)
	if !ok {
		return nil, diag.New(diag.KindCyclicImportUse, ast.Span{Start: ast.Position{File: canonicalPath}}, "file %q did not finish loading", canonicalPath)
	}
	return tup, nil
}

// EvalExpr evaluates a standalone expression (`ucg eval -e`) in a
// fresh root scope. There is no file identity to cache under and no `out`
// statement to dispatch, since a bare expression is neither imported nor
// run as a program.
func (e *Evaluator) EvalExpr(expr ast.Expression) (value.Value, error) {
	return e.evalExpr(expr, e.rootEnv())
}

// runFile is the importer.RunFunc supplied to Cache.Load for every
// `import "..."` and for mod.pkg(): load, parse, and evaluate canonicalPath
// in a fresh root scope, streaming each top-level let binding through bind
// as it completes.
func (e *Evaluator) runFile(canonicalPath string, bind func(name string, v value.Value)) error {
	source, err := e.Loader.Load(canonicalPath)
	if err != nil {
		return diag.New(diag.KindIO, ast.Span{Start: ast.Position{File: canonicalPath}}, "%v", err)
	}
	file, err := parser.Parse(source, canonicalPath)
	if err != nil {
		return err
	}
	env := e.rootEnv()
	_, err = e.runStatements(file.Body, env, bind, nil)
	return err
}

// loadImport resolves and loads literal as imported from importerFile,
// returning the cached tuple or a cycle Placeholder.
func (e *Evaluator) loadImport(importerFile, literal string) (value.Value, error) {
	canonical := e.Resolver.Resolve(importerFile, literal)
	return e.Cache.Load(canonical, e.runFile)
}

// callFunc applies fn (a Func or NativeFunc) to args.
func (e *Evaluator) callFunc(fn value.Value, args []value.Value, span ast.Span) (value.Value, error) {
	switch f := fn.(type) {
	case *value.Func:
		if len(args) != len(f.Params) {
			return nil, diag.New(diag.KindArity, span, "function expects %d argument(s), got %d", len(f.Params), len(args))
		}
		callEnv := f.Env.Extend()
		for i, p := range f.Params {
			callEnv.Define(p, args[i])
		}
		v, err := e.evalExpr(f.Body, callEnv)
		if err != nil {
			if de, ok := diag.AsError(err); ok {
				return nil, de.In("function call", span)
			}
			return nil, err
		}
		return v, nil
	case *value.NativeFunc:
		if len(args) != f.Arity {
			return nil, diag.New(diag.KindArity, span, "function expects %d argument(s), got %d", f.Arity, len(args))
		}
		return f.Call(args)
	default:
		return nil, diag.New(diag.KindNotCallable, span, "value of kind %s is not callable", fn.Kind())
	}
}

// applyOverrides implements copy-expression override semantics shared by
// tuple copies (`BASE{...}`, allowNewFields=true) and module instantiation
// (`M{...}`, allowNewFields=false): overrides evaluate against a scope
// chained to env with `self` bound to base; a same-named existing field must
// be overridden with Null or a value of the same variant.
func (e *Evaluator) applyOverrides(env *value.Environment, base *value.Tuple, overrides []ast.TupleField, allowNewFields bool, span ast.Span) (*value.Tuple, error) {
	selfEnv := env.Extend()
	selfEnv.Define("self", base)
	result := base
	for _, ov := range overrides {
		v, err := e.evalExpr(ov.Value, selfEnv)
		if err != nil {
			return nil, err
		}
		existing, exists := result.Field(ov.Name)
		if !exists {
			if !allowNewFields {
				return nil, diag.New(diag.KindCopyTypeMismatch, span, "no such field %q", ov.Name)
			}
		} else if _, isNull := v.(value.Null); !isNull && value.TypeName(v) != value.TypeName(existing) {
			return nil, diag.New(diag.KindCopyTypeMismatch, span, "field %q expects %s, got %s", ov.Name, value.TypeName(existing), value.TypeName(v))
		}
		result = result.With(ov.Name, v)
	}
	return result, nil
}
