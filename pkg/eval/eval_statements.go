package eval

import (
	"github.com/jfranklin9000/ucg/pkg/ast"
	"github.com/jfranklin9000/ucg/pkg/diag"
	"github.com/jfranklin9000/ucg/pkg/value"
)

// runStatements evaluates stmts top-to-bottom ("within a file,
// statements evaluate top-to-bottom"), starting from env and returning the
// final scope reached after the last statement. Each LetStmt extends a
// fresh child scope for its binding rather than mutating env in place, so a
// Func literal created before a later `let` of the same name keeps seeing
// the value it closed over — rebinding a name never retroactively changes
// what an already-created closure observes. bind is called once per
// LetStmt, in order, as its value becomes available — the hook the import
// cache and module instantiation use to observe partial progress. onOut
// dispatches `out` statements to the converter registry; nil discards them.
func (e *Evaluator) runStatements(stmts []ast.Statement, env *value.Environment, bind func(name string, v value.Value), onOut OutFunc) (*value.Environment, error) {
	for _, stmt := range stmts {
		next, err := e.execStatement(stmt, env, bind, onOut)
		if err != nil {
			return env, err
		}
		env = next
	}
	return env, nil
}

// execStatement evaluates stmt in env, returning the scope subsequent
// statements in the same block should run in: a fresh child scope for
// LetStmt, env unchanged otherwise.
func (e *Evaluator) execStatement(stmt ast.Statement, env *value.Environment, bind func(name string, v value.Value), onOut OutFunc) (*value.Environment, error) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		v, err := e.evalExpr(s.Value, env)
		if err != nil {
			return env, err
		}
		child := env.Extend()
		child.Define(s.Name, v)
		if bind != nil {
			bind(s.Name, v)
		}
		return child, nil
	case *ast.AssertStmt:
		return env, e.execAssert(s, env)
	case *ast.OutStmt:
		v, err := e.evalExpr(s.Value, env)
		if err != nil {
			return env, err
		}
		if onOut != nil {
			return env, onOut(s.Converter, v, s.Span())
		}
		return env, nil
	case *ast.ExprStmt:
		_, err := e.evalExpr(s.X, env)
		return env, err
	default:
		return env, diag.New(diag.KindParse, stmt.Span(), "unsupported statement")
	}
}

func (e *Evaluator) execAssert(s *ast.AssertStmt, env *value.Environment) error {
	v, err := e.evalExpr(s.Value, env)
	if err != nil {
		return err
	}
	tup, ok := v.(*value.Tuple)
	if !ok {
		return diag.New(diag.KindNotATuple, s.Span(), "assert requires a { ok, desc } tuple, got %s", v.Kind())
	}
	okVal, hasOK := tup.Field("ok")
	descVal, hasDesc := tup.Field("desc")
	if !hasOK || !hasDesc {
		return diag.New(diag.KindNotATuple, s.Span(), "assert tuple must have fields ok and desc")
	}
	okBool, isBool := okVal.(value.Bool)
	if !isBool {
		return diag.New(diag.KindTypeMismatch, s.Span(), "assert's ok field must be bool, got %s", okVal.Kind())
	}
	descStr, isStr := descVal.(value.Str)
	if !isStr {
		return diag.New(diag.KindTypeMismatch, s.Span(), "assert's desc field must be str, got %s", descVal.Kind())
	}
	if e.Asserts != nil {
		e.Asserts.Record(okBool.Val, descStr.Val, s.Span())
	}
	return nil
}
