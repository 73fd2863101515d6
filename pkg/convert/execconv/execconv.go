// Package execconv implements the `exec` standard converter.
// Unlike `flags` and `toml`, exec is given no excerpted conversion
// rules at all — this is an open design decision, not a distillation of an
// existing rule. exec's purpose (per the converter registry's role: handing
// a value to something that will exec a subprocess with it) is served by
// emitting shell-sourceable `export NAME='value'` lines, the same shape
// tools like direnv or envconsul produce: a caller can `eval "$(ucg build
// -r . env.ucg | ucg-exec-that-file)"` to load the result straight into its
// environment before running a command.
package execconv

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jfranklin9000/ucg/pkg/value"
)

// Sep joins a nested tuple's key prefix to its field names when flattening
// into shell variable names, since shell identifiers cannot contain `.`.
const Sep = "_"

// Convert writes v, which must be a *value.Tuple, as shell `export` lines
// to w.
func Convert(v value.Value, w io.Writer) error {
	tup, ok := v.(*value.Tuple)
	if !ok {
		return fmt.Errorf("exec output must be a tuple, got %s", value.TypeName(v))
	}
	return writeTuple(w, "", tup)
}

func writeTuple(w io.Writer, prefix string, tup *value.Tuple) error {
	for _, f := range tup.Fields {
		name := prefix + shellName(f.Name)
		switch fv := f.Value.(type) {
		case value.Null:
			continue
		case *value.Tuple:
			if err := writeTuple(w, name+Sep, fv); err != nil {
				return err
			}
		case *value.List:
			val, ok := scalarListValue(name, fv)
			if !ok {
				continue
			}
			if err := writeExport(w, name, val); err != nil {
				return err
			}
		case *value.Func, *value.NativeFunc, *value.Module:
			continue
		default:
			if err := writeExport(w, name, value.Render(fv)); err != nil {
				return err
			}
		}
	}
	return nil
}

// scalarListValue space-joins a list's scalar elements into one shell
// value, skipping (with a warning, not a hard error) the whole list when it
// contains a non-scalar. Unlike flagsconv, which drops only the non-scalar
// elements, no part of such a list is written.
func scalarListValue(name string, l *value.List) (string, bool) {
	parts := make([]string, 0, len(l.Elements))
	for _, e := range l.Elements {
		switch e.(type) {
		case value.Null, value.Bool, value.Int, value.Float, value.Str:
			parts = append(parts, value.Render(e))
		default:
			fmt.Fprintf(os.Stderr, "exec: skipping non-primitive value in list for %s\n", name)
			return "", false
		}
	}
	return strings.Join(parts, " "), true
}

func writeExport(w io.Writer, name, val string) error {
	_, err := fmt.Fprintf(w, "export %s=%s\n", name, shellQuote(val))
	return err
}

// shellName uppercases name and replaces any character invalid in a POSIX
// shell identifier with an underscore.
func shellName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if r == '_' || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// shellQuote wraps val in single quotes, escaping embedded single quotes
// the standard POSIX way: close the quote, escape the quote with a
// backslash, reopen it. Every other character, including `$`, backticks,
// and double quotes, has no special meaning inside single quotes, so
// nothing else needs escaping.
func shellQuote(val string) string {
	return "'" + strings.ReplaceAll(val, "'", `'\''`) + "'"
}
