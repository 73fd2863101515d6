// Package flagsconv converts a UCG tuple into command-line flag text, the
// `flags` standard converter. Leaf formatting follows the
// original flags.rs converter: scalars render as `name value` pairs
// (strings single-quoted), nested tuples recurse with the key prefixed and
// separator-joined, lists of scalars repeat the flag once per element, and
// non-scalar list elements are skipped one by one with a warning (the
// list's scalar elements are still written) rather than failing the whole
// conversion.
package flagsconv

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jfranklin9000/ucg/pkg/value"
)

// Sep is the separator joining a nested tuple's key prefix to its field
// names, matching the original converter's default `.`.
const Sep = "."

// Convert writes v, which must be a *value.Tuple, as flag text to w.
func Convert(v value.Value, w io.Writer) error {
	tup, ok := v.(*value.Tuple)
	if !ok {
		return fmt.Errorf("flags output must be a tuple, got %s", value.TypeName(v))
	}
	return writeTuple(w, "", tup)
}

func writeFlagName(w io.Writer, prefix, name string) error {
	if len(name) > 1 || len(prefix) > 0 {
		_, err := fmt.Fprintf(w, "--%s%s ", prefix, name)
		return err
	}
	_, err := fmt.Fprintf(w, "-%s ", name)
	return err
}

func writeTuple(w io.Writer, prefix string, tup *value.Tuple) error {
	for _, f := range tup.Fields {
		if _, isNull := f.Value.(value.Null); isNull {
			if err := writeFlagName(w, prefix, f.Name); err != nil {
				return err
			}
			continue
		}
		switch fv := f.Value.(type) {
		case *value.Tuple:
			if err := writeTuple(w, prefix+f.Name+Sep, fv); err != nil {
				return err
			}
		case *value.List:
			if err := writeListFlag(w, prefix, f.Name, fv); err != nil {
				return err
			}
		case *value.Func, *value.NativeFunc, *value.Module:
			// Func and Module values are silently skipped.
		default:
			if err := writeFlagName(w, prefix, f.Name); err != nil {
				return err
			}
			if err := writeScalar(w, f.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeListFlag(w io.Writer, prefix, name string, l *value.List) error {
	for _, item := range l.Elements {
		if !isScalar(item) {
			fmt.Fprintf(os.Stderr, "flags: skipping non-primitive value in list for flag %s%s\n", prefix, name)
			continue
		}
		if err := writeFlagName(w, prefix, name); err != nil {
			return err
		}
		if err := writeScalar(w, item); err != nil {
			return err
		}
	}
	return nil
}

func isScalar(v value.Value) bool {
	switch v.(type) {
	case value.Null, value.Bool, value.Int, value.Float, value.Str:
		return true
	default:
		return false
	}
}

func writeScalar(w io.Writer, v value.Value) error {
	switch vv := v.(type) {
	case value.Null:
		return nil
	case value.Bool:
		if vv.Val {
			_, err := io.WriteString(w, "true ")
			return err
		}
		_, err := io.WriteString(w, "false ")
		return err
	case value.Int:
		_, err := fmt.Fprintf(w, "%d ", vv.Val)
		return err
	case value.Float:
		_, err := fmt.Fprintf(w, "%s ", strconv.FormatFloat(vv.Val, 'g', -1, 64))
		return err
	case value.Str:
		_, err := fmt.Fprintf(w, "'%s' ", vv.Val)
		return err
	default:
		return fmt.Errorf("value of kind %s cannot appear as a flag scalar", v.Kind())
	}
}
