// Package tomlconv converts a UCG tuple into TOML text, the `toml` standard
// converter: tuple maps to table, list maps to array, Int,
// Float, Str, and Bool render as-is, Null is a conversion error, and Func
// and Module values are ignored.
//
// No third-party TOML library covers this module's dependency surface, so
// this is a small hand-written encoder built directly against the
// conversion rules above rather than a generic TOML library. Nested tuples
// encode as TOML inline tables rather than `[section]` headers: inline
// tables preserve field order exactly as written, which UCG's tuples
// require (field order is part of a tuple's identity), whereas table
// headers would force UCG's fields into TOML's own table-ordering and
// array-of-tables rules for no benefit here.
package tomlconv

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jfranklin9000/ucg/pkg/value"
)

// Convert writes v, which must be a *value.Tuple, as TOML text to w.
func Convert(v value.Value, w io.Writer) error {
	tup, ok := v.(*value.Tuple)
	if !ok {
		return fmt.Errorf("toml output must be a tuple, got %s", value.TypeName(v))
	}
	for _, f := range tup.Fields {
		switch f.Value.(type) {
		case *value.Func, *value.NativeFunc, *value.Module:
			continue
		}
		rendered, err := renderValue(f.Value)
		if err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
		if _, err := fmt.Fprintf(w, "%s = %s\n", tomlKey(f.Name), rendered); err != nil {
			return err
		}
	}
	return nil
}

func tomlKey(name string) string {
	bare := true
	for _, r := range name {
		if !(r == '_' || r == '-' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			bare = false
			break
		}
	}
	if bare && name != "" {
		return name
	}
	return strconv.Quote(name)
}

func renderValue(v value.Value) (string, error) {
	switch vv := v.(type) {
	case value.Null:
		return "", fmt.Errorf("null has no TOML representation")
	case value.Bool:
		if vv.Val {
			return "true", nil
		}
		return "false", nil
	case value.Int:
		return strconv.FormatInt(vv.Val, 10), nil
	case value.Float:
		return strconv.FormatFloat(vv.Val, 'g', -1, 64), nil
	case value.Str:
		return strconv.Quote(vv.Val), nil
	case *value.List:
		parts := make([]string, len(vv.Elements))
		for i, e := range vv.Elements {
			s, err := renderValue(e)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case *value.Tuple:
		parts := make([]string, 0, len(vv.Fields))
		for _, f := range vv.Fields {
			switch f.Value.(type) {
			case *value.Func, *value.NativeFunc, *value.Module:
				continue
			}
			s, err := renderValue(f.Value)
			if err != nil {
				return "", fmt.Errorf("field %q: %w", f.Name, err)
			}
			parts = append(parts, tomlKey(f.Name)+" = "+s)
		}
		return "{ " + strings.Join(parts, ", ") + " }", nil
	default:
		return "", fmt.Errorf("value of kind %s cannot appear in TOML output", v.Kind())
	}
}
