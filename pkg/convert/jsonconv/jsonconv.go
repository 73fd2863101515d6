// Package jsonconv converts a UCG value into JSON text, the `json` standard
// converter.
//
// Go's encoding/json marshals a map[string]any with its keys sorted
// alphabetically, and map iteration order is randomized besides — either
// would silently discard UCG's field-order-sensitive tuple semantics
// (a tuple's field order is part of its identity). This
// package therefore walks *value.Tuple.Fields directly and writes object
// members in that order, delegating only leaf string escaping to
// encoding/json.Marshal so quoting stays standards-compliant.
package jsonconv

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/jfranklin9000/ucg/pkg/value"
)

// Convert writes v as JSON text to w.
func Convert(v value.Value, w io.Writer) error {
	return writeValue(w, v)
}

func writeValue(w io.Writer, v value.Value) error {
	switch vv := v.(type) {
	case value.Null:
		_, err := io.WriteString(w, "null")
		return err
	case value.Bool:
		if vv.Val {
			_, err := io.WriteString(w, "true")
			return err
		}
		_, err := io.WriteString(w, "false")
		return err
	case value.Int:
		_, err := io.WriteString(w, strconv.FormatInt(vv.Val, 10))
		return err
	case value.Float:
		_, err := io.WriteString(w, strconv.FormatFloat(vv.Val, 'g', -1, 64))
		return err
	case value.Str:
		b, err := json.Marshal(vv.Val)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case *value.List:
		if _, err := io.WriteString(w, "["); err != nil {
			return err
		}
		for i, e := range vv.Elements {
			if i > 0 {
				if _, err := io.WriteString(w, ","); err != nil {
					return err
				}
			}
			if err := writeValue(w, e); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "]")
		return err
	case *value.Tuple:
		if _, err := io.WriteString(w, "{"); err != nil {
			return err
		}
		first := true
		for _, f := range vv.Fields {
			switch f.Value.(type) {
			case *value.Func, *value.NativeFunc, *value.Module:
				continue
			}
			if !first {
				if _, err := io.WriteString(w, ","); err != nil {
					return err
				}
			}
			first = false
			key, err := json.Marshal(f.Name)
			if err != nil {
				return err
			}
			if _, err := w.Write(key); err != nil {
				return err
			}
			if _, err := io.WriteString(w, ":"); err != nil {
				return err
			}
			if err := writeValue(w, f.Value); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "}")
		return err
	case *value.Func, *value.NativeFunc, *value.Module:
		return fmt.Errorf("value of kind %s cannot appear at the top level of JSON output", v.Kind())
	default:
		return fmt.Errorf("value of kind %s has no JSON representation", v.Kind())
	}
}
