// Package xmlconv converts a UCG value into XML text, the `xml` standard
// converter.
//
// No third-party XML library covers this module's dependency surface, so
// this uses the standard library's encoding/xml — but through its streaming
// xml.Encoder.EncodeToken API rather than struct-based Marshal, since
// Marshal's reflection over a dynamic value tree gives no control over
// field order. Writing start/char/end tokens in sequence preserves UCG's
// tuple field order by construction while still getting stdlib's attribute
// and text escaping for free.
package xmlconv

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/jfranklin9000/ucg/pkg/value"
)

// RootElement names the synthetic wrapper element a top-level tuple is
// written under, since XML requires exactly one document root.
const RootElement = "tuple"

// Convert writes v, which must be a *value.Tuple, as an XML document to w.
func Convert(v value.Value, w io.Writer) error {
	tup, ok := v.(*value.Tuple)
	if !ok {
		return fmt.Errorf("xml output must be a tuple, got %s", value.TypeName(v))
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	start := xml.StartElement{Name: xml.Name{Local: RootElement}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := writeFields(enc, tup); err != nil {
		return err
	}
	if err := enc.EncodeToken(start.End()); err != nil {
		return err
	}
	return enc.Flush()
}

func writeFields(enc *xml.Encoder, tup *value.Tuple) error {
	for _, f := range tup.Fields {
		switch f.Value.(type) {
		case *value.Func, *value.NativeFunc, *value.Module:
			continue
		}
		if err := writeField(enc, f.Name, f.Value); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
	}
	return nil
}

func writeField(enc *xml.Encoder, name string, v value.Value) error {
	switch vv := v.(type) {
	case *value.List:
		for _, e := range vv.Elements {
			if err := writeField(enc, name, e); err != nil {
				return err
			}
		}
		return nil
	default:
		start := xml.StartElement{Name: xml.Name{Local: name}}
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		if err := writeValueBody(enc, v); err != nil {
			return err
		}
		return enc.EncodeToken(start.End())
	}
}

func writeValueBody(enc *xml.Encoder, v value.Value) error {
	switch vv := v.(type) {
	case value.Null:
		return nil
	case value.Bool:
		return enc.EncodeToken(xml.CharData(strconv.FormatBool(vv.Val)))
	case value.Int:
		return enc.EncodeToken(xml.CharData(strconv.FormatInt(vv.Val, 10)))
	case value.Float:
		return enc.EncodeToken(xml.CharData(strconv.FormatFloat(vv.Val, 'g', -1, 64)))
	case value.Str:
		return enc.EncodeToken(xml.CharData(vv.Val))
	case *value.Tuple:
		return writeFields(enc, vv)
	default:
		return fmt.Errorf("value of kind %s has no XML representation", v.Kind())
	}
}
