// Package yamlconv converts a UCG value into YAML text, the `yaml` standard
// converter. It builds a yaml.Node tree by hand rather than
// encoding a Go map, since yaml.v3 would otherwise be free to reorder a
// plain map's keys and UCG's tuple field order is part of a tuple's
// identity.
package yamlconv

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/jfranklin9000/ucg/pkg/value"
)

// Convert writes v as YAML text to w.
func Convert(v value.Value, w io.Writer) error {
	node, err := toNode(v)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(node)
}

func toNode(v value.Value) (*yaml.Node, error) {
	switch vv := v.(type) {
	case value.Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case value.Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(vv.Val)}, nil
	case value.Int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(vv.Val, 10)}, nil
	case value.Float:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(vv.Val, 'g', -1, 64)}, nil
	case value.Str:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: vv.Val}, nil
	case *value.List:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range vv.Elements {
			child, err := toNode(e)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case *value.Tuple:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, f := range vv.Fields {
			switch f.Value.(type) {
			case *value.Func, *value.NativeFunc, *value.Module:
				continue
			}
			child, err := toNode(f.Value)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name}, child)
		}
		return node, nil
	default:
		return nil, fmt.Errorf("value of kind %s has no YAML representation", v.Kind())
	}
}
