package surface

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Region wraps an Expr so it can be decoded from YAML.
//
// A scalar is a reference, a sequence is an intersection and a single-key
// mapping {or: [...]} or {and: [...]} is an explicit union or intersection:
//
//	surfaces: [{or: [[-601, 602], [-603, 602]]}]
type Region struct {
	Expr Expr
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *Region) UnmarshalYAML(value *yaml.Node) error {
	e, err := DecodeNode(value)
	if err != nil {
		return err
	}
	r.Expr = e
	return nil
}

// DecodeNode converts a YAML node into an Expr.
func DecodeNode(n *yaml.Node) (Expr, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return DecodeNode(n.Alias)
	case yaml.DocumentNode:
		if len(n.Content) != 1 {
			return nil, fmt.Errorf("line %d: expected a single expression", n.Line)
		}
		return DecodeNode(n.Content[0])
	case yaml.ScalarNode:
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: surface reference %q is not a number", n.Line, n.Value)
		}
		return Ref(v), nil
	case yaml.SequenceNode:
		return decodeChildren(n, func(c []Expr) Expr { return And(c) })
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return nil, fmt.Errorf("line %d: operator mapping must have exactly one key", n.Line)
		}
		key, val := n.Content[0], n.Content[1]
		if val.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("line %d: operator %q needs a sequence", key.Line, key.Value)
		}
		switch key.Value {
		case "or":
			return decodeChildren(val, func(c []Expr) Expr { return Or(c) })
		case "and":
			return decodeChildren(val, func(c []Expr) Expr { return And(c) })
		default:
			return nil, fmt.Errorf("line %d: unknown operator %q (want or/and)", key.Line, key.Value)
		}
	}
	return nil, fmt.Errorf("line %d: unsupported expression node", n.Line)
}

func decodeChildren(n *yaml.Node, build func([]Expr) Expr) (Expr, error) {
	children := make([]Expr, 0, len(n.Content))
	for _, c := range n.Content {
		e, err := DecodeNode(c)
		if err != nil {
			return nil, err
		}
		children = append(children, e)
	}
	return build(children), nil
}
