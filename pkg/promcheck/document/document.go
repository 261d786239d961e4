// Package document turns raw YAML text into a language-neutral data tree.
//
// The validator works against this tree rather than against decoded Go
// structs: rule files arrive with arbitrary extra fields, wrong types, and
// partial structures, and a strict struct decode would reject exactly the
// documents the validator needs to walk. Node preserves mapping key order
// and the source position of every value for diagnostics.
package document

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Kind identifies the shape of a Node.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindText
	KindSequence
	KindMapping
)

// String returns the kind name used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindText:
		return "string"
	case KindSequence:
		return "list"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Node is one value in a parsed document tree.
type Node struct {
	Kind Kind

	// Scalar payloads; only the one matching Kind is meaningful.
	Bool   bool
	Number float64
	Text   string

	// Items holds sequence elements in document order.
	Items []*Node

	// Keys holds mapping keys in document order; Fields maps key to value.
	// On duplicate keys the last occurrence wins, matching yaml.v3 decoding.
	Keys   []string
	Fields map[string]*Node

	// Source position from the YAML parser (1-based, 0 when unknown).
	Line   int
	Column int
}

// ParseError reports that the input was not well-formed YAML.
// It is terminal: no structural or expression checks run after it.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

// Parse converts raw YAML text into a Node tree.
// An empty document parses to a null node.
func Parse(text []byte) (*Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(text, &root); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("Invalid YAML: %v", err)}
	}
	return fromYAML(&root)
}

// fromYAML converts a yaml.Node into the generic tree.
func fromYAML(n *yaml.Node) (*Node, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return &Node{Kind: KindNull}, nil
		}
		return fromYAML(n.Content[0])

	case yaml.AliasNode:
		return fromYAML(n.Alias)

	case yaml.ScalarNode:
		return fromScalar(n)

	case yaml.SequenceNode:
		node := &Node{Kind: KindSequence, Line: n.Line, Column: n.Column}
		node.Items = make([]*Node, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			node.Items = append(node.Items, item)
		}
		return node, nil

	case yaml.MappingNode:
		node := &Node{
			Kind:   KindMapping,
			Fields: make(map[string]*Node, len(n.Content)/2),
			Line:   n.Line,
			Column: n.Column,
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			value, err := fromYAML(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			if _, seen := node.Fields[key]; !seen {
				node.Keys = append(node.Keys, key)
			}
			node.Fields[key] = value
		}
		return node, nil

	default:
		// Zero kind means the document was empty.
		if n.Kind == 0 {
			return &Node{Kind: KindNull}, nil
		}
		return nil, &ParseError{Message: fmt.Sprintf("Invalid YAML: unsupported node kind %d", n.Kind)}
	}
}

// fromScalar converts a scalar yaml.Node, resolving the standard tags.
// Unrecognized scalar tags (timestamps, binary) are kept as text.
func fromScalar(n *yaml.Node) (*Node, error) {
	node := &Node{Line: n.Line, Column: n.Column}

	switch n.Tag {
	case "!!null":
		node.Kind = KindNull

	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			// yaml.v3 also resolves yes/no/on/off as !!bool.
			b = n.Value == "yes" || n.Value == "Yes" || n.Value == "YES" ||
				n.Value == "on" || n.Value == "On" || n.Value == "ON" ||
				n.Value == "y" || n.Value == "Y" || n.Value == "true"
		}
		node.Kind = KindBool
		node.Bool = b

	case "!!int", "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			// Non-decimal int forms (0x, 0o) fall back to text.
			node.Kind = KindText
			node.Text = n.Value
			return node, nil
		}
		node.Kind = KindNumber
		node.Number = f

	default:
		node.Kind = KindText
		node.Text = n.Value
	}

	return node, nil
}

// IsMapping reports whether the node is a mapping.
func (n *Node) IsMapping() bool {
	return n != nil && n.Kind == KindMapping
}

// IsSequence reports whether the node is a sequence.
func (n *Node) IsSequence() bool {
	return n != nil && n.Kind == KindSequence
}

// IsText reports whether the node is a text scalar.
func (n *Node) IsText() bool {
	return n != nil && n.Kind == KindText
}

// Get returns the value for key in a mapping node.
// It returns (nil, false) when the node is not a mapping or the key is absent.
func (n *Node) Get(key string) (*Node, bool) {
	if !n.IsMapping() {
		return nil, false
	}
	v, seen := n.Fields[key]
	return v, seen
}

// TextValue returns the node's text when it is a text scalar, else "".
func (n *Node) TextValue() string {
	if n.IsText() {
		return n.Text
	}
	return ""
}

// Len returns the element count of a sequence, the key count of a mapping,
// and 0 for scalars.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.Kind {
	case KindSequence:
		return len(n.Items)
	case KindMapping:
		return len(n.Keys)
	default:
		return 0
	}
}
