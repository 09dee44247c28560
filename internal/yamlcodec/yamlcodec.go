// Package yamlcodec reads and writes YAML documents through the yaml.v3
// node API so that mapping order survives a round trip.
package yamlcodec

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"fjacquet/format-converter/internal/codec"
	"fjacquet/format-converter/internal/logging"
	"fjacquet/format-converter/internal/parsererror"
	"fjacquet/format-converter/internal/tree"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Codec is the YAML codec.
type Codec struct {
	codec.BaseCodec
}

// New returns a YAML codec.
func New(logger logging.Logger) *Codec {
	return &Codec{BaseCodec: codec.NewBaseCodec(logger)}
}

// Format returns codec.YAML.
func (c *Codec) Format() codec.Format { return codec.YAML }

// ContentType returns the YAML MIME type.
func (c *Codec) ContentType() string { return "application/yaml" }

// Parse reads the first YAML document of text. Aliases are resolved and
// merge keys are expanded, with explicit keys taking precedence. An empty
// document parses to null.
func (c *Codec) Parse(text string, _ codec.Options) (tree.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, &parsererror.ParseError{Format: string(codec.YAML), Message: err.Error(), Err: err}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return tree.Null(), nil
	}

	n, err := fromNode(doc.Content[0])
	if err != nil {
		return nil, &parsererror.ParseError{Format: string(codec.YAML), Message: err.Error(), Err: err}
	}
	c.GetLogger().Debug("Parsed YAML document", logging.F(logging.FieldFormat, codec.YAML))
	return n, nil
}

// Serialize renders n as a block-style YAML document indented by two spaces.
func (c *Codec) Serialize(n tree.Node, _ codec.Options) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toNode(n)); err != nil {
		return "", &parsererror.SerializeError{Format: string(codec.YAML), Err: err}
	}
	if err := enc.Close(); err != nil {
		return "", &parsererror.SerializeError{Format: string(codec.YAML), Err: err}
	}
	return buf.String(), nil
}

func fromNode(n *yaml.Node) (tree.Node, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return tree.Null(), nil
		}
		return fromNode(n.Content[0])
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.SequenceNode:
		s := tree.NewSequence()
		for _, item := range n.Content {
			v, err := fromNode(item)
			if err != nil {
				return nil, err
			}
			s.Append(v)
		}
		return s, nil
	case yaml.MappingNode:
		m := tree.NewMapping()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			if key.Kind == yaml.ScalarNode && key.ShortTag() == "!!merge" {
				if err := merge(m, value); err != nil {
					return nil, err
				}
				continue
			}
			v, err := fromNode(value)
			if err != nil {
				return nil, err
			}
			k, err := keyText(key)
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
		return m, nil
	case yaml.ScalarNode:
		return fromScalar(n)
	}
	return nil, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
}

// merge copies the entries of a merged mapping, or of each mapping in a
// merged sequence, without overriding keys already present.
func merge(m *tree.Mapping, value *yaml.Node) error {
	if value.Kind == yaml.AliasNode {
		value = value.Alias
	}
	sources := []*yaml.Node{value}
	if value.Kind == yaml.SequenceNode {
		sources = value.Content
	}

	for _, src := range sources {
		merged, err := fromNode(src)
		if err != nil {
			return err
		}
		mm, ok := merged.(*tree.Mapping)
		if !ok {
			return fmt.Errorf("line %d: merge value must be a mapping", value.Line)
		}
		mm.Each(func(k string, v tree.Node) bool {
			if !m.Has(k) {
				m.Set(k, v)
			}
			return true
		})
	}
	return nil
}

func keyText(key *yaml.Node) (string, error) {
	if key.Kind == yaml.AliasNode {
		key = key.Alias
	}
	if key.Kind == yaml.ScalarNode {
		return key.Value, nil
	}
	n, err := fromNode(key)
	if err != nil {
		return "", err
	}
	return tree.CompactJSON(n), nil
}

func fromScalar(n *yaml.Node) (tree.Node, error) {
	switch n.ShortTag() {
	case "!!null":
		return tree.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return tree.NewBool(b), nil
	case "!!int":
		if sc, err := tree.ParseNumber(n.Value); err == nil {
			return sc, nil
		}
		var i int64
		if err := n.Decode(&i); err == nil {
			return tree.NewNumber(decimal.NewFromInt(i)), nil
		}
		return tree.NewString(n.Value), nil
	case "!!float":
		if sc, err := tree.ParseNumber(n.Value); err == nil {
			return sc, nil
		}
		var f float64
		if err := n.Decode(&f); err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return tree.NewString(n.Value), nil
		}
		return tree.NewNumber(decimal.NewFromFloat(f)), nil
	default:
		return tree.NewString(n.Value), nil
	}
}

func toNode(n tree.Node) *yaml.Node {
	switch v := n.(type) {
	case *tree.Mapping:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		v.Each(func(key string, value tree.Node) bool {
			out.Content = append(out.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				toNode(value))
			return true
		})
		return out
	case *tree.Sequence:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items {
			out.Content = append(out.Content, toNode(item))
		}
		return out
	case tree.Scalar:
		return scalarNode(v)
	}
	return scalarNode(tree.Null())
}

func scalarNode(s tree.Scalar) *yaml.Node {
	switch s.Kind() {
	case tree.KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s.Text()}
	case tree.KindNumber:
		text := s.Text()
		tag := "!!float"
		if s.Number().IsInteger() && !strings.ContainsAny(text, ".eE") {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: text}
	case tree.KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: s.Text()}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}
