// Package tree defines the document tree shared by every codec and by the
// mapping engine: an ordered, heterogeneous value built from scalars,
// mappings and sequences.
package tree

import (
	"github.com/shopspring/decimal"
)

// Reserved keys produced by the XML codec.
const (
	AttributesKey = "@attributes"
	TextKey       = "#text"
)

// Node is one value of a document tree. It is implemented by Scalar,
// *Mapping and *Sequence only.
//
// A nil Node stands for an absent value. It only appears as an item of a
// Sequence returned by a wildcard read.
type Node interface {
	node()
}

// Kind identifies the type of a Scalar.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Scalar is a leaf value.
type Scalar struct {
	kind Kind
	str  string
	num  decimal.Decimal
	b    bool
}

func (Scalar) node() {}

// Null returns the null scalar.
func Null() Scalar {
	return Scalar{kind: KindNull}
}

// NewString returns a string scalar.
func NewString(s string) Scalar {
	return Scalar{kind: KindString, str: s}
}

// NewNumber returns a number scalar.
func NewNumber(d decimal.Decimal) Scalar {
	return Scalar{kind: KindNumber, num: d}
}

// ParseNumber returns a number scalar for the literal lit. The literal is
// kept so that numbers are written back the way they were read.
func ParseNumber(lit string) (Scalar, error) {
	d, err := decimal.NewFromString(lit)
	if err != nil {
		return Scalar{}, err
	}
	return Scalar{kind: KindNumber, num: d, str: lit}, nil
}

// NewBool returns a boolean scalar.
func NewBool(b bool) Scalar {
	return Scalar{kind: KindBool, b: b}
}

// Kind reports the scalar type.
func (s Scalar) Kind() Kind { return s.kind }

// IsNull reports whether s is the null scalar.
func (s Scalar) IsNull() bool { return s.kind == KindNull }

// Number returns the numeric value. It is zero unless Kind is KindNumber.
func (s Scalar) Number() decimal.Decimal { return s.num }

// Bool returns the boolean value. It is false unless Kind is KindBool.
func (s Scalar) Bool() bool { return s.b }

// Text renders the scalar as element or cell text. Null renders as "".
func (s Scalar) Text() string {
	switch s.kind {
	case KindString:
		return s.str
	case KindNumber:
		if s.str != "" {
			return s.str
		}
		return s.num.String()
	case KindBool:
		if s.b {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// Mapping is an ordered set of unique keys.
type Mapping struct {
	keys   []string
	values map[string]Node
}

func (*Mapping) node() {}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]Node)}
}

// Len returns the number of entries.
func (m *Mapping) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Node, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Set stores value under key. An existing key keeps its position.
func (m *Mapping) Set(key string, value Node) {
	if m.values == nil {
		m.values = make(map[string]Node)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key if present.
func (m *Mapping) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Each calls fn for every entry in order until fn returns false.
func (m *Mapping) Each(fn func(key string, value Node) bool) {
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// Sequence is an ordered list of nodes.
type Sequence struct {
	Items []Node
}

func (*Sequence) node() {}

// NewSequence returns a sequence holding items.
func NewSequence(items ...Node) *Sequence {
	if items == nil {
		items = []Node{}
	}
	return &Sequence{Items: items}
}

// Len returns the number of items.
func (s *Sequence) Len() int { return len(s.Items) }

// Append adds items to the end of the sequence.
func (s *Sequence) Append(items ...Node) {
	s.Items = append(s.Items, items...)
}

// Grow appends empty mappings until the sequence holds at least n items.
func (s *Sequence) Grow(n int) {
	for len(s.Items) < n {
		s.Items = append(s.Items, NewMapping())
	}
}

// Clone returns a deep copy of n.
func Clone(n Node) Node {
	switch v := n.(type) {
	case *Mapping:
		out := &Mapping{
			keys:   make([]string, len(v.keys)),
			values: make(map[string]Node, len(v.keys)),
		}
		copy(out.keys, v.keys)
		for _, k := range v.keys {
			out.values[k] = Clone(v.values[k])
		}
		return out
	case *Sequence:
		out := &Sequence{Items: make([]Node, len(v.Items))}
		for i, item := range v.Items {
			out.Items[i] = Clone(item)
		}
		return out
	default:
		return n
	}
}

// Equal reports whether a and b hold the same value. Mapping key order is
// significant.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case Scalar:
		y, ok := b.(Scalar)
		if !ok || x.kind != y.kind {
			return false
		}
		switch x.kind {
		case KindString:
			return x.str == y.str
		case KindNumber:
			return x.num.Equal(y.num)
		case KindBool:
			return x.b == y.b
		default:
			return true
		}
	case *Mapping:
		y, ok := b.(*Mapping)
		if !ok || len(x.keys) != len(y.keys) {
			return false
		}
		for i, k := range x.keys {
			if y.keys[i] != k || !Equal(x.values[k], y.values[k]) {
				return false
			}
		}
		return true
	case *Sequence:
		y, ok := b.(*Sequence)
		if !ok || len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			if !Equal(x.Items[i], y.Items[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// IsEmpty reports whether n is absent, null or an empty container.
func IsEmpty(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case Scalar:
		return v.IsNull()
	case *Mapping:
		return v.Len() == 0
	case *Sequence:
		return v.Len() == 0
	}
	return false
}
