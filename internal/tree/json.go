package tree

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON renders the scalar as a JSON literal.
func (s Scalar) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case KindString:
		return marshalString(s.str)
	case KindNumber:
		if s.str != "" && json.Valid([]byte(s.str)) {
			return []byte(s.str), nil
		}
		return []byte(s.num.String()), nil
	case KindBool:
		if s.b {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// MarshalJSON renders the mapping as a JSON object in key order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalString(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := marshalNode(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON renders the sequence as a JSON array. Absent items render as null.
func (s *Sequence) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range s.Items {
		if i > 0 {
			buf.WriteByte(',')
		}
		value, err := marshalNode(item)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalNode(n Node) ([]byte, error) {
	switch v := n.(type) {
	case nil:
		return []byte("null"), nil
	case Scalar:
		return v.MarshalJSON()
	case *Mapping:
		return v.MarshalJSON()
	case *Sequence:
		return v.MarshalJSON()
	}
	return []byte("null"), nil
}

// marshalString encodes s without HTML escaping.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// CompactJSON renders n as compact JSON text.
func CompactJSON(n Node) string {
	b, err := marshalNode(n)
	if err != nil {
		return ""
	}
	return string(b)
}
