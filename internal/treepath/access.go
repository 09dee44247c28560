package treepath

import (
	"fjacquet/format-converter/internal/tree"
)

// Get reads the value at p. It reports false when any step is missing or
// crosses a scalar.
//
// A wildcard step maps the rest of the path over every item of the sequence
// found there and returns a new sequence of the same length, holding nil for
// items where the rest of the path is missing.
func Get(root tree.Node, p Path) (tree.Node, bool) {
	if root == nil {
		return nil, false
	}
	if len(p) == 0 {
		return root, true
	}

	seg, rest := p[0], p[1:]
	switch seg.Kind {
	case SegmentKey:
		m, ok := root.(*tree.Mapping)
		if !ok {
			return nil, false
		}
		child, ok := m.Get(seg.Key)
		if !ok {
			return nil, false
		}
		return Get(child, rest)
	case SegmentIndex:
		s, ok := root.(*tree.Sequence)
		if !ok || seg.Index >= s.Len() {
			return nil, false
		}
		return Get(s.Items[seg.Index], rest)
	default:
		s, ok := root.(*tree.Sequence)
		if !ok {
			return nil, false
		}
		if len(rest) == 0 {
			return s, true
		}
		out := tree.NewSequence()
		for _, item := range s.Items {
			v, ok := Get(item, rest)
			if !ok {
				v = nil
			}
			out.Append(v)
		}
		return out, true
	}
}

// Set writes a copy of value at p and returns the root to use afterwards,
// which differs from root when root itself had to be created or replaced.
// Containers along the way are modified in place.
//
// Missing or null intermediates become mappings. A write through any other
// scalar is dropped. A wildcard step creates an empty sequence when the
// container is missing, null or an empty mapping, then either replaces the
// whole sequence (nothing follows the wildcard) or writes value's items one
// by one, growing the target with empty mappings. Targets are never
// truncated. A wildcard write of a value that is not a sequence is dropped.
func Set(root tree.Node, p Path, value tree.Node) tree.Node {
	if len(p) == 0 {
		return tree.Clone(value)
	}

	seg, rest := p[0], p[1:]
	switch seg.Kind {
	case SegmentKey:
		m, ok := root.(*tree.Mapping)
		if !ok {
			if !isVacant(root) {
				return root
			}
			m = tree.NewMapping()
		}
		child, _ := m.Get(seg.Key)
		m.Set(seg.Key, Set(child, rest, value))
		return m
	case SegmentIndex:
		s, ok := asSequence(root)
		if !ok {
			return root
		}
		s.Grow(seg.Index + 1)
		s.Items[seg.Index] = Set(s.Items[seg.Index], rest, value)
		return s
	default:
		s, ok := asSequence(root)
		if !ok {
			return root
		}
		values, ok := value.(*tree.Sequence)
		if !ok {
			return s
		}
		if len(rest) == 0 {
			return tree.Clone(values)
		}
		for i, item := range values.Items {
			s.Grow(i + 1)
			if item == nil {
				continue
			}
			s.Items[i] = Set(s.Items[i], rest, item)
		}
		return s
	}
}

func isVacant(n tree.Node) bool {
	if n == nil {
		return true
	}
	sc, ok := n.(tree.Scalar)
	return ok && sc.IsNull()
}

func asSequence(n tree.Node) (*tree.Sequence, bool) {
	switch v := n.(type) {
	case *tree.Sequence:
		return v, true
	case *tree.Mapping:
		if v.Len() == 0 {
			return tree.NewSequence(), true
		}
		return nil, false
	}
	if isVacant(n) {
		return tree.NewSequence(), true
	}
	return nil, false
}
