// Package mapping discovers the paths of a document tree, keeps the
// editable source-to-target rule table and projects trees through it.
package mapping

import (
	"fjacquet/format-converter/internal/tree"
	"fjacquet/format-converter/internal/treepath"
)

// Discover lists the paths reachable in root, depth-first and pre-order.
//
// A mapping key is listed before its children. A non-empty sequence is
// listed as path[*] instead of path and only its first item is walked, so
// shapes that differ between items are not seen. @attributes entries are
// neither listed nor walked. A scalar root yields no paths.
func Discover(root tree.Node) []string {
	paths := []string{}
	walk(root, treepath.Path{}, &paths)
	return paths
}

func walk(n tree.Node, prefix treepath.Path, paths *[]string) {
	switch v := n.(type) {
	case *tree.Mapping:
		v.Each(func(key string, child tree.Node) bool {
			if key == tree.AttributesKey {
				return true
			}
			p := prefix.Append(treepath.Key(key))
			if s, ok := child.(*tree.Sequence); !ok || s.Len() == 0 {
				*paths = append(*paths, p.String())
			}
			walk(child, p, paths)
			return true
		})
	case *tree.Sequence:
		if v.Len() == 0 {
			return
		}
		p := prefix.Append(treepath.Wildcard())
		*paths = append(*paths, p.String())
		walk(v.Items[0], p, paths)
	}
}
