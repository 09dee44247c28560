package treepath

import (
	"testing"

	"fjacquet/format-converter/internal/tree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) tree.Node { return tree.NewString(s) }

func mapping(kv ...interface{}) *tree.Mapping {
	m := tree.NewMapping()
	for i := 0; i < len(kv); i += 2 {
		m.Set(kv[i].(string), kv[i+1].(tree.Node))
	}
	return m
}

func seq(items ...tree.Node) *tree.Sequence {
	return tree.NewSequence(items...)
}

func usersTree() tree.Node {
	return mapping(
		"users", seq(
			mapping("name", str("Al"), "age", str("30")),
			mapping("name", str("Bo")),
		),
		"meta", mapping("count", str("2"), "none", tree.Null()),
	)
}

func TestGet(t *testing.T) {
	root := usersTree()

	tests := []struct {
		name     string
		path     string
		expected tree.Node
		found    bool
	}{
		{name: "root", path: "", expected: root, found: true},
		{name: "nested key", path: "meta.count", expected: str("2"), found: true},
		{name: "missing key", path: "meta.missing", found: false},
		{name: "through null", path: "meta.none.deeper", found: false},
		{name: "through scalar", path: "meta.count.deeper", found: false},
		{name: "key on sequence", path: "users.name", found: false},
		{name: "index", path: "users[1].name", expected: str("Bo"), found: true},
		{name: "index out of range", path: "users[5].name", found: false},
		{name: "wildcard alone returns the sequence", path: "users[*]", expected: seq(
			mapping("name", str("Al"), "age", str("30")),
			mapping("name", str("Bo")),
		), found: true},
		{name: "wildcard fan-out", path: "users[*].name", expected: seq(str("Al"), str("Bo")), found: true},
		{name: "wildcard keeps absent items", path: "users[*].age", expected: seq(str("30"), nil), found: true},
		{name: "wildcard on non-sequence", path: "meta[*].count", found: false},
		{name: "wildcard on missing", path: "nobody[*].name", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := Get(root, MustParse(tt.path))
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.True(t, tree.Equal(tt.expected, v), "got %s", tree.CompactJSON(v))
			}
		})
	}
}

func TestGet_NestedWildcards(t *testing.T) {
	root := mapping("orders", seq(
		mapping("lines", seq(mapping("sku", str("A")), mapping("sku", str("B")))),
		mapping("lines", seq(mapping("sku", str("C")))),
		mapping("other", str("x")),
	))

	v, ok := Get(root, MustParse("orders[*].lines[*].sku"))
	require.True(t, ok)
	assert.Equal(t, `[["A","B"],["C"],null]`, tree.CompactJSON(v))
}

func TestGet_AbsentRoot(t *testing.T) {
	_, ok := Get(nil, MustParse(""))
	assert.False(t, ok)
}

func TestSet_PlainPath(t *testing.T) {
	root := Set(tree.NewMapping(), MustParse("contact.address.city"), str("Bern"))
	assert.Equal(t, `{"contact":{"address":{"city":"Bern"}}}`, tree.CompactJSON(root))

	root = Set(root, MustParse("contact.address.city"), str("Genf"))
	root = Set(root, MustParse("contact.name"), str("Jan"))
	assert.Equal(t, `{"contact":{"address":{"city":"Genf"},"name":"Jan"}}`, tree.CompactJSON(root))
}

func TestSet_ReplacesNullIntermediate(t *testing.T) {
	root := mapping("a", tree.Null())
	root2 := Set(root, MustParse("a.b"), str("x"))
	assert.Equal(t, `{"a":{"b":"x"}}`, tree.CompactJSON(root2))
}

func TestSet_ScalarIntermediateIsNoOp(t *testing.T) {
	root := mapping("a", str("leaf"))
	root2 := Set(root, MustParse("a.b"), str("x"))
	assert.Equal(t, `{"a":"leaf"}`, tree.CompactJSON(root2))
}

func TestSet_ClonesValue(t *testing.T) {
	value := mapping("k", str("v"))
	root := Set(tree.NewMapping(), MustParse("copy"), value)
	value.Set("k", str("changed"))

	assert.Equal(t, `{"copy":{"k":"v"}}`, tree.CompactJSON(root))
}

func TestSet_WildcardFanOut(t *testing.T) {
	root := Set(tree.NewMapping(), MustParse("people[*].label"), seq(str("Al"), str("Bo")))
	assert.Equal(t, `{"people":[{"label":"Al"},{"label":"Bo"}]}`, tree.CompactJSON(root))

	root = Set(root, MustParse("people[*].age"), seq(str("30")))
	assert.Equal(t, `{"people":[{"label":"Al","age":"30"},{"label":"Bo"}]}`, tree.CompactJSON(root))
}

func TestSet_WildcardNeverTruncates(t *testing.T) {
	root := Set(tree.NewMapping(), MustParse("xs[*].v"), seq(str("1"), str("2"), str("3")))
	root = Set(root, MustParse("xs[*].w"), seq(str("a")))

	assert.Equal(t, `{"xs":[{"v":"1","w":"a"},{"v":"2"},{"v":"3"}]}`, tree.CompactJSON(root))
}

func TestSet_WildcardSkipsAbsentItems(t *testing.T) {
	root := Set(tree.NewMapping(), MustParse("xs[*].v"), seq(nil, str("2")))
	assert.Equal(t, `{"xs":[{},{"v":"2"}]}`, tree.CompactJSON(root))
}

func TestSet_WildcardReplacesWholeSequence(t *testing.T) {
	root := mapping("xs", seq(str("old1"), str("old2"), str("old3")))
	root2 := Set(root, MustParse("xs[*]"), seq(str("new")))
	assert.Equal(t, `{"xs":["new"]}`, tree.CompactJSON(root2))
}

func TestSet_WildcardWithNonSequenceValue(t *testing.T) {
	t.Run("with rest", func(t *testing.T) {
		root := Set(tree.NewMapping(), MustParse("xs[*].v"), str("single"))
		assert.Equal(t, `{"xs":[]}`, tree.CompactJSON(root))
	})
	t.Run("without rest", func(t *testing.T) {
		root := Set(tree.NewMapping(), MustParse("xs[*]"), str("single"))
		assert.Equal(t, `{"xs":[]}`, tree.CompactJSON(root))
	})
}

func TestSet_WildcardOnScalarContainerIsNoOp(t *testing.T) {
	root := mapping("xs", str("scalar"))
	root2 := Set(root, MustParse("xs[*].v"), seq(str("1")))
	assert.Equal(t, `{"xs":"scalar"}`, tree.CompactJSON(root2))
}

func TestSet_RootWildcardReplacesEmptyRoot(t *testing.T) {
	rows := seq(mapping("id", str("1")), mapping("id", str("2")))

	root := Set(tree.NewMapping(), MustParse("[*]"), rows)
	root = Set(root, MustParse("[*].id"), seq(str("1"), str("2")))

	assert.Equal(t, `[{"id":"1"},{"id":"2"}]`, tree.CompactJSON(root))
}

func TestSet_Index(t *testing.T) {
	root := Set(tree.NewMapping(), MustParse("items[2].name"), str("third"))
	assert.Equal(t, `{"items":[{},{},{"name":"third"}]}`, tree.CompactJSON(root))
}

func TestSet_NestedWildcards(t *testing.T) {
	src := mapping("orders", seq(
		mapping("lines", seq(mapping("sku", str("A")), mapping("sku", str("B")))),
		mapping("lines", seq(mapping("sku", str("C")))),
	))
	value, ok := Get(src, MustParse("orders[*].lines[*].sku"))
	require.True(t, ok)

	root := Set(tree.NewMapping(), MustParse("o[*].l[*].code"), value)
	assert.Equal(t, `{"o":[{"l":[{"code":"A"},{"code":"B"}]},{"l":[{"code":"C"}]}]}`, tree.CompactJSON(root))
}
