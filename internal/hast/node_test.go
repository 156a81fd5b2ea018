package hast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassNames_Encodings(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  []string
	}{
		{"space separated string", "  language-leaflet  other ", []string{"language-leaflet", "other"}},
		{"string list", []string{"language-leaflet"}, []string{"language-leaflet"}},
		{"any list", []any{"a", 1, "b"}, []string{"a", "b"}},
		{"unsupported", 42, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Element("code", map[string]any{PropClassName: tt.value})
			assert.Equal(t, tt.want, n.ClassNames())
		})
	}

	assert.Nil(t, Element("code", nil).ClassNames())
	assert.True(t, Element("code", map[string]any{PropClassName: "x language-leaflet"}).HasClass("language-leaflet"))
	assert.False(t, Element("code", map[string]any{PropClassName: "language-leaflets"}).HasClass("language-leaflet"))
}

func TestDirectText_ConcatenatesOnlyDirectChildren(t *testing.T) {
	n := Element("code", nil,
		Text("image: "),
		Element("span", nil, Text("ignored")),
		Text("map.png"),
		&Node{Type: RawNode, Value: "\n"},
	)
	assert.Equal(t, "image: map.png\n", n.DirectText())
}

func TestClone_IsDeep(t *testing.T) {
	orig := Root(Element("p", map[string]any{PropClassName: []string{"a"}}, Text("x")))
	cp := orig.Clone()
	require.Equal(t, orig, cp)

	cp.Children[0].Properties[PropClassName].([]string)[0] = "changed"
	cp.Children[0].Children[0].Value = "y"
	assert.Equal(t, []string{"a"}, orig.Children[0].Properties[PropClassName])
	assert.Equal(t, "x", orig.Children[0].Children[0].Value)
}

func TestVisit_DocumentOrderAndPositions(t *testing.T) {
	tree := Root(
		Element("p", nil, Text("a")),
		Element("pre", nil, Element("code", nil, Text("b"))),
	)

	var seen []string
	var indexes []int
	err := Visit(tree, func(n *Node, index int, parent *Node) VisitStatus {
		switch n.Type {
		case RootNode:
			assert.Nil(t, parent)
			seen = append(seen, "root")
		case ElementNode:
			seen = append(seen, n.Tag)
		case TextNode:
			seen = append(seen, "#"+n.Value)
		}
		indexes = append(indexes, index)
		return Continue
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "p", "#a", "pre", "code", "#b"}, seen)
	assert.Equal(t, []int{-1, 0, 0, 1, 0, 0}, indexes)
}

func TestVisit_SkipAndStop(t *testing.T) {
	tree := Root(
		Element("div", nil, Text("hidden")),
		Element("p", nil),
		Element("span", nil),
	)
	var seen []string
	err := Visit(tree, func(n *Node, _ int, _ *Node) VisitStatus {
		seen = append(seen, n.Tag)
		switch n.Tag {
		case "div":
			return SkipChildren
		case "p":
			return Stop
		}
		return Continue
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"", "div", "p"}, seen)
}

func TestVisit_MalformedTree(t *testing.T) {
	tree := Root(Element("p", nil, nil))
	err := Visit(tree, func(*Node, int, *Node) VisitStatus { return Continue })
	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 0, malformed.Index)
	assert.Contains(t, err.Error(), "nil child")

	require.Error(t, Visit(nil, func(*Node, int, *Node) VisitStatus { return Continue }))
}
