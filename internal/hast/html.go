package hast

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/docleaflet/internal/foundation/errors"
)

// ParseDocument parses a complete HTML document.
func ParseDocument(r io.Reader) (*Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").Build()
	}
	return FromHTML(doc), nil
}

// ParseFragment parses an HTML fragment as if it appeared inside <body>.
func ParseFragment(r io.Reader) (*Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, body)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML fragment").Build()
	}
	root := Root()
	for _, n := range nodes {
		root.Children = append(root.Children, FromHTML(n))
	}
	return root, nil
}

// FromHTML converts an x/net/html tree into a hast tree. The class attribute
// becomes a []string under PropClassName.
func FromHTML(n *html.Node) *Node {
	var out *Node
	switch n.Type {
	case html.DocumentNode:
		out = Root()
	case html.ElementNode:
		out = Element(n.Data, nil)
		for _, a := range n.Attr {
			if a.Namespace != "" {
				continue
			}
			if a.Key == "class" {
				out.Properties[PropClassName] = strings.Fields(a.Val)
				continue
			}
			out.Properties[a.Key] = a.Val
		}
	case html.TextNode:
		return Text(n.Data)
	case html.CommentNode:
		return &Node{Type: CommentNode, Value: n.Data}
	case html.DoctypeNode:
		return &Node{Type: DoctypeNode, Value: n.Data}
	case html.RawNode:
		return &Node{Type: RawNode, Value: n.Data}
	default:
		return &Node{Type: CommentNode}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out.Children = append(out.Children, FromHTML(c))
	}
	return out
}

// ToHTML converts a hast tree into an x/net/html tree.
func ToHTML(n *Node) (*html.Node, error) {
	if n == nil {
		return nil, &MalformedError{Index: -1, Reason: "nil node"}
	}
	var out *html.Node
	switch n.Type {
	case RootNode:
		out = &html.Node{Type: html.DocumentNode}
	case ElementNode:
		out = &html.Node{
			Type:     html.ElementNode,
			Data:     n.Tag,
			DataAtom: atom.Lookup([]byte(n.Tag)),
			Attr:     attributes(n.Properties),
		}
	case TextNode:
		return &html.Node{Type: html.TextNode, Data: n.Value}, nil
	case CommentNode:
		return &html.Node{Type: html.CommentNode, Data: n.Value}, nil
	case DoctypeNode:
		return &html.Node{Type: html.DoctypeNode, Data: n.Value}, nil
	case RawNode:
		return &html.Node{Type: html.RawNode, Data: n.Value}, nil
	default:
		return nil, &MalformedError{Index: -1, Reason: fmt.Sprintf("unknown node type %s", n.Type)}
	}
	for i, c := range n.Children {
		if c == nil {
			return nil, &MalformedError{Parent: n, Index: i, Reason: "nil child"}
		}
		hc, err := ToHTML(c)
		if err != nil {
			return nil, err
		}
		out.AppendChild(hc)
	}
	return out, nil
}

// Render serializes n as HTML. A root node renders its children in order.
func Render(w io.Writer, n *Node) error {
	hn, err := ToHTML(n)
	if err != nil {
		return err
	}
	if hn.Type != html.DocumentNode {
		return html.Render(w, hn)
	}
	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(w, c); err != nil {
			return err
		}
	}
	return nil
}

// RenderString is Render into a string.
func RenderString(n *Node) (string, error) {
	var b strings.Builder
	if err := Render(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

// attributes renders properties as attributes: id first, then class, then
// the remaining keys sorted. Boolean false and nil values are omitted.
func attributes(props map[string]any) []html.Attribute {
	if len(props) == 0 {
		return nil
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := attrRank(keys[i]), attrRank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})

	attrs := make([]html.Attribute, 0, len(keys))
	for _, k := range keys {
		val, ok := attrValue(props[k])
		if !ok {
			continue
		}
		name := k
		if k == PropClassName {
			name = "class"
		}
		attrs = append(attrs, html.Attribute{Key: name, Val: val})
	}
	return attrs
}

func attrRank(key string) int {
	switch key {
	case "id":
		return 0
	case PropClassName:
		return 1
	default:
		return 2
	}
}

func attrValue(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case []string:
		return strings.Join(t, " "), true
	case bool:
		return "", t
	case int:
		return strconv.Itoa(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := attrValue(item); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " "), true
	default:
		return fmt.Sprint(t), true
	}
}
