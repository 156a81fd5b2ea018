package leaflet

import "git.home.luguber.info/inful/docleaflet/internal/hast"

// MarkerClass is the class token that marks a code element as a map block.
const MarkerClass = "language-leaflet"

// Target is a detected map block and its position in the tree.
// Block is the code element holding the configuration. Node is what gets
// replaced: Block itself, or its enclosing pre for DetectFenced.
// Parent is nil when Node is the tree root itself.
type Target struct {
	Node   *hast.Node
	Block  *hast.Node
	Parent *hast.Node
	Index  int
}

// IsMapBlock reports whether n is a code element carrying MarkerClass.
func IsMapBlock(n *hast.Node) bool {
	return n.IsElement("code") && n.HasClass(MarkerClass)
}

// fencedBlock returns the map block wrapped by a pre element, ignoring
// whitespace-only text around it.
func fencedBlock(n *hast.Node) *hast.Node {
	if !n.IsElement("pre") {
		return nil
	}
	var block *hast.Node
	for _, c := range n.Children {
		switch {
		case c == nil:
			return nil
		case c.Type == hast.TextNode && isBlank(c.Value):
			continue
		case block == nil && IsMapBlock(c):
			block = c
		default:
			return nil
		}
	}
	return block
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

// Detect returns every map block in document order without touching the tree.
// Each target's Node is the code element itself.
// Structural errors in the tree are returned unchanged.
func Detect(tree *hast.Node) ([]Target, error) {
	return detect(tree, false)
}

// DetectFenced is Detect, except that a map block alone inside a pre element
// is targeted through the pre, so the whole fence is replaced.
func DetectFenced(tree *hast.Node) ([]Target, error) {
	return detect(tree, true)
}

func detect(tree *hast.Node, fences bool) ([]Target, error) {
	var targets []Target
	err := hast.Visit(tree, func(n *hast.Node, index int, parent *hast.Node) hast.VisitStatus {
		var block *hast.Node
		if fences {
			block = fencedBlock(n)
		}
		if block == nil && IsMapBlock(n) {
			block = n
		}
		if block == nil {
			return hast.Continue
		}
		targets = append(targets, Target{Node: n, Block: block, Parent: parent, Index: index})
		return hast.SkipChildren
	})
	if err != nil {
		return nil, err
	}
	return targets, nil
}
