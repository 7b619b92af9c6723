package domtree

import "github.com/lukehoban/csslab/dom"

// FromDOM converts an html-package dom.Node tree into a Tree, returning
// the new tree and the handle of the converted root. It lets cssdemo
// reuse the html/dom packages to build a document for selector matching
// even though HTML parsing itself sits outside the CSS subsystem.
func FromDOM(root *dom.Node) (*Tree, NodeID) {
	t := New()
	return t, convert(t, root)
}

func convert(t *Tree, n *dom.Node) NodeID {
	var id NodeID
	switch n.Type {
	case dom.DocumentNode:
		id = t.NewDocument()
	case dom.TextNode:
		id = t.NewText(n.Data)
	default:
		id = t.NewElement(n.Data)
		for name, value := range n.Attributes {
			t.SetAttr(id, name, value)
		}
	}

	for _, child := range n.Children {
		t.AppendChild(id, convert(t, child))
	}
	return id
}
