// Package domtree provides the document node arena the CSS subsystem
// matches selectors and applies styles against.
//
// Grounded on dom/node.go's Node (tag name, attribute map, children,
// parent pointer), generalized into a flat arena addressed by integer
// handles so that ancestor and sibling navigation, which dom.Node never
// needed but selector matching does, is a simple index lookup rather
// than a pointer-cycle concern. The handle layout mirrors the
// tree.parent/tree.prev_sibling/tree.next_sibling fields the servo Node
// exposed to matching.rs.
package domtree

// NodeID addresses a node in a Tree's arena. Handles count up from 0;
// NoNode (-1) is never a valid node.
type NodeID int

// NoNode is the sentinel for "no such node" (e.g. a root's parent).
const NoNode NodeID = -1

// Kind is the type of a document node.
type Kind int

const (
	// Document is the root node of a tree.
	Document Kind = iota
	// Element is a tagged node with attributes.
	Element
	// Text is a text run with no tag or attributes.
	Text
)

// Node is one arena slot. Parent/FirstChild/NextSibling/PrevSibling are
// handles into the same Tree's arena, not pointers.
type Node struct {
	Kind  Kind
	Tag   string // tag name for Element; empty otherwise
	Text  string // text content for Text; empty otherwise
	Attrs map[string]string

	Parent      NodeID
	FirstChild  NodeID
	LastChild   NodeID
	NextSibling NodeID
	PrevSibling NodeID
}

// Tree is a flat arena of Node records.
type Tree struct {
	nodes []Node
}

// New creates an empty Tree.
func New() *Tree {
	return &Tree{}
}

// addNode appends a fresh node with no links and returns its handle.
func (t *Tree) addNode(n Node) NodeID {
	n.Parent = NoNode
	n.FirstChild = NoNode
	n.LastChild = NoNode
	n.NextSibling = NoNode
	n.PrevSibling = NoNode
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

// NewDocument adds a new document root node and returns its handle.
func (t *Tree) NewDocument() NodeID {
	return t.addNode(Node{Kind: Document})
}

// NewElement adds a new, unattached element node with the given tag name.
func (t *Tree) NewElement(tag string) NodeID {
	return t.addNode(Node{Kind: Element, Tag: tag, Attrs: make(map[string]string)})
}

// NewText adds a new, unattached text node.
func (t *Tree) NewText(text string) NodeID {
	return t.addNode(Node{Kind: Text, Text: text})
}

// AppendChild attaches child as the last child of parent.
func (t *Tree) AppendChild(parent, child NodeID) {
	p := &t.nodes[parent]
	c := &t.nodes[child]
	c.Parent = parent

	if p.LastChild == NoNode {
		p.FirstChild = child
		p.LastChild = child
		return
	}

	last := &t.nodes[p.LastChild]
	last.NextSibling = child
	c.PrevSibling = p.LastChild
	p.LastChild = child
}

// Node returns the record for id. The caller must not retain a pointer
// across a call that appends nodes, since the backing array may move.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Len returns the number of nodes in the arena, which doubles as the
// upper bound for NodeID values in this tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Attr returns the value of attribute name on id, and whether it is set.
// Non-element nodes never have attributes.
func (t *Tree) Attr(id NodeID, name string) (string, bool) {
	n := &t.nodes[id]
	if n.Attrs == nil {
		return "", false
	}
	v, ok := n.Attrs[name]
	return v, ok
}

// SetAttr sets attribute name to value on id.
func (t *Tree) SetAttr(id NodeID, name, value string) {
	n := &t.nodes[id]
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[name] = value
}

// Children returns id's children in document order.
func (t *Tree) Children(id NodeID) []NodeID {
	var out []NodeID
	for c := t.nodes[id].FirstChild; c != NoNode; c = t.nodes[c].NextSibling {
		out = append(out, c)
	}
	return out
}

// PreOrder calls visit for id and every descendant, parent before
// children, in document order. Style application relies on this order
// so that percentage inheritance sees an already-resolved parent.
func (t *Tree) PreOrder(id NodeID, visit func(NodeID)) {
	visit(id)
	for c := t.nodes[id].FirstChild; c != NoNode; c = t.nodes[c].NextSibling {
		t.PreOrder(c, visit)
	}
}
