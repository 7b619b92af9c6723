package domtree

import "testing"

func TestNewElement(t *testing.T) {
	tree := New()
	id := tree.NewElement("div")

	if tree.Node(id).Kind != Element {
		t.Errorf("expected Element, got %v", tree.Node(id).Kind)
	}
	if tree.Node(id).Tag != "div" {
		t.Errorf("expected tag 'div', got %q", tree.Node(id).Tag)
	}
}

func TestNewText(t *testing.T) {
	tree := New()
	id := tree.NewText("hello")

	if tree.Node(id).Kind != Text {
		t.Errorf("expected Text, got %v", tree.Node(id).Kind)
	}
	if tree.Node(id).Text != "hello" {
		t.Errorf("expected text 'hello', got %q", tree.Node(id).Text)
	}
}

func TestAppendChildLinksParentAndSiblings(t *testing.T) {
	tree := New()
	parent := tree.NewElement("ul")
	a := tree.NewElement("li")
	b := tree.NewElement("li")
	c := tree.NewElement("li")

	tree.AppendChild(parent, a)
	tree.AppendChild(parent, b)
	tree.AppendChild(parent, c)

	if tree.Node(a).Parent != parent || tree.Node(b).Parent != parent || tree.Node(c).Parent != parent {
		t.Fatal("expected all children to have parent set")
	}
	if tree.Node(a).NextSibling != b || tree.Node(b).NextSibling != c {
		t.Error("expected forward sibling chain a -> b -> c")
	}
	if tree.Node(c).PrevSibling != b || tree.Node(b).PrevSibling != a {
		t.Error("expected backward sibling chain c -> b -> a")
	}
	if tree.Node(a).PrevSibling != NoNode || tree.Node(c).NextSibling != NoNode {
		t.Error("expected the ends of the sibling chain to be NoNode")
	}

	got := tree.Children(parent)
	want := []NodeID{a, b, c}
	if len(got) != len(want) {
		t.Fatalf("expected %d children, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("child %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestAttrs(t *testing.T) {
	tree := New()
	id := tree.NewElement("a")
	tree.SetAttr(id, "href", "/home")

	v, ok := tree.Attr(id, "href")
	if !ok || v != "/home" {
		t.Errorf("expected href=/home, got %q, %v", v, ok)
	}
	if _, ok := tree.Attr(id, "missing"); ok {
		t.Error("expected missing attribute to be absent")
	}
}

func TestPreOrderVisitsParentBeforeChildren(t *testing.T) {
	tree := New()
	root := tree.NewElement("div")
	a := tree.NewElement("span")
	b := tree.NewElement("span")
	grandchild := tree.NewElement("em")
	tree.AppendChild(root, a)
	tree.AppendChild(root, b)
	tree.AppendChild(a, grandchild)

	var visited []NodeID
	tree.PreOrder(root, func(id NodeID) {
		visited = append(visited, id)
	})

	want := []NodeID{root, a, grandchild, b}
	if len(visited) != len(want) {
		t.Fatalf("expected %d visits, got %d: %v", len(want), len(visited), visited)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("visit %d: got %v, want %v", i, visited[i], want[i])
		}
	}
}
