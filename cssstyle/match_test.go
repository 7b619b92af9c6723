package cssstyle

import (
	"testing"

	"github.com/lukehoban/csslab/cssrule"
	"github.com/lukehoban/csslab/csslex"
	"github.com/lukehoban/csslab/domtree"
)

func newElem(tree *domtree.Tree, attrs map[string]string) domtree.NodeID {
	id := tree.NewElement("div")
	for k, v := range attrs {
		tree.SetAttr(id, k, v)
	}
	return id
}

func simple(attrs ...csslex.AttrMatch) cssrule.Selector {
	return cssrule.Selector{Kind: cssrule.SimpleKind, Simple: cssrule.SimpleSelector{Attrs: attrs}}
}

// TestMatchLangPipe reproduces matching.rs's test_match_pipe1/2/
// test_not_match_pipe for the StartsWithLangTag predicate.
func TestMatchLangPipe(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"exact", "en", true},
		{"dashed subtag", "en-us", true},
		{"different word with same prefix", "english", false},
	}

	sel := simple(csslex.AttrMatch{Kind: csslex.StartsWithLangTag, Name: "lang", Value: "en"})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := domtree.New()
			node := newElem(tree, map[string]string{"lang": tt.value})
			if got := Matches(tree, node, sel, MatchOptions{}); got != tt.want {
				t.Errorf("lang=%q: got %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestMatchIncludesWord(t *testing.T) {
	tree := domtree.New()
	node := newElem(tree, map[string]string{"mad": "hatter cobler cooper"})
	sel := simple(csslex.AttrMatch{Kind: csslex.IncludesWord, Name: "mad", Value: "hatter"})
	if !Matches(tree, node, sel, MatchOptions{}) {
		t.Error("expected IncludesWord match")
	}
}

func TestMatchExistsAndExact(t *testing.T) {
	tree := domtree.New()
	node := newElem(tree, map[string]string{"mad": "hatter cobler cooper"})

	if !Matches(tree, node, simple(csslex.AttrMatch{Kind: csslex.Exists, Name: "mad"}), MatchOptions{}) {
		t.Error("expected Exists match on mad")
	}
	if Matches(tree, node, simple(csslex.AttrMatch{Kind: csslex.Exists, Name: "hatter"}), MatchOptions{}) {
		t.Error("did not expect Exists match on hatter")
	}

	node2 := newElem(tree, map[string]string{"mad": "hatter"})
	if Matches(tree, node, simple(csslex.AttrMatch{Kind: csslex.Exact, Name: "mad", Value: "hatter"}), MatchOptions{}) {
		t.Error("did not expect Exact match against multi-word value")
	}
	if !Matches(tree, node2, simple(csslex.AttrMatch{Kind: csslex.Exact, Name: "mad", Value: "hatter"}), MatchOptions{}) {
		t.Error("expected Exact match against single-word value")
	}
}

// buildMatchingTestTree reproduces matching.rs's match_tree test fixture:
// root(class=blue) -> child1(id=green), child2(flag=black) -> gchild(flag=grey)
// -> ggchild(flag=white) -> gggchild(flag=purple).
func buildMatchingTestTree(t *testing.T) (tree *domtree.Tree, root, child1, child2, gchild, ggchild, gggchild domtree.NodeID) {
	t.Helper()
	tree = domtree.New()
	root = newElem(tree, map[string]string{"class": "blue"})
	child1 = newElem(tree, map[string]string{"id": "green"})
	child2 = newElem(tree, map[string]string{"flag": "black"})
	gchild = newElem(tree, map[string]string{"flag": "grey"})
	ggchild = newElem(tree, map[string]string{"flag": "white"})
	gggchild = newElem(tree, map[string]string{"flag": "purple"})

	tree.AppendChild(root, child1)
	tree.AppendChild(root, child2)
	tree.AppendChild(child2, gchild)
	tree.AppendChild(gchild, ggchild)
	tree.AppendChild(ggchild, gggchild)
	return
}

func TestMatchDescendantTree(t *testing.T) {
	tree, root, child1, child2, gchild, ggchild, gggchild := buildMatchingTestTree(t)

	blue := cssrule.Selector{Kind: cssrule.SimpleKind, Simple: cssrule.SimpleSelector{
		Attrs: []csslex.AttrMatch{{Kind: csslex.Exact, Name: "class", Value: "blue"}},
	}}
	sel1 := cssrule.Selector{Kind: cssrule.DescendantKind, Left: &blue, Right: cssrule.SimpleSelector{}}

	want := map[domtree.NodeID]bool{
		root: false, child1: true, child2: true, gchild: true, ggchild: true, gggchild: true,
	}
	for id, expect := range want {
		if got := Matches(tree, id, sel1, MatchOptions{}); got != expect {
			t.Errorf("node %d: got %v, want %v", id, got, expect)
		}
	}
}

func TestMatchChildThenDescendantTree(t *testing.T) {
	tree, root, child1, child2, gchild, ggchild, gggchild := buildMatchingTestTree(t)

	blue := cssrule.Selector{Kind: cssrule.SimpleKind, Simple: cssrule.SimpleSelector{
		Attrs: []csslex.AttrMatch{{Kind: csslex.Exact, Name: "class", Value: "blue"}},
	}}
	blueChildAnything := cssrule.Selector{Kind: cssrule.ChildKind, Left: &blue, Right: cssrule.SimpleSelector{}}
	sel2 := cssrule.Selector{
		Kind:  cssrule.DescendantKind,
		Left:  &blueChildAnything,
		Right: cssrule.SimpleSelector{Attrs: []csslex.AttrMatch{{Kind: csslex.Exists, Name: "flag"}}},
	}

	want := map[domtree.NodeID]bool{
		root: false, child1: false, child2: false, gchild: true, ggchild: true, gggchild: true,
	}
	for id, expect := range want {
		if got := Matches(tree, id, sel2, MatchOptions{}); got != expect {
			t.Errorf("node %d: got %v, want %v", id, got, expect)
		}
	}
}

func TestMatchSiblingBothDirectionsByDefault(t *testing.T) {
	tree, root, child1, child2, gchild, ggchild, gggchild := buildMatchingTestTree(t)

	anything := cssrule.Selector{Kind: cssrule.SimpleKind}
	sel3 := cssrule.Selector{Kind: cssrule.SiblingKind, Left: &anything, Right: cssrule.SimpleSelector{}}

	want := map[domtree.NodeID]bool{
		root: false, child1: true, child2: true, gchild: false, ggchild: false, gggchild: false,
	}
	for id, expect := range want {
		if got := Matches(tree, id, sel3, MatchOptions{}); got != expect {
			t.Errorf("node %d: got %v, want %v", id, got, expect)
		}
	}
}

func TestMatchSiblingStrictAdjacentOnlyChecksPrev(t *testing.T) {
	tree, _, child1, child2, _, _, _ := buildMatchingTestTree(t)

	anything := cssrule.Selector{Kind: cssrule.SimpleKind}
	sel := cssrule.Selector{Kind: cssrule.SiblingKind, Left: &anything, Right: cssrule.SimpleSelector{}}
	opts := MatchOptions{StrictAdjacentSibling: true}

	if Matches(tree, child1, sel, opts) {
		t.Error("child1 has no preceding sibling, should not match under strict adjacency")
	}
	if !Matches(tree, child2, sel, opts) {
		t.Error("child2's immediately preceding sibling is child1, should match under strict adjacency")
	}
}
