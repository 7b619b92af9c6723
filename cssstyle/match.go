package cssstyle

import (
	"strings"

	"github.com/lukehoban/csslab/cssrule"
	"github.com/lukehoban/csslab/csslex"
	"github.com/lukehoban/csslab/domtree"
)

// MatchOptions tunes matching behavior where matching.rs's own Sibling
// case and the conventional CSS '+' combinator disagree.
type MatchOptions struct {
	// StrictAdjacentSibling restricts Sibling matching to the single
	// immediately preceding sibling, the usual CSS '+' meaning. The
	// default (false) instead walks every earlier *and* later sibling,
	// matching original_source/src/servo/css/resolve/matching.rs's own
	// Sibling case and its test sel3, which checks both directions.
	StrictAdjacentSibling bool
}

// Matches reports whether id satisfies sel.
func Matches(tree *domtree.Tree, id domtree.NodeID, sel cssrule.Selector, opts MatchOptions) bool {
	switch sel.Kind {
	case cssrule.SimpleKind:
		return matchesElement(tree, id, sel.Simple)
	case cssrule.ChildKind:
		parent := tree.Node(id).Parent
		if parent == domtree.NoNode {
			return false
		}
		return matchesElement(tree, id, sel.Right) && Matches(tree, parent, *sel.Left, opts)
	case cssrule.DescendantKind:
		if !matchesElement(tree, id, sel.Right) {
			return false
		}
		for cur := tree.Node(id).Parent; cur != domtree.NoNode; cur = tree.Node(cur).Parent {
			if Matches(tree, cur, *sel.Left, opts) {
				return true
			}
		}
		return false
	case cssrule.SiblingKind:
		if !matchesElement(tree, id, sel.Right) {
			return false
		}
		if opts.StrictAdjacentSibling {
			prev := tree.Node(id).PrevSibling
			return prev != domtree.NoNode && Matches(tree, prev, *sel.Left, opts)
		}
		for cur := tree.Node(id).PrevSibling; cur != domtree.NoNode; cur = tree.Node(cur).PrevSibling {
			if Matches(tree, cur, *sel.Left, opts) {
				return true
			}
		}
		for cur := tree.Node(id).NextSibling; cur != domtree.NoNode; cur = tree.Node(cur).NextSibling {
			if Matches(tree, cur, *sel.Left, opts) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// matchesElement checks sel against id alone, with no relational
// information: a tag-name constraint (or "*"/"" for universal) plus
// every attribute predicate.
func matchesElement(tree *domtree.Tree, id domtree.NodeID, sel cssrule.SimpleSelector) bool {
	node := tree.Node(id)
	if node.Kind != domtree.Element {
		return false
	}
	if sel.TagName != "" && sel.TagName != node.Tag {
		return false
	}
	for _, attr := range sel.Attrs {
		if !attrMatches(tree, id, attr) {
			return false
		}
	}
	return true
}

// attrMatches mirrors matching.rs's attrs_match.
func attrMatches(tree *domtree.Tree, id domtree.NodeID, m csslex.AttrMatch) bool {
	value, ok := tree.Attr(id, m.Name)
	switch m.Kind {
	case csslex.Exists:
		return ok
	case csslex.Exact:
		return ok && value == m.Value
	case csslex.IncludesWord:
		if m.Value == "" || !ok {
			return false
		}
		for _, word := range strings.Fields(value) {
			if word == m.Value {
				return true
			}
		}
		return false
	case csslex.StartsWithLangTag:
		if !ok || !strings.HasPrefix(value, m.Value) || strings.Contains(value, " ") {
			return false
		}
		if len(value) == len(m.Value) {
			return true
		}
		return strings.HasPrefix(value, m.Value+"-")
	default:
		return false
	}
}
