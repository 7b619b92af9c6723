// Package cssstyle matches cssrule selectors against a domtree.Tree and
// applies the cascade to compute per-node resolved styles.
//
// Grounded on original_source/src/servo/css/resolve/matching.rs's
// matches_element/matches_selector (attribute predicates, Child/
// Descendant/Sibling walks) and apply.rs's StyleApplicator (preorder
// traversal, inherited resolution). Per-node style storage is kept
// separate from domtree.Tree, mirroring style/style.go's StyledNode
// wrapper rather than mutating dom.Node in place, since domtree must
// stay free of a cssstyle import.
package cssstyle

import (
	"image/color"

	"github.com/lukehoban/csslab/cssrule"
	"github.com/lukehoban/csslab/domtree"
	"github.com/lukehoban/csslab/resource"
)

// SpecifiedStyle holds the cascaded, but not yet resolved, declarations
// for one node. A nil pointer field means the property was never set by
// any matching rule.
type SpecifiedStyle struct {
	BackgroundColor *color.RGBA
	Color           *color.RGBA
	Display         *string
	FontSize        *cssrule.Length
	// FontSizeKeyword holds "smaller"/"larger" when the most recent
	// font-size declaration was a relative keyword rather than a
	// length, since that can only resolve against the parent's already
	// resolved font size.
	FontSizeKeyword *string
	Height          *cssrule.Length
	Width           *cssrule.Length
	BorderColor     *color.RGBA
	BorderWidth     *cssrule.Length
	Position        *string
	Top             *cssrule.Length
	Right           *cssrule.Length
	Bottom          *cssrule.Length
	Left            *cssrule.Length
}

// apply overwrites the field named by decl.Property with decl's value.
// Later calls win, per spec.md's cascade: no specificity or origin, just
// last-rule-wins.
func (s *SpecifiedStyle) apply(decl cssrule.Declaration) {
	switch decl.Property {
	case cssrule.BackgroundColor:
		c := decl.ColorValue
		s.BackgroundColor = &c
	case cssrule.Color:
		c := decl.ColorValue
		s.Color = &c
	case cssrule.Display:
		v := decl.Keyword
		s.Display = &v
	case cssrule.FontSize:
		if decl.Keyword != "" {
			kw := decl.Keyword
			s.FontSizeKeyword = &kw
			s.FontSize = nil
		} else {
			v := decl.LengthValue
			s.FontSize = &v
			s.FontSizeKeyword = nil
		}
	case cssrule.Height:
		v := decl.LengthValue
		s.Height = &v
	case cssrule.Width:
		v := decl.LengthValue
		s.Width = &v
	case cssrule.BorderColor:
		c := decl.ColorValue
		s.BorderColor = &c
	case cssrule.BorderWidth:
		v := decl.LengthValue
		s.BorderWidth = &v
	case cssrule.PositionProp:
		v := decl.Keyword
		s.Position = &v
	case cssrule.Top:
		v := decl.LengthValue
		s.Top = &v
	case cssrule.Right:
		v := decl.LengthValue
		s.Right = &v
	case cssrule.Bottom:
		v := decl.LengthValue
		s.Bottom = &v
	case cssrule.Left:
		v := decl.LengthValue
		s.Left = &v
	}
}

// ResolvedStyle is SpecifiedStyle with Auto/Px/Pt/Mm/Percent lengths
// resolved to concrete pixels (or left auto), inherited properties
// filled in from the parent, and default colors/keywords substituted
// for anything never set.
type ResolvedStyle struct {
	BackgroundColor color.RGBA
	Color           color.RGBA
	Display         string
	FontSize        float64
	Height          ResolvedLength
	Width           ResolvedLength
	BorderColor     color.RGBA
	BorderWidth     float64
	Position        string
	Top             ResolvedLength
	Right           ResolvedLength
	Bottom          ResolvedLength
	Left            ResolvedLength
}

// ResolvedLength is a pixel value, or Auto if the dimension was never
// pinned down (left to layout).
type ResolvedLength struct {
	Auto bool
	Px   float64
}

// defaultResolvedStyle mirrors apply.rs's ResolveMethods::initial impls
// (background transparent, display inline) plus reasonable defaults
// for properties the original left as TODO stubs.
func defaultResolvedStyle() ResolvedStyle {
	return ResolvedStyle{
		BackgroundColor: color.RGBA{0, 0, 0, 0},
		Color:           color.RGBA{0, 0, 0, 255},
		Display:         "inline",
		FontSize:        13.0,
		Height:          ResolvedLength{Auto: true},
		Width:           ResolvedLength{Auto: true},
		BorderColor:     color.RGBA{0, 0, 0, 255},
		BorderWidth:     0,
		Position:        "static",
		Top:             ResolvedLength{Auto: true},
		Right:           ResolvedLength{Auto: true},
		Bottom:          ResolvedLength{Auto: true},
		Left:            ResolvedLength{Auto: true},
	}
}

// StyledTree holds the resolved style and, for image elements, the
// fetched image handle for every styled node in a domtree.Tree.
type StyledTree struct {
	Styles map[domtree.NodeID]ResolvedStyle
	Images map[domtree.NodeID]resource.Handle
}

func newStyledTree() *StyledTree {
	return &StyledTree{
		Styles: make(map[domtree.NodeID]ResolvedStyle),
		Images: make(map[domtree.NodeID]resource.Handle),
	}
}
