package cssstyle

import (
	"context"
	"net/url"

	"github.com/lukehoban/csslab/cssrule"
	"github.com/lukehoban/csslab/domtree"
	"github.com/lukehoban/csslab/log"
	"github.com/lukehoban/csslab/resource"
)

// ApplyOptions configures a single Apply pass.
type ApplyOptions struct {
	Matching MatchOptions

	// ImageCache resolves <img src> for image elements. Nil skips image
	// resolution entirely.
	ImageCache resource.ImageCache
	// BaseURL resolves relative src attributes. Required if ImageCache
	// is set.
	BaseURL *url.URL
}

// Apply walks tree in document order from root, computing each node's
// cascaded, resolved style. Per spec.md §4.D, a node's specified style
// is every declaration of every rule whose selector matches it, applied
// in stylesheet order so the last matching rule wins; percentages on
// height/width resolve against the parent's already-resolved pixel
// dimension, since PreOrder visits parents first.
func Apply(ctx context.Context, tree *domtree.Tree, root domtree.NodeID, sheet *cssrule.Stylesheet, opts ApplyOptions) *StyledTree {
	styled := newStyledTree()

	tree.PreOrder(root, func(id domtree.NodeID) {
		spec := &SpecifiedStyle{}
		node := tree.Node(id)
		if node.Kind == domtree.Element {
			for _, rule := range sheet.Rules {
				if ruleMatches(tree, id, rule, opts.Matching) {
					for _, decl := range rule.Declarations {
						spec.apply(decl)
					}
				}
			}
		}

		var parent ResolvedStyle
		hasParent := node.Parent != domtree.NoNode
		if hasParent {
			parent = styled.Styles[node.Parent]
		} else {
			parent = defaultResolvedStyle()
		}

		resolved := resolve(spec, parent)
		styled.Styles[id] = resolved

		if opts.ImageCache != nil && node.Kind == domtree.Element && node.Tag == "img" {
			resolveImage(ctx, tree, id, styled, opts)
		}
	})

	return styled
}

func ruleMatches(tree *domtree.Tree, id domtree.NodeID, rule cssrule.Rule, opts MatchOptions) bool {
	for _, sel := range rule.Selectors {
		if Matches(tree, id, sel, opts) {
			return true
		}
	}
	return false
}

// resolve computes a node's resolved style from its specified style and
// its parent's resolved style. Only color and font-size are carried down
// from the parent when unset; every other property falls back to its
// initial value (background/border/position/dimensions do not inherit).
func resolve(spec *SpecifiedStyle, parent ResolvedStyle) ResolvedStyle {
	out := defaultResolvedStyle()

	// Inherited: color and font-size default to the parent's resolved
	// value rather than the initial value.
	out.Color = parent.Color
	out.FontSize = parent.FontSize

	if spec.Color != nil {
		out.Color = *spec.Color
	}
	if spec.FontSizeKeyword != nil {
		switch *spec.FontSizeKeyword {
		case "smaller":
			out.FontSize = parent.FontSize / cssrule.FontSizeRelativeScale
		case "larger":
			out.FontSize = parent.FontSize * cssrule.FontSizeRelativeScale
		}
	} else if spec.FontSize != nil {
		out.FontSize = resolveLengthAsPx(*spec.FontSize, parent.FontSize)
	}
	if spec.BackgroundColor != nil {
		out.BackgroundColor = *spec.BackgroundColor
	}
	if spec.Display != nil {
		out.Display = *spec.Display
	}
	if spec.BorderColor != nil {
		out.BorderColor = *spec.BorderColor
	}
	if spec.BorderWidth != nil {
		out.BorderWidth = resolveLengthAsPx(*spec.BorderWidth, 0)
	}
	if spec.Position != nil {
		out.Position = *spec.Position
	}

	out.Height = resolveDimension(spec.Height, parent.Height)
	out.Width = resolveDimension(spec.Width, parent.Width)
	out.Top = resolveDimension(spec.Top, parent.Height)
	out.Bottom = resolveDimension(spec.Bottom, parent.Height)
	out.Left = resolveDimension(spec.Left, parent.Width)
	out.Right = resolveDimension(spec.Right, parent.Width)

	return out
}

// resolveDimension converts a specified length into a resolved pixel
// value (or Auto): absolute units convert directly, percentages resolve
// against the parent's own resolved dimension (Auto if the parent's
// dimension is itself unresolved), and an unset or Auto specified value
// stays Auto.
func resolveDimension(spec *cssrule.Length, against ResolvedLength) ResolvedLength {
	if spec == nil || spec.Kind == cssrule.Auto {
		return ResolvedLength{Auto: true}
	}
	if spec.Kind == cssrule.Percent {
		if against.Auto {
			return ResolvedLength{Auto: true}
		}
		return ResolvedLength{Px: against.Px * spec.Value / 100.0}
	}
	return ResolvedLength{Px: spec.ResolvedPx()}
}

// resolveLengthAsPx converts an absolute length to pixels; percentages
// resolve against fallback (e.g. the parent's font size).
func resolveLengthAsPx(l cssrule.Length, fallback float64) float64 {
	switch l.Kind {
	case cssrule.Auto:
		return fallback
	case cssrule.Percent:
		return fallback * l.Value / 100.0
	default:
		return l.ResolvedPx()
	}
}

// resolveImage fetches and decodes the image named by an <img>
// element's src attribute, adapted from render/render.go's
// Canvas.LoadImage to use the resource.ImageCache abstraction instead
// of a hand-rolled map cache.
func resolveImage(ctx context.Context, tree *domtree.Tree, id domtree.NodeID, styled *StyledTree, opts ApplyOptions) {
	src, ok := tree.Attr(id, "src")
	if !ok || src == "" {
		return
	}

	u, err := url.Parse(src)
	if err != nil {
		log.Warnf("cssstyle: invalid image src %q: %v", src, err)
		return
	}
	if !u.IsAbs() && opts.BaseURL != nil {
		u = opts.BaseURL.ResolveReference(u)
	}

	handle, err := opts.ImageCache.Get(ctx, u)
	if err != nil {
		log.Warnf("cssstyle: failed to load image %q: %v", u, err)
		return
	}
	styled.Images[id] = handle
}
