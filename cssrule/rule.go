package cssrule

import (
	"image/color"

	"github.com/lukehoban/csslab/csslex"
)

// SelectorKind is the tag of a Selector's sum type.
type SelectorKind int

const (
	// SimpleKind is a single compound selector with no combinator.
	SimpleKind SelectorKind = iota
	// ChildKind matches Right as a direct child of something matching Left.
	ChildKind
	// DescendantKind matches Right as any descendant of something matching Left.
	DescendantKind
	// SiblingKind matches Right as a sibling of something matching Left;
	// cssstyle.MatchOptions decides whether only the immediately
	// preceding sibling counts or any earlier or later one does.
	SiblingKind
)

// SimpleSelector is a compound selector: an optional tag name
// constraint plus zero or more attribute predicates, all of which must
// hold.
type SimpleSelector struct {
	// TagName is the required tag, or "" for the universal selector.
	TagName string
	Attrs   []csslex.AttrMatch
}

// Selector is a possibly-combined selector, built left-associatively:
// "a > b c" is Descendant{Left: Child{Left: Simple{a}, Right: b}, Right: c}.
// Matching walks from Right back through Left, mirroring how the lexer
// and builder read the selector left to right but the combinator
// applies between a left selector and the compound directly to its
// right.
type Selector struct {
	Kind SelectorKind

	Simple SimpleSelector // valid when Kind == SimpleKind

	Left  *Selector      // valid when Kind != SimpleKind
	Right SimpleSelector // valid when Kind != SimpleKind
}

// Property is the tag of a Declaration's sum type.
type Property int

const (
	BackgroundColor Property = iota
	Color
	Display
	FontSize
	Height
	Width
	BorderColor
	BorderWidth
	PositionProp
	Top
	Right
	Bottom
	Left
)

// Declaration is one typed property/value pair. Only the field matching
// Property is meaningful.
type Declaration struct {
	Property Property

	ColorValue  color.RGBA // BackgroundColor, Color, BorderColor
	LengthValue Length     // FontSize, Height, Width, BorderWidth, Top, Right, Bottom, Left
	Keyword     string     // Display, PositionProp, FontSize ("smaller"/"larger" only)
}

// Rule is a selector list paired with the declarations that apply when
// any selector in the list matches.
type Rule struct {
	Selectors    []Selector
	Declarations []Declaration
}

// Stylesheet is an ordered list of rules. Rule order is cascade order:
// later rules in the list win ties, per spec.md's simplified cascade.
type Stylesheet struct {
	Rules []Rule
}
