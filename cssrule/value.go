// Package cssrule builds a Stylesheet of typed rules from a csslex.Token
// stream.
//
// Grounded on css/parser.go's recursive-descent Parser (parseSelectors/
// parseSelector/parseDeclaration), generalized to the combinator grammar
// and attribute selectors original_source/src/servo/css/resolve/
// matching.rs supported but css/parser.go explicitly does not ("Skip
// attribute selectors... not implementing for simplicity"). Value
// parsing (named colors, hex colors, font-size units) is adapted from
// render/render.go's parseColor/parseHexColor and css/values.go's
// ParseFontSize.
package cssrule

import (
	"image/color"
	"strconv"
	"strings"
)

// Length is the sum type of a resolved or unresolved dimension.
type LengthKind int

const (
	// Auto means the dimension is left to the layout engine.
	Auto LengthKind = iota
	// Px is an absolute pixel length.
	Px
	// Pt is a point length (1pt = 4/3 px).
	Pt
	// Mm is a millimeter length (1mm = 3.7795 px).
	Mm
	// Percent is relative to the parent's resolved dimension.
	Percent
)

// Length is a CSS <length> or <percentage> value, or auto.
type Length struct {
	Kind  LengthKind
	Value float64 // unused for Auto
}

// ResolvedPx converts a Px/Pt/Mm length to pixels. It panics if Kind is
// Percent or Auto, neither of which resolves without a reference
// dimension; callers must check Kind first.
func (l Length) ResolvedPx() float64 {
	switch l.Kind {
	case Px:
		return l.Value
	case Pt:
		return l.Value * 4.0 / 3.0
	case Mm:
		return l.Value * 3.7795
	default:
		panic("cssrule: ResolvedPx called on a non-absolute Length")
	}
}

// namedColors is the CSS 2.1 §4.3.6 basic color keyword table.
var namedColors = map[string]color.RGBA{
	"black":   {0, 0, 0, 255},
	"white":   {255, 255, 255, 255},
	"red":     {255, 0, 0, 255},
	"green":   {0, 128, 0, 255},
	"blue":    {0, 0, 255, 255},
	"yellow":  {255, 255, 0, 255},
	"cyan":    {0, 255, 255, 255},
	"magenta": {255, 0, 255, 255},
	"gray":    {128, 128, 128, 255},
	"grey":    {128, 128, 128, 255},
	"silver":  {192, 192, 192, 255},
	"maroon":  {128, 0, 0, 255},
	"navy":    {0, 0, 128, 255},
	"olive":   {128, 128, 0, 255},
	"purple":  {128, 0, 128, 255},
	"teal":    {0, 128, 128, 255},
	"orange":  {255, 165, 0, 255},
	"aqua":    {0, 255, 255, 255},
	"fuchsia": {255, 0, 255, 255},
	"lime":    {0, 255, 0, 255},
	"transparent": {0, 0, 0, 0},
}

// ParseColor parses a named color or #rgb/#rrggbb hex color. It returns
// an error for anything else, rather than silently defaulting to black,
// so the caller can drop the declaration and log a warning.
func ParseColor(value string) (color.RGBA, error) {
	v := strings.TrimSpace(strings.ToLower(value))
	if c, ok := namedColors[v]; ok {
		return c, nil
	}
	if strings.HasPrefix(v, "#") {
		return parseHexColor(v)
	}
	return color.RGBA{}, &ValueError{Value: value, Reason: "not a recognized color"}
}

func parseHexColor(hex string) (color.RGBA, error) {
	hex = strings.TrimPrefix(hex, "#")

	hexByte := func(s string) (uint8, error) {
		v, err := strconv.ParseUint(s, 16, 8)
		if err != nil {
			return 0, err
		}
		return uint8(v), nil
	}

	switch len(hex) {
	case 3:
		r, err1 := hexByte(string(hex[0]) + string(hex[0]))
		g, err2 := hexByte(string(hex[1]) + string(hex[1]))
		b, err3 := hexByte(string(hex[2]) + string(hex[2]))
		if err1 != nil || err2 != nil || err3 != nil {
			return color.RGBA{}, &ValueError{Value: "#" + hex, Reason: "invalid hex digit"}
		}
		return color.RGBA{r, g, b, 255}, nil
	case 6:
		r, err1 := hexByte(hex[0:2])
		g, err2 := hexByte(hex[2:4])
		b, err3 := hexByte(hex[4:6])
		if err1 != nil || err2 != nil || err3 != nil {
			return color.RGBA{}, &ValueError{Value: "#" + hex, Reason: "invalid hex digit"}
		}
		return color.RGBA{r, g, b, 255}, nil
	default:
		return color.RGBA{}, &ValueError{Value: "#" + hex, Reason: "must have 3 or 6 hex digits"}
	}
}

// ParseLength parses a CSS <length-percentage> value: a number followed
// by px, pt, mm, or %, or the literal "auto".
func ParseLength(value string) (Length, error) {
	v := strings.TrimSpace(strings.ToLower(value))
	if v == "auto" {
		return Length{Kind: Auto}, nil
	}

	for _, unit := range []struct {
		suffix string
		kind   LengthKind
	}{
		{"px", Px},
		{"pt", Pt},
		{"mm", Mm},
		{"%", Percent},
	} {
		if strings.HasSuffix(v, unit.suffix) {
			numStr := strings.TrimSuffix(v, unit.suffix)
			num, err := strconv.ParseFloat(numStr, 64)
			if err != nil {
				return Length{}, &ValueError{Value: value, Reason: "invalid number before unit"}
			}
			return Length{Kind: unit.kind, Value: num}, nil
		}
	}

	return Length{}, &ValueError{Value: value, Reason: "missing or unrecognized unit"}
}

// namedFontSizes is the CSS 2.1 §15.7 absolute font-size keyword table,
// ported from css/values.go's ParseFontSize namedSizes map.
var namedFontSizes = map[string]float64{
	"xx-small": 9.0,
	"x-small":  10.0,
	"small":    12.0,
	"medium":   13.0,
	"large":    16.0,
	"x-large":  20.0,
	"xx-large": 24.0,
}

// FontSizeRelativeScale is the step applied by the smaller/larger
// keywords, approximating the average ratio between adjacent entries
// in namedFontSizes (9, 10, 12, 13, 16, 20, 24).
const FontSizeRelativeScale = 1.2

// ParseFontSize parses a font-size value: a <length-percentage> (per
// ParseLength), one of the absolute named sizes (resolved immediately
// to a pixel Length, as css/values.go's ParseFontSize does), or a
// relative "smaller"/"larger" keyword. A relative keyword can't resolve
// to a Length on its own, since it scales the inherited font-size
// rather than a parse-time constant, so it is returned separately and
// left for the style applicator to resolve against the parent.
func ParseFontSize(value string) (Length, string, error) {
	v := strings.TrimSpace(strings.ToLower(value))

	if v == "smaller" || v == "larger" {
		return Length{}, v, nil
	}
	if px, ok := namedFontSizes[v]; ok {
		return Length{Kind: Px, Value: px}, "", nil
	}

	l, err := ParseLength(value)
	if err != nil {
		return Length{}, "", err
	}
	return l, "", nil
}

// ValueError reports a malformed property value. Per spec.md §7, value
// errors are non-fatal: the builder logs a warning and drops the
// declaration rather than aborting the stylesheet.
type ValueError struct {
	Value  string
	Reason string
}

func (e *ValueError) Error() string {
	return "cssrule: invalid value " + strconv.Quote(e.Value) + ": " + e.Reason
}
