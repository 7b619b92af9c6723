// Package csslex tokenizes a chunked CSS byte stream into a flat token
// sequence, running as a producer goroutine over a bounded channel.
//
// Grounded on original_source/src/servo/css/lexer.rs's Token enum and
// four-state CssLexer (CssElement/CssAttribute/CssRelation/
// CssDescription). css.Tokenizer (css/tokenizer.go) tokenizes a whole
// in-memory string into generic punctuation/ident tokens for the
// simplified CSS-2.1 subset parser; this package instead emits the
// richer, CSS-selector-shaped token set the original lexer did, fed by
// cssstream.Source rather than a string index.
package csslex

// Kind is the tag of a Token's sum type.
type Kind int

const (
	// StartBlock is '{'.
	StartBlock Kind = iota
	// EndBlock is '}'.
	EndBlock
	// Descendant is the whitespace combinator.
	Descendant
	// Child is '>'.
	Child
	// AdjacentSibling is '+'.
	AdjacentSibling
	// Comma separates selectors in a selector list.
	Comma
	// ElementToken is a type selector; Name is a tag name or "*".
	ElementToken
	// AttrSelectorToken is an attribute constraint; Attr holds the predicate.
	AttrSelectorToken
	// DeclarationToken is a single property/value pair.
	DeclarationToken
	// Eof marks the end of the token stream.
	Eof
)

// AttrKind is the tag of an AttrMatch's sum type.
type AttrKind int

const (
	// Exists matches when the attribute is present.
	Exists AttrKind = iota
	// Exact matches when the attribute equals Value exactly.
	Exact
	// IncludesWord matches when Value is a whitespace-separated word of
	// the attribute's value.
	IncludesWord
	// StartsWithLangTag matches when the attribute equals Value or
	// starts with Value + "-".
	StartsWithLangTag
)

// AttrMatch is a single attribute predicate within a simple selector.
type AttrMatch struct {
	Kind  AttrKind
	Name  string
	Value string // unused for Exists
}

// Token is one element of the flat stream the lexer emits.
type Token struct {
	Kind Kind

	Name string // ElementToken

	Attr AttrMatch // AttrSelectorToken

	DeclName  string // DeclarationToken
	DeclValue string // DeclarationToken
}

// String renders a Token for diagnostics and test failure messages.
func (t Token) String() string {
	switch t.Kind {
	case StartBlock:
		return "StartBlock"
	case EndBlock:
		return "EndBlock"
	case Descendant:
		return "Descendant"
	case Child:
		return "Child"
	case AdjacentSibling:
		return "AdjacentSibling"
	case Comma:
		return "Comma"
	case ElementToken:
		return "Element(" + t.Name + ")"
	case AttrSelectorToken:
		return "AttrSelector(" + t.Attr.Name + ")"
	case DeclarationToken:
		return "Declaration(" + t.DeclName + ", " + t.DeclValue + ")"
	case Eof:
		return "Eof"
	default:
		return "Unknown"
	}
}
