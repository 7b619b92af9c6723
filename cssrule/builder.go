package cssrule

import (
	"context"
	"fmt"

	"github.com/lukehoban/csslab/csslex"
	"github.com/lukehoban/csslab/log"
)

// Builder consumes a csslex.Token stream and assembles a Stylesheet.
// Grounded on css/parser.go's Parser, generalized from its flat
// descendant-only Selector.Simple slice to the combinator sum type
// original_source/src/servo/css/resolve/matching.rs matched against,
// and from css/parser.go's untyped string Declaration.Value to the
// typed Declaration values cssrule.value.go parses.
type Builder struct {
	tokens <-chan csslex.Token
	lexErr <-chan error
}

// NewBuilder creates a Builder reading tokens produced by csslex.Lex.
func NewBuilder(tokens <-chan csslex.Token, lexErr <-chan error) *Builder {
	return &Builder{tokens: tokens, lexErr: lexErr}
}

// Build drains the token stream and returns the resulting Stylesheet.
// A lex error aborts the whole stylesheet and is returned as err, per
// spec.md §7: lex/parse errors are fatal to the stylesheet, never to
// the caller's process. Malformed declaration values are dropped with a
// warning and do not abort anything.
func (b *Builder) Build(ctx context.Context) (*Stylesheet, error) {
	sheet := &Stylesheet{}

	for {
		rule, eof, err := b.parseRule(ctx)
		if err != nil {
			return nil, err
		}
		if eof {
			return sheet, nil
		}
		if rule != nil {
			sheet.Rules = append(sheet.Rules, *rule)
		}
	}
}

func (b *Builder) next(ctx context.Context) (csslex.Token, error) {
	select {
	case tok, ok := <-b.tokens:
		if !ok {
			if err, ok := <-b.lexErr; ok && err != nil {
				return csslex.Token{}, err
			}
			return csslex.Token{Kind: csslex.Eof}, nil
		}
		return tok, nil
	case <-ctx.Done():
		return csslex.Token{}, ctx.Err()
	}
}

// parseRule parses one selector list plus its declaration block. eof is
// true if the stream ended before any selector was seen.
func (b *Builder) parseRule(ctx context.Context) (rule *Rule, eof bool, err error) {
	selectors, hitEof, err := b.parseSelectorList(ctx)
	if err != nil {
		return nil, false, err
	}
	if hitEof {
		return nil, true, nil
	}

	decls, err := b.parseDeclarations(ctx)
	if err != nil {
		return nil, false, err
	}

	return &Rule{Selectors: selectors, Declarations: decls}, false, nil
}

// parseSelectorList parses selectors up to and including the opening
// '{'. eof is true if the stream ends before any selector starts.
func (b *Builder) parseSelectorList(ctx context.Context) (selectors []Selector, eof bool, err error) {
	var current *Selector
	var pending SelectorKind
	havePending := false

	for {
		tok, err := b.next(ctx)
		if err != nil {
			return nil, false, err
		}
		if tok.Kind == csslex.Eof {
			if current == nil && len(selectors) == 0 {
				return nil, true, nil
			}
			return nil, false, fmt.Errorf("cssrule: unexpected end of stream in selector list")
		}
		if tok.Kind != csslex.ElementToken {
			return nil, false, fmt.Errorf("cssrule: expected element selector, got %v", tok)
		}

		simple := SimpleSelector{TagName: tagNameOf(tok.Name)}

		for {
			tok, err = b.next(ctx)
			if err != nil {
				return nil, false, err
			}
			if tok.Kind != csslex.AttrSelectorToken {
				break
			}
			simple.Attrs = append(simple.Attrs, tok.Attr)
		}

		if havePending {
			current = &Selector{Kind: pending, Left: current, Right: simple}
		} else {
			current = &Selector{Kind: SimpleKind, Simple: simple}
		}

		switch tok.Kind {
		case csslex.Descendant:
			pending, havePending = DescendantKind, true
		case csslex.Child:
			pending, havePending = ChildKind, true
		case csslex.AdjacentSibling:
			pending, havePending = SiblingKind, true
		case csslex.Comma:
			selectors = append(selectors, *current)
			current = nil
			havePending = false
		case csslex.StartBlock:
			selectors = append(selectors, *current)
			return selectors, false, nil
		case csslex.Eof:
			return nil, false, fmt.Errorf("cssrule: unexpected end of stream in selector list")
		default:
			return nil, false, fmt.Errorf("cssrule: unexpected token %v in selector list", tok)
		}
	}
}

// tagNameOf maps the lexer's "*" universal-selector spelling to the
// empty string cssrule uses for "no tag constraint".
func tagNameOf(name string) string {
	if name == "*" {
		return ""
	}
	return name
}

// parseDeclarations parses declarations up to and including the closing
// '}'. Declarations with an unrecognized property name or a malformed
// value are dropped with a logged warning rather than aborting the rule.
func (b *Builder) parseDeclarations(ctx context.Context) ([]Declaration, error) {
	var decls []Declaration

	for {
		tok, err := b.next(ctx)
		if err != nil {
			return nil, err
		}

		switch tok.Kind {
		case csslex.EndBlock:
			return decls, nil
		case csslex.DeclarationToken:
			decl, ok := parseDeclaration(tok.DeclName, tok.DeclValue)
			if !ok {
				continue
			}
			decls = append(decls, decl)
		case csslex.Eof:
			return nil, fmt.Errorf("cssrule: unexpected end of stream in declaration block")
		default:
			return nil, fmt.Errorf("cssrule: unexpected token %v in declaration block", tok)
		}
	}
}

// parseDeclaration converts a raw property/value pair into a typed
// Declaration. ok is false if the property is unknown or the value
// fails to parse; the caller drops such declarations.
func parseDeclaration(name, value string) (Declaration, bool) {
	colorProp := func(p Property) (Declaration, bool) {
		c, err := ParseColor(value)
		if err != nil {
			log.Warnf("cssrule: dropping declaration %s: %v", name, err)
			return Declaration{}, false
		}
		return Declaration{Property: p, ColorValue: c}, true
	}
	lengthProp := func(p Property) (Declaration, bool) {
		l, err := ParseLength(value)
		if err != nil {
			log.Warnf("cssrule: dropping declaration %s: %v", name, err)
			return Declaration{}, false
		}
		return Declaration{Property: p, LengthValue: l}, true
	}

	switch name {
	case "background-color":
		return colorProp(BackgroundColor)
	case "color":
		return colorProp(Color)
	case "border-color":
		return colorProp(BorderColor)
	case "font-size":
		l, kw, err := ParseFontSize(value)
		if err != nil {
			log.Warnf("cssrule: dropping declaration %s: %v", name, err)
			return Declaration{}, false
		}
		return Declaration{Property: FontSize, LengthValue: l, Keyword: kw}, true
	case "height":
		return lengthProp(Height)
	case "width":
		return lengthProp(Width)
	case "border-width":
		return lengthProp(BorderWidth)
	case "top":
		return lengthProp(Top)
	case "right":
		return lengthProp(Right)
	case "bottom":
		return lengthProp(Bottom)
	case "left":
		return lengthProp(Left)
	case "display":
		return Declaration{Property: Display, Keyword: value}, true
	case "position":
		return Declaration{Property: PositionProp, Keyword: value}, true
	default:
		log.Warnf("cssrule: dropping declaration with unknown property %q", name)
		return Declaration{}, false
	}
}
