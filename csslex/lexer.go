package csslex

import (
	"context"
	"strings"

	"github.com/lukehoban/csslab/cssstream"
	"github.com/lukehoban/csslab/resource"
)

// state is the lexer's four-mode state machine per spec.md §4.B.
type state int

const (
	stateElement state = iota
	stateAttribute
	stateRelation
	stateDescription
)

func (s state) String() string {
	switch s {
	case stateElement:
		return "element"
	case stateAttribute:
		return "attribute"
	case stateRelation:
		return "relation"
	case stateDescription:
		return "description"
	default:
		return "unknown"
	}
}

// Lexer drives the CSS token state machine over a cssstream.Source.
type Lexer struct {
	src   *cssstream.Source
	state state
}

// New creates a Lexer reading from src, starting in the Element state.
func New(src *cssstream.Source) *Lexer {
	return &Lexer{src: src, state: stateElement}
}

// eofErr builds a fatal error for an unexpected end of stream in the
// current state. When the underlying fetch ended with Done(Err(...))
// rather than a clean close, that failure is included instead of being
// masked behind a generic end-of-stream message.
func (l *Lexer) eofErr(msg string) error {
	if err := l.src.Err(); err != nil {
		return errf(l.state.String(), "%s: %v", msg, err)
	}
	return errf(l.state.String(), "%s", msg)
}

// Next produces the next token, or a fatal *Error if the input is
// malformed. Reaching end of stream while outside an attribute or
// declaration yields Token{Kind: Eof}, nil.
func (l *Lexer) Next() (Token, error) {
	c, ok := l.src.Get()
	if !ok {
		switch l.state {
		case stateAttribute:
			return Token{}, l.eofErr("unexpected end of stream inside attribute selector")
		case stateDescription:
			return Token{}, l.eofErr("unexpected end of stream inside declaration block")
		default:
			return Token{Kind: Eof}, nil
		}
	}

	switch l.state {
	case stateElement:
		return l.parseElement(c)
	case stateAttribute:
		return l.parseAttribute(c)
	case stateRelation:
		return l.parseRelation(c)
	case stateDescription:
		return l.parseDescription(c)
	default:
		panic("csslex: unreachable state")
	}
}

func (l *Lexer) parseElement(c byte) (Token, error) {
	if isWhitespace(c) {
		l.src.EatWhitespace()
		next, ok := l.src.Get()
		if !ok {
			return Token{Kind: Eof}, nil
		}
		c = next
	}
	if c == '.' || c == '#' {
		l.src.Unget(c)
		l.state = stateAttribute
		return Token{Kind: ElementToken, Name: "*"}, nil
	}
	if c == '*' {
		l.state = stateAttribute
		return Token{Kind: ElementToken, Name: "*"}, nil
	}

	l.src.Unget(c)
	name, err := l.src.ParseIdent()
	if err != nil {
		return Token{}, errf(l.state.String(), "expected element name or universal selector: %v", err)
	}
	l.state = stateAttribute
	return Token{Kind: ElementToken, Name: name}, nil
}

func (l *Lexer) parseAttribute(c byte) (Token, error) {
	if isWhitespace(c) {
		l.src.EatWhitespace()
		l.state = stateRelation
		next, ok := l.src.Get()
		if !ok {
			return Token{}, l.eofErr("unexpected end of stream before declaration block")
		}
		return l.parseRelation(next)
	}

	switch c {
	case '.':
		ident, err := l.src.ParseIdent()
		if err != nil {
			return Token{}, errf(l.state.String(), "expected class name: %v", err)
		}
		return Token{Kind: AttrSelectorToken, Attr: AttrMatch{Kind: IncludesWord, Name: "class", Value: ident}}, nil
	case '#':
		ident, err := l.src.ParseIdent()
		if err != nil {
			return Token{}, errf(l.state.String(), "expected id name: %v", err)
		}
		return Token{Kind: AttrSelectorToken, Attr: AttrMatch{Kind: IncludesWord, Name: "id", Value: ident}}, nil
	case '[':
		return l.parseAttrSelector()
	case '{', '>', '+', ',':
		l.state = stateRelation
		return l.parseRelation(c)
	default:
		return Token{}, errf(l.state.String(), "unexpected character %q in selector", c)
	}
}

// parseAttrSelector parses the body of an attribute selector after the
// opening '[' has been consumed: name], name=value], name~=value], or
// name|=value].
func (l *Lexer) parseAttrSelector() (Token, error) {
	name, err := l.src.ParseIdent()
	if err != nil {
		return Token{}, errf(l.state.String(), "expected attribute name: %v", err)
	}

	c, ok := l.src.Get()
	if !ok {
		return Token{}, l.eofErr("unexpected end of stream in attribute selector")
	}

	switch c {
	case ']':
		return Token{Kind: AttrSelectorToken, Attr: AttrMatch{Kind: Exists, Name: name}}, nil
	case '=':
		val, err := l.src.ParseIdent()
		if err != nil {
			return Token{}, errf(l.state.String(), "expected attribute value: %v", err)
		}
		if err := l.src.Expect(']'); err != nil {
			return Token{}, errf(l.state.String(), "%v", err)
		}
		return Token{Kind: AttrSelectorToken, Attr: AttrMatch{Kind: Exact, Name: name, Value: val}}, nil
	case '~':
		if err := l.src.Expect('='); err != nil {
			return Token{}, errf(l.state.String(), "%v", err)
		}
		val, err := l.src.ParseIdent()
		if err != nil {
			return Token{}, errf(l.state.String(), "expected attribute value: %v", err)
		}
		if err := l.src.Expect(']'); err != nil {
			return Token{}, errf(l.state.String(), "%v", err)
		}
		return Token{Kind: AttrSelectorToken, Attr: AttrMatch{Kind: IncludesWord, Name: name, Value: val}}, nil
	case '|':
		if err := l.src.Expect('='); err != nil {
			return Token{}, errf(l.state.String(), "%v", err)
		}
		val, err := l.src.ParseIdent()
		if err != nil {
			return Token{}, errf(l.state.String(), "expected attribute value: %v", err)
		}
		if err := l.src.Expect(']'); err != nil {
			return Token{}, errf(l.state.String(), "%v", err)
		}
		return Token{Kind: AttrSelectorToken, Attr: AttrMatch{Kind: StartsWithLangTag, Name: name, Value: val}}, nil
	default:
		return Token{}, errf(l.state.String(), "unexpected character %q in attribute selector", c)
	}
}

func (l *Lexer) parseRelation(c byte) (Token, error) {
	l.state = stateElement

	var tok Token
	switch c {
	case '{':
		l.state = stateDescription
		tok = Token{Kind: StartBlock}
	case '>':
		tok = Token{Kind: Child}
	case '+':
		tok = Token{Kind: AdjacentSibling}
	case ',':
		tok = Token{Kind: Comma}
	default:
		l.src.Unget(c)
		tok = Token{Kind: Descendant}
	}

	l.src.EatWhitespace()
	return tok, nil
}

func (l *Lexer) parseDescription(c byte) (Token, error) {
	if isWhitespace(c) {
		l.src.EatWhitespace()
		next, ok := l.src.Get()
		if !ok {
			return Token{}, l.eofErr("unexpected end of stream inside declaration block")
		}
		c = next
	}
	if c == '}' {
		l.state = stateElement
		return Token{Kind: EndBlock}, nil
	}

	var name strings.Builder
	ch := c
	for {
		if ch == ':' {
			break
		}
		name.WriteByte(ch)
		next, ok := l.src.Get()
		if !ok {
			return Token{}, l.eofErr("unexpected end of stream in declaration name")
		}
		ch = next
	}
	if strings.TrimSpace(name.String()) == "" {
		return Token{}, errf(l.state.String(), "expected declaration name")
	}

	l.src.EatWhitespace()

	var value strings.Builder
	for {
		next, ok := l.src.Get()
		if !ok {
			return Token{}, l.eofErr("unexpected end of stream in declaration value")
		}
		if next == ';' {
			break
		}
		if next == '}' {
			l.src.Unget(next)
			break
		}
		value.WriteByte(next)
	}

	return Token{
		Kind:      DeclarationToken,
		DeclName:  strings.TrimSpace(name.String()),
		DeclValue: strings.TrimSpace(value.String()),
	}, nil
}

// Lex spawns a single goroutine that lexes the progress channel's bytes
// and sends the resulting tokens on the returned channel, closing it
// after sending Eof. If a fatal lex error occurs, it is sent on errs
// (buffered, at most one value) and the token channel is closed without
// an Eof token. bufSize sets the token channel's depth (backpressure);
// spec.md §5 requires it be at least 1.
func Lex(ctx context.Context, progress <-chan resource.ProgressMsg, bufSize int) (<-chan Token, <-chan error) {
	if bufSize < 1 {
		bufSize = 1
	}
	tokens := make(chan Token, bufSize)
	errs := make(chan error, 1)

	go func() {
		defer close(tokens)
		defer close(errs)

		lexer := New(cssstream.New(progress))
		for {
			tok, err := lexer.Next()
			if err != nil {
				errs <- err
				return
			}

			select {
			case tokens <- tok:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}

			if tok.Kind == Eof {
				return
			}
		}
	}()

	return tokens, errs
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
