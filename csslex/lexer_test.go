package csslex

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lukehoban/csslab/resource"
)

// chunked sends s to a fresh ProgressMsg channel, split into pieces of
// size chunkSize (or as a single payload if chunkSize <= 0), terminated
// by a Done message.
func chunked(s string, chunkSize int) <-chan resource.ProgressMsg {
	out := make(chan resource.ProgressMsg, 16)
	go func() {
		defer close(out)
		if chunkSize <= 0 {
			if len(s) > 0 {
				out <- resource.ProgressMsg{Payload: []byte(s)}
			}
		} else {
			for i := 0; i < len(s); i += chunkSize {
				end := i + chunkSize
				if end > len(s) {
					end = len(s)
				}
				out <- resource.ProgressMsg{Payload: []byte(s[i:end])}
			}
		}
		out <- resource.ProgressMsg{Done: true}
	}()
	return out
}

func collect(t *testing.T, tokens <-chan Token, errs <-chan error) ([]Token, error) {
	t.Helper()
	var got []Token
	for tok := range tokens {
		got = append(got, tok)
	}
	return got, <-errs
}

func TestLexClassSelector(t *testing.T) {
	tokens, errs := Lex(context.Background(), chunked("div.container { color: red; }", 0), 8)
	got, err := collect(t, tokens, errs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Token{
		{Kind: ElementToken, Name: "div"},
		{Kind: AttrSelectorToken, Attr: AttrMatch{Kind: IncludesWord, Name: "class", Value: "container"}},
		{Kind: StartBlock},
		{Kind: DeclarationToken, DeclName: "color", DeclValue: "red"},
		{Kind: EndBlock},
		{Kind: Eof},
	}
	assertTokens(t, got, want)
}

func TestLexDescendantAndChildCombinators(t *testing.T) {
	tokens, errs := Lex(context.Background(), chunked("ul li { } ul > li { }", 0), 8)
	got, err := collect(t, tokens, errs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Token{
		{Kind: ElementToken, Name: "ul"},
		{Kind: Descendant},
		{Kind: ElementToken, Name: "li"},
		{Kind: StartBlock},
		{Kind: EndBlock},
		{Kind: ElementToken, Name: "ul"},
		{Kind: Child},
		{Kind: ElementToken, Name: "li"},
		{Kind: StartBlock},
		{Kind: EndBlock},
		{Kind: Eof},
	}
	assertTokens(t, got, want)
}

func TestLexAttributeSelectors(t *testing.T) {
	tokens, errs := Lex(context.Background(), chunked(`a[href] a[href=home] a[class~=btn] a[lang|=en] { }`, 0), 8)
	got, err := collect(t, tokens, errs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Token{
		{Kind: ElementToken, Name: "a"},
		{Kind: AttrSelectorToken, Attr: AttrMatch{Kind: Exists, Name: "href"}},
		{Kind: Descendant},
		{Kind: ElementToken, Name: "a"},
		{Kind: AttrSelectorToken, Attr: AttrMatch{Kind: Exact, Name: "href", Value: "home"}},
		{Kind: Descendant},
		{Kind: ElementToken, Name: "a"},
		{Kind: AttrSelectorToken, Attr: AttrMatch{Kind: IncludesWord, Name: "class", Value: "btn"}},
		{Kind: Descendant},
		{Kind: ElementToken, Name: "a"},
		{Kind: AttrSelectorToken, Attr: AttrMatch{Kind: StartsWithLangTag, Name: "lang", Value: "en"}},
		{Kind: StartBlock},
		{Kind: EndBlock},
		{Kind: Eof},
	}
	assertTokens(t, got, want)
}

func TestLexUniversalAndIDSelector(t *testing.T) {
	tokens, errs := Lex(context.Background(), chunked("* { } #main { }", 0), 8)
	got, err := collect(t, tokens, errs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Token{
		{Kind: ElementToken, Name: "*"},
		{Kind: StartBlock},
		{Kind: EndBlock},
		{Kind: ElementToken, Name: "*"},
		{Kind: AttrSelectorToken, Attr: AttrMatch{Kind: IncludesWord, Name: "id", Value: "main"}},
		{Kind: StartBlock},
		{Kind: EndBlock},
		{Kind: Eof},
	}
	assertTokens(t, got, want)
}

func TestLexMultipleDeclarationsAndSelectorList(t *testing.T) {
	tokens, errs := Lex(context.Background(), chunked("h1, h2 { color: blue; font-size: 12pt; }", 0), 8)
	got, err := collect(t, tokens, errs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Token{
		{Kind: ElementToken, Name: "h1"},
		{Kind: Comma},
		{Kind: ElementToken, Name: "h2"},
		{Kind: StartBlock},
		{Kind: DeclarationToken, DeclName: "color", DeclValue: "blue"},
		{Kind: DeclarationToken, DeclName: "font-size", DeclValue: "12pt"},
		{Kind: EndBlock},
		{Kind: Eof},
	}
	assertTokens(t, got, want)
}

// TestLexChunkingInvariance checks that splitting the same input across
// many small channel payloads produces identical tokens to delivering it
// as one payload, per the "chunking invariance" invariant.
func TestLexChunkingInvariance(t *testing.T) {
	input := `div.item[data-role~=card] { background-color: #336699; width: 50%; }`

	whole, errsWhole := Lex(context.Background(), chunked(input, 0), 8)
	gotWhole, err := collect(t, whole, errsWhole)
	if err != nil {
		t.Fatalf("whole: unexpected error: %v", err)
	}

	chunkedTokens, errsChunked := Lex(context.Background(), chunked(input, 3), 8)
	gotChunked, err := collect(t, chunkedTokens, errsChunked)
	if err != nil {
		t.Fatalf("chunked: unexpected error: %v", err)
	}

	assertTokens(t, gotChunked, gotWhole)
}

func TestLexUnterminatedDeclarationIsFatal(t *testing.T) {
	tokens, errs := Lex(context.Background(), chunked("div { color: red", 0), 8)
	got, err := collect(t, tokens, errs)
	if err == nil {
		t.Fatalf("expected a fatal error, got tokens %v", got)
	}
	if _, ok := err.(*Error); !ok {
		t.Errorf("expected *csslex.Error, got %T (%v)", err, err)
	}
}

func TestLexUnterminatedAttributeSelectorIsFatal(t *testing.T) {
	tokens, errs := Lex(context.Background(), chunked("a[href", 0), 8)
	got, err := collect(t, tokens, errs)
	if err == nil {
		t.Fatalf("expected a fatal error, got tokens %v", got)
	}
	if _, ok := err.(*Error); !ok {
		t.Errorf("expected *csslex.Error, got %T (%v)", err, err)
	}
}

// brokenMidStream delivers payload, then a Done message carrying err,
// simulating a Fetcher that fails partway through a resource instead of
// completing cleanly.
func brokenMidStream(payload string, err error) <-chan resource.ProgressMsg {
	out := make(chan resource.ProgressMsg, 2)
	out <- resource.ProgressMsg{Payload: []byte(payload)}
	out <- resource.ProgressMsg{Done: true, Err: err}
	close(out)
	return out
}

func TestLexFetchErrorMidDeclarationSurfacesCause(t *testing.T) {
	fetchErr := errors.New("connection reset")
	tokens, errs := Lex(context.Background(), brokenMidStream("div { color: red", fetchErr), 8)
	got, err := collect(t, tokens, errs)
	if err == nil {
		t.Fatalf("expected a fatal error, got tokens %v", got)
	}
	if !strings.Contains(err.Error(), fetchErr.Error()) {
		t.Errorf("expected the fetch failure to be included in the error, got %v", err)
	}
}

func TestLexEmptyInputIsJustEof(t *testing.T) {
	tokens, errs := Lex(context.Background(), chunked("", 0), 8)
	got, err := collect(t, tokens, errs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTokens(t, got, []Token{{Kind: Eof}})
}

func assertTokens(t *testing.T, got, want []Token) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d\ngot:  %v\nwant: %v", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
