// Package cssstream presents a chunked byte channel as a character-or-EOF
// stream with one-slot pushback, for consumption by the CSS lexer.
//
// Grounded on original_source/src/servo/html/lexer_util.rs's InputState:
// a lookahead slot, a byte buffer, an eof flag, and a blocking receive on
// the fetch channel when the buffer drains.
package cssstream

import (
	"fmt"

	"github.com/lukehoban/csslab/resource"
)

// Source adapts a resource.ProgressMsg channel into a pushback byte
// stream. It is a single-consumer type: Get/Unget/Expect/ParseIdent/
// EatWhitespace must not be called concurrently.
type Source struct {
	progress <-chan resource.ProgressMsg

	lookahead    byte
	hasLookahead bool

	buffer []byte
	eof    bool
	err    error
}

// New creates a Source that pulls chunks from progress.
func New(progress <-chan resource.ProgressMsg) *Source {
	return &Source{progress: progress}
}

// Get returns the next byte, or ok=false at end of stream.
func (s *Source) Get() (c byte, ok bool) {
	if s.hasLookahead {
		c = s.lookahead
		s.hasLookahead = false
		return c, true
	}

	if len(s.buffer) > 0 {
		c = s.buffer[0]
		s.buffer = s.buffer[1:]
		return c, true
	}

	if s.eof {
		return 0, false
	}

	for msg := range s.progress {
		if len(msg.Payload) > 0 {
			s.buffer = msg.Payload
			c = s.buffer[0]
			s.buffer = s.buffer[1:]
			return c, true
		}
		if msg.Done {
			s.eof = true
			s.err = msg.Err
			return 0, false
		}
	}

	// Channel closed without a Done message: treat as end of stream.
	s.eof = true
	return 0, false
}

// Err returns the fetch failure that ended the stream, if the
// underlying channel delivered Done(Err(...)) rather than completing
// cleanly. It is nil before the first EOF and after a clean EOF.
func (s *Source) Err() error {
	return s.err
}

// Unget pushes c back onto the stream. It panics if a pushback is
// already pending, since the adapter only ever needs one slot of
// lookahead and a second Unget indicates a lexer bug.
func (s *Source) Unget(c byte) {
	if s.hasLookahead {
		panic("cssstream: Unget called with a pushback already pending")
	}
	s.lookahead = c
	s.hasLookahead = true
}

// Expect consumes one byte, returning an error if it is not c.
func (s *Source) Expect(c byte) error {
	got, ok := s.Get()
	if !ok {
		if s.err != nil {
			return fmt.Errorf("cssstream: expected %q: %w", c, s.err)
		}
		return fmt.Errorf("cssstream: expected %q at EOF", c)
	}
	if got != c {
		return fmt.Errorf("cssstream: expected %q, got %q", c, got)
	}
	return nil
}

// ParseIdent consumes a maximal run of identifier bytes: the first byte
// must be alphabetic, and subsequent bytes may also be digits, '-' or
// '_'. It fails if the run is empty.
func (s *Source) ParseIdent() (string, error) {
	var result []byte
	for {
		c, ok := s.Get()
		if !ok {
			if len(result) == 0 {
				if s.err != nil {
					return "", fmt.Errorf("cssstream: expected identifier: %w", s.err)
				}
				return "", fmt.Errorf("cssstream: expected identifier at EOF")
			}
			break
		}
		if isAlpha(c) || (len(result) > 0 && isIdentCont(c)) {
			result = append(result, c)
			continue
		}
		if len(result) == 0 {
			return "", fmt.Errorf("cssstream: expected identifier, got %q", c)
		}
		s.Unget(c)
		break
	}
	return string(result), nil
}

// EatWhitespace consumes a maximal run of space/tab/newline/carriage return.
func (s *Source) EatWhitespace() {
	for {
		c, ok := s.Get()
		if !ok {
			return
		}
		if !isWhitespace(c) {
			s.Unget(c)
			return
		}
	}
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isAlpha(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentCont(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '-' || c == '_'
}
