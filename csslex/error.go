package csslex

import "fmt"

// Error is a fatal lex error: an unexpected character in a selector
// context, an unterminated declaration, or unexpected EOF inside a block
// or attribute selector. Per spec.md §7, it aborts the current
// stylesheet but never the whole process.
type Error struct {
	State string
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("csslex: in %s: %s", e.State, e.Msg)
}

func errf(state, format string, args ...any) *Error {
	return &Error{State: state, Msg: fmt.Sprintf(format, args...)}
}
