package query

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by Tokenize, Parse and Compile wraps
// exactly one of these.
var (
	ErrLex    = errors.New("lex error")
	ErrSyntax = errors.New("syntax error")
	ErrBind   = errors.New("bind error")
	ErrLimit  = errors.New("query limit exceeded")
	ErrRow    = errors.New("row error")
)

// LexError reports a character the lexer could not turn into a token.
type LexError struct {
	Pos     int // byte offset in input
	Message string
}

func (e *LexError) Error() string { return e.Message }

func (e *LexError) Unwrap() error { return ErrLex }

func newLexError(pos int, msgFmt string, args ...any) *LexError {
	return &LexError{Pos: pos, Message: fmt.Sprintf(msgFmt, args...)}
}

// SyntaxError reports an unexpected or missing token. Positions are counted
// in tokens, not characters.
type SyntaxError struct {
	Token   int // index of the offending token, len(tokens) at end of input
	Message string
}

func (e *SyntaxError) Error() string { return e.Message }

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

func newSyntaxError(tok int, msgFmt string, args ...any) *SyntaxError {
	return &SyntaxError{Token: tok, Message: fmt.Sprintf(msgFmt, args...)}
}

// BindError reports a comparison that cannot be resolved against a schema.
type BindError struct {
	Left, Right string // raw operands of the comparison
	Message     string
	Err         error // underlying schema error, if any
}

func (e *BindError) Error() string { return e.Message }

func (e *BindError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrBind}
	}
	return []error{ErrBind, e.Err}
}

func newBindError(left, right string, err error, msgFmt string, args ...any) *BindError {
	return &BindError{Left: left, Right: right, Message: fmt.Sprintf(msgFmt, args...), Err: err}
}
