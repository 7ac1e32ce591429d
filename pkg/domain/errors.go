package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrorKind classifies a compilation failure.
type ErrorKind string

const (
	KindUnterminatedEscape     ErrorKind = "unterminated_escape"
	KindUnmatchedParenthesis   ErrorKind = "unmatched_parenthesis"
	KindInvalidExpressionStart ErrorKind = "invalid_expression_start"
	KindInvalidExpressionEnd   ErrorKind = "invalid_expression_end"
	KindMalformedPostfix       ErrorKind = "malformed_postfix"
	KindPatternTooLong         ErrorKind = "pattern_too_long"
)

// Sentinels matched by errors.Is against any *CompileError of the same kind.
var (
	ErrUnterminatedEscape     = errors.New("unterminated escape")
	ErrUnmatchedParenthesis   = errors.New("unmatched parenthesis")
	ErrInvalidExpressionStart = errors.New("invalid expression start")
	ErrInvalidExpressionEnd   = errors.New("invalid expression end")
	ErrMalformedPostfix       = errors.New("malformed postfix")
	ErrPatternTooLong         = errors.New("pattern too long")
)

var kindSentinels = map[ErrorKind]error{
	KindUnterminatedEscape:     ErrUnterminatedEscape,
	KindUnmatchedParenthesis:   ErrUnmatchedParenthesis,
	KindInvalidExpressionStart: ErrInvalidExpressionStart,
	KindInvalidExpressionEnd:   ErrInvalidExpressionEnd,
	KindMalformedPostfix:       ErrMalformedPostfix,
	KindPatternTooLong:         ErrPatternTooLong,
}

// CompileError is the single failure surfaced by a rejected compilation.
// Pos is the rune offset in the pattern where the problem was detected, or -1.
type CompileError struct {
	Kind ErrorKind
	Pos  int
	Msg  string
}

// NewCompileError builds a CompileError with a formatted message.
func NewCompileError(kind ErrorKind, pos int, format string, args ...any) *CompileError {
	return &CompileError{
		Kind: kind,
		Pos:  pos,
		Msg:  fmt.Sprintf(format, args...),
	}
}

func (e *CompileError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s at position %d: %s", e.Kind, e.Pos, e.Msg)
}

// Unwrap exposes the kind sentinel so errors.Is(err, ErrUnmatchedParenthesis) works.
func (e *CompileError) Unwrap() error {
	return kindSentinels[e.Kind]
}

// KindOf extracts the ErrorKind of err, or "" if err is not a compile error.
func KindOf(err error) ErrorKind {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}
