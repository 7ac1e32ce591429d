package compiler

import (
	"unicode/utf8"

	"github.com/aretw0/nfalab/pkg/domain"
)

// DefaultMaxLength is the default cap on pattern length, in characters.
const DefaultMaxLength = 100

// Options configures a compilation.
type Options struct {
	// MaxLength rejects longer patterns before any work is done. Zero disables the guard.
	MaxLength int
}

// Option configures the compiler.
type Option func(*Options)

// WithMaxLength overrides the pattern length guard. Zero disables it.
func WithMaxLength(n int) Option {
	return func(o *Options) {
		o.MaxLength = n
	}
}

// Compile runs the full pipeline: tokenize, insert concatenation, reorder to
// postfix and build. It is all-or-nothing: on error no automaton is returned.
func Compile(pattern string, opts ...Option) (*domain.Compilation, error) {
	o := Options{MaxLength: DefaultMaxLength}
	for _, opt := range opts {
		opt(&o)
	}

	if n := utf8.RuneCountInString(pattern); o.MaxLength > 0 && n > o.MaxLength {
		return nil, domain.NewCompileError(domain.KindPatternTooLong, o.MaxLength,
			"pattern has %d characters, limit is %d", n, o.MaxLength)
	}

	// The empty pattern denotes {""} and skips the translator entirely.
	if pattern == "" {
		nfa, err := Build(nil)
		if err != nil {
			return nil, err
		}
		return &domain.Compilation{Pattern: pattern, NFA: nfa}, nil
	}

	tokens, err := Tokenize(pattern)
	if err != nil {
		return nil, err
	}
	infix := InsertConcatenation(tokens)
	postfix, err := ToPostfix(infix)
	if err != nil {
		return nil, err
	}
	if len(postfix) == 0 {
		return nil, domain.NewCompileError(domain.KindMalformedPostfix, -1,
			"pattern %q has no operands", pattern)
	}

	nfa, err := Build(postfix)
	if err != nil {
		return nil, err
	}

	return &domain.Compilation{
		Pattern: pattern,
		Infix:   Format(infix),
		Postfix: Format(postfix),
		NFA:     nfa,
	}, nil
}
