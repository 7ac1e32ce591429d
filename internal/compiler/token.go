package compiler

import (
	"strings"

	"github.com/aretw0/nfalab/pkg/domain"
)

// TokenKind classifies a resolved pattern token.
type TokenKind int

const (
	Operand TokenKind = iota
	EpsilonOperand
	Alternation
	Concat
	Star
	Plus
	Optional
	LParen
	RParen
)

// ConcatMarker is the printable form of the explicit concatenation operator.
const ConcatMarker = "·"

var kindNames = map[TokenKind]string{
	Operand:        "operand",
	EpsilonOperand: "epsilon",
	Alternation:    "alternation",
	Concat:         "concat",
	Star:           "star",
	Plus:           "plus",
	Optional:       "optional",
	LParen:         "lparen",
	RParen:         "rparen",
}

func (k TokenKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Token is a single unit of a pattern after escapes are resolved.
// Pos is the rune offset of the token in the original pattern; inserted
// concatenation markers carry the offset of the token that follows them.
type Token struct {
	Kind  TokenKind
	Value rune
	Pos   int
}

// Symbol returns the automaton label for an operand token.
func (t Token) Symbol() domain.Symbol {
	if t.Kind == EpsilonOperand {
		return domain.Epsilon
	}
	return domain.Char(t.Value)
}

// IsOperand reports whether t produces a fragment on its own.
func (t Token) IsOperand() bool {
	return t.Kind == Operand || t.Kind == EpsilonOperand
}

// IsQuantifier reports whether t is one of the postfix unary operators.
func (t Token) IsQuantifier() bool {
	return t.Kind == Star || t.Kind == Plus || t.Kind == Optional
}

func (t Token) String() string {
	switch t.Kind {
	case EpsilonOperand:
		return domain.EpsilonLabel
	case Concat:
		return ConcatMarker
	case Operand:
		// Literals that would read as syntax keep a backslash.
		if strings.ContainsRune(`|*+?()\·ε`, t.Value) {
			return `\` + string(t.Value)
		}
		return string(t.Value)
	default:
		return string(t.Value)
	}
}

// canEnd reports whether a sub-expression may end with t.
func (t Token) canEnd() bool {
	return t.IsOperand() || t.Kind == RParen || t.IsQuantifier()
}

// canBegin reports whether a sub-expression may begin with t.
func (t Token) canBegin() bool {
	return t.IsOperand() || t.Kind == LParen
}

// precedence of binary and unary operators. Parentheses have none.
func (t Token) precedence() int {
	switch t.Kind {
	case Alternation:
		return 1
	case Concat:
		return 2
	case Star, Plus, Optional:
		return 3
	}
	return 0
}

// Format renders a token stream back to text.
func Format(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.String())
	}
	return sb.String()
}
