package compiler

import (
	"fmt"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/aretw0/nfalab/pkg/domain"
)

// patternLexer splits a raw pattern into escapes, operators and literals.
// Rule order matters: an escape wins over a lone backslash.
var patternLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Escape", Pattern: `(?s)\\.`},
	{Name: "Dangling", Pattern: `\\`},
	{Name: "Operator", Pattern: `[|*+?()]`},
	{Name: "Literal", Pattern: `(?s).`},
})

var (
	symbols      = patternLexer.Symbols()
	tokEscape    = symbols["Escape"]
	tokDangling  = symbols["Dangling"]
	tokOperator  = symbols["Operator"]
	tokLiteral   = symbols["Literal"]
	operatorKind = map[rune]TokenKind{
		'|': Alternation,
		'*': Star,
		'+': Plus,
		'?': Optional,
		'(': LParen,
		')': RParen,
	}
)

// Tokenize resolves escapes and classifies every character of pattern.
// `\e` yields the epsilon operand; any other escaped character is a literal.
func Tokenize(pattern string) ([]Token, error) {
	lex, err := patternLexer.LexString("", pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to start lexer: %w", err)
	}

	var out []Token
	pos := 0
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to lex pattern: %w", err)
		}
		if tok.EOF() {
			return out, nil
		}

		switch tok.Type {
		case tokEscape:
			_, size := utf8.DecodeRuneInString(tok.Value)
			r, _ := utf8.DecodeRuneInString(tok.Value[size:])
			if r == 'e' {
				out = append(out, Token{Kind: EpsilonOperand, Value: 'e', Pos: pos})
			} else {
				out = append(out, Token{Kind: Operand, Value: r, Pos: pos})
			}
		case tokDangling:
			return nil, domain.NewCompileError(domain.KindUnterminatedEscape, pos, "escape at end of pattern")
		case tokOperator:
			r, _ := utf8.DecodeRuneInString(tok.Value)
			out = append(out, Token{Kind: operatorKind[r], Value: r, Pos: pos})
		case tokLiteral:
			r, _ := utf8.DecodeRuneInString(tok.Value)
			out = append(out, Token{Kind: Operand, Value: r, Pos: pos})
		default:
			return nil, fmt.Errorf("unexpected token %q at position %d", tok.Value, pos)
		}
		pos += utf8.RuneCountInString(tok.Value)
	}
}
