package compiler

import (
	"github.com/aretw0/nfalab/pkg/domain"
)

// ToPostfix reorders a concatenation-expanded token stream into postfix
// form with a shunting-yard operator stack. Parentheses never reach the
// output.
//
// Checks run in a fixed order: the leading token, then parenthesis balance
// while scanning, then leftover `(`, then the trailing token.
func ToPostfix(infix []Token) ([]Token, error) {
	if len(infix) == 0 {
		return nil, nil
	}

	first := infix[0]
	if first.Kind == Alternation || first.Kind == Concat || first.IsQuantifier() {
		return nil, domain.NewCompileError(domain.KindInvalidExpressionStart, first.Pos,
			"pattern cannot start with %q", first.String())
	}

	var (
		output []Token
		stack  []Token
		opens  []int // positions of pending '('
	)

	for _, tok := range infix {
		switch {
		case tok.IsOperand():
			output = append(output, tok)

		case tok.Kind == LParen:
			opens = append(opens, tok.Pos)
			stack = append(stack, tok)

		case tok.Kind == RParen:
			if len(opens) == 0 {
				return nil, domain.NewCompileError(domain.KindUnmatchedParenthesis, tok.Pos,
					"')' has no matching '('")
			}
			opens = opens[:len(opens)-1]
			for stack[len(stack)-1].Kind != LParen {
				output = append(output, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			stack = stack[:len(stack)-1]

		default:
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.Kind == LParen || top.precedence() < tok.precedence() {
					break
				}
				output = append(output, top)
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, tok)
		}
	}

	if len(opens) > 0 {
		return nil, domain.NewCompileError(domain.KindUnmatchedParenthesis, opens[len(opens)-1],
			"'(' is never closed")
	}

	last := infix[len(infix)-1]
	if last.Kind == Alternation || last.Kind == Concat || last.Kind == LParen {
		return nil, domain.NewCompileError(domain.KindInvalidExpressionEnd, last.Pos,
			"pattern cannot end with %q", last.String())
	}

	for len(stack) > 0 {
		output = append(output, stack[len(stack)-1])
		stack = stack[:len(stack)-1]
	}
	return output, nil
}
