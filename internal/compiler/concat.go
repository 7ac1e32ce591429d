package compiler

// InsertConcatenation makes every implicit concatenation explicit.
// A marker goes between A and B when A can end a sub-expression and B can
// begin one, so it never follows `|` or `(` and never precedes `|`, `)` or a
// quantifier.
func InsertConcatenation(tokens []Token) []Token {
	if len(tokens) == 0 {
		return nil
	}

	out := make([]Token, 0, 2*len(tokens))
	out = append(out, tokens[0])
	for i := 1; i < len(tokens); i++ {
		prev, cur := tokens[i-1], tokens[i]
		if prev.canEnd() && cur.canBegin() {
			out = append(out, Token{Kind: Concat, Value: '·', Pos: cur.Pos})
		}
		out = append(out, cur)
	}
	return out
}
