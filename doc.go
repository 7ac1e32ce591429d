/*
Package nfalab compiles small regular expressions into Thompson NFAs and steps through them one character at a time.

The pipeline has three stages: the pattern is tokenized and made explicit (concatenation markers), reordered into postfix with a shunting-yard pass, and built into an automaton by Thompson's construction. The simulator then keeps an append-only history of active state sets so a user can move forward, backward and reset without recomputation.

# Syntax

  - Operators: `|` alternation, `*` `+` `?` postfix quantifiers, `(` `)` grouping.
  - `\e` is the empty string (epsilon); `\x` is the literal x for any other character.
  - Every other character, including spaces and digits, is a literal.
  - The empty pattern matches only the empty string.

# Usage

The pure functions mirror the core contract:

	nfa, err := nfalab.Compile("a(b|c)*d")
	if err != nil {
		log.Fatal(err)
	}
	active := nfalab.InitialHistory(nfa)
	for _, r := range "abd" {
		active = nfalab.Step(active, r, nfa.Transitions)
	}
	fmt.Println(nfa.Accepts(active)) // true

Interactive hosts (CLI, HTTP, MCP) use an Engine and a Workspace, which add logging, lifecycle hooks and atomic recompilation:

	eng := nfalab.New(nfalab.WithLogger(logger))
	ws, err := eng.NewWorkspace(ctx, "demo", "a+", "aaa")
	if err != nil {
		log.Fatal(err)
	}
	for ws.Forward(ctx) {
		fmt.Println(ws.View().ActiveIDs)
	}
*/
package nfalab
