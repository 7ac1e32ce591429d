package domain

// Transition is an edge of the automaton.
// From and To are state IDs, never pointers into the state arena.
type Transition struct {
	From   int    `json:"from" yaml:"from"`
	To     int    `json:"to" yaml:"to"`
	Symbol Symbol `json:"symbol" yaml:"symbol"`
}

// IsEpsilon reports whether the transition is taken without consuming input.
func (t Transition) IsEpsilon() bool {
	return t.Symbol.IsEpsilon()
}
