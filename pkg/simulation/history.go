package simulation

import (
	"github.com/aretw0/nfalab/pkg/domain"
)

// Simulation replays one input string over a compiled automaton.
//
// History is append-only while moving forward: entry i is the active set
// after consuming i characters. Moving backward only lowers the cursor, and
// moving forward again reuses cached entries, so every index always maps to
// the same set. A Simulation is not safe for concurrent use.
type Simulation struct {
	nfa     *domain.NFA
	input   []rune
	history []domain.ActiveSet
	index   int
}

// New seeds a simulation with the initial epsilon closure.
func New(n *domain.NFA, input string) *Simulation {
	return &Simulation{
		nfa:     n,
		input:   []rune(input),
		history: []domain.ActiveSet{Initial(n)},
	}
}

// NFA returns the automaton being simulated.
func (s *Simulation) NFA() *domain.NFA { return s.nfa }

// Input returns the test string.
func (s *Simulation) Input() string { return string(s.input) }

// Len is the number of characters in the test string.
func (s *Simulation) Len() int { return len(s.input) }

// Index is the number of characters consumed at the cursor.
func (s *Simulation) Index() int { return s.index }

// Computed is the number of cached history entries.
func (s *Simulation) Computed() int { return len(s.history) }

// Forward consumes the next character. It reports false when the cursor is
// already at the end of the input.
func (s *Simulation) Forward() bool {
	if s.index >= len(s.input) {
		return false
	}
	next := s.index + 1
	if next >= len(s.history) {
		s.history = append(s.history, Step(s.history[s.index], s.input[s.index], s.nfa.Transitions))
	}
	s.index = next
	return true
}

// Backward moves the cursor back one character without touching history.
func (s *Simulation) Backward() bool {
	if s.index == 0 {
		return false
	}
	s.index--
	return true
}

// Reset truncates history to the initial entry and rewinds the cursor.
func (s *Simulation) Reset() {
	s.history = s.history[:1]
	s.index = 0
}

// Seek moves the cursor to i, clamped to [0, Len()], stepping forward as
// needed. It returns the resulting index.
func (s *Simulation) Seek(i int) int {
	if i < 0 {
		i = 0
	}
	if i > len(s.input) {
		i = len(s.input)
	}
	for s.index < i {
		s.Forward()
	}
	s.index = i
	return s.index
}

// RunToEnd consumes the rest of the input.
func (s *Simulation) RunToEnd() {
	s.Seek(len(s.input))
}

// At returns the history entry at i if it has been computed.
func (s *Simulation) At(i int) (domain.ActiveSet, bool) {
	if i < 0 || i >= len(s.history) {
		return nil, false
	}
	return s.history[i], true
}

// History returns a copy of the computed entries.
func (s *Simulation) History() []domain.ActiveSet {
	out := make([]domain.ActiveSet, len(s.history))
	copy(out, s.history)
	return out
}

// Active is the active set at the cursor.
func (s *Simulation) Active() domain.ActiveSet {
	return s.history[s.index]
}

// AcceptsAt reports whether the prefix of length i is in the language.
// It is false for entries not yet computed.
func (s *Simulation) AcceptsAt(i int) bool {
	set, ok := s.At(i)
	return ok && s.nfa.Accepts(set)
}

// Complete reports whether the whole input has been consumed.
func (s *Simulation) Complete() bool {
	return s.index == len(s.input)
}

// Accepted reports whether the whole input has been consumed and an
// accepting state is active. It has no side effects.
func (s *Simulation) Accepted() bool {
	return s.Complete() && s.nfa.Accepts(s.Active())
}

// Rejected reports whether no state is active; every later entry stays empty.
func (s *Simulation) Rejected() bool {
	return s.Active().IsEmpty()
}

// NextSymbol returns the character consumed by the next forward step.
func (s *Simulation) NextSymbol() (rune, bool) {
	if s.index >= len(s.input) {
		return 0, false
	}
	return s.input[s.index], true
}

// Fired returns the indices of the transitions traversed to produce entry i:
// the character moves out of entry i-1 plus the epsilon moves inside entry i.
func (s *Simulation) Fired(i int) []int {
	cur, ok := s.At(i)
	if !ok {
		return nil
	}
	var prev domain.ActiveSet
	if i > 0 {
		prev = s.history[i-1]
	}

	fired := []int{}
	for idx, t := range s.nfa.Transitions {
		switch {
		case t.IsEpsilon():
			if cur.Has(t.From) && cur.Has(t.To) {
				fired = append(fired, idx)
			}
		case i > 0:
			if t.Symbol.Matches(s.input[i-1]) && prev.Has(t.From) && cur.Has(t.To) {
				fired = append(fired, idx)
			}
		}
	}
	return fired
}

// View projects the cursor position into a render-friendly value.
func (s *Simulation) View() domain.View {
	v := domain.View{
		Index:     s.index,
		Length:    len(s.input),
		ActiveIDs: s.Active().IDs(),
		Accepted:  s.Accepted(),
		Complete:  s.Complete(),
		Rejected:  s.Rejected(),
		Fired:     s.Fired(s.index),
	}
	if r, ok := s.NextSymbol(); ok {
		sym := string(r)
		v.NextSymbol = &sym
	}
	return v
}
