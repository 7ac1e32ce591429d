package domain

import "sort"

// NFA is a compiled automaton.
// States is an arena indexed by ID (States[i].ID == i). An NFA is never
// mutated after construction; recompiling produces a new value.
type NFA struct {
	Start       int          `json:"start" yaml:"start"`
	End         int          `json:"end" yaml:"end"`
	States      []State      `json:"states" yaml:"states"`
	Transitions []Transition `json:"transitions" yaml:"transitions"`
}

// Stats summarizes the size of an automaton.
type Stats struct {
	States             int      `json:"states" yaml:"states"`
	Transitions        int      `json:"transitions" yaml:"transitions"`
	EpsilonTransitions int      `json:"epsilon_transitions" yaml:"epsilon_transitions"`
	Alphabet           []string `json:"alphabet" yaml:"alphabet"`
}

// State returns the state with the given ID.
func (n *NFA) State(id int) (State, bool) {
	if id < 0 || id >= len(n.States) {
		return State{}, false
	}
	return n.States[id], true
}

// IsAccept reports whether id is an accepting state.
func (n *NFA) IsAccept(id int) bool {
	s, ok := n.State(id)
	return ok && s.IsAccept
}

// Accepts reports whether any state of the set is accepting.
func (n *NFA) Accepts(set ActiveSet) bool {
	for _, id := range set {
		if n.IsAccept(id) {
			return true
		}
	}
	return false
}

// AcceptStates returns the IDs of all accepting states.
func (n *NFA) AcceptStates() []int {
	var ids []int
	for _, s := range n.States {
		if s.IsAccept {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// Alphabet returns the distinct non-epsilon symbols in ascending order.
func (n *NFA) Alphabet() []Symbol {
	seen := make(map[rune]struct{})
	var runes []rune
	for _, t := range n.Transitions {
		if t.IsEpsilon() {
			continue
		}
		if _, ok := seen[t.Symbol.Rune()]; ok {
			continue
		}
		seen[t.Symbol.Rune()] = struct{}{}
		runes = append(runes, t.Symbol.Rune())
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })

	out := make([]Symbol, len(runes))
	for i, r := range runes {
		out[i] = Char(r)
	}
	return out
}

// Stats computes state and transition counts.
func (n *NFA) Stats() Stats {
	st := Stats{
		States:      len(n.States),
		Transitions: len(n.Transitions),
		Alphabet:    []string{},
	}
	for _, t := range n.Transitions {
		if t.IsEpsilon() {
			st.EpsilonTransitions++
		}
	}
	for _, s := range n.Alphabet() {
		st.Alphabet = append(st.Alphabet, s.String())
	}
	return st
}

// Outgoing returns the indices of transitions leaving state id.
func (n *NFA) Outgoing(id int) []int {
	var idx []int
	for i, t := range n.Transitions {
		if t.From == id {
			idx = append(idx, i)
		}
	}
	return idx
}

// Reachable returns the IDs reachable from Start along any transition.
func (n *NFA) Reachable() ActiveSet {
	adj := make(map[int][]int)
	for _, t := range n.Transitions {
		adj[t.From] = append(adj[t.From], t.To)
	}

	seen := map[int]bool{n.Start: true}
	stack := []int{n.Start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, to := range adj[cur] {
			if !seen[to] {
				seen[to] = true
				stack = append(stack, to)
			}
		}
	}

	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	return NewActiveSet(ids...)
}
