package domain

import "sort"

// State is a node of a compiled automaton.
// Identity is the ID: two State values with the same ID are the same state.
type State struct {
	ID       int  `json:"id" yaml:"id"`
	IsAccept bool `json:"is_accept" yaml:"is_accept"`
}

// ActiveSet is the set of state IDs occupied at one point of a simulation.
// It is kept sorted and free of duplicates so two sets can be compared by value.
type ActiveSet []int

// NewActiveSet builds a normalized set from arbitrary IDs.
func NewActiveSet(ids ...int) ActiveSet {
	if len(ids) == 0 {
		return ActiveSet{}
	}
	out := make(ActiveSet, len(ids))
	copy(out, ids)
	sort.Ints(out)

	// Deduplicate in place
	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}

// Has reports whether id is a member of the set.
func (a ActiveSet) Has(id int) bool {
	i := sort.SearchInts(a, id)
	return i < len(a) && a[i] == id
}

// Len returns the number of states in the set.
func (a ActiveSet) Len() int {
	return len(a)
}

// IsEmpty reports whether no state is active (the input was rejected early).
func (a ActiveSet) IsEmpty() bool {
	return len(a) == 0
}

// Equal reports whether both sets contain the same IDs.
func (a ActiveSet) Equal(b ActiveSet) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Contains reports whether every member of b is also in a.
func (a ActiveSet) Contains(b ActiveSet) bool {
	for _, id := range b {
		if !a.Has(id) {
			return false
		}
	}
	return true
}

// IDs returns a copy of the member IDs in ascending order.
func (a ActiveSet) IDs() []int {
	out := make([]int, len(a))
	copy(out, a)
	return out
}
