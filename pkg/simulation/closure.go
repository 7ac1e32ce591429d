package simulation

import (
	"github.com/aretw0/nfalab/pkg/domain"
)

// EpsilonClosure returns every state reachable from seed using only epsilon
// transitions, seed included. It uses an explicit worklist.
func EpsilonClosure(seed domain.ActiveSet, transitions []domain.Transition) domain.ActiveSet {
	if len(seed) == 0 {
		return domain.ActiveSet{}
	}

	adj := make(map[int][]int)
	for _, t := range transitions {
		if t.IsEpsilon() {
			adj[t.From] = append(adj[t.From], t.To)
		}
	}

	seen := make(map[int]bool, len(seed))
	work := make([]int, 0, len(seed))
	for _, id := range seed {
		if !seen[id] {
			seen[id] = true
			work = append(work, id)
		}
	}

	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		for _, to := range adj[cur] {
			if !seen[to] {
				seen[to] = true
				work = append(work, to)
			}
		}
	}

	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	return domain.NewActiveSet(ids...)
}

// Move returns the states reached from active by one transition labelled r,
// without following epsilon transitions. active may be unsorted.
func Move(active domain.ActiveSet, r rune, transitions []domain.Transition) domain.ActiveSet {
	active = domain.NewActiveSet(active...)
	var ids []int
	for _, t := range transitions {
		if t.Symbol.Matches(r) && active.Has(t.From) {
			ids = append(ids, t.To)
		}
	}
	return domain.NewActiveSet(ids...)
}

// Step consumes one character: direct moves followed by their epsilon closure.
// An empty result means the input was rejected early; it stays empty.
func Step(active domain.ActiveSet, r rune, transitions []domain.Transition) domain.ActiveSet {
	return EpsilonClosure(Move(active, r, transitions), transitions)
}

// Initial is the epsilon closure of the start state, history entry 0.
func Initial(n *domain.NFA) domain.ActiveSet {
	return EpsilonClosure(domain.NewActiveSet(n.Start), n.Transitions)
}
