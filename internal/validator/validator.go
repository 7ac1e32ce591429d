package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/nfalab/pkg/domain"
)

// ValidateAutomaton checks the structural contract of a compiled NFA:
// the state arena is indexed by ID, the start state is 0, every transition
// points inside the arena, End is the only accepting state, and every state
// is reachable from Start with End among them.
func ValidateAutomaton(n *domain.NFA) error {
	if n == nil {
		return fmt.Errorf("automaton is nil")
	}

	var errors []string
	size := len(n.States)

	for i, s := range n.States {
		if s.ID != i {
			errors = append(errors, fmt.Sprintf("State at index %d has ID %d", i, s.ID))
		}
		if s.IsAccept != (s.ID == n.End) {
			errors = append(errors, fmt.Sprintf("State %d accept flag is %t", s.ID, s.IsAccept))
		}
	}
	if n.Start != 0 {
		errors = append(errors, fmt.Sprintf("Start state is %d, expected 0", n.Start))
	}
	if n.End < 0 || n.End >= size {
		errors = append(errors, fmt.Sprintf("End state %d outside the arena", n.End))
	}

	adjacency := make(map[int][]int)
	for i, t := range n.Transitions {
		if t.From < 0 || t.From >= size || t.To < 0 || t.To >= size {
			errors = append(errors, fmt.Sprintf("Transition %d (%d -> %d) has a dangling endpoint", i, t.From, t.To))
			continue
		}
		adjacency[t.From] = append(adjacency[t.From], t.To)
	}

	// Crawl from Start.
	visited := make(map[int]bool)
	queue := []int{n.Start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		for _, target := range adjacency[current] {
			if !visited[target] {
				queue = append(queue, target)
			}
		}
	}

	for _, s := range n.States {
		if !visited[s.ID] {
			errors = append(errors, fmt.Sprintf("Unreachable state: %d", s.ID))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}
