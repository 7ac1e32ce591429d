package simulation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nfalab/internal/compiler"
	"github.com/aretw0/nfalab/pkg/domain"
	"github.com/aretw0/nfalab/pkg/simulation"
)

func compile(t *testing.T, pattern string) *domain.NFA {
	t.Helper()
	c, err := compiler.Compile(pattern)
	require.NoError(t, err)
	return c.NFA
}

func TestAcceptance(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    bool
	}{
		{"", "", true},
		{"", "a", false},
		{"a", "a", true},
		{"a", "", false},
		{"a", "aa", false},
		{"a*", "", true},
		{"a*", "a", true},
		{"a*", "aaaa", true},
		{"a*", "b", false},
		{"a(b|c)*d", "abccbd", true},
		{"a(b|c)*d", "ad", true},
		{"a(b|c)*d", "abc", false},
		{"a+", "", false},
		{"a+", "a", true},
		{"a+", "aaa", true},
		{"a?", "", true},
		{"a?", "aa", false},
		{"(a|b)*abb", "babb", true},
		{"(a|b)*abb", "abab", false},
		{`\e`, "", true},
		{`a\e`, "a", true},
		{`a\*`, "a*", true},
		{`a\*`, "aa", false},
		{"a b", "a b", true},
		{"(ab)+|c?", "abab", true},
		{"(ab)+|c?", "", true},
		{"(ab)+|c?", "aba", false},
		{"ü+", "üü", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			sim := simulation.New(compile(t, tt.pattern), tt.input)
			sim.RunToEnd()
			assert.True(t, sim.Complete())
			assert.Equal(t, tt.want, sim.Accepted())
		})
	}
}

func TestEpsilonClosure_IdempotentAndMonotonic(t *testing.T) {
	n := compile(t, "a(b|c)*d")

	for _, s := range n.States {
		seed := domain.NewActiveSet(s.ID)
		once := simulation.EpsilonClosure(seed, n.Transitions)
		twice := simulation.EpsilonClosure(once, n.Transitions)

		assert.True(t, once.Contains(seed), "S must be a subset of closure(S)")
		assert.Equal(t, once, twice, "closure must be idempotent")
	}

	assert.Equal(t, domain.ActiveSet{}, simulation.EpsilonClosure(domain.ActiveSet{}, n.Transitions))
}

func TestEpsilonClosure_Cycles(t *testing.T) {
	// (a*)* nests two epsilon loops.
	n := compile(t, "(a*)*")
	initial := simulation.Initial(n)
	assert.True(t, n.Accepts(initial))
	assert.True(t, initial.Has(n.Start))
}

func TestStep_EmptyStaysEmpty(t *testing.T) {
	n := compile(t, "ab")
	set := simulation.Step(simulation.Initial(n), 'x', n.Transitions)
	assert.True(t, set.IsEmpty())
	assert.True(t, simulation.Step(set, 'a', n.Transitions).IsEmpty())
}

func TestStep_UnsortedActiveSet(t *testing.T) {
	n := compile(t, "(a|b)*ab")
	initial := simulation.Initial(n)
	require.Greater(t, initial.Len(), 1)

	reversed := make(domain.ActiveSet, 0, initial.Len()+1)
	for i := initial.Len() - 1; i >= 0; i-- {
		reversed = append(reversed, initial[i])
	}
	reversed = append(reversed, initial[0])

	want := simulation.Step(initial, 'a', n.Transitions)
	require.False(t, want.IsEmpty())
	assert.Equal(t, want, simulation.Step(reversed, 'a', n.Transitions))
	assert.Equal(t, simulation.Move(initial, 'a', n.Transitions), simulation.Move(reversed, 'a', n.Transitions))
}

func TestSimulation_ReplayIsDeterministic(t *testing.T) {
	n := compile(t, "a(b|c)*d")
	sim := simulation.New(n, "abccbd")

	sim.RunToEnd()
	first := sim.History()
	require.Len(t, first, 7)

	for sim.Index() > 2 {
		sim.Backward()
	}
	assert.Equal(t, 7, sim.Computed(), "backward must not drop entries")
	sim.RunToEnd()

	assert.Equal(t, first, sim.History())
	for i := range first {
		got, ok := sim.At(i)
		require.True(t, ok)
		assert.True(t, got.Equal(first[i]))
	}

	// Recomputing from scratch gives the same sets.
	fresh := simulation.New(n, "abccbd")
	fresh.RunToEnd()
	assert.Equal(t, first, fresh.History())
}

func TestSimulation_Navigation(t *testing.T) {
	sim := simulation.New(compile(t, "ab"), "ab")

	assert.False(t, sim.Backward())
	assert.Equal(t, 0, sim.Index())
	assert.False(t, sim.Accepted())

	assert.True(t, sim.Forward())
	assert.True(t, sim.Forward())
	assert.False(t, sim.Forward(), "cannot move past the end")
	assert.True(t, sim.Accepted())

	assert.True(t, sim.Backward())
	assert.False(t, sim.Accepted(), "acceptance needs the full input")

	sim.Reset()
	assert.Equal(t, 0, sim.Index())
	assert.Equal(t, 1, sim.Computed())

	assert.Equal(t, 2, sim.Seek(10))
	assert.Equal(t, 0, sim.Seek(-3))
	assert.Equal(t, 3, sim.Computed())
}

func TestSimulation_AcceptsAt(t *testing.T) {
	sim := simulation.New(compile(t, "a*"), "aab")
	sim.RunToEnd()

	assert.True(t, sim.AcceptsAt(0))
	assert.True(t, sim.AcceptsAt(1))
	assert.True(t, sim.AcceptsAt(2))
	assert.False(t, sim.AcceptsAt(3))
	assert.False(t, sim.AcceptsAt(4), "missing entries are never accepting")
	assert.True(t, sim.Rejected())
	assert.False(t, sim.Accepted())
}

func TestSimulation_FiredAndView(t *testing.T) {
	n := compile(t, "ab")
	sim := simulation.New(n, "ab")

	v := sim.View()
	assert.Equal(t, domain.ActiveSet{0}, v.ActiveIDs)
	assert.Equal(t, []int{}, v.Fired)
	require.NotNil(t, v.NextSymbol)
	assert.Equal(t, "a", *v.NextSymbol)

	sim.Forward()
	// Transitions: 0 = 0-a->1, 1 = 2-b->3, 2 = 1-ε->2
	v = sim.View()
	assert.Equal(t, domain.ActiveSet{1, 2}, v.ActiveIDs)
	assert.Equal(t, []int{0, 2}, v.Fired)

	sim.Forward()
	v = sim.View()
	assert.Equal(t, domain.ActiveSet{3}, v.ActiveIDs)
	assert.Equal(t, []int{1}, v.Fired)
	assert.True(t, v.Accepted)
	assert.True(t, v.Complete)
	assert.Nil(t, v.NextSymbol)
}
