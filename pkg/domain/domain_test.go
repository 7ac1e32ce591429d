package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewActiveSet_SortsAndDeduplicates(t *testing.T) {
	set := NewActiveSet(5, 1, 3, 1, 5)
	assert.Equal(t, ActiveSet{1, 3, 5}, set)
	assert.True(t, set.Has(3))
	assert.False(t, set.Has(2))
	assert.True(t, set.Contains(NewActiveSet(1, 5)))
	assert.False(t, set.Contains(NewActiveSet(1, 4)))
	assert.True(t, NewActiveSet().IsEmpty())
}

func TestSymbol_JSON(t *testing.T) {
	tr := []Transition{
		{From: 0, To: 1, Symbol: Char('a')},
		{From: 1, To: 2, Symbol: Epsilon},
	}
	data, err := json.Marshal(tr)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"from":0,"to":1,"symbol":"a"},{"from":1,"to":2,"symbol":null}]`, string(data))

	var back []Transition
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, tr, back)

	var bad Symbol
	assert.Error(t, json.Unmarshal([]byte(`"ab"`), &bad))
}

func TestSymbol_Matches(t *testing.T) {
	assert.True(t, Char('x').Matches('x'))
	assert.False(t, Char('x').Matches('y'))
	assert.False(t, Epsilon.Matches(0))
	assert.Equal(t, "ε", Epsilon.String())
}

func TestCompileError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewCompileError(KindUnmatchedParenthesis, 3, "excess ')'"))

	assert.ErrorIs(t, err, ErrUnmatchedParenthesis)
	assert.False(t, errors.Is(err, ErrMalformedPostfix))
	assert.Equal(t, KindUnmatchedParenthesis, KindOf(err))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.Contains(t, err.Error(), "position 3")
}

func TestNFA_Stats(t *testing.T) {
	// a|b built by hand
	n := &NFA{
		Start: 0,
		End:   5,
		States: []State{
			{ID: 0}, {ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5, IsAccept: true},
		},
		Transitions: []Transition{
			{From: 1, To: 2, Symbol: Char('b')},
			{From: 3, To: 4, Symbol: Char('a')},
			{From: 0, To: 3, Symbol: Epsilon},
			{From: 0, To: 1, Symbol: Epsilon},
			{From: 4, To: 5, Symbol: Epsilon},
			{From: 2, To: 5, Symbol: Epsilon},
		},
	}

	st := n.Stats()
	assert.Equal(t, 6, st.States)
	assert.Equal(t, 6, st.Transitions)
	assert.Equal(t, 4, st.EpsilonTransitions)
	assert.Equal(t, []string{"a", "b"}, st.Alphabet)
	assert.Equal(t, []int{5}, n.AcceptStates())
	assert.Equal(t, ActiveSet{0, 1, 2, 3, 4, 5}, n.Reachable())
	assert.True(t, n.Accepts(ActiveSet{2, 5}))
	assert.False(t, n.Accepts(ActiveSet{0, 1}))
}
