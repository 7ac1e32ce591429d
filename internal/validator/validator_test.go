package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nfalab/internal/compiler"
	"github.com/aretw0/nfalab/pkg/domain"
)

func TestValidateAutomaton_Compiled(t *testing.T) {
	patterns := []string{"", "a", "a*", "a+", "ab|c", "a(b|c)*d", "(a|b)*abb", `\(\)`, "((a))"}

	for _, p := range patterns {
		t.Run(p, func(t *testing.T) {
			c, err := compiler.Compile(p)
			require.NoError(t, err)
			assert.NoError(t, ValidateAutomaton(c.NFA))
		})
	}
}

func TestValidateAutomaton_Broken(t *testing.T) {
	tests := []struct {
		name string
		nfa  *domain.NFA
		want string
	}{
		{
			name: "Unreachable",
			nfa: &domain.NFA{
				Start:  0,
				End:    1,
				States: []domain.State{{ID: 0}, {ID: 1, IsAccept: true}, {ID: 2}},
				Transitions: []domain.Transition{
					{From: 0, To: 1, Symbol: domain.Char('a')},
					{From: 2, To: 1, Symbol: domain.Epsilon},
				},
			},
			want: "Unreachable state: 2",
		},
		{
			name: "Dangling",
			nfa: &domain.NFA{
				Start:       0,
				End:         1,
				States:      []domain.State{{ID: 0}, {ID: 1, IsAccept: true}},
				Transitions: []domain.Transition{{From: 0, To: 1}, {From: 1, To: 7}},
			},
			want: "dangling endpoint",
		},
		{
			name: "Start Not Zero",
			nfa: &domain.NFA{
				Start:       1,
				End:         0,
				States:      []domain.State{{ID: 0, IsAccept: true}, {ID: 1}},
				Transitions: []domain.Transition{{From: 1, To: 0}},
			},
			want: "expected 0",
		},
		{
			name: "Accept Flag",
			nfa: &domain.NFA{
				Start:       0,
				End:         1,
				States:      []domain.State{{ID: 0, IsAccept: true}, {ID: 1, IsAccept: true}},
				Transitions: []domain.Transition{{From: 0, To: 1}},
			},
			want: "State 0 accept flag is true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAutomaton(tt.nfa)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	assert.Error(t, ValidateAutomaton(nil))
}
