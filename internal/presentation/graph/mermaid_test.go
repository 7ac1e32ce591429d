package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nfalab/internal/compiler"
	"github.com/aretw0/nfalab/internal/presentation/graph"
	"github.com/aretw0/nfalab/pkg/domain"
)

func compile(t *testing.T, pattern string) *domain.NFA {
	t.Helper()
	c, err := compiler.Compile(pattern)
	require.NoError(t, err)
	return c.NFA
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		overlay  *graph.Overlay
		contains []string
		excludes []string
	}{
		{
			name:    "Concatenation",
			pattern: "ab",
			contains: []string{
				"graph LR\n",
				`s0(("S:0"))`,
				`s1(("1"))`,
				`s3((("F:3")))`,
				`s0 -- "a" --> s1`,
				`s2 -- "b" --> s3`,
				`s1 -. "ε" .-> s2`,
			},
			excludes: []string{"classDef"},
		},
		{
			name:     "Empty Pattern",
			pattern:  "",
			contains: []string{`s0((("S/F:0")))`},
		},
		{
			name:    "Overlay",
			pattern: "ab",
			overlay: &graph.Overlay{Active: domain.ActiveSet{1, 2}, Fired: []int{0, 2, 99}},
			contains: []string{
				"classDef active",
				"class s1 active;",
				"class s2 active;",
				"linkStyle 0,2 stroke",
			},
			excludes: []string{"class s0 active;"},
		},
		{
			name:     "Quote Label",
			pattern:  `"`,
			contains: []string{`-- "#quot;" -->`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(compile(t, tt.pattern), tt.overlay)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, bad := range tt.excludes {
				assert.NotContains(t, got, bad)
			}
		})
	}
}

func TestGenerateMermaid_EdgeOrderMatchesTransitions(t *testing.T) {
	n := compile(t, "a(b|c)*d")
	got := graph.GenerateMermaid(n, nil)

	var edges int
	for _, line := range strings.Split(got, "\n") {
		if strings.Contains(line, "-->") || strings.Contains(line, ".->") {
			edges++
		}
	}
	assert.Equal(t, len(n.Transitions), edges)
}

func TestGenerateDOT(t *testing.T) {
	n := compile(t, "ab")
	got := graph.GenerateDOT(n, &graph.Overlay{Active: domain.ActiveSet{3}, Fired: []int{1}})

	assert.True(t, strings.HasPrefix(got, "digraph nfa {\n"))
	assert.Contains(t, got, "start -> s0;")
	assert.Contains(t, got, `s0 [label="S:0"];`)
	assert.Contains(t, got, `s3 [label="F:3", shape=doublecircle, style=filled, fillcolor="#ffeb3b"];`)
	assert.Contains(t, got, `s1 -> s2 [label="ε", style=dashed];`)
	assert.Contains(t, got, `s2 -> s3 [label="b", color="#fbc02d", penwidth=2];`)
}

func TestGenerateDOT_EscapesLabels(t *testing.T) {
	got := graph.GenerateDOT(compile(t, `\\"`), nil)
	assert.Contains(t, got, `[label="\\"]`)
	assert.Contains(t, got, `[label="\""]`)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]graph.Format{
		"":         graph.FormatMermaid,
		"Mermaid":  graph.FormatMermaid,
		"dot":      graph.FormatDOT,
		"graphviz": graph.FormatDOT,
	} {
		got, err := graph.ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := graph.ParseFormat("svg")
	assert.Error(t, err)

	assert.Equal(t, graph.GenerateDOT(compile(t, "a"), nil), graph.Render(graph.FormatDOT, compile(t, "a"), nil))
}
