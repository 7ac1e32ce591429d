package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nfalab/internal/compiler"
	"github.com/aretw0/nfalab/internal/presentation/tui"
	"github.com/aretw0/nfalab/pkg/domain"
	"github.com/aretw0/nfalab/pkg/simulation"
)

func newSim(t *testing.T, pattern, input string) *simulation.Simulation {
	t.Helper()
	c, err := compiler.Compile(pattern)
	require.NoError(t, err)
	return simulation.New(c.NFA, input)
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_| |_|_|")
	assert.NotContains(t, buf.String(), "\x1b[", "plain writers get no escape codes")
}

func TestPalette_PlainOutput(t *testing.T) {
	p := tui.NewPalette(&bytes.Buffer{})

	assert.Equal(t, "ACCEPTED", p.Verdict(domain.View{Accepted: true, Complete: true}))
	assert.Equal(t, "REJECTED", p.Verdict(domain.View{Complete: true}))
	assert.Equal(t, "REJECTED", p.Verdict(domain.View{Rejected: true, Index: 1, Length: 3}))
	assert.Equal(t, "running 1/3", p.Verdict(domain.View{Index: 1, Length: 3}))

	sim := newSim(t, "ab", "ab")
	assert.Equal(t, "{1, 3}", p.Active(sim.NFA(), domain.ActiveSet{1, 3}))
	assert.Equal(t, "{}", p.Active(nil, domain.ActiveSet{}))

	assert.Equal(t, "aüc", p.Input("aüc", 1))
	assert.Equal(t, "ab", p.Input("ab", 9))
}

func TestTraceMarkdown(t *testing.T) {
	sim := newSim(t, "a|b*", "b|")
	sim.Forward()

	md := tui.TraceMarkdown(sim)
	lines := strings.Split(strings.TrimSpace(md), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "| | Step | Char | Active states | Accepting |", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "|  | 0 | ε |"))
	assert.True(t, strings.HasPrefix(lines[3], "| ▶ | 1 | `b` |"))
	assert.Contains(t, lines[3], "| yes |")
	assert.Contains(t, md, "_1 of 2 characters consumed_")

	sim.Forward()
	md = tui.TraceMarkdown(sim)
	assert.Contains(t, md, "| ▶ | 2 | `\\|` | {} | no |")
	assert.Contains(t, md, "**Rejected**")

	accepted := newSim(t, "a*", "aa")
	accepted.RunToEnd()
	assert.Contains(t, tui.TraceMarkdown(accepted), "**Accepted**")
}

func TestNewRenderer(t *testing.T) {
	render := tui.NewRenderer()
	out, err := render("**bold**")
	require.NoError(t, err)
	assert.Contains(t, out, "bold")
}
