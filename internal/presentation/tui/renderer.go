package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/aretw0/nfalab/pkg/simulation"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)

	return func(markdown string) (string, error) {
		if err != nil {
			return markdown, err
		}
		return r.Render(markdown)
	}
}

// TraceMarkdown renders the computed history of sim as a markdown table.
// The row of the current index is marked with ▶.
func TraceMarkdown(sim *simulation.Simulation) string {
	var sb strings.Builder
	input := []rune(sim.Input())

	sb.WriteString("| | Step | Char | Active states | Accepting |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for i, set := range sim.History() {
		marker := ""
		if i == sim.Index() {
			marker = "▶"
		}
		char := "ε"
		if i > 0 {
			char = markdownChar(input[i-1])
		}
		accepting := "no"
		if sim.AcceptsAt(i) {
			accepting = "yes"
		}
		fmt.Fprintf(&sb, "| %s | %d | %s | %s | %s |\n", marker, i, char, formatSet(set), accepting)
	}

	switch {
	case sim.Accepted():
		sb.WriteString("\n**Accepted**\n")
	case sim.Complete() || sim.Rejected():
		sb.WriteString("\n**Rejected**\n")
	default:
		fmt.Fprintf(&sb, "\n_%d of %d characters consumed_\n", sim.Index(), sim.Len())
	}
	return sb.String()
}

func formatSet(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// markdownChar renders one input character as inline code safe inside a table cell.
func markdownChar(r rune) string {
	switch r {
	case '|':
		return "`\\|`"
	case '`':
		return "`` ` ``"
	case '\n':
		return "`\\n`"
	case '\t':
		return "`\\t`"
	}
	return "`" + string(r) + "`"
}
