package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/nfalab/pkg/domain"
)

// Palette colours verdicts and state sets for one output stream.
// On a non-terminal writer the profile degrades to plain ASCII.
type Palette struct {
	out *termenv.Output
}

// NewPalette detects the colour profile of w.
func NewPalette(w io.Writer) *Palette {
	return &Palette{out: termenv.NewOutput(w)}
}

// Verdict renders the status of a view: accepted, rejected, or still running.
func (p *Palette) Verdict(v domain.View) string {
	switch {
	case v.Accepted:
		return p.out.String("ACCEPTED").Foreground(p.out.Color("#22c55e")).Bold().String()
	case v.Complete || v.Rejected:
		return p.out.String("REJECTED").Foreground(p.out.Color("#ef4444")).Bold().String()
	}
	return p.out.String(fmt.Sprintf("running %d/%d", v.Index, v.Length)).Foreground(p.out.Color("#eab308")).String()
}

// Active renders a state set as {0, 2, 5}, highlighting accepting members.
func (p *Palette) Active(n *domain.NFA, set domain.ActiveSet) string {
	parts := make([]string, len(set))
	for i, id := range set {
		s := fmt.Sprint(id)
		if n != nil && n.IsAccept(id) {
			s = p.out.String(s).Foreground(p.out.Color("#22c55e")).Underline().String()
		}
		parts[i] = s
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Input renders the test string with the consumed prefix dimmed and the
// next character highlighted.
func (p *Palette) Input(input string, index int) string {
	runes := []rune(input)
	if index > len(runes) {
		index = len(runes)
	}
	var sb strings.Builder
	sb.WriteString(p.out.String(string(runes[:index])).Faint().String())
	if index < len(runes) {
		sb.WriteString(p.out.String(string(runes[index])).Reverse().String())
		sb.WriteString(string(runes[index+1:]))
	}
	return sb.String()
}
