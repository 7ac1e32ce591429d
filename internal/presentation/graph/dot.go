package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/nfalab/pkg/domain"
)

// GenerateDOT produces a Graphviz digraph of the automaton.
// Accepting states are drawn as double circles and epsilon edges dashed.
func GenerateDOT(n *domain.NFA, overlay *Overlay) string {
	active := map[int]bool{}
	fired := map[int]bool{}
	if overlay != nil {
		for _, id := range overlay.Active {
			active[id] = true
		}
		for _, i := range overlay.Fired {
			fired[i] = true
		}
	}

	var sb strings.Builder
	sb.WriteString("digraph nfa {\n")
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [shape=circle];\n")
	fmt.Fprintf(&sb, "    start [shape=point];\n    start -> %s;\n", nodeID(n.Start))

	for _, s := range n.States {
		attrs := []string{fmt.Sprintf("label=%q", stateLabel(n, s))}
		if s.IsAccept {
			attrs = append(attrs, "shape=doublecircle")
		}
		if active[s.ID] {
			attrs = append(attrs, "style=filled", `fillcolor="#ffeb3b"`)
		}
		fmt.Fprintf(&sb, "    %s [%s];\n", nodeID(s.ID), strings.Join(attrs, ", "))
	}

	for i, t := range n.Transitions {
		attrs := []string{fmt.Sprintf("label=%s", quoteDOT(t.Symbol.String()))}
		if t.IsEpsilon() {
			attrs = append(attrs, "style=dashed")
		}
		if fired[i] {
			attrs = append(attrs, `color="#fbc02d"`, "penwidth=2")
		}
		fmt.Fprintf(&sb, "    %s -> %s [%s];\n", nodeID(t.From), nodeID(t.To), strings.Join(attrs, ", "))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func quoteDOT(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
