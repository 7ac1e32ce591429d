package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/nfalab/pkg/domain"
)

// Overlay contains dynamic simulation data to visualize on the graph.
type Overlay struct {
	Active domain.ActiveSet
	Fired  []int
}

// Format selects the diagram language.
type Format string

const (
	FormatMermaid Format = "mermaid"
	FormatDOT     Format = "dot"
)

// ParseFormat accepts "mermaid" (the default for "") and "dot".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mermaid":
		return FormatMermaid, nil
	case "dot", "graphviz":
		return FormatDOT, nil
	}
	return "", fmt.Errorf("unknown graph format %q (expected mermaid or dot)", s)
}

// Render dispatches to the renderer for format.
func Render(format Format, n *domain.NFA, overlay *Overlay) string {
	if format == FormatDOT {
		return GenerateDOT(n, overlay)
	}
	return GenerateMermaid(n, overlay)
}

// GenerateMermaid produces a left-to-right Mermaid flowchart of the automaton.
// Shapes:
// - Start: ((S:id))
// - Accept: (((F:id)))
// - Other: ((id))
// Epsilon edges are dashed. Edges are emitted in transition order so
// linkStyle indices match transition indices.
func GenerateMermaid(n *domain.NFA, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, s := range n.States {
		id := nodeID(s.ID)
		switch {
		case s.IsAccept:
			fmt.Fprintf(&sb, "    %s(((\"%s\")))\n", id, stateLabel(n, s))
		default:
			fmt.Fprintf(&sb, "    %s((\"%s\"))\n", id, stateLabel(n, s))
		}
	}

	for _, t := range n.Transitions {
		if t.IsEpsilon() {
			fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", nodeID(t.From), domain.EpsilonLabel, nodeID(t.To))
			continue
		}
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", nodeID(t.From), escapeMermaid(t.Symbol.String()), nodeID(t.To))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef active fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, id := range overlay.Active {
			if _, ok := n.State(id); ok {
				fmt.Fprintf(&sb, "    class %s active;\n", nodeID(id))
			}
		}
		if len(overlay.Fired) > 0 {
			idx := make([]string, 0, len(overlay.Fired))
			for _, i := range overlay.Fired {
				if i >= 0 && i < len(n.Transitions) {
					idx = append(idx, fmt.Sprint(i))
				}
			}
			if len(idx) > 0 {
				fmt.Fprintf(&sb, "    linkStyle %s stroke:#fbc02d,stroke-width:3px;\n", strings.Join(idx, ","))
			}
		}
	}

	return sb.String()
}

func nodeID(id int) string {
	return fmt.Sprintf("s%d", id)
}

func stateLabel(n *domain.NFA, s domain.State) string {
	switch {
	case s.ID == n.Start && s.IsAccept:
		return fmt.Sprintf("S/F:%d", s.ID)
	case s.ID == n.Start:
		return fmt.Sprintf("S:%d", s.ID)
	case s.IsAccept:
		return fmt.Sprintf("F:%d", s.ID)
	}
	return fmt.Sprint(s.ID)
}

// escapeMermaid replaces characters that terminate a quoted Mermaid label.
func escapeMermaid(s string) string {
	switch s {
	case `"`:
		return "#quot;"
	case "#":
		return "#35;"
	}
	return s
}
