package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/nfalab/pkg/domain"
)

// compileOutput is the structured form of a compilation.
type compileOutput struct {
	domain.Compilation `yaml:",inline"`
	Stats              domain.Stats `json:"stats" yaml:"stats"`
}

// WriteCompilation prints c as text, json or yaml.
func WriteCompilation(w io.Writer, c *domain.Compilation, format string) error {
	switch format {
	case "", "text":
		writeCompilationText(w, c)
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(compileOutput{Compilation: *c, Stats: c.NFA.Stats()})
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(compileOutput{Compilation: *c, Stats: c.NFA.Stats()}); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q (expected text, json or yaml)", format)
}

func writeCompilationText(w io.Writer, c *domain.Compilation) {
	n := c.NFA
	stats := n.Stats()

	fmt.Fprintf(w, "pattern      %s\n", c.Pattern)
	fmt.Fprintf(w, "infix        %s\n", c.Infix)
	fmt.Fprintf(w, "postfix      %s\n", c.Postfix)
	fmt.Fprintf(w, "states       %d (start %d, accept %d)\n", stats.States, n.Start, n.End)
	fmt.Fprintf(w, "transitions  %d (%d ε)\n", stats.Transitions, stats.EpsilonTransitions)
	fmt.Fprintf(w, "alphabet     %s\n", strings.Join(stats.Alphabet, " "))

	if len(n.Transitions) > 0 {
		fmt.Fprintln(w)
	}
	for _, t := range n.Transitions {
		fmt.Fprintf(w, "  %d -%s-> %d\n", t.From, t.Symbol, t.To)
	}
}

// DescribeCompileError adds the pattern and a caret under the offending
// position to a compile error. Other errors are returned unchanged.
func DescribeCompileError(pattern string, err error) error {
	var ce *domain.CompileError
	if !errors.As(err, &ce) || ce.Pos < 0 {
		return err
	}
	return fmt.Errorf("%w\n  %s\n  %s^", err, pattern, strings.Repeat(" ", ce.Pos))
}
