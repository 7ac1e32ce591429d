package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/nfalab/internal/cli"
	"github.com/aretw0/nfalab/internal/presentation/graph"
	"github.com/aretw0/nfalab/pkg/runner"
	"github.com/aretw0/nfalab/pkg/simulation"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <pattern>",
	Short: "Export the automaton as a Mermaid or Graphviz diagram",
	Long: `Compiles the pattern and prints a Mermaid flowchart (graph LR) or a DOT digraph.
With --input the states active after --step characters (default: all) are highlighted.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		formatName, _ := cmd.Flags().GetString("format")
		format, err := graph.ParseFormat(formatName)
		if err != nil {
			fail("Error: %v", err)
		}

		app := newApp(cmd)
		c, err := app.Engine.Compile(cmd.Context(), args[0])
		if err != nil {
			exitOnError(cli.DescribeCompileError(args[0], err))
		}

		var overlay *graph.Overlay
		if cmd.Flags().Changed("input") {
			input, _ := cmd.Flags().GetString("input")
			input, err = runner.SanitizeInput(input)
			if err != nil {
				fail("Error: invalid input: %v", err)
			}
			sim := simulation.New(c.NFA, input)
			if cmd.Flags().Changed("step") {
				step, _ := cmd.Flags().GetInt("step")
				sim.Seek(step)
			} else {
				sim.RunToEnd()
			}
			view := sim.View()
			overlay = &graph.Overlay{Active: view.ActiveIDs, Fired: view.Fired}
		}

		fmt.Print(graph.Render(format, c.NFA, overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("format", "mermaid", "Diagram format: mermaid or dot")
	graphCmd.Flags().String("input", "", "Test string whose active states are highlighted")
	graphCmd.Flags().Int("step", 0, "Number of input characters consumed before highlighting")
}
