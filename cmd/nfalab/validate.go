package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/nfalab/internal/cli"
	"github.com/aretw0/nfalab/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate <pattern>...",
	Short: "Check that patterns compile into well-formed automata",
	Long:  `Compiles every pattern, points at the offending position of malformed ones and crawls each automaton for dangling or unreachable states.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := newApp(cmd)
		failed := 0

		for _, pattern := range args {
			c, err := app.Engine.Compile(cmd.Context(), pattern)
			if err == nil {
				err = validator.ValidateAutomaton(c.NFA)
			} else {
				err = cli.DescribeCompileError(pattern, err)
			}
			if err != nil {
				failed++
				fmt.Printf("%q: %v\n", pattern, err)
				continue
			}
			fmt.Printf("%q: valid (%d states)\n", pattern, len(c.NFA.States))
		}

		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
