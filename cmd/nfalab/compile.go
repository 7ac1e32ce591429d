package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/nfalab/internal/cli"
)

var compileCmd = &cobra.Command{
	Use:   "compile <pattern>",
	Short: "Compile a pattern and print its postfix form and automaton",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		app := newApp(cmd)

		c, err := app.Engine.Compile(cmd.Context(), args[0])
		if err != nil {
			exitOnError(cli.DescribeCompileError(args[0], err))
		}
		exitOnError(cli.WriteCompilation(os.Stdout, c, format))
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("format", "f", "text", "Output format: text, json or yaml")
}
