package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/nfalab/internal/cli"
	"github.com/aretw0/nfalab/internal/codegen"
)

var exportCmd = &cobra.Command{
	Use:   "export <pattern>",
	Short: "Export the compiled automaton as source code",
	Long:  `Writes a standalone, table-driven Go matcher for the pattern (--go).`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		goOut, _ := cmd.Flags().GetBool("go")
		if !goOut {
			fail("Error: choose an export target (--go)")
		}
		pkg, _ := cmd.Flags().GetString("package")
		fn, _ := cmd.Flags().GetString("func")
		outPath, _ := cmd.Flags().GetString("output")

		app := newApp(cmd)
		c, err := app.Engine.Compile(cmd.Context(), args[0])
		if err != nil {
			exitOnError(cli.DescribeCompileError(args[0], err))
		}

		var w io.Writer = os.Stdout
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				fail("Error creating %s: %v", outPath, err)
			}
			defer f.Close()
			w = f
		}
		exitOnError(codegen.WriteGo(w, c, codegen.Options{Package: pkg, Func: fn}))
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().Bool("go", false, "Emit a Go matcher")
	exportCmd.Flags().String("package", codegen.DefaultPackage, "Package name of the generated file")
	exportCmd.Flags().String("func", codegen.DefaultFunc, "Name of the generated match function")
	exportCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
}
