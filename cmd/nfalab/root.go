package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/nfalab/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "nfalab",
	Short: "nfalab compiles regular expressions into Thompson NFAs and steps through them",
	Long: `nfalab turns a regular expression into a postfix token stream and a Thompson NFA,
then simulates the automaton one character at a time with full undo.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Project directory (config file and file session store)")
	rootCmd.PersistentFlags().String("config", "", "Path to the config file (default <dir>/nfalab.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
}

// newApp builds the application from the global flags.
func newApp(cmd *cobra.Command) *cli.App {
	dir, _ := cmd.Flags().GetString("dir")
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	app, err := cli.NewApp(cli.Options{ConfigPath: configPath, Debug: debug, Dir: dir})
	if err != nil {
		fail("Error initializing nfalab: %v", err)
	}
	return app
}

// openPersistence opens the configured session store or exits.
func openPersistence(app *cli.App) *cli.Persistence {
	p, err := cli.OpenPersistence(app)
	if err != nil {
		fail("Error opening session store: %v", err)
	}
	return p
}

// fail prints to stderr and exits with status 1.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// exitOnError maps rejected inputs to a silent exit status 1.
func exitOnError(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, cli.ErrRejected) {
		os.Exit(1)
	}
	fail("Error: %v", err)
}
