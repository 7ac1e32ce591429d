package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/nfalab/internal/cli"
	"github.com/aretw0/nfalab/internal/presentation/tui"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [pattern] [input]",
	Short: "Run a test string through the automaton of a pattern",
	Long: `Consumes the input one character at a time. Without flags the whole input is consumed
and the verdict printed; the exit status is 1 when the input is rejected.

--interactive opens the stepper: n or → forward, p or ← back, r reset, space play/pause, q quit.
--raw reads single key presses instead of lines. --play steps forward on a timer.
--session persists the position so a later run resumes it; the pattern may then be omitted.`,
	Args: cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		interactive, _ := cmd.Flags().GetBool("interactive")
		raw, _ := cmd.Flags().GetBool("raw")
		play, _ := cmd.Flags().GetBool("play")
		markdown, _ := cmd.Flags().GetBool("markdown")
		sessionID, _ := cmd.Flags().GetString("session")

		opts := cli.SimulateOptions{
			Interactive: interactive || raw,
			Raw:         raw,
			Play:        play,
			Markdown:    markdown,
			SessionID:   sessionID,
			In:          os.Stdin,
			Out:         os.Stdout,
		}
		if len(args) > 0 {
			opts.Pattern = args[0]
		}
		if len(args) > 1 {
			opts.Input = args[1]
		}
		if opts.Pattern == "" && sessionID == "" {
			fail("Error: a pattern is required unless --session names an existing session")
		}

		app := newApp(cmd)
		if sessionID != "" {
			p := openPersistence(app)
			defer p.Close()
			opts.Persistence = p
		}
		if opts.Interactive || opts.Play {
			tui.PrintBanner(os.Stdout)
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		err := cli.RunSimulation(sigCtx, app, opts)
		if err != nil && opts.Pattern != "" {
			err = cli.DescribeCompileError(opts.Pattern, err)
		}
		if sig := sigCtx.Signal(); sig != nil {
			app.Logger.Info("simulation interrupted", "signal", sig)
		}
		exitOnError(err)
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().BoolP("interactive", "i", false, "Step through the simulation with line commands")
	simulateCmd.Flags().Bool("raw", false, "Step with single key presses (implies --interactive)")
	simulateCmd.Flags().Bool("play", false, "Autoplay at the configured playback interval")
	simulateCmd.Flags().Bool("markdown", false, "Print the step trace as a rendered markdown table")
	simulateCmd.Flags().String("session", "", "Persist and resume the position under this session ID")
}
