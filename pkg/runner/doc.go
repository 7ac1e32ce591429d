/*
Package runner implements the interactive stepper for nfalab.

It acts as the bridge between a Workspace and a terminal. Commands come from a
CommandSource: a LineSource reads one command per line, a KeySource decodes
raw key presses (arrows included) once EnableRawMode has switched the terminal.
Autoplay advances the simulation on a ticker until the input is consumed.

The package also guards user supplied test strings (SanitizeInput) before any
adapter hands them to the simulator.

# Usage

	r := runner.NewRunner(
		runner.WithCommandSource(runner.NewLineSource(os.Stdin)),
		runner.WithInterval(500*time.Millisecond),
		runner.WithTrace(true),
	)

	if err := r.Run(ctx, workspace); err != nil {
		log.Fatal(err)
	}
*/
package runner
