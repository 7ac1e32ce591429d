package runner

import (
	"io"
	"log/slog"
	"time"
)

// DefaultInputBufferSize is the number of commands buffered ahead of the stepper.
const DefaultInputBufferSize = 64

// DefaultInterval is the autoplay delay between two forward steps.
const DefaultInterval = 800 * time.Millisecond

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithCommandSource configures where user actions come from.
func WithCommandSource(source CommandSource) Option {
	return func(r *Runner) {
		r.Source = source
	}
}

// WithOutput configures the writer the stepper draws on.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.Output = w
	}
}

// WithInterval sets the autoplay delay. Non-positive values keep the default.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.Interval = d
		}
	}
}

// WithRenderer configures the markdown renderer used for the final trace.
func WithRenderer(renderer ContentRenderer) Option {
	return func(r *Runner) {
		r.Renderer = renderer
	}
}

// WithTrace prints the step trace table when the stepper stops.
func WithTrace(enabled bool) Option {
	return func(r *Runner) {
		r.Trace = enabled
	}
}

// WithRawTerminal terminates lines with CRLF, as a raw mode terminal needs.
func WithRawTerminal(raw bool) Option {
	return func(r *Runner) {
		r.raw = raw
	}
}
