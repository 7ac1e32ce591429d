package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aretw0/nfalab"
	"github.com/aretw0/nfalab/internal/logging"
	"github.com/aretw0/nfalab/internal/presentation/tui"
)

// Runner drives a Workspace from user commands and draws every position.
type Runner struct {
	// Source provides user actions. If nil, lines are read from os.Stdin.
	Source CommandSource

	// Output receives the rendered positions. Defaults to os.Stdout.
	Output io.Writer

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Interval is the autoplay delay.
	Interval time.Duration

	// Renderer transforms the markdown trace before printing it.
	Renderer ContentRenderer

	// Trace prints the history table when the stepper stops.
	Trace bool

	raw bool
}

// ContentRenderer is a function that transforms markdown before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner reading lines from stdin and writing to stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Output:   os.Stdout,
		Interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Source == nil {
		r.Source = NewLineSource(os.Stdin)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	return r
}

// Help lists the stepper keys.
const Help = "keys: n/→ forward  p/← back  r reset  space play/pause  q quit"

// Run executes the stepper loop until the user quits, the source is
// exhausted or ctx is cancelled. Quitting and end of input are not errors.
// A source implementing io.Closer is closed when Run returns.
func (r *Runner) Run(ctx context.Context, ws *nfalab.Workspace) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if c, ok := r.Source.(io.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				r.Logger.Debug("closing command source", "err", err)
			}
		}()
	}

	palette := tui.NewPalette(r.Output)
	inputs := r.pump(ctx)

	r.println(Help)
	r.draw(palette, ws)

	var (
		ticker *time.Ticker
		tick   <-chan time.Time
	)
	stop := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tick = nil, nil
		}
	}
	defer stop()

	for {
		select {
		case <-ctx.Done():
			r.finish(ws)
			return ctx.Err()

		case in := <-inputs:
			if in.err != nil {
				r.finish(ws)
				if errors.Is(in.err, io.EOF) || errors.Is(in.err, context.Canceled) {
					return nil
				}
				return fmt.Errorf("input error: %w", in.err)
			}
			cmd := in.cmd
			r.Logger.Debug("command", "command", cmd, "index", ws.View().Index)
			switch cmd {
			case CommandQuit:
				r.finish(ws)
				return nil
			case CommandTogglePlay:
				if ticker != nil {
					stop()
					r.println("paused")
					continue
				}
				if ws.View().Complete {
					ws.Reset(ctx)
					r.draw(palette, ws)
				}
				ticker = time.NewTicker(r.Interval)
				tick = ticker.C
				r.println("playing")
			case CommandForward:
				if ws.Forward(ctx) {
					r.draw(palette, ws)
				}
			case CommandBackward:
				if ws.Backward(ctx) {
					r.draw(palette, ws)
				}
			case CommandReset:
				ws.Reset(ctx)
				r.draw(palette, ws)
			}

		case <-tick:
			if !ws.Forward(ctx) {
				stop()
				continue
			}
			r.draw(palette, ws)
			if ws.View().Complete {
				stop()
			}
		}
	}
}

// Play steps forward every Interval until the input is consumed.
func (r *Runner) Play(ctx context.Context, ws *nfalab.Workspace) error {
	palette := tui.NewPalette(r.Output)
	r.draw(palette, ws)

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for !ws.View().Complete {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			ws.Forward(ctx)
			r.draw(palette, ws)
		}
	}
	r.finish(ws)
	return nil
}

type inputResult struct {
	cmd Command
	err error
}

// pump moves commands from the blocking source onto a channel. The error
// that ends the source is delivered after every command read before it.
// A source that ignores ctx keeps the goroutine parked in Next after Run
// returns, until its read completes or Run closes it.
func (r *Runner) pump(ctx context.Context) <-chan inputResult {
	ch := make(chan inputResult, DefaultInputBufferSize)
	go func() {
		for {
			cmd, err := r.Source.Next(ctx)
			select {
			case ch <- inputResult{cmd: cmd, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return ch
}

func (r *Runner) draw(p *tui.Palette, ws *nfalab.Workspace) {
	v := ws.View()
	r.println(fmt.Sprintf("[%d/%d] %s  active %s  %s",
		v.Index, v.Length, p.Input(ws.Input(), v.Index), p.Active(ws.NFA(), v.ActiveIDs), p.Verdict(v)))
}

func (r *Runner) finish(ws *nfalab.Workspace) {
	if !r.Trace {
		return
	}
	out := tui.TraceMarkdown(ws.Simulation())
	if r.Renderer != nil {
		if rendered, err := r.Renderer(out); err == nil {
			out = rendered
		} else {
			r.Logger.Warn("trace render failed", "err", err)
		}
	}
	r.println(strings.TrimRight(out, "\n"))
}

func (r *Runner) println(s string) {
	if r.raw {
		s = strings.ReplaceAll(s, "\n", "\r\n")
		fmt.Fprint(r.Output, s+"\r\n")
		return
	}
	fmt.Fprintln(r.Output, s)
}
