package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aretw0/nfalab"
	"github.com/aretw0/nfalab/internal/presentation/tui"
	"github.com/aretw0/nfalab/pkg/domain"
	"github.com/aretw0/nfalab/pkg/runner"
)

// ErrRejected is returned by a non-interactive simulation whose input is not
// in the language. Commands map it to exit status 1 without a message.
var ErrRejected = errors.New("input rejected")

// SimulateOptions configures RunSimulation.
type SimulateOptions struct {
	Pattern     string
	Input       string
	Interactive bool
	Raw         bool
	Play        bool
	Markdown    bool

	// SessionID stores the final position and resumes from it next time.
	SessionID   string
	Persistence *Persistence

	In  io.Reader
	Out io.Writer
}

// RunSimulation compiles the pattern and runs the input through it, either
// all at once, on autoplay, or under the interactive stepper.
func RunSimulation(ctx context.Context, app *App, opts SimulateOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}

	var sess *domain.Session
	if opts.SessionID != "" {
		if opts.Persistence == nil {
			return fmt.Errorf("session %q needs a session store", opts.SessionID)
		}
		var err error
		sess, err = resumeSession(ctx, opts)
		if err != nil {
			return err
		}
		opts.Pattern, opts.Input = sess.Pattern, sess.Input
	}

	input, err := runner.SanitizeInput(opts.Input)
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	ws, err := app.Engine.NewWorkspace(ctx, opts.SessionID, opts.Pattern, input)
	if err != nil {
		return err
	}
	if sess != nil && sess.Index > 0 {
		ws.Seek(ctx, sess.Index)
	}

	runErr := drive(ctx, app, ws, opts)

	if sess != nil {
		sess.Index = ws.View().Index
		sess.UpdatedAt = time.Now()
		if err := opts.Persistence.Manager.Save(context.WithoutCancel(ctx), sess); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		app.Logger.Info("session saved", "session_id", sess.ID, "index", sess.Index)
	}

	return handleExecutionError(runErr)
}

// resumeSession loads the session, or creates it when a pattern is given.
// A pattern or input that differs from the stored one restarts the session.
func resumeSession(ctx context.Context, opts SimulateOptions) (*domain.Session, error) {
	manager := opts.Persistence.Manager
	if opts.Pattern == "" {
		sess, err := manager.Load(ctx, opts.SessionID)
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, fmt.Errorf("session %q does not exist; give a pattern to create it", opts.SessionID)
		}
		if err != nil {
			return nil, err
		}
		if opts.Input != "" && opts.Input != sess.Input {
			sess.Input, sess.Index = opts.Input, 0
			printSystemMessage(opts.Out, "Session '%s' restarted.", sess.ID)
			return sess, nil
		}
		printSystemMessage(opts.Out, "Resuming session '%s' at step %d.", sess.ID, sess.Index)
		return sess, nil
	}

	sess, created, err := manager.LoadOrCreate(ctx, opts.SessionID, opts.Pattern, opts.Input)
	if err != nil {
		return nil, err
	}
	switch {
	case created:
		printSystemMessage(opts.Out, "Session '%s' created.", sess.ID)
	case opts.Pattern != sess.Pattern || opts.Input != sess.Input:
		sess.Pattern, sess.Input, sess.Index = opts.Pattern, opts.Input, 0
		printSystemMessage(opts.Out, "Session '%s' restarted.", sess.ID)
	default:
		printSystemMessage(opts.Out, "Resuming session '%s' at step %d.", sess.ID, sess.Index)
	}
	return sess, nil
}

func drive(ctx context.Context, app *App, ws *nfalab.Workspace, opts SimulateOptions) error {
	runnerOpts := []runner.Option{
		runner.WithLogger(app.Logger),
		runner.WithOutput(opts.Out),
		runner.WithInterval(app.Config.Playback.Interval),
		runner.WithTrace(opts.Markdown),
		runner.WithRenderer(tui.NewRenderer()),
	}

	switch {
	case opts.Interactive:
		source, restore, err := commandSource(opts)
		if err != nil {
			return err
		}
		defer restore()
		runnerOpts = append(runnerOpts, runner.WithCommandSource(source), runner.WithRawTerminal(opts.Raw))
		return runner.NewRunner(runnerOpts...).Run(ctx, ws)

	case opts.Play:
		return runner.NewRunner(runnerOpts...).Play(ctx, ws)
	}

	ws.Seek(ctx, ws.View().Length)
	printSummary(opts.Out, ws, opts.Markdown)
	if !ws.View().Accepted {
		return ErrRejected
	}
	return nil
}

// commandSource picks raw key input when requested and stdin is a terminal.
func commandSource(opts SimulateOptions) (runner.CommandSource, func(), error) {
	if !opts.Raw {
		return runner.NewLineSource(opts.In), func() {}, nil
	}
	if f, ok := opts.In.(*os.File); ok {
		restore, err := runner.EnableRawMode(f)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to enable raw mode: %w", err)
		}
		return runner.NewKeySource(f), restore, nil
	}
	return runner.NewKeySource(opts.In), func() {}, nil
}

func printSummary(w io.Writer, ws *nfalab.Workspace, markdown bool) {
	p := tui.NewPalette(w)
	c := ws.Compilation()
	v := ws.View()

	fmt.Fprintf(w, "pattern  %s\n", c.Pattern)
	fmt.Fprintf(w, "postfix  %s\n", c.Postfix)
	fmt.Fprintf(w, "input    %q\n", ws.Input())
	fmt.Fprintf(w, "active   %s\n", p.Active(ws.NFA(), v.ActiveIDs))
	fmt.Fprintf(w, "result   %s\n", p.Verdict(v))

	if markdown {
		out := tui.TraceMarkdown(ws.Simulation())
		if rendered, err := tui.NewRenderer()(out); err == nil {
			out = rendered
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.TrimRight(out, "\n"))
	}
}
