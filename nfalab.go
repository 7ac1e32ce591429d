package nfalab

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/nfalab/internal/compiler"
	"github.com/aretw0/nfalab/internal/logging"
	"github.com/aretw0/nfalab/pkg/domain"
	"github.com/aretw0/nfalab/pkg/simulation"
)

// Engine is the high-level entry point for the nfalab library.
// It wraps the compiler and the simulator and reports every compilation and
// step through lifecycle hooks.
type Engine struct {
	hooks            domain.LifecycleHooks
	logger           *slog.Logger
	maxPatternLength int
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxPatternLength sets the pattern length guard (default 100). Zero disables it.
func WithMaxPatternLength(n int) Option {
	return func(e *Engine) {
		e.maxPatternLength = n
	}
}

// New initializes a new Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{maxPatternLength: compiler.DefaultMaxLength}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	return eng
}

// MaxPatternLength returns the configured length guard.
func (e *Engine) MaxPatternLength() int {
	return e.maxPatternLength
}

// Compile translates and builds pattern. Failures are typed *domain.CompileError values.
func (e *Engine) Compile(ctx context.Context, pattern string) (*domain.Compilation, error) {
	return e.compile(ctx, "", pattern)
}

func (e *Engine) compile(ctx context.Context, sessionID, pattern string) (*domain.Compilation, error) {
	began := time.Now()
	c, err := compiler.Compile(pattern, compiler.WithMaxLength(e.maxPatternLength))
	elapsed := time.Since(began)

	evt := &domain.CompileEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventCompile,
			SessionID: sessionID,
		},
		Pattern:  pattern,
		Duration: elapsed,
		Err:      err,
	}
	if err != nil {
		evt.Kind = domain.KindOf(err)
		e.logger.Debug("compile rejected", "pattern", pattern, "kind", evt.Kind, "error", err)
	} else {
		evt.Postfix = c.Postfix
		evt.States = len(c.NFA.States)
		evt.Transitions = len(c.NFA.Transitions)
		e.logger.Debug("compiled pattern", "pattern", pattern, "postfix", c.Postfix,
			"states", evt.States, "transitions", evt.Transitions, "duration", elapsed)
	}

	if e.hooks.OnCompile != nil {
		e.hooks.OnCompile(ctx, evt)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Simulate compiles pattern and consumes the whole input.
func (e *Engine) Simulate(ctx context.Context, pattern, input string) (*simulation.Simulation, error) {
	c, err := e.Compile(ctx, pattern)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, c, input), nil
}

// Run consumes the whole input on an existing compilation.
func (e *Engine) Run(ctx context.Context, c *domain.Compilation, input string) *simulation.Simulation {
	sim := simulation.New(c.NFA, input)
	sim.RunToEnd()
	e.emitStep(ctx, "", domain.DirectionForward, sim)
	return sim
}

func (e *Engine) emitStep(ctx context.Context, sessionID string, dir domain.Direction, sim *simulation.Simulation) {
	evt := &domain.StepEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventStep,
			SessionID: sessionID,
		},
		Direction: dir,
		Index:     sim.Index(),
		Length:    sim.Len(),
		Active:    sim.Active().Len(),
		Accepted:  sim.Accepted(),
		Complete:  sim.Complete(),
	}
	if dir == domain.DirectionForward && sim.Index() > 0 {
		evt.Symbol = string([]rune(sim.Input())[sim.Index()-1])
	}
	e.logger.Debug("step", "session", sessionID, "direction", dir, "index", evt.Index,
		"active", evt.Active, "accepted", evt.Accepted)

	if e.hooks.OnStep != nil {
		e.hooks.OnStep(ctx, evt)
	}
}

// Compile is the pure entry point: pattern in, automaton out.
func Compile(pattern string) (*domain.NFA, error) {
	c, err := compiler.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return c.NFA, nil
}

// InitialHistory is the epsilon closure of the start state.
func InitialHistory(nfa *domain.NFA) domain.ActiveSet {
	return simulation.Initial(nfa)
}

// Step consumes one character from active. It has no hidden state.
func Step(active domain.ActiveSet, r rune, transitions []domain.Transition) domain.ActiveSet {
	return simulation.Step(active, r, transitions)
}
