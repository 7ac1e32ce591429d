package nfalab

import (
	"context"

	"github.com/aretw0/nfalab/pkg/domain"
	"github.com/aretw0/nfalab/pkg/simulation"
)

// Workspace holds the pattern and test string an interactive user is editing.
// A failed recompilation leaves the previous automaton and history in place.
// A Workspace is not safe for concurrent use.
type Workspace struct {
	engine      *Engine
	id          string
	compilation *domain.Compilation
	sim         *simulation.Simulation
}

// NewWorkspace compiles pattern and seeds a simulation over input.
// The id is attached to every emitted event.
func (e *Engine) NewWorkspace(ctx context.Context, id, pattern, input string) (*Workspace, error) {
	c, err := e.compile(ctx, id, pattern)
	if err != nil {
		return nil, err
	}
	return &Workspace{
		engine:      e,
		id:          id,
		compilation: c,
		sim:         simulation.New(c.NFA, input),
	}, nil
}

// ID returns the workspace identifier.
func (w *Workspace) ID() string { return w.id }

// Pattern returns the last successfully compiled pattern.
func (w *Workspace) Pattern() string { return w.compilation.Pattern }

// Input returns the current test string.
func (w *Workspace) Input() string { return w.sim.Input() }

// Compilation returns the current compilation result.
func (w *Workspace) Compilation() *domain.Compilation { return w.compilation }

// NFA returns the current automaton.
func (w *Workspace) NFA() *domain.NFA { return w.compilation.NFA }

// Simulation exposes the underlying history for read access.
func (w *Workspace) Simulation() *simulation.Simulation { return w.sim }

// View projects the current cursor position.
func (w *Workspace) View() domain.View { return w.sim.View() }

// SetPattern recompiles. On success the history restarts over the same input;
// on failure nothing changes and the compile error is returned.
func (w *Workspace) SetPattern(ctx context.Context, pattern string) error {
	c, err := w.engine.compile(ctx, w.id, pattern)
	if err != nil {
		return err
	}
	w.compilation = c
	w.sim = simulation.New(c.NFA, w.sim.Input())
	return nil
}

// SetInput replaces the test string and truncates the history.
func (w *Workspace) SetInput(ctx context.Context, input string) {
	w.sim = simulation.New(w.compilation.NFA, input)
	w.engine.emitStep(ctx, w.id, domain.DirectionReset, w.sim)
}

// Forward consumes one character. It reports false at the end of the input.
func (w *Workspace) Forward(ctx context.Context) bool {
	if !w.sim.Forward() {
		return false
	}
	w.engine.emitStep(ctx, w.id, domain.DirectionForward, w.sim)
	return true
}

// Backward moves back one character. It reports false at index 0.
func (w *Workspace) Backward(ctx context.Context) bool {
	if !w.sim.Backward() {
		return false
	}
	w.engine.emitStep(ctx, w.id, domain.DirectionBackward, w.sim)
	return true
}

// Reset rewinds to the initial entry.
func (w *Workspace) Reset(ctx context.Context) {
	w.sim.Reset()
	w.engine.emitStep(ctx, w.id, domain.DirectionReset, w.sim)
}

// Seek moves to index i (clamped) and returns the resulting index.
func (w *Workspace) Seek(ctx context.Context, i int) int {
	before := w.sim.Index()
	got := w.sim.Seek(i)
	switch {
	case got > before:
		w.engine.emitStep(ctx, w.id, domain.DirectionForward, w.sim)
	case got < before:
		w.engine.emitStep(ctx, w.id, domain.DirectionBackward, w.sim)
	}
	return got
}
