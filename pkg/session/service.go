package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/nfalab"
	"github.com/aretw0/nfalab/internal/logging"
	"github.com/aretw0/nfalab/pkg/domain"
)

// Listener receives the diff produced by every session mutation.
type Listener func(ctx context.Context, diff *domain.StepDiff)

// Result is the state of a session after an operation.
type Result struct {
	Session     *domain.Session     `json:"session"`
	Compilation *domain.Compilation `json:"compilation"`
	View        domain.View         `json:"view"`
	Diff        *domain.StepDiff    `json:"diff,omitempty"`
}

// Service runs simulations on persisted sessions.
// Each call loads the session, replays its history up to the stored index,
// applies one operation and saves the new cursor, all under the session lock.
type Service struct {
	engine    *nfalab.Engine
	manager   *Manager
	logger    *slog.Logger
	listeners []Listener
	newID     func() string
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithListener registers a callback for session diffs (e.g. an SSE broadcaster).
func WithListener(l Listener) ServiceOption {
	return func(s *Service) {
		s.listeners = append(s.listeners, l)
	}
}

// WithServiceLogger sets the service logger.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithIDGenerator overrides how IDs are minted for sessions created without one.
func WithIDGenerator(fn func() string) ServiceOption {
	return func(s *Service) {
		s.newID = fn
	}
}

// NewService wires an engine to a session manager.
func NewService(engine *nfalab.Engine, manager *Manager, opts ...ServiceOption) *Service {
	s := &Service{
		engine:  engine,
		manager: manager,
		logger:  logging.NewNop(),
		newID: func() string {
			return fmt.Sprintf("s-%x", time.Now().UnixNano())
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Manager returns the underlying session manager.
func (s *Service) Manager() *Manager {
	return s.manager
}

// AddListener registers a listener after construction.
func (s *Service) AddListener(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Create compiles pattern and stores a new session at index 0.
// An empty id gets a generated one. Creating over an existing ID replaces it.
func (s *Service) Create(ctx context.Context, id, pattern, input string) (*Result, error) {
	if id == "" {
		id = s.newID()
	}

	var res *Result
	err := s.manager.WithLock(ctx, id, func(ctx context.Context) error {
		ws, err := s.engine.NewWorkspace(ctx, id, pattern, input)
		if err != nil {
			return err
		}
		sess := domain.NewSession(id, pattern, input)
		if err := s.manager.Store().Save(ctx, sess); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		view := ws.View()
		res = &Result{
			Session:     sess,
			Compilation: ws.Compilation(),
			View:        view,
			Diff:        domain.Diff(nil, nil, sess, &view),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("session created", "session_id", id, "pattern", pattern)
	s.notify(ctx, res.Diff)
	return res, nil
}

// Open rebuilds a stored session without changing it.
func (s *Service) Open(ctx context.Context, id string) (*Result, error) {
	var res *Result
	err := s.manager.WithLock(ctx, id, func(ctx context.Context) error {
		sess, err := s.manager.Store().Load(ctx, id)
		if err != nil {
			return err
		}
		ws, err := s.restore(ctx, sess)
		if err != nil {
			return err
		}
		res = &Result{Session: sess, Compilation: ws.Compilation(), View: ws.View()}
		return nil
	})
	return res, err
}

// Forward consumes one character of the session input.
func (s *Service) Forward(ctx context.Context, id string) (*Result, error) {
	return s.mutate(ctx, id, func(ctx context.Context, ws *nfalab.Workspace) error {
		ws.Forward(ctx)
		return nil
	})
}

// Backward moves the session cursor back one character.
func (s *Service) Backward(ctx context.Context, id string) (*Result, error) {
	return s.mutate(ctx, id, func(ctx context.Context, ws *nfalab.Workspace) error {
		ws.Backward(ctx)
		return nil
	})
}

// Reset rewinds the session to its initial entry.
func (s *Service) Reset(ctx context.Context, id string) (*Result, error) {
	return s.mutate(ctx, id, func(ctx context.Context, ws *nfalab.Workspace) error {
		ws.Reset(ctx)
		return nil
	})
}

// Seek moves the session cursor to index i (clamped).
func (s *Service) Seek(ctx context.Context, id string, i int) (*Result, error) {
	return s.mutate(ctx, id, func(ctx context.Context, ws *nfalab.Workspace) error {
		ws.Seek(ctx, i)
		return nil
	})
}

// SetPattern recompiles the session. A compile error leaves it untouched.
func (s *Service) SetPattern(ctx context.Context, id, pattern string) (*Result, error) {
	return s.mutate(ctx, id, func(ctx context.Context, ws *nfalab.Workspace) error {
		return ws.SetPattern(ctx, pattern)
	})
}

// SetInput replaces the test string and rewinds the session.
func (s *Service) SetInput(ctx context.Context, id, input string) (*Result, error) {
	return s.mutate(ctx, id, func(ctx context.Context, ws *nfalab.Workspace) error {
		ws.SetInput(ctx, input)
		return nil
	})
}

// Delete removes a session.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.manager.Delete(ctx, id)
}

// List returns the stored session IDs.
func (s *Service) List(ctx context.Context) ([]string, error) {
	return s.manager.List(ctx)
}

// restore recompiles the stored pattern and replays the stored index.
func (s *Service) restore(ctx context.Context, sess *domain.Session) (*nfalab.Workspace, error) {
	ws, err := s.engine.NewWorkspace(ctx, sess.ID, sess.Pattern, sess.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session %s: %w", sess.ID, err)
	}
	ws.Simulation().Seek(sess.Index)
	return ws, nil
}

func (s *Service) mutate(ctx context.Context, id string, fn func(context.Context, *nfalab.Workspace) error) (*Result, error) {
	var res *Result
	err := s.manager.WithLock(ctx, id, func(ctx context.Context) error {
		sess, err := s.manager.Store().Load(ctx, id)
		if err != nil {
			return err
		}
		ws, err := s.restore(ctx, sess)
		if err != nil {
			return err
		}

		oldSess := sess.Snapshot()
		oldView := ws.View()

		if err := fn(ctx, ws); err != nil {
			return err
		}

		sess.Pattern = ws.Pattern()
		sess.Input = ws.Input()
		sess.Index = ws.Simulation().Index()
		sess.UpdatedAt = time.Now().UTC()

		newView := ws.View()
		diff := domain.Diff(oldSess, &oldView, sess, &newView)
		if diff != nil {
			if err := s.manager.Store().Save(ctx, sess); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}
		}

		res = &Result{Session: sess, Compilation: ws.Compilation(), View: newView, Diff: diff}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, res.Diff)
	return res, nil
}

func (s *Service) notify(ctx context.Context, diff *domain.StepDiff) {
	if diff == nil {
		return
	}
	for _, l := range s.listeners {
		l(ctx, diff)
	}
}
