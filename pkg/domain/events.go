package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventCompile EventType = "compile"
	EventStep    EventType = "step"
)

// Direction tells which way a simulation moved.
type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
	DirectionReset    Direction = "reset"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// CompileEvent reports the outcome of one compilation.
type CompileEvent struct {
	EventBase
	Pattern     string        `json:"pattern"`
	Postfix     string        `json:"postfix,omitempty"`
	States      int           `json:"states"`
	Transitions int           `json:"transitions"`
	Duration    time.Duration `json:"duration"`
	Kind        ErrorKind     `json:"kind,omitempty"`
	Err         error         `json:"-"`
}

// StepEvent reports a movement through the simulation history.
type StepEvent struct {
	EventBase
	Direction Direction `json:"direction"`
	Index     int       `json:"index"`
	Length    int       `json:"length"`
	Symbol    string    `json:"symbol,omitempty"`
	Active    int       `json:"active"`
	Accepted  bool      `json:"accepted"`
	Complete  bool      `json:"complete"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnCompile func(context.Context, *CompileEvent)
	OnStep    func(context.Context, *StepEvent)
}

// ChainHooks fans each event out to every non-nil hook in order.
func ChainHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnCompile: func(ctx context.Context, e *CompileEvent) {
			for _, h := range hooks {
				if h.OnCompile != nil {
					h.OnCompile(ctx, e)
				}
			}
		},
		OnStep: func(ctx context.Context, e *StepEvent) {
			for _, h := range hooks {
				if h.OnStep != nil {
					h.OnStep(ctx, e)
				}
			}
		},
	}
}
