package domain

import "time"

// Session is the persisted part of an interactive simulation.
// The history itself is not stored: it is rebuilt by replaying Index
// forward steps, which is deterministic for a given Pattern and Input.
type Session struct {
	ID        string    `json:"id"`
	Pattern   string    `json:"pattern"`
	Input     string    `json:"input"`
	Index     int       `json:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates a session positioned at the initial history entry.
func NewSession(id, pattern, input string) *Session {
	return &Session{
		ID:        id,
		Pattern:   pattern,
		Input:     input,
		Index:     0,
		UpdatedAt: time.Now().UTC(),
	}
}

// Snapshot returns a copy that can be mutated independently.
func (s *Session) Snapshot() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

// View is the render-friendly projection of (NFA, History, index).
// It is computed on demand and never stored.
type View struct {
	Index      int       `json:"index"`
	Length     int       `json:"length"`
	ActiveIDs  ActiveSet `json:"active_ids"`
	Accepted   bool      `json:"accepted"`
	Complete   bool      `json:"complete"`
	Rejected   bool      `json:"rejected"`
	NextSymbol *string   `json:"next_symbol,omitempty"`
	Fired      []int     `json:"fired_transitions"`
}
