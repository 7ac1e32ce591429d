package ports

import (
	"context"

	"github.com/aretw0/nfalab/pkg/domain"
)

// SessionStore persists simulation sessions.
// Only the cursor is stored; history is rebuilt by replaying it.
type SessionStore interface {
	// Save persists the session under its ID, replacing any previous value.
	Save(ctx context.Context, session *domain.Session) error

	// Load retrieves a session by ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
