package ports

import (
	"context"

	"github.com/blogdesk/admin-api/internal/core/domain"
)

// SessionStore keeps the workflow state of each browser session.
type SessionStore interface {
	// Load returns the zero state for unknown sessions.
	Load(ctx context.Context, sessionID string) (domain.SessionState, error)
	Save(ctx context.Context, sessionID string, state domain.SessionState) error
	Delete(ctx context.Context, sessionID string) error
}
