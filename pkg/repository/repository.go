package repository

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tripweaver/tripweaver/pkg/model"
)

var ErrSessionNotFound = goerr.New("session not found")

// Repository defines the interface for session persistence. Backends store
// whole session records; concurrency control and expiry live in Store.
type Repository interface {
	// GetSession retrieves a session by ID, ErrSessionNotFound if absent
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)

	// PutSession saves a session, overwriting any existing record
	PutSession(ctx context.Context, session *model.Session) error

	// DeleteSession removes a session; deleting an absent session is a no-op
	DeleteSession(ctx context.Context, id model.SessionID) error

	// ListSessions retrieves all stored sessions
	ListSessions(ctx context.Context) ([]*model.Session, error)

	// Close releases backend resources
	Close() error
}
