package repository

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tripweaver/tripweaver/pkg/model"
)

// MemoryRepository is the default in-process session backend
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[model.SessionID]*model.Session
}

func NewMemory() *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[model.SessionID]*model.Session),
	}
}

func (r *MemoryRepository) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[id]
	if !ok {
		return nil, goerr.Wrap(ErrSessionNotFound, "memory get", goerr.V("session_id", id))
	}
	return sess.Clone(), nil
}

func (r *MemoryRepository) PutSession(ctx context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = session.Clone()
	return nil
}

func (r *MemoryRepository) DeleteSession(ctx context.Context, id model.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

func (r *MemoryRepository) ListSessions(ctx context.Context) ([]*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		out = append(out, sess.Clone())
	}
	return out, nil
}

func (r *MemoryRepository) Close() error {
	return nil
}
