package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tripweaver/tripweaver/pkg/model"
	"github.com/tripweaver/tripweaver/pkg/utils/logging"
)

var ErrUnknownField = goerr.New("unknown session field")

// Field names a session snapshot slot for Update
type Field string

const (
	FieldPreferences     Field = "preferences"
	FieldRecommendations Field = "recommendations"
	FieldItinerary       Field = "itinerary"
)

// DefaultSessionTimeout matches the original 30-minute idle window
const DefaultSessionTimeout = 30 * time.Minute

// Store is the session store facade over a Repository backend. It owns the
// expiry policy and serializes access per session id; operations on
// different ids proceed independently.
type Store struct {
	repo    Repository
	timeout time.Duration

	mu    sync.Mutex
	locks map[model.SessionID]*sync.Mutex

	now func() time.Time
}

type StoreOption func(*Store)

// WithTimeout overrides the idle timeout after which a session is purged
func WithTimeout(d time.Duration) StoreOption {
	return func(s *Store) {
		s.timeout = d
	}
}

// WithClock overrides the time source (tests)
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(repo Repository, opts ...StoreOption) *Store {
	s := &Store{
		repo:    repo,
		timeout: DefaultSessionTimeout,
		locks:   make(map[model.SessionID]*sync.Mutex),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) lockFor(id model.SessionID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// idleSweeper is an optional backend capability: purge all sessions idle
// since before cutoff in one call instead of a list-and-delete pass.
type idleSweeper interface {
	DeleteIdleBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// sweep lazily purges sessions idle beyond the timeout. Called on every
// store access, before the per-id operation.
func (s *Store) sweep(ctx context.Context) {
	if sweeper, ok := s.repo.(idleSweeper); ok {
		n, err := sweeper.DeleteIdleBefore(ctx, s.now().Add(-s.timeout))
		if err != nil {
			logging.From(ctx).Warn("session sweep failed", "error", err)
			return
		}
		if n > 0 {
			logging.From(ctx).Info("purged stale sessions", "count", n)
		}
		return
	}

	sessions, err := s.repo.ListSessions(ctx)
	if err != nil {
		logging.From(ctx).Warn("session sweep failed", "error", err)
		return
	}

	now := s.now()
	for _, sess := range sessions {
		if sess.IdleSince(now, s.timeout) {
			if err := s.repo.DeleteSession(ctx, sess.ID); err != nil {
				logging.From(ctx).Warn("failed to purge stale session",
					"session_id", sess.ID, "error", err)
				continue
			}
			logging.From(ctx).Info("purged stale session", "session_id", sess.ID)
		}
	}
}

// Get returns the session for id, creating a fresh record if the id is
// unseen or its previous record expired. Every call refreshes the
// last-active timestamp. The returned session is a copy; callers must not
// retain it across calls.
func (s *Store) Get(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.sweep(ctx)

	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	sess, err := s.repo.GetSession(ctx, id)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		sess = model.NewSession(id)
	case err != nil:
		return nil, err
	}

	sess.LastActive = s.now()
	if err := s.repo.PutSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess.Clone(), nil
}

// Update sets one snapshot field of the session, creating the session if
// needed
func (s *Store) Update(ctx context.Context, id model.SessionID, field Field, value any) error {
	s.sweep(ctx)

	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	sess, err := s.repo.GetSession(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		sess = model.NewSession(id)
	} else if err != nil {
		return err
	}

	switch field {
	case FieldPreferences:
		prefs, ok := value.(*model.Preferences)
		if !ok {
			return goerr.Wrap(ErrUnknownField, "preferences value has wrong type")
		}
		sess.Preferences = prefs
	case FieldRecommendations:
		recs, ok := value.(*model.Recommendations)
		if !ok {
			return goerr.Wrap(ErrUnknownField, "recommendations value has wrong type")
		}
		sess.Recommendations = recs
	case FieldItinerary:
		it, ok := value.(*model.Itinerary)
		if !ok {
			return goerr.Wrap(ErrUnknownField, "itinerary value has wrong type")
		}
		sess.Itinerary = it
	default:
		return goerr.Wrap(ErrUnknownField, "update", goerr.V("field", field))
	}

	sess.LastActive = s.now()
	return s.repo.PutSession(ctx, sess)
}

// AppendChat adds one turn to the session's conversation history
func (s *Store) AppendChat(ctx context.Context, id model.SessionID, role model.ChatRole, text string) error {
	s.sweep(ctx)

	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	sess, err := s.repo.GetSession(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		sess = model.NewSession(id)
	} else if err != nil {
		return err
	}

	sess.ChatHistory = append(sess.ChatHistory, model.ChatTurn{Role: role, Text: text})
	sess.LastActive = s.now()
	return s.repo.PutSession(ctx, sess)
}

// Clear removes the session entirely
func (s *Store) Clear(ctx context.Context, id model.SessionID) error {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	return s.repo.DeleteSession(ctx, id)
}

// List returns all live sessions
func (s *Store) List(ctx context.Context) ([]*model.Session, error) {
	s.sweep(ctx)
	return s.repo.ListSessions(ctx)
}
