package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/tripweaver/tripweaver/pkg/model"
	"github.com/tripweaver/tripweaver/pkg/repository"
)

func newTestSQLite(t *testing.T) *repository.SQLiteRepository {
	t.Helper()
	repo, err := repository.NewSQLite(filepath.Join(t.TempDir(), "sessions.db"))
	gt.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRoundTrip(t *testing.T) {
	repo := newTestSQLite(t)
	ctx := context.Background()

	sess := model.NewSession("s1")
	sess.Preferences = &model.Preferences{Destination: model.Ptr("Paris")}
	sess.ChatHistory = []model.ChatTurn{{Role: model.RoleUser, Text: "hi"}}
	gt.NoError(t, repo.PutSession(ctx, sess))

	got, err := repo.GetSession(ctx, "s1")
	gt.NoError(t, err)
	gt.Equal(t, got.ID, model.SessionID("s1"))
	gt.Equal(t, *got.Preferences.Destination, "Paris")
	gt.A(t, got.ChatHistory).Length(1)
}

func TestSQLiteNotFound(t *testing.T) {
	repo := newTestSQLite(t)

	_, err := repo.GetSession(context.Background(), "ghost")
	gt.True(t, errors.Is(err, repository.ErrSessionNotFound))
}

func TestSQLiteUpsert(t *testing.T) {
	repo := newTestSQLite(t)
	ctx := context.Background()

	sess := model.NewSession("s1")
	gt.NoError(t, repo.PutSession(ctx, sess))

	sess.ChatHistory = append(sess.ChatHistory, model.ChatTurn{
		Role: model.RoleUser, Text: "again",
	})
	gt.NoError(t, repo.PutSession(ctx, sess))

	got, err := repo.GetSession(ctx, "s1")
	gt.NoError(t, err)
	gt.A(t, got.ChatHistory).Length(1)

	all, err := repo.ListSessions(ctx)
	gt.NoError(t, err)
	gt.A(t, all).Length(1)
}

func TestSQLiteDeleteIdleBefore(t *testing.T) {
	repo := newTestSQLite(t)
	ctx := context.Background()

	stale := model.NewSession("stale")
	stale.LastActive = time.Now().Add(-2 * time.Hour)
	gt.NoError(t, repo.PutSession(ctx, stale))

	live := model.NewSession("live")
	gt.NoError(t, repo.PutSession(ctx, live))

	n, err := repo.DeleteIdleBefore(ctx, time.Now().Add(-time.Hour))
	gt.NoError(t, err)
	gt.Equal(t, n, int64(1))

	_, err = repo.GetSession(ctx, "stale")
	gt.True(t, errors.Is(err, repository.ErrSessionNotFound))

	_, err = repo.GetSession(ctx, "live")
	gt.NoError(t, err)
}

func TestSQLiteStoreSweepsIdle(t *testing.T) {
	repo := newTestSQLite(t)
	current := time.Now()
	store := repository.NewStore(repo,
		repository.WithTimeout(30*time.Minute),
		repository.WithClock(func() time.Time { return current }))
	ctx := context.Background()

	gt.NoError(t, store.AppendChat(ctx, "stale", model.RoleUser, "hello"))

	current = current.Add(time.Hour)
	_, err := store.Get(ctx, "fresh")
	gt.NoError(t, err)

	// The idle record is gone from the backend, not just superseded
	_, err = repo.GetSession(ctx, "stale")
	gt.True(t, errors.Is(err, repository.ErrSessionNotFound))
}

func TestSQLiteBackedStore(t *testing.T) {
	repo := newTestSQLite(t)
	store := repository.NewStore(repo)
	ctx := context.Background()

	gt.NoError(t, store.AppendChat(ctx, "s1", model.RoleUser, "hello"))

	sess, err := store.Get(ctx, "s1")
	gt.NoError(t, err)
	gt.A(t, sess.ChatHistory).Length(1)
}
