package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/tripweaver/tripweaver/pkg/model"
	"github.com/tripweaver/tripweaver/pkg/repository"
)

func TestStoreGetCreates(t *testing.T) {
	store := repository.NewStore(repository.NewMemory())
	ctx := context.Background()

	sess, err := store.Get(ctx, "fresh")
	gt.NoError(t, err)
	gt.Equal(t, sess.ID, model.SessionID("fresh"))
	gt.True(t, sess.Preferences == nil)

	// A second get finds the same record, not a new one
	gt.NoError(t, store.AppendChat(ctx, "fresh", model.RoleUser, "hello"))
	again, err := store.Get(ctx, "fresh")
	gt.NoError(t, err)
	gt.A(t, again.ChatHistory).Length(1)
}

func TestStoreExpiry(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	store := repository.NewStore(repository.NewMemory(),
		repository.WithTimeout(30*time.Minute),
		repository.WithClock(clock))
	ctx := context.Background()

	gt.NoError(t, store.AppendChat(ctx, "s1", model.RoleUser, "hello"))

	// Still there just inside the window
	now = now.Add(29 * time.Minute)
	sess, err := store.Get(ctx, "s1")
	gt.NoError(t, err)
	gt.A(t, sess.ChatHistory).Length(1)

	// Access refreshed last-active, so another 29 minutes is still fine
	now = now.Add(29 * time.Minute)
	sess, err = store.Get(ctx, "s1")
	gt.NoError(t, err)
	gt.A(t, sess.ChatHistory).Length(1)

	// Past the idle window the record is purged and recreated empty
	now = now.Add(31 * time.Minute)
	sess, err = store.Get(ctx, "s1")
	gt.NoError(t, err)
	gt.A(t, sess.ChatHistory).Length(0)
}

func TestStoreUpdateFields(t *testing.T) {
	store := repository.NewStore(repository.NewMemory())
	ctx := context.Background()

	prefs := &model.Preferences{Destination: model.Ptr("Paris")}
	gt.NoError(t, store.Update(ctx, "s1", repository.FieldPreferences, prefs))

	recs := &model.Recommendations{Destination: "Paris"}
	gt.NoError(t, store.Update(ctx, "s1", repository.FieldRecommendations, recs))

	it := &model.Itinerary{Days: []*model.ItineraryDay{{Number: 1}}}
	gt.NoError(t, store.Update(ctx, "s1", repository.FieldItinerary, it))

	sess, err := store.Get(ctx, "s1")
	gt.NoError(t, err)
	gt.Equal(t, *sess.Preferences.Destination, "Paris")
	gt.Equal(t, sess.Recommendations.Destination, "Paris")
	gt.A(t, sess.Itinerary.Days).Length(1)
}

func TestStoreUpdateRejectsBadField(t *testing.T) {
	store := repository.NewStore(repository.NewMemory())
	ctx := context.Background()

	err := store.Update(ctx, "s1", repository.Field("bogus"), "x")
	gt.True(t, errors.Is(err, repository.ErrUnknownField))

	err = store.Update(ctx, "s1", repository.FieldPreferences, "not preferences")
	gt.True(t, errors.Is(err, repository.ErrUnknownField))
}

func TestStoreConcurrentAppends(t *testing.T) {
	store := repository.NewStore(repository.NewMemory())
	ctx := context.Background()

	const turns = 50
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gt.NoError(t, store.AppendChat(ctx, "busy", model.RoleUser, "msg"))
		}()
	}
	wg.Wait()

	sess, err := store.Get(ctx, "busy")
	gt.NoError(t, err)
	gt.A(t, sess.ChatHistory).Length(turns)
}

func TestStoreClear(t *testing.T) {
	repo := repository.NewMemory()
	store := repository.NewStore(repo)
	ctx := context.Background()

	gt.NoError(t, store.AppendChat(ctx, "s1", model.RoleUser, "hello"))
	gt.NoError(t, store.Clear(ctx, "s1"))

	_, err := repo.GetSession(ctx, "s1")
	gt.True(t, errors.Is(err, repository.ErrSessionNotFound))
}

func TestStoreList(t *testing.T) {
	store := repository.NewStore(repository.NewMemory())
	ctx := context.Background()

	gt.NoError(t, store.AppendChat(ctx, "a", model.RoleUser, "1"))
	gt.NoError(t, store.AppendChat(ctx, "b", model.RoleUser, "2"))

	sessions, err := store.List(ctx)
	gt.NoError(t, err)
	gt.A(t, sessions).Length(2)
}
