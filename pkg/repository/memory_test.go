package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/tripweaver/tripweaver/pkg/model"
	"github.com/tripweaver/tripweaver/pkg/repository"
)

func TestMemoryRepository(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	_, err := repo.GetSession(ctx, "absent")
	gt.True(t, errors.Is(err, repository.ErrSessionNotFound))

	sess := model.NewSession("s1")
	sess.ChatHistory = []model.ChatTurn{{Role: model.RoleUser, Text: "hi"}}
	gt.NoError(t, repo.PutSession(ctx, sess))

	got, err := repo.GetSession(ctx, "s1")
	gt.NoError(t, err)
	gt.Equal(t, got.ID, model.SessionID("s1"))
	gt.Equal(t, got.ChatHistory[0].Text, "hi")

	// Stored record is isolated from later mutation of the argument
	sess.ChatHistory[0].Text = "changed"
	got, err = repo.GetSession(ctx, "s1")
	gt.NoError(t, err)
	gt.Equal(t, got.ChatHistory[0].Text, "hi")

	all, err := repo.ListSessions(ctx)
	gt.NoError(t, err)
	gt.A(t, all).Length(1)

	gt.NoError(t, repo.DeleteSession(ctx, "s1"))
	_, err = repo.GetSession(ctx, "s1")
	gt.True(t, errors.Is(err, repository.ErrSessionNotFound))

	// Deleting an absent session is a no-op
	gt.NoError(t, repo.DeleteSession(ctx, "s1"))
	gt.NoError(t, repo.Close())
}

func TestMemoryRepositoryOverwrite(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	first := model.NewSession("s1")
	first.LastActive = time.Now().Add(-time.Hour)
	gt.NoError(t, repo.PutSession(ctx, first))

	second := model.NewSession("s1")
	gt.NoError(t, repo.PutSession(ctx, second))

	got, err := repo.GetSession(ctx, "s1")
	gt.NoError(t, err)
	gt.True(t, got.LastActive.After(first.LastActive))
}
