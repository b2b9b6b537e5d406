package support

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tripweaver/tripweaver/pkg/agent"
	"github.com/tripweaver/tripweaver/pkg/model"
	"github.com/tripweaver/tripweaver/pkg/repository"
	"github.com/tripweaver/tripweaver/pkg/utils/logging"
)

// ErrSupport marks a failed support exchange. The user's message is still
// recorded in the session history when this is returned.
var ErrSupport = goerr.New("support request failed")

// Reply is one concierge answer with its advisory action tag
type Reply struct {
	Text   string       `json:"text"`
	Action agent.Action `json:"action"`
}

// UseCase runs the support channel: each exchange reads the session's trip
// context, asks the support agent, and records both turns in the history.
// It is independent of the planning pipeline and works with or without a
// completed plan.
type UseCase struct {
	registry *agent.Registry
	store    *repository.Store
}

func New(registry *agent.Registry, store *repository.Store) *UseCase {
	return &UseCase{
		registry: registry,
		store:    store,
	}
}

// Respond answers one user message within the session's conversation
func (u *UseCase) Respond(ctx context.Context, id model.SessionID, message string) (*Reply, error) {
	sess, err := u.store.Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrSupport, "failed to load session",
			goerr.V("session_id", id), goerr.V("cause", err))
	}

	if err := u.store.AppendChat(ctx, id, model.RoleUser, message); err != nil {
		return nil, goerr.Wrap(ErrSupport, "failed to record message",
			goerr.V("session_id", id), goerr.V("cause", err))
	}

	result, err := u.registry.Dispatch(ctx, agent.NameSupport, &agent.Task{
		Message: message,
		Context: &agent.TripContext{
			Preferences:     sess.Preferences,
			Recommendations: sess.Recommendations,
			Itinerary:       sess.Itinerary,
		},
		History: sess.ChatHistory,
	})
	if err != nil {
		return nil, goerr.Wrap(ErrSupport, "the concierge is unavailable right now",
			goerr.V("session_id", id), goerr.V("cause", err))
	}

	if err := u.store.AppendChat(ctx, id, model.RoleModel, result.ResponseText); err != nil {
		logging.From(ctx).Warn("failed to record concierge reply",
			"session_id", id, "error", err)
	}

	logging.From(ctx).Debug("support exchange complete",
		"session_id", id, "action", result.Action)

	return &Reply{
		Text:   result.ResponseText,
		Action: result.Action,
	}, nil
}
