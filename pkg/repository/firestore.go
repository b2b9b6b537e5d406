package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/tripweaver/tripweaver/pkg/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const sessionCollection = "sessions"

// FirestoreRepository persists sessions in Cloud Firestore
type FirestoreRepository struct {
	client *firestore.Client
}

func NewFirestore(ctx context.Context, projectID, databaseID string) (*FirestoreRepository, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID), goerr.V("database", databaseID))
	}
	return &FirestoreRepository{client: client}, nil
}

func (r *FirestoreRepository) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	doc, err := r.client.Collection(sessionCollection).Doc(string(id)).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, goerr.Wrap(ErrSessionNotFound, "firestore get", goerr.V("session_id", id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get session", goerr.V("session_id", id))
	}

	var sess model.Session
	if err := doc.DataTo(&sess); err != nil {
		return nil, goerr.Wrap(err, "failed to decode session", goerr.V("session_id", id))
	}
	return &sess, nil
}

func (r *FirestoreRepository) PutSession(ctx context.Context, session *model.Session) error {
	_, err := r.client.Collection(sessionCollection).Doc(string(session.ID)).Set(ctx, session)
	if err != nil {
		return goerr.Wrap(err, "failed to store session", goerr.V("session_id", session.ID))
	}
	return nil
}

func (r *FirestoreRepository) DeleteSession(ctx context.Context, id model.SessionID) error {
	_, err := r.client.Collection(sessionCollection).Doc(string(id)).Delete(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to delete session", goerr.V("session_id", id))
	}
	return nil
}

func (r *FirestoreRepository) ListSessions(ctx context.Context) ([]*model.Session, error) {
	iter := r.client.Collection(sessionCollection).Documents(ctx)
	defer iter.Stop()

	var out []*model.Session
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate sessions")
		}

		var sess model.Session
		if err := doc.DataTo(&sess); err != nil {
			return nil, goerr.Wrap(err, "failed to decode session", goerr.V("doc", doc.Ref.ID))
		}
		out = append(out, &sess)
	}
	return out, nil
}

func (r *FirestoreRepository) Close() error {
	return r.client.Close()
}
