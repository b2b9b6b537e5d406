package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tripweaver/tripweaver/pkg/model"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	last_active INTEGER NOT NULL,
	data        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_last_active ON sessions(last_active);
`

// SQLiteRepository persists sessions in a local SQLite database. Session
// records are stored as JSON; last_active is duplicated into its own
// column so expiry sweeps need no decoding.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", dbPath))
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, goerr.Wrap(err, "failed to initialize sqlite schema")
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM sessions WHERE id = ?`, string(id)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goerr.Wrap(ErrSessionNotFound, "sqlite get", goerr.V("session_id", id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query session", goerr.V("session_id", id))
	}

	var sess model.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, goerr.Wrap(err, "corrupt session record", goerr.V("session_id", id))
	}
	return &sess, nil
}

func (r *SQLiteRepository) PutSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return goerr.Wrap(err, "failed to encode session", goerr.V("session_id", session.ID))
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, last_active, data) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET last_active = excluded.last_active, data = excluded.data`,
		string(session.ID), session.LastActive.Unix(), string(data))
	if err != nil {
		return goerr.Wrap(err, "failed to store session", goerr.V("session_id", session.ID))
	}
	return nil
}

func (r *SQLiteRepository) DeleteSession(ctx context.Context, id model.SessionID) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE id = ?`, string(id)); err != nil {
		return goerr.Wrap(err, "failed to delete session", goerr.V("session_id", id))
	}
	return nil
}

func (r *SQLiteRepository) ListSessions(ctx context.Context) ([]*model.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT data FROM sessions ORDER BY last_active DESC`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list sessions")
	}
	defer rows.Close()

	var out []*model.Session
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, goerr.Wrap(err, "failed to scan session row")
		}
		var sess model.Session
		if err := json.Unmarshal([]byte(data), &sess); err != nil {
			return nil, goerr.Wrap(err, "corrupt session record")
		}
		out = append(out, &sess)
	}
	return out, rows.Err()
}

// DeleteIdleBefore removes all sessions whose last activity predates
// cutoff, returning the number removed
func (r *SQLiteRepository) DeleteIdleBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE last_active < ?`, cutoff.Unix())
	if err != nil {
		return 0, goerr.Wrap(err, "failed to sweep idle sessions")
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
