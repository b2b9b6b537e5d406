package model

import (
	"time"

	"github.com/google/uuid"
)

type SessionID string

// NewSessionID generates a new unique SessionID
func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

// ChatRole identifies the speaker of a chat turn
type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

// ChatTurn is one entry of a session's conversation history
type ChatTurn struct {
	Role ChatRole `json:"role" firestore:"role"`
	Text string   `json:"text" firestore:"text"`
}

// Session is the per-user planning and conversational state. It is owned
// exclusively by the session store; callers get copies for the duration of
// one call and must not retain them.
type Session struct {
	ID              SessionID        `json:"id" firestore:"id"`
	LastActive      time.Time        `json:"last_active" firestore:"last_active"`
	Preferences     *Preferences     `json:"preferences,omitempty" firestore:"preferences"`
	Recommendations *Recommendations `json:"recommendations,omitempty" firestore:"recommendations"`
	Itinerary       *Itinerary       `json:"itinerary,omitempty" firestore:"itinerary"`
	ChatHistory     []ChatTurn       `json:"chat_history,omitempty" firestore:"chat_history"`
}

// NewSession creates a fresh session record for the given id
func NewSession(id SessionID) *Session {
	return &Session{
		ID:         id,
		LastActive: time.Now(),
	}
}

// Clone returns a deep-enough copy for handing out to callers: the chat
// history slice is copied so appends on the original cannot race with a
// reader, snapshot pointers are shared read-only by convention.
func (s *Session) Clone() *Session {
	out := *s
	if s.ChatHistory != nil {
		out.ChatHistory = make([]ChatTurn, len(s.ChatHistory))
		copy(out.ChatHistory, s.ChatHistory)
	}
	return &out
}

// IdleSince reports whether the session has been inactive longer than d
func (s *Session) IdleSince(now time.Time, d time.Duration) bool {
	return now.Sub(s.LastActive) > d
}
