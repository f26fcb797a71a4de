package store

import (
	"context"
	"time"
)

// UserSession binds a transport session id to a logged in user.
type UserSession struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	SecretKey string    `json:"-"`
	UserID    int64     `json:"user_id"`
	Date      time.Time `json:"date"`
}

type SessionStore interface {
	CreateSession(context.Context, string, string, int64, time.Time) (*UserSession, error)
	ReadSession(context.Context, string, string, time.Time) (*UserSession, error)
	UpdateSessionDate(context.Context, int64, time.Time) error
	DeleteSessionsBySessionID(context.Context, string) error
	DeleteSessionsBefore(context.Context, time.Time) (int64, error)
}
