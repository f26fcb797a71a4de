package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/haatos/simple-cms/internal/service"
	"github.com/haatos/simple-cms/internal/store"
	"go.uber.org/zap"
)

type stubUsers struct {
	u *store.User
}

func (s stubUsers) ReadUserByID(context.Context, int64) (*store.User, error) {
	return s.u, nil
}

func (s stubUsers) ReadUserByEmail(context.Context, string) (*store.User, error) {
	return nil, sql.ErrNoRows
}

func (s stubUsers) ReadActiveUserID(context.Context, string, string) (int64, error) {
	return 0, sql.ErrNoRows
}

func (s stubUsers) ReadUserSetting(context.Context, int64, string) (string, error) {
	return "", sql.ErrNoRows
}

type stubSessions struct {
	userID int64
}

func (s stubSessions) CreateSession(context.Context, string, string, int64, time.Time) (*store.UserSession, error) {
	return nil, sql.ErrConnDone
}

func (s stubSessions) ReadSession(
	_ context.Context,
	sessionID, secretKey string,
	_ time.Time,
) (*store.UserSession, error) {
	return &store.UserSession{ID: 1, SessionID: sessionID, SecretKey: secretKey, UserID: s.userID}, nil
}

func (s stubSessions) UpdateSessionDate(context.Context, int64, time.Time) error {
	return nil
}

func (s stubSessions) DeleteSessionsBySessionID(context.Context, string) error {
	return nil
}

func (s stubSessions) DeleteSessionsBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

// LoggedInEvaluation returns an evaluation that has been validated as u.
func LoggedInEvaluation(u *store.User) *service.Evaluation {
	s := service.NewAuthService(
		stubUsers{u}, stubSessions{u.ID}, nil, nil, service.SystemClock{}, zap.NewNop().Sugar(),
	)
	ev := service.NewEvaluation("sid", "secret")
	s.IsLoggedIn(context.Background(), ev)
	return ev
}
