package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
)

type SessionSQLStore struct {
	rdb, rwdb *sql.DB
}

func NewSessionSQLStore(rdb, rwdb *sql.DB) *SessionSQLStore {
	return &SessionSQLStore{rdb, rwdb}
}

func (store *SessionSQLStore) CreateSession(
	ctx context.Context,
	sessionID, secretKey string,
	userID int64,
	date time.Time,
) (*UserSession, error) {
	s := &UserSession{
		SessionID: sessionID,
		SecretKey: secretKey,
		UserID:    userID,
		Date:      date,
	}
	query := `insert into users_sessions (
		session_id,
		secret_key,
		user_id,
		date
	)
	values ($1, $2, $3, $4)
	returning id`
	err := sqlscan.Get(ctx, store.rwdb, s, query, s.SessionID, s.SecretKey, s.UserID, s.Date)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ReadSession returns the session row matching both tokens whose last
// activity is after notBefore.
func (store *SessionSQLStore) ReadSession(
	ctx context.Context,
	sessionID, secretKey string,
	notBefore time.Time,
) (*UserSession, error) {
	s := new(UserSession)
	query := `select *
	from users_sessions
	where session_id = $1 and secret_key = $2 and date > $3
	limit 1`
	if err := sqlscan.Get(ctx, store.rdb, s, query, sessionID, secretKey, notBefore); err != nil {
		return nil, err
	}
	return s, nil
}

func (store *SessionSQLStore) UpdateSessionDate(
	ctx context.Context,
	id int64,
	date time.Time,
) error {
	query := `update users_sessions set date = $1 where id = $2`
	_, err := store.rwdb.ExecContext(ctx, query, date, id)
	return err
}

func (store *SessionSQLStore) DeleteSessionsBySessionID(
	ctx context.Context,
	sessionID string,
) error {
	query := `delete from users_sessions where session_id = $1`
	_, err := store.rwdb.ExecContext(ctx, query, sessionID)
	return err
}

// DeleteSessionsBefore removes every session, regardless of user, whose last
// activity is at or before cutoff.
func (store *SessionSQLStore) DeleteSessionsBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	query := `delete from users_sessions where date <= $1`
	res, err := store.rwdb.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
