package store

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/go-co-op/gocron/v2"
)

// SessionValues is the server side state stored against a transport session
// id: the login flag, the secret key paired with the id and the form token.
type SessionValues struct {
	SessionID string    `db:"session_id"`
	LoggedIn  bool      `db:"logged_in"`
	SecretKey string    `db:"secret_key"`
	CSRFToken string    `db:"csrf_token"`
	Expires   time.Time `db:"expires"`
}

// KeyValueStore keeps SessionValues in a separate, usually in-memory, sqlite
// database.
type KeyValueStore struct {
	DB *sql.DB
}

func NewKeyValueStore(dsn string) *KeyValueStore {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatal(err)
	}
	kvs := &KeyValueStore{DB: db}
	if err := kvs.createTable(); err != nil {
		log.Fatal(err)
	}
	return kvs
}

func (kvs *KeyValueStore) createTable() error {
	query := `create table if not exists session_values (
		session_id text primary key,
		logged_in boolean not null default false,
		secret_key text not null default '',
		csrf_token text not null default '',
		expires datetime not null
	)`
	_, err := kvs.DB.Exec(query)
	return err
}

func (kvs *KeyValueStore) ScheduleCleanUp(s gocron.Scheduler, every time.Duration) {
	if _, err := s.NewJob(gocron.DurationJob(every), gocron.NewTask(func() {
		if _, err := kvs.RemoveExpired(context.Background(), time.Now().UTC()); err != nil {
			log.Println("err deleting expired session values:", err)
		}
	})); err != nil {
		log.Fatal(err)
	}
}

func (kvs *KeyValueStore) Get(ctx context.Context, sessionID string) (*SessionValues, error) {
	sv := new(SessionValues)
	query := `select * from session_values where session_id = $1`
	if err := sqlscan.Get(ctx, kvs.DB, sv, query, sessionID); err != nil {
		return nil, err
	}
	return sv, nil
}

func (kvs *KeyValueStore) Set(ctx context.Context, sv *SessionValues) error {
	query := `insert into session_values (session_id, logged_in, secret_key, csrf_token, expires)
	values ($1, $2, $3, $4, $5)
	on conflict (session_id) do update set
		logged_in = excluded.logged_in,
		secret_key = excluded.secret_key,
		csrf_token = excluded.csrf_token,
		expires = excluded.expires`
	_, err := kvs.DB.ExecContext(
		ctx, query,
		sv.SessionID, sv.LoggedIn, sv.SecretKey, sv.CSRFToken, sv.Expires,
	)
	return err
}

func (kvs *KeyValueStore) Delete(ctx context.Context, sessionID string) error {
	query := `delete from session_values where session_id = $1`
	_, err := kvs.DB.ExecContext(ctx, query, sessionID)
	return err
}

func (kvs *KeyValueStore) RemoveExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `delete from session_values where expires < $1`
	res, err := kvs.DB.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (kvs *KeyValueStore) Close() error {
	return kvs.DB.Close()
}
