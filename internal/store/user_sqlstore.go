package store

import (
	"context"
	"database/sql"

	"github.com/georgysavva/scany/v2/sqlscan"
)

type UserSQLStore struct {
	rdb  *sql.DB
	rwdb *sql.DB
}

func NewUserSQLStore(rdb, rwdb *sql.DB) *UserSQLStore {
	return &UserSQLStore{rdb, rwdb}
}

func (store *UserSQLStore) CreateUser(
	ctx context.Context,
	email string,
	passwordHash string,
	isGod bool,
) (*User, error) {
	user := new(User)
	user.Email = email
	user.Password = passwordHash
	user.IsGod = isGod
	err := sqlscan.Get(
		ctx, store.rwdb, user,
		`
		insert into users (
			email,
			password,
			is_god
		)
		values ($1, $2, $3)
		returning id, active, deleted
		`,
		user.Email,
		user.Password,
		user.IsGod,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (store *UserSQLStore) ReadUserByID(ctx context.Context, userID int64) (*User, error) {
	user := new(User)
	err := sqlscan.Get(
		ctx, store.rdb, user,
		`select * from users where id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (store *UserSQLStore) ReadUserByEmail(ctx context.Context, email string) (*User, error) {
	user := new(User)
	err := sqlscan.Get(
		ctx, store.rdb, user,
		`select * from users where email = $1`,
		email,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ReadActiveUserID returns the id of the active, not deleted user with the
// given email and password hash, or sql.ErrNoRows.
func (store *UserSQLStore) ReadActiveUserID(
	ctx context.Context,
	email, passwordHash string,
) (int64, error) {
	var id int64
	err := store.rdb.QueryRowContext(
		ctx,
		`select id
		from users
		where email = $1 and password = $2 and active = $3 and deleted = $4
		limit 1`,
		email, passwordHash, true, false,
	).Scan(&id)
	return id, err
}

func (store *UserSQLStore) UpdateUserPassword(
	ctx context.Context,
	userID int64,
	passwordHash string,
) error {
	_, err := store.rwdb.ExecContext(
		ctx,
		`update users set password = $1 where id = $2`,
		passwordHash, userID,
	)
	return err
}

func (store *UserSQLStore) UpdateUserActive(ctx context.Context, userID int64, active bool) error {
	_, err := store.rwdb.ExecContext(
		ctx,
		`update users set active = $1 where id = $2`,
		active, userID,
	)
	return err
}

// DeleteUser marks the user as deleted; the row is kept for audit.
func (store *UserSQLStore) DeleteUser(ctx context.Context, userID int64) error {
	_, err := store.rwdb.ExecContext(
		ctx,
		`update users set deleted = $1 where id = $2`,
		true, userID,
	)
	return err
}

func (store *UserSQLStore) ListUsers(ctx context.Context) ([]*User, error) {
	users := make([]*User, 0)
	err := sqlscan.Select(
		ctx, store.rdb, &users,
		`select * from users where deleted = $1 order by email`,
		false,
	)
	return users, err
}

func (store *UserSQLStore) ListGodUsers(ctx context.Context) ([]*User, error) {
	users := make([]*User, 0)
	err := sqlscan.Select(
		ctx, store.rdb, &users,
		`select * from users where is_god = $1 and deleted = $2`,
		true, false,
	)
	return users, err
}

func (store *UserSQLStore) ReadUserSetting(
	ctx context.Context,
	userID int64,
	name string,
) (string, error) {
	var value string
	err := store.rdb.QueryRowContext(
		ctx,
		`select value from users_settings where user_id = $1 and name = $2`,
		userID, name,
	).Scan(&value)
	return value, err
}

func (store *UserSQLStore) UpdateUserSetting(
	ctx context.Context,
	userID int64,
	name, value string,
) error {
	_, err := store.rwdb.ExecContext(
		ctx,
		`insert into users_settings (user_id, name, value)
		values ($1, $2, $3)
		on conflict (user_id, name) do update set value = excluded.value`,
		userID, name, value,
	)
	return err
}

func (store *UserSQLStore) DeleteUserSetting(
	ctx context.Context,
	userID int64,
	name string,
) error {
	_, err := store.rwdb.ExecContext(
		ctx,
		`delete from users_settings where user_id = $1 and name = $2`,
		userID, name,
	)
	return err
}
