package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
)

var psq = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type RightsSQLStore struct {
	rdb, rwdb *sql.DB
}

func NewRightsSQLStore(rdb, rwdb *sql.DB) *RightsSQLStore {
	return &RightsSQLStore{rdb, rwdb}
}

// sessionGroups selects from the groups of the user owning the session
// identified by sessionID and secretKey.
func sessionGroups(b sq.SelectBuilder, sessionID, secretKey string) sq.SelectBuilder {
	return b.From("users_sessions us").
		Join("users u on us.user_id = u.id").
		Join("users_groups ug on u.id = ug.user_id").
		Where(sq.Eq{"us.session_id": sessionID, "us.secret_key": secretKey})
}

func (store *RightsSQLStore) ListAllowedModules(
	ctx context.Context,
	sessionID, secretKey string,
) ([]string, error) {
	query, args, err := sessionGroups(psq.Select("grm.module").Distinct(), sessionID, secretKey).
		Join("groups_rights_modules grm on ug.group_id = grm.group_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building allowed modules query: %w", err)
	}
	modules := make([]string, 0)
	if err := sqlscan.Select(ctx, store.rdb, &modules, query, args...); err != nil {
		return nil, fmt.Errorf("listing allowed modules: %w", err)
	}
	return modules, nil
}

func (store *RightsSQLStore) ListAllowedActions(
	ctx context.Context,
	sessionID, secretKey string,
) ([]ActionRight, error) {
	query, args, err := sessionGroups(
		psq.Select("gra.module", "gra.action", "max(gra.level) as level"),
		sessionID, secretKey,
	).
		Join("groups_rights_actions gra on ug.group_id = gra.group_id").
		GroupBy("gra.module", "gra.action").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building allowed actions query: %w", err)
	}
	rights := make([]ActionRight, 0)
	if err := sqlscan.Select(ctx, store.rdb, &rights, query, args...); err != nil {
		return nil, fmt.Errorf("listing allowed actions: %w", err)
	}
	return rights, nil
}

func (store *RightsSQLStore) CreateGroup(ctx context.Context, name string) (*Group, error) {
	g := &Group{Name: name}
	query := `insert into "groups" (name) values ($1) returning id`
	if err := sqlscan.Get(ctx, store.rwdb, g, query, g.Name); err != nil {
		return nil, err
	}
	return g, nil
}

func (store *RightsSQLStore) ReadGroupByName(ctx context.Context, name string) (*Group, error) {
	g := new(Group)
	query := `select * from "groups" where name = $1`
	if err := sqlscan.Get(ctx, store.rdb, g, query, name); err != nil {
		return nil, err
	}
	return g, nil
}

func (store *RightsSQLStore) AddUserToGroup(ctx context.Context, userID, groupID int64) error {
	query, args, err := psq.Insert("users_groups").
		Columns("user_id", "group_id").
		Values(userID, groupID).
		Suffix("on conflict do nothing").
		ToSql()
	if err != nil {
		return err
	}
	_, err = store.rwdb.ExecContext(ctx, query, args...)
	return err
}

func (store *RightsSQLStore) GrantModule(ctx context.Context, groupID int64, module string) error {
	query, args, err := psq.Insert("groups_rights_modules").
		Columns("group_id", "module").
		Values(groupID, module).
		Suffix("on conflict do nothing").
		ToSql()
	if err != nil {
		return err
	}
	_, err = store.rwdb.ExecContext(ctx, query, args...)
	return err
}

func (store *RightsSQLStore) GrantAction(
	ctx context.Context,
	groupID int64,
	module, action string,
	level int64,
) error {
	query, args, err := psq.Insert("groups_rights_actions").
		Columns("group_id", "module", "action", "level").
		Values(groupID, module, action, level).
		Suffix("on conflict (group_id, module, action) do update set level = excluded.level").
		ToSql()
	if err != nil {
		return err
	}
	_, err = store.rwdb.ExecContext(ctx, query, args...)
	return err
}
