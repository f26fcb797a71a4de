package store

import (
	"context"
	"database/sql"

	"github.com/georgysavva/scany/v2/sqlscan"
)

type ModuleSQLStore struct {
	rdb, rwdb *sql.DB
}

func NewModuleSQLStore(rdb, rwdb *sql.DB) *ModuleSQLStore {
	return &ModuleSQLStore{rdb, rwdb}
}

func (store *ModuleSQLStore) ListInstalledModules(ctx context.Context) ([]string, error) {
	modules := make([]string, 0)
	query := `select name from modules where installed = $1 order by name`
	err := sqlscan.Select(ctx, store.rdb, &modules, query, true)
	return modules, err
}

func (store *ModuleSQLStore) InstallModule(ctx context.Context, name string) error {
	query := `insert into modules (name, installed)
	values ($1, $2)
	on conflict (name) do update set installed = excluded.installed`
	_, err := store.rwdb.ExecContext(ctx, query, name, true)
	return err
}

func (store *ModuleSQLStore) UninstallModule(ctx context.Context, name string) error {
	query := `update modules set installed = $1 where name = $2`
	_, err := store.rwdb.ExecContext(ctx, query, false, name)
	return err
}

func (store *ModuleSQLStore) ReadModuleSetting(
	ctx context.Context,
	module, name string,
) (string, error) {
	var value string
	query := `select value from modules_settings where module = $1 and name = $2`
	err := store.rdb.QueryRowContext(ctx, query, module, name).Scan(&value)
	return value, err
}

func (store *ModuleSQLStore) UpdateModuleSetting(
	ctx context.Context,
	module, name, value string,
) error {
	query := `insert into modules_settings (module, name, value)
	values ($1, $2, $3)
	on conflict (module, name) do update set value = excluded.value`
	_, err := store.rwdb.ExecContext(ctx, query, module, name, value)
	return err
}
