package store

import (
	"database/sql"
	"log"

	assets "github.com/haatos/simple-cms"
	"github.com/haatos/simple-cms/internal"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies the embedded migrations for dialect, which is either
// "sqlite" or "postgres".
func RunMigrations(db *sql.DB, dialect string) {
	goose.SetBaseFS(assets.MigrationsFS)
	dir := internal.SQLiteMigrations
	if dialect == "postgres" {
		dir = internal.PostgresMigrations
	}
	if err := goose.SetDialect(dialect); err != nil {
		log.Fatal(err)
	}
	if err := goose.Up(db, dir); err != nil {
		log.Fatal(err)
	}
}
