package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/haatos/simple-cms/internal"
	"github.com/haatos/simple-cms/internal/logger"
	"github.com/haatos/simple-cms/internal/service"
	"github.com/haatos/simple-cms/internal/settings"
	"github.com/haatos/simple-cms/internal/store"
)

func main() {
	path := flag.String("file", "seed.yaml", "seed file with modules, groups and users")
	flag.Parse()

	settings.ReadDotenv(internal.DotEnvPath)
	settings.Settings = settings.NewSettings()
	logs := logger.New()
	defer logs.Sync()

	b, err := os.ReadFile(*path)
	if err != nil {
		log.Fatal(err)
	}
	seed := new(Seed)
	if err := yaml.Unmarshal(b, seed); err != nil {
		log.Fatal(err)
	}

	db := store.InitDatabase(false)
	defer db.Close()
	if settings.Settings.IsPostgres() {
		store.RunMigrations(db, "postgres")
	} else {
		store.RunMigrations(db, "sqlite")
	}

	userStore := store.NewUserSQLStore(db, db)
	s := &seeder{
		users:   userStore,
		rights:  store.NewRightsSQLStore(db, db),
		modules: service.NewModuleService(store.NewModuleSQLStore(db, db), logs),
		userService: service.NewUserService(
			userStore, service.NewLogMailer(logs), service.SystemClock{}, 24*time.Hour, logs,
		),
	}
	if err := s.Run(context.Background(), seed); err != nil {
		log.Fatal(err)
	}
	logs.Infow("seed applied", "file", *path)
}
