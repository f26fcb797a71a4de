package settings

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

var Settings *AppSettings

func NewSettings() *AppSettings {
	settings := AppSettings{
		Title:          getEnvOrDefault("SIMPLECMS_TITLE", "simple-cms"),
		CookieExpires:  time.Duration(30 * 24 * time.Hour),
		Domain:         getEnvOrDefault("SIMPLECMS_DOMAIN", "localhost"),
		Port:           getEnvOrDefault("SIMPLECMS_PORT", ":8080"),
		DatabaseDriver: getEnvOrDefault("SIMPLECMS_DB_DRIVER", DriverSQLite),
		Database:       getEnvOrDefault("SIMPLECMS_DB_PATH", "file:.///db.sqlite"),
		SessionValues:  getEnvOrDefault("SIMPLECMS_SESSION_DB", "file:sessionvalues?mode=memory&cache=shared"),
	}
	if !strings.HasPrefix(settings.Port, ":") {
		settings.Port = ":" + settings.Port
	}
	return &settings
}

func getEnvOrDefault(key, defaultValue string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	return value
}

type AppSettings struct {
	Title          string
	Database       string
	DatabaseDriver string
	SessionValues  string
	Domain         string
	Port           string
	// lifetime of the transport session cookie, not of the backend login
	CookieExpires time.Duration
}

func (as *AppSettings) BaseURL() string {
	if as.Domain == "localhost" {
		return fmt.Sprintf("http://%s%s", as.Domain, as.Port)
	} else {
		return fmt.Sprintf("https://%s", as.Domain)
	}
}

func (as *AppSettings) IsPostgres() bool {
	return as.DatabaseDriver == DriverPostgres
}

// DatabaseString returns the DSN handed to sql.Open. Postgres DSNs are used
// as-is; sqlite paths get the pragmas the stores rely on.
func (as *AppSettings) DatabaseString(readonly bool) string {
	if as.IsPostgres() {
		return as.Database
	}

	params := make(url.Values)
	params.Add("_journal_mode", "WAL")
	params.Add("_busy_timeout", "5000")
	params.Add("_synchronous", "NORMAL")
	params.Add("_cache_size", "-20000")
	params.Add("_foreign_keys", "ON")
	if readonly {
		params.Add("mode", "ro")
	} else {
		params.Add("_txlock", "IMMEDIATE")
		params.Add("mode", "rwc")
	}

	return as.Database + "?" + params.Encode()
}

// ReadDotenv loads KEY=value pairs from path into the environment. Variables
// that are already set win over the file.
func ReadDotenv(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Fatal("err opening dotenv: ", err)
	}
}
