package internal

const (
	DotEnvPath         = "./.env"
	ConfigPath         = "config.json"
	SQLiteMigrations   = "migrations/sqlite"
	PostgresMigrations = "migrations/postgres"
	SessionCookie      = "backend_session"
	CSRFTokenField     = "form_token"
	CSRFTokenHeader    = "X-CSRF-Token"
)
