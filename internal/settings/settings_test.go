package settings

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettings_ReadDotenv(t *testing.T) {
	t.Run("success - .env files is read into env variables", func(t *testing.T) {
		// arrange
		testDotEnvFile := ".env.test"
		f, err := os.Create(testDotEnvFile)
		if err != nil {
			t.Error(err)
		}
		lines := []string{
			`#COMMENTED=asdf`,
			`SIMPLE_CMS_TEST=1234`,
			``,
			`SIMPLE_CMS_TEST2="2345"`,
		}
		for _, line := range lines {
			f.Write([]byte(line + "\n"))
		}
		f.Close()
		defer os.Remove(testDotEnvFile)

		// act
		ReadDotenv(testDotEnvFile)

		// assert
		assert.Equal(t, "1234", os.Getenv("SIMPLE_CMS_TEST"))
		assert.Equal(t, "2345", os.Getenv("SIMPLE_CMS_TEST2"))
		_, commented := os.LookupEnv("COMMENTED")
		assert.False(t, commented)
	})
	t.Run("success - missing file is ignored", func(t *testing.T) {
		// act
		ReadDotenv(".env.does-not-exist")
	})
}

func TestSettings_NewSettings(t *testing.T) {
	t.Run("success - port is prefixed with colon", func(t *testing.T) {
		// arrange
		t.Setenv("SIMPLECMS_PORT", "9000")

		// act
		s := NewSettings()

		// assert
		assert.Equal(t, ":9000", s.Port)
		assert.Equal(t, DriverSQLite, s.DatabaseDriver)
		assert.Equal(t, "http://localhost:9000", s.BaseURL())
	})
	t.Run("success - postgres dsn is returned untouched", func(t *testing.T) {
		// arrange
		t.Setenv("SIMPLECMS_DB_DRIVER", DriverPostgres)
		t.Setenv("SIMPLECMS_DB_PATH", "postgres://cms@localhost/cms")

		// act
		s := NewSettings()

		// assert
		assert.True(t, s.IsPostgres())
		assert.Equal(t, "postgres://cms@localhost/cms", s.DatabaseString(false))
	})
	t.Run("success - sqlite dsn carries mode", func(t *testing.T) {
		// arrange
		s := &AppSettings{Database: "file:test.sqlite", DatabaseDriver: DriverSQLite}

		// act
		ro := s.DatabaseString(true)
		rw := s.DatabaseString(false)

		// assert
		assert.Contains(t, ro, "mode=ro")
		assert.Contains(t, rw, "mode=rwc")
		assert.Contains(t, rw, "_txlock=IMMEDIATE")
	})
}
