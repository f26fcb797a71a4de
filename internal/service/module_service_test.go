package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestModuleService(t *testing.T) {
	s := NewModuleService(moduleStore, zap.NewNop().Sugar())
	auth := newAuthService(newFixedClock(), nil)

	t.Run("success - installed module becomes available to god users", func(t *testing.T) {
		// arrange
		ev := login(t, auth, createTestUser(t, true))
		require.False(t, auth.IsAllowedModule(context.Background(), ev, "Blog"))

		// act
		name, err := s.InstallModule(context.Background(), "blog")

		// assert
		assert.NoError(t, err)
		assert.Equal(t, "Blog", name)
		ev.Reset()
		assert.True(t, auth.IsAllowedModule(context.Background(), ev, "Blog"))
	})
	t.Run("success - uninstalled module is denied", func(t *testing.T) {
		// arrange
		_, err := s.InstallModule(context.Background(), "Faq")
		require.NoError(t, err)
		ev := login(t, auth, createTestUser(t, true))

		// act
		err = s.UninstallModule(context.Background(), "faq")

		// assert
		assert.NoError(t, err)
		assert.False(t, auth.IsAllowedModule(context.Background(), ev, "Faq"))
		modules, err := s.ListInstalledModules(context.Background())
		assert.NoError(t, err)
		assert.NotContains(t, modules, "Faq")
	})
	t.Run("failure - always allowed module cannot be uninstalled", func(t *testing.T) {
		err := s.UninstallModule(context.Background(), "authentication")

		assert.ErrorIs(t, err, ErrProtectedModule)
	})
	t.Run("success - module settings", func(t *testing.T) {
		// arrange
		_, err := s.GetModuleSetting(context.Background(), "Users", "date_format")
		require.ErrorIs(t, err, sql.ErrNoRows)

		// act
		err = s.SetModuleSetting(context.Background(), "users", "date_format", "Y-m-d")

		// assert
		assert.NoError(t, err)
		value, err := s.GetModuleSetting(context.Background(), "Users", "date_format")
		assert.NoError(t, err)
		assert.Equal(t, "Y-m-d", value)
	})
}
