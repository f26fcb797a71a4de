package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haatos/simple-cms/internal/security"
	"github.com/haatos/simple-cms/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	userStore    *store.UserSQLStore
	sessionStore *store.SessionSQLStore
	rightsStore  *store.RightsSQLStore
	moduleStore  *store.ModuleSQLStore
	userCount    atomic.Int64
)

func TestMain(m *testing.M) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	store.RunMigrations(db, "sqlite")

	userStore = store.NewUserSQLStore(db, db)
	sessionStore = store.NewSessionSQLStore(db, db)
	rightsStore = store.NewRightsSQLStore(db, db)
	moduleStore = store.NewModuleSQLStore(db, db)
	os.Exit(m.Run())
}

type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.t
}

func (c *fixedClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newFixedClock() *fixedClock {
	return &fixedClock{t: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
}

type countingRegistry struct {
	modules []string
	err     error
	calls   int
}

func (r *countingRegistry) ListInstalledModules(context.Context) ([]string, error) {
	r.calls++
	return r.modules, r.err
}

func newAuthService(clock Clock, modules ModuleRegistry) *AuthService {
	if modules == nil {
		modules = moduleStore
	}
	return NewAuthService(userStore, sessionStore, rightsStore, modules, clock, zap.NewNop().Sugar())
}

const testPassword = "correct horse battery"

// createTestUser stores a user the same way UserService.CreateUser does.
func createTestUser(t *testing.T, isGod bool) *store.User {
	t.Helper()
	n := userCount.Add(1)
	email := fmt.Sprintf("user%d@example.com", n)
	key := fmt.Sprintf("key-%d", n)
	u, err := userStore.CreateUser(
		context.Background(), email, security.EncryptString(testPassword, key), isGod,
	)
	require.NoError(t, err)
	require.NoError(t, userStore.UpdateUserSetting(
		context.Background(), u.ID, store.SettingPasswordKey, key,
	))
	return u
}

func sessionID(t *testing.T) string {
	return fmt.Sprintf("sess-%s-%d", t.Name(), time.Now().UnixNano())
}

func login(t *testing.T, s *AuthService, u *store.User) *Evaluation {
	t.Helper()
	ev := NewEvaluation(sessionID(t), "")
	_, err := s.Login(context.Background(), ev, u.Email, testPassword)
	require.NoError(t, err)
	return ev
}

func TestAuthService_Login(t *testing.T) {
	t.Run("success - session is stored and validates", func(t *testing.T) {
		// arrange
		clock := newFixedClock()
		s := newAuthService(clock, nil)
		u := createTestUser(t, false)
		ev := NewEvaluation(sessionID(t), "")

		// act
		session, err := s.Login(context.Background(), ev, u.Email, testPassword)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, u.ID, session.UserID)
		assert.Equal(t, ev.SessionID, session.SessionID)
		assert.Equal(
			t,
			security.EncryptString(ev.SessionID, fmt.Sprintf("%d", u.ID)),
			ev.SecretKey,
		)
		assert.True(t, ev.LoggedIn())
		assert.Equal(t, u.ID, ev.User().ID)

		fresh := NewEvaluation(ev.SessionID, ev.SecretKey)
		assert.True(t, s.IsLoggedIn(context.Background(), fresh))
		assert.Equal(t, u.ID, fresh.User().ID)
	})
	t.Run("failure - wrong password", func(t *testing.T) {
		// arrange
		s := newAuthService(newFixedClock(), nil)
		u := createTestUser(t, false)
		ev := NewEvaluation(sessionID(t), "stale")

		// act
		session, err := s.Login(context.Background(), ev, u.Email, "wrong password")

		// assert
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, session)
		assert.False(t, ev.LoggedIn())
		assert.Empty(t, ev.SecretKey)
	})
	t.Run("failure - unknown email", func(t *testing.T) {
		// arrange
		s := newAuthService(newFixedClock(), nil)
		ev := NewEvaluation(sessionID(t), "")

		// act
		_, err := s.Login(context.Background(), ev, "nobody@example.com", testPassword)

		// assert
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
	t.Run("failure - inactive user", func(t *testing.T) {
		// arrange
		s := newAuthService(newFixedClock(), nil)
		u := createTestUser(t, false)
		require.NoError(t, userStore.UpdateUserActive(context.Background(), u.ID, false))
		ev := NewEvaluation(sessionID(t), "")

		// act
		_, err := s.Login(context.Background(), ev, u.Email, testPassword)

		// assert
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
	t.Run("failure - deleted user", func(t *testing.T) {
		// arrange
		s := newAuthService(newFixedClock(), nil)
		u := createTestUser(t, false)
		require.NoError(t, userStore.DeleteUser(context.Background(), u.ID))
		ev := NewEvaluation(sessionID(t), "")

		// act
		_, err := s.Login(context.Background(), ev, u.Email, testPassword)

		// assert
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
	t.Run("failure - missing session id", func(t *testing.T) {
		// arrange
		s := newAuthService(newFixedClock(), nil)
		u := createTestUser(t, false)
		ev := NewEvaluation("", "")

		// act
		_, err := s.Login(context.Background(), ev, u.Email, testPassword)

		// assert
		assert.ErrorIs(t, err, ErrMissingSessionID)
	})
}

func TestAuthService_IsLoggedIn(t *testing.T) {
	t.Run("failure - empty tokens", func(t *testing.T) {
		s := newAuthService(newFixedClock(), nil)

		assert.False(t, s.IsLoggedIn(context.Background(), NewEvaluation("", "")))
		assert.False(t, s.IsLoggedIn(context.Background(), NewEvaluation("abc", "")))
	})
	t.Run("failure - secret key does not match", func(t *testing.T) {
		// arrange
		s := newAuthService(newFixedClock(), nil)
		ev := login(t, s, createTestUser(t, false))

		// act
		ok := s.IsLoggedIn(context.Background(), NewEvaluation(ev.SessionID, "forged"))

		// assert
		assert.False(t, ok)
	})
	t.Run("success - activity keeps the session alive", func(t *testing.T) {
		// arrange
		clock := newFixedClock()
		s := newAuthService(clock, nil)
		ev := login(t, s, createTestUser(t, false))

		// act & assert
		for i := 0; i < 3; i++ {
			clock.Advance(SessionLifetime - time.Minute)
			assert.True(t, s.IsLoggedIn(context.Background(), NewEvaluation(ev.SessionID, ev.SecretKey)))
		}
	})
	t.Run("failure - session older than the lifetime", func(t *testing.T) {
		// arrange
		clock := newFixedClock()
		s := newAuthService(clock, nil)
		ev := login(t, s, createTestUser(t, false))
		clock.Advance(SessionLifetime)

		// act
		fresh := NewEvaluation(ev.SessionID, ev.SecretKey)
		ok := s.IsLoggedIn(context.Background(), fresh)

		// assert
		assert.False(t, ok)
		assert.Empty(t, fresh.SecretKey)
		assert.Nil(t, fresh.User())
	})
	t.Run("success - result is memoised", func(t *testing.T) {
		// arrange
		clock := newFixedClock()
		s := newAuthService(clock, nil)
		ev := login(t, s, createTestUser(t, false))
		fresh := NewEvaluation(ev.SessionID, ev.SecretKey)
		require.True(t, s.IsLoggedIn(context.Background(), fresh))

		// act
		require.NoError(t, sessionStore.DeleteSessionsBySessionID(context.Background(), ev.SessionID))

		// assert
		assert.True(t, s.IsLoggedIn(context.Background(), fresh))
		fresh.Reset()
		assert.False(t, s.IsLoggedIn(context.Background(), fresh))
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("success - session no longer validates", func(t *testing.T) {
		// arrange
		s := newAuthService(newFixedClock(), nil)
		ev := login(t, s, createTestUser(t, false))
		secretKey := ev.SecretKey
		ev.CSRFToken = "token"

		// act
		err := s.Logout(context.Background(), ev)

		// assert
		assert.NoError(t, err)
		assert.False(t, ev.LoggedIn())
		assert.Empty(t, ev.SecretKey)
		assert.Empty(t, ev.CSRFToken)
		assert.False(t, s.IsLoggedIn(context.Background(), NewEvaluation(ev.SessionID, secretKey)))
	})
}

func TestAuthService_SweepSessions(t *testing.T) {
	// arrange
	clock := newFixedClock()
	s := newAuthService(clock, nil)
	old := login(t, s, createTestUser(t, false))
	clock.Advance(SessionLifetime + time.Minute)
	current := login(t, s, createTestUser(t, false))

	// act
	_, err := s.SweepSessions(context.Background())

	// assert
	assert.NoError(t, err)
	_, err = sessionStore.ReadSession(
		context.Background(), old.SessionID, old.SecretKey, time.Time{},
	)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.True(t, s.IsLoggedIn(context.Background(), NewEvaluation(current.SessionID, current.SecretKey)))
}

func grantGroup(t *testing.T, u *store.User, modules []string, actions []store.ActionRight) {
	t.Helper()
	ctx := context.Background()
	g, err := rightsStore.CreateGroup(ctx, fmt.Sprintf("group-%d", userCount.Add(1)))
	require.NoError(t, err)
	require.NoError(t, rightsStore.AddUserToGroup(ctx, u.ID, g.ID))
	for _, m := range modules {
		require.NoError(t, rightsStore.GrantModule(ctx, g.ID, m))
	}
	for _, a := range actions {
		require.NoError(t, rightsStore.GrantAction(ctx, g.ID, a.Module, a.Action, a.Level))
	}
}

func TestAuthService_IsAllowedModule(t *testing.T) {
	t.Run("success - always allowed modules for anonymous", func(t *testing.T) {
		s := newAuthService(newFixedClock(), nil)
		ev := NewEvaluation("", "")

		assert.True(t, s.IsAllowedModule(context.Background(), ev, "Authentication"))
		assert.True(t, s.IsAllowedModule(context.Background(), ev, "core"))
		assert.True(t, s.IsAllowedModule(context.Background(), ev, "error"))
		assert.False(t, s.IsAllowedModule(context.Background(), ev, "Users"))
	})
	t.Run("failure - logged in without rights", func(t *testing.T) {
		s := newAuthService(newFixedClock(), nil)
		ev := login(t, s, createTestUser(t, false))

		assert.False(t, s.IsAllowedModule(context.Background(), ev, "Users"))
	})
	t.Run("success - module granted through a group", func(t *testing.T) {
		// arrange
		s := newAuthService(newFixedClock(), nil)
		u := createTestUser(t, false)
		grantGroup(t, u, []string{"Users"}, nil)
		ev := login(t, s, u)

		// act & assert
		assert.True(t, s.IsAllowedModule(context.Background(), ev, "users"))
		assert.False(t, s.IsAllowedModule(context.Background(), ev, "Groups"))
	})
	t.Run("failure - granted module is not installed", func(t *testing.T) {
		// arrange
		s := newAuthService(newFixedClock(), nil)
		u := createTestUser(t, false)
		grantGroup(t, u, []string{"Blog"}, nil)
		ev := login(t, s, u)

		// act & assert
		assert.False(t, s.IsAllowedModule(context.Background(), ev, "Blog"))
	})
	t.Run("success - god user gets every installed module", func(t *testing.T) {
		s := newAuthService(newFixedClock(), nil)
		ev := login(t, s, createTestUser(t, true))

		assert.True(t, s.IsAllowedModule(context.Background(), ev, "Users"))
		assert.True(t, s.IsAllowedModule(context.Background(), ev, "settings"))
		assert.False(t, s.IsAllowedModule(context.Background(), ev, "Blog"))
	})
	t.Run("failure - registry error denies god user", func(t *testing.T) {
		// arrange
		registry := &countingRegistry{err: errors.New("registry down")}
		s := newAuthService(newFixedClock(), registry)
		ev := login(t, s, createTestUser(t, true))

		// act & assert
		assert.False(t, s.IsAllowedModule(context.Background(), ev, "Users"))
		assert.True(t, s.IsAllowedModule(context.Background(), ev, "Core"))
	})
	t.Run("success - installed modules are read once per evaluation", func(t *testing.T) {
		// arrange
		registry := &countingRegistry{modules: []string{"Users", "Groups"}}
		s := newAuthService(newFixedClock(), registry)
		ev := login(t, s, createTestUser(t, true))

		// act
		s.IsAllowedModule(context.Background(), ev, "Users")
		s.IsAllowedModule(context.Background(), ev, "Groups")
		s.IsAllowedAction(context.Background(), ev, "Index", "Users")

		// assert
		assert.Equal(t, 1, registry.calls)
	})
}

func TestAuthService_IsAllowedAction(t *testing.T) {
	t.Run("success - always allowed actions for anonymous", func(t *testing.T) {
		s := newAuthService(newFixedClock(), nil)
		ev := NewEvaluation("", "")

		assert.True(t, s.IsAllowedAction(context.Background(), ev, "Index", "Authentication"))
		assert.True(t, s.IsAllowedAction(context.Background(), ev, "ResetPassword", "authentication"))
		assert.True(t, s.IsAllowedAction(context.Background(), ev, "GenerateUrl", "Core"))
		assert.True(t, s.IsAllowedAction(context.Background(), ev, "Index", "Error"))
		assert.False(t, s.IsAllowedAction(context.Background(), ev, "Index", "Users"))
	})
	t.Run("success - highest level across groups", func(t *testing.T) {
		// arrange
		s := newAuthService(newFixedClock(), nil)
		u := createTestUser(t, false)
		grantGroup(t, u, nil, []store.ActionRight{{Module: "Users", Action: "Edit", Level: 0}})
		grantGroup(t, u, nil, []store.ActionRight{{Module: "Users", Action: "Edit", Level: 3}})
		grantGroup(t, u, nil, []store.ActionRight{{Module: "Users", Action: "Delete", Level: 0}})
		ev := login(t, s, u)

		// act & assert
		assert.True(t, s.IsAllowedAction(context.Background(), ev, "Edit", "Users"))
		assert.False(t, s.IsAllowedAction(context.Background(), ev, "Delete", "Users"))
		assert.False(t, s.IsAllowedAction(context.Background(), ev, "Add", "Users"))
	})
	t.Run("failure - action of a module that is not installed", func(t *testing.T) {
		// arrange
		s := newAuthService(newFixedClock(), nil)
		u := createTestUser(t, false)
		grantGroup(t, u, nil, []store.ActionRight{{Module: "Blog", Action: "Index", Level: 7}})
		ev := login(t, s, u)

		// act & assert
		assert.False(t, s.IsAllowedAction(context.Background(), ev, "Index", "Blog"))
	})
	t.Run("success - god user runs any action of installed modules", func(t *testing.T) {
		s := newAuthService(newFixedClock(), nil)
		ev := login(t, s, createTestUser(t, true))

		assert.True(t, s.IsAllowedAction(context.Background(), ev, "Anything", "Users"))
		assert.False(t, s.IsAllowedAction(context.Background(), ev, "Index", "Blog"))
	})
	t.Run("success - rights do not leak between evaluations", func(t *testing.T) {
		// arrange
		s := newAuthService(newFixedClock(), nil)
		allowed := createTestUser(t, false)
		grantGroup(t, allowed, nil, []store.ActionRight{{Module: "Users", Action: "Index", Level: 7}})
		ev := login(t, s, allowed)
		require.True(t, s.IsAllowedAction(context.Background(), ev, "Index", "Users"))

		// act
		other := login(t, s, createTestUser(t, false))

		// assert
		assert.False(t, s.IsAllowedAction(context.Background(), other, "Index", "Users"))
	})
}
