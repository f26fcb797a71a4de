package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/haatos/simple-cms/internal/security"
	"github.com/haatos/simple-cms/internal/store"
	"github.com/haatos/simple-cms/internal/util"
	"go.uber.org/zap"
)

// SessionLifetime is the inactivity window after which a session row is no
// longer trusted.
const SessionLifetime = 30 * time.Minute

var alwaysAllowedModules = []string{"Core", "Error", "Authentication"}

var alwaysAllowedActions = map[string]map[string]int64{
	"Core":           {"GenerateUrl": 7, "ContentCss": 7, "Templates": 7},
	"Error":          {"Index": 7},
	"Authentication": {"Index": 7, "ResetPassword": 7, "Logout": 7},
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

type AuthUserReader interface {
	ReadUserByID(context.Context, int64) (*store.User, error)
	ReadUserByEmail(context.Context, string) (*store.User, error)
	ReadActiveUserID(context.Context, string, string) (int64, error)
	ReadUserSetting(context.Context, int64, string) (string, error)
}

type RightsReader interface {
	ListAllowedModules(context.Context, string, string) ([]string, error)
	ListAllowedActions(context.Context, string, string) ([]store.ActionRight, error)
}

type ModuleRegistry interface {
	ListInstalledModules(context.Context) ([]string, error)
}

type AuthService struct {
	users    AuthUserReader
	sessions store.SessionStore
	rights   RightsReader
	modules  ModuleRegistry
	clock    Clock
	logger   *zap.SugaredLogger
}

func NewAuthService(
	users AuthUserReader,
	sessions store.SessionStore,
	rights RightsReader,
	modules ModuleRegistry,
	clock Clock,
	logger *zap.SugaredLogger,
) *AuthService {
	return &AuthService{users, sessions, rights, modules, clock, logger}
}

func (s *AuthService) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Second)
}

// NormalizeModule returns the canonical camel-case form of a module name.
func NormalizeModule(module string) string {
	return util.ToCamelCase(module)
}

// EncryptedPassword hashes password with the per-user key of the user with
// the given email.
func (s *AuthService) EncryptedPassword(
	ctx context.Context,
	email, password string,
) (string, error) {
	u, err := s.users.ReadUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading user by email: %w", err)
	}
	key, err := s.users.ReadUserSetting(ctx, u.ID, store.SettingPasswordKey)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("reading password key: %w", err)
	}
	return security.EncryptString(password, key), nil
}

// IsLoggedIn validates the evaluation's session tokens. A matching, fresh
// session row has its date refreshed. The outcome is memoised on ev.
func (s *AuthService) IsLoggedIn(ctx context.Context, ev *Evaluation) bool {
	if ev.loggedIn != nil {
		return *ev.loggedIn
	}

	if ev.SessionID != "" && ev.SecretKey != "" {
		now := s.now()
		session, err := s.sessions.ReadSession(
			ctx, ev.SessionID, ev.SecretKey, now.Add(-SessionLifetime),
		)
		switch {
		case err == nil:
			if err := s.sessions.UpdateSessionDate(ctx, session.ID, now); err != nil {
				s.logger.Warnw("refreshing session", "session", session.ID, "error", err)
			}
			u, err := s.users.ReadUserByID(ctx, session.UserID)
			if err == nil {
				ev.setLoggedIn(u)
				return true
			}
			s.logger.Warnw("reading session user", "user", session.UserID, "error", err)
		case !errors.Is(err, sql.ErrNoRows):
			s.logger.Warnw("reading session", "error", err)
		}
	}

	ev.setAnonymous()
	return false
}

// Login checks the credentials and, on success, stores a new session row for
// the evaluation's transport session id.
func (s *AuthService) Login(
	ctx context.Context,
	ev *Evaluation,
	email, password string,
) (*store.UserSession, error) {
	if ev.SessionID == "" {
		ev.setAnonymous()
		return nil, ErrMissingSessionID
	}

	hash, err := s.EncryptedPassword(ctx, email, password)
	if errors.Is(err, ErrUserNotFound) {
		// unknown emails still run the lookup below so both paths do the same work
		hash = security.EncryptString(password, "")
	} else if err != nil {
		ev.setAnonymous()
		return nil, err
	}

	userID, err := s.users.ReadActiveUserID(ctx, email, hash)
	if errors.Is(err, sql.ErrNoRows) {
		ev.setAnonymous()
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		ev.setAnonymous()
		return nil, fmt.Errorf("reading user by credentials: %w", err)
	}

	now := s.now()
	if _, err := s.SweepSessions(ctx); err != nil {
		s.logger.Warnw("sweeping expired sessions", "error", err)
	}

	secretKey := security.EncryptString(ev.SessionID, strconv.FormatInt(userID, 10))
	session, err := s.sessions.CreateSession(ctx, ev.SessionID, secretKey, userID, now)
	if err != nil {
		ev.setAnonymous()
		return nil, fmt.Errorf("creating session: %w", err)
	}

	u, err := s.users.ReadUserByID(ctx, userID)
	if err != nil {
		ev.setAnonymous()
		return nil, fmt.Errorf("reading user: %w", err)
	}

	ev.SecretKey = secretKey
	ev.setLoggedIn(u)
	s.logger.Infow("user logged in", "user", userID)
	return session, nil
}

// Logout deletes every session row of the evaluation's transport session id
// and clears the evaluation's tokens.
func (s *AuthService) Logout(ctx context.Context, ev *Evaluation) error {
	err := s.sessions.DeleteSessionsBySessionID(ctx, ev.SessionID)
	ev.setAnonymous()
	ev.CSRFToken = ""
	if err != nil {
		return fmt.Errorf("deleting sessions: %w", err)
	}
	return nil
}

// SweepSessions deletes every session row older than SessionLifetime.
func (s *AuthService) SweepSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteSessionsBefore(ctx, s.now().Add(-SessionLifetime))
}

// IsAllowedModule reports whether the evaluation's identity may access module.
func (s *AuthService) IsAllowedModule(ctx context.Context, ev *Evaluation, module string) bool {
	module = NormalizeModule(module)

	if slices.Contains(alwaysAllowedModules, module) {
		return true
	}
	if !s.IsLoggedIn(ctx, ev) {
		return false
	}
	if !s.installedModules(ctx, ev)[module] {
		return false
	}
	if ev.user.IsGod {
		return true
	}

	if ev.allowedModules == nil {
		ev.allowedModules = make(map[string]bool)
		modules, err := s.rights.ListAllowedModules(ctx, ev.SessionID, ev.SecretKey)
		if err != nil {
			s.logger.Warnw("listing allowed modules", "error", err)
		}
		for _, m := range modules {
			ev.allowedModules[m] = true
		}
	}

	return ev.allowedModules[module]
}

// IsAllowedAction reports whether the evaluation's identity may run action
// of module.
func (s *AuthService) IsAllowedAction(
	ctx context.Context,
	ev *Evaluation,
	action, module string,
) bool {
	module = NormalizeModule(module)

	if _, ok := alwaysAllowedActions[module][action]; ok {
		return true
	}
	if !s.IsLoggedIn(ctx, ev) {
		return false
	}
	installed := s.installedModules(ctx, ev)
	if installed[module] && ev.user.IsGod {
		return true
	}

	if ev.allowedActions == nil {
		ev.allowedActions = make(map[string]map[string]int64)
		rights, err := s.rights.ListAllowedActions(ctx, ev.SessionID, ev.SecretKey)
		if err != nil {
			s.logger.Warnw("listing allowed actions", "error", err)
		}
		for _, r := range rights {
			if !installed[r.Module] {
				continue
			}
			if ev.allowedActions[r.Module] == nil {
				ev.allowedActions[r.Module] = make(map[string]int64)
			}
			ev.allowedActions[r.Module][r.Action] = max(ev.allowedActions[r.Module][r.Action], r.Level)
		}
	}

	return ev.allowedActions[module][action] > 0
}

// installedModules is empty when the registry fails, which denies everything
// outside the always allowed list.
func (s *AuthService) installedModules(ctx context.Context, ev *Evaluation) map[string]bool {
	if ev.installedModules != nil {
		return ev.installedModules
	}
	ev.installedModules = make(map[string]bool)
	modules, err := s.modules.ListInstalledModules(ctx)
	if err != nil {
		s.logger.Warnw("listing installed modules", "error", err)
		return ev.installedModules
	}
	for _, m := range modules {
		ev.installedModules[m] = true
	}
	return ev.installedModules
}
