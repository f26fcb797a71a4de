package service

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/haatos/simple-cms/internal/security"
	"github.com/haatos/simple-cms/internal/store"
	"go.uber.org/zap"
	"golang.org/x/term"
)

type UserWriter interface {
	CreateUser(context.Context, string, string, bool) (*store.User, error)
	UpdateUserPassword(context.Context, int64, string) error
	UpdateUserActive(context.Context, int64, bool) error
	DeleteUser(context.Context, int64) error
}

type UserReader interface {
	ReadUserByID(context.Context, int64) (*store.User, error)
	ReadUserByEmail(context.Context, string) (*store.User, error)
	ListUsers(context.Context) ([]*store.User, error)
	ListGodUsers(context.Context) ([]*store.User, error)
}

type UserSettingStore interface {
	ReadUserSetting(context.Context, int64, string) (string, error)
	UpdateUserSetting(context.Context, int64, string, string) error
	DeleteUserSetting(context.Context, int64, string) error
}

type UserStore interface {
	UserWriter
	UserReader
	UserSettingStore
}

// Mailer delivers the password reset link.
type Mailer interface {
	SendResetPassword(ctx context.Context, email, link string) error
}

type UserService struct {
	userStore    UserStore
	mailer       Mailer
	clock        Clock
	resetExpires time.Duration
	logger       *zap.SugaredLogger
}

func NewUserService(
	s UserStore,
	mailer Mailer,
	clock Clock,
	resetExpires time.Duration,
	logger *zap.SugaredLogger,
) *UserService {
	return &UserService{
		userStore:    s,
		mailer:       mailer,
		clock:        clock,
		resetExpires: resetExpires,
		logger:       logger,
	}
}

func (s *UserService) GetUserByID(ctx context.Context, userID int64) (*store.User, error) {
	return s.userStore.ReadUserByID(ctx, userID)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*store.User, error) {
	users, err := s.userStore.ListUsers(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return users, nil
}

// CreateUser stores a user with a fresh per-user password key.
func (s *UserService) CreateUser(
	ctx context.Context,
	email, password string,
	isGod bool,
) (*store.User, error) {
	key := uuid.NewString()
	u, err := s.userStore.CreateUser(ctx, email, security.EncryptString(password, key), isGod)
	if err != nil {
		return nil, err
	}
	if err := s.userStore.UpdateUserSetting(ctx, u.ID, store.SettingPasswordKey, key); err != nil {
		return nil, err
	}
	return u, nil
}

// SetUserPassword hashes password with the user's existing password key.
func (s *UserService) SetUserPassword(ctx context.Context, userID int64, password string) error {
	key, err := s.userStore.ReadUserSetting(ctx, userID, store.SettingPasswordKey)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return s.userStore.UpdateUserPassword(ctx, userID, security.EncryptString(password, key))
}

func (s *UserService) DeleteUser(ctx context.Context, userID int64) error {
	return s.userStore.DeleteUser(ctx, userID)
}

// RequestPasswordReset stores a reset key for the user and mails a link
// pointing at baseURL.
func (s *UserService) RequestPasswordReset(ctx context.Context, email, baseURL string) error {
	u, err := s.userStore.ReadUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	key := security.EncryptString(email, uuid.NewString())
	if err := s.userStore.UpdateUserSetting(
		ctx, u.ID, store.SettingResetPasswordKey, key,
	); err != nil {
		return err
	}
	if err := s.userStore.UpdateUserSetting(
		ctx, u.ID,
		store.SettingResetPasswordTimestamp,
		strconv.FormatInt(s.clock.Now().Unix(), 10),
	); err != nil {
		return err
	}

	params := url.Values{}
	params.Set("email", email)
	params.Set("key", key)
	link := baseURL + "/authentication/reset-password?" + params.Encode()
	if err := s.mailer.SendResetPassword(ctx, email, link); err != nil {
		return fmt.Errorf("sending reset password mail: %w", err)
	}
	return nil
}

// VerifyResetKey returns the user the reset key was issued to.
func (s *UserService) VerifyResetKey(
	ctx context.Context,
	email, key string,
) (*store.User, error) {
	u, err := s.userStore.ReadUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidResetKey
	}
	if err != nil {
		return nil, err
	}

	stored, err := s.userStore.ReadUserSetting(ctx, u.ID, store.SettingResetPasswordKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidResetKey
	}
	if err != nil {
		return nil, err
	}
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(key)) != 1 {
		return nil, ErrInvalidResetKey
	}

	ts, err := s.userStore.ReadUserSetting(ctx, u.ID, store.SettingResetPasswordTimestamp)
	if err != nil {
		return nil, ErrInvalidResetKey
	}
	issued, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return nil, ErrInvalidResetKey
	}
	if s.clock.Now().Sub(time.Unix(issued, 0)) > s.resetExpires {
		return nil, ErrResetKeyExpired
	}
	return u, nil
}

// ResetPassword sets a new password when key is a valid reset key for email.
// The key can only be used once.
func (s *UserService) ResetPassword(ctx context.Context, email, key, password string) error {
	u, err := s.VerifyResetKey(ctx, email, key)
	if err != nil {
		return err
	}
	if err := s.SetUserPassword(ctx, u.ID, password); err != nil {
		return err
	}
	if err := s.userStore.DeleteUserSetting(ctx, u.ID, store.SettingResetPasswordKey); err != nil {
		return err
	}
	if err := s.userStore.DeleteUserSetting(
		ctx, u.ID, store.SettingResetPasswordTimestamp,
	); err != nil {
		return err
	}
	s.logger.Infow("password reset", "user", u.ID)
	return nil
}

// InitializeGodUser prompts for the first god user when none exists.
func (s *UserService) InitializeGodUser(ctx context.Context) {
	users, err := s.userStore.ListGodUsers(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Fatal(err)
	}
	if len(users) > 0 {
		return
	}

	fmt.Println("Create a god user")
	fmt.Print("Email: ")
	var email string
	if _, err := fmt.Scanln(&email); err != nil {
		log.Fatal(err)
	}
	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		log.Fatal(err)
	}
	if strength := security.CheckPassword(string(passwordBytes)); strength == security.Weak {
		log.Fatal("password is too weak")
	}

	if _, err := s.CreateUser(ctx, email, string(passwordBytes), true); err != nil {
		log.Fatal(err)
	}
}
