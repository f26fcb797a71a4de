package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrMissingSessionID   = errors.New("missing transport session id")
	ErrInvalidResetKey    = errors.New("invalid reset password key")
	ErrResetKeyExpired    = errors.New("reset password key expired")
)

var ErrProtectedModule = errors.New("module cannot be uninstalled")
