package store

import (
	"context"
	"time"
)

const (
	SettingPasswordKey            = "password_key"
	SettingResetPasswordKey       = "reset_password_key"
	SettingResetPasswordTimestamp = "reset_password_timestamp"
)

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Active    bool      `json:"active"`
	Deleted   bool      `json:"deleted"`
	IsGod     bool      `json:"is_god"`
	CreatedOn time.Time `json:"created_on"`
}

func (u *User) CanLogin() bool {
	return u != nil && u.Active && !u.Deleted
}

type UserStore interface {
	CreateUser(context.Context, string, string, bool) (*User, error)
	ReadUserByID(context.Context, int64) (*User, error)
	ReadUserByEmail(context.Context, string) (*User, error)
	ReadActiveUserID(context.Context, string, string) (int64, error)
	UpdateUserPassword(context.Context, int64, string) error
	UpdateUserActive(context.Context, int64, bool) error
	DeleteUser(context.Context, int64) error
	ListUsers(context.Context) ([]*User, error)
	ListGodUsers(context.Context) ([]*User, error)

	ReadUserSetting(context.Context, int64, string) (string, error)
	UpdateUserSetting(context.Context, int64, string, string) error
	DeleteUserSetting(context.Context, int64, string) error
}
