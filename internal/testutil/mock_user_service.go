package testutil

import (
	"context"

	"github.com/haatos/simple-cms/internal/store"
	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]*store.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID int64) (*store.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.User), args.Error(1)
}

func (m *MockUserService) CreateUser(
	ctx context.Context,
	email, password string,
	isGod bool,
) (*store.User, error) {
	args := m.Called(ctx, email, password, isGod)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.User), args.Error(1)
}

func (m *MockUserService) SetUserPassword(ctx context.Context, userID int64, password string) error {
	args := m.Called(ctx, userID, password)
	return args.Error(0)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserService) RequestPasswordReset(ctx context.Context, email, baseURL string) error {
	args := m.Called(ctx, email, baseURL)
	return args.Error(0)
}

func (m *MockUserService) VerifyResetKey(
	ctx context.Context,
	email, key string,
) (*store.User, error) {
	args := m.Called(ctx, email, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.User), args.Error(1)
}

func (m *MockUserService) ResetPassword(ctx context.Context, email, key, password string) error {
	args := m.Called(ctx, email, key, password)
	return args.Error(0)
}
