package testutil

import (
	"context"

	"github.com/haatos/simple-cms/internal/service"
	"github.com/haatos/simple-cms/internal/store"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) IsLoggedIn(ctx context.Context, ev *service.Evaluation) bool {
	args := m.Called(ctx, ev)
	return args.Bool(0)
}

func (m *MockAuthService) Login(
	ctx context.Context,
	ev *service.Evaluation,
	email, password string,
) (*store.UserSession, error) {
	args := m.Called(ctx, ev, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.UserSession), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, ev *service.Evaluation) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockAuthService) IsAllowedModule(
	ctx context.Context,
	ev *service.Evaluation,
	module string,
) bool {
	args := m.Called(ctx, ev, module)
	return args.Bool(0)
}

func (m *MockAuthService) IsAllowedAction(
	ctx context.Context,
	ev *service.Evaluation,
	action, module string,
) bool {
	args := m.Called(ctx, ev, action, module)
	return args.Bool(0)
}
