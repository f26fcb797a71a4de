package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockModuleService struct {
	mock.Mock
}

func (m *MockModuleService) ListInstalledModules(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockModuleService) InstallModule(ctx context.Context, module string) (string, error) {
	args := m.Called(ctx, module)
	return args.String(0), args.Error(1)
}

func (m *MockModuleService) UninstallModule(ctx context.Context, module string) error {
	args := m.Called(ctx, module)
	return args.Error(0)
}

func (m *MockModuleService) GetModuleSetting(ctx context.Context, module, name string) (string, error) {
	args := m.Called(ctx, module, name)
	return args.String(0), args.Error(1)
}

func (m *MockModuleService) SetModuleSetting(ctx context.Context, module, name, value string) error {
	args := m.Called(ctx, module, name, value)
	return args.Error(0)
}
