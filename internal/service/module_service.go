package service

import (
	"context"
	"slices"

	"github.com/haatos/simple-cms/internal/store"
	"go.uber.org/zap"
)

type ModuleService struct {
	moduleStore store.ModuleStore
	logger      *zap.SugaredLogger
}

func NewModuleService(s store.ModuleStore, logger *zap.SugaredLogger) *ModuleService {
	return &ModuleService{moduleStore: s, logger: logger}
}

func (s *ModuleService) ListInstalledModules(ctx context.Context) ([]string, error) {
	return s.moduleStore.ListInstalledModules(ctx)
}

func (s *ModuleService) InstallModule(ctx context.Context, module string) (string, error) {
	module = NormalizeModule(module)
	if err := s.moduleStore.InstallModule(ctx, module); err != nil {
		return "", err
	}
	s.logger.Infow("module installed", "module", module)
	return module, nil
}

// UninstallModule marks module as not installed. The always allowed modules
// stay installed.
func (s *ModuleService) UninstallModule(ctx context.Context, module string) error {
	module = NormalizeModule(module)
	if slices.Contains(alwaysAllowedModules, module) {
		return ErrProtectedModule
	}
	if err := s.moduleStore.UninstallModule(ctx, module); err != nil {
		return err
	}
	s.logger.Infow("module uninstalled", "module", module)
	return nil
}

func (s *ModuleService) GetModuleSetting(ctx context.Context, module, name string) (string, error) {
	return s.moduleStore.ReadModuleSetting(ctx, NormalizeModule(module), name)
}

func (s *ModuleService) SetModuleSetting(ctx context.Context, module, name, value string) error {
	return s.moduleStore.UpdateModuleSetting(ctx, NormalizeModule(module), name, value)
}
