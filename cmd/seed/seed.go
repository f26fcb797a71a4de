package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/haatos/simple-cms/internal/service"
	"github.com/haatos/simple-cms/internal/store"
)

type Seed struct {
	Modules []string    `yaml:"modules"`
	Users   []SeedUser  `yaml:"users"`
	Groups  []SeedGroup `yaml:"groups"`
}

type SeedUser struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	God      bool   `yaml:"god"`
}

type SeedGroup struct {
	Name    string       `yaml:"name"`
	Modules []string     `yaml:"modules"`
	Actions []SeedAction `yaml:"actions"`
	Users   []string     `yaml:"users"`
}

type SeedAction struct {
	Module string `yaml:"module"`
	Action string `yaml:"action"`
	Level  int64  `yaml:"level"`
}

type seeder struct {
	users       store.UserStore
	rights      store.RightsStore
	modules     *service.ModuleService
	userService *service.UserService
}

// Run applies seed. Existing users and groups are reused, so running the
// same file twice is harmless.
func (s *seeder) Run(ctx context.Context, seed *Seed) error {
	for _, m := range seed.Modules {
		if _, err := s.modules.InstallModule(ctx, m); err != nil {
			return fmt.Errorf("installing module %s: %w", m, err)
		}
	}

	for _, su := range seed.Users {
		_, err := s.users.ReadUserByEmail(ctx, su.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if _, err := s.userService.CreateUser(ctx, su.Email, su.Password, su.God); err != nil {
			return fmt.Errorf("creating user %s: %w", su.Email, err)
		}
	}

	for _, sg := range seed.Groups {
		g, err := s.rights.ReadGroupByName(ctx, sg.Name)
		if errors.Is(err, sql.ErrNoRows) {
			g, err = s.rights.CreateGroup(ctx, sg.Name)
		}
		if err != nil {
			return fmt.Errorf("group %s: %w", sg.Name, err)
		}
		for _, m := range sg.Modules {
			if err := s.rights.GrantModule(ctx, g.ID, service.NormalizeModule(m)); err != nil {
				return err
			}
		}
		for _, a := range sg.Actions {
			if err := s.rights.GrantAction(
				ctx, g.ID, service.NormalizeModule(a.Module), a.Action, a.Level,
			); err != nil {
				return err
			}
		}
		for _, email := range sg.Users {
			u, err := s.users.ReadUserByEmail(ctx, email)
			if err != nil {
				return fmt.Errorf("group %s member %s: %w", sg.Name, email, err)
			}
			if err := s.rights.AddUserToGroup(ctx, u.ID, g.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
