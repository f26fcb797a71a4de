package store

import (
	"context"
	"time"
)

type Module struct {
	Name        string    `json:"name"`
	Installed   bool      `json:"installed"`
	InstalledOn time.Time `json:"installed_on"`
}

type ModuleStore interface {
	ListInstalledModules(context.Context) ([]string, error)
	InstallModule(context.Context, string) error
	UninstallModule(context.Context, string) error
	ReadModuleSetting(context.Context, string, string) (string, error)
	UpdateModuleSetting(context.Context, string, string, string) error
}
