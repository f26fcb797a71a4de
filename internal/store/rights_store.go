package store

import "context"

type Group struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ActionRight is the highest level any of a user's groups grants for an action.
type ActionRight struct {
	Module string `json:"module"`
	Action string `json:"action"`
	Level  int64  `json:"level"`
}

type RightsStore interface {
	ListAllowedModules(context.Context, string, string) ([]string, error)
	ListAllowedActions(context.Context, string, string) ([]ActionRight, error)

	CreateGroup(context.Context, string) (*Group, error)
	ReadGroupByName(context.Context, string) (*Group, error)
	AddUserToGroup(context.Context, int64, int64) error
	GrantModule(context.Context, int64, string) error
	GrantAction(context.Context, int64, string, string, int64) error
}
