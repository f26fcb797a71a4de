package testutil

import (
	"context"
	"database/sql"
	"sync"

	"github.com/haatos/simple-cms/internal/store"
	"github.com/labstack/echo/v4"
)

// StaticSessionCookie always resolves to the same transport session id.
type StaticSessionCookie struct {
	SessionID string
}

func (s StaticSessionCookie) EnsureSessionID(echo.Context) (string, bool, error) {
	return s.SessionID, false, nil
}

// MemorySessionValues is an in-process store of session values.
type MemorySessionValues struct {
	mu     sync.Mutex
	values map[string]store.SessionValues
}

func NewMemorySessionValues() *MemorySessionValues {
	return &MemorySessionValues{values: make(map[string]store.SessionValues)}
}

func (m *MemorySessionValues) Get(_ context.Context, sessionID string) (*store.SessionValues, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sv, ok := m.values[sessionID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &sv, nil
}

func (m *MemorySessionValues) Set(_ context.Context, sv *store.SessionValues) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[sv.SessionID] = *sv
	return nil
}
