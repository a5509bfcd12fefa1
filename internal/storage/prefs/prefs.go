// Package prefs stores operator preferences: the filter record and the
// session name/role. It stands in for the browser's local storage.
package prefs

import (
	"context"
	"fmt"
	"sync"

	"ems-dashboard/internal/config"
)

type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// New opens the store selected by cfg.Driver.
func New(cfg config.Storage) (Store, error) {
	const op = "storage.prefs.New"

	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverMySQL, DriverSQLite:
		s, err := Open(cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%s: unknown driver %q", op, cfg.Driver)
	}
}

const DriverMemory = "memory"

type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

func (m *Memory) Close() error { return nil }
