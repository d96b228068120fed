// Package routecache stores computed routes so repeated requests skip the
// search. Only successful routes are cached; values are direction strings.
package routecache

import (
	"context"
	"fmt"
	"sync"

	"github.com/gravitas-games/robotplanner/pkg/grid"
)

// Key identifies a route on a specific version of a map.
type Key struct {
	Map         string
	Fingerprint uint64
	Start       grid.Cell
	End         grid.Cell
}

// String renders the key as "map@fingerprint:x1,y1:x2,y2".
func (k Key) String() string {
	return fmt.Sprintf("%s@%016x:%d,%d:%d,%d", k.Map, k.Fingerprint, k.Start.X, k.Start.Y, k.End.X, k.End.Y)
}

// Cache is implemented by Memory and Redis.
type Cache interface {
	// Get returns the cached directions for key; ok is false on a miss.
	Get(ctx context.Context, key Key) (directions string, ok bool, err error)
	// Put stores directions for key.
	Put(ctx context.Context, key Key, directions string) error
}

// Memory is an in-process Cache safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	routes map[string]string
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{routes: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key Key) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dirs, ok := m.routes[key.String()]
	return dirs, ok, nil
}

func (m *Memory) Put(_ context.Context, key Key, directions string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.routes[key.String()] = directions
	return nil
}

// Len returns the number of cached routes.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.routes)
}
