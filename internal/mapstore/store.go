// Package mapstore holds the named grids a planner can route on.
package mapstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/gravitas-games/robotplanner/internal/ctxlog"
	"github.com/gravitas-games/robotplanner/internal/envfile"
	"github.com/gravitas-games/robotplanner/pkg/grid"
)

// ErrDuplicate is returned when two maps share a name.
var ErrDuplicate = errors.New("duplicate map name")

// Map is a named, immutable grid.
type Map struct {
	Name        string
	Source      string // file the map was read from, if any
	Grid        *grid.Grid
	Fingerprint uint64 // changes whenever the obstacle layout changes
}

// Store represents the set of maps available to planners
type Store struct {
	maps map[string]*Map
	mu   sync.RWMutex
}

// New creates an empty store.
func New() *Store {
	return &Store{maps: make(map[string]*Map)}
}

// LoadDir creates a store from every environment file below dir. Each map
// is named after its file without the extension.
func LoadDir(ctx context.Context, dir string) (*Store, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Loading maps", "dir", dir)

	s := New()
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), envfile.Extension) {
			return nil
		}

		g, err := envfile.Load(path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(d.Name(), envfile.Extension)
		m, err := s.Add(name, path, g)
		if err != nil {
			return err
		}
		logger.Debug("Map loaded", "name", m.Name, "width", g.Width(), "height", g.Height())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load maps from %s: %w", dir, err)
	}

	logger.Info("Maps loaded", "count", s.Len())
	return s, nil
}

// Add registers g under name.
func (s *Store) Add(name, source string, g *grid.Grid) (*Map, error) {
	m := &Map{Name: name, Source: source, Grid: g, Fingerprint: Fingerprint(g)}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, exists := s.maps[name]; exists {
		return nil, fmt.Errorf("%w %q (%s and %s)", ErrDuplicate, name, prev.Source, source)
	}
	s.maps[name] = m
	return m, nil
}

// Get retrieves a map by name
func (s *Store) Get(name string) (*Map, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, exists := s.maps[name]
	return m, exists
}

// Names returns all map names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.maps))
	for name := range s.maps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of maps.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.maps)
}

// Fingerprint hashes the obstacle layout of g.
func Fingerprint(g *grid.Grid) uint64 {
	var buf bytes.Buffer
	_ = envfile.Write(&buf, g)
	return xxhash.Sum64(buf.Bytes())
}
