// Package planner validates route requests, runs the search and reports
// results. It is shared by the command line, batch plans and the server.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gravitas-games/robotplanner/internal/ctxlog"
	"github.com/gravitas-games/robotplanner/internal/envfile"
	"github.com/gravitas-games/robotplanner/internal/mapstore"
	"github.com/gravitas-games/robotplanner/internal/metrics"
	"github.com/gravitas-games/robotplanner/internal/render"
	"github.com/gravitas-games/robotplanner/internal/routecache"
	"github.com/gravitas-games/robotplanner/pkg/astar"
	"github.com/gravitas-games/robotplanner/pkg/grid"
)

var (
	ErrUnknownMap   = errors.New("unknown map")
	ErrStartOutside = errors.New("start is outside the map")
	ErrEndOutside   = errors.New("end is outside the map")
	ErrStartOnWall  = errors.New("start is on a wall")
	ErrEndOnWall    = errors.New("end is on a wall")
)

// Message returns the text shown to users for err.
func Message(err error) string {
	switch {
	case errors.Is(err, envfile.ErrNotExist):
		return "Specified environment file does not exist."
	case errors.Is(err, ErrStartOutside):
		return "Starting coordinates are out of world."
	case errors.Is(err, ErrEndOutside):
		return "Ending coordinates are out of the world."
	case errors.Is(err, ErrStartOnWall):
		return "Starting point is on a non-empty space."
	case errors.Is(err, ErrEndOnWall):
		return "Ending point is on a non-empty space."
	case errors.Is(err, astar.ErrNoPath):
		return "No path could be found."
	default:
		return err.Error()
	}
}

// Validate checks that start and end are passable cells of g.
func Validate(g *grid.Grid, start, end grid.Cell) error {
	if !g.Contains(start) {
		return fmt.Errorf("%w: %v", ErrStartOutside, start)
	}
	if !g.Contains(end) {
		return fmt.Errorf("%w: %v", ErrEndOutside, end)
	}
	if !g.IsPassable(start) {
		return fmt.Errorf("%w: %v", ErrStartOnWall, start)
	}
	if !g.IsPassable(end) {
		return fmt.Errorf("%w: %v", ErrEndOnWall, end)
	}
	return nil
}

// Route validates the endpoints and searches g.
func Route(ctx context.Context, g *grid.Grid, start, end grid.Cell) (astar.Path, astar.Stats, error) {
	var stats astar.Stats
	if err := Validate(g, start, end); err != nil {
		metrics.RouteRequests.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, stats, err
	}

	began := time.Now()
	path, err := astar.Search(g, start, end, astar.WithStats(&stats))
	elapsed := time.Since(began)
	metrics.ObserveSearch(elapsed, stats.Expanded)

	ctxlog.FromContext(ctx).Debug("Search finished",
		"start", start, "end", end, "expanded", stats.Expanded, "inserted", stats.Inserted,
		"elapsed", elapsed, "found", err == nil)

	if err != nil {
		metrics.RouteRequests.WithLabelValues(metrics.ResultNoPath).Inc()
		return nil, stats, err
	}
	metrics.RouteRequests.WithLabelValues(metrics.ResultFound).Inc()
	return path, stats, nil
}

// Request asks for a route on a named map.
type Request struct {
	Map   string
	Start grid.Cell
	End   grid.Cell
}

// Result is a planned route.
type Result struct {
	Map        string
	Start      grid.Cell
	End        grid.Cell
	Path       astar.Path
	Directions string
	Cached     bool
	Stats      astar.Stats // zero when Cached
}

// Planner answers requests against a map store, with an optional cache.
type Planner struct {
	maps  *mapstore.Store
	cache routecache.Cache
}

// New creates a planner. cache may be nil.
func New(maps *mapstore.Store, cache routecache.Cache) *Planner {
	return &Planner{maps: maps, cache: cache}
}

// Maps returns the store the planner routes on.
func (p *Planner) Maps() *mapstore.Store { return p.maps }

// Plan answers req. Cache failures are logged and never fail the request.
func (p *Planner) Plan(ctx context.Context, req Request) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	m, ok := p.maps.Get(req.Map)
	if !ok {
		metrics.RouteRequests.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, fmt.Errorf("%w %q", ErrUnknownMap, req.Map)
	}

	key := routecache.Key{Map: m.Name, Fingerprint: m.Fingerprint, Start: req.Start, End: req.End}
	if res, ok := p.lookup(ctx, m, key); ok {
		return res, nil
	}

	path, stats, err := Route(ctx, m.Grid, req.Start, req.End)
	if err != nil {
		return nil, err
	}
	dirs, err := render.FormatDirections(path)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		if err := p.cache.Put(ctx, key, dirs); err != nil {
			logger.Warn("Failed to cache route", "key", key.String(), "error", err)
		}
	}

	return &Result{
		Map:        m.Name,
		Start:      req.Start,
		End:        req.End,
		Path:       path,
		Directions: dirs,
		Stats:      stats,
	}, nil
}

func (p *Planner) lookup(ctx context.Context, m *mapstore.Map, key routecache.Key) (*Result, bool) {
	if p.cache == nil {
		return nil, false
	}
	logger := ctxlog.FromContext(ctx)

	dirs, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheLookups.WithLabelValues(metrics.CacheError).Inc()
		logger.Warn("Route cache lookup failed", "key", key.String(), "error", err)
		return nil, false
	}
	if !ok {
		metrics.CacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
		return nil, false
	}

	moves, err := render.ParseDirections(dirs)
	if err != nil {
		metrics.CacheLookups.WithLabelValues(metrics.CacheError).Inc()
		logger.Warn("Discarding corrupt cached route", "key", key.String(), "error", err)
		return nil, false
	}
	path := render.Walk(key.Start, moves)
	if path.End() != key.End || !onGrid(m.Grid, path) {
		metrics.CacheLookups.WithLabelValues(metrics.CacheError).Inc()
		logger.Warn("Discarding cached route that does not fit the map", "key", key.String())
		return nil, false
	}

	metrics.CacheLookups.WithLabelValues(metrics.CacheHit).Inc()
	metrics.RouteRequests.WithLabelValues(metrics.ResultFound).Inc()
	return &Result{
		Map:        m.Name,
		Start:      key.Start,
		End:        key.End,
		Path:       path,
		Directions: dirs,
		Cached:     true,
	}, true
}

func onGrid(g *grid.Grid, p astar.Path) bool {
	for _, c := range p {
		if !g.IsPassable(c) {
			return false
		}
	}
	return true
}
