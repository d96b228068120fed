package astar

import (
	"errors"

	"github.com/gravitas-games/robotplanner/pkg/grid"
)

// ErrNoPath is returned when the goal cannot be reached from the start.
var ErrNoPath = errors.New("no path found")

// Graph supplies the passable neighbours of a cell. *grid.Grid implements it.
type Graph interface {
	Neighbors(c grid.Cell) []grid.Cell
}

// Stats describes the work done by one search.
type Stats struct {
	Expanded int // cells taken off the frontier
	Inserted int // frontier insertions, start included
	Cost     int // cost of the returned path, 0 when none
}

type options struct {
	stats *Stats
}

// Option configures a search.
type Option func(*options)

// WithStats makes Search record its counters into s.
func WithStats(s *Stats) Option {
	return func(o *options) { o.stats = s }
}

// Search finds a shortest 4-directional path from start to end with A*,
// using unit step costs and the Manhattan distance as heuristic.
//
// The loop stops the first time end is taken off the frontier. With unit
// costs and a consistent heuristic that entry already carries the minimum
// cost. Equal priorities are expanded in insertion order, so results are
// reproducible.
//
// start and end are assumed to be passable cells of g.
func Search(g Graph, start, end grid.Cell, opts ...Option) (Path, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	stats := o.stats
	if stats == nil {
		stats = &Stats{}
	}
	*stats = Stats{}

	cost := map[grid.Cell]int{start: 0}
	parent := map[grid.Cell]grid.Cell{start: start}

	open := newFrontier()
	open.Insert(start, 0)
	stats.Inserted++

	for !open.Empty() {
		cur, _ := open.ExtractMin()
		stats.Expanded++
		if cur == end {
			break
		}

		for _, nb := range g.Neighbors(cur) {
			tentative := cost[cur] + 1
			if old, seen := cost[nb]; !seen || tentative < old {
				cost[nb] = tentative
				parent[nb] = cur
				open.Insert(nb, tentative+grid.Manhattan(nb, end))
				stats.Inserted++
			}
		}
	}

	path, err := Reconstruct(parent, start, end)
	if err != nil {
		return nil, err
	}
	stats.Cost = cost[end]
	return path, nil
}
