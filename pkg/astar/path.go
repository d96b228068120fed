package astar

import "github.com/gravitas-games/robotplanner/pkg/grid"

// Path is an ordered sequence of cells from start to end inclusive.
type Path []grid.Cell

// Steps returns the number of moves along the path.
func (p Path) Steps() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Start returns the first cell. It panics on an empty path.
func (p Path) Start() grid.Cell { return p[0] }

// End returns the last cell. It panics on an empty path.
func (p Path) End() grid.Cell { return p[len(p)-1] }

// Contains reports whether c is on the path.
func (p Path) Contains(c grid.Cell) bool {
	for _, pc := range p {
		if pc == c {
			return true
		}
	}
	return false
}

// Reconstruct follows parent pointers back from end to start and returns the
// path in start-to-end order. The start cell maps to itself in parent.
// ErrNoPath is returned when end was never reached.
func Reconstruct(parent map[grid.Cell]grid.Cell, start, end grid.Cell) (Path, error) {
	if _, ok := parent[end]; !ok {
		return nil, ErrNoPath
	}

	path := Path{end}
	for cur := end; cur != start; {
		prev, ok := parent[cur]
		if !ok || prev == cur {
			return nil, ErrNoPath
		}
		path = append(path, prev)
		cur = prev
	}

	// reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}
