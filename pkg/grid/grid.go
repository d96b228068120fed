// Package grid models a rectangular obstacle map of square cells.
package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned when a grid would have no rows or no columns.
	ErrEmpty = errors.New("grid has no cells")
	// ErrNotRectangular is returned when rows differ in length.
	ErrNotRectangular = errors.New("grid rows have different lengths")
)

// Grid is an immutable obstacle map. A Grid is never modified after From
// returns, so it can be shared by concurrent searches.
type Grid struct {
	walls  [][]bool
	width  int
	height int
}

// From builds a Grid from rows of obstacle flags, top row first. true marks
// a wall. The rows are copied.
func From(walls [][]bool) (*Grid, error) {
	if len(walls) == 0 || len(walls[0]) == 0 {
		return nil, ErrEmpty
	}

	width := len(walls[0])
	data := make([][]bool, len(walls))
	for y, row := range walls {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrNotRectangular, y, len(row), width)
		}
		data[y] = append([]bool(nil), row...)
	}

	return &Grid{walls: data, width: width, height: len(data)}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Contains reports whether c lies inside the grid.
func (g *Grid) Contains(c Cell) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

// IsWall reports whether c is inside the grid and blocked.
func (g *Grid) IsWall(c Cell) bool {
	return g.Contains(c) && g.walls[c.Y][c.X]
}

// IsPassable reports whether c is inside the grid and not blocked.
func (g *Grid) IsPassable(c Cell) bool {
	return g.Contains(c) && !g.walls[c.Y][c.X]
}

// Neighbors returns the passable cells adjacent to c, in Directions order.
func (g *Grid) Neighbors(c Cell) []Cell {
	out := make([]Cell, 0, len(Directions))
	for _, d := range Directions {
		n := c.Add(d)
		if g.IsPassable(n) {
			out = append(out, n)
		}
	}
	return out
}

// Walls returns a copy of the obstacle rows.
func (g *Grid) Walls() [][]bool {
	out := make([][]bool, g.height)
	for y, row := range g.walls {
		out[y] = append([]bool(nil), row...)
	}
	return out
}
