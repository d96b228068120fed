package grid

import "fmt"

// Cell is an (x, y) coordinate on a square grid. x grows to the right and y
// grows downwards, matching row order in environment files.
type Cell struct {
	X int
	Y int
}

// Directions for square neighbours, in expansion order: left, right, down, up.
var Directions = []Cell{
	{-1, 0}, {+1, 0}, {0, +1}, {0, -1},
}

// Add returns a+b.
func (c Cell) Add(d Cell) Cell { return Cell{c.X + d.X, c.Y + d.Y} }

// Sub returns a-b.
func (c Cell) Sub(d Cell) Cell { return Cell{c.X - d.X, c.Y - d.Y} }

// String formats the cell as "(x,y)".
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Manhattan returns |ax-bx| + |ay-by|.
func Manhattan(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
