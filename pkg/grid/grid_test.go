package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := From([][]bool{
		{false, false, true},
		{true, false, true},
		{false, false, false},
	})
	require.NoError(t, err)
	return g
}

func TestFrom_Dimensions(t *testing.T) {
	g := sampleGrid(t)
	assert.Equal(t, 3, g.Width())
	assert.Equal(t, 3, g.Height())
}

func TestFrom_RejectsBadInput(t *testing.T) {
	_, err := From(nil)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = From([][]bool{{}})
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = From([][]bool{{false, false}, {false}})
	assert.ErrorIs(t, err, ErrNotRectangular)
}

func TestFrom_CopiesRows(t *testing.T) {
	rows := [][]bool{{false, false}}
	g, err := From(rows)
	require.NoError(t, err)

	rows[0][0] = true
	assert.True(t, g.IsPassable(Cell{0, 0}), "mutating the input must not change the grid")

	walls := g.Walls()
	walls[0][1] = true
	assert.True(t, g.IsPassable(Cell{1, 0}), "mutating Walls() must not change the grid")
}

func TestContains(t *testing.T) {
	g := sampleGrid(t)
	tests := []struct {
		cell Cell
		want bool
	}{
		{Cell{0, 0}, true},
		{Cell{2, 2}, true},
		{Cell{-1, 0}, false},
		{Cell{0, -1}, false},
		{Cell{3, 0}, false},
		{Cell{0, 3}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.Contains(tt.cell), "Contains(%v)", tt.cell)
	}
}

func TestIsPassable(t *testing.T) {
	g := sampleGrid(t)
	assert.True(t, g.IsPassable(Cell{0, 0}))
	assert.False(t, g.IsPassable(Cell{2, 0}))
	assert.False(t, g.IsPassable(Cell{0, 1}))
	assert.False(t, g.IsPassable(Cell{5, 5}), "out of bounds is never passable")
	assert.True(t, g.IsWall(Cell{2, 1}))
	assert.False(t, g.IsWall(Cell{5, 5}))
}

func TestNeighbors_Order(t *testing.T) {
	g, err := From([][]bool{
		{false, false, false},
		{false, false, false},
		{false, false, false},
	})
	require.NoError(t, err)

	// left, right, down, up
	assert.Equal(t, []Cell{{0, 1}, {2, 1}, {1, 2}, {1, 0}}, g.Neighbors(Cell{1, 1}))
	assert.Equal(t, []Cell{{1, 0}, {0, 1}}, g.Neighbors(Cell{0, 0}))
}

func TestNeighbors_SkipsWalls(t *testing.T) {
	g := sampleGrid(t)
	assert.Equal(t, []Cell{{1, 2}, {1, 0}}, g.Neighbors(Cell{1, 1}))
	assert.Equal(t, []Cell{{1, 0}}, g.Neighbors(Cell{0, 0}))
}

func TestManhattan(t *testing.T) {
	assert.Equal(t, 0, Manhattan(Cell{3, 3}, Cell{3, 3}))
	assert.Equal(t, 8, Manhattan(Cell{0, 0}, Cell{4, 4}))
	assert.Equal(t, 8, Manhattan(Cell{4, 4}, Cell{0, 0}))
	assert.Equal(t, 5, Manhattan(Cell{-2, 1}, Cell{1, -1}))
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "(3,-1)", Cell{3, -1}.String())
}
