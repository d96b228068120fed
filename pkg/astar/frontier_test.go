package astar

import (
	"testing"

	"github.com/gravitas-games/robotplanner/pkg/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontier_EmptyExtract(t *testing.T) {
	f := newFrontier()
	assert.True(t, f.Empty())
	_, ok := f.ExtractMin()
	assert.False(t, ok)
}

func TestFrontier_MinOrder(t *testing.T) {
	f := newFrontier()
	f.Insert(grid.Cell{X: 5}, 5)
	f.Insert(grid.Cell{X: 1}, 1)
	f.Insert(grid.Cell{X: 3}, 3)
	f.Insert(grid.Cell{X: 0}, 0)

	var got []int
	for !f.Empty() {
		c, ok := f.ExtractMin()
		require.True(t, ok)
		got = append(got, c.X)
	}
	assert.Equal(t, []int{0, 1, 3, 5}, got)
}

func TestFrontier_TiesAreFIFO(t *testing.T) {
	f := newFrontier()
	for i := 0; i < 10; i++ {
		f.Insert(grid.Cell{X: i}, 7)
	}
	f.Insert(grid.Cell{X: 100}, 2)

	c, _ := f.ExtractMin()
	assert.Equal(t, 100, c.X)
	for i := 0; i < 10; i++ {
		c, ok := f.ExtractMin()
		require.True(t, ok)
		assert.Equal(t, i, c.X)
	}
}

func TestFrontier_AllowsDuplicates(t *testing.T) {
	f := newFrontier()
	c := grid.Cell{X: 1, Y: 1}
	f.Insert(c, 4)
	f.Insert(c, 2)
	assert.Equal(t, 2, f.Len())
}
