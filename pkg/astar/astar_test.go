package astar

import (
	"math/rand"
	"testing"

	"github.com/gravitas-games/robotplanner/pkg/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustGrid builds a grid from rows of '0' (open) and '1' (wall).
func mustGrid(t *testing.T, rows ...string) *grid.Grid {
	t.Helper()
	walls := make([][]bool, len(rows))
	for y, row := range rows {
		walls[y] = make([]bool, len(row))
		for x, ch := range row {
			walls[y][x] = ch == '1'
		}
	}
	g, err := grid.From(walls)
	require.NoError(t, err)
	return g
}

func cells(xy ...int) Path {
	p := make(Path, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		p = append(p, grid.Cell{X: xy[i], Y: xy[i+1]})
	}
	return p
}

// requireValidPath checks the structural properties every returned path has.
func requireValidPath(t *testing.T, g *grid.Grid, p Path, start, end grid.Cell) {
	t.Helper()
	require.NotEmpty(t, p)
	require.Equal(t, start, p.Start())
	require.Equal(t, end, p.End())

	seen := make(map[grid.Cell]bool, len(p))
	for i, c := range p {
		require.True(t, g.IsPassable(c), "cell %v is not passable", c)
		require.False(t, seen[c], "cell %v repeated", c)
		seen[c] = true
		if i > 0 {
			require.Equal(t, 1, grid.Manhattan(p[i-1], c), "step %d is not unit length", i)
		}
	}
}

// bfsDistance is a brute-force reference; -1 means unreachable.
func bfsDistance(g *grid.Grid, start, end grid.Cell) int {
	dist := map[grid.Cell]int{start: 0}
	queue := []grid.Cell{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == end {
			return dist[cur]
		}
		for _, nb := range g.Neighbors(cur) {
			if _, ok := dist[nb]; !ok {
				dist[nb] = dist[cur] + 1
				queue = append(queue, nb)
			}
		}
	}
	return -1
}

func TestSearch_OpenGrid(t *testing.T) {
	g := mustGrid(t,
		"00000",
		"00000",
		"00000",
		"00000",
		"00000",
	)
	start, end := grid.Cell{X: 0, Y: 0}, grid.Cell{X: 4, Y: 4}

	var stats Stats
	p, err := Search(g, start, end, WithStats(&stats))
	require.NoError(t, err)
	requireValidPath(t, g, p, start, end)
	assert.Equal(t, 8, p.Steps())
	assert.Equal(t, 8, stats.Cost)
	assert.Equal(t, cells(0, 0, 1, 0, 2, 0, 3, 0, 4, 0, 4, 1, 4, 2, 4, 3, 4, 4), p)
	assert.Positive(t, stats.Expanded)
	assert.GreaterOrEqual(t, stats.Inserted, stats.Expanded)
}

func TestSearch_OpenGridReverse(t *testing.T) {
	g := mustGrid(t, "00000", "00000", "00000", "00000", "00000")

	p, err := Search(g, grid.Cell{X: 4, Y: 4}, grid.Cell{X: 0, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, cells(4, 4, 3, 4, 2, 4, 1, 4, 0, 4, 0, 3, 0, 2, 0, 1, 0, 0), p)

	p, err = Search(g, grid.Cell{X: 2, Y: 0}, grid.Cell{X: 2, Y: 4})
	require.NoError(t, err)
	assert.Equal(t, cells(2, 0, 2, 1, 2, 2, 2, 3, 2, 4), p)
}

func TestSearch_WallColumn(t *testing.T) {
	g := mustGrid(t,
		"001",
		"101",
		"000",
	)
	start, end := grid.Cell{X: 0, Y: 0}, grid.Cell{X: 2, Y: 2}

	p, err := Search(g, start, end)
	require.NoError(t, err)
	requireValidPath(t, g, p, start, end)
	assert.Len(t, p, 5)
	assert.Equal(t, cells(0, 0, 1, 0, 1, 1, 1, 2, 2, 2), p)
}

func TestSearch_Maze(t *testing.T) {
	g := mustGrid(t,
		"000100",
		"110101",
		"000000",
		"011110",
		"000010",
	)

	tests := []struct {
		name       string
		start, end grid.Cell
		want       Path
	}{
		{
			name:  "top left to bottom right",
			start: grid.Cell{X: 0, Y: 0},
			end:   grid.Cell{X: 5, Y: 4},
			want:  cells(0, 0, 1, 0, 2, 0, 2, 1, 2, 2, 3, 2, 4, 2, 5, 2, 5, 3, 5, 4),
		},
		{
			name:  "bottom left to top right",
			start: grid.Cell{X: 0, Y: 4},
			end:   grid.Cell{X: 5, Y: 0},
			want:  cells(0, 4, 0, 3, 0, 2, 1, 2, 2, 2, 3, 2, 4, 2, 4, 1, 4, 0, 5, 0),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Search(g, tt.start, tt.end)
			require.NoError(t, err)
			requireValidPath(t, g, p, tt.start, tt.end)
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestSearch_StartIsEnd(t *testing.T) {
	g := mustGrid(t, "000", "010", "000")
	c := grid.Cell{X: 2, Y: 1}

	var stats Stats
	p, err := Search(g, c, c, WithStats(&stats))
	require.NoError(t, err)
	assert.Equal(t, Path{c}, p)
	assert.Equal(t, 0, p.Steps())
	assert.Equal(t, 1, stats.Expanded)
	assert.Equal(t, 0, stats.Cost)
}

func TestSearch_NoPath(t *testing.T) {
	g := mustGrid(t,
		"010",
		"010",
		"010",
	)

	var stats Stats
	p, err := Search(g, grid.Cell{X: 0, Y: 0}, grid.Cell{X: 2, Y: 2}, WithStats(&stats))
	require.ErrorIs(t, err, ErrNoPath)
	assert.Nil(t, p)
	assert.Equal(t, 3, stats.Expanded, "every reachable cell is expanded once")
	assert.Equal(t, 0, stats.Cost)
}

func TestSearch_EnclosedGoal(t *testing.T) {
	g := mustGrid(t,
		"00000",
		"01110",
		"01010",
		"01110",
		"00000",
	)
	_, err := Search(g, grid.Cell{X: 0, Y: 0}, grid.Cell{X: 2, Y: 2})
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestSearch_MatchesBFS(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 300; i++ {
		w, h := 1+rng.Intn(9), 1+rng.Intn(9)
		walls := make([][]bool, h)
		var open []grid.Cell
		for y := range walls {
			walls[y] = make([]bool, w)
			for x := range walls[y] {
				walls[y][x] = rng.Float64() < 0.3
				if !walls[y][x] {
					open = append(open, grid.Cell{X: x, Y: y})
				}
			}
		}
		if len(open) == 0 {
			continue
		}
		g, err := grid.From(walls)
		require.NoError(t, err)

		start := open[rng.Intn(len(open))]
		end := open[rng.Intn(len(open))]
		want := bfsDistance(g, start, end)

		p, err := Search(g, start, end)
		if want < 0 {
			require.ErrorIs(t, err, ErrNoPath, "case %d: %v -> %v", i, start, end)
			continue
		}
		require.NoError(t, err, "case %d: %v -> %v", i, start, end)
		requireValidPath(t, g, p, start, end)
		require.Equal(t, want, p.Steps(), "case %d: %v -> %v", i, start, end)
	}
}

func TestSearch_Deterministic(t *testing.T) {
	g := mustGrid(t, "0000000", "0000000", "0001000", "0000000", "0000000")
	start, end := grid.Cell{X: 0, Y: 2}, grid.Cell{X: 6, Y: 2}

	first, err := Search(g, start, end)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Search(g, start, end)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

// lineGraph is a Graph that is not a grid, to exercise the interface.
type lineGraph struct{ n int }

func (l lineGraph) Neighbors(c grid.Cell) []grid.Cell {
	var out []grid.Cell
	if c.X > 0 {
		out = append(out, grid.Cell{X: c.X - 1})
	}
	if c.X < l.n-1 {
		out = append(out, grid.Cell{X: c.X + 1})
	}
	return out
}

func TestSearch_CustomGraph(t *testing.T) {
	p, err := Search(lineGraph{n: 6}, grid.Cell{X: 1}, grid.Cell{X: 4})
	require.NoError(t, err)
	assert.Equal(t, cells(1, 0, 2, 0, 3, 0, 4, 0), p)
}
