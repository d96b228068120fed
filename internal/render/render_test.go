package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gravitas-games/robotplanner/internal/envfile"
	"github.com/gravitas-games/robotplanner/pkg/astar"
	"github.com/gravitas-games/robotplanner/pkg/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const maze = `6 5
0 0 0 1 0 0
1 1 0 1 0 1
0 0 0 0 0 0
0 1 1 1 1 0
0 0 0 0 1 0
`

func loadMaze(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := envfile.Parse(strings.NewReader(maze))
	require.NoError(t, err)
	return g
}

func TestFormatDirections(t *testing.T) {
	g := loadMaze(t)

	tests := []struct {
		start, end grid.Cell
		want       string
	}{
		{grid.Cell{X: 0, Y: 0}, grid.Cell{X: 5, Y: 4}, "R R D D R R R D D"},
		{grid.Cell{X: 0, Y: 4}, grid.Cell{X: 5, Y: 0}, "U U R R R R U U R"},
		{grid.Cell{X: 2, Y: 2}, grid.Cell{X: 2, Y: 2}, ""},
	}
	for _, tt := range tests {
		p, err := astar.Search(g, tt.start, tt.end)
		require.NoError(t, err)

		got, err := FormatDirections(p)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestDirections_RoundTrip(t *testing.T) {
	g := loadMaze(t)
	start, end := grid.Cell{X: 0, Y: 0}, grid.Cell{X: 5, Y: 4}

	p, err := astar.Search(g, start, end)
	require.NoError(t, err)

	text, err := FormatDirections(p)
	require.NoError(t, err)
	dirs, err := ParseDirections(text)
	require.NoError(t, err)

	assert.Equal(t, p, Walk(start, dirs))
}

func TestDirections_NotAdjacent(t *testing.T) {
	_, err := Directions(astar.Path{{X: 0, Y: 0}, {X: 2, Y: 0}})
	assert.ErrorIs(t, err, ErrNotAdjacent)

	_, err = FormatDirections(astar.Path{{X: 0, Y: 0}, {X: 1, Y: 1}})
	assert.ErrorIs(t, err, ErrNotAdjacent)
}

func TestParseDirections_Unknown(t *testing.T) {
	_, err := ParseDirections("R X")
	assert.ErrorIs(t, err, ErrUnknownDirection)

	_, err = ParseDirections("RR")
	assert.ErrorIs(t, err, ErrUnknownDirection)

	dirs, err := ParseDirections("  ")
	require.NoError(t, err)
	assert.Empty(t, dirs)
}

func TestASCII_WithLegend(t *testing.T) {
	g := loadMaze(t)
	p, err := astar.Search(g, grid.Cell{X: 0, Y: 0}, grid.Cell{X: 5, Y: 4})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ASCII(&buf, g, p, DefaultGlyphs))

	want := "\nKey:\n" +
		"@ - Origin\n" +
		"$ - Destination\n" +
		"X - Wall\n" +
		"o - Path\n" +
		". - Empty space\n" +
		"\n" +
		"@ooX..\n" +
		"XXoX.X\n" +
		"..oooo\n" +
		".XXXXo\n" +
		"....X$\n"
	assert.Equal(t, want, buf.String())
}

func TestASCII_CustomGlyphs(t *testing.T) {
	g := loadMaze(t)
	c := grid.Cell{X: 2, Y: 2}

	glyphs := Glyphs{Start: 'S', End: 'E', Path: '*', Wall: '#', Empty: ' '}
	var buf bytes.Buffer
	require.NoError(t, ASCII(&buf, g, astar.Path{c}, glyphs))

	// a single-cell path shows only the start marker
	want := "   #  \n" +
		"## # #\n" +
		"  S   \n" +
		" #### \n" +
		"    # \n"
	assert.Equal(t, want, buf.String())
}

func TestASCII_NoPath(t *testing.T) {
	g := loadMaze(t)
	var buf bytes.Buffer
	require.NoError(t, ASCII(&buf, g, nil, Glyphs{Start: '@', End: '$', Path: 'o', Wall: 'X', Empty: '.'}))
	assert.True(t, strings.HasPrefix(buf.String(), "...X..\n"))
}
