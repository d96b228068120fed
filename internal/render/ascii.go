// Package render turns search results into text: ASCII maps and
// direction letters.
package render

import (
	"bufio"
	"io"

	"github.com/gravitas-games/robotplanner/pkg/astar"
	"github.com/gravitas-games/robotplanner/pkg/grid"
)

// Glyphs are the characters used for each kind of cell.
type Glyphs struct {
	Start  rune
	End    rune
	Path   rune
	Wall   rune
	Empty  rune
	Legend bool // print the key above the map
}

// DefaultGlyphs matches the classic planner output.
var DefaultGlyphs = Glyphs{
	Start:  '@',
	End:    '$',
	Path:   'o',
	Wall:   'X',
	Empty:  '.',
	Legend: true,
}

// ASCII draws g with p overlaid. The start and end markers win over the path
// marker, and the path marker wins over walls.
func ASCII(w io.Writer, g *grid.Grid, p astar.Path, glyphs Glyphs) error {
	bw := bufio.NewWriter(w)
	if glyphs.Legend {
		writeLegend(bw, glyphs)
	}

	onPath := make(map[grid.Cell]bool, len(p))
	for _, c := range p {
		onPath[c] = true
	}

	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			c := grid.Cell{X: x, Y: y}
			switch {
			case len(p) > 0 && c == p.Start():
				bw.WriteRune(glyphs.Start)
			case len(p) > 0 && c == p.End():
				bw.WriteRune(glyphs.End)
			case onPath[c]:
				bw.WriteRune(glyphs.Path)
			case g.IsWall(c):
				bw.WriteRune(glyphs.Wall)
			default:
				bw.WriteRune(glyphs.Empty)
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func writeLegend(bw *bufio.Writer, glyphs Glyphs) {
	bw.WriteString("\nKey:\n")
	entries := []struct {
		glyph rune
		label string
	}{
		{glyphs.Start, "Origin"},
		{glyphs.End, "Destination"},
		{glyphs.Wall, "Wall"},
		{glyphs.Path, "Path"},
		{glyphs.Empty, "Empty space"},
	}
	for _, e := range entries {
		bw.WriteRune(e.glyph)
		bw.WriteString(" - ")
		bw.WriteString(e.label)
		bw.WriteByte('\n')
	}
	bw.WriteByte('\n')
}
