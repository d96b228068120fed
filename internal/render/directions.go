package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gravitas-games/robotplanner/pkg/astar"
	"github.com/gravitas-games/robotplanner/pkg/grid"
)

// Direction is a single move on the grid.
type Direction byte

const (
	Up    Direction = 'U' // y-1
	Down  Direction = 'D' // y+1
	Left  Direction = 'L' // x-1
	Right Direction = 'R' // x+1
)

// ErrNotAdjacent is returned when consecutive path cells are not neighbours.
var ErrNotAdjacent = errors.New("path cells are not adjacent")

// ErrUnknownDirection is returned when parsing a letter other than U, D, L or R.
var ErrUnknownDirection = errors.New("unknown direction")

var offsets = map[Direction]grid.Cell{
	Up:    {X: 0, Y: -1},
	Down:  {X: 0, Y: +1},
	Left:  {X: -1, Y: 0},
	Right: {X: +1, Y: 0},
}

// String returns the direction letter.
func (d Direction) String() string { return string(d) }

// Directions converts a path into one move per step.
func Directions(p astar.Path) ([]Direction, error) {
	out := make([]Direction, 0, p.Steps())
	for i := 1; i < len(p); i++ {
		switch delta := p[i].Sub(p[i-1]); delta {
		case offsets[Right]:
			out = append(out, Right)
		case offsets[Left]:
			out = append(out, Left)
		case offsets[Down]:
			out = append(out, Down)
		case offsets[Up]:
			out = append(out, Up)
		default:
			return nil, fmt.Errorf("%w: %v -> %v", ErrNotAdjacent, p[i-1], p[i])
		}
	}
	return out, nil
}

// FormatDirections joins the moves of p with single spaces, e.g. "R R D".
// A single-cell path yields an empty string.
func FormatDirections(p astar.Path) (string, error) {
	dirs, err := Directions(p)
	if err != nil {
		return "", err
	}
	letters := make([]string, len(dirs))
	for i, d := range dirs {
		letters[i] = d.String()
	}
	return strings.Join(letters, " "), nil
}

// ParseDirections reads space-separated direction letters.
func ParseDirections(s string) ([]Direction, error) {
	fields := strings.Fields(s)
	out := make([]Direction, 0, len(fields))
	for _, f := range fields {
		if len(f) != 1 {
			return nil, fmt.Errorf("%w %q", ErrUnknownDirection, f)
		}
		d := Direction(f[0])
		if _, ok := offsets[d]; !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownDirection, f)
		}
		out = append(out, d)
	}
	return out, nil
}

// Walk applies dirs to start and returns every visited cell, start included.
func Walk(start grid.Cell, dirs []Direction) astar.Path {
	p := make(astar.Path, 0, len(dirs)+1)
	p = append(p, start)
	cur := start
	for _, d := range dirs {
		cur = cur.Add(offsets[d])
		p = append(p, cur)
	}
	return p
}
