// Package envfile reads environment files: a "WIDTH HEIGHT" size line
// followed by one line per grid row of whitespace-separated 0 (empty) and
// 1 (wall) tokens.
package envfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gravitas-games/robotplanner/pkg/grid"
)

// Extension is the file suffix used for environment files in map directories.
const Extension = ".env"

var (
	// ErrNotExist is returned by Load when the file is missing.
	ErrNotExist = errors.New("environment file does not exist")
	// ErrHeader is returned for a missing or malformed size line.
	ErrHeader = errors.New("invalid environment header")
	// ErrToken is returned for a cell that is neither 0 nor 1.
	ErrToken = errors.New("invalid environment cell")
	// ErrShape is returned when rows disagree with each other or the header.
	ErrShape = errors.New("environment shape mismatch")
)

// Load opens and parses the environment file at path.
func Load(path string) (*grid.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("failed to open environment file: %w", err)
	}
	defer f.Close()

	g, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Parse reads an environment from r. Blank lines are ignored.
func Parse(r io.Reader) (*grid.Grid, error) {
	scanner := bufio.NewScanner(r)
	lineNo := 0

	width, height := -1, -1
	var rows [][]bool
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if width < 0 {
			w, h, err := parseHeader(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			width, height = w, h
			continue
		}

		row := make([]bool, len(fields))
		for x, tok := range fields {
			switch tok {
			case "0":
			case "1":
				row[x] = true
			default:
				return nil, fmt.Errorf("line %d, column %d: %w %q", lineNo, x+1, ErrToken, tok)
			}
		}
		if len(row) != width {
			return nil, fmt.Errorf("line %d: %w: row has %d cells, header says %d", lineNo, ErrShape, len(row), width)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if width < 0 {
		return nil, fmt.Errorf("%w: missing size line", ErrHeader)
	}
	if len(rows) != height {
		return nil, fmt.Errorf("%w: found %d rows, header says %d", ErrShape, len(rows), height)
	}

	return grid.From(rows)
}

func parseHeader(fields []string) (int, int, error) {
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w: expected \"WIDTH HEIGHT\", got %q", ErrHeader, strings.Join(fields, " "))
	}
	w, err := strconv.Atoi(fields[0])
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("%w: bad width %q", ErrHeader, fields[0])
	}
	h, err := strconv.Atoi(fields[1])
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("%w: bad height %q", ErrHeader, fields[1])
	}
	return w, h, nil
}

// Write encodes g in environment file format.
func Write(w io.Writer, g *grid.Grid) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", g.Width(), g.Height())
	for _, row := range g.Walls() {
		for x, wall := range row {
			if x > 0 {
				bw.WriteByte(' ')
			}
			if wall {
				bw.WriteByte('1')
			} else {
				bw.WriteByte('0')
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
