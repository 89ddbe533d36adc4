package gtp

import (
	"fmt"
	"strconv"

	"github.com/gorgonia/familiar/game"
	"github.com/pkg/errors"
)

// ParseVertex parses a vertex such as "D4" or "pass". Columns are lettered from the left, skipping I.
// Rows are numbered from the bottom.
func ParseVertex(s string, size int) (game.Point, error) {
	if s == "pass" || s == "PASS" || s == "Pass" {
		return game.Pass, nil
	}
	if len(s) < 2 {
		return game.Pass, errors.Errorf("Invalid vertex %q", s)
	}

	letter := s[0] | 0x20 // lowercase
	if letter < 'a' || letter > 'z' || letter == 'i' {
		return game.Pass, errors.Errorf("Invalid vertex %q: bad column", s)
	}
	col := int(letter - 'a')
	if letter > 'i' {
		col--
	}

	number, err := strconv.Atoi(s[1:])
	if err != nil {
		return game.Pass, errors.Wrapf(err, "Invalid vertex %q: bad row", s)
	}
	row := size - number
	if col >= size || number < 1 || number > size {
		return game.Pass, errors.Errorf("Invalid vertex %q: off the board", s)
	}
	return game.Ltoi(game.Coord{X: int16(row), Y: int16(col)}, size), nil
}

// Vertex formats a point as a vertex.
func Vertex(p game.Point, size int) string {
	switch {
	case p.IsPass():
		return "pass"
	case p.IsResignation():
		return "resign"
	}
	c := game.Itol(p, size)
	letter := 'A' + rune(c.Y)
	if letter >= 'I' {
		letter++
	}
	return fmt.Sprintf("%c%d", letter, size-int(c.X))
}

// ParseColour parses "b", "black", "w" or "white".
func ParseColour(s string) (game.Colour, error) {
	switch s {
	case "b", "black":
		return game.Black, nil
	case "w", "white":
		return game.White, nil
	}
	return game.None, errors.Errorf("Invalid colour %q", s)
}
