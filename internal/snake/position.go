package snake

import (
	"fmt"
	"strings"
)

// Position is a cell on the board. Coordinates are signed so that a step off
// the low edge yields -1 and is rejected by bounds checks instead of wrapping.
type Position struct {
	X int `json:"x" toml:"x"`
	Y int `json:"y" toml:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Step returns the neighbouring position one cell in direction d.
func (p Position) Step(d Direction) Position {
	switch d {
	case Up:
		return Position{p.X, p.Y - 1}
	case Down:
		return Position{p.X, p.Y + 1}
	case Left:
		return Position{p.X - 1, p.Y}
	case Right:
		return Position{p.X + 1, p.Y}
	}
	return p
}

// Direction is one of the four headings a snake can move in.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

// Directions lists every direction in declaration order.
var Directions = [...]Direction{Up, Right, Down, Left}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return d
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection converts a name such as "up" or "L" into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u", "top":
		return Up, nil
	case "right", "r":
		return Right, nil
	case "down", "d", "bottom":
		return Down, nil
	case "left", "l":
		return Left, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// MarshalText implements encoding.TextMarshaler so directions serialise by name.
func (d Direction) MarshalText() ([]byte, error) {
	if d < Up || d > Left {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDirection, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
