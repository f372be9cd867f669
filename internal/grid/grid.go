// Package grid describes the wrap-around board that chompers move on.
package grid

import (
	"errors"
	"fmt"
	"strings"
)

// Position is a slot coordinate. X grows to the right, Y grows downward.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction is one of the four cardinal directions a chomper can face.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in a fixed order.
var Directions = [...]Direction{Up, Down, Left, Right}

var ErrUnknownDirection = errors.New("unknown direction")

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// ParseDirection accepts the lowercase names produced by String.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return Up, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// Horizontal reports whether d moves along the X axis.
func (d Direction) Horizontal() bool {
	return d == Left || d == Right
}

// Vertical reports whether d moves along the Y axis.
func (d Direction) Vertical() bool {
	return d == Up || d == Down
}

// Delta returns the unit step for d.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// Slots holds the dimensions of a toroidal grid.
type Slots struct {
	Horizontal int `json:"horizontal"`
	Vertical   int `json:"vertical"`
}

func (s Slots) Validate() error {
	if s.Horizontal < 1 || s.Vertical < 1 {
		return fmt.Errorf("invalid grid size %dx%d (both dimensions must be positive)", s.Horizontal, s.Vertical)
	}
	return nil
}

// Count returns the number of slots on the grid.
func (s Slots) Count() int {
	return s.Horizontal * s.Vertical
}

// Wrap folds p back onto the grid.
func (s Slots) Wrap(p Position) Position {
	return Position{
		X: mod(p.X, s.Horizontal),
		Y: mod(p.Y, s.Vertical),
	}
}

// Step moves p one slot in direction d, wrapping around the edges.
func (s Slots) Step(p Position, d Direction) Position {
	dx, dy := d.Delta()
	return s.Wrap(Position{X: p.X + dx, Y: p.Y + dy})
}

// Index maps a wrapped position to a dense slot index.
func (s Slots) Index(p Position) int {
	p = s.Wrap(p)
	return p.Y*s.Horizontal + p.X
}

func mod(a, n int) int {
	if n <= 0 {
		return 0
	}
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
