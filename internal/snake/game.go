package snake

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidBoard     = errors.New("snake: board dimensions must be positive")
	ErrNilRandomSource  = errors.New("snake: random source is nil")
	ErrInvalidDirection = errors.New("snake: invalid direction")
)

// Cause records why a game finished.
type Cause int

const (
	CauseNone      Cause = iota
	CauseWall            // head left the board
	CauseSelf            // head ran into the body
	CauseBoardFull       // no free cell left for food
)

func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseWall:
		return "wall"
	case CauseSelf:
		return "self"
	case CauseBoardFull:
		return "board-full"
	}
	return fmt.Sprintf("Cause(%d)", int(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Cause) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Cause) UnmarshalText(text []byte) error {
	for _, candidate := range []Cause{CauseNone, CauseWall, CauseSelf, CauseBoardFull} {
		if candidate.String() == string(text) {
			*c = candidate
			return nil
		}
	}
	return fmt.Errorf("snake: unknown cause %q", text)
}

// View is the read-only surface of a game, used by renderers and bots.
type View interface {
	Width() int
	Height() int
	Head() Position
	Body() []Position
	Len() int
	Direction() Direction
	Food() Position
	Finished() bool
	IsValid(p Position) bool
	Occupied(p Position) bool
}

// Game holds the complete state of one snake game.
type Game struct {
	width, height int

	body     *body
	occupied []bool // row-major mirror of body for O(1) membership

	direction Direction
	pending   Direction
	food      Position
	finished  bool
	cause     Cause
	ticks     int

	rng RandomSource
}

var _ View = (*Game)(nil)

// New creates a game on a width×height board. The snake starts as a single
// cell near the right edge heading left, with food near the left edge on the
// same row.
func New(width, height int, rng RandomSource) (*Game, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidBoard, width, height)
	}
	if rng == nil {
		return nil, ErrNilRandomSource
	}

	g := &Game{
		width:     width,
		height:    height,
		body:      newBody(16),
		occupied:  make([]bool, width*height),
		direction: Left,
		pending:   Left,
		rng:       rng,
	}

	start := Position{X: max(width-3, 0), Y: height / 2}
	g.body.pushFront(start)
	g.occupied[g.index(start)] = true

	g.food = Position{X: min(2, width-1), Y: height / 2}
	if g.food == start {
		// The default cells coincide when width is 1 or 5. A 1×1 board has
		// nowhere else to put the food, so it stays on the head.
		if free := g.freeCells(start); len(free) > 0 {
			g.food = free[0]
		}
	}

	return g, nil
}

func (g *Game) Width() int  { return g.width }
func (g *Game) Height() int { return g.height }

// Head returns the front segment of the snake.
func (g *Game) Head() Position { return g.body.front() }

// Body returns a copy of the snake's segments, head first.
func (g *Game) Body() []Position { return g.body.slice() }

func (g *Game) Len() int { return g.body.len() }

// Direction returns the direction applied by the last tick.
func (g *Game) Direction() Direction { return g.direction }

// PendingDirection returns the direction the next tick will commit.
func (g *Game) PendingDirection() Direction { return g.pending }

func (g *Game) Food() Position { return g.food }

func (g *Game) Finished() bool { return g.finished }

// Cause reports why the game finished, or CauseNone while it is active.
func (g *Game) Cause() Cause { return g.cause }

// Ticks counts the ticks that moved the snake.
func (g *Game) Ticks() int { return g.ticks }

// IsValid reports whether p lies on the board.
func (g *Game) IsValid(p Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// Occupied reports whether a body segment covers p.
func (g *Game) Occupied(p Position) bool {
	return g.IsValid(p) && g.occupied[g.index(p)]
}

// RequestDirectionChange stores d as the pending direction. Requests to keep
// going the same way or to reverse straight back are ignored, as is anything
// after the game has finished. The last accepted request before Tick wins.
func (g *Game) RequestDirectionChange(d Direction) {
	if g.finished {
		return
	}
	if d < Up || d > Left {
		return
	}
	if d == g.direction || d == g.direction.Opposite() {
		return
	}
	g.pending = d
}

// Tick advances the game by one step.
func (g *Game) Tick() {
	if g.finished {
		return
	}

	g.direction = g.pending
	newHead := g.Head().Step(g.direction)

	if !g.IsValid(newHead) {
		g.finish(CauseWall)
		return
	}
	if g.occupied[g.index(newHead)] {
		g.finish(CauseSelf)
		return
	}

	if newHead != g.food {
		tail := g.body.popBack()
		g.occupied[g.index(tail)] = false
	} else {
		free := g.freeCells(newHead)
		if len(free) == 0 {
			g.finish(CauseBoardFull)
			return
		}
		g.food = free[g.rng.RandomRange(0, len(free))]
	}

	g.body.pushFront(newHead)
	g.occupied[g.index(newHead)] = true
	g.ticks++
}

func (g *Game) finish(cause Cause) {
	g.finished = true
	g.cause = cause
}

// freeCells lists, in row-major order, every cell not covered by the body
// and not equal to exclude. When growing, exclude is the new head, which is
// not yet in the body, so the list is one cell shorter than "every cell off
// the body" and a given RandomRange index selects a different cell than it
// would in that larger list.
func (g *Game) freeCells(exclude Position) []Position {
	free := make([]Position, 0, len(g.occupied)-g.body.len())
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			p := Position{X: x, Y: y}
			if p == exclude || g.occupied[g.index(p)] {
				continue
			}
			free = append(free, p)
		}
	}
	return free
}

func (g *Game) index(p Position) int {
	return p.Y*g.width + p.X
}
