// Package bot provides autopilot strategies that steer a snake game.
package bot

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"sort"

	"github.com/lox/snake/internal/snake"
)

var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategy picks the direction to request before the next tick.
type Strategy interface {
	Name() string
	Next(v snake.View) snake.Direction
}

var registry = map[string]func(rng *rand.Rand) Strategy{
	"greedy":   func(*rand.Rand) Strategy { return Greedy{} },
	"cautious": func(*rand.Rand) Strategy { return Cautious{} },
	"random":   func(rng *rand.Rand) Strategy { return NewRandom(rng) },
}

// New resolves a strategy by name. rng is only used by strategies that need it.
func New(name string, rng *rand.Rand) (Strategy, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (want one of %v)", ErrUnknownStrategy, name, Names())
	}
	return ctor(rng), nil
}

// Known reports whether name is a registered strategy.
func Known(name string) bool {
	_, ok := registry[name]
	return ok
}

// Names lists the registered strategies in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// safeMoves returns the directions the engine would accept that do not end
// the game on the next tick. The tail counts as blocked because the engine
// tests the head against the body before the tail moves.
func safeMoves(v snake.View) []snake.Direction {
	head := v.Head()
	current := v.Direction()

	var moves []snake.Direction
	for _, d := range snake.Directions {
		if d == current.Opposite() {
			continue
		}
		next := head.Step(d)
		if v.IsValid(next) && !v.Occupied(next) {
			moves = append(moves, d)
		}
	}
	return moves
}

func distance(a, b snake.Position) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
