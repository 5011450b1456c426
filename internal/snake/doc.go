// Package snake implements the rule engine of a grid-based snake game.
//
// The main type is Game, which owns the board dimensions, the snake body,
// the current and pending direction, the food cell and the finished flag.
// A host drives it through two operations:
//
//	g, err := snake.New(20, 15, randutil.NewSource(42))
//	if err != nil {
//	    return err
//	}
//	g.RequestDirectionChange(snake.Up)
//	g.Tick()
//	if g.Finished() {
//	    // game over, build a new Game to play again
//	}
//
// # Determinism
//
// The only source of randomness is the RandomSource passed to New, consulted
// once per eaten food. Two games built with the same dimensions and equivalent
// sources produce identical state sequences for identical input sequences.
//
// # Concurrency
//
// Game has no internal locking. A host that exposes it to more than one
// goroutine must serialise calls itself (see internal/runner).
package snake
