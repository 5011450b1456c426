package bot

import "github.com/lox/snake/internal/snake"

// Greedy heads straight for the food, only avoiding moves that lose on the
// next tick.
type Greedy struct{}

func (Greedy) Name() string { return "greedy" }

func (Greedy) Next(v snake.View) snake.Direction {
	moves := safeMoves(v)
	if len(moves) == 0 {
		return v.Direction()
	}
	return closestToFood(v, moves)
}

// closestToFood picks the move that minimises distance to the food, keeping
// the current heading on ties.
func closestToFood(v snake.View, moves []snake.Direction) snake.Direction {
	head, food, current := v.Head(), v.Food(), v.Direction()

	best := moves[0]
	bestDist := distance(head.Step(best), food)
	for _, d := range moves[1:] {
		dist := distance(head.Step(d), food)
		if dist < bestDist || (dist == bestDist && d == current) {
			best, bestDist = d, dist
		}
	}
	return best
}
