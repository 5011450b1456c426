package bot

import "github.com/lox/snake/internal/snake"

// Cautious behaves like Greedy but refuses moves into pockets smaller than
// its own body, falling back to the roomiest move when every option is tight.
type Cautious struct{}

func (Cautious) Name() string { return "cautious" }

func (Cautious) Next(v snake.View) snake.Direction {
	moves := safeMoves(v)
	if len(moves) == 0 {
		return v.Direction()
	}

	head := v.Head()
	var roomy []snake.Direction
	bestSpace, fallback := -1, moves[0]
	for _, d := range moves {
		space := reachable(v, head.Step(d))
		if space >= v.Len() {
			roomy = append(roomy, d)
		}
		if space > bestSpace {
			bestSpace, fallback = space, d
		}
	}

	if len(roomy) == 0 {
		return fallback
	}
	return closestToFood(v, roomy)
}

// reachable counts the free cells connected to start, start included.
func reachable(v snake.View, start snake.Position) int {
	width := v.Width()
	seen := make([]bool, width*v.Height())
	seen[start.Y*width+start.X] = true

	queue := []snake.Position{start}
	count := 0
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		count++

		for _, d := range snake.Directions {
			n := p.Step(d)
			if !v.IsValid(n) || v.Occupied(n) {
				continue
			}
			idx := n.Y*width + n.X
			if seen[idx] {
				continue
			}
			seen[idx] = true
			queue = append(queue, n)
		}
	}
	return count
}
