package bot

import (
	rand "math/rand/v2"

	"github.com/lox/snake/internal/randutil"
	"github.com/lox/snake/internal/snake"
)

// Random wanders, choosing uniformly among moves that survive the next tick.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a Random strategy drawing from rng. A nil rng is replaced
// by one seeded with zero so the strategy stays reproducible.
func NewRandom(rng *rand.Rand) *Random {
	if rng == nil {
		rng = randutil.New(0)
	}
	return &Random{rng: rng}
}

func (*Random) Name() string { return "random" }

func (r *Random) Next(v snake.View) snake.Direction {
	moves := safeMoves(v)
	if len(moves) == 0 {
		return v.Direction()
	}
	return moves[r.rng.IntN(len(moves))]
}
