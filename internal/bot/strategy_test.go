package bot

import (
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/snake/internal/randutil"
	"github.com/lox/snake/internal/snake"
)

// fakeView lets tests place the snake anywhere without replaying moves.
type fakeView struct {
	width, height int
	body          []snake.Position
	direction     snake.Direction
	food          snake.Position
}

func (f *fakeView) Width() int { return f.width }
func (f *fakeView) Height() int { return f.height }
func (f *fakeView) Head() snake.Position { return f.body[0] }
func (f *fakeView) Body() []snake.Position { return f.body }
func (f *fakeView) Len() int { return len(f.body) }
func (f *fakeView) Direction() snake.Direction { return f.direction }
func (f *fakeView) Food() snake.Position { return f.food }
func (f *fakeView) Finished() bool { return false }
func (f *fakeView) IsValid(p snake.Position) bool {
	return p.X >= 0 && p.X < f.width && p.Y >= 0 && p.Y < f.height
}

func (f *fakeView) Occupied(p snake.Position) bool {
	for _, b := range f.body {
		if b == p {
			return true
		}
	}
	return false
}

func TestNew(t *testing.T) {
	assert.Equal(t, []string{"cautious", "greedy", "random"}, Names())

	for _, name := range Names() {
		s, err := New(name, randutil.New(1))
		require.NoError(t, err)
		assert.Equal(t, name, s.Name())
		assert.True(t, Known(name))
	}

	_, err := New("psychic", nil)
	assert.ErrorIs(t, err, ErrUnknownStrategy)
	assert.False(t, Known("psychic"))
}

func TestGreedy(t *testing.T) {
	t.Run("heads for food", func(t *testing.T) {
		v := &fakeView{width: 10, height: 10, body: []snake.Position{{X: 7, Y: 5}}, direction: snake.Left, food: snake.Position{X: 7, Y: 1}}
		assert.Equal(t, snake.Up, Greedy{}.Next(v))
	})

	t.Run("keeps heading on ties", func(t *testing.T) {
		v := &fakeView{width: 10, height: 10, body: []snake.Position{{X: 5, Y: 5}}, direction: snake.Left, food: snake.Position{X: 3, Y: 3}}
		assert.Equal(t, snake.Left, Greedy{}.Next(v))
	})

	t.Run("avoids walls", func(t *testing.T) {
		v := &fakeView{width: 5, height: 5, body: []snake.Position{{X: 0, Y: 0}}, direction: snake.Left, food: snake.Position{X: 0, Y: 0}}
		assert.Equal(t, snake.Down, Greedy{}.Next(v))
	})

	t.Run("avoids its own body", func(t *testing.T) {
		v := &fakeView{
			width: 5, height: 5,
			body:      []snake.Position{{X: 2, Y: 2}, {X: 3, Y: 2}, {X: 3, Y: 1}, {X: 2, Y: 1}},
			direction: snake.Left,
			food:      snake.Position{X: 2, Y: 0},
		}
		assert.Equal(t, snake.Left, Greedy{}.Next(v))
	})

	t.Run("trapped keeps current direction", func(t *testing.T) {
		v := &fakeView{width: 1, height: 1, body: []snake.Position{{X: 0, Y: 0}}, direction: snake.Left}
		assert.Equal(t, snake.Left, Greedy{}.Next(v))
	})
}

func TestCautious(t *testing.T) {
	// Going left reaches the food but seals the snake into two cells.
	v := &fakeView{
		width: 6, height: 2,
		body:      []snake.Position{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}},
		direction: snake.Up,
		food:      snake.Position{X: 0, Y: 0},
	}

	assert.Equal(t, snake.Left, Greedy{}.Next(v))
	assert.Equal(t, snake.Right, Cautious{}.Next(v))
	assert.Equal(t, 2, reachable(v, snake.Position{X: 0, Y: 0}))
	assert.Equal(t, 7, reachable(v, snake.Position{X: 2, Y: 0}))
}

func TestRandom(t *testing.T) {
	v := &fakeView{width: 5, height: 5, body: []snake.Position{{X: 0, Y: 2}}, direction: snake.Left}

	a := NewRandom(randutil.New(3))
	b := NewRandom(randutil.New(3))
	for i := 0; i < 50; i++ {
		da, db := a.Next(v), b.Next(v)
		assert.Equal(t, da, db)
		assert.Contains(t, []snake.Direction{snake.Up, snake.Down}, da)
	}

}

func TestRandomNilSourceIsSeeded(t *testing.T) {
	v := &fakeView{width: 5, height: 5, body: []snake.Position{{X: 2, Y: 2}}, direction: snake.Left}

	a, b := NewRandom(nil), NewRandom(nil)
	seeded := NewRandom(randutil.New(0))
	for i := 0; i < 50; i++ {
		d := a.Next(v)
		assert.Equal(t, d, b.Next(v))
		assert.Equal(t, d, seeded.Next(v))
		assert.Contains(t, []snake.Direction{snake.Up, snake.Down, snake.Left}, d)
	}

	s, err := New("random", nil)
	require.NoError(t, err)
	assert.Contains(t, []snake.Direction{snake.Up, snake.Down, snake.Left}, s.Next(v))
}

func TestStrategiesPlayRealGames(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := New(name, rand.New(rand.NewPCG(1, 2)))
			require.NoError(t, err)

			g, err := snake.New(10, 10, randutil.NewSource(11))
			require.NoError(t, err)

			for i := 0; i < 2000 && !g.Finished(); i++ {
				g.RequestDirectionChange(s.Next(g))
				g.Tick()
			}

			assert.GreaterOrEqual(t, g.Len(), 1)
			if name != "random" {
				assert.Greater(t, g.Len(), 1, "%s should eat at least once", name)
			}
		})
	}
}
