// Package replay records the inputs of a game so it can be re-run exactly.
//
// A replay stores the seed and board size the game was built from plus every
// direction request tagged with the step it preceded. Because the engine's
// only randomness comes from the seeded source, re-applying those requests
// reproduces the game tick for tick.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lox/snake/internal/fileutil"
	"github.com/lox/snake/internal/randutil"
	"github.com/lox/snake/internal/snake"
)

// FormatVersion is written to every file; Decode rejects other versions.
const FormatVersion = 1

// Extension of replay files.
const Extension = ".toml"

var (
	ErrMismatch           = errors.New("replay: result does not match")
	ErrUnsupportedVersion = errors.New("replay: unsupported format version")
)

// Replay is the on-disk record of one game.
type Replay struct {
	Version   int       `toml:"version"`
	ID        string    `toml:"id"`
	Seed      int64     `toml:"seed"`
	Width     int       `toml:"width"`
	Height    int       `toml:"height"`
	Strategy  string    `toml:"strategy,omitempty"`
	Player    string    `toml:"player,omitempty"`
	CreatedAt time.Time `toml:"created_at"`
	Result    Result    `toml:"result"`
	Inputs    []Input   `toml:"input"`
}

// Input is a direction request made before the Step-th call to Tick
// (counting from zero).
type Input struct {
	Step      int             `toml:"step"`
	Direction snake.Direction `toml:"direction"`
}

// Result captures the final state the replay must reproduce.
type Result struct {
	Steps    int            `toml:"steps"` // calls to Tick made by the host
	Ticks    int            `toml:"ticks"` // ticks that moved the snake
	Length   int            `toml:"length"`
	Finished bool           `toml:"finished"`
	Cause    snake.Cause    `toml:"cause"`
	Head     snake.Position `toml:"head"`
	Food     snake.Position `toml:"food"`
}

// ResultOf summarises g after steps calls to Tick.
func ResultOf(g *snake.Game, steps int) Result {
	return Result{
		Steps:    steps,
		Ticks:    g.Ticks(),
		Length:   g.Len(),
		Finished: g.Finished(),
		Cause:    g.Cause(),
		Head:     g.Head(),
		Food:     g.Food(),
	}
}

// Recorder collects inputs while a game is played. It is safe for use by
// the tick loop and an input goroutine at the same time.
type Recorder struct {
	mu     sync.Mutex
	replay Replay
}

// NewRecorder starts a replay for a game built with snake.New(width, height,
// randutil.NewSource(seed)).
func NewRecorder(id string, seed int64, width, height int, strategy string) *Recorder {
	return &Recorder{replay: Replay{
		Version:   FormatVersion,
		ID:        id,
		Seed:      seed,
		Width:     width,
		Height:    height,
		Strategy:  strategy,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}}
}

// Record notes a direction request made before the step-th tick.
func (r *Recorder) Record(step int, d snake.Direction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replay.Inputs = append(r.replay.Inputs, Input{Step: step, Direction: d})
}

// Finish stores the final result.
func (r *Recorder) Finish(g *snake.Game, steps int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replay.Result = ResultOf(g, steps)
}

// Replay returns a copy of what has been recorded so far.
func (r *Recorder) Replay() *Replay {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.replay
	out.Inputs = append([]Input(nil), r.replay.Inputs...)
	return &out
}

// Play rebuilds the game and re-applies every input, calling onStep (if not
// nil) after each tick.
func Play(r *Replay, onStep func(step int, g *snake.Game)) (*snake.Game, error) {
	g, err := snake.New(r.Width, r.Height, randutil.NewSource(r.Seed))
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", r.ID, err)
	}

	next := 0
	for step := 0; step < r.Result.Steps; step++ {
		for next < len(r.Inputs) && r.Inputs[next].Step == step {
			g.RequestDirectionChange(r.Inputs[next].Direction)
			next++
		}
		g.Tick()
		if onStep != nil {
			onStep(step, g)
		}
	}
	return g, nil
}

// Verify re-plays r and checks it ends in the recorded state.
func Verify(r *Replay) error {
	g, err := Play(r, nil)
	if err != nil {
		return err
	}
	got := ResultOf(g, r.Result.Steps)
	if got != r.Result {
		return fmt.Errorf("%w: recorded %+v, replayed %+v", ErrMismatch, r.Result, got)
	}
	return nil
}

// Encode writes r as TOML.
func Encode(w io.Writer, r *Replay) error {
	if r == nil {
		return fmt.Errorf("replay: nil replay")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(r)
}

// Decode reads a TOML replay.
func Decode(rd io.Reader) (*Replay, error) {
	var r Replay
	if _, err := toml.NewDecoder(rd).Decode(&r); err != nil {
		return nil, fmt.Errorf("replay: decode: %w", err)
	}
	if r.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, r.Version)
	}
	for i := 1; i < len(r.Inputs); i++ {
		if r.Inputs[i].Step < r.Inputs[i-1].Step {
			return nil, fmt.Errorf("replay: input %d out of order (step %d after %d)", i, r.Inputs[i].Step, r.Inputs[i-1].Step)
		}
	}
	return &r, nil
}

// Save writes r to dir/<id>.toml and returns the path.
func Save(dir string, r *Replay) (string, error) {
	if err := fileutil.EnsureDir(dir); err != nil {
		return "", err
	}
	path := filepath.Join(dir, r.ID+Extension)
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Encode(w, r)
	})
	if err != nil {
		return "", fmt.Errorf("replay: save %s: %w", path, err)
	}
	return path, nil
}

// Load reads a replay file.
func Load(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
