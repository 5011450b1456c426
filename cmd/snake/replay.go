package main

import (
	"errors"
	"fmt"

	"github.com/lox/snake/internal/randutil"
	"github.com/lox/snake/internal/replay"
	"github.com/lox/snake/internal/runner"
	"github.com/lox/snake/internal/snake"
	"github.com/lox/snake/internal/tui"
)

// ReplayCmd groups replay subcommands.
type ReplayCmd struct {
	Verify ReplayVerifyCmd `cmd:"" help:"Re-run replays and check they reproduce their result"`
	Show   ReplayShowCmd   `cmd:"" help:"Print a replay and the board at a given step"`
}

// ReplayVerifyCmd checks one or more replay files.
type ReplayVerifyCmd struct {
	Files []string `arg:"" type:"existingfile" help:"Replay files"`
}

func (c *ReplayVerifyCmd) Run() error {
	var failed int
	for _, path := range c.Files {
		r, err := replay.Load(path)
		if err == nil {
			err = replay.Verify(r)
		}
		if err != nil {
			failed++
			fmt.Printf("FAIL %s: %v\n", path, err)
			continue
		}
		fmt.Printf("ok   %s (length %d, %d steps)\n", path, r.Result.Length, r.Result.Steps)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d replays failed verification", failed, len(c.Files))
	}
	return nil
}

// ReplayShowCmd renders a replay.
type ReplayShowCmd struct {
	File string `arg:"" type:"existingfile" help:"Replay file"`
	Step int    `default:"-1" help:"Show the board after this step (-1 = final)"`
}

func (c *ReplayShowCmd) Run() error {
	r, err := replay.Load(c.File)
	if err != nil {
		return err
	}
	if c.Step > r.Result.Steps {
		return errors.New("step is beyond the end of the replay")
	}

	strategy := r.Strategy
	if strategy == "" {
		strategy = "human"
	}
	fmt.Printf("Game %s  seed %d  %dx%d  played by %s  at %s\n",
		r.ID, r.Seed, r.Width, r.Height, strategy, r.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("%d inputs, %d steps, length %d, ended: %s\n\n",
		len(r.Inputs), r.Result.Steps, r.Result.Length, r.Result.Cause)

	var frame runner.Frame
	g, err := replay.Play(r, func(step int, g *snake.Game) {
		if step+1 == c.Step {
			frame = runner.FrameOf(g, step+1)
		}
	})
	if err != nil {
		return err
	}
	switch {
	case c.Step < 0 || c.Step == r.Result.Steps:
		frame = runner.FrameOf(g, r.Result.Steps)
	case c.Step == 0:
		initial, err := snake.New(r.Width, r.Height, randutil.NewSource(r.Seed))
		if err != nil {
			return err
		}
		frame = runner.FrameOf(initial, 0)
	}

	fmt.Println(tui.RenderBoard(frame))
	fmt.Printf("step %d  length %d\n", frame.Step, frame.Length)
	return nil
}
