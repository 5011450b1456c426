package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/lox/snake/internal/leaderboard"
)

// LeaderboardCmd prints the top entries.
type LeaderboardCmd struct {
	Limit int `short:"n" default:"10" help:"Number of entries to show"`
}

func (c *LeaderboardCmd) Run(g *Globals) error {
	return c.run(g, os.Stdout)
}

func (c *LeaderboardCmd) run(g *Globals, out io.Writer) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := leaderboard.Open(ctx, cfg.Leaderboard, cfg.Game.ReplayDir)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Top(ctx, c.Limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No games recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tPLAYER\tLENGTH\tTICKS\tBOARD\tSEED\tID")
	for i, e := range entries {
		player := e.Player
		if e.Strategy != "" && e.Strategy != player {
			player = fmt.Sprintf("%s (%s)", player, e.Strategy)
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%dx%d\t%d\t%s\n", i+1, player, e.Length, e.Ticks, e.Width, e.Height, e.Seed, e.ID)
	}
	return w.Flush()
}
