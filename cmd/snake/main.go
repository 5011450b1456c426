package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version     kong.VersionFlag `short:"v" help:"Show version"`
	Play        PlayCmd          `cmd:"" default:"1" help:"Play snake in the terminal"`
	Simulate    SimulateCmd      `cmd:"" help:"Run headless bot games and report statistics"`
	Replay      ReplayCmd        `cmd:"" help:"Inspect and verify recorded games"`
	Compare     CompareCmd       `cmd:"" help:"Compare two strategies on the same seeds"`
	Serve       ServeCmd         `cmd:"" help:"Stream bot games to websocket spectators"`
	Leaderboard LeaderboardCmd   `cmd:"" help:"Show the best recorded games"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("snake"),
		kong.Description("Grid snake with bots, replays and a spectator feed"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
