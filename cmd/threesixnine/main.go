package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Lobby    LobbyCmd         `cmd:"" help:"List the lobby tables"`
	Bots     BotsCmd          `cmd:"" help:"List the house bots"`
	Simulate SimulateCmd      `cmd:"" help:"Play bot-only hands at every table and report results"`
	Play     PlayCmd          `cmd:"" help:"Sit at a table against the house bots"`
	History  HistoryCmd       `cmd:"" help:"Show hands from a PHH file"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("threesixnine"),
		kong.Description("Three Six Nine Hold'em: a no-limit poker room with sacred-number bots"),
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
