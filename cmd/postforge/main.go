package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/postforge/cmd/postforge/commands"
	"git.home.luguber.info/inful/postforge/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("postforge"),
		kong.Description("Render and index blog post sources"),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	err := ctx.Run(&commands.Global{}, &cli)
	ctx.FatalIfErrorf(err)
}
