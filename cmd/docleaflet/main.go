package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docleaflet/cmd/docleaflet/commands"
	"git.home.luguber.info/inful/docleaflet/internal/foundation/errors"
	"git.home.luguber.info/inful/docleaflet/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{}
	parser := kong.Parse(cli,
		kong.Name("docleaflet"),
		kong.Description("Replace leaflet code blocks in Markdown and HTML with interactive map embeds."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)
	if err := parser.Run(global, cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
