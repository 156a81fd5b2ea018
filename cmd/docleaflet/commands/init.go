package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docleaflet/internal/config"
	"git.home.luguber.info/inful/docleaflet/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global) error {
	path := g.ConfigPath
	if path == "" {
		path = DefaultConfigPath
	}
	out := g.stdout()
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", path)
	if err := config.Init(path, i.Force); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "initialization failed").
			WithContext("path", path).
			Build()
	}
	_, _ = fmt.Fprintln(out, "initialized successfully")
	return nil
}
