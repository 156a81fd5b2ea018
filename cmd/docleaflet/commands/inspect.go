package commands

import (
	"context"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docleaflet/internal/foundation/errors"
	"git.home.luguber.info/inful/docleaflet/internal/leaflet"
)

// InspectCmd implements the 'inspect' command.
type InspectCmd struct {
	Input  string `arg:"" help:"Markdown or HTML file to inspect ('-' reads stdin)"`
	Format string `short:"f" enum:"auto,markdown,html" default:"auto" help:"Input format (auto, markdown, html)"`
	As     string `enum:"yaml,json" default:"yaml" help:"Report encoding (yaml, json)"`
}

// BlockReport is one inspected block.
type BlockReport struct {
	Index  int                `yaml:"index" json:"index"`
	ID     string             `yaml:"id,omitempty" json:"id,omitempty"`
	Mode   leaflet.BoundsMode `yaml:"mode,omitempty" json:"mode,omitempty"`
	Image  string             `yaml:"image,omitempty" json:"image,omitempty"`
	Bounds *leaflet.Bounds    `yaml:"bounds,omitempty,flow" json:"bounds,omitempty"`
	Error  string             `yaml:"error,omitempty" json:"error,omitempty"`
}

func (i *InspectCmd) Run(g *Global) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	content, err := g.readInput(i.Input)
	if err != nil {
		return err
	}
	inspections, err := g.NewRenderer(cfg, nil, false).Inspect(context.Background(), content, formatFor(i.Format, i.Input, content))
	if err != nil {
		return err
	}

	reports := make([]BlockReport, 0, len(inspections))
	for _, in := range inspections {
		rep := BlockReport{Index: in.Index, ID: in.MapID, Mode: in.Mode, Image: in.Config.Image, Bounds: in.Bounds}
		if in.Err != nil {
			rep.Error = in.Err.Error()
		}
		reports = append(reports, rep)
	}

	var out []byte
	if i.As == "json" {
		out, err = json.MarshalIndent(reports, "", "  ")
		out = append(out, '\n')
	} else {
		out, err = yaml.Marshal(reports)
	}
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode report").Build()
	}
	return g.writeOutput("", out)
}
