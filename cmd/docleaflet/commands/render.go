package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/docleaflet/internal/config"
	"git.home.luguber.info/inful/docleaflet/internal/foundation/errors"
	"git.home.luguber.info/inful/docleaflet/internal/logfields"
	"git.home.luguber.info/inful/docleaflet/internal/metrics"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Input      string `arg:"" help:"Markdown or HTML file to render ('-' reads stdin)"`
	Output     string `short:"o" help:"Output file (default stdout)"`
	Format     string `short:"f" enum:"auto,markdown,html" default:"auto" help:"Input format (auto, markdown, html)"`
	Standalone bool   `short:"s" help:"Wrap fragments in a complete HTML page that loads Leaflet"`
	Strict     bool   `help:"Fail when any leaflet block cannot be embedded"`
}

func (r *RenderCmd) Run(g *Global) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	return r.render(ctx, g, cfg, metrics.NoopRecorder{})
}

func (r *RenderCmd) render(ctx context.Context, g *Global, cfg *config.Config, recorder metrics.Recorder) error {
	content, err := g.readInput(r.Input)
	if err != nil {
		return err
	}
	res, err := g.NewRenderer(cfg, recorder, r.Standalone).Render(ctx, content, formatFor(r.Format, r.Input, content))
	if err != nil {
		return err
	}

	failed := res.Report.Failed()
	if r.Strict && len(failed) > 0 {
		first := failed[0].Err
		return errors.WrapError(first, errors.GetCategory(first), describe(len(failed), "leaflet block")+" could not be embedded").
			WithContext("path", r.Input).
			Build()
	}

	if err := g.writeOutput(r.Output, res.HTML); err != nil {
		return err
	}
	g.logger().Info("Rendered document",
		logfields.Path(r.Input),
		logfields.Count(res.Report.Embedded()),
		slog.Int("failed", len(failed)),
		logfields.DurationMS(float64(res.Report.Duration.Microseconds())/1000))
	return nil
}
