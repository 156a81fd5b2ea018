package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docleaflet/internal/asset"
	"git.home.luguber.info/inful/docleaflet/internal/config"
	"git.home.luguber.info/inful/docleaflet/internal/foundation/errors"
	"git.home.luguber.info/inful/docleaflet/internal/leaflet"
	"git.home.luguber.info/inful/docleaflet/internal/logfields"
	"git.home.luguber.info/inful/docleaflet/internal/markdown"
	"git.home.luguber.info/inful/docleaflet/internal/metrics"
	"git.home.luguber.info/inful/docleaflet/internal/render"
)

// DefaultConfigPath is used when -c is not given.
const DefaultConfigPath = "docleaflet.yaml"

// Global carries state shared by all subcommands.
type Global struct {
	Logger     *slog.Logger
	ConfigPath string
	Verbose    bool

	// Stdout receives command output; nil means os.Stdout.
	Stdout io.Writer
	// Stdin is read for the "-" input; nil means os.Stdin.
	Stdin io.Reader
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docleaflet.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Render  RenderCmd  `cmd:"" help:"Render a Markdown or HTML document, embedding every leaflet block"`
	Inspect InspectCmd `cmd:"" help:"List the leaflet blocks of a document and how they would be embedded"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	Watch   WatchCmd   `cmd:"" help:"Re-render a document whenever it or the configuration changes"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	g.ConfigPath = c.Config
	g.Verbose = c.Verbose
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(g.Logger)
	return nil
}

func (g *Global) stdout() io.Writer {
	if g.Stdout != nil {
		return g.Stdout
	}
	return os.Stdout
}

func (g *Global) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

// LoadConfig reads the configuration file. A missing file at the default
// path yields the built-in defaults; a missing explicit path is an error.
// The logger is rebuilt from the logging section.
func (g *Global) LoadConfig() (*config.Config, error) {
	path := g.ConfigPath
	if path == "" {
		path = DefaultConfigPath
	}
	var cfg *config.Config
	if _, err := os.Stat(path); os.IsNotExist(err) && filepath.Clean(path) == DefaultConfigPath {
		g.logger().Debug("No configuration file, using defaults", logfields.Path(path))
		cfg = config.Default()
	} else {
		loaded, err := config.Load(path)
		if err != nil {
			if _, ok := errors.AsClassified(err); ok {
				return nil, err
			}
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to load configuration").
				WithContext("path", path).
				Build()
		}
		cfg = loaded
	}
	g.Logger = cfg.Logging.NewLogger(os.Stderr, g.Verbose)
	slog.SetDefault(g.Logger)
	return cfg, nil
}

// NewRenderer wires the asset prober, transformer and renderer for cfg.
func (g *Global) NewRenderer(cfg *config.Config, recorder metrics.Recorder, standalone bool) *render.Renderer {
	logger := g.logger()
	prober := asset.NewProberFromConfig(cfg.Assets, recorder, logger)
	transformer := leaflet.NewTransformerFromConfig(cfg, prober, recorder, logger)
	return render.NewRenderer(transformer, render.Options{
		Markdown:   markdown.OptionsFromConfig(cfg.Markdown),
		Standalone: standalone,
		Logger:     logger,
	})
}

// readInput reads path, or stdin for "-".
func (g *Global) readInput(path string) ([]byte, error) {
	if path == "-" {
		in := g.Stdin
		if in == nil {
			in = os.Stdin
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read stdin").Build()
		}
		return data, nil
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read input").
			WithContext("path", path).
			Build()
	}
	return data, nil
}

// writeOutput writes data to path, or to stdout when path is empty or "-".
func (g *Global) writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := g.stdout().Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
				WithContext("path", dir).
				Build()
		}
	}
	tmp := path + ".tmp"
	// #nosec G306 -- rendered HTML is meant to be served
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write output").
			WithContext("path", path).
			Build()
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write output").
			WithContext("path", path).
			Build()
	}
	return nil
}

func formatFor(flag, input string, content []byte) render.Format {
	if f := render.Format(flag); f == render.FormatMarkdown || f == render.FormatHTML {
		return f
	}
	if input == "-" {
		input = ""
	}
	return render.DetectFormat(input, content)
}

func describe(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
