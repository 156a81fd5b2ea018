package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docleaflet/internal/config"
	derrors "git.home.luguber.info/inful/docleaflet/internal/foundation/errors"
	"git.home.luguber.info/inful/docleaflet/internal/logfields"
	"git.home.luguber.info/inful/docleaflet/internal/metrics"
	"git.home.luguber.info/inful/docleaflet/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Input      string        `arg:"" help:"Markdown or HTML file to watch"`
	Output     string        `short:"o" required:"" help:"Output file rewritten on every change"`
	Format     string        `short:"f" enum:"auto,markdown,html" default:"auto" help:"Input format (auto, markdown, html)"`
	Standalone bool          `short:"s" help:"Wrap fragments in a complete HTML page that loads Leaflet"`
	Debounce   time.Duration `default:"300ms" help:"Quiet period before re-rendering"`
	Metrics    string        `name:"metrics-listen" help:"Serve Prometheus metrics on this address (overrides config)"`
}

func (w *WatchCmd) Run(g *Global) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if addr := w.metricsAddr(cfg); addr != "" {
		reg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		srv := &http.Server{Addr: addr, Handler: metricsMux(reg), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			g.logger().Info("Serving metrics", logfields.URL("http://"+addr+"/metrics"))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				g.logger().Error("Metrics server failed", logfields.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	run := &RenderCmd{Input: w.Input, Output: w.Output, Format: w.Format, Standalone: w.Standalone}
	var mu sync.Mutex
	rerender := func(ctx context.Context, changed []string) {
		mu.Lock()
		defer mu.Unlock()
		for _, p := range changed {
			if p == absPath(g.ConfigPath) {
				reloaded, err := g.LoadConfig()
				if err != nil {
					g.logger().Error("Configuration reload failed, keeping previous", logfields.Error(err))
					break
				}
				cfg = reloaded
				g.logger().Info("Configuration reloaded", logfields.Path(p))
			}
		}
		if err := run.render(ctx, g, cfg, recorder); err != nil {
			g.logger().Error("Render failed", logfields.Path(w.Input), logfields.Error(err))
		}
	}

	if err := run.render(ctx, g, cfg, recorder); err != nil {
		if derrors.HasCategory(err, derrors.CategoryFileSystem) {
			return err
		}
		g.logger().Error("Initial render failed", logfields.Error(err))
	}

	files := []string{w.Input}
	if _, err := os.Stat(g.ConfigPath); err == nil {
		files = append(files, g.ConfigPath)
	}
	watcher, err := watch.New(files, w.Debounce, rerender, g.logger())
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to start watcher").Build()
	}
	g.logger().Info("Watching for changes", logfields.Path(w.Input), logfields.Count(len(files)))
	return watcher.Run(ctx)
}

func (w *WatchCmd) metricsAddr(cfg *config.Config) string {
	if w.Metrics != "" {
		return w.Metrics
	}
	if cfg.Metrics.Enabled {
		return cfg.Metrics.Listen
	}
	return ""
}

func metricsMux(reg *prom.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	return mux
}
