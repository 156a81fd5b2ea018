package asset

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"git.home.luguber.info/inful/docleaflet/internal/config"
	"git.home.luguber.info/inful/docleaflet/internal/foundation/errors"
	"git.home.luguber.info/inful/docleaflet/internal/logfields"
	"git.home.luguber.info/inful/docleaflet/internal/metrics"
	"git.home.luguber.info/inful/docleaflet/internal/retry"
)

// Options configures a Prober.
type Options struct {
	BaseDir    string       // root for local references; "/"-prefixed paths are relative to it too
	HTTPClient *http.Client // nil uses a client with a 10s timeout
	UserAgent  string
	MaxBytes   int64 // cap on bytes read per asset; <= 0 means unlimited
	Retry      retry.Policy
	Recorder   metrics.Recorder
	Logger     *slog.Logger
}

// Prober resolves image references to pixel dimensions. Successful results
// are cached per reference for the lifetime of the Prober.
type Prober struct {
	opts     Options
	client   *http.Client
	recorder metrics.Recorder
	logger   *slog.Logger

	mu    sync.Mutex
	cache map[string]Dimensions
}

// NewProber creates a Prober.
func NewProber(opts Options) *Prober {
	client := opts.HTTPClient
	if client == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		client = &http.Client{Timeout: 10 * time.Second, Transport: transport}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{
		opts:     opts,
		client:   client,
		recorder: metrics.OrNoop(opts.Recorder),
		logger:   logger,
		cache:    make(map[string]Dimensions),
	}
}

// NewProberFromConfig builds a Prober from the assets configuration section.
func NewProberFromConfig(cfg config.AssetsConfig, recorder metrics.Recorder, logger *slog.Logger) *Prober {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return NewProber(Options{
		BaseDir:    cfg.BaseDir,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeoutDuration(), Transport: transport},
		UserAgent:  cfg.UserAgent,
		MaxBytes:   cfg.MaxBytes,
		Retry:      retry.FromAssets(cfg),
		Recorder:   recorder,
		Logger:     logger,
	})
}

// ProbeDimensions returns the pixel dimensions of the image referenced by ref.
func (p *Prober) ProbeDimensions(ctx context.Context, ref string) (Dimensions, error) {
	link := ParseReference(ref).Link
	if link == "" {
		return Dimensions{}, errors.AssetError("empty image reference").Build()
	}

	p.mu.Lock()
	if dims, ok := p.cache[link]; ok {
		p.mu.Unlock()
		return dims, nil
	}
	p.mu.Unlock()

	source := Classify(link)
	start := time.Now()
	var (
		dims Dimensions
		err  error
	)
	if source == SourceRemote {
		dims, err = p.probeRemote(ctx, link)
	} else {
		dims, err = p.probeLocal(link)
	}
	elapsed := time.Since(start)
	p.recorder.ObserveProbeDuration(string(source), elapsed, err == nil)

	if err != nil {
		p.logger.Debug("Image probe failed", logfields.Image(link), logfields.Source(string(source)), logfields.Error(err))
		return Dimensions{}, err
	}

	p.logger.Debug("Image probed",
		logfields.Image(link),
		logfields.Source(string(source)),
		slog.Int("width", dims.Width),
		slog.Int("height", dims.Height),
		logfields.DurationMS(float64(elapsed.Microseconds())/1000))

	p.mu.Lock()
	p.cache[link] = dims
	p.mu.Unlock()
	return dims, nil
}

// LocalPath maps a local reference onto the filesystem.
func (p *Prober) LocalPath(link string) string {
	clean := filepath.FromSlash(link)
	if filepath.IsAbs(clean) && !strings.HasPrefix(link, "/") {
		return clean
	}
	base := p.opts.BaseDir
	if base == "" {
		base = "."
	}
	return filepath.Join(base, strings.TrimPrefix(clean, string(filepath.Separator)))
}

func (p *Prober) probeLocal(link string) (Dimensions, error) {
	path := p.LocalPath(link)
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return Dimensions{}, errors.WrapError(err, errors.CategoryAsset, "failed to open image").
			WithContext("path", path).
			Build()
	}
	defer func() {
		_ = f.Close() // read-only
	}()

	dims, _, err := DecodeDimensions(p.limit(f))
	if err != nil {
		return Dimensions{}, fmt.Errorf("%s: %w", path, err)
	}
	return dims, nil
}

func (p *Prober) probeRemote(ctx context.Context, link string) (Dimensions, error) {
	var dims Dimensions
	err := p.opts.Retry.Do(ctx, isTransient, func(attempt int) error {
		if attempt > 0 {
			p.recorder.IncProbeRetry(string(SourceRemote))
			p.logger.Debug("Retrying image fetch", logfields.URL(link), logfields.Attempt(attempt))
		}
		var ferr error
		dims, ferr = p.fetch(ctx, link)
		return ferr
	})
	if err != nil {
		if errors.IsClassified(err) {
			return Dimensions{}, err
		}
		return Dimensions{}, errors.WrapError(err, errors.CategoryNetwork, "failed to fetch image").
			WithContext("url", link).
			Build()
	}
	return dims, nil
}

func (p *Prober) fetch(ctx context.Context, link string) (Dimensions, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, http.NoBody)
	if err != nil {
		return Dimensions{}, errors.WrapError(err, errors.CategoryAsset, "invalid image URL").WithContext("url", link).Build()
	}
	if p.opts.UserAgent != "" {
		req.Header.Set("User-Agent", p.opts.UserAgent)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Dimensions{}, ctx.Err()
		}
		return Dimensions{}, errors.WrapError(err, errors.CategoryNetwork, "failed to fetch image").
			Retryable().
			WithContext("url", link).
			Build()
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)
		return Dimensions{}, statusError(link, resp.StatusCode)
	}

	dims, _, err := DecodeDimensions(p.limit(resp.Body))
	if err != nil {
		return Dimensions{}, fmt.Errorf("%s: %w", link, err)
	}
	return dims, nil
}

// statusError classifies a non-2xx response: 429 waits out the rate limit,
// 5xx backs off, anything else is permanent.
func statusError(link string, code int) error {
	b := errors.WrapError(&StatusError{URL: link, StatusCode: code}, errors.CategoryNetwork, "unexpected response status").
		WithContext("url", link).
		WithContext("status", code)
	switch {
	case code == http.StatusTooManyRequests:
		b.RateLimit()
	case code >= 500:
		b.Retryable()
	}
	return b.Build()
}

func (p *Prober) limit(r io.Reader) io.Reader {
	if p.opts.MaxBytes <= 0 {
		return r
	}
	return io.LimitReader(r, p.opts.MaxBytes)
}

// StatusError is returned when a remote asset responds with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

// isTransient reports whether a remote fetch error is worth retrying.
func isTransient(err error) bool {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errors.IsTransient(err)
}
