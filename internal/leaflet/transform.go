package leaflet

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/docleaflet/internal/config"
	"git.home.luguber.info/inful/docleaflet/internal/foundation/errors"
	"git.home.luguber.info/inful/docleaflet/internal/hast"
	"git.home.luguber.info/inful/docleaflet/internal/logfields"
	"git.home.luguber.info/inful/docleaflet/internal/metrics"
)

// ErrorProperty is set on a failed block when failure marking is enabled.
// Its value is the error category.
const ErrorProperty = "data-leaflet-error"

// Options configures a Transformer.
type Options struct {
	Defaults     *MapConfig // nil means DefaultMapConfig
	IDStrategy   config.IDStrategy
	IDPrefix     string
	Prober       DimensionProber
	CRS          CRS
	Concurrency  int
	MarkFailures bool
	ReplaceFence bool // replace the enclosing pre instead of the code element
	Recorder     metrics.Recorder
	Logger       *slog.Logger
}

// Transformer replaces every map block in a tree with its embed.
type Transformer struct {
	opts        Options
	synthesizer *Synthesizer
	recorder    metrics.Recorder
	logger      *slog.Logger
}

// NewTransformer creates a Transformer. Zero options fall back to the
// built-in defaults, a counter id generator and sequential synthesis.
func NewTransformer(opts Options) *Transformer {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.CRS == nil {
		opts.CRS = SimpleCRS{}
	}
	if opts.Defaults == nil {
		d := DefaultMapConfig()
		opts.Defaults = &d
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Transformer{
		opts:        opts,
		synthesizer: NewSynthesizer(opts.Prober, opts.CRS),
		recorder:    metrics.OrNoop(opts.Recorder),
		logger:      logger,
	}
}

// NewTransformerFromConfig wires a Transformer from the tool configuration.
func NewTransformerFromConfig(cfg *config.Config, prober DimensionProber, recorder metrics.Recorder, logger *slog.Logger) *Transformer {
	defaults := DefaultsFromConfig(cfg.MapDefaults)
	return NewTransformer(Options{
		Defaults:     &defaults,
		IDStrategy:   cfg.Embed.IDStrategy,
		IDPrefix:     cfg.Embed.IDPrefix,
		Prober:       prober,
		CRS:          CRSFor(cfg.Embed.CRS),
		Concurrency:  cfg.Embed.Concurrency,
		MarkFailures: cfg.Embed.MarkFailuresEnabled(),
		ReplaceFence: cfg.Embed.ReplaceFenceEnabled(),
		Recorder:     recorder,
		Logger:       logger,
	})
}

// WithDefaults returns a Transformer sharing t's settings but resolving
// blocks over defaults.
func (t *Transformer) WithDefaults(defaults MapConfig) *Transformer {
	cp := *t
	d := defaults.clone()
	cp.opts.Defaults = &d
	return &cp
}

// Defaults returns a copy of the record blocks are resolved over.
func (t *Transformer) Defaults() MapConfig {
	return t.opts.Defaults.clone()
}

// BlockResult is the outcome for one map block. Index is the block's
// ordinal in document order.
type BlockResult struct {
	Index int
	MapID string
	Mode  BoundsMode
	Err   error
}

// Report summarizes one Transform call.
type Report struct {
	Blocks   []BlockResult
	Duration time.Duration
}

// Embedded returns the number of blocks that were replaced.
func (r *Report) Embedded() int {
	n := 0
	for _, b := range r.Blocks {
		if b.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the blocks that were left in place.
func (r *Report) Failed() []BlockResult {
	var failed []BlockResult
	for _, b := range r.Blocks {
		if b.Err != nil {
			failed = append(failed, b)
		}
	}
	return failed
}

// Err joins every block error, or returns nil when all blocks embedded.
func (r *Report) Err() error {
	var errs []error
	for _, b := range r.Failed() {
		errs = append(errs, b.Err)
	}
	return stderrors.Join(errs...)
}

type blockWork struct {
	target Target
	cfg    MapConfig
	embed  *Embed
	result BlockResult
}

// Transform detects all map blocks, resolves and synthesizes each one, then
// swaps the replacements into the tree at their recorded positions. A block
// that fails to resolve or synthesize stays in place and is reported; it does
// not affect its siblings. Structural tree errors and context cancellation
// abort the call before any node is changed.
func (t *Transformer) Transform(ctx context.Context, tree *hast.Node) (*Report, error) {
	start := time.Now()
	work, err := t.plan(ctx, tree)
	if err != nil {
		return nil, err
	}
	report := &Report{}
	for _, w := range work {
		t.apply(w)
		report.Blocks = append(report.Blocks, w.result)
	}
	report.Duration = time.Since(start)
	if len(work) == 0 {
		return report, nil
	}
	t.recorder.ObserveTransformDuration(report.Duration)
	t.logger.Debug("Transformed map blocks",
		logfields.Count(len(work)),
		slog.Int("failed", len(report.Failed())),
		logfields.DurationMS(float64(report.Duration.Microseconds())/1000))
	return report, nil
}

// Inspection describes what Transform would do with one block.
type Inspection struct {
	BlockResult
	Config MapConfig
	Bounds *Bounds
}

// Inspect resolves and synthesizes every block like Transform but leaves the
// tree unchanged.
func (t *Transformer) Inspect(ctx context.Context, tree *hast.Node) ([]Inspection, error) {
	work, err := t.plan(ctx, tree)
	if err != nil {
		return nil, err
	}
	out := make([]Inspection, 0, len(work))
	for _, w := range work {
		in := Inspection{BlockResult: w.result, Config: w.cfg}
		if w.embed != nil {
			in.Bounds = w.embed.Bounds
		}
		out = append(out, in)
	}
	return out, nil
}

func (t *Transformer) plan(ctx context.Context, tree *hast.Node) ([]*blockWork, error) {
	detect := Detect
	if t.opts.ReplaceFence {
		detect = DetectFenced
	}
	targets, err := detect(tree)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, nil
	}

	// Ids are handed out in document order, so resolution stays sequential.
	resolver := NewResolver(*t.opts.Defaults, NewIDGenerator(t.opts.IDStrategy, t.opts.IDPrefix))
	work := make([]*blockWork, len(targets))
	for i, target := range targets {
		w := &blockWork{target: target, result: BlockResult{Index: i}}
		w.cfg, w.result.Err = resolver.Resolve(target.Block)
		if w.result.Err == nil {
			w.result.MapID = w.cfg.ID
			w.result.Mode = SelectMode(w.cfg)
		}
		work[i] = w
	}

	if err := t.synthesizeAll(ctx, work); err != nil {
		return nil, err
	}
	return work, nil
}

func (t *Transformer) synthesizeAll(ctx context.Context, work []*blockWork) error {
	sem := make(chan struct{}, t.opts.Concurrency)
	var wg sync.WaitGroup
	for _, w := range work {
		if w.result.Err != nil {
			continue
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(w *blockWork) {
			defer wg.Done()
			defer func() { <-sem }()
			embed, err := t.synthesizer.Synthesize(ctx, w.cfg)
			if err != nil {
				w.result.Err = err
				return
			}
			w.embed = embed
		}(w)
	}
	wg.Wait()
	return ctx.Err()
}

func (t *Transformer) apply(w *blockWork) {
	log := t.logger.With(logfields.BlockIndex(w.result.Index))
	if w.result.Err == nil {
		w.result.Err = replace(w.target, w.embed.Node)
	}
	if w.result.Err != nil {
		category := errors.GetCategory(w.result.Err)
		if t.opts.MarkFailures {
			w.target.Node.SetProperty(ErrorProperty, string(category))
		}
		t.recorder.IncBlockOutcome(outcomeFor(category))
		log.Warn("Map block left unchanged",
			logfields.MapID(w.result.MapID),
			logfields.Image(w.cfg.Image),
			logfields.Error(w.result.Err))
		return
	}
	t.recorder.IncBlockOutcome(metrics.BlockEmbedded)
	log.Debug("Embedded map block",
		logfields.MapID(w.result.MapID),
		logfields.BoundsMode(string(w.result.Mode)))
}

func outcomeFor(category errors.ErrorCategory) metrics.BlockOutcome {
	switch category {
	case errors.CategoryConfigParse:
		return metrics.BlockParseFailed
	case errors.CategoryGeometry:
		return metrics.BlockGeometry
	default:
		return metrics.BlockInternal
	}
}

// replace puts replacement where target was found. A root target is
// overwritten in place so callers holding the root pointer see the embed.
func replace(target Target, replacement *hast.Node) error {
	if target.Parent == nil {
		*target.Node = *replacement
		return nil
	}
	if target.Index < 0 || target.Index >= len(target.Parent.Children) || target.Parent.Children[target.Index] != target.Node {
		return errors.InternalError("map block moved before replacement").
			WithContext("index", target.Index).
			Build()
	}
	target.Parent.Children[target.Index] = replacement
	return nil
}
