package leaflet

import (
	"context"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docleaflet/internal/asset"
	"git.home.luguber.info/inful/docleaflet/internal/foundation/errors"
	"git.home.luguber.info/inful/docleaflet/internal/hast"
)

// ContainerClass is the class carried by every generated map container.
const ContainerClass = "leaflet-map"

// DimensionProber resolves an image reference to its pixel dimensions.
type DimensionProber interface {
	ProbeDimensions(ctx context.Context, ref string) (asset.Dimensions, error)
}

// Synthesizer builds replacement embeds from resolved configurations.
type Synthesizer struct {
	prober DimensionProber
	crs    CRS
}

// NewSynthesizer creates a Synthesizer. crs defaults to SimpleCRS. prober may
// be nil when no block needs derived bounds; such blocks then fail.
func NewSynthesizer(prober DimensionProber, crs CRS) *Synthesizer {
	if crs == nil {
		crs = SimpleCRS{}
	}
	return &Synthesizer{prober: prober, crs: crs}
}

// Embed is a synthesized replacement plus what went into it.
type Embed struct {
	Node   *hast.Node
	Mode   BoundsMode
	Bounds *Bounds
}

// Synthesize builds the wrapper node for cfg. Only derived mode touches the
// prober; its failures come back as geometry errors.
func (s *Synthesizer) Synthesize(ctx context.Context, cfg MapConfig) (*Embed, error) {
	mode := SelectMode(cfg)
	ref := asset.ParseReference(cfg.Image)

	var bounds *Bounds
	switch mode {
	case ModeExplicit:
		b := *cfg.Bounds
		bounds = &b
	case ModeDerived:
		b, err := s.deriveBounds(ctx, cfg)
		if err != nil {
			return nil, err
		}
		bounds = &b
	}

	script, err := Script(ScriptData{
		ID:           cfg.ID,
		CRS:          s.crs.JS(),
		Mode:         mode,
		Image:        ref.Link,
		Alias:        ref.Alias,
		Bounds:       bounds,
		Lat:          cfg.Lat,
		Long:         cfg.Long,
		MinZoom:      cfg.MinZoom,
		MaxZoom:      cfg.MaxZoom,
		DefaultZoom:  cfg.DefaultZoom,
		ZoomDelta:    cfg.ZoomDelta,
		NoUI:         cfg.NoUI,
		NoScrollZoom: cfg.NoScrollZoom,
		Recenter:     cfg.Recenter,
		TileLayer:    cfg.TileLayer,
		Attribution:  cfg.Attribution,
		Markers:      cfg.Markers,
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfigParse, "map configuration cannot be rendered").
			WithContext("map_id", cfg.ID).
			Build()
	}

	container := hast.Element("div", map[string]any{
		"id":               cfg.ID,
		hast.PropClassName: []string{ContainerClass},
		"style":            containerStyle(cfg.Width, cfg.Height),
	})
	wrapper := hast.Element("div", nil,
		container,
		hast.Element("script", nil, hast.Text(script)),
	)
	return &Embed{Node: wrapper, Mode: mode, Bounds: bounds}, nil
}

func (s *Synthesizer) deriveBounds(ctx context.Context, cfg MapConfig) (Bounds, error) {
	if s.prober == nil {
		return Bounds{}, errors.GeometryError("no image prober configured").WithContext("image", cfg.Image).Build()
	}
	dims, err := s.prober.ProbeDimensions(ctx, cfg.Image)
	if err != nil {
		return Bounds{}, errors.WrapError(err, errors.CategoryGeometry, "failed to resolve image geometry").
			WithContext("image", cfg.Image).
			WithContext("map_id", cfg.ID).
			Build()
	}
	b, err := DeriveBounds(s.crs, dims, cfg.MaxZoom)
	if err != nil {
		return Bounds{}, errors.WrapError(err, errors.CategoryGeometry, "invalid image geometry").
			WithContext("image", cfg.Image).
			Build()
	}
	return b, nil
}

// containerStyle renders inline sizing. Bare numbers are taken as pixels.
func containerStyle(width, height string) string {
	return fmt.Sprintf("width: %s; height: %s;", cssLength(width), cssLength(height))
}

func cssLength(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "auto"
	}
	if strings.IndexFunc(v, func(r rune) bool { return (r < '0' || r > '9') && r != '.' }) < 0 {
		return v + "px"
	}
	// Keep declarations from leaking into neighbours.
	return strings.NewReplacer(";", "", "\"", "", "<", "", ">", "").Replace(v)
}
