package leaflet

import (
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docleaflet/internal/foundation/errors"
	"git.home.luguber.info/inful/docleaflet/internal/hast"
)

// Resolver turns map block bodies into fully populated configurations.
type Resolver struct {
	defaults MapConfig
	ids      IDGenerator
}

// NewResolver creates a Resolver. ids may be nil, in which case a fresh
// counter generator with the default prefix is used.
func NewResolver(defaults MapConfig, ids IDGenerator) *Resolver {
	if ids == nil {
		ids = NewCounterIDs("leaflet-map-")
	}
	return &Resolver{defaults: defaults.clone(), ids: ids}
}

// Resolve concatenates the direct text children of n and resolves the result.
func (r *Resolver) Resolve(n *hast.Node) (MapConfig, error) {
	return r.ResolveBody(n.DirectText())
}

// ResolveBody decodes body over the default record. Keys present in body
// replace the default wholesale; absent keys keep it. A missing id is
// generated. Decode failures are returned as config_parse errors.
func (r *Resolver) ResolveBody(body string) (MapConfig, error) {
	cfg := r.defaults.clone()
	if err := yaml.Unmarshal([]byte(body), &cfg); err != nil {
		return MapConfig{}, errors.WrapError(err, errors.CategoryConfigParse, "invalid map configuration").
			WithContext("body_bytes", len(body)).
			Build()
	}
	if len(cfg.Extra) == 0 {
		cfg.Extra = nil
	}
	if cfg.ID == "" {
		cfg.ID = r.ids.NextID()
	}
	return cfg, nil
}

// IsConfigParseError reports whether err came from a block body that failed to decode.
func IsConfigParseError(err error) bool {
	return errors.HasCategory(err, errors.CategoryConfigParse)
}

// IsGeometryResolutionError reports whether err came from a failed image probe.
func IsGeometryResolutionError(err error) bool {
	return errors.HasCategory(err, errors.CategoryGeometry)
}
