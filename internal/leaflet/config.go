package leaflet

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docleaflet/internal/config"
	"git.home.luguber.info/inful/docleaflet/internal/foundation/errors"
)

// LatLng is a coordinate pair in [lat, lng] order. For image maps laid out in
// the simple CRS, lat is the vertical and lng the horizontal pixel axis.
type LatLng [2]float64

// Bounds is an axis-aligned rectangle given as two corners.
type Bounds [2]LatLng

// Marker is a pin placed on the map.
type Marker struct {
	Lat   float64 `yaml:"lat" json:"lat"`
	Long  float64 `yaml:"long" json:"long"`
	Popup string  `yaml:"popup,omitempty" json:"popup,omitempty"`
}

// UnmarshalYAML reads a marker mapping. lng is accepted as an alias of long;
// any other key is rejected so a misspelled coordinate cannot default to 0.
func (m *Marker) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: marker must be a mapping", node.Line)
	}
	var out Marker
	lngKey := ""
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		var err error
		switch key.Value {
		case "lat":
			err = val.Decode(&out.Lat)
		case "long", "lng":
			if lngKey != "" {
				return fmt.Errorf("line %d: marker sets both %s and %s", key.Line, lngKey, key.Value)
			}
			lngKey = key.Value
			err = val.Decode(&out.Long)
		case "popup":
			err = val.Decode(&out.Popup)
		default:
			return fmt.Errorf("line %d: unknown marker key %q", key.Line, key.Value)
		}
		if err != nil {
			return err
		}
	}
	*m = out
	return nil
}

// MapConfig is the resolved configuration of one map block.
type MapConfig struct {
	ID           string   `yaml:"id" json:"id"`
	Image        string   `yaml:"image" json:"image"`
	Bounds       *Bounds  `yaml:"bounds" json:"bounds,omitempty"`
	Lat          float64  `yaml:"lat" json:"lat"`
	Long         float64  `yaml:"long" json:"long"`
	Height       string   `yaml:"height" json:"height"`
	Width        string   `yaml:"width" json:"width"`
	MinZoom      float64  `yaml:"minZoom" json:"minZoom"`
	MaxZoom      float64  `yaml:"maxZoom" json:"maxZoom"`
	DefaultZoom  float64  `yaml:"defaultZoom" json:"defaultZoom"`
	ZoomDelta    float64  `yaml:"zoomDelta" json:"zoomDelta"`
	Unit         string   `yaml:"unit" json:"unit"`
	Scale        float64  `yaml:"scale" json:"scale"`
	NoUI         bool     `yaml:"noUI" json:"noUI"`
	NoScrollZoom bool     `yaml:"noScrollZoom" json:"noScrollZoom"`
	Recenter     bool     `yaml:"recenter" json:"recenter"`
	TileLayer    string   `yaml:"tileLayer" json:"tileLayer"`
	Attribution  string   `yaml:"attribution" json:"attribution"`
	Markers      []Marker `yaml:"markers" json:"markers,omitempty"`

	// Extra keeps unrecognized keys. Nothing downstream reads them.
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Default map record values.
const (
	DefaultLat         = 39.983334
	DefaultLong        = -82.983330
	DefaultHeight      = "500px"
	DefaultWidth       = "100%"
	DefaultMinZoom     = 1
	DefaultMaxZoom     = 10
	DefaultDefaultZoom = 5
	DefaultZoomDelta   = 1
	DefaultUnit        = "m"
	DefaultScale       = 1
	DefaultTileLayer   = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultAttribution = "&copy; OpenStreetMap contributors"
)

// DefaultMapConfig returns the built-in default record. Every call returns a
// fresh value, so callers may keep it without sharing state.
func DefaultMapConfig() MapConfig {
	return MapConfig{
		Lat:         DefaultLat,
		Long:        DefaultLong,
		Height:      DefaultHeight,
		Width:       DefaultWidth,
		MinZoom:     DefaultMinZoom,
		MaxZoom:     DefaultMaxZoom,
		DefaultZoom: DefaultDefaultZoom,
		ZoomDelta:   DefaultZoomDelta,
		Unit:        DefaultUnit,
		Scale:       DefaultScale,
		TileLayer:   DefaultTileLayer,
		Attribution: DefaultAttribution,
	}
}

// DefaultsFromConfig applies the map_defaults section over the built-in record.
func DefaultsFromConfig(c config.MapDefaultsConfig) MapConfig {
	d := DefaultMapConfig()
	if c.Height != "" {
		d.Height = c.Height
	}
	if c.Width != "" {
		d.Width = c.Width
	}
	if c.MinZoom != 0 {
		d.MinZoom = c.MinZoom
	}
	if c.MaxZoom != 0 {
		d.MaxZoom = c.MaxZoom
	}
	if c.DefaultZoom != 0 {
		d.DefaultZoom = c.DefaultZoom
	}
	if c.ZoomDelta != 0 {
		d.ZoomDelta = c.ZoomDelta
	}
	if c.TileLayer != "" {
		d.TileLayer = c.TileLayer
	}
	if c.Attribution != "" {
		d.Attribution = c.Attribution
	}
	return d
}

// clone returns a copy that shares no composite values with c.
func (c MapConfig) clone() MapConfig {
	out := c
	if c.Bounds != nil {
		b := *c.Bounds
		out.Bounds = &b
	}
	if c.Markers != nil {
		out.Markers = append([]Marker(nil), c.Markers...)
	}
	if c.Extra != nil {
		out.Extra = make(map[string]any, len(c.Extra))
		for k, v := range c.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// Override decodes fields over c the way a block body is decoded. It is used
// for per-document defaults, so an id in fields is ignored.
func (c MapConfig) Override(fields map[string]any) (MapConfig, error) {
	out := c.clone()
	if len(fields) == 0 {
		return out, nil
	}
	rest := make(map[string]any, len(fields))
	for k, v := range fields {
		if k != "id" {
			rest[k] = v
		}
	}
	raw, err := yaml.Marshal(rest)
	if err != nil {
		return MapConfig{}, errors.WrapError(err, errors.CategoryConfigParse, "invalid map defaults").Build()
	}
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return MapConfig{}, errors.WrapError(err, errors.CategoryConfigParse, "invalid map defaults").Build()
	}
	return out, nil
}
