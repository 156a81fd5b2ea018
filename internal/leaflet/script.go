package leaflet

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"text/template"
)

// ScriptData is everything the init script template needs.
type ScriptData struct {
	ID           string
	CRS          string // trusted JS expression, never user input
	Mode         BoundsMode
	Image        string
	Alias        string
	Bounds       *Bounds
	Lat          float64
	Long         float64
	MinZoom      float64
	MaxZoom      float64
	DefaultZoom  float64
	ZoomDelta    float64
	NoUI         bool
	NoScrollZoom bool
	Recenter     bool
	TileLayer    string
	Attribution  string
	Markers      []Marker
}

// Overlay reports whether the script places an image overlay.
func (d ScriptData) Overlay() bool {
	return d.Mode != ModeTiles && d.Bounds != nil && d.Image != ""
}

// Every interpolated value passes through lit, which renders a JSON literal.
// JSON string escaping also covers "<", ">" and "&", so no value can close the
// surrounding script element or break out of its string.
var scriptTemplate = template.Must(template.New("leaflet").Funcs(template.FuncMap{
	"lit": literal,
}).Parse(`document.addEventListener("DOMContentLoaded", function () {
  var map = L.map({{lit .ID}}, {
{{- if .Overlay}}
    crs: {{.CRS}},
{{- end}}
    minZoom: {{lit .MinZoom}},
    maxZoom: {{lit .MaxZoom}},
    zoomDelta: {{lit .ZoomDelta}},
    zoomSnap: {{lit .ZoomDelta}},
    zoomControl: {{lit (not .NoUI)}},
    attributionControl: {{lit (not .NoUI)}},
    scrollWheelZoom: {{lit (not .NoScrollZoom)}}
  });
{{- if .Overlay}}
  var bounds = L.latLngBounds({{lit .Bounds}});
  L.imageOverlay({{lit .Image}}, bounds{{if .Alias}}, { alt: {{lit .Alias}} }{{end}}).addTo(map);
  map.fitBounds(bounds);
  map.setZoom({{lit .DefaultZoom}});
{{- if .Recenter}}
  map.setMaxBounds(bounds);
{{- end}}
{{- else}}
  L.tileLayer({{lit .TileLayer}}, {
    attribution: {{lit .Attribution}},
    maxZoom: {{lit .MaxZoom}}
  }).addTo(map);
{{- if .Bounds}}
  map.fitBounds({{lit .Bounds}});
{{- else}}
  map.setView([{{lit .Lat}}, {{lit .Long}}], {{lit .DefaultZoom}});
{{- end}}
{{- end}}
{{- range .Markers}}
  L.marker([{{lit .Lat}}, {{lit .Long}}]).addTo(map){{if .Popup}}.bindPopup({{lit .Popup}}){{end}};
{{- end}}
});
`))

// Script renders the init script for d. It is a pure function of its input.
func Script(d ScriptData) (string, error) {
	var b strings.Builder
	if err := scriptTemplate.Execute(&b, d); err != nil {
		return "", fmt.Errorf("render map script: %w", err)
	}
	return b.String(), nil
}

func literal(v any) (string, error) {
	switch f := v.(type) {
	case float64:
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fmt.Errorf("non-finite number %v", f)
		}
	case *Bounds:
		if f == nil {
			return "null", nil
		}
	}
	out, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
