package leaflet

import (
	"math"

	"git.home.luguber.info/inful/docleaflet/internal/config"
)

// Point is a pixel position (x to the right, y downwards) at some zoom level.
type Point struct {
	X, Y float64
}

// CRS mirrors the client-side coordinate reference system the map is created
// with, so bounds computed here line up with the rendered tile grid.
type CRS interface {
	// Unproject converts a pixel point at zoom into a coordinate.
	Unproject(p Point, zoom float64) LatLng
	// JS is the expression naming this CRS in the generated script.
	JS() string
}

// SimpleCRS is Leaflet's L.CRS.Simple: a flat plane where one unit is one
// pixel at zoom 0 and the y axis points up.
type SimpleCRS struct{}

func (SimpleCRS) Unproject(p Point, zoom float64) LatLng {
	scale := math.Pow(2, zoom)
	return LatLng{positiveZero(-p.Y / scale), positiveZero(p.X / scale)}
}

func (SimpleCRS) JS() string { return "L.CRS.Simple" }

// EPSG3857 is Leaflet's default spherical Mercator CRS with 256px tiles.
type EPSG3857 struct{}

const earthRadius = 6378137.0

func (EPSG3857) Unproject(p Point, zoom float64) LatLng {
	scale := 256 * math.Pow(2, zoom)
	k := 0.5 / (math.Pi * earthRadius)
	// Undo the transformation (k, 0.5, -k, 0.5) applied after projection.
	x := (p.X/scale - 0.5) / k
	y := (p.Y/scale - 0.5) / -k

	const d = 180 / math.Pi
	lat := (2*math.Atan(math.Exp(y/earthRadius)) - math.Pi/2) * d
	lng := x * d / earthRadius
	return LatLng{positiveZero(lat), positiveZero(lng)}
}

func (EPSG3857) JS() string { return "L.CRS.EPSG3857" }

// CRSFor maps a configured CRS name onto its implementation.
func CRSFor(name config.CRSName) CRS {
	if name == config.CRSEPSG3857 {
		return EPSG3857{}
	}
	return SimpleCRS{}
}

// positiveZero folds -0 onto 0 so rendered literals stay stable.
func positiveZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
