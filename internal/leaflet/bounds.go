package leaflet

import (
	"fmt"
	"math"

	"git.home.luguber.info/inful/docleaflet/internal/asset"
)

// BoundsMode says where a map's overlay bounds come from.
type BoundsMode string

const (
	// ModeExplicit uses the configured bounds verbatim.
	ModeExplicit BoundsMode = "explicit"
	// ModeDerived computes bounds from the image's pixel dimensions.
	ModeDerived BoundsMode = "derived"
	// ModeTiles has no overlay; the map shows a tile layer around lat/long.
	ModeTiles BoundsMode = "tiles"
)

// SelectMode picks the bounds mode for cfg. Explicit bounds always win, even
// when an image is set and its dimensions would disagree; the image is then
// stretched over the given bounds and never probed.
func SelectMode(cfg MapConfig) BoundsMode {
	switch {
	case cfg.Bounds != nil:
		return ModeExplicit
	case cfg.Image != "":
		return ModeDerived
	default:
		return ModeTiles
	}
}

// DeriveBounds un-projects the image corners (0, height) and (width, 0) at
// zoom maxZoom-1, yielding the south-west and north-east overlay corners.
func DeriveBounds(crs CRS, dims asset.Dimensions, maxZoom float64) (Bounds, error) {
	if dims.Width <= 0 || dims.Height <= 0 {
		return Bounds{}, fmt.Errorf("image dimensions must be positive, got %dx%d", dims.Width, dims.Height)
	}
	zoom := maxZoom - 1
	sw := crs.Unproject(Point{X: 0, Y: float64(dims.Height)}, zoom)
	ne := crs.Unproject(Point{X: float64(dims.Width), Y: 0}, zoom)
	b := Bounds{sw, ne}
	if !b.finite() || sw[0] == ne[0] || sw[1] == ne[1] {
		return Bounds{}, fmt.Errorf("image %dx%d has no usable extent at maxZoom %v", dims.Width, dims.Height, maxZoom)
	}
	return b, nil
}

func (b Bounds) finite() bool {
	for _, c := range b {
		for _, v := range c {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// Extent returns the second corner minus the first, component-wise. For
// pixel-space bounds this is the image size: Width from the first component,
// Height from the second.
func (b Bounds) Extent() asset.Dimensions {
	return asset.Dimensions{
		Width:  int(b[1][0] - b[0][0]),
		Height: int(b[1][1] - b[0][1]),
	}
}

// Ordered reports whether the first corner is south-west of the second.
func (b Bounds) Ordered() bool {
	return b[0][0] <= b[1][0] && b[0][1] <= b[1][1]
}
