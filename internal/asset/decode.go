package asset

import (
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"

	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"git.home.luguber.info/inful/docleaflet/internal/foundation/errors"
)

// Dimensions are pixel dimensions of an image.
type Dimensions struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// DecodeDimensions reads just enough of r to report the image size and format.
func DecodeDimensions(r io.Reader) (Dimensions, string, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return Dimensions{}, "", errors.WrapError(err, errors.CategoryAsset, "failed to decode image header").Build()
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Dimensions{}, format, errors.AssetError("image has empty dimensions").
			WithContext("format", format).
			Build()
	}
	return Dimensions{Width: cfg.Width, Height: cfg.Height}, format, nil
}
