package config

import "git.home.luguber.info/inful/docleaflet/internal/foundation/normalization"

// CRSName selects the coordinate reference system image overlays are laid out in.
type CRSName string

const (
	CRSSimple   CRSName = "simple"
	CRSEPSG3857 CRSName = "epsg3857"
)

var crsNormalizer = normalization.NewNormalizer(map[string]CRSName{
	"simple":   CRSSimple,
	"epsg3857": CRSEPSG3857,
}, CRSSimple)

// IDStrategy selects how container ids are generated for blocks without an id.
type IDStrategy string

const (
	IDStrategyCounter IDStrategy = "counter"
	IDStrategyUUID    IDStrategy = "uuid"
)

var idStrategyNormalizer = normalization.NewNormalizer(map[string]IDStrategy{
	"counter": IDStrategyCounter,
	"uuid":    IDStrategyUUID,
}, IDStrategyCounter)

// MarkFailuresEnabled reports whether failed blocks are annotated in the output.
func (e EmbedConfig) MarkFailuresEnabled() bool {
	return e.MarkFailures == nil || *e.MarkFailures
}

// ReplaceFenceEnabled reports whether a map block's enclosing pre is replaced.
func (e EmbedConfig) ReplaceFenceEnabled() bool {
	return e.ReplaceFence == nil || *e.ReplaceFence
}
