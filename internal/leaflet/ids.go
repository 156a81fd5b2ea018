package leaflet

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docleaflet/internal/config"
)

// IDGenerator produces container ids for blocks that do not set one.
type IDGenerator interface {
	NextID() string
}

// CounterIDs yields prefix1, prefix2, ... It is safe for concurrent use.
type CounterIDs struct {
	prefix string
	n      atomic.Uint64
}

// NewCounterIDs creates a counter starting at 1.
func NewCounterIDs(prefix string) *CounterIDs {
	return &CounterIDs{prefix: prefix}
}

func (c *CounterIDs) NextID() string {
	return c.prefix + strconv.FormatUint(c.n.Add(1), 10)
}

// UUIDIDs yields prefix + random UUID.
type UUIDIDs struct {
	prefix string
}

// NewUUIDIDs creates a UUID based generator.
func NewUUIDIDs(prefix string) UUIDIDs {
	return UUIDIDs{prefix: prefix}
}

func (u UUIDIDs) NextID() string {
	return u.prefix + uuid.NewString()
}

// NewIDGenerator returns a fresh generator for the configured strategy.
func NewIDGenerator(strategy config.IDStrategy, prefix string) IDGenerator {
	if prefix == "" {
		prefix = config.DefaultIDPrefix
	}
	if strategy == config.IDStrategyUUID {
		return NewUUIDIDs(prefix)
	}
	return NewCounterIDs(prefix)
}
