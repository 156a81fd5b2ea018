package config

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/docleaflet/internal/foundation/errors"
)

// ValidateConfig checks cross-field constraints after defaults are applied.
func ValidateConfig(c *Config) error {
	durations := []struct{ field, raw string }{
		{"assets.http_timeout", c.Assets.HTTPTimeout},
		{"assets.retry_initial_delay", c.Assets.RetryInitialDelay},
		{"assets.retry_max_delay", c.Assets.RetryMaxDelay},
	}
	for _, dur := range durations {
		field, raw := dur.field, dur.raw
		d, err := time.ParseDuration(raw)
		if err != nil {
			return errors.ValidationError(fmt.Sprintf("%s: invalid duration %q", field, raw)).WithContext("field", field).Build()
		}
		if d <= 0 {
			return errors.ValidationError(fmt.Sprintf("%s must be positive", field)).WithContext("field", field).Build()
		}
	}

	if c.Assets.MaxRetries != nil && *c.Assets.MaxRetries < 0 {
		return errors.ValidationError("assets.max_retries cannot be negative").Build()
	}
	if c.Embed.Concurrency > 64 {
		return errors.ValidationError("embed.concurrency must be at most 64").WithContext("value", c.Embed.Concurrency).Build()
	}

	d := c.MapDefaults
	if d.MinZoom < 0 || d.MaxZoom < 0 {
		return errors.ValidationError("map_defaults zoom levels cannot be negative").Build()
	}
	if d.MaxZoom != 0 && d.MinZoom > d.MaxZoom {
		return errors.ValidationError("map_defaults.min_zoom exceeds max_zoom").
			WithContext("min_zoom", d.MinZoom).
			WithContext("max_zoom", d.MaxZoom).
			Build()
	}
	if d.ZoomDelta < 0 {
		return errors.ValidationError("map_defaults.zoom_delta cannot be negative").Build()
	}

	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return errors.ValidationError("metrics.listen is required when metrics are enabled").Build()
	}
	return nil
}

// HTTPTimeoutDuration returns the parsed asset HTTP timeout.
func (a AssetsConfig) HTTPTimeoutDuration() time.Duration {
	return parseDurationOr(a.HTTPTimeout, 10*time.Second)
}

// RetryDelays returns the parsed initial and maximum retry delays.
func (a AssetsConfig) RetryDelays() (initial, maxDelay time.Duration) {
	return parseDurationOr(a.RetryInitialDelay, 500*time.Millisecond), parseDurationOr(a.RetryMaxDelay, 5*time.Second)
}

// Retries returns the configured retry count.
func (a AssetsConfig) Retries() int {
	if a.MaxRetries == nil {
		return DefaultMaxRetries
	}
	return *a.MaxRetries
}

func parseDurationOr(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
