package config

import (
	"fmt"
	"strings"
)

// NormalizationResult collects warnings produced while normalizing.
type NormalizationResult struct {
	Warnings []string
}

func (r *NormalizationResult) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// NormalizeConfig case-folds enumerations and trims free-form strings.
// Unknown enumeration values fall back to their default with a warning.
func NormalizeConfig(c *Config) (*NormalizationResult, error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}
	res := &NormalizationResult{}

	if raw := string(c.Embed.CRS); raw != "" {
		crs, err := crsNormalizer.NormalizeWithError(raw)
		if err != nil {
			res.warnf("embed.crs: %v, using %s", err, crs)
		}
		c.Embed.CRS = crs
	}
	if raw := string(c.Embed.IDStrategy); raw != "" {
		strategy, err := idStrategyNormalizer.NormalizeWithError(raw)
		if err != nil {
			res.warnf("embed.id_strategy: %v, using %s", err, strategy)
		}
		c.Embed.IDStrategy = strategy
	}
	if raw := string(c.Assets.RetryBackoff); raw != "" {
		mode := NormalizeRetryBackoff(raw)
		if mode == "" {
			res.warnf("assets.retry_backoff %q unknown, using %s", raw, RetryBackoffLinear)
			mode = RetryBackoffLinear
		}
		c.Assets.RetryBackoff = mode
	}
	if raw := string(c.Logging.Level); raw != "" {
		c.Logging.Level = NormalizeLogLevel(raw)
	}
	if raw := string(c.Logging.Format); raw != "" {
		c.Logging.Format = NormalizeLogFormat(raw)
	}

	c.Embed.IDPrefix = strings.TrimSpace(c.Embed.IDPrefix)
	c.Assets.BaseDir = strings.TrimSpace(c.Assets.BaseDir)
	c.MapDefaults.Height = strings.TrimSpace(c.MapDefaults.Height)
	c.MapDefaults.Width = strings.TrimSpace(c.MapDefaults.Width)

	return res, nil
}
