package config

// Built-in defaults for tool behavior. Map record defaults live with the map
// configuration type; MapDefaultsConfig only overrides them.
const (
	DefaultIDPrefix          = "leaflet-map-"
	DefaultHTTPTimeout       = "10s"
	DefaultMaxBytes          = 32 << 20
	DefaultUserAgent         = "docleaflet"
	DefaultRetryInitialDelay = "500ms"
	DefaultRetryMaxDelay     = "5s"
	DefaultMaxRetries        = 2
	DefaultMetricsListen     = ":9464"
)

func applyDefaults(c *Config) {
	if c.Embed.CRS == "" {
		c.Embed.CRS = CRSSimple
	}
	if c.Embed.IDStrategy == "" {
		c.Embed.IDStrategy = IDStrategyCounter
	}
	if c.Embed.IDPrefix == "" {
		c.Embed.IDPrefix = DefaultIDPrefix
	}
	if c.Embed.Concurrency <= 0 {
		c.Embed.Concurrency = 1
	}
	if c.Embed.MarkFailures == nil {
		v := true
		c.Embed.MarkFailures = &v
	}
	if c.Embed.ReplaceFence == nil {
		v := true
		c.Embed.ReplaceFence = &v
	}

	if c.Assets.BaseDir == "" {
		c.Assets.BaseDir = "."
	}
	if c.Assets.HTTPTimeout == "" {
		c.Assets.HTTPTimeout = DefaultHTTPTimeout
	}
	if c.Assets.MaxBytes <= 0 {
		c.Assets.MaxBytes = DefaultMaxBytes
	}
	if c.Assets.UserAgent == "" {
		c.Assets.UserAgent = DefaultUserAgent
	}
	if c.Assets.RetryBackoff == "" {
		c.Assets.RetryBackoff = RetryBackoffLinear
	}
	if c.Assets.RetryInitialDelay == "" {
		c.Assets.RetryInitialDelay = DefaultRetryInitialDelay
	}
	if c.Assets.RetryMaxDelay == "" {
		c.Assets.RetryMaxDelay = DefaultRetryMaxDelay
	}
	if c.Assets.MaxRetries == nil {
		v := DefaultMaxRetries
		c.Assets.MaxRetries = &v
	}

	if c.Markdown.GFM == nil {
		v := true
		c.Markdown.GFM = &v
	}
	if c.Markdown.UnsafeHTML == nil {
		v := true
		c.Markdown.UnsafeHTML = &v
	}

	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}
	if c.Logging.Format == "" {
		c.Logging.Format = LogFormatText
	}

	if c.Metrics.Listen == "" {
		c.Metrics.Listen = DefaultMetricsListen
	}
}
