package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the only configuration version understood by Load.
const CurrentVersion = "1.0"

// Config is the docleaflet configuration file.
type Config struct {
	Version     string            `yaml:"version"`
	Embed       EmbedConfig       `yaml:"embed"`
	Assets      AssetsConfig      `yaml:"assets"`
	MapDefaults MapDefaultsConfig `yaml:"map_defaults"`
	Markdown    MarkdownConfig    `yaml:"markdown"`
	Logging     LoggingConfig     `yaml:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// EmbedConfig controls how map blocks are turned into embeds.
type EmbedConfig struct {
	CRS          CRSName    `yaml:"crs"`           // projection used for image overlays
	IDStrategy   IDStrategy `yaml:"id_strategy"`   // counter|uuid
	IDPrefix     string     `yaml:"id_prefix"`     // prefix for generated container ids
	Concurrency  int        `yaml:"concurrency"`   // blocks synthesized in parallel
	MarkFailures *bool      `yaml:"mark_failures"` // annotate failed blocks in the output
	ReplaceFence *bool      `yaml:"replace_fence"` // replace the whole pre fence, not just the code element
}

// AssetsConfig controls how overlay images are read for dimension probing.
type AssetsConfig struct {
	BaseDir           string           `yaml:"base_dir"`            // root for relative image paths
	HTTPTimeout       string           `yaml:"http_timeout"`        // per request timeout
	MaxBytes          int64            `yaml:"max_bytes"`           // cap on bytes read per asset
	UserAgent         string           `yaml:"user_agent"`          // sent with remote fetches
	RetryBackoff      RetryBackoffMode `yaml:"retry_backoff"`       // fixed|linear|exponential
	RetryInitialDelay string           `yaml:"retry_initial_delay"` // first retry delay
	RetryMaxDelay     string           `yaml:"retry_max_delay"`     // delay cap
	MaxRetries        *int             `yaml:"max_retries"`         // retries after the first attempt
}

// MapDefaultsConfig overrides the built-in default map record. Zero values keep
// the built-in default.
type MapDefaultsConfig struct {
	Height      string  `yaml:"height"`
	Width       string  `yaml:"width"`
	MinZoom     float64 `yaml:"min_zoom"`
	MaxZoom     float64 `yaml:"max_zoom"`
	DefaultZoom float64 `yaml:"default_zoom"`
	ZoomDelta   float64 `yaml:"zoom_delta"`
	TileLayer   string  `yaml:"tile_layer"`
	Attribution string  `yaml:"attribution"`
}

// MarkdownConfig controls Markdown to HTML conversion.
type MarkdownConfig struct {
	GFM        *bool `yaml:"gfm"`
	UnsafeHTML *bool `yaml:"unsafe_html"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig represents the Prometheus endpoint used by watch mode.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// Load loads a configuration file. A missing file is an error; use Default
// when no configuration file is wanted.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes, normalizes, defaults and validates configuration bytes.
// ${VAR} references are expanded from the environment first.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported configuration version: %s (expected %s)", config.Version, CurrentVersion)
	}

	if nres, nerr := NormalizeConfig(&config); nerr != nil {
		return nil, fmt.Errorf("normalize: %w", nerr)
	} else if nres != nil && len(nres.Warnings) > 0 {
		for _, w := range nres.Warnings {
			fmt.Fprintf(os.Stderr, "config normalization: %s\n", w)
		}
	}

	applyDefaults(&config)

	if err := ValidateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// Default returns a fully defaulted configuration without reading a file.
func Default() *Config {
	config := &Config{Version: CurrentVersion}
	applyDefaults(config)
	return config
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Default()
	exampleConfig.Assets.BaseDir = "./static"
	exampleConfig.Assets.UserAgent = "docleaflet (+${HOSTNAME})"

	data, err := yaml.Marshal(exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}

	header := "# docleaflet configuration\n# Values of the form ${VAR} are expanded from the environment.\n"
	// #nosec G306 -- example config is not sensitive
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
