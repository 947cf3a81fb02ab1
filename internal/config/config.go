// Package config defines client and host configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load(ctx) layers a YAML file and ENSAYOS_* environment variables on top.
// - Validation failures wrap ErrInvalidConfig; provider failures wrap ErrLoadConfig.
package config

import "time"

// Submit wire formats accepted by SubmitFormat.
const (
	SubmitFormatAuto    = "auto"
	SubmitFormatWrapped = "wrapped"
	SubmitFormatBare    = "bare"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// APIBase is the base address every API path is joined to.
	APIBase string `koanf:"api_base"`

	// TimeoutMS bounds each outbound request. Zero disables the bound.
	TimeoutMS int `koanf:"timeout_ms"`

	// TokenFile is the dotenv file holding the stored auth token.
	TokenFile string `koanf:"token_file"`

	// SubmitFormat selects the answer submission wire shape. auto sends each
	// payload as given; wrapped and bare force one shape.
	SubmitFormat string `koanf:"submit_format"`

	// Addr configures the SPA host listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StaticDir serves the SPA build from disk instead of the embedded shell.
	StaticDir string `koanf:"static_dir"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		APIBase:      "http://127.0.0.1:8000/api",
		TimeoutMS:    10_000,
		TokenFile:    ".ensayos.env",
		SubmitFormat: SubmitFormatAuto,
		Addr:         ":8080",
	}
}

// Timeout returns TimeoutMS as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}
