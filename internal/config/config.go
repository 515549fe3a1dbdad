// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and FAIRSHARE_ env vars.
// - Errors are wrapped with this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// TransferTolerance is the settled-balance threshold and the smallest
	// transfer worth reporting.
	TransferTolerance float64 `koanf:"transfer_tolerance"`

	// DefaultMinimumScore applies when a request omits minimum_score.
	DefaultMinimumScore float64 `koanf:"default_minimum_score"`

	// MinParticipants and MaxParticipants bound the participant count.
	MinParticipants int `koanf:"min_participants"`
	MaxParticipants int `koanf:"max_participants"`

	// MaxBodyBytes caps request bodies accepted by the API.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// MetricsNamespace and MetricsSubsystem prefix every exported metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsLatencyBuckets overrides the latency histogram buckets, in
	// milliseconds. Empty keeps the Prometheus defaults.
	MetricsLatencyBuckets []float64 `koanf:"metrics_latency_buckets"`

	// MetricsConstLabels are attached to every metric, e.g. {deployment: eu}.
	MetricsConstLabels map[string]string `koanf:"metrics_const_labels"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		TransferTolerance:   0.01,
		DefaultMinimumScore: 20,
		MinParticipants:     2,
		MaxParticipants:     10,
		MaxBodyBytes:        1 << 20,
		MetricsNamespace:    "fairshare",
		MetricsSubsystem:    "calculator",
	}
}
