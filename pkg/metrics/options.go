// Package metrics provides Prometheus metrics for the fairshare service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Manager. Each option maps to a metrics_* key of the
// service configuration; zero values keep the defaults.
type Option func(*Manager)

// WithNamespace replaces the "fairshare" metric name prefix.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem replaces the "calculator" metric name segment.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithLatencyBuckets sets the buckets, in milliseconds, of the calculation,
// HTTP and error latency histograms. Buckets must be strictly increasing.
func WithLatencyBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.latencyBuckets = append([]float64(nil), buckets...)
		}
	}
}

// WithConstLabels attaches labels such as the deployment name to every metric.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) {
		if len(labels) > 0 {
			m.constLabels = make(prometheus.Labels, len(labels))
			for k, v := range labels {
				m.constLabels[k] = v
			}
		}
	}
}

// WithPrometheusRegistry registers the collectors on registry instead of the
// default registerer.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
