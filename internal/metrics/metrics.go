// Package metrics collects in-process counters, gauges, and histograms for
// sweep throughput and probe outcomes. The Prometheus exposition lives in
// prometheus.go; this registry backs lightweight in-memory snapshots.
package metrics

import (
	"sync"
	"time"
)

// MetricType distinguishes counters, gauges, and histograms.
type MetricType string

const (
	TypeCounter   MetricType = "counter"
	TypeGauge     MetricType = "gauge"
	TypeHistogram MetricType = "histogram"
)

// Labels are key-value pairs attached to a metric.
type Labels map[string]string

// Metric is one recorded series with its metadata.
type Metric struct {
	Name      string
	Type      MetricType
	Value     float64
	Labels    Labels
	Timestamp time.Time
}

// Registry stores metrics keyed by name and label set.
type Registry struct {
	mu      sync.RWMutex
	metrics map[string]*Metric
	enabled bool
}

// NewRegistry returns an empty, enabled registry.
func NewRegistry() *Registry {
	return &Registry{
		metrics: make(map[string]*Metric),
		enabled: true,
	}
}

// SetEnabled toggles collection. A disabled registry drops all writes.
func (r *Registry) SetEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = enabled
}

// IsEnabled reports whether the registry accepts writes.
func (r *Registry) IsEnabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

// Counter increments the named counter by one.
func (r *Registry) Counter(name string, labels Labels) {
	if !r.IsEnabled() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.makeKey(name, labels)
	if metric, exists := r.metrics[key]; exists {
		metric.Value++
		metric.Timestamp = time.Now()
	} else {
		r.metrics[key] = &Metric{
			Name:      name,
			Type:      TypeCounter,
			Value:     1,
			Labels:    labels,
			Timestamp: time.Now(),
		}
	}
}

// Gauge sets the named gauge to value.
func (r *Registry) Gauge(name string, value float64, labels Labels) {
	if !r.IsEnabled() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.makeKey(name, labels)
	r.metrics[key] = &Metric{
		Name:      name,
		Type:      TypeGauge,
		Value:     value,
		Labels:    labels,
		Timestamp: time.Now(),
	}
}

// Histogram records an observation. The in-memory registry keeps only the
// most recent value per series; full distributions come from Prometheus.
func (r *Registry) Histogram(name string, value float64, labels Labels) {
	if !r.IsEnabled() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.makeKey(name, labels)
	if metric, exists := r.metrics[key]; exists {
		metric.Value = value
		metric.Timestamp = time.Now()
	} else {
		r.metrics[key] = &Metric{
			Name:      name,
			Type:      TypeHistogram,
			Value:     value,
			Labels:    labels,
			Timestamp: time.Now(),
		}
	}
}

// GetMetrics returns a deep copy of every recorded series.
func (r *Registry) GetMetrics() map[string]*Metric {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*Metric, len(r.metrics))
	for key, metric := range r.metrics {
		result[key] = &Metric{
			Name:      metric.Name,
			Type:      metric.Type,
			Value:     metric.Value,
			Labels:    copyLabels(metric.Labels),
			Timestamp: metric.Timestamp,
		}
	}
	return result
}

// Reset drops all recorded series.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = make(map[string]*Metric)
}

func (r *Registry) makeKey(name string, labels Labels) string {
	if len(labels) == 0 {
		return name
	}

	key := name
	for k, v := range labels {
		key += ":" + k + "=" + v
	}
	return key
}

func copyLabels(labels Labels) Labels {
	if labels == nil {
		return nil
	}
	result := make(Labels, len(labels))
	for k, v := range labels {
		result[k] = v
	}
	return result
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Metric names recorded by the sweep engine.
const (
	MetricSweepTotal     = "sweep_total"
	MetricTargetsScanned = "targets_scanned_total"
	MetricActiveWorkers  = "workers_active"
	MetricProbeDuration  = "probe_duration_seconds"
	MetricDevicesFound   = "devices_found_total"
)

// Label keys used by the sweep metrics.
const (
	LabelStatus     = "status"
	LabelDeviceType = "device_type"
)

// RecordProbeDuration records the wall time of one probe.
func RecordProbeDuration(deviceType string, duration time.Duration) {
	defaultRegistry.Histogram(MetricProbeDuration, duration.Seconds(), Labels{
		LabelDeviceType: deviceType,
	})
}

// IncrementSweepTotal counts a finished sweep by terminal status.
func IncrementSweepTotal(status string) {
	defaultRegistry.Counter(MetricSweepTotal, Labels{
		LabelStatus: status,
	})
}

// IncrementTargetsScanned counts a probed target by port status.
func IncrementTargetsScanned(status string) {
	defaultRegistry.Counter(MetricTargetsScanned, Labels{
		LabelStatus: status,
	})
}

// IncrementDevicesFound counts a classified device.
func IncrementDevicesFound(deviceType string) {
	defaultRegistry.Counter(MetricDevicesFound, Labels{
		LabelDeviceType: deviceType,
	})
}

// SetActiveWorkers sets the live worker gauge.
func SetActiveWorkers(count int) {
	defaultRegistry.Gauge(MetricActiveWorkers, float64(count), nil)
}
