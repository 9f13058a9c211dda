// Prometheus-based collectors for adbsweep. These sit next to the in-memory
// registry and expose sweep and probe metrics through the standard Prometheus
// client library for monitoring integration.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	// Namespace for all adbsweep metrics.
	namespace = "adbsweep"

	subsystemSweep = "sweep"
	subsystemProbe = "probe"
)

// PrometheusMetrics holds all Prometheus metric collectors.
type PrometheusMetrics struct {
	// Sweep metrics
	sweepsTotal   *prometheus.CounterVec
	sweepDuration prometheus.Histogram
	activeSweeps  prometheus.Gauge
	activeWorkers prometheus.Gauge

	// Probe metrics
	probesTotal   *prometheus.CounterVec
	probeDuration *prometheus.HistogramVec
	probeErrors   *prometheus.CounterVec
	devicesFound  *prometheus.CounterVec

	startTime time.Time
	registry  *prometheus.Registry
}

// NewPrometheusMetrics creates a new Prometheus metrics instance with all collectors.
func NewPrometheusMetrics() *PrometheusMetrics {
	registry := prometheus.NewRegistry()

	pm := &PrometheusMetrics{
		startTime: time.Now(),
		registry:  registry,
	}

	pm.initSweepMetrics()
	pm.initProbeMetrics()
	pm.registerMetrics()

	// Register standard Go and process collectors for runtime visibility
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return pm
}

// initSweepMetrics initializes sweep-level metrics.
func (pm *PrometheusMetrics) initSweepMetrics() {
	pm.sweepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemSweep,
			Name:      "total",
			Help:      "Total number of sweeps performed by final status",
		},
		[]string{"status"},
	)

	pm.sweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemSweep,
			Name:      "duration_seconds",
			Help:      "Duration of complete sweeps in seconds",
			Buckets:   []float64{1.0, 5.0, 10.0, 30.0, 60.0, 300.0, 600.0, 1800.0},
		},
	)

	pm.activeSweeps = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemSweep,
			Name:      "active",
			Help:      "Number of currently running sweep sessions",
		},
	)

	pm.activeWorkers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemSweep,
			Name:      "workers_active",
			Help:      "Number of worker goroutines currently probing",
		},
	)
}

// initProbeMetrics initializes per-probe metrics.
func (pm *PrometheusMetrics) initProbeMetrics() {
	pm.probesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemProbe,
			Name:      "total",
			Help:      "Total number of probes by port status",
		},
		[]string{"port_status"},
	)

	pm.probeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemProbe,
			Name:      "duration_seconds",
			Help:      "Duration of individual probes in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
		},
		[]string{"device_type"},
	)

	pm.probeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemProbe,
			Name:      "errors_total",
			Help:      "Total number of probe errors by error kind",
		},
		[]string{"error_kind"},
	)

	pm.devicesFound = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemProbe,
			Name:      "devices_found_total",
			Help:      "Total number of classified devices by type",
		},
		[]string{"device_type"},
	)
}

// registerMetrics registers all collectors with the registry.
func (pm *PrometheusMetrics) registerMetrics() {
	pm.registry.MustRegister(
		pm.sweepsTotal,
		pm.sweepDuration,
		pm.activeSweeps,
		pm.activeWorkers,
		pm.probesTotal,
		pm.probeDuration,
		pm.probeErrors,
		pm.devicesFound,
	)
}

// Registry returns the underlying Prometheus registry for exposition.
func (pm *PrometheusMetrics) Registry() *prometheus.Registry {
	return pm.registry
}

// RecordSweepDuration records the duration of a completed sweep.
func (pm *PrometheusMetrics) RecordSweepDuration(duration time.Duration) {
	pm.sweepDuration.Observe(duration.Seconds())
}

// IncrementSweepsTotal increments the sweep counter for the given status.
func (pm *PrometheusMetrics) IncrementSweepsTotal(status string) {
	pm.sweepsTotal.WithLabelValues(status).Inc()
}

// SweepStarted increments the active sweep gauge.
func (pm *PrometheusMetrics) SweepStarted() {
	pm.activeSweeps.Inc()
}

// SweepFinished decrements the active sweep gauge.
func (pm *PrometheusMetrics) SweepFinished() {
	pm.activeSweeps.Dec()
}

// SetActiveWorkers sets the active worker gauge.
func (pm *PrometheusMetrics) SetActiveWorkers(count int) {
	pm.activeWorkers.Set(float64(count))
}

// RecordProbe records the outcome of a single probe.
func (pm *PrometheusMetrics) RecordProbe(portStatus, deviceType string, duration time.Duration) {
	pm.probesTotal.WithLabelValues(portStatus).Inc()
	pm.probeDuration.WithLabelValues(deviceType).Observe(duration.Seconds())
}

// IncrementProbeErrors increments the probe error counter for an error kind.
func (pm *PrometheusMetrics) IncrementProbeErrors(errorKind string) {
	pm.probeErrors.WithLabelValues(errorKind).Inc()
}

// IncrementDevicesFound increments the classified device counter.
func (pm *PrometheusMetrics) IncrementDevicesFound(deviceType string) {
	pm.devicesFound.WithLabelValues(deviceType).Inc()
}

// Global Prometheus metrics instance.
var (
	globalPrometheus     *PrometheusMetrics
	globalPrometheusOnce sync.Once
)

// GetGlobalMetrics returns the global Prometheus metrics instance,
// creating it on first use.
func GetGlobalMetrics() *PrometheusMetrics {
	globalPrometheusOnce.Do(func() {
		globalPrometheus = NewPrometheusMetrics()
	})
	return globalPrometheus
}
