package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusMetrics_Initialization(t *testing.T) {
	pm := NewPrometheusMetrics()
	if pm == nil {
		t.Fatalf("NewPrometheusMetrics returned nil")
	}
	if pm.Registry() == nil {
		t.Fatalf("Registry returned nil")
	}
}

func TestPrometheusMetrics_HTTPHandlerServes(t *testing.T) {
	pm := NewPrometheusMetrics()
	pm.SweepStarted()
	pm.SetActiveWorkers(4)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	handler := promhttp.HandlerFor(pm.Registry(), promhttp.HandlerOpts{})
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	body := rr.Body.String()
	if !strings.Contains(body, "adbsweep_sweep_active") {
		t.Fatalf("expected active sweep gauge in output")
	}
	if !strings.Contains(body, "adbsweep_sweep_workers_active") {
		t.Fatalf("expected worker gauge in output")
	}
}

func TestPrometheusMetrics_SweepMetrics(t *testing.T) {
	pm := NewPrometheusMetrics()

	pm.IncrementSweepsTotal("completed")
	pm.IncrementSweepsTotal("completed")
	pm.IncrementSweepsTotal("cancelled")

	if count := testutil.CollectAndCount(pm.sweepsTotal); count != 2 {
		t.Errorf("expected 2 status label combinations, got %d", count)
	}
	if v := testutil.ToFloat64(pm.sweepsTotal.WithLabelValues("completed")); v != 2 {
		t.Errorf("expected 2 completed sweeps, got %v", v)
	}

	pm.RecordSweepDuration(3 * time.Second)
	pm.RecordSweepDuration(8 * time.Second)
	if count := testutil.CollectAndCount(pm.sweepDuration); count != 1 {
		t.Errorf("expected 1 histogram, got %d", count)
	}

	pm.SweepStarted()
	pm.SweepStarted()
	pm.SweepFinished()
	if v := testutil.ToFloat64(pm.activeSweeps); v != 1 {
		t.Errorf("expected 1 active sweep, got %v", v)
	}

	pm.SetActiveWorkers(50)
	if v := testutil.ToFloat64(pm.activeWorkers); v != 50 {
		t.Errorf("expected 50 active workers, got %v", v)
	}
}

func TestPrometheusMetrics_ProbeMetrics(t *testing.T) {
	pm := NewPrometheusMetrics()

	pm.RecordProbe("open", "SSH", 120*time.Millisecond)
	pm.RecordProbe("open", "ADB", 200*time.Millisecond)
	pm.RecordProbe("closed", "Unknown", 50*time.Millisecond)

	if count := testutil.CollectAndCount(pm.probesTotal); count != 2 {
		t.Errorf("expected 2 port status combinations, got %d", count)
	}
	if count := testutil.CollectAndCount(pm.probeDuration); count != 3 {
		t.Errorf("expected 3 device type histograms, got %d", count)
	}

	pm.IncrementProbeErrors("connection_timeout")
	pm.IncrementProbeErrors("connection_timeout")
	pm.IncrementProbeErrors("connection_refused")
	if v := testutil.ToFloat64(pm.probeErrors.WithLabelValues("connection_timeout")); v != 2 {
		t.Errorf("expected 2 timeout errors, got %v", v)
	}

	pm.IncrementDevicesFound("ADB")
	pm.IncrementDevicesFound("ADB")
	pm.IncrementDevicesFound("Telnet")
	if v := testutil.ToFloat64(pm.devicesFound.WithLabelValues("ADB")); v != 2 {
		t.Errorf("expected 2 ADB devices, got %v", v)
	}
}
