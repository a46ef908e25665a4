package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCronJobMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)

	m.IncSuccess("auto-pass")
	m.IncSuccess("auto-pass")
	m.IncFailure("promo-expiry")
	m.ObserveDuration("auto-pass", 120*time.Millisecond)

	if got := testutil.ToFloat64(m.success.WithLabelValues("auto-pass")); got != 2 {
		t.Fatalf("success count = %v", got)
	}
	if got := testutil.ToFloat64(m.failure.WithLabelValues("promo-expiry")); got != 1 {
		t.Fatalf("failure count = %v", got)
	}
}

func TestCronJobMetricsNilSafe(t *testing.T) {
	var m *CronJobMetrics
	m.IncSuccess("x")
	m.IncFailure("x")
	m.ObserveDuration("x", time.Second)

	empty := NewCronJobMetrics(nil)
	empty.IncSuccess("")
}
