package usage

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_ObserveLedgerOperations(t *testing.T) {
	metrics := NewMetricsWith(prometheus.NewRegistry())
	ledger := NewLedger[uint64](MustLimit(time.Minute, 1), WithMetrics[uint64](metrics))

	ledger.Wait(1)     // allowed
	ledger.Register(1) // insert
	ledger.Register(1) // update
	ledger.Wait(1)     // limited

	if got := testutil.ToFloat64(metrics.checks.WithLabelValues("allowed")); got != 1 {
		t.Errorf("Expected 1 allowed check, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.checks.WithLabelValues("limited")); got != 1 {
		t.Errorf("Expected 1 limited check, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.registrations); got != 2 {
		t.Errorf("Expected 2 registrations, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.tracked); got != 1 {
		t.Errorf("Expected 1 tracked identifier, got %v", got)
	}
}

func TestMetrics_SweepUpdatesGauge(t *testing.T) {
	metrics := NewMetricsWith(prometheus.NewRegistry())
	ledger := NewLedger[uint64](MustLimit(50*time.Millisecond, 1), WithMetrics[uint64](metrics))

	ledger.Register(1)
	ledger.Register(2)
	time.Sleep(100 * time.Millisecond)
	ledger.Sweep(0)

	if got := testutil.ToFloat64(metrics.swept); got != 2 {
		t.Errorf("Expected 2 swept records, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.tracked); got != 0 {
		t.Errorf("Expected tracked gauge back at 0, got %v", got)
	}
}

func TestMetrics_NilIsSafe(t *testing.T) {
	ledger := NewLedger[uint64](MustLimit(time.Minute, 1))

	// No metrics attached; all paths must tolerate the nil receiver.
	ledger.Wait(1)
	ledger.Register(1)
	ledger.Wait(1)
	ledger.Sweep(0)
}
