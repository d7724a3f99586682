package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/JonMunkholm/recordcheck/internal/core"
)

// Run status label values.
const (
	runStatusOK       = "ok"
	runStatusRejected = "rejected"
	runStatusBusy     = "busy"
	runStatusFailed   = "failed"
)

// Metrics provides observability for batch runs.
type Metrics struct {
	// Records by outcome tag ("valid", "error_weight", ...)
	RecordOutcomes *prometheus.CounterVec

	// Runs by status
	Runs *prometheus.CounterVec

	// Classification and sort latency per run
	RunLatency prometheus.Histogram
}

// NewMetrics registers the run metrics with reg. The active batch gauge
// reads from limiter on scrape.
func NewMetrics(reg prometheus.Registerer, limiter *core.Limiter) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		RecordOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recordcheck_records_total",
			Help: "Total records classified by outcome",
		}, []string{"outcome"}),

		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recordcheck_runs_total",
			Help: "Total batch runs by status",
		}, []string{"status"}),

		RunLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "recordcheck_run_duration_seconds",
			Help:    "Duration of batch classification and sorting",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "recordcheck_active_batches",
		Help: "Batches currently being processed",
	}, func() float64 {
		return float64(limiter.Active())
	})

	m.RecordOutcomes.WithLabelValues(core.CategoryValid.String())
	for _, c := range core.FailureCategories {
		m.RecordOutcomes.WithLabelValues(c.String())
	}
	for _, status := range []string{runStatusOK, runStatusRejected, runStatusBusy, runStatusFailed} {
		m.Runs.WithLabelValues(status)
	}

	return m
}

// ObserveRun records a completed run.
func (m *Metrics) ObserveRun(res *core.BatchResult) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(runStatusOK).Inc()
	m.RunLatency.Observe((res.Timings.Validate + res.Timings.Sort).Seconds())
	m.RecordOutcomes.WithLabelValues(core.CategoryValid.String()).Add(float64(res.Tally.Valid))
	for _, cc := range res.Tally.Breakdown() {
		m.RecordOutcomes.WithLabelValues(cc.Category.String()).Add(float64(cc.Count))
	}
}

// IncrementRun records a run that ended without a result.
func (m *Metrics) IncrementRun(status string) {
	if m != nil {
		m.Runs.WithLabelValues(status).Inc()
	}
}
