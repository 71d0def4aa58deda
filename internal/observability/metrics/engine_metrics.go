package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics tracks the background recommendation workers: debounced
// regeneration runs and the nightly expiry sweep.
type EngineMetrics struct {
	refreshRuns     *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	sweepRuns       *prometheus.CounterVec
	expiredTotal    prometheus.Counter
}

var (
	engineMetricsOnce sync.Once
	engineMetrics     *EngineMetrics
)

// Engine returns the process-wide worker metrics, registering them on
// first use.
func Engine() *EngineMetrics {
	engineMetricsOnce.Do(func() {
		engineMetrics = newEngineMetrics(prometheus.DefaultRegisterer)
	})
	return engineMetrics
}

func ResetEngineMetricsForTest() {
	engineMetricsOnce = sync.Once{}
	engineMetrics = nil
}

func newEngineMetrics(registerer prometheus.Registerer) *EngineMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
	}

	refreshRuns := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "subsavvy_recommendation_refresh_runs_total",
			Help:        "Total debounced regeneration runs by result.",
			ConstLabels: constLabels,
		},
		[]string{"result"}, // success | failed
	)

	refreshDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "subsavvy_recommendation_refresh_duration_seconds",
			Help: "Wall time of one full regeneration run for a user.",
			Buckets: []float64{
				0.05,
				0.1,
				0.25,
				0.5,
				1,
				2.5,
				5,
				10,
				30,
			},
			ConstLabels: constLabels,
		},
	)

	sweepRuns := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "subsavvy_expiry_sweeps_total",
			Help:        "Total expiry sweep runs by result.",
			ConstLabels: constLabels,
		},
		[]string{"result"}, // success | failed
	)

	expiredTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name:        "subsavvy_recommendations_expired_total",
			Help:        "Total recommendations flipped to expired by the sweep.",
			ConstLabels: constLabels,
		},
	)

	registerer.MustRegister(
		refreshRuns,
		refreshDuration,
		sweepRuns,
		expiredTotal,
	)

	return &EngineMetrics{
		refreshRuns:     refreshRuns,
		refreshDuration: refreshDuration,
		sweepRuns:       sweepRuns,
		expiredTotal:    expiredTotal,
	}
}

// ObserveRefreshRun records one regeneration run.
func (m *EngineMetrics) ObserveRefreshRun(duration time.Duration, err error) {
	if m == nil {
		return
	}

	result := "success"
	if err != nil {
		result = "failed"
	}

	m.refreshRuns.WithLabelValues(result).Inc()
	m.refreshDuration.Observe(duration.Seconds())
}

// RecordSweep records one expiry sweep and the rows it expired.
func (m *EngineMetrics) RecordSweep(expired int64, err error) {
	if m == nil {
		return
	}

	if err != nil {
		m.sweepRuns.WithLabelValues("failed").Inc()
		return
	}

	m.sweepRuns.WithLabelValues("success").Inc()
	if expired > 0 {
		m.expiredTotal.Add(float64(expired))
	}
}
