package operations

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StepMetrics records step durations and outcomes.
type StepMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

// NewStepMetrics registers the step metrics on reg. A nil registerer gives a
// recorder that drops everything.
func NewStepMetrics(reg prometheus.Registerer) *StepMetrics {
	if reg == nil {
		return &StepMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storepulse_step_duration_seconds",
		Help:    "Duration of report steps in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"step"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storepulse_steps_total",
		Help: "Report step outcomes by status.",
	}, []string{"step", "status"})
	reg.MustRegister(duration, outcomes)
	return &StepMetrics{duration: duration, outcomes: outcomes}
}

// Observe records one finished step. Skipped steps only count.
func (m *StepMetrics) Observe(step string, status StepStatus, d time.Duration) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(step, string(status)).Inc()
	if status != StepStatusSkipped {
		m.duration.WithLabelValues(step).Observe(d.Seconds())
	}
}
