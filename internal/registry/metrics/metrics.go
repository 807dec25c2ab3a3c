package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registry module.
type Metrics struct {
	// Submissions by result: accepted, invalid, conflict, unavailable
	Submissions *prometheus.CounterVec

	// Review transitions by outcome: approved, rejected, not_found, already_terminal, invalid
	Transitions *prometheus.CounterVec

	// Logo uploads by result: stored, invalid, failed
	LogoUploads *prometheus.CounterVec

	// Submissions currently awaiting review
	PendingSubmissions prometheus.Gauge
}

// New creates a Metrics instance with all registry metrics registered.
func New() *Metrics {
	return &Metrics{
		Submissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "greenreg_registry_submissions_total",
			Help: "Total registration submissions by result",
		}, []string{"result"}),

		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "greenreg_registry_transitions_total",
			Help: "Total review transitions by outcome",
		}, []string{"outcome"}),

		LogoUploads: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "greenreg_registry_logo_uploads_total",
			Help: "Total logo upload attempts by result",
		}, []string{"result"}),

		PendingSubmissions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "greenreg_registry_pending_submissions",
			Help: "Submissions currently awaiting review",
		}),
	}
}

// IncrementSubmission records a submission outcome.
func (m *Metrics) IncrementSubmission(result string) {
	if m != nil {
		m.Submissions.WithLabelValues(result).Inc()
	}
}

// IncrementTransition records a review transition outcome.
func (m *Metrics) IncrementTransition(outcome string) {
	if m != nil {
		m.Transitions.WithLabelValues(outcome).Inc()
	}
}

// IncrementLogoUpload records a logo upload outcome.
func (m *Metrics) IncrementLogoUpload(result string) {
	if m != nil {
		m.LogoUploads.WithLabelValues(result).Inc()
	}
}

// SetPending updates the awaiting-review gauge.
func (m *Metrics) SetPending(n int) {
	if m != nil {
		m.PendingSubmissions.Set(float64(n))
	}
}
