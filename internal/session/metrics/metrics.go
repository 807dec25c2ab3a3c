package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the session module.
type Metrics struct {
	// Login attempts by result: success, invalid_credentials, inactive, unavailable
	LoginAttempts *prometheus.CounterVec

	// Session ends by reason: user, timeout, revalidation
	SessionEnds *prometheus.CounterVec

	// Restore attempts by result: restored, expired, invalid, none
	Restores *prometheus.CounterVec

	// Whether a session is currently live (0 or 1)
	ActiveSession prometheus.Gauge
}

// New creates a Metrics instance with all session metrics registered.
func New() *Metrics {
	return &Metrics{
		LoginAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "greenreg_session_login_attempts_total",
			Help: "Total admin login attempts by result",
		}, []string{"result"}),

		SessionEnds: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "greenreg_session_ends_total",
			Help: "Total session terminations by reason",
		}, []string{"reason"}),

		Restores: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "greenreg_session_restores_total",
			Help: "Total session restoration attempts by result",
		}, []string{"result"}),

		ActiveSession: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "greenreg_session_active",
			Help: "Whether an admin session is currently live",
		}),
	}
}

// IncrementLogin records a login attempt outcome.
func (m *Metrics) IncrementLogin(result string) {
	if m != nil {
		m.LoginAttempts.WithLabelValues(result).Inc()
	}
}

// IncrementEnd records a session termination.
func (m *Metrics) IncrementEnd(reason string) {
	if m != nil {
		m.SessionEnds.WithLabelValues(reason).Inc()
	}
}

// IncrementRestore records a restoration outcome.
func (m *Metrics) IncrementRestore(result string) {
	if m != nil {
		m.Restores.WithLabelValues(result).Inc()
	}
}

// SetActive flips the live-session gauge.
func (m *Metrics) SetActive(active bool) {
	if m == nil {
		return
	}
	if active {
		m.ActiveSession.Set(1)
	} else {
		m.ActiveSession.Set(0)
	}
}
