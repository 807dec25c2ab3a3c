// Package session owns the authenticated-identity lifecycle: login, logout,
// the fixed inactivity timeout, activity-based renewal, and cross-restart
// restoration from the persisted record.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"greenreg/internal/audit"
	"greenreg/internal/session/device"
	"greenreg/internal/session/metrics"
	"greenreg/internal/session/models"
	"greenreg/internal/session/store"
	"greenreg/internal/session/token"
	id "greenreg/pkg/domain"
	dErrors "greenreg/pkg/domain-errors"
	"greenreg/pkg/platform/sentinel"
	"greenreg/pkg/requestcontext"
)

// DefaultTTL is the fixed inactivity timeout.
const DefaultTTL = 10 * time.Minute

// Directory is the credential-store collaborator. Implementations return
// coded errors: unauthorized for bad credentials, forbidden for inactive
// accounts, unavailable when the store cannot be reached.
type Directory interface {
	Verify(ctx context.Context, email, password string) (models.Identity, error)
	Revalidate(ctx context.Context, adminID id.AdminID) (models.Identity, error)
	TouchLastLogin(ctx context.Context, adminID id.AdminID) error
}

// Manager is the single authoritative source of "who is logged in and for
// how long". All mutable session state — identity, established-at, the
// pending timer — lives behind one mutex, and every timer reset is
// cancel-then-arm inside that critical section so two live timers can never
// race to expire the same session.
type Manager struct {
	ttl       time.Duration
	directory Directory
	records   store.RecordStore
	codec     *token.Codec
	logger    *slog.Logger
	metrics   *metrics.Metrics
	auditor   *audit.Publisher
	tracer    trace.Tracer
	now       func() time.Time
	onEnd     func(models.EndReason)

	mu            sync.Mutex
	identity      *models.Identity
	establishedAt time.Time
	timer         *time.Timer
	generation    uint64
}

type Option func(*Manager)

// WithTTL overrides the inactivity timeout. Tests use short ttls.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock injects the time source for established-at and remaining-time
// computations. The armed timer still runs on wall-clock time.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithMetrics attaches session metrics.
func WithMetrics(mtr *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mtr
	}
}

// WithAudit attaches the audit publisher.
func WithAudit(pub *audit.Publisher) Option {
	return func(m *Manager) {
		m.auditor = pub
	}
}

// WithEndCallback registers a callback invoked after every session end with
// the end reason. The presentation layer uses it for messaging only.
func WithEndCallback(fn func(models.EndReason)) Option {
	return func(m *Manager) {
		m.onEnd = fn
	}
}

func New(directory Directory, records store.RecordStore, codec *token.Codec, logger *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		ttl:       DefaultTTL,
		directory: directory,
		records:   records,
		codec:     codec,
		logger:    logger,
		tracer:    otel.Tracer("greenreg/session"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login verifies credentials, persists the session record, and starts the
// inactivity countdown. A persist failure rolls the session back rather than
// leaving a live identity with no durable record.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.Identity, error) {
	ctx, span := m.tracer.Start(ctx, "session.Login")
	defer span.End()

	identity, err := m.directory.Verify(ctx, email, password)
	if err != nil {
		m.metrics.IncrementLogin(loginResult(err))
		return nil, err
	}

	m.mu.Lock()
	m.identity = &identity
	m.establishedAt = m.now()
	m.armLocked()
	establishedAt := m.establishedAt
	m.mu.Unlock()

	signed, err := m.codec.Encode(models.Record{Identity: identity, EstablishedAt: establishedAt})
	if err == nil {
		err = m.records.Save(ctx, signed, establishedAt)
	}
	if err != nil {
		// Fail closed: no durable record means no session.
		m.clear()
		m.metrics.IncrementLogin("unavailable")
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to persist session")
	}

	// Last-login is bookkeeping; its failure never fails the login.
	if err := m.directory.TouchLastLogin(ctx, identity.ID); err != nil {
		m.logger.WarnContext(ctx, "failed to record last login",
			"admin_id", identity.ID.String(),
			"error", err,
		)
	}

	m.metrics.IncrementLogin("success")
	m.metrics.SetActive(true)
	m.emit(ctx, audit.Event{
		Actor:   identity.ID.String(),
		Action:  audit.ActionAdminLoggedIn,
		Details: map[string]string{"device": device.ParseUserAgent(requestcontext.UserAgent(ctx))},
	})
	m.logger.InfoContext(ctx, "admin logged in",
		"admin_id", identity.ID.String(),
		"role", identity.Role.String(),
	)

	return &identity, nil
}

// Restore re-establishes a session from the persisted record at process
// start. The expiry check, signature check, and directory re-validation form
// one logical step: nothing is published to callers until all three pass,
// and any failure purges the record (fail-closed). Returns (nil, nil) when
// no session can be restored — that is the normal anonymous start, not an
// error.
func (m *Manager) Restore(ctx context.Context) (*models.Identity, error) {
	ctx, span := m.tracer.Start(ctx, "session.Restore")
	defer span.End()

	signed, establishedAt, err := m.records.Load(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			m.metrics.IncrementRestore("none")
			return nil, nil
		}
		// Cannot confirm liveness; conservatively purge.
		m.purge(ctx)
		m.metrics.IncrementRestore("unavailable")
		return nil, nil
	}

	if m.now().Sub(establishedAt) > m.ttl {
		m.purge(ctx)
		m.metrics.IncrementRestore("expired")
		m.logger.InfoContext(ctx, "persisted session expired, purged")
		return nil, nil
	}

	record, err := m.codec.Decode(signed)
	if err != nil {
		m.purge(ctx)
		m.metrics.IncrementRestore("invalid")
		m.logger.WarnContext(ctx, "persisted session failed verification, purged", "error", err)
		return nil, nil
	}

	fresh, err := m.directory.Revalidate(ctx, record.Identity.ID)
	if err != nil {
		m.purge(ctx)
		m.metrics.IncrementRestore("invalid")
		m.logger.InfoContext(ctx, "persisted session failed re-validation, purged",
			"admin_id", record.Identity.ID.String(),
			"error", err,
		)
		return nil, nil
	}

	// Re-validation proved liveness just now, so the countdown re-arms from
	// the present rather than the original established-at. Kept from the
	// observed behavior: this stretches effective session life slightly on
	// every restart.
	m.mu.Lock()
	m.identity = &fresh
	m.establishedAt = m.now()
	m.armLocked()
	establishedAt = m.establishedAt
	m.mu.Unlock()

	if err := m.records.Touch(ctx, establishedAt); err != nil {
		m.logger.WarnContext(ctx, "failed to refresh restored session record", "error", err)
	}

	m.metrics.IncrementRestore("restored")
	m.metrics.SetActive(true)
	return &fresh, nil
}

// RecordActivity resets the inactivity countdown. Safe to call at any
// frequency: each call cancels the pending timer and arms exactly one new
// one, and a no-session call is a no-op. The refreshed timestamp is
// persisted best-effort.
func (m *Manager) RecordActivity(ctx context.Context) {
	m.mu.Lock()
	if m.identity == nil {
		m.mu.Unlock()
		return
	}
	m.establishedAt = m.now()
	m.armLocked()
	establishedAt := m.establishedAt
	m.mu.Unlock()

	if err := m.records.Touch(ctx, establishedAt); err != nil {
		m.logger.WarnContext(ctx, "failed to persist activity timestamp", "error", err)
	}
}

// TimeRemaining reports how long until the session expires absent further
// activity. Zero when no session is live. Sampled at 1 Hz by the
// presentation layer for the countdown display.
func (m *Manager) TimeRemaining() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return 0
	}
	remaining := m.ttl - m.now().Sub(m.establishedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Current returns a snapshot of the live identity, or nil when anonymous.
func (m *Manager) Current() *models.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return nil
	}
	snapshot := *m.identity
	return &snapshot
}

// Logout ends the session on explicit user action. Expiry and failed
// re-validation run through the same path with a different reason.
func (m *Manager) Logout(ctx context.Context) {
	m.end(ctx, models.EndReasonUser)
}

func (m *Manager) end(ctx context.Context, reason models.EndReason) {
	m.endGuarded(ctx, reason, nil)
}

// endGuarded clears session state and runs the end side effects. When gen is
// non-nil the clear only proceeds if the generation still matches, so a
// timer that lost the race against a reset or a fresh login cannot end the
// wrong session.
func (m *Manager) endGuarded(ctx context.Context, reason models.EndReason, gen *uint64) {
	m.mu.Lock()
	if m.identity == nil || (gen != nil && *gen != m.generation) {
		m.mu.Unlock()
		return
	}
	identity := *m.identity
	m.identity = nil
	m.establishedAt = time.Time{}
	m.cancelLocked()
	m.mu.Unlock()

	m.purge(ctx)
	m.metrics.IncrementEnd(reason.String())
	m.metrics.SetActive(false)

	action := audit.ActionAdminLoggedOut
	switch reason {
	case models.EndReasonTimeout:
		action = audit.ActionSessionTimedOut
	case models.EndReasonRevalidation:
		action = audit.ActionSessionInvalidated
	}
	m.emit(ctx, audit.Event{Actor: identity.ID.String(), Action: action})
	m.logger.InfoContext(ctx, "session ended",
		"admin_id", identity.ID.String(),
		"reason", reason.String(),
	)

	if m.onEnd != nil {
		m.onEnd(reason)
	}
}

// clear rolls back an in-memory session without audit or callbacks, used
// when login fails after the identity was provisionally set.
func (m *Manager) clear() {
	m.mu.Lock()
	m.identity = nil
	m.establishedAt = time.Time{}
	m.cancelLocked()
	m.mu.Unlock()
}

// armLocked is the single place a timer is created: cancel any pending
// timer, bump the generation, arm a new one. Callers hold m.mu.
func (m *Manager) armLocked() {
	m.cancelLocked()
	m.generation++
	gen := m.generation
	m.timer = time.AfterFunc(m.ttl, func() { m.expire(gen) })
}

func (m *Manager) cancelLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.generation++
}

// expire runs on the timer goroutine.
func (m *Manager) expire(gen uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	m.endGuarded(ctx, models.EndReasonTimeout, &gen)
}

func (m *Manager) purge(ctx context.Context) {
	if err := m.records.Purge(ctx); err != nil {
		m.logger.WarnContext(ctx, "failed to purge session record", "error", err)
	}
}

func (m *Manager) emit(ctx context.Context, event audit.Event) {
	if m.auditor == nil {
		return
	}
	event.Timestamp = m.now()
	_ = m.auditor.Emit(ctx, event)
}

func loginResult(err error) string {
	switch {
	case dErrors.HasCode(err, dErrors.CodeUnauthorized):
		return "invalid_credentials"
	case dErrors.HasCode(err, dErrors.CodeForbidden):
		return "inactive"
	default:
		return "unavailable"
	}
}
