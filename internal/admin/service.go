// Package admin implements the administrator directory: credential
// verification, registration, and the idempotent default-admin seed.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"greenreg/internal/admin/models"
	"greenreg/internal/admin/store"
	"greenreg/internal/audit"
	id "greenreg/pkg/domain"
	dErrors "greenreg/pkg/domain-errors"
	"greenreg/pkg/platform/sentinel"
	"greenreg/pkg/requestcontext"
)

const (
	bcryptCost        = 10
	minPasswordLength = 6
)

// dummyHash keeps credential verification near constant-shape when the email
// does not exist: we still burn one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("greenreg-dummy"), bcryptCost)

// Service is the credential-store collaborator the session manager talks to.
type Service struct {
	store   store.Store
	logger  *slog.Logger
	auditor *audit.Publisher

	limiterMu sync.Mutex
	limiters  map[string]*rate.Limiter
	loginRate rate.Limit
	burst     int
}

type Option func(*Service)

// WithAudit attaches the audit publisher.
func WithAudit(pub *audit.Publisher) Option {
	return func(s *Service) {
		s.auditor = pub
	}
}

// WithLoginRate overrides the per-email login attempt throttle.
func WithLoginRate(perMinute int) Option {
	return func(s *Service) {
		if perMinute > 0 {
			s.loginRate = rate.Limit(float64(perMinute) / 60.0)
			s.burst = perMinute
		}
	}
}

func NewService(st store.Store, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		store:     st,
		logger:    logger,
		limiters:  make(map[string]*rate.Limiter),
		loginRate: rate.Limit(10.0 / 60.0),
		burst:     10,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// VerifyCredential checks email+password against the directory.
// Wrong email and wrong password collapse to the same unauthorized error so
// callers can't probe which accounts exist. An inactive account is surfaced
// distinctly, but only after the credential itself verified.
func (s *Service) VerifyCredential(ctx context.Context, email, password string) (*models.Account, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	if !s.allowAttempt(key) {
		return nil, dErrors.New(dErrors.CodeUnavailable, "too many login attempts, try again later")
	}

	account, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, errInvalidCredentials()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "directory unavailable")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, errInvalidCredentials()
	}

	if !account.Active {
		return nil, dErrors.New(dErrors.CodeForbidden, "account is inactive, contact the administrator")
	}

	return account, nil
}

// FindByID re-validates an identity against the directory, as the session
// manager does on restore.
func (s *Service) FindByID(ctx context.Context, adminID id.AdminID) (*models.Account, error) {
	account, err := s.store.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "admin not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "directory unavailable")
	}
	return account, nil
}

// TouchLastLogin records a successful login timestamp. Callers treat
// failures as best-effort.
func (s *Service) TouchLastLogin(ctx context.Context, adminID id.AdminID) error {
	if err := s.store.TouchLastLogin(ctx, adminID, requestcontext.Now(ctx)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record last login")
	}
	return nil
}

// RegisterParams describes a new administrator account.
type RegisterParams struct {
	Email    string
	Password string
	FullName string
	Role     id.Role
}

// Register creates a new administrator. Dedup is by email; the authorization
// rule (only super admins may call this) is enforced by the caller via the
// policy package.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*models.Account, error) {
	email := strings.TrimSpace(params.Email)
	if email == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}
	if strings.TrimSpace(params.FullName) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "full name is required")
	}
	if len(params.Password) < minPasswordLength {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "password must be at least %d characters", minPasswordLength)
	}
	if !params.Role.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcryptCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	account := &models.Account{
		ID:           id.NewAdminID(),
		Email:        email,
		FullName:     strings.TrimSpace(params.FullName),
		PasswordHash: string(hash),
		Role:         params.Role,
		Active:       true,
		CreatedAt:    requestcontext.Now(ctx),
	}

	if err := s.store.Create(ctx, account); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "admin with this email already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create admin")
	}

	s.logger.InfoContext(ctx, "admin account created",
		"admin_id", account.ID.String(),
		"role", account.Role.String(),
	)

	actor := "system"
	if creator := requestcontext.AdminID(ctx); !creator.IsNil() {
		actor = creator.String()
	}
	s.emit(ctx, audit.Event{
		Actor:   actor,
		Action:  audit.ActionAdminCreated,
		Subject: account.ID.String(),
		Details: map[string]string{"role": account.Role.String()},
	})
	return account, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.Timestamp = requestcontext.Now(ctx)
	_ = s.auditor.Emit(ctx, event)
}

// Seed ensures the default super admin exists. Safe to run on every boot;
// a concurrent boot racing the insert is treated as already-seeded.
func (s *Service) Seed(ctx context.Context, email, password, fullName string) error {
	_, err := s.store.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "directory unavailable")
	}

	_, err = s.Register(ctx, RegisterParams{
		Email:    email,
		Password: password,
		FullName: fullName,
		Role:     id.RoleSuperAdmin,
	})
	if err != nil && dErrors.HasCode(err, dErrors.CodeConflict) {
		return nil
	}
	return err
}

func (s *Service) allowAttempt(email string) bool {
	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()

	limiter, ok := s.limiters[email]
	if !ok {
		limiter = rate.NewLimiter(s.loginRate, s.burst)
		s.limiters[email] = limiter
	}
	return limiter.Allow()
}

func errInvalidCredentials() error {
	return dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
}
