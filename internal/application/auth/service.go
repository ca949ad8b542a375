// Package auth signs identities in and out against the backend and decides,
// per navigation, whether the caller may see the dashboard.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/erp/dashboard/internal/domain/identity"
	"github.com/erp/dashboard/internal/domain/shared"
	"github.com/erp/dashboard/internal/infrastructure/backend"
	"github.com/erp/dashboard/internal/infrastructure/logger"
	"github.com/erp/dashboard/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned when the backend refuses a login
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// Gateway is the part of the backend API the auth service uses
type Gateway interface {
	Login(ctx context.Context, creds backend.Credentials) (*backend.LoginResult, error)
	Logout(ctx context.Context, cookies []*http.Cookie) error
	Me(ctx context.Context, cookies []*http.Cookie) (backend.Me, error)
}

// LoginResult is a successful sign-in
type LoginResult struct {
	Identity identity.Identity
	// BackendCookies are the cookies the backend set; they are relayed to
	// the browser so later whoami calls can present them
	BackendCookies []*http.Cookie
}

// Service handles sign-in, sign-out and the route guard
type Service struct {
	gateway Gateway
	prefs   identity.PreferenceStore
	guard   *identity.Guard
	metrics *telemetry.DashboardMetrics
	logger  *zap.Logger
}

// NewService creates an auth service. metrics may be nil.
func NewService(gateway Gateway, prefs identity.PreferenceStore, guard *identity.Guard, metrics *telemetry.DashboardMetrics, logger *zap.Logger) *Service {
	return &Service{gateway: gateway, prefs: prefs, guard: guard, metrics: metrics, logger: logger}
}

// Login validates the email, asks the backend to sign in and remembers the
// business name if the backend reports one
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "login")
	defer span.End()

	id, err := identity.Parse(email)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(password) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Password is required")
	}

	log := logger.Or(ctx, s.logger).With(zap.String("email", id.Email))
	res, err := s.gateway.Login(ctx, backend.Credentials{Email: id.Email, Password: password})
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			log.Warn("login refused", zap.Int("status", apiErr.StatusCode))
			return nil, ErrInvalidCredentials
		}
		telemetry.RecordError(span, err)
		log.Error("login failed", zap.Error(err))
		return nil, err
	}

	if me, err := s.gateway.Me(ctx, res.Cookies); err == nil && me.BusinessName != "" {
		id.BusinessName = me.BusinessName
		if err := s.prefs.SetBusinessName(ctx, id.Email, me.BusinessName); err != nil {
			log.Warn("failed to store business name", zap.Error(err))
		}
	}

	log.Info("signed in")
	return &LoginResult{Identity: id, BackendCookies: res.Cookies}, nil
}

// Logout signs out at the backend on a best-effort basis and clears the
// identity's preferences. It never fails.
func (s *Service) Logout(ctx context.Context, email string, cookies []*http.Cookie) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "logout")
	defer span.End()

	log := logger.Or(ctx, s.logger)
	if err := s.gateway.Logout(ctx, cookies); err != nil {
		log.Warn("backend logout failed, clearing local session anyway", zap.Error(err))
	}
	if email == "" {
		return
	}
	if err := s.prefs.Clear(ctx, email); err != nil {
		log.Warn("failed to clear preferences", zap.Error(err))
	}
	log.Info("signed out", zap.String("email", email))
}

// WhoAmI asks the backend alone who owns cookies
func (s *Service) WhoAmI(ctx context.Context, cookies []*http.Cookie) (identity.Identity, error) {
	me, err := s.gateway.Me(ctx, cookies)
	if err != nil {
		return identity.Identity{}, err
	}
	if me.Email == "" {
		return identity.Identity{}, shared.ErrUnauthorized
	}
	return identity.Identity{Email: me.Email, BusinessName: me.BusinessName}, nil
}

// Authorize runs the route guard for one navigation: the backend check first,
// then the local marker. If ctx ends before the guard decides, the decision
// stays in the Checking state.
func (s *Service) Authorize(ctx context.Context, cookies []*http.Cookie, marker string) (identity.Identity, identity.Decision) {
	var me backend.Me
	probe := identity.Probe{
		Server: func(ctx context.Context) (string, error) {
			m, err := s.gateway.Me(ctx, cookies)
			if err != nil {
				return "", err
			}
			me = m
			return m.Email, nil
		},
		Marker: marker,
	}

	var decision identity.Decision
	select {
	case d, ok := <-s.guard.Evaluate(ctx, probe):
		if ok {
			decision = d
		}
	case <-ctx.Done():
	}

	log := logger.Or(ctx, s.logger)
	if decision.ServerErr != nil {
		log.Debug("server session check failed", zap.Error(decision.ServerErr))
	}
	s.metrics.RecordGuardDecision(ctx, decision.State.String(), string(decision.Source))
	if !decision.Authorized() {
		return identity.Identity{}, decision
	}

	id := identity.Identity{Email: decision.Email}
	if decision.Source == identity.SourceServer && me.BusinessName != "" {
		id.BusinessName = me.BusinessName
		return id, decision
	}
	if name, err := s.prefs.BusinessName(ctx, id.Email); err != nil {
		log.Warn("failed to read business name", zap.Error(err))
	} else {
		id.BusinessName = name
	}
	return id, decision
}
