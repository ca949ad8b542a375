package session

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// Manager reads, starts and ends the session marker of a request
type Manager struct {
	codec   *Codec
	revoked Revocations
	logger  *zap.Logger
}

// NewManager creates a Manager. revoked may be nil, in which case logout
// only clears the browser cookie.
func NewManager(codec *Codec, revoked Revocations, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{codec: codec, revoked: revoked, logger: logger}
}

// Codec returns the underlying marker codec
func (m *Manager) Codec() *Codec {
	return m.codec
}

// Start issues a marker cookie for email
func (m *Manager) Start(email string) (*http.Cookie, error) {
	token, _, err := m.codec.Issue(email)
	if err != nil {
		return nil, err
	}
	return m.codec.Cookie(token), nil
}

// Claims returns the verified, unrevoked marker claims of r
func (m *Manager) Claims(ctx context.Context, r *http.Request) (*Claims, error) {
	ck, err := r.Cookie(m.codec.CookieName())
	if err != nil || ck.Value == "" {
		return nil, ErrInvalidMarker
	}
	claims, err := m.codec.Parse(ck.Value)
	if err != nil {
		return nil, err
	}
	if m.revoked != nil {
		revoked, err := m.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			// An unreachable revocation list does not sign anyone out.
			m.logger.Warn("session revocation check failed", zap.Error(err))
		} else if revoked {
			return nil, ErrRevokedMarker
		}
	}
	return claims, nil
}

// Marker returns the email recorded by the request's marker, or "" when the
// marker is absent, invalid, expired or revoked
func (m *Manager) Marker(ctx context.Context, r *http.Request) string {
	claims, err := m.Claims(ctx, r)
	if err != nil {
		return ""
	}
	return claims.Email
}

// End revokes the request's marker, if any, and returns the cookie that
// clears it. Revocation failures are logged; the cookie is always cleared.
func (m *Manager) End(ctx context.Context, r *http.Request) *http.Cookie {
	if m.revoked != nil {
		if claims, err := m.Claims(ctx, r); err == nil {
			if err := m.revoked.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
				m.logger.Warn("failed to revoke session marker", zap.Error(err))
			}
		}
	}
	return m.codec.ClearCookie()
}

// ForeignCookies returns the request cookies other than the marker, which
// are relayed to the backend
func (m *Manager) ForeignCookies(r *http.Request) []*http.Cookie {
	all := r.Cookies()
	out := make([]*http.Cookie, 0, len(all))
	for _, ck := range all {
		if ck.Name == m.codec.CookieName() {
			continue
		}
		out = append(out, ck)
	}
	return out
}
