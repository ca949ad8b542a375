package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/erp/dashboard/internal/domain/identity"
	"github.com/erp/dashboard/internal/infrastructure/logger"
	"github.com/erp/dashboard/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Session context keys
const (
	IdentityKey       = "session_identity"
	BackendCookiesKey = "session_backend_cookies"
)

// Authorizer decides whether a navigation may proceed
type Authorizer interface {
	Authorize(ctx context.Context, cookies []*http.Cookie, marker string) (identity.Identity, identity.Decision)
}

// SessionReader reads the local session marker and the cookies relayed to
// the backend
type SessionReader interface {
	Marker(ctx context.Context, r *http.Request) string
	ForeignCookies(r *http.Request) []*http.Cookie
}

// SessionGuardConfig holds configuration for SessionGuard
type SessionGuardConfig struct {
	Authorizer Authorizer
	Sessions   SessionReader
	// OnDenied answers an unauthorized navigation (default: 401 JSON)
	OnDenied gin.HandlerFunc
	Logger   *zap.Logger
}

// SessionGuard admits a request only when the backend or the local session
// marker vouches for an identity. The identity and the backend cookies are
// stored in the gin context, and the identity in the request context for
// logging.
func SessionGuard(cfg SessionGuardConfig) gin.HandlerFunc {
	onDenied := cfg.OnDenied
	if onDenied == nil {
		onDenied = RejectUnauthorized
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		cookies := cfg.Sessions.ForeignCookies(c.Request)
		marker := cfg.Sessions.Marker(ctx, c.Request)

		id, decision := cfg.Authorizer.Authorize(ctx, cookies, marker)
		switch decision.State {
		case identity.StateAuthorized:
		case identity.StateUnauthorized:
			onDenied(c)
			c.Abort()
			return
		default:
			// The client went away before the guard decided; render nothing.
			log.Debug("navigation abandoned before the session check finished",
				zap.String("path", c.Request.URL.Path))
			c.Abort()
			return
		}

		c.Set(IdentityKey, id)
		c.Set(BackendCookiesKey, cookies)
		c.Request = c.Request.WithContext(logger.WithIdentity(ctx, id.Email))
		c.Next()
	}
}

// RedirectToLogin sends the browser to the login page, remembering where it
// was going
func RedirectToLogin(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		target := loginPath
		if c.Request.Method == http.MethodGet {
			target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
		}
		c.Redirect(http.StatusSeeOther, target)
	}
}

// RejectUnauthorized answers 401 with the standard error envelope
func RejectUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Sign in to continue", getRequestID(c)))
}

// GetIdentity returns the identity admitted by SessionGuard
func GetIdentity(c *gin.Context) identity.Identity {
	if v, ok := c.Get(IdentityKey); ok {
		if id, ok := v.(identity.Identity); ok {
			return id
		}
	}
	return identity.Identity{}
}

// GetBackendCookies returns the cookies to relay to the backend
func GetBackendCookies(c *gin.Context) []*http.Cookie {
	if v, ok := c.Get(BackendCookiesKey); ok {
		if cookies, ok := v.([]*http.Cookie); ok {
			return cookies
		}
	}
	return nil
}
