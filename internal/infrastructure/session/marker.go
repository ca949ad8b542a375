// Package session keeps the local session marker: a signed, expiring cookie
// that records which identity signed in from this browser.
package session

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidMarker = errors.New("invalid session marker")
	ErrExpiredMarker = errors.New("session marker has expired")
	ErrMissingEmail  = errors.New("missing email in session marker")
	ErrRevokedMarker = errors.New("session marker has been revoked")
)

const defaultIssuer = "erp-dashboard"

// Claims are the signed contents of the marker cookie
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// RemainingTTL returns the time until the marker expires
func (c *Claims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(c.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Config holds the marker cookie settings
type Config struct {
	CookieName string
	Secret     string
	TTL        time.Duration
	Domain     string
	Path       string
	Secure     bool
	SameSite   http.SameSite
	Issuer     string
}

// Codec signs, verifies and wraps session markers into cookies
type Codec struct {
	cfg    Config
	secret []byte
	now    func() time.Time
}

// NewCodec creates a marker codec. Empty fields fall back to the
// session_email cookie on "/" with a seven day lifetime.
func NewCodec(cfg Config) *Codec {
	if cfg.CookieName == "" {
		cfg.CookieName = "session_email"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	if cfg.SameSite == 0 {
		cfg.SameSite = http.SameSiteLaxMode
	}
	if cfg.Issuer == "" {
		cfg.Issuer = defaultIssuer
	}
	return &Codec{cfg: cfg, secret: []byte(cfg.Secret), now: time.Now}
}

// CookieName returns the name of the marker cookie
func (c *Codec) CookieName() string {
	return c.cfg.CookieName
}

// TTL returns the marker lifetime
func (c *Codec) TTL() time.Duration {
	return c.cfg.TTL
}

// Issue signs a marker for email
func (c *Codec) Issue(email string) (string, *Claims, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", nil, ErrMissingEmail
	}
	now := c.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    c.cfg.Issuer,
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(c.cfg.TTL)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: email,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// Parse verifies a marker and returns its claims
func (c *Codec) Parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidMarker
		}
		return c.secret, nil
	},
		jwt.WithIssuer(c.cfg.Issuer),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredMarker
		}
		return nil, ErrInvalidMarker
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidMarker
	}
	if claims.Email == "" {
		return nil, ErrMissingEmail
	}
	return claims, nil
}

// Cookie wraps a signed marker into the cookie sent to the browser
func (c *Codec) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     c.cfg.CookieName,
		Value:    token,
		Path:     c.cfg.Path,
		Domain:   c.cfg.Domain,
		MaxAge:   int(c.cfg.TTL.Seconds()),
		Expires:  c.now().Add(c.cfg.TTL),
		Secure:   c.cfg.Secure,
		HttpOnly: true,
		SameSite: c.cfg.SameSite,
	}
}

// ClearCookie returns a cookie that removes the marker from the browser
func (c *Codec) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     c.cfg.CookieName,
		Value:    "",
		Path:     c.cfg.Path,
		Domain:   c.cfg.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   c.cfg.Secure,
		HttpOnly: true,
		SameSite: c.cfg.SameSite,
	}
}

// ParseSameSite converts a config value into an http.SameSite mode
func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
