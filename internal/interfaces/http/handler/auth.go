package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/erp/dashboard/internal/application/auth"
	"github.com/erp/dashboard/internal/domain/identity"
	"github.com/erp/dashboard/internal/interfaces/http/dto"
	"github.com/erp/dashboard/internal/interfaces/http/middleware"
	"github.com/erp/dashboard/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
)

// HomePath is where a signed-in browser lands by default
const HomePath = "/dashboard/creditors"

// AuthService signs identities in and out
type AuthService interface {
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
	Logout(ctx context.Context, email string, cookies []*http.Cookie)
	WhoAmI(ctx context.Context, cookies []*http.Cookie) (identity.Identity, error)
}

// Sessions starts and ends the local session marker
type Sessions interface {
	Start(email string) (*http.Cookie, error)
	End(ctx context.Context, r *http.Request) *http.Cookie
	Marker(ctx context.Context, r *http.Request) string
	ForeignCookies(r *http.Request) []*http.Cookie
}

// AuthHandler serves the login page, sign-out and the auth API
type AuthHandler struct {
	BaseHandler
	auth     AuthService
	sessions Sessions
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService AuthService, sessions Sessions) *AuthHandler {
	return &AuthHandler{auth: authService, sessions: sessions}
}

func loginPage(c *gin.Context, email, next string) view.Page {
	page := newPage(c, "Sign in", "")
	page.Data = view.LoginData{Email: email, Next: next}
	return page
}

// LoginPage shows the sign-in form. A browser that still holds a session
// marker goes straight to the dashboard.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	next := safeNext(c.Query("next"))
	if h.sessions.Marker(c.Request.Context(), c.Request) != "" {
		c.Redirect(http.StatusSeeOther, next)
		return
	}
	h.Render(c, http.StatusOK, loginPage(c, "", c.Query("next")), view.PageLogin)
}

// Login handles the sign-in form
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.RenderInvalid(c, loginPage(c, req.Email, req.Next), view.PageLogin, err)
		return
	}

	if _, err := h.signIn(c, req); err != nil {
		status, _, message := describeError(err)
		page := loginPage(c, req.Email, req.Next)
		page.Alert = message
		h.Render(c, status, page, view.PageLogin)
		return
	}
	c.Redirect(http.StatusSeeOther, safeNext(req.Next))
}

// Logout ends the session and returns to the sign-in page. It always
// succeeds from the browser's point of view.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.signOut(c)
	c.Redirect(http.StatusSeeOther, LoginPath)
}

// APILogin signs in with a JSON body
func (h *AuthHandler) APILogin(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	id, err := h.signIn(c, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, identityResponse(id))
}

// APILogout signs out
func (h *AuthHandler) APILogout(c *gin.Context) {
	h.signOut(c)
	h.Success(c, nil)
}

// Me describes the signed-in identity as the backend sees it
func (h *AuthHandler) Me(c *gin.Context) {
	id, err := h.auth.WhoAmI(c.Request.Context(), h.sessions.ForeignCookies(c.Request))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, identityResponse(id))
}

func (h *AuthHandler) signIn(c *gin.Context, req dto.LoginRequest) (identity.Identity, error) {
	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		return identity.Identity{}, err
	}
	marker, err := h.sessions.Start(res.Identity.Email)
	if err != nil {
		return identity.Identity{}, err
	}
	http.SetCookie(c.Writer, marker)
	for _, ck := range res.BackendCookies {
		http.SetCookie(c.Writer, relayCookie(ck))
	}
	return res.Identity, nil
}

func (h *AuthHandler) signOut(c *gin.Context) {
	ctx := c.Request.Context()
	email := h.sessions.Marker(ctx, c.Request)
	cookies := h.sessions.ForeignCookies(c.Request)

	h.auth.Logout(ctx, email, cookies)
	http.SetCookie(c.Writer, h.sessions.End(ctx, c.Request))
	for _, ck := range cookies {
		http.SetCookie(c.Writer, &http.Cookie{Name: ck.Name, Value: "", Path: "/", MaxAge: -1})
	}
}

// relayCookie rescopes a backend cookie to the dashboard host
func relayCookie(ck *http.Cookie) *http.Cookie {
	out := *ck
	out.Domain = ""
	if out.Path == "" {
		out.Path = "/"
	}
	return &out
}

// safeNext accepts only local absolute paths as a post-login target
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return HomePath
	}
	if next == LoginPath || strings.HasPrefix(next, LoginPath+"?") {
		return HomePath
	}
	return next
}

func identityResponse(id identity.Identity) dto.IdentityResponse {
	return dto.IdentityResponse{Email: id.Email, BusinessName: id.BusinessName, DisplayName: id.DisplayName()}
}
