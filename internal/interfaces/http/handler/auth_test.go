package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/erp/dashboard/internal/application/auth"
	"github.com/erp/dashboard/internal/domain/identity"
	"github.com/erp/dashboard/internal/domain/shared"
	"github.com/erp/dashboard/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthEngine(t *testing.T) (*gin.Engine, *mockAuthService, *mockSessions) {
	t.Helper()
	svc := &mockAuthService{}
	sessions := &mockSessions{}
	h := NewAuthHandler(svc, sessions)

	r := newTestEngine(t)
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	r.POST("/api/v1/auth/login", h.APILogin)
	r.POST("/api/v1/auth/logout", h.APILogout)
	r.GET("/api/v1/auth/me", h.Me)
	return r, svc, sessions
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestAuthHandler_LoginPage(t *testing.T) {
	t.Run("shows the form", func(t *testing.T) {
		r, _, sessions := newAuthEngine(t)
		sessions.On("Marker", mock.Anything, mock.Anything).Return("")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login?next=%2Fdashboard%2Fthresholds", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `action="/login"`)
		assert.Contains(t, w.Body.String(), `value="/dashboard/thresholds"`)
	})

	t.Run("signed-in browser skips the form", func(t *testing.T) {
		r, _, sessions := newAuthEngine(t)
		sessions.On("Marker", mock.Anything, mock.Anything).Return(testEmail)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, HomePath, w.Header().Get("Location"))
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success sets the marker, relays backend cookies and redirects", func(t *testing.T) {
		r, svc, sessions := newAuthEngine(t)
		svc.On("Login", mock.Anything, testEmail, "secret").Return(&auth.LoginResult{
			Identity:       identity.Identity{Email: testEmail},
			BackendCookies: []*http.Cookie{{Name: "connect.sid", Value: "abc", Domain: "api.example.com"}},
		}, nil)
		sessions.On("Start", testEmail).Return(&http.Cookie{Name: "erp_session", Value: "jwt", Path: "/"}, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, postForm("/login", url.Values{
			"email":    {testEmail},
			"password": {"secret"},
			"next":     {"/dashboard/procurement"},
		}))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/dashboard/procurement", w.Header().Get("Location"))
		require.NotNil(t, findCookie(w, "erp_session"))
		relayed := findCookie(w, "connect.sid")
		require.NotNil(t, relayed)
		assert.Equal(t, "abc", relayed.Value)
		assert.Empty(t, relayed.Domain)
		assert.Equal(t, "/", relayed.Path)
	})

	t.Run("refused credentials re-render the form", func(t *testing.T) {
		r, svc, _ := newAuthEngine(t)
		svc.On("Login", mock.Anything, testEmail, "wrong").Return(nil, auth.ErrInvalidCredentials)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, postForm("/login", url.Values{"email": {testEmail}, "password": {"wrong"}}))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid email or password")
		assert.Contains(t, w.Body.String(), `value="owner@shop.ng"`)
	})

	t.Run("malformed email never reaches the backend", func(t *testing.T) {
		r, svc, _ := newAuthEngine(t)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, postForm("/login", url.Values{"email": {"not-an-email"}, "password": {"x"}}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `role="alert"`)
		svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_APILogin(t *testing.T) {
	r, svc, sessions := newAuthEngine(t)
	svc.On("Login", mock.Anything, testEmail, "secret").Return(&auth.LoginResult{
		Identity: identity.Identity{Email: testEmail, BusinessName: "Mama Put"},
	}, nil)
	sessions.On("Start", testEmail).Return(&http.Cookie{Name: "erp_session", Value: "jwt"}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, postJSON("/api/v1/auth/login", `{"email":"owner@shop.ng","password":"secret"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Mama Put", data["displayName"])
	assert.NotNil(t, findCookie(w, "erp_session"))
}

func TestAuthHandler_APILogin_Validation(t *testing.T) {
	r, _, _ := newAuthEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, postJSON("/api/v1/auth/login", `{"email":"owner@shop.ng"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	r, svc, sessions := newAuthEngine(t)
	backendCookies := []*http.Cookie{{Name: "connect.sid", Value: "abc"}}
	sessions.On("Marker", mock.Anything, mock.Anything).Return(testEmail)
	sessions.On("ForeignCookies", mock.Anything).Return(backendCookies)
	sessions.On("End", mock.Anything, mock.Anything).Return(&http.Cookie{Name: "erp_session", Value: "", MaxAge: -1})
	svc.On("Logout", mock.Anything, testEmail, backendCookies).Return()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, LoginPath, w.Header().Get("Location"))
	marker := findCookie(w, "erp_session")
	require.NotNil(t, marker)
	assert.Equal(t, -1, marker.MaxAge)
	relayed := findCookie(w, "connect.sid")
	require.NotNil(t, relayed)
	assert.Equal(t, -1, relayed.MaxAge)
	svc.AssertExpectations(t)
}

func TestAuthHandler_Me(t *testing.T) {
	t.Run("backend knows the caller", func(t *testing.T) {
		r, svc, sessions := newAuthEngine(t)
		sessions.On("ForeignCookies", mock.Anything).Return([]*http.Cookie(nil))
		svc.On("WhoAmI", mock.Anything, mock.Anything).Return(identity.Identity{Email: testEmail}, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]interface{})
		assert.Equal(t, testEmail, data["email"])
		assert.Equal(t, testEmail, data["displayName"])
	})

	t.Run("backend does not", func(t *testing.T) {
		r, svc, sessions := newAuthEngine(t)
		sessions.On("ForeignCookies", mock.Anything).Return([]*http.Cookie(nil))
		svc.On("WhoAmI", mock.Anything, mock.Anything).Return(identity.Identity{}, shared.ErrUnauthorized)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", HomePath},
		{"/dashboard/receivables", "/dashboard/receivables"},
		{"/dashboard/thresholds?x=1", "/dashboard/thresholds?x=1"},
		{"https://evil.example.com", HomePath},
		{"//evil.example.com", HomePath},
		{`/\evil.example.com`, HomePath},
		{"/login", HomePath},
		{"/login?next=/x", HomePath},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, safeNext(tt.in))
		})
	}
}
