package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erp/dashboard/internal/domain/identity"
	"github.com/erp/dashboard/internal/domain/shared"
	"github.com/erp/dashboard/internal/infrastructure/backend"
	"github.com/erp/dashboard/internal/interfaces/http/dto"
	"github.com/erp/dashboard/internal/interfaces/http/middleware"
	"github.com/erp/dashboard/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEmail = "owner@shop.ng"

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestEngine returns an engine with the page templates loaded and the
// test identity admitted, standing in for SessionGuard
func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	tmpl, err := view.Templates(view.NewFormatter("₦", "en-NG"))
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(func(c *gin.Context) {
		c.Set(middleware.IdentityKey, identity.Identity{Email: testEmail, BusinessName: "Mama Put"})
		c.Next()
	})
	return r
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name: "from context string",
			setup: func(c *gin.Context) {
				c.Set(RequestIDKey, "ctx-request-id")
			},
			expectedID: "ctx-request-id",
		},
		{
			name: "from header when context empty",
			setup: func(c *gin.Context) {
				c.Request.Header.Set(RequestIDKey, "header-request-id")
			},
			expectedID: "header-request-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(c)
			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "domain error keeps its message",
			err:     shared.NewDomainError("EXCEEDS_OUTSTANDING", "Amount exceeds the outstanding balance"),
			status:  http.StatusUnprocessableEntity,
			code:    dto.ErrCodeExceedsOutstanding,
			message: "Amount exceeds the outstanding balance",
		},
		{
			name:    "backend refusing the session",
			err:     &backend.APIError{StatusCode: http.StatusForbidden, Endpoint: "creditors.list"},
			status:  http.StatusUnauthorized,
			code:    dto.ErrCodeUnauthorized,
			message: "Sign in to continue",
		},
		{
			name:    "backend failure hides details",
			err:     &backend.APIError{StatusCode: http.StatusInternalServerError, Body: "stack trace"},
			status:  http.StatusBadGateway,
			code:    dto.ErrCodeUpstream,
			message: upstreamMessage,
		},
		{
			name:    "transport error",
			err:     errors.New("dial tcp: connection refused"),
			status:  http.StatusBadGateway,
			code:    dto.ErrCodeUpstream,
			message: upstreamMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, message := describeError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestBaseHandler_HandleError(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(RequestIDKey, "req-1")

	h.HandleError(c, shared.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
}

func TestBaseHandler_RenderResult(t *testing.T) {
	h := &BaseHandler{}

	t.Run("unauthorized backend redirects to login", func(t *testing.T) {
		r := newTestEngine(t)
		r.POST("/x", func(c *gin.Context) {
			h.RenderResult(c, newPage(c, "Creditors", view.PageCreditors), view.PageCreditors,
				&backend.APIError{StatusCode: http.StatusUnauthorized}, "done")
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, LoginPath, w.Header().Get("Location"))
	})

	t.Run("success shows the notice", func(t *testing.T) {
		r := newTestEngine(t)
		r.POST("/x", func(c *gin.Context) {
			page := newPage(c, "Creditors", view.PageCreditors)
			page.Data = view.CreditorsData{}
			h.RenderResult(c, page, view.PageCreditors, nil, "Creditor added")
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Creditor added")
		assert.Contains(t, w.Body.String(), "Mama Put")
	})
}

func jsonDecode(w *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(w.Body.Bytes(), v)
}

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}
