package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erp/dashboard/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleValidationError(t *testing.T) {
	SetupValidator()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var req dto.SettleCreditorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req.Method))
	})

	post := func(body string) (*httptest.ResponseRecorder, dto.Response) {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return w, resp
	}

	t.Run("names fields by json tag", func(t *testing.T) {
		w, resp := post(`{"amount": 100, "method": "Barter"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "method", resp.Error.Details[0].Field)
		assert.Equal(t, "Must be one of: Cash POS Transfer Cheque", resp.Error.Details[0].Message)
	})

	t.Run("malformed body", func(t *testing.T) {
		w, resp := post(`{"amount": "lots"`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	})

	t.Run("valid", func(t *testing.T) {
		w, _ := post(`{"amount": "1500.50", "method": "Transfer"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestValidationMessage(t *testing.T) {
	SetupValidator()
	gin.SetMode(gin.TestMode)

	var got string
	router := gin.New()
	router.POST("/login", func(c *gin.Context) {
		var req dto.LoginRequest
		got = ValidationMessage(c.ShouldBind(&req))
	})

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("email=not-an-email"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, got, "email: Invalid email format")
	assert.Contains(t, got, "password: This field is required")

	assert.Contains(t, ValidationMessage(errors.New("bad json")), "could not be read")
}
