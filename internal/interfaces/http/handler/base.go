package handler

import (
	"errors"
	"net/http"

	"github.com/erp/dashboard/internal/domain/shared"
	"github.com/erp/dashboard/internal/infrastructure/backend"
	"github.com/erp/dashboard/internal/interfaces/http/dto"
	"github.com/erp/dashboard/internal/interfaces/http/middleware"
	"github.com/erp/dashboard/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
)

// RequestIDKey is the context key for request ID
const RequestIDKey = middleware.RequestIDKey

// LoginPath is where signed-out browsers are sent
const LoginPath = "/login"

const upstreamMessage = "The server could not complete the request. Please try again."

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(RequestIDKey)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// describeError maps an error to a status, an error code and a message safe
// to show. Domain errors carry their own message; backend failures do not.
func describeError(err error) (int, string, string) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		return dto.GetHTTPStatus(code), code, domainErr.Message
	}
	if backend.IsUnauthorized(err) {
		return http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Sign in to continue"
	}
	return http.StatusBadGateway, dto.ErrCodeUpstream, upstreamMessage
}

// HandleError converts an error into a JSON error response
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	status, code, message := describeError(err)
	h.Error(c, status, code, message)
}

// newPage starts the page data for the signed-in identity
func newPage(c *gin.Context, title, nav string) view.Page {
	return view.Page{Title: title, Nav: nav, Identity: middleware.GetIdentity(c)}
}

// Render writes an HTML page
func (h *BaseHandler) Render(c *gin.Context, status int, page view.Page, name string) {
	c.HTML(status, name, page)
}

// RenderResult renders the page a form post returns to: with notice on
// success, with the error as an alert otherwise. A backend that no longer
// accepts the session sends the browser to the login page.
func (h *BaseHandler) RenderResult(c *gin.Context, page view.Page, name string, err error, notice string) {
	if err == nil {
		page.Notice = notice
		h.Render(c, http.StatusOK, page, name)
		return
	}
	if backend.IsUnauthorized(err) {
		c.Redirect(http.StatusSeeOther, LoginPath)
		return
	}
	status, _, message := describeError(err)
	page.Alert = message
	h.Render(c, status, page, name)
}

// RenderInvalid re-renders a page whose form could not be bound
func (h *BaseHandler) RenderInvalid(c *gin.Context, page view.Page, name string, err error) {
	page.Alert = middleware.ValidationMessage(err)
	h.Render(c, http.StatusBadRequest, page, name)
}
