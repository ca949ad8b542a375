package handler

import (
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/erp/dashboard/internal/interfaces/http/dto"
	"github.com/erp/dashboard/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
)

// SystemHandler handles health, info and the root redirect
type SystemHandler struct {
	BaseHandler
	version   string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(version string) *SystemHandler {
	return &SystemHandler{
		version:   version,
		startTime: time.Now(),
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name" example:"ERP Dashboard"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// GetSystemInfo returns build and runtime information
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "ERP Dashboard",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}

// Health reports liveness. It never calls the backend.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Home sends the browser to the default dashboard page
func (h *SystemHandler) Home(c *gin.Context) {
	c.Redirect(http.StatusFound, HomePath)
}

// NotFound answers unknown routes: JSON under the API prefix, a page
// elsewhere
func (h *SystemHandler) NotFound(c *gin.Context) {
	if isAPIRequest(c) {
		h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "Route not found")
		return
	}
	page := newPage(c, "Page not found", "")
	h.Render(c, http.StatusNotFound, page, view.PageError)
}

func isAPIRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}
