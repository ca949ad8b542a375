package handler

import (
	"context"
	"net/http"

	inventoryapp "github.com/erp/dashboard/internal/application/inventory"
	"github.com/erp/dashboard/internal/domain/inventory"
	"github.com/erp/dashboard/internal/interfaces/http/dto"
	"github.com/erp/dashboard/internal/interfaces/http/middleware"
	"github.com/erp/dashboard/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
)

// ThresholdService lists and saves stock threshold settings
type ThresholdService interface {
	List(ctx context.Context, identity string) inventoryapp.ThresholdList
	Summary(ctx context.Context, identity string) (inventory.Summary, bool)
	Save(ctx context.Context, identity, id string, edit inventory.ThresholdEdit) (inventoryapp.ThresholdList, error)
}

// ThresholdHandler serves the stock threshold page and API
type ThresholdHandler struct {
	BaseHandler
	service ThresholdService
}

// NewThresholdHandler creates a new ThresholdHandler
func NewThresholdHandler(service ThresholdService) *ThresholdHandler {
	return &ThresholdHandler{service: service}
}

func thresholdsPage(c *gin.Context, list inventoryapp.ThresholdList) view.Page {
	page := newPage(c, "Stock thresholds", view.PageThresholds)
	page.Stale = list.Stale
	page.Data = view.ThresholdsData{Items: list.Items, Summary: list.Summary}
	return page
}

func (h *ThresholdHandler) list(c *gin.Context) inventoryapp.ThresholdList {
	return h.service.List(c.Request.Context(), middleware.GetIdentity(c).Email)
}

// Page shows every threshold setting with its alert level
func (h *ThresholdHandler) Page(c *gin.Context) {
	h.Render(c, http.StatusOK, thresholdsPage(c, h.list(c)), view.PageThresholds)
}

// SaveForm handles the edit form of one setting row. An unchecked alerts
// box is absent from the form and reads as false.
func (h *ThresholdHandler) SaveForm(c *gin.Context) {
	var req dto.ThresholdEditRequest
	if err := c.ShouldBind(&req); err != nil {
		h.RenderInvalid(c, thresholdsPage(c, h.list(c)), view.PageThresholds, err)
		return
	}
	list, err := h.service.Save(c.Request.Context(), middleware.GetIdentity(c).Email, c.PostForm("id"), thresholdEdit(req))
	h.RenderResult(c, thresholdsPage(c, list), view.PageThresholds, err, "Threshold saved")
}

// List returns the stock threshold settings
func (h *ThresholdHandler) List(c *gin.Context) {
	h.Success(c, thresholdListResponse(h.list(c)))
}

// ThresholdSummaryResponse is the alert summary with its freshness
type ThresholdSummaryResponse struct {
	dto.ThresholdSummaryResponse
	Stale bool `json:"stale"`
}

// Summary counts settings per alert level
func (h *ThresholdHandler) Summary(c *gin.Context) {
	summary, stale := h.service.Summary(c.Request.Context(), middleware.GetIdentity(c).Email)
	h.Success(c, ThresholdSummaryResponse{
		ThresholdSummaryResponse: dto.NewThresholdSummaryResponse(summary),
		Stale:                    stale,
	})
}

// Update saves the levels of one setting. The whole settings list is
// rewritten on the backend and reloaded; a failed reload returns the saved
// list marked stale.
func (h *ThresholdHandler) Update(c *gin.Context) {
	var req dto.ThresholdEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	list, err := h.service.Save(c.Request.Context(), middleware.GetIdentity(c).Email, c.Param("id"), thresholdEdit(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, thresholdListResponse(list))
}

func thresholdEdit(req dto.ThresholdEditRequest) inventory.ThresholdEdit {
	return inventory.ThresholdEdit{
		ReorderLevel: req.ReorderLevel,
		MinStock:     req.MinStock,
		MaxStock:     req.MaxStock,
		AutoAlerts:   req.AutoAlerts,
	}
}

func thresholdListResponse(list inventoryapp.ThresholdList) dto.ThresholdListResponse {
	items := list.Items
	if items == nil {
		items = []inventory.ThresholdSetting{}
	}
	return dto.ThresholdListResponse{
		Items:   items,
		Summary: dto.NewThresholdSummaryResponse(list.Summary),
		Stale:   list.Stale,
	}
}
