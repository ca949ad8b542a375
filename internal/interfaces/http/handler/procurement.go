package handler

import (
	"context"
	"net/http"

	procurementapp "github.com/erp/dashboard/internal/application/procurement"
	"github.com/erp/dashboard/internal/domain/shared/valueobject"
	"github.com/erp/dashboard/internal/interfaces/http/dto"
	"github.com/erp/dashboard/internal/interfaces/http/middleware"
	"github.com/erp/dashboard/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
)

// ProcurementService lists, adds and decides procurement requests
type ProcurementService interface {
	List(ctx context.Context, identity string) procurementapp.List
	Add(ctx context.Context, identity string, in procurementapp.AddInput) (procurementapp.List, error)
	Approve(ctx context.Context, identity, requestID string) (procurementapp.List, error)
	Reject(ctx context.Context, identity, requestID string) (procurementapp.List, error)
}

// ProcurementHandler serves the procurement page and API
type ProcurementHandler struct {
	BaseHandler
	service ProcurementService
}

// NewProcurementHandler creates a new ProcurementHandler
func NewProcurementHandler(service ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{service: service}
}

func procurementPage(c *gin.Context, list procurementapp.List) view.Page {
	page := newPage(c, "Procurement", view.PageProcurement)
	page.Stale = list.Stale
	page.Data = view.ProcurementData{Items: list.Items, Pending: list.Pending}
	return page
}

func (h *ProcurementHandler) list(c *gin.Context) procurementapp.List {
	return h.service.List(c.Request.Context(), middleware.GetIdentity(c).Email)
}

// Page shows the procurement requests
func (h *ProcurementHandler) Page(c *gin.Context) {
	h.Render(c, http.StatusOK, procurementPage(c, h.list(c)), view.PageProcurement)
}

// AddForm handles the new-request form
func (h *ProcurementHandler) AddForm(c *gin.Context) {
	var req dto.AddProcurementRequest
	if err := c.ShouldBind(&req); err != nil {
		h.RenderInvalid(c, procurementPage(c, h.list(c)), view.PageProcurement, err)
		return
	}
	list, err := h.service.Add(c.Request.Context(), middleware.GetIdentity(c).Email, addProcurementInput(req))
	h.RenderResult(c, procurementPage(c, list), view.PageProcurement, err, "Request submitted")
}

// ApproveForm approves the request named by the form's id field
func (h *ProcurementHandler) ApproveForm(c *gin.Context) {
	list, err := h.service.Approve(c.Request.Context(), middleware.GetIdentity(c).Email, c.PostForm("id"))
	h.RenderResult(c, procurementPage(c, list), view.PageProcurement, err, "Request approved")
}

// RejectForm rejects the request named by the form's id field
func (h *ProcurementHandler) RejectForm(c *gin.Context) {
	list, err := h.service.Reject(c.Request.Context(), middleware.GetIdentity(c).Email, c.PostForm("id"))
	h.RenderResult(c, procurementPage(c, list), view.PageProcurement, err, "Request rejected")
}

// List returns the procurement requests
func (h *ProcurementHandler) List(c *gin.Context) {
	h.Success(c, procurementListResponse(h.list(c)))
}

// Create submits a procurement request
func (h *ProcurementHandler) Create(c *gin.Context) {
	var req dto.AddProcurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	list, err := h.service.Add(c.Request.Context(), middleware.GetIdentity(c).Email, addProcurementInput(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, procurementListResponse(list))
}

// Approve approves a pending request
func (h *ProcurementHandler) Approve(c *gin.Context) {
	h.decide(c, h.service.Approve)
}

// Reject rejects a pending request
func (h *ProcurementHandler) Reject(c *gin.Context) {
	h.decide(c, h.service.Reject)
}

func (h *ProcurementHandler) decide(c *gin.Context, fn func(ctx context.Context, identity, requestID string) (procurementapp.List, error)) {
	list, err := fn(c.Request.Context(), middleware.GetIdentity(c).Email, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, procurementListResponse(list))
}

func addProcurementInput(req dto.AddProcurementRequest) procurementapp.AddInput {
	return procurementapp.AddInput{
		Department:    req.Department,
		ItemName:      req.ItemName,
		Quantity:      req.Quantity,
		EstimatedCost: req.EstimatedCost,
	}
}

func procurementListResponse(list procurementapp.List) dto.ProcurementListResponse {
	items := make([]dto.ProcurementRequestResponse, len(list.Items))
	for i, r := range list.Items {
		items[i] = dto.ProcurementRequestResponse{Request: r.Request, TotalValue: valueobject.NumberOf(r.TotalValue)}
	}
	return dto.ProcurementListResponse{Items: items, Pending: list.Pending, Stale: list.Stale}
}
