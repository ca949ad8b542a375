package handler

import (
	"context"
	"net/http"

	ledgerapp "github.com/erp/dashboard/internal/application/ledger"
	"github.com/erp/dashboard/internal/domain/ledger"
	"github.com/erp/dashboard/internal/interfaces/http/dto"
	"github.com/erp/dashboard/internal/interfaces/http/middleware"
	"github.com/erp/dashboard/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
)

// ReceivableService lists receivables and records customer payments
type ReceivableService interface {
	List(ctx context.Context, identity string) ledgerapp.ReceivableList
	RecordPayment(ctx context.Context, identity, receivableID string, in ledger.PaymentInput) (ledgerapp.ReceivableList, error)
}

// ReceivableHandler serves the receivable ledger page and API
type ReceivableHandler struct {
	BaseHandler
	service ReceivableService
}

// NewReceivableHandler creates a new ReceivableHandler
func NewReceivableHandler(service ReceivableService) *ReceivableHandler {
	return &ReceivableHandler{service: service}
}

func receivablesPage(c *gin.Context, list ledgerapp.ReceivableList) view.Page {
	page := newPage(c, "Receivables", view.PageReceivables)
	page.Stale = list.Stale
	page.Data = view.NewReceivablesData(list)
	return page
}

func (h *ReceivableHandler) list(c *gin.Context) ledgerapp.ReceivableList {
	return h.service.List(c.Request.Context(), middleware.GetIdentity(c).Email)
}

// Page shows the receivable ledger
func (h *ReceivableHandler) Page(c *gin.Context) {
	h.Render(c, http.StatusOK, receivablesPage(c, h.list(c)), view.PageReceivables)
}

// PaymentForm handles the payment form of one receivable row
func (h *ReceivableHandler) PaymentForm(c *gin.Context) {
	var req dto.RecordPaymentRequest
	if err := c.ShouldBind(&req); err != nil {
		h.RenderInvalid(c, receivablesPage(c, h.list(c)), view.PageReceivables, err)
		return
	}
	list, err := h.service.RecordPayment(c.Request.Context(), middleware.GetIdentity(c).Email,
		c.PostForm("receivableId"), paymentInput(req))
	h.RenderResult(c, receivablesPage(c, list), view.PageReceivables, err, "Payment recorded")
}

// List returns the receivable ledger
func (h *ReceivableHandler) List(c *gin.Context) {
	h.Success(c, receivableListResponse(h.list(c)))
}

// RecordPayment records a customer payment and then updates the receivable
// balance. Either write failing fails the call.
func (h *ReceivableHandler) RecordPayment(c *gin.Context) {
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	list, err := h.service.RecordPayment(c.Request.Context(), middleware.GetIdentity(c).Email,
		c.Param("id"), paymentInput(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, receivableListResponse(list))
}

func paymentInput(req dto.RecordPaymentRequest) ledger.PaymentInput {
	return ledger.PaymentInput{
		Amount:    req.Amount,
		Method:    ledger.PaymentMethod(req.Method),
		Reference: req.Reference,
	}
}

func receivableListResponse(list ledgerapp.ReceivableList) dto.ReceivableListResponse {
	items := list.Items
	if items == nil {
		items = []ledger.Receivable{}
	}
	return dto.ReceivableListResponse{
		Items:   items,
		Summary: dto.NewLedgerSummaryResponse(list.Summary),
		Stale:   list.Stale,
	}
}
