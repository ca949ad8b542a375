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

// CreditorService lists creditors and records settlements
type CreditorService interface {
	List(ctx context.Context, identity string) ledgerapp.CreditorList
	Add(ctx context.Context, identity string, in ledgerapp.AddCreditorInput) (ledgerapp.CreditorList, error)
	RecordSettlement(ctx context.Context, identity, supplierName string, in ledger.SettlementInput) (ledgerapp.CreditorList, error)
}

// CreditorHandler serves the creditor ledger page and API
type CreditorHandler struct {
	BaseHandler
	service CreditorService
}

// NewCreditorHandler creates a new CreditorHandler
func NewCreditorHandler(service CreditorService) *CreditorHandler {
	return &CreditorHandler{service: service}
}

func creditorsPage(c *gin.Context, list ledgerapp.CreditorList) view.Page {
	page := newPage(c, "Creditors", view.PageCreditors)
	page.Stale = list.Stale
	page.Data = view.NewCreditorsData(list)
	return page
}

func (h *CreditorHandler) list(c *gin.Context) ledgerapp.CreditorList {
	return h.service.List(c.Request.Context(), middleware.GetIdentity(c).Email)
}

// Page shows the creditor ledger
func (h *CreditorHandler) Page(c *gin.Context) {
	h.Render(c, http.StatusOK, creditorsPage(c, h.list(c)), view.PageCreditors)
}

// AddForm handles the add-creditor form
func (h *CreditorHandler) AddForm(c *gin.Context) {
	var req dto.AddCreditorRequest
	if err := c.ShouldBind(&req); err != nil {
		h.RenderInvalid(c, creditorsPage(c, h.list(c)), view.PageCreditors, err)
		return
	}
	list, err := h.service.Add(c.Request.Context(), middleware.GetIdentity(c).Email, addCreditorInput(req))
	h.RenderResult(c, creditorsPage(c, list), view.PageCreditors, err, "Creditor added")
}

// SettleForm handles the settlement form of one creditor row
func (h *CreditorHandler) SettleForm(c *gin.Context) {
	var req dto.SettleCreditorRequest
	if err := c.ShouldBind(&req); err != nil {
		h.RenderInvalid(c, creditorsPage(c, h.list(c)), view.PageCreditors, err)
		return
	}
	list, err := h.service.RecordSettlement(c.Request.Context(), middleware.GetIdentity(c).Email,
		c.PostForm("supplierName"), settlementInput(req))
	h.RenderResult(c, creditorsPage(c, list), view.PageCreditors, err, "Settlement recorded")
}

// List returns the creditor ledger. An unreadable backend gives an empty
// list marked stale.
func (h *CreditorHandler) List(c *gin.Context) {
	h.Success(c, creditorListResponse(h.list(c)))
}

// Create adds a creditor
func (h *CreditorHandler) Create(c *gin.Context) {
	var req dto.AddCreditorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	list, err := h.service.Add(c.Request.Context(), middleware.GetIdentity(c).Email, addCreditorInput(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, creditorListResponse(list))
}

// Settle records a settlement against a creditor
func (h *CreditorHandler) Settle(c *gin.Context) {
	var req dto.SettleCreditorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	list, err := h.service.RecordSettlement(c.Request.Context(), middleware.GetIdentity(c).Email,
		c.Param("supplier"), settlementInput(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, creditorListResponse(list))
}

func addCreditorInput(req dto.AddCreditorRequest) ledgerapp.AddCreditorInput {
	return ledgerapp.AddCreditorInput{SupplierName: req.SupplierName, OriginalAmount: req.OriginalAmount}
}

func settlementInput(req dto.SettleCreditorRequest) ledger.SettlementInput {
	return ledger.SettlementInput{
		Amount:    req.Amount,
		Method:    ledger.SettlementMethod(req.Method),
		Reference: req.Reference,
		Notes:     req.Notes,
	}
}

func creditorListResponse(list ledgerapp.CreditorList) dto.CreditorListResponse {
	items := list.Items
	if items == nil {
		items = []ledger.Creditor{}
	}
	return dto.CreditorListResponse{
		Items:   items,
		Summary: dto.NewLedgerSummaryResponse(list.Summary),
		Stale:   list.Stale,
	}
}
