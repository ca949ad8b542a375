package view

import (
	ledgerapp "github.com/erp/dashboard/internal/application/ledger"
	procurementapp "github.com/erp/dashboard/internal/application/procurement"
	"github.com/erp/dashboard/internal/domain/inventory"
	"github.com/erp/dashboard/internal/domain/ledger"
)

// Template names
const (
	PageLogin       = "login"
	PageCreditors   = "creditors"
	PageReceivables = "receivables"
	PageThresholds  = "thresholds"
	PageProcurement = "procurement"
	PageError       = "error"
)

// LoginData prefills the login form
type LoginData struct {
	Email string
	Next  string
}

type CreditorsData struct {
	Items   []ledger.Creditor
	Summary ledger.Summary
	Methods []ledger.SettlementMethod
}

func NewCreditorsData(l ledgerapp.CreditorList) CreditorsData {
	return CreditorsData{Items: l.Items, Summary: l.Summary, Methods: ledger.SettlementMethods}
}

type ReceivablesData struct {
	Items   []ledger.Receivable
	Summary ledger.Summary
	Methods []ledger.PaymentMethod
}

func NewReceivablesData(l ledgerapp.ReceivableList) ReceivablesData {
	return ReceivablesData{Items: l.Items, Summary: l.Summary, Methods: ledger.PaymentMethods}
}

type ThresholdsData struct {
	Items   []inventory.ThresholdSetting
	Summary inventory.Summary
}

type ProcurementData struct {
	Items   []procurementapp.RequestView
	Pending int
}
