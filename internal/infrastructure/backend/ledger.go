package backend

import (
	"context"
	"net/http"

	"github.com/erp/dashboard/internal/domain/ledger"
)

// Creditors fetches the raw creditor list of identity
func (c *Client) Creditors(ctx context.Context, identity string) ([]ledger.Creditor, error) {
	var env listEnvelope[ledger.Creditor]
	if _, err := c.do(ctx, request{
		endpoint: "creditors.list",
		method:   http.MethodGet,
		path:     userPath("creditors", identity),
	}, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// AddCreditor creates a creditor for identity
func (c *Client) AddCreditor(ctx context.Context, identity string, in ledger.NewCreditor) error {
	_, err := c.do(ctx, request{
		endpoint: "creditors.add",
		method:   http.MethodPost,
		path:     userPath("add-creditor", identity),
		body:     in,
	}, nil)
	return err
}

// SettleCreditor records a settlement against the creditor named supplierName
func (c *Client) SettleCreditor(ctx context.Context, identity, supplierName string, in ledger.SettlementRequest) error {
	_, err := c.do(ctx, request{
		endpoint: "creditors.settle",
		method:   http.MethodPatch,
		path:     userPath("creditors", identity, supplierName),
		body:     in,
	}, nil)
	return err
}

// Receivables fetches the raw receivable list of identity
func (c *Client) Receivables(ctx context.Context, identity string) ([]ledger.Receivable, error) {
	var env listEnvelope[ledger.Receivable]
	if _, err := c.do(ctx, request{
		endpoint: "receivables.list",
		method:   http.MethodGet,
		path:     userPath("receivables", identity),
	}, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// AddPayment records a customer payment (first step of a receivable payment)
func (c *Client) AddPayment(ctx context.Context, identity string, in ledger.PaymentRequest) error {
	_, err := c.do(ctx, request{
		endpoint: "receivables.add_payment",
		method:   http.MethodPost,
		path:     userPath("add-payment", identity),
		body:     in,
	}, nil)
	return err
}

// UpdateReceivable applies a payment to the receivable balance (second step)
func (c *Client) UpdateReceivable(ctx context.Context, identity string, in ledger.ReceivableUpdate) error {
	_, err := c.do(ctx, request{
		endpoint: "receivables.update",
		method:   http.MethodPatch,
		path:     userPath("receivables/payment", identity),
		body:     in,
	}, nil)
	return err
}
