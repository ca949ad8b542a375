package backend

import (
	"context"
	"net/http"

	"github.com/erp/dashboard/internal/domain/procurement"
)

// Procurements fetches the raw procurement requests of identity
func (c *Client) Procurements(ctx context.Context, identity string) ([]procurement.Request, error) {
	var env listEnvelope[procurement.Request]
	if _, err := c.do(ctx, request{
		endpoint: "procurements.list",
		method:   http.MethodGet,
		path:     userPath("procurements", identity),
	}, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// AddProcurement creates a procurement request
func (c *Client) AddProcurement(ctx context.Context, identity string, in procurement.NewRequest) error {
	_, err := c.do(ctx, request{
		endpoint: "procurements.add",
		method:   http.MethodPost,
		path:     userPath("add-procurement", identity),
		body:     in,
	}, nil)
	return err
}
