package backend

import (
	"context"
	"net/http"
	"strconv"

	"github.com/erp/dashboard/internal/domain/inventory"
)

// Thresholds fetches the raw threshold settings of identity
func (c *Client) Thresholds(ctx context.Context, identity string) ([]inventory.ThresholdSetting, error) {
	var env listEnvelope[inventory.ThresholdSetting]
	if _, err := c.do(ctx, request{
		endpoint: "thresholds.list",
		method:   http.MethodGet,
		path:     userPath("thresholds", identity),
	}, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// DeleteThreshold removes the setting at index
func (c *Client) DeleteThreshold(ctx context.Context, identity string, index int) error {
	_, err := c.do(ctx, request{
		endpoint: "thresholds.delete",
		method:   http.MethodDelete,
		path:     userPath("thresholds", identity, strconv.Itoa(index)),
	}, nil)
	return err
}

// AddThresholdSettings posts the full list of settings
func (c *Client) AddThresholdSettings(ctx context.Context, identity string, list []inventory.ThresholdSetting) error {
	_, err := c.do(ctx, request{
		endpoint: "thresholds.add",
		method:   http.MethodPost,
		path:     userPath("add-threshold-setting", identity),
		body:     list,
	}, nil)
	return err
}
