package api

import (
	"context"

	"github.com/Deymosik/bonafide-client/domain"
)

// Settings returns the global shop configuration.
func (c *Client) Settings(ctx context.Context) (*domain.ShopSettings, error) {
	var settings domain.ShopSettings
	if err := c.get(ctx, "/settings/", nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
