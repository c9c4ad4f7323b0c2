package api

import (
	"context"
	"net/http"

	"github.com/Deymosik/bonafide-client/domain"
	"github.com/google/uuid"
)

// CreateOrder submits the checkout form. Validation rejections come back
// as *ValidationError so the caller can surface them to the user; this is
// the one mutation whose failure is not swallowed upstream.
func (c *Client) CreateOrder(ctx context.Context, order domain.OrderRequest) (*domain.OrderConfirmation, error) {
	headers := http.Header{}
	headers.Set("X-Request-Id", uuid.NewString())

	var confirmation domain.OrderConfirmation
	if err := c.send(ctx, http.MethodPost, "/orders/create/", headers, order, &confirmation); err != nil {
		return nil, asValidationError(err)
	}
	return &confirmation, nil
}
