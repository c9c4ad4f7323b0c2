package api

import (
	"context"
	"net/http"

	"github.com/Deymosik/bonafide-client/domain"
)

type setQuantityRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type bulkDeleteRequest struct {
	ProductIDs []int64 `json:"product_ids"`
}

// FetchCart returns the authoritative cart state. Cart reads go through
// the plain transport, not the breaker: the cart store treats a failed
// fetch as a no-op and a fenced fast-failure would look identical.
func (c *Client) FetchCart(ctx context.Context) (*domain.CartState, error) {
	var state domain.CartState
	if err := c.send(ctx, http.MethodGet, "/cart/", nil, nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SetQuantity sets one line's quantity. Zero removes the line. The
// response is the full replacement cart state.
func (c *Client) SetQuantity(ctx context.Context, productID int64, quantity int) (*domain.CartState, error) {
	var state domain.CartState
	req := setQuantityRequest{ProductID: productID, Quantity: quantity}
	if err := c.send(ctx, http.MethodPost, "/cart/", nil, req, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// BulkDelete removes every listed line in one call.
func (c *Client) BulkDelete(ctx context.Context, productIDs []int64) (*domain.CartState, error) {
	var state domain.CartState
	req := bulkDeleteRequest{ProductIDs: productIDs}
	if err := c.send(ctx, http.MethodDelete, "/cart/", nil, req, &state); err != nil {
		return nil, err
	}
	return &state, nil
}
