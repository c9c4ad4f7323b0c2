package api

import (
	"context"
	"net/http"

	"github.com/Deymosik/bonafide-client/domain"
)

type calculateSelectionRequest struct {
	Selection []domain.SelectionLine `json:"selection"`
}

// CalculateSelection asks the backend to price the given selection. The
// selection may be empty (everything deselected); the backend answers
// with a zeroed summary.
func (c *Client) CalculateSelection(ctx context.Context, selection []domain.SelectionLine) (*domain.PriceSummary, error) {
	if selection == nil {
		selection = []domain.SelectionLine{}
	}
	var summary domain.PriceSummary
	req := calculateSelectionRequest{Selection: selection}
	if err := c.send(ctx, http.MethodPost, "/calculate-selection/", nil, req, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
