package domain

import "github.com/shopspring/decimal"

// MaxQuantity is the soft per-line quantity limit. The backend enforces it
// too, but the client never sends a request it knows would exceed it.
const MaxQuantity = 10

// ProductRef is the product shape embedded in cart lines. The catalog
// endpoints return richer shapes, see Product and ProductDetail.
type ProductRef struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Image string          `json:"image,omitempty"`
	Price decimal.Decimal `json:"price"`
}

// CartLine is one product entry in the cart. Identity key is Product.ID.
// Lines are owned by the server; the client replaces them wholesale on
// every successful round-trip and never merges partial updates.
type CartLine struct {
	Product         ProductRef       `json:"product"`
	Quantity        int              `json:"quantity"`
	OriginalPrice   decimal.Decimal  `json:"original_price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price"`
}

// CartState is the full cart response returned by every cart endpoint.
// The summary fields live at the top level of the response body.
type CartState struct {
	Items []CartLine `json:"items"`
	PriceSummary
}

// SelectionLine is one element of the pricing request payload: a selected
// cart line reduced to what the discount engine needs.
type SelectionLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}
