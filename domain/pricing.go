package domain

import "github.com/shopspring/decimal"

// PriceSummary is the server-computed subtotal/discount/total for a
// selection. It is derived, never authored by the client: always the most
// recent server response for the current selection, or ZeroSummary when
// the selection is empty. Amounts arrive quantized to two decimal places.
type PriceSummary struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalTotal     decimal.Decimal `json:"final_total"`
	AppliedRule    *string         `json:"applied_rule"`
	UpsellHint     *string         `json:"upsell_hint"`
}

// ZeroSummary returns the empty-cart summary. The exponent is pinned so the
// amounts render as "0.00", matching what the backend would have sent.
func ZeroSummary() PriceSummary {
	return PriceSummary{
		Subtotal:       decimal.New(0, -2),
		DiscountAmount: decimal.New(0, -2),
		FinalTotal:     decimal.New(0, -2),
	}
}
