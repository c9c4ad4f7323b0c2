package domain

import "github.com/shopspring/decimal"

// ShopSettings is the global shop configuration blob fetched once at
// startup and cached for the session.
type ShopSettings struct {
	ShopName              string           `json:"shop_name"`
	ManagerUsername       string           `json:"manager_username,omitempty"`
	ContactPhone          string           `json:"contact_phone,omitempty"`
	AboutUsSection        string           `json:"about_us_section,omitempty"`
	DeliverySection       string           `json:"delivery_section,omitempty"`
	WarrantySection       string           `json:"warranty_section,omitempty"`
	FreeShippingThreshold *decimal.Decimal `json:"free_shipping_threshold,omitempty"`
	SearchPlaceholder     string           `json:"search_placeholder,omitempty"`
	SearchInitialText     string           `json:"search_initial_text,omitempty"`
}
