package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog list entry.
type Product struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Image      string          `json:"main_image_thumbnail_url,omitempty"`
	InfoPanels []InfoPanel     `json:"info_panels,omitempty"`
}

// InfoPanel is a small colored badge shown on product cards.
type InfoPanel struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	TextColor string `json:"text_color"`
}

// ProductImage is one gallery entry of a product.
type ProductImage struct {
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// ProductDetail is the full product page payload.
type ProductDetail struct {
	Product
	Description     string          `json:"description"`
	MainImageURL    string          `json:"main_image_url,omitempty"`
	Images          []ProductImage  `json:"images,omitempty"`
	Characteristics json.RawMessage `json:"characteristics,omitempty"`
	RelatedProducts []Product       `json:"related_products,omitempty"`
}

// ProductPage is one page of catalog results. Next carries the URL of the
// following page, or is empty on the last one; list pages follow it to
// implement infinite scroll.
type ProductPage struct {
	Count    int       `json:"count"`
	Next     string    `json:"next"`
	Previous string    `json:"previous"`
	Results  []Product `json:"results"`
}

// Category is a node of the category tree. Only root categories are
// returned by the list endpoint, children nested one level down.
type Category struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Subcategories []Category `json:"subcategories,omitempty"`
}

// Banner is a promo carousel entry.
type Banner struct {
	ID          int64  `json:"id"`
	ImageURL    string `json:"image_url"`
	LinkURL     string `json:"link_url,omitempty"`
	TextContent string `json:"text_content,omitempty"`
	TextColor   string `json:"text_color,omitempty"`
}

// FaqItem is one question/answer pair.
type FaqItem struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Deal is the deal-of-the-day product with its temporary price.
type Deal struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	DealPrice  decimal.Decimal `json:"deal_price"`
	Image      string          `json:"main_image_thumbnail_url,omitempty"`
	DealEndsAt time.Time       `json:"deal_ends_at"`
}
