package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Deymosik/bonafide-client/domain"
)

// ProductQuery filters the catalog list endpoint.
type ProductQuery struct {
	Search   string
	Category int64
	Ordering string
	IDs      []int64
	Page     int
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Category != 0 {
		v.Set("category", strconv.FormatInt(q.Category, 10))
	}
	if q.Ordering != "" {
		v.Set("ordering", q.Ordering)
	}
	if len(q.IDs) > 0 {
		ids := make([]string, len(q.IDs))
		for i, id := range q.IDs {
			ids[i] = strconv.FormatInt(id, 10)
		}
		v.Set("ids", strings.Join(ids, ","))
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

// Products returns one page of catalog results.
func (c *Client) Products(ctx context.Context, query ProductQuery) (*domain.ProductPage, error) {
	var page domain.ProductPage
	if err := c.get(ctx, "/products/", query.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// NextProducts follows a page's Next link. List views call this from the
// scroll sentinel until Next comes back empty.
func (c *Client) NextProducts(ctx context.Context, next string) (*domain.ProductPage, error) {
	if next == "" {
		return nil, ErrLastPage
	}
	var page domain.ProductPage
	if err := c.getURL(ctx, next, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Product returns the full product page payload.
func (c *Client) Product(ctx context.Context, id int64) (*domain.ProductDetail, error) {
	var detail domain.ProductDetail
	if err := c.get(ctx, fmt.Sprintf("/products/%d/", id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Categories returns the root categories with nested subcategories.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.get(ctx, "/categories/", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Banners returns the active promo banners in display order.
func (c *Client) Banners(ctx context.Context) ([]domain.Banner, error) {
	var banners []domain.Banner
	if err := c.get(ctx, "/banners/", nil, &banners); err != nil {
		return nil, err
	}
	return banners, nil
}

// Faq returns the active FAQ entries in display order.
func (c *Client) Faq(ctx context.Context) ([]domain.FaqItem, error) {
	var items []domain.FaqItem
	if err := c.get(ctx, "/faq/", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// DealOfTheDay returns the current deal, or nil when none is running.
func (c *Client) DealOfTheDay(ctx context.Context) (*domain.Deal, error) {
	var deal domain.Deal
	if err := c.get(ctx, "/deal-of-the-day/", nil, &deal); err != nil {
		return nil, err
	}
	if deal.ID == 0 {
		return nil, nil
	}
	return &deal, nil
}
