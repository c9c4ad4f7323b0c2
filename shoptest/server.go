// Package shoptest is an in-memory fake of the storefront backend REST
// surface. Package tests run against it instead of a live backend, and it
// doubles as a local development stub outside the Telegram host. It is a
// test double, not a reference backend implementation.
package shoptest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/Deymosik/bonafide-client/domain"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const defaultPageSize = 6

// Server holds the fake backend state. All handlers mutate it under one
// mutex; per-endpoint call counts are recorded for assertions.
type Server struct {
	mu sync.Mutex

	products    []domain.Product
	cart        map[int64]int
	orders      []domain.OrderRequest
	nextOrderID int64

	settings   domain.ShopSettings
	categories []domain.Category
	banners    []domain.Banner
	faq        []domain.FaqItem
	deal       *domain.Deal

	ruleName   string
	ruleMinQty int
	rulePct    decimal.Decimal

	requireAuth bool
	pageSize    int
	calls       map[string]int

	router chi.Router
}

type Option func(*Server)

// RequireAuth makes every endpoint reject requests without an
// "Authorization: tma ..." header.
func RequireAuth() Option {
	return func(s *Server) { s.requireAuth = true }
}

func WithPageSize(n int) Option {
	return func(s *Server) { s.pageSize = n }
}

// WithDiscountRule installs a single total-quantity rule: pct percent off
// once the selection holds at least minQty units.
func WithDiscountRule(name string, minQty int, pct int64) Option {
	return func(s *Server) {
		s.ruleName = name
		s.ruleMinQty = minQty
		s.rulePct = decimal.NewFromInt(pct)
	}
}

func WithSettings(settings domain.ShopSettings) Option {
	return func(s *Server) { s.settings = settings }
}

func New(opts ...Option) *Server {
	s := &Server{
		cart:        make(map[int64]int),
		calls:       make(map[string]int),
		pageSize:    defaultPageSize,
		nextOrderID: 1,
		settings:    domain.ShopSettings{ShopName: "Bonafide"},
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(s.authMiddleware)
	r.Get("/cart/", s.getCart)
	r.Post("/cart/", s.postCart)
	r.Delete("/cart/", s.deleteCart)
	r.Post("/calculate-selection/", s.calculateSelection)
	r.Post("/orders/create/", s.createOrder)
	r.Get("/settings/", s.getSettings)
	r.Get("/products/", s.listProducts)
	r.Get("/products/{id}/", s.getProduct)
	r.Get("/categories/", s.listCategories)
	r.Get("/banners/", s.listBanners)
	r.Get("/faq/", s.listFaq)
	r.Get("/deal-of-the-day/", s.getDeal)
	s.router = r
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// SeedProducts replaces the catalog.
func (s *Server) SeedProducts(products ...domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
}

// SeedCart sets line quantities directly, bypassing the API.
func (s *Server) SeedCart(quantities map[int64]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, qty := range quantities {
		s.cart[id] = qty
	}
}

func (s *Server) SeedCategories(categories ...domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = categories
}

func (s *Server) SeedBanners(banners ...domain.Banner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banners = banners
}

func (s *Server) SeedFaq(items ...domain.FaqItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faq = items
}

func (s *Server) SeedDeal(deal domain.Deal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deal = &deal
}

// Calls returns how many times an endpoint was hit, keyed as
// "POST /calculate-selection/".
func (s *Server) Calls(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key]
}

// Orders returns every accepted order submission.
func (s *Server) Orders() []domain.OrderRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := make([]domain.OrderRequest, len(s.orders))
	copy(orders, s.orders)
	return orders
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.requireAuth && !strings.HasPrefix(r.Header.Get("Authorization"), "tma ") {
			respondJSON(w, http.StatusUnauthorized, map[string]string{"detail": "invalid init data"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) count(r *http.Request) {
	s.calls[r.Method+" "+r.URL.Path]++
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.count(r)
	state := s.cartStateLocked()
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) postCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid JSON body"})
		return
	}

	s.mu.Lock()
	s.count(r)
	if req.Quantity <= 0 {
		delete(s.cart, req.ProductID)
	} else if req.Quantity > domain.MaxQuantity {
		s.mu.Unlock()
		respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "quantity over limit"})
		return
	} else if _, ok := s.productLocked(req.ProductID); !ok {
		s.mu.Unlock()
		respondJSON(w, http.StatusNotFound, map[string]string{"detail": "product not found"})
		return
	} else {
		s.cart[req.ProductID] = req.Quantity
	}
	state := s.cartStateLocked()
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) deleteCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductIDs []int64 `json:"product_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid JSON body"})
		return
	}

	s.mu.Lock()
	s.count(r)
	for _, id := range req.ProductIDs {
		delete(s.cart, id)
	}
	state := s.cartStateLocked()
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) calculateSelection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Selection []domain.SelectionLine `json:"selection"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid JSON body"})
		return
	}

	s.mu.Lock()
	s.count(r)
	summary := s.summarizeLocked(req.Selection)
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid JSON body"})
		return
	}

	fields := map[string][]string{}
	if req.FirstName == "" {
		fields["first_name"] = []string{"Обязательное поле."}
	}
	if req.Phone == "" {
		fields["phone"] = []string{"Обязательное поле."}
	}
	if req.DeliveryMethod != domain.DeliveryRussianPost && req.DeliveryMethod != domain.DeliveryCDEK {
		fields["delivery_method"] = []string{"Неизвестный способ доставки."}
	}
	if len(req.Items) == 0 {
		fields["items"] = []string{"Корзина пуста."}
	}

	s.mu.Lock()
	s.count(r)
	if len(fields) > 0 {
		s.mu.Unlock()
		respondJSON(w, http.StatusBadRequest, fields)
		return
	}
	id := s.nextOrderID
	s.nextOrderID++
	s.orders = append(s.orders, req)
	s.mu.Unlock()

	respondJSON(w, http.StatusCreated, domain.OrderConfirmation{ID: id, Status: "created"})
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.count(r)
	settings := s.settings
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, settings)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.count(r)
	matched := s.filterProductsLocked(r.URL.Query())
	pageSize := s.pageSize
	s.mu.Unlock()

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	next := ""
	if end < len(matched) {
		q := r.URL.Query()
		q.Set("page", strconv.Itoa(page+1))
		next = "http://" + r.Host + r.URL.Path + "?" + q.Encode()
	}
	previous := ""
	if page > 1 {
		q := r.URL.Query()
		q.Set("page", strconv.Itoa(page-1))
		previous = "http://" + r.Host + r.URL.Path + "?" + q.Encode()
	}

	respondJSON(w, http.StatusOK, domain.ProductPage{
		Count:    len(matched),
		Next:     next,
		Previous: previous,
		Results:  matched[start:end],
	})
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusNotFound, map[string]string{"detail": "not found"})
		return
	}

	s.mu.Lock()
	s.count(r)
	product, ok := s.productLocked(id)
	s.mu.Unlock()
	if !ok {
		respondJSON(w, http.StatusNotFound, map[string]string{"detail": "not found"})
		return
	}
	respondJSON(w, http.StatusOK, domain.ProductDetail{Product: product})
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.count(r)
	categories := s.categories
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, categories)
}

func (s *Server) listBanners(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.count(r)
	banners := s.banners
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, banners)
}

func (s *Server) listFaq(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.count(r)
	faq := s.faq
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, faq)
}

func (s *Server) getDeal(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.count(r)
	deal := s.deal
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, deal)
}

func (s *Server) productLocked(id int64) (domain.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (s *Server) filterProductsLocked(query map[string][]string) []domain.Product {
	search := ""
	if v, ok := query["search"]; ok && len(v) > 0 {
		search = strings.ToLower(v[0])
	}
	var ids map[int64]bool
	if v, ok := query["ids"]; ok && len(v) > 0 && v[0] != "" {
		ids = make(map[int64]bool)
		for _, raw := range strings.Split(v[0], ",") {
			if id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
				ids[id] = true
			}
		}
	}

	var matched []domain.Product
	for _, p := range s.products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if ids != nil && !ids[p.ID] {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}

// cartStateLocked builds the full-replacement cart response: all lines
// plus the summary over the whole cart.
func (s *Server) cartStateLocked() domain.CartState {
	ids := make([]int64, 0, len(s.cart))
	for id := range s.cart {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	items := make([]domain.CartLine, 0, len(ids))
	selection := make([]domain.SelectionLine, 0, len(ids))
	for _, id := range ids {
		product, ok := s.productLocked(id)
		if !ok {
			continue
		}
		items = append(items, domain.CartLine{
			Product: domain.ProductRef{
				ID:    product.ID,
				Name:  product.Name,
				Image: product.Image,
				Price: product.Price,
			},
			Quantity:      s.cart[id],
			OriginalPrice: product.Price,
		})
		selection = append(selection, domain.SelectionLine{ProductID: id, Quantity: s.cart[id]})
	}

	return domain.CartState{
		Items:        items,
		PriceSummary: s.summarizeLocked(selection),
	}
}

func (s *Server) summarizeLocked(selection []domain.SelectionLine) domain.PriceSummary {
	subtotal := decimal.Zero
	totalQty := 0
	for _, line := range selection {
		product, ok := s.productLocked(line.ProductID)
		if !ok {
			continue
		}
		subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		totalQty += line.Quantity
	}

	discount := decimal.Zero
	var appliedRule, upsellHint *string
	if s.ruleName != "" && totalQty > 0 {
		if totalQty >= s.ruleMinQty {
			discount = subtotal.Mul(s.rulePct).Div(decimal.NewFromInt(100))
			name := s.ruleName
			appliedRule = &name
		} else {
			hint := fmt.Sprintf("Добавьте еще %d шт. любого товара, чтобы получить скидку %s%%!",
				s.ruleMinQty-totalQty, s.rulePct.String())
			upsellHint = &hint
		}
	}

	return domain.PriceSummary{
		Subtotal:       quantize(subtotal),
		DiscountAmount: quantize(discount),
		FinalTotal:     quantize(subtotal.Sub(discount)),
		AppliedRule:    appliedRule,
		UpsellHint:     upsellHint,
	}
}

// quantize pins two decimal places so amounts render as the backend
// would send them ("120.00", not "120").
func quantize(d decimal.Decimal) decimal.Decimal {
	return decimal.RequireFromString(d.StringFixed(2))
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
