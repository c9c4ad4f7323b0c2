// Package cart keeps a local view of the server-side cart and the
// user's checkout selection in sync with the backend. All pricing and
// discount evaluation happens server-side; the store only displays
// numbers it is handed and serializes every mutation through the API.
package cart

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Deymosik/bonafide-client/domain"
	"go.uber.org/zap"
)

// API is the backend surface the store depends on. *api.Client satisfies
// it; tests inject fakes.
type API interface {
	FetchCart(ctx context.Context) (*domain.CartState, error)
	SetQuantity(ctx context.Context, productID int64, quantity int) (*domain.CartState, error)
	BulkDelete(ctx context.Context, productIDs []int64) (*domain.CartState, error)
	CalculateSelection(ctx context.Context, selection []domain.SelectionLine) (*domain.PriceSummary, error)
}

// Store is the single in-memory source of truth for cart contents and
// selection. Construct one per session; there are no package-level
// singletons, so tests get isolated state.
type Store struct {
	api API
	log *zap.Logger

	mu         sync.Mutex
	lines      []domain.CartLine
	selected   map[int64]struct{}
	summary    domain.PriceSummary
	totalItems int
	loading    bool

	pricer *pricer
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithQuietWindow overrides the pricing debounce window (default 300ms).
func WithQuietWindow(d time.Duration) Option {
	return func(s *Store) { s.pricer.window = d }
}

func New(api API, opts ...Option) *Store {
	s := &Store{
		api:      api,
		log:      zap.NewNop(),
		selected: make(map[int64]struct{}),
		summary:  domain.ZeroSummary(),
	}
	s.pricer = newPricer(api.CalculateSelection, s.applySummary, zap.NewNop())
	for _, opt := range opts {
		opt(s)
	}
	s.pricer.log = s.log
	return s
}

// Close stops the pending pricing timer. In-flight requests are not
// aborted, only their results are discarded.
func (s *Store) Close() {
	s.pricer.Close()
}

// Refresh loads the cart from the server and replaces local state. The
// selection resets to all line ids, as after any full replacement.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	state, err := s.api.FetchCart(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.log.Error("cart fetch failed", zap.Error(err))
		return err
	}
	s.applyServerStateLocked(state)
	return nil
}

// AddItem adds one unit of the product, or bumps an existing line by one.
// Above the quantity limit the call is silently a no-op: zero network
// calls, state unchanged. Soft limit, not worth interrupting the user.
func (s *Store) AddItem(ctx context.Context, productID int64) error {
	s.mu.Lock()
	quantity := 1
	if line, ok := s.lineLocked(productID); ok {
		quantity = line.Quantity + 1
	}
	s.mu.Unlock()

	if quantity > domain.MaxQuantity {
		return nil
	}
	return s.mutate(ctx, "add_item", func(ctx context.Context) (*domain.CartState, error) {
		return s.api.SetQuantity(ctx, productID, quantity)
	})
}

// UpdateQuantity sets a line's quantity. Below one it becomes a removal
// (quantity zero on the wire). Above the limit nothing is sent and a
// warning is logged for operators; the end user sees nothing.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		quantity = 0
	}
	if quantity > domain.MaxQuantity {
		s.log.Warn("quantity above limit, ignoring",
			zap.Int64("product_id", productID),
			zap.Int("quantity", quantity),
			zap.Int("limit", domain.MaxQuantity))
		return nil
	}
	return s.mutate(ctx, "update_quantity", func(ctx context.Context) (*domain.CartState, error) {
		return s.api.SetQuantity(ctx, productID, quantity)
	})
}

// ToggleItemSelection flips the product's membership in the selection.
// Pure local mutation; the cart endpoints are not called, only the
// debounced pricing recompute is scheduled.
func (s *Store) ToggleItemSelection(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lineLocked(productID); !ok {
		return
	}
	if _, ok := s.selected[productID]; ok {
		delete(s.selected, productID)
	} else {
		s.selected[productID] = struct{}{}
	}
	s.stateChangedLocked()
}

// ToggleSelectAll selects every line unless all are already selected, in
// which case it clears the selection. Master-checkbox semantics.
func (s *Store) ToggleSelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.selected) < len(s.lines) {
		for _, line := range s.lines {
			s.selected[line.Product.ID] = struct{}{}
		}
	} else {
		s.selected = make(map[int64]struct{})
	}
	s.stateChangedLocked()
}

// DeleteSelected removes every selected line in one bulk call, then
// clears the selection regardless of the response content: the deleted
// ids can no longer be valid members.
func (s *Store) DeleteSelected(ctx context.Context) error {
	s.mu.Lock()
	ids := s.selectedIDsLocked()
	s.mu.Unlock()
	if len(ids) == 0 {
		return nil
	}

	err := s.mutate(ctx, "delete_selected", func(ctx context.Context) (*domain.CartState, error) {
		return s.api.BulkDelete(ctx, ids)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[int64]struct{})
	s.stateChangedLocked()
	return nil
}

// Clear empties the cart with one bulk delete over all current lines.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	ids := make([]int64, 0, len(s.lines))
	for _, line := range s.lines {
		ids = append(ids, line.Product.ID)
	}
	s.mu.Unlock()
	if len(ids) == 0 {
		return nil
	}
	return s.mutate(ctx, "clear_cart", func(ctx context.Context) (*domain.CartState, error) {
		return s.api.BulkDelete(ctx, ids)
	})
}

// mutate is the one path every cart mutation takes: call the API, and on
// success replace local state wholesale from the response. On failure the
// attempted mutation simply does not apply.
func (s *Store) mutate(ctx context.Context, op string, call func(context.Context) (*domain.CartState, error)) error {
	state, err := call(ctx)
	if err != nil {
		s.log.Error("cart mutation failed", zap.String("op", op), zap.Error(err))
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyServerStateLocked(state)
	return nil
}

func (s *Store) applyServerStateLocked(state *domain.CartState) {
	s.lines = make([]domain.CartLine, len(state.Items))
	copy(s.lines, state.Items)

	s.selected = make(map[int64]struct{}, len(s.lines))
	s.totalItems = 0
	for _, line := range s.lines {
		s.selected[line.Product.ID] = struct{}{}
		s.totalItems += line.Quantity
	}
	s.summary = state.PriceSummary
	s.stateChangedLocked()
}

// stateChangedLocked runs after every (lines, selection) change. An empty
// line set resets the summary synchronously with no network call; any
// other change schedules the debounced recompute with the current
// selection.
func (s *Store) stateChangedLocked() {
	if len(s.lines) == 0 {
		s.summary = domain.ZeroSummary()
		s.totalItems = 0
		s.pricer.Cancel()
		return
	}
	s.pricer.Schedule(s.selectionLocked())
}

func (s *Store) applySummary(summary domain.PriceSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.lines) == 0 {
		return
	}
	s.summary = summary
}

func (s *Store) lineLocked(productID int64) (domain.CartLine, bool) {
	for _, line := range s.lines {
		if line.Product.ID == productID {
			return line, true
		}
	}
	return domain.CartLine{}, false
}

func (s *Store) selectionLocked() []domain.SelectionLine {
	selection := make([]domain.SelectionLine, 0, len(s.selected))
	for _, line := range s.lines {
		if _, ok := s.selected[line.Product.ID]; ok {
			selection = append(selection, domain.SelectionLine{
				ProductID: line.Product.ID,
				Quantity:  line.Quantity,
			})
		}
	}
	return selection
}

func (s *Store) selectedIDsLocked() []int64 {
	ids := make([]int64, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Lines returns a copy of the current cart lines.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]domain.CartLine, len(s.lines))
	copy(lines, s.lines)
	return lines
}

// Selected returns the selected product ids in ascending order.
func (s *Store) Selected() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedIDsLocked()
}

func (s *Store) IsSelected(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.selected[productID]
	return ok
}

// Summary returns the last-applied price summary.
func (s *Store) Summary() domain.PriceSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// TotalItems returns the sum of all line quantities.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalItems
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}
