// Package settings caches the global shop configuration for the session.
package settings

import (
	"context"
	"sync"

	"github.com/Deymosik/bonafide-client/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// fallback is served when the backend cannot be reached, so the shop
// header never renders empty. It is not cached; the next call retries.
var fallback = domain.ShopSettings{ShopName: "Мой Магазин"}

// API is the backend surface the store depends on.
type API interface {
	Settings(ctx context.Context) (*domain.ShopSettings, error)
}

type Store struct {
	api API
	log *zap.Logger
	sfg singleflight.Group // collapses concurrent first fetches

	mu     sync.RWMutex
	cached *domain.ShopSettings
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

func New(api API, opts ...Option) *Store {
	s := &Store{
		api: api,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the cached settings, fetching once on first use. Concurrent
// callers during the first fetch share a single request. On fetch failure
// the fallback is returned and nothing is cached.
func (s *Store) Get(ctx context.Context) domain.ShopSettings {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		return *cached
	}

	v, err, _ := s.sfg.Do("settings", func() (interface{}, error) {
		settings, err := s.api.Settings(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cached = settings
		s.mu.Unlock()
		return settings, nil
	})
	if err != nil {
		s.log.Error("settings fetch failed", zap.Error(err))
		return fallback
	}
	return *v.(*domain.ShopSettings)
}

// Invalidate drops the cached settings; the next Get refetches.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}
