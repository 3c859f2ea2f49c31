package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/alebarre/italicita/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service is a read-through view of the catalog backed by a menu cache.
type Service struct {
	repo   Provider
	cache  MenuCache
	logger *zap.Logger
	sfg    singleflight.Group // Prevents cache stampede
}

func NewService(repo Provider, cache MenuCache, logger *zap.Logger) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (s *Service) ListMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	v, err, _ := s.sfg.Do(menuKey, func() (interface{}, error) {
		items, err := s.cache.Get(ctx)
		if err == nil {
			return items, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn("menu cache get failed", zap.Error(err))
		}

		items, err = s.repo.ListMenuItems(ctx)
		if err != nil {
			return nil, err
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.cache.Set(ctx, items); err != nil {
				s.logger.Warn("menu cache set failed", zap.Error(err))
			}
		}()

		return items, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]domain.MenuItem), nil
}

func (s *Service) GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	items, err := s.ListMenuItems(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			item := items[i]
			return &item, nil
		}
	}
	return nil, ErrMenuItemNotFound
}

func (s *Service) ListByCategory(ctx context.Context, category domain.Category) ([]domain.MenuItem, error) {
	items, err := s.ListMenuItems(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.MenuItem, 0, len(items))
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out, nil
}

// Invalidate drops the cached menu so the next read goes to the repository.
func (s *Service) Invalidate(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx); err != nil {
		s.logger.Warn("menu cache invalidate failed", zap.Error(err))
	}
}

// NopCache is used when no Redis is configured.
type NopCache struct{}

func (NopCache) Get(context.Context) ([]domain.MenuItem, error) { return nil, ErrCacheMiss }
func (NopCache) Set(context.Context, []domain.MenuItem) error   { return nil }
func (NopCache) Delete(context.Context) error                   { return nil }
