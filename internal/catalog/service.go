package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/prabhata303-del/Dd/internal/cache"
	"github.com/prabhata303-del/Dd/internal/metrics"
	"github.com/prabhata303-del/Dd/internal/models"
	"github.com/prabhata303-del/Dd/internal/store"
)

// Cache keys for the normalized catalog lists.
const (
	cacheKeyDishes     = "catalog:dishes"
	cacheKeyCategories = "catalog:categories"
	cacheKeyBanners    = "catalog:banners"
)

var errEmptyCatalog = errors.New("catalog tree is empty")

// Service serves the normalized catalog read models. Reads go through the
// cache, then the store; any failure or an empty tree degrades to the fixed
// placeholder payload with a log line. Methods on this read path never
// return errors.
type Service struct {
	store  store.RecordStore
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewService creates a catalog service. c may be nil to run uncached.
func NewService(rs store.RecordStore, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{store: rs, cache: c, ttl: ttl, logger: logger}
}

// Dishes returns the menu for a pincode, falling back to placeholders.
func (s *Service) Dishes(ctx context.Context, pincode string) []models.Dish {
	dishes, err := s.loadDishes(ctx)
	if err != nil {
		s.logger.Warn("serving placeholder dishes", zap.Error(err))
		metrics.RecordFallback("dishes")
		dishes = PlaceholderDishes()
	}
	return FilterByPincode(dishes, pincode)
}

// Categories returns the category list, falling back to placeholders.
func (s *Service) Categories(ctx context.Context) []models.Category {
	var records map[string]rawCategory
	if err := s.loadList(ctx, cacheKeyCategories, store.CategoriesPath, &records); err != nil {
		s.logger.Warn("serving placeholder categories", zap.Error(err))
		metrics.RecordFallback("categories")
		return PlaceholderCategories()
	}
	return normalizeCategories(records)
}

// Banners returns the active banners, falling back to placeholders.
func (s *Service) Banners(ctx context.Context) []models.Banner {
	var records map[string]rawBanner
	if err := s.loadList(ctx, cacheKeyBanners, store.BannersPath, &records); err != nil {
		s.logger.Warn("serving placeholder banners", zap.Error(err))
		metrics.RecordFallback("banners")
		return PlaceholderBanners()
	}
	return normalizeBanners(records)
}

// WatchDishes delivers the normalized, filtered menu after every change to
// the dishes tree. The returned cancel func releases the stream; the caller
// must invoke it.
func (s *Service) WatchDishes(ctx context.Context, pincode string) (<-chan []models.Dish, func(), error) {
	sub, err := s.store.Watch(ctx, store.DishesPath)
	if err != nil {
		return nil, nil, err
	}

	out := make(chan []models.Dish, 1)
	go func() {
		defer close(out)
		for raw := range sub.Events() {
			var records map[string]rawDish
			if err := json.Unmarshal(raw, &records); err != nil {
				s.logger.Warn("undecodable dishes snapshot", zap.Error(err))
				continue
			}
			var dishes []models.Dish
			if len(records) == 0 {
				dishes = PlaceholderDishes()
			} else {
				dishes = normalizeDishes(records)
				s.fillCache(ctx, cacheKeyDishes, dishes)
			}
			sendLatest(out, FilterByPincode(dishes, pincode))
		}
	}()
	return out, sub.Cancel, nil
}

func (s *Service) loadDishes(ctx context.Context) ([]models.Dish, error) {
	if cached, err := s.cache.Get(ctx, cacheKeyDishes); err == nil {
		var dishes []models.Dish
		if jsonErr := json.Unmarshal([]byte(cached), &dishes); jsonErr == nil && len(dishes) > 0 {
			return dishes, nil
		}
		// Undecodable entries are dropped and reloaded from the store.
		if delErr := s.cache.Delete(ctx, cacheKeyDishes); delErr != nil {
			s.logger.Warn("failed to drop bad cache entry", zap.String("key", cacheKeyDishes), zap.Error(delErr))
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("cache read failed", zap.String("key", cacheKeyDishes), zap.Error(err))
	}

	var records map[string]rawDish
	if err := s.store.Get(ctx, store.DishesPath, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errEmptyCatalog
	}

	dishes := normalizeDishes(records)
	s.fillCache(ctx, cacheKeyDishes, dishes)
	return dishes, nil
}

// loadList reads a catalog tree through the cache into dest, which must be
// a pointer to a map of raw records.
func (s *Service) loadList(ctx context.Context, key, path string, dest interface{}) error {
	if cached, err := s.cache.Get(ctx, key); err == nil {
		if jsonErr := json.Unmarshal([]byte(cached), dest); jsonErr == nil {
			return nil
		}
		if delErr := s.cache.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to drop bad cache entry", zap.String("key", key), zap.Error(delErr))
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	var raw json.RawMessage
	if err := s.store.Get(ctx, path, &raw); err != nil {
		return err
	}
	if store.IsNull(raw) {
		return errEmptyCatalog
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return err
	}
	s.fillCacheRaw(ctx, key, string(raw))
	return nil
}

func (s *Service) fillCache(ctx context.Context, key string, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.fillCacheRaw(ctx, key, string(b))
}

func (s *Service) fillCacheRaw(ctx context.Context, key, value string) {
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// sendLatest delivers v without blocking; a pending undelivered slice is
// replaced so consumers always see the newest menu.
func sendLatest(out chan []models.Dish, v []models.Dish) {
	for {
		select {
		case out <- v:
			return
		default:
			select {
			case <-out:
			default:
			}
		}
	}
}
