package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/prabhata303-del/Dd/internal/models"
	"github.com/prabhata303-del/Dd/internal/store"
)

// Custom errors for the wishlist service.
var (
	ErrMissingUID  = errors.New("wishlist uid is required")
	ErrMissingDish = errors.New("wishlist dish id is required")
)

// Service manages the per-user saved dishes under users/{uid}/wishlist.
// Records are keyed by dish ID, which makes Add and Remove idempotent.
type Service struct {
	store  store.RecordStore
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a wishlist service.
func NewService(rs store.RecordStore, logger *zap.Logger) *Service {
	return &Service{store: rs, logger: logger, now: time.Now}
}

// Add saves a dish to the user's wishlist.
func (s *Service) Add(ctx context.Context, uid, dishID string) error {
	if uid == "" {
		return ErrMissingUID
	}
	if dishID == "" {
		return ErrMissingDish
	}
	item := models.WishlistItem{DishID: dishID, AddedAt: s.now().UnixMilli()}
	if err := s.store.Set(ctx, store.WishlistItemPath(uid, dishID), item); err != nil {
		return fmt.Errorf("add wishlist item: %w", err)
	}
	return nil
}

// Remove deletes a dish from the user's wishlist.
func (s *Service) Remove(ctx context.Context, uid, dishID string) error {
	if uid == "" {
		return ErrMissingUID
	}
	if dishID == "" {
		return ErrMissingDish
	}
	if err := s.store.Delete(ctx, store.WishlistItemPath(uid, dishID)); err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}
	return nil
}

// List returns the user's saved dishes, newest first.
func (s *Service) List(ctx context.Context, uid string) ([]models.WishlistItem, error) {
	if uid == "" {
		return nil, ErrMissingUID
	}
	var records map[string]models.WishlistItem
	if err := s.store.Get(ctx, store.WishlistPath(uid), &records); err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	return sortedItems(records), nil
}

// Watch delivers the wishlist after every change. The caller must invoke
// the returned cancel func.
func (s *Service) Watch(ctx context.Context, uid string) (<-chan []models.WishlistItem, func(), error) {
	if uid == "" {
		return nil, nil, ErrMissingUID
	}
	sub, err := s.store.Watch(ctx, store.WishlistPath(uid))
	if err != nil {
		return nil, nil, err
	}

	out := make(chan []models.WishlistItem, 1)
	go func() {
		defer close(out)
		for raw := range sub.Events() {
			var records map[string]models.WishlistItem
			if !store.IsNull(raw) {
				if err := json.Unmarshal(raw, &records); err != nil {
					s.logger.Warn("undecodable wishlist snapshot",
						zap.String("uid", uid), zap.Error(err))
					continue
				}
			}
			items := sortedItems(records)
			select {
			case out <- items:
			default:
				select {
				case <-out:
				default:
				}
				out <- items
			}
		}
	}()
	return out, sub.Cancel, nil
}

func sortedItems(records map[string]models.WishlistItem) []models.WishlistItem {
	items := make([]models.WishlistItem, 0, len(records))
	for id, item := range records {
		if item.DishID == "" {
			item.DishID = id
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].AddedAt != items[j].AddedAt {
			return items[i].AddedAt > items[j].AddedAt
		}
		return items[i].DishID < items[j].DishID
	})
	return items
}
