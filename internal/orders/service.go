package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/prabhata303-del/Dd/internal/models"
	"github.com/prabhata303-del/Dd/internal/store"
)

// Custom errors for the orders service.
var (
	ErrMissingUID     = errors.New("order uid is required")
	ErrEmptyOrder     = errors.New("order has no items")
	ErrInvalidItem    = errors.New("invalid order item")
	ErrOrderNotFound  = errors.New("order not found")
	ErrForbidden      = errors.New("order belongs to another user")
	ErrNotCancellable = errors.New("order can no longer be cancelled")
)

// Service places orders and serves the customer's order feed built from
// the raw order records.
type Service struct {
	store  store.RecordStore
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates an orders service.
func NewService(rs store.RecordStore, logger *zap.Logger) *Service {
	return &Service{store: rs, logger: logger, now: time.Now}
}

// Place validates and stores a new order. The push-generated key becomes
// the order ID and is written back onto the record.
func (s *Service) Place(ctx context.Context, uid string, req models.PlaceOrderRequest) (*models.Order, error) {
	if uid == "" {
		return nil, ErrMissingUID
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	var total float64
	for i, item := range req.Items {
		if item.DishID == "" {
			return nil, fmt.Errorf("%w %d: dish id is required", ErrInvalidItem, i)
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w %d: quantity must be positive", ErrInvalidItem, i)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("%w %d: price must not be negative", ErrInvalidItem, i)
		}
		total += item.Price * float64(item.Quantity)
	}

	order := models.Order{
		UID:       uid,
		Items:     req.Items,
		Total:     math.Round(total*100) / 100,
		Address:   req.Address,
		Phone:     req.Phone,
		Note:      req.Note,
		Status:    codePending,
		Timestamp: s.now().UnixMilli(),
	}

	key, err := s.store.Push(ctx, store.OrdersPath, order)
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	order.ID = key

	if err := s.store.Update(ctx, store.OrderPath(key), map[string]interface{}{"id": key}); err != nil {
		// The key is recoverable from the record path; the order stands.
		s.logger.Warn("failed to write back order id", zap.String("orderId", key), zap.Error(err))
	}

	s.logger.Info("order placed",
		zap.String("orderId", key),
		zap.String("uid", uid),
		zap.Float64("total", order.Total))
	return &order, nil
}

// Cancel marks one of the user's own orders cancelled. Only orders the
// restaurant has not started preparing may be cancelled.
func (s *Service) Cancel(ctx context.Context, uid, orderID string) error {
	if uid == "" {
		return ErrMissingUID
	}

	var raw json.RawMessage
	if err := s.store.Get(ctx, store.OrderPath(orderID), &raw); err != nil {
		return fmt.Errorf("cancel order %s: %w", orderID, err)
	}
	if store.IsNull(raw) {
		return ErrOrderNotFound
	}

	var order models.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return fmt.Errorf("cancel order %s: decode: %w", orderID, err)
	}
	if order.UID != uid {
		return ErrForbidden
	}
	if order.Status != codePending && order.Status != codeAccepted {
		return ErrNotCancellable
	}

	if err := s.store.Update(ctx, store.OrderPath(orderID), map[string]interface{}{
		"status": codeCancelled,
	}); err != nil {
		return fmt.Errorf("cancel order %s: %w", orderID, err)
	}
	s.logger.Info("order cancelled", zap.String("orderId", orderID), zap.String("uid", uid))
	return nil
}

// List returns the user's orders once, newest first.
func (s *Service) List(ctx context.Context, uid string) ([]models.CustomerOrder, error) {
	if uid == "" {
		return nil, ErrMissingUID
	}
	var records map[string]models.Order
	if err := s.store.Get(ctx, store.OrdersPath, &records); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return s.aggregate(ctx, uid, records), nil
}

// Track delivers the user's aggregated order feed after every change to
// the orders tree. The caller must invoke the returned cancel func.
func (s *Service) Track(ctx context.Context, uid string) (<-chan []models.CustomerOrder, func(), error) {
	if uid == "" {
		return nil, nil, ErrMissingUID
	}
	sub, err := s.store.Watch(ctx, store.OrdersPath)
	if err != nil {
		return nil, nil, err
	}

	out := make(chan []models.CustomerOrder, 1)
	go func() {
		defer close(out)
		for raw := range sub.Events() {
			var records map[string]models.Order
			if !store.IsNull(raw) {
				if err := json.Unmarshal(raw, &records); err != nil {
					s.logger.Warn("undecodable orders snapshot", zap.Error(err))
					continue
				}
			}
			feed := s.aggregate(ctx, uid, records)
			select {
			case out <- feed:
			default:
				select {
				case <-out:
				default:
				}
				out <- feed
			}
		}
	}()
	return out, sub.Cancel, nil
}
