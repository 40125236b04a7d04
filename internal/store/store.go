package store

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
)

// Well-known trees of the database.
const (
	DishesPath     = "dishes"
	CategoriesPath = "categories"
	BannersPath    = "banners"
	OrdersPath     = "orders"
	SettingsPath   = "settings"
)

// UserPath returns the profile path for a user.
func UserPath(uid string) string { return "users/" + uid }

// DriverPath returns the delivery partner profile path.
func DriverPath(uid string) string { return "delivery_partners/" + uid }

// WishlistPath returns the wishlist tree for a user.
func WishlistPath(uid string) string { return UserPath(uid) + "/wishlist" }

// WishlistItemPath returns the record path for one saved dish.
func WishlistItemPath(uid, dishID string) string {
	return WishlistPath(uid) + "/" + dishID
}

// OrderPath returns the record path for one order.
func OrderPath(id string) string { return OrdersPath + "/" + id }

// RecordStore is the keyed record store the domain services are built on.
// Paths are slash-delimited with no leading slash. Get decodes the JSON
// value at path into dest; an absent record decodes as JSON null and leaves
// dest unchanged. Write operations report failures to the caller.
type RecordStore interface {
	Get(ctx context.Context, path string, dest interface{}) error
	Set(ctx context.Context, path string, value interface{}) error
	Update(ctx context.Context, path string, fields map[string]interface{}) error
	Delete(ctx context.Context, path string) error

	// Push stores value under a new generated key below path and returns
	// the key.
	Push(ctx context.Context, path string, value interface{}) (string, error)

	// Watch delivers the full JSON value at path after every change,
	// starting with the current snapshot. The caller owns the returned
	// subscription and must cancel it.
	Watch(ctx context.Context, path string) (*Subscription, error)
}

// IsNull reports whether a raw JSON value represents an absent record.
func IsNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

// A Subscription is the unsubscribe handle returned by Watch. Events carry
// the JSON value at the watched path after each change. Cancel stops
// delivery, releases the underlying stream and closes Events; it is safe to
// call more than once.
type Subscription struct {
	events chan json.RawMessage
	cancel func()
	once   sync.Once
}

// subscriptionBuffer bounds how many undelivered snapshots a slow consumer
// may accumulate before older ones are dropped in favor of newer state.
const subscriptionBuffer = 16

func newSubscription(cancel func()) *Subscription {
	return &Subscription{
		events: make(chan json.RawMessage, subscriptionBuffer),
		cancel: cancel,
	}
}

// Events returns the snapshot channel. It is closed after Cancel.
func (s *Subscription) Events() <-chan json.RawMessage { return s.events }

// Cancel stops the subscription. Idempotent.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// send delivers a snapshot without blocking the producer. When the buffer
// is full the oldest pending snapshot is dropped; consumers always converge
// on the latest state.
func (s *Subscription) send(v json.RawMessage) {
	for {
		select {
		case s.events <- v:
			return
		default:
			select {
			case <-s.events:
			default:
			}
		}
	}
}
