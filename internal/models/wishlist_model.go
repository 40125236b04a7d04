package models

// WishlistItem represents a saved dish under users/{uid}/wishlist/{dishId}.
// Keying by dish ID makes add and remove idempotent.
type WishlistItem struct {
	DishID  string `json:"dishId"`
	AddedAt int64  `json:"addedAt"` // unix milliseconds
}
