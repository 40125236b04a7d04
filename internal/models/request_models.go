package models

// RegisterRequest represents the request body for email/password sign-up.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the request body for email/password sign-in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest represents the request body for Google sign-in. The
// client obtains the Google ID token from its own OAuth flow and exchanges
// it here for a backend session.
type GoogleLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// UpdateProfileRequest represents the request body for profile updates.
// Pointers distinguish fields omitted from the request from fields being
// cleared.
type UpdateProfileRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Pincode *string `json:"pincode,omitempty"`
}

// AddWishlistRequest represents the request body for saving a dish.
type AddWishlistRequest struct {
	DishID string `json:"dishId" binding:"required"`
}

// PlaceOrderRequest represents the request body for placing an order.
type PlaceOrderRequest struct {
	Items   []OrderItem `json:"items" binding:"required,min=1,dive"`
	Address string      `json:"address" binding:"required"`
	Phone   string      `json:"phone,omitempty"`
	Note    string      `json:"note,omitempty"`
}
