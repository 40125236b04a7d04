package models

// User represents a customer profile stored under users/{uid}.
type User struct {
	UID       string `json:"uid"` // Firebase Auth UID, also the record key
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Pincode   string `json:"pincode,omitempty"`
	PhotoURL  string `json:"photoURL,omitempty"`
	CreatedAt int64  `json:"createdAt,omitempty"` // unix milliseconds
	UpdatedAt int64  `json:"updatedAt,omitempty"` // unix milliseconds
}
