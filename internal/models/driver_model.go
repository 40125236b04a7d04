package models

// Driver represents a delivery partner profile stored under
// delivery_partners/{uid}.
type Driver struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	PhotoURL string `json:"photoURL,omitempty"`
	Vehicle  string `json:"vehicle,omitempty"`
}
