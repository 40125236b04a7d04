package models

// Price holds the structured price of a dish. Legacy records store a bare
// number instead; catalog normalization expands those into this shape.
type Price struct {
	Final      float64 `json:"final"`
	Restaurant float64 `json:"restaurant"`
	AdminFee   float64 `json:"adminFee"`
}

// Dish represents a menu item after catalog normalization.
type Dish struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	Image         string  `json:"image"`
	Category      string  `json:"category"`
	Pincode       string  `json:"pincode"` // "ALL" means available everywhere
	Price         Price   `json:"price"`
	Discount      float64 `json:"discount"` // percentage, 0-100
	CustomerPrice float64 `json:"customerPrice"`
	Rating        float64 `json:"rating"`
	Available     bool    `json:"available"`
}
