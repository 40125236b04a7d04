package models

// AppSettings represents the store-wide configuration record at settings.
type AppSettings struct {
	StoreOpen      bool    `json:"storeOpen"`
	DeliveryCharge float64 `json:"deliveryCharge"`
	MinOrderValue  float64 `json:"minOrderValue"`
	SupportPhone   string  `json:"supportPhone,omitempty"`
	Notice         string  `json:"notice,omitempty"`
}
