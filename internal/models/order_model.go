package models

// OrderItem represents a single line of an order.
type OrderItem struct {
	DishID   string  `json:"dishId"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"` // unit customer price at order time
}

// Order represents an order record as stored under orders/{id}.
// Status carries the backend code (e.g. "pending", "out_for_delivery");
// the customer-facing vocabulary is derived during aggregation.
type Order struct {
	ID        string      `json:"id"`
	UID       string      `json:"uid"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Address   string      `json:"address"`
	Phone     string      `json:"phone,omitempty"`
	Note      string      `json:"note,omitempty"`
	Status    string      `json:"status"`
	DriverID  string      `json:"driverId,omitempty"`
	Timestamp int64       `json:"timestamp"` // unix milliseconds
}

// CustomerOrder is the denormalized order view delivered to the client:
// the raw order plus the mapped status and, while on the way, the driver.
type CustomerOrder struct {
	Order
	CustomerStatus string  `json:"customerStatus"`
	Driver         *Driver `json:"driver,omitempty"`
}
