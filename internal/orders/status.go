package orders

// Customer-facing status vocabulary.
const (
	StatusOrderPlaced = "Order Placed"
	StatusPreparing   = "Preparing"
	StatusOnWay       = "On Way"
	StatusDelivered   = "Delivered"
	StatusCancelled   = "Cancelled"

	// StatusProcessing is the fallback for backend codes with no mapping.
	StatusProcessing = "Processing"
)

// Backend status codes as written by the restaurant and driver apps.
const (
	codePending        = "pending"
	codeAccepted       = "accepted"
	codePreparing      = "preparing"
	codeOutForDelivery = "out_for_delivery"
	codeCompleted      = "completed"
	codeCancelled      = "cancelled"
	codeRejected       = "rejected"
)

var customerStatus = map[string]string{
	codePending:        StatusOrderPlaced,
	codeAccepted:       StatusPreparing,
	codePreparing:      StatusPreparing,
	codeOutForDelivery: StatusOnWay,
	codeCompleted:      StatusDelivered,
	codeCancelled:      StatusCancelled,
	codeRejected:       StatusCancelled,
}

// CustomerStatus maps a backend status code onto the customer vocabulary.
// Unknown codes read as StatusProcessing.
func CustomerStatus(code string) string {
	if mapped, ok := customerStatus[code]; ok {
		return mapped
	}
	return StatusProcessing
}
