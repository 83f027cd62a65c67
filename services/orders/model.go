package orders

import "time"

type OrderStatus string

const (
	// OrderStatusPaid means the processor confirmed the capture
	OrderStatusPaid OrderStatus = "paid"
	// OrderStatusActivated means fulfilment has been triggered for the order
	OrderStatusActivated OrderStatus = "activated"
)

// Order is the fulfilment-side record of a confirmed payment,
// keyed by the processor's order uid
type Order struct {
	UID           string
	ActivationUID string
	CreatedAt     time.Time
	LastModified  *time.Time
	Status        OrderStatus
	PayerEmail    string
	ProductHandle string
	CaptureUID    string
	Amount        string
	Currency      string
}
