package checkoutpaypal

import "context"

//go:generate mockgen -source=api.go -package checkoutpaypal -destination payer_mock.go Payer
type Payer interface {
	// CreateOrder opens a payable order at the processor and returns its uid
	CreateOrder(c context.Context, amount Amount) (string, error)

	// CaptureOrder finalizes payment for a previously created order.
	// A processor-side rejection is reported via CaptureResult.Ok, not
	// via the error return.
	CaptureOrder(c context.Context, orderUID string) (CaptureResult, error)
}
