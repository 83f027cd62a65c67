package checkoutevents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/MarcGrol/storefrontbackend/lib/myerrors"
	"github.com/MarcGrol/storefrontbackend/lib/myevents"
)

const (
	TopicName                = "checkout"
	checkoutStartedName      = TopicName + ".started"
	paymentCompletedName     = TopicName + ".paymentCompleted"
	paymentCaptureFailedName = TopicName + ".paymentCaptureFailed"
)

type CheckoutEventService interface {
	OnCheckoutStarted(c context.Context, topic string, event CheckoutStarted) error
	OnPaymentCompleted(c context.Context, topic string, event PaymentCompleted) error
	OnPaymentCaptureFailed(c context.Context, topic string, event PaymentCaptureFailed) error
}

func DispatchEvent(c context.Context, reader io.Reader, service CheckoutEventService) error {
	envelope, err := myevents.ParseEventEnvelope(reader)
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}

	switch envelope.EventTypeName {
	case checkoutStartedName:
		{
			event := CheckoutStarted{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnCheckoutStarted(c, envelope.Topic, event)
		}
	case paymentCompletedName:
		{
			event := PaymentCompleted{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnPaymentCompleted(c, envelope.Topic, event)
		}
	case paymentCaptureFailedName:
		{
			event := PaymentCaptureFailed{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnPaymentCaptureFailed(c, envelope.Topic, event)
		}
	default:
		return myerrors.NewNotImplementedError(fmt.Errorf("event %s not supported", envelope.EventTypeName))
	}
}

// CheckoutStarted is published when a commerce checkout-url has been handed to the shopper
type CheckoutStarted struct {
	SessionUID   string
	CheckoutURL  string
	ItemCount    int
	TotalInCents int64
}

func (e CheckoutStarted) GetEventTypeName() string {
	return checkoutStartedName
}

func (e CheckoutStarted) GetAggregateName() string {
	return e.SessionUID
}

// PaymentCompleted is published when the processor confirmed a capture
type PaymentCompleted struct {
	SessionUID string
	OrderUID   string
	CaptureUID string
	Amount     string
	Currency   string
	PayerEmail string
}

func (e PaymentCompleted) GetEventTypeName() string {
	return paymentCompletedName
}

func (e PaymentCompleted) GetAggregateName() string {
	return e.OrderUID
}

// PaymentCaptureFailed is published when the processor rejected a capture.
// Money may have left the payer's account: this is not the same as "payment failed".
type PaymentCaptureFailed struct {
	SessionUID string
	OrderUID   string
	Detail     string
}

func (e PaymentCaptureFailed) GetEventTypeName() string {
	return paymentCaptureFailedName
}

func (e PaymentCaptureFailed) GetAggregateName() string {
	return e.OrderUID
}
