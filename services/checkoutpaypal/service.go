package checkoutpaypal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MarcGrol/storefrontbackend/lib/myerrors"
	"github.com/MarcGrol/storefrontbackend/lib/mylog"
	"github.com/MarcGrol/storefrontbackend/lib/mypublisher"
	"github.com/MarcGrol/storefrontbackend/services/checkoutevents"
)

type service struct {
	logger    mylog.Logger
	payer     Payer
	publisher mypublisher.Publisher

	// requireCompleted makes a capture final only when the processor
	// reports status COMPLETED; raw HTTP success alone is not trusted.
	requireCompleted bool
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(payer Payer, publisher mypublisher.Publisher, logger mylog.Logger) *service {
	return &service{
		logger:           logger,
		payer:            payer,
		publisher:        publisher,
		requireCompleted: true,
	}
}

// createOrder validates and normalizes the requested amount and opens a
// payable order at the processor. A failure is surfaced to the caller;
// re-invoking creates a new, independent order.
func (s *service) createOrder(c context.Context, rawAmount string, rawCurrency string) (PaymentOrder, error) {
	value, err := normalizeAmount(rawAmount)
	if err != nil {
		return PaymentOrder{}, err
	}

	currency, err := normalizeCurrency(rawCurrency)
	if err != nil {
		return PaymentOrder{}, err
	}

	orderUID, err := s.payer.CreateOrder(c, Amount{CurrencyCode: currency, Value: value})
	if err != nil {
		return PaymentOrder{}, err
	}

	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Created order %s over %s %s", orderUID, currency, value)

	return PaymentOrder{
		UID:      orderUID,
		Amount:   value,
		Currency: currency,
	}, nil
}

// captureOrder finalizes payment for an order the shopper has approved.
// A processor-side rejection yields Ok=false, never an error: the caller
// must be able to distinguish "payment declined" from a programming or
// network fault.
func (s *service) captureOrder(c context.Context, orderUID string, sessionUID string) (CaptureResult, error) {
	if orderUID == "" {
		return CaptureResult{}, myerrors.NewInvalidInputError(fmt.Errorf("missing orderID"))
	}

	result, err := s.payer.CaptureOrder(c, orderUID)
	if err != nil {
		return CaptureResult{}, err
	}

	if result.Ok && s.requireCompleted && !strings.EqualFold(result.Status, "COMPLETED") {
		s.logger.Log(c, orderUID, mylog.SeverityWarn, "Capture of order %s returned status %s, not treating as final", orderUID, result.Status)

		result = CaptureResult{
			Ok:     false,
			Error:  "capture failed",
			Detail: json.RawMessage(fmt.Sprintf(`{"status":%q}`, result.Status)),
		}
	}

	if result.Ok {
		s.logger.Log(c, orderUID, mylog.SeverityInfo, "Captured order %s: capture %s over %s %s", orderUID, result.CaptureUID, result.Currency, result.Amount)

		err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.PaymentCompleted{
			SessionUID: sessionUID,
			OrderUID:   orderUID,
			CaptureUID: result.CaptureUID,
			Amount:     result.Amount,
			Currency:   result.Currency,
			PayerEmail: result.PayerEmail,
		})
		if err != nil {
			return CaptureResult{}, myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
		}

		return result, nil
	}

	err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.PaymentCaptureFailed{
		SessionUID: sessionUID,
		OrderUID:   orderUID,
		Detail:     string(result.Detail),
	})
	if err != nil {
		return CaptureResult{}, myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
	}

	return result, nil
}
