package orders

import (
	"context"
	"fmt"

	"github.com/MarcGrol/storefrontbackend/lib/myerrors"
	"github.com/MarcGrol/storefrontbackend/lib/mylog"
	"github.com/MarcGrol/storefrontbackend/lib/mystore"
	"github.com/MarcGrol/storefrontbackend/lib/mytime"
	"github.com/MarcGrol/storefrontbackend/lib/myuuid"
	"github.com/MarcGrol/storefrontbackend/services/checkoutevents"
)

type service struct {
	orderStore mystore.Store[Order]
	nower      mytime.Nower
	uuider     myuuid.UUIDer
	logger     mylog.Logger
}

func newService(orderStore mystore.Store[Order], nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger) *service {
	return &service{
		orderStore: orderStore,
		nower:      nower,
		uuider:     uuider,
		logger:     logger,
	}
}

// activateOrder triggers fulfilment for a captured order. Activating the
// same order again only refreshes the contact details, it does not create
// a second activation.
func (s *service) activateOrder(c context.Context, orderUID string, payerEmail string, productHandle string) (Order, error) {
	if orderUID == "" {
		return Order{}, myerrors.NewInvalidInputError(fmt.Errorf("missing orderID"))
	}

	var result Order
	err := s.orderStore.RunInTransaction(c, func(c context.Context) error {
		now := s.nower.Now()

		order, exists, err := s.orderStore.Get(c, orderUID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching order %s: %s", orderUID, err))
		}
		if !exists {
			order = Order{
				UID:       orderUID,
				CreatedAt: now,
			}
		}

		if order.ActivationUID == "" {
			order.ActivationUID = s.uuider.Create()
		}
		order.Status = OrderStatusActivated
		if payerEmail != "" {
			order.PayerEmail = payerEmail
		}
		if productHandle != "" {
			order.ProductHandle = productHandle
		}
		order.LastModified = &now

		err = s.orderStore.Put(c, orderUID, order)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing order %s: %s", orderUID, err))
		}

		result = order

		return nil
	})
	if err != nil {
		return Order{}, err
	}

	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Activated order %s (activation %s)", orderUID, result.ActivationUID)

	return result, nil
}

func (s *service) getOrder(c context.Context, orderUID string) (Order, error) {
	order, exists, err := s.orderStore.Get(c, orderUID)
	if err != nil {
		return Order{}, myerrors.NewInternalError(fmt.Errorf("error fetching order %s: %s", orderUID, err))
	}
	if !exists {
		return Order{}, myerrors.NewNotFoundError(fmt.Errorf("order %s not found", orderUID))
	}

	return order, nil
}

func (s *service) listOrders(c context.Context) ([]Order, error) {
	orders, err := s.orderStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error listing orders: %s", err))
	}

	return orders, nil
}

// OnPaymentCompleted records the confirmed capture so fulfilment can pick it up
func (s *service) OnPaymentCompleted(c context.Context, topic string, event checkoutevents.PaymentCompleted) error {
	return s.orderStore.RunInTransaction(c, func(c context.Context) error {
		now := s.nower.Now()

		order, exists, err := s.orderStore.Get(c, event.OrderUID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching order %s: %s", event.OrderUID, err))
		}
		if !exists {
			order = Order{
				UID:       event.OrderUID,
				CreatedAt: now,
				Status:    OrderStatusPaid,
			}
		}

		order.CaptureUID = event.CaptureUID
		order.Amount = event.Amount
		order.Currency = event.Currency
		if event.PayerEmail != "" {
			order.PayerEmail = event.PayerEmail
		}
		order.LastModified = &now

		return s.orderStore.Put(c, event.OrderUID, order)
	})
}

func (s *service) OnCheckoutStarted(c context.Context, topic string, event checkoutevents.CheckoutStarted) error {
	// a started checkout is not an order yet
	return nil
}

func (s *service) OnPaymentCaptureFailed(c context.Context, topic string, event checkoutevents.PaymentCaptureFailed) error {
	s.logger.Log(c, event.OrderUID, mylog.SeverityWarn, "No order recorded for %s: capture failed: %s", event.OrderUID, event.Detail)

	return nil
}
