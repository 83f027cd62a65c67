package cart

import (
	"context"
	"fmt"

	"github.com/MarcGrol/storefrontbackend/lib/myerrors"
	"github.com/MarcGrol/storefrontbackend/lib/mylog"
	"github.com/MarcGrol/storefrontbackend/lib/mystore"
	"github.com/MarcGrol/storefrontbackend/lib/mytime"
	"github.com/MarcGrol/storefrontbackend/services/checkoutevents"
)

type service struct {
	cartStore mystore.Store[Cart]
	nower     mytime.Nower
	logger    mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(cartStore mystore.Store[Cart], nower mytime.Nower, logger mylog.Logger) *service {
	return &service{
		cartStore: cartStore,
		nower:     nower,
		logger:    logger,
	}
}

// addItem merges by variant: adding an existing variant increments its
// quantity instead of appending a duplicate row.
func (s *service) addItem(c context.Context, sessionUID string, item CartItem) (Cart, error) {
	if item.VariantID == "" {
		return Cart{}, myerrors.NewInvalidInputError(fmt.Errorf("missing variantId"))
	}
	if item.PriceInCents < 0 {
		return Cart{}, myerrors.NewInvalidInputErrorf("negative price for variant %s", item.VariantID)
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	var result Cart
	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		now := s.nower.Now()

		cart, exists, err := s.cartStore.Get(c, sessionUID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching cart %s: %s", sessionUID, err))
		}
		if !exists {
			cart = Cart{
				UID:       sessionUID,
				CreatedAt: now,
				Items:     []CartItem{},
			}
		}

		merged := false
		for i, existing := range cart.Items {
			if existing.VariantID == item.VariantID {
				cart.Items[i].Quantity += item.Quantity
				merged = true
				break
			}
		}
		if !merged {
			cart.Items = append(cart.Items, item)
		}

		cart.LastModified = &now

		err = s.cartStore.Put(c, sessionUID, cart)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing cart %s: %s", sessionUID, err))
		}

		result = cart

		return nil
	})
	if err != nil {
		return Cart{}, err
	}

	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Added %d x %s to cart %s", item.Quantity, item.VariantID, sessionUID)

	return result, nil
}

// removeItem deletes the matching entry; removing an absent variant leaves
// the cart unchanged.
func (s *service) removeItem(c context.Context, sessionUID string, variantID string) (Cart, error) {
	var result Cart
	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		cart, exists, err := s.cartStore.Get(c, sessionUID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching cart %s: %s", sessionUID, err))
		}
		if !exists {
			result = Cart{UID: sessionUID, Items: []CartItem{}}
			return nil
		}

		kept := make([]CartItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			if item.VariantID != variantID {
				kept = append(kept, item)
			}
		}

		if len(kept) != len(cart.Items) {
			now := s.nower.Now()
			cart.Items = kept
			cart.LastModified = &now

			err = s.cartStore.Put(c, sessionUID, cart)
			if err != nil {
				return myerrors.NewInternalError(fmt.Errorf("error storing cart %s: %s", sessionUID, err))
			}
		}

		result = cart

		return nil
	})
	if err != nil {
		return Cart{}, err
	}

	return result, nil
}

func (s *service) clearCart(c context.Context, sessionUID string) error {
	return s.cartStore.RunInTransaction(c, func(c context.Context) error {
		cart, exists, err := s.cartStore.Get(c, sessionUID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching cart %s: %s", sessionUID, err))
		}
		if !exists {
			return nil
		}

		now := s.nower.Now()
		cart.Items = []CartItem{}
		cart.LastModified = &now

		err = s.cartStore.Put(c, sessionUID, cart)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing cart %s: %s", sessionUID, err))
		}

		s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Cleared cart %s", sessionUID)

		return nil
	})
}

// setShowCart toggles the sidebar visibility flag: observable state, not
// part of the commerce invariant.
func (s *service) setShowCart(c context.Context, sessionUID string, visible bool) error {
	return s.cartStore.RunInTransaction(c, func(c context.Context) error {
		now := s.nower.Now()

		cart, exists, err := s.cartStore.Get(c, sessionUID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching cart %s: %s", sessionUID, err))
		}
		if !exists {
			cart = Cart{
				UID:       sessionUID,
				CreatedAt: now,
				Items:     []CartItem{},
			}
		}

		cart.ShowCart = visible
		cart.LastModified = &now

		return s.cartStore.Put(c, sessionUID, cart)
	})
}

func (s *service) getCart(c context.Context, sessionUID string) (Cart, error) {
	cart, exists, err := s.cartStore.Get(c, sessionUID)
	if err != nil {
		return Cart{}, myerrors.NewInternalError(fmt.Errorf("error fetching cart %s: %s", sessionUID, err))
	}
	if !exists {
		return Cart{UID: sessionUID, Items: []CartItem{}}, nil
	}

	return cart, nil
}

// OnPaymentCompleted destroys the session's cart once payment is confirmed
func (s *service) OnPaymentCompleted(c context.Context, topic string, event checkoutevents.PaymentCompleted) error {
	if event.SessionUID == "" {
		// the payment widget path does not always know the session
		return nil
	}

	s.logger.Log(c, event.SessionUID, mylog.SeverityInfo, "Payment of order %s completed: clearing cart %s", event.OrderUID, event.SessionUID)

	return s.clearCart(c, event.SessionUID)
}

func (s *service) OnCheckoutStarted(c context.Context, topic string, event checkoutevents.CheckoutStarted) error {
	if event.SessionUID == "" {
		return nil
	}

	// hide the sidebar while the shopper is at the external checkout
	return s.setShowCart(c, event.SessionUID, false)
}

func (s *service) OnPaymentCaptureFailed(c context.Context, topic string, event checkoutevents.PaymentCaptureFailed) error {
	// keep the cart: payment succeeded but capture failed is resolved manually
	s.logger.Log(c, event.SessionUID, mylog.SeverityWarn, "Capture of order %s failed: %s", event.OrderUID, event.Detail)

	return nil
}
