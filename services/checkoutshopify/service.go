package checkoutshopify

import (
	"context"
	"fmt"

	"github.com/MarcGrol/storefrontbackend/lib/myerrors"
	"github.com/MarcGrol/storefrontbackend/lib/mylog"
	"github.com/MarcGrol/storefrontbackend/lib/mypublisher"
	"github.com/MarcGrol/storefrontbackend/lib/mystore"
	"github.com/MarcGrol/storefrontbackend/services/cart"
	"github.com/MarcGrol/storefrontbackend/services/checkoutevents"
)

type service struct {
	logger      mylog.Logger
	cartStore   mystore.Store[cart.Cart]
	cartCreator CartCreator
	publisher   mypublisher.Publisher
}

func newService(cartStore mystore.Store[cart.Cart], cartCreator CartCreator, publisher mypublisher.Publisher, logger mylog.Logger) *service {
	return &service{
		logger:      logger,
		cartStore:   cartStore,
		cartCreator: cartCreator,
		publisher:   publisher,
	}
}

// checkout hands the session's cart to the commerce platform and returns
// the hosted checkout-url. An empty cart is rejected before any network
// call is made.
func (s *service) checkout(c context.Context, sessionUID string) (string, error) {
	basket, exists, err := s.cartStore.Get(c, sessionUID)
	if err != nil {
		return "", myerrors.NewInternalError(fmt.Errorf("error fetching cart %s: %s", sessionUID, err))
	}
	if !exists || len(basket.Items) == 0 {
		return "", myerrors.NewInvalidInputError(fmt.Errorf("cart %s is empty", sessionUID))
	}

	lines := make([]CartLine, 0, len(basket.Items))
	for _, item := range basket.Items {
		lines = append(lines, CartLine{
			MerchandiseID: item.VariantID,
			Quantity:      item.Quantity,
		})
	}

	checkoutURL, err := s.cartCreator.CreateCart(c, lines)
	if err != nil {
		return "", err
	}

	err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutStarted{
		SessionUID:   sessionUID,
		CheckoutURL:  checkoutURL,
		ItemCount:    basket.ItemCount(),
		TotalInCents: basket.TotalInCents(),
	})
	if err != nil {
		return "", myerrors.NewInternalError(fmt.Errorf("error publishing checkout-started event: %s", err))
	}

	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Started checkout for cart %s with %d items", sessionUID, basket.ItemCount())

	return checkoutURL, nil
}

// createCart serves callers that supply their lines explicitly instead of
// referencing a stored cart
func (s *service) createCart(c context.Context, lines []CartLine) (string, error) {
	if len(lines) == 0 {
		return "", myerrors.NewInvalidInputError(fmt.Errorf("cart is empty"))
	}

	for i, line := range lines {
		if line.MerchandiseID == "" {
			return "", myerrors.NewInvalidInputError(fmt.Errorf("missing variant in line %d", i))
		}
		if line.Quantity < 1 {
			lines[i].Quantity = 1
		}
	}

	return s.cartCreator.CreateCart(c, lines)
}
