package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/storefrontbackend/lib/myerrors"
	"github.com/MarcGrol/storefrontbackend/lib/mylog"
	"github.com/MarcGrol/storefrontbackend/lib/mystore"
	"github.com/MarcGrol/storefrontbackend/lib/mytime"
	"github.com/MarcGrol/storefrontbackend/services/checkoutevents"
)

var (
	shirt = CartItem{VariantID: "variant-shirt", Title: "Shirt", PriceInCents: 2500, Quantity: 2}
	mug   = CartItem{VariantID: "variant-mug", Title: "Mug", PriceInCents: 1000, Quantity: 1}
)

func TestAddItem(t *testing.T) {
	c := context.TODO()

	t.Run("Add item to new cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		svc, _ := setupService(t, ctrl)

		// when
		cart, err := svc.addItem(c, "session-1", shirt)

		// then
		assert.NoError(t, err)
		assert.Equal(t, []CartItem{shirt}, cart.Items)
		assert.Equal(t, int64(5000), cart.TotalInCents())
		assert.Equal(t, mytime.ExampleTime, cart.CreatedAt)
		assert.Equal(t, mytime.ExampleTime, *cart.LastModified)
	})

	t.Run("Add same variant twice merges quantities", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		svc, _ := setupService(t, ctrl)

		// given
		_, err := svc.addItem(c, "session-1", shirt)
		assert.NoError(t, err)

		// when
		again := shirt
		again.Quantity = 3
		cart, err := svc.addItem(c, "session-1", again)

		// then
		assert.NoError(t, err)
		assert.Len(t, cart.Items, 1)
		assert.Equal(t, 5, cart.Items[0].Quantity)
		assert.Equal(t, int64(12500), cart.TotalInCents())
	})

	t.Run("Add distinct variants keeps separate lines", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		svc, _ := setupService(t, ctrl)

		// given
		_, err := svc.addItem(c, "session-1", shirt)
		assert.NoError(t, err)

		// when
		cart, err := svc.addItem(c, "session-1", mug)

		// then
		assert.NoError(t, err)
		assert.Len(t, cart.Items, 2)
		assert.Equal(t, int64(6000), cart.TotalInCents())
		assert.Equal(t, 3, cart.ItemCount())
	})

	t.Run("Add item with zero quantity is clamped to one", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		svc, _ := setupService(t, ctrl)

		// when
		item := mug
		item.Quantity = 0
		cart, err := svc.addItem(c, "session-1", item)

		// then
		assert.NoError(t, err)
		assert.Equal(t, 1, cart.Items[0].Quantity)
	})

	t.Run("Add item without variant-id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		svc, _ := setupService(t, ctrl)

		// when
		_, err := svc.addItem(c, "session-1", CartItem{Title: "Nameless"})

		// then
		assert.Error(t, err)
		assert.Equal(t, 400, myerrors.GetHttpStatus(err))
	})
}

func TestRemoveItem(t *testing.T) {
	c := context.TODO()

	t.Run("Remove existing item", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		svc, _ := setupService(t, ctrl)

		// given
		_, err := svc.addItem(c, "session-1", shirt)
		assert.NoError(t, err)
		_, err = svc.addItem(c, "session-1", mug)
		assert.NoError(t, err)

		// when
		cart, err := svc.removeItem(c, "session-1", shirt.VariantID)

		// then
		assert.NoError(t, err)
		assert.Equal(t, []CartItem{mug}, cart.Items)
		assert.Equal(t, int64(1000), cart.TotalInCents())
	})

	t.Run("Remove absent item leaves cart unchanged", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		svc, _ := setupService(t, ctrl)

		// given
		_, err := svc.addItem(c, "session-1", shirt)
		assert.NoError(t, err)

		// when
		cart, err := svc.removeItem(c, "session-1", "variant-unknown")

		// then
		assert.NoError(t, err)
		assert.Equal(t, []CartItem{shirt}, cart.Items)
	})

	t.Run("Remove from unknown session yields empty cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		svc, _ := setupService(t, ctrl)

		// when
		cart, err := svc.removeItem(c, "session-unknown", shirt.VariantID)

		// then
		assert.NoError(t, err)
		assert.Empty(t, cart.Items)
	})
}

func TestClearCart(t *testing.T) {
	c := context.TODO()

	t.Run("Clear cart removes all items", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		svc, store := setupService(t, ctrl)

		// given
		_, err := svc.addItem(c, "session-1", shirt)
		assert.NoError(t, err)

		// when
		err = svc.clearCart(c, "session-1")

		// then
		assert.NoError(t, err)
		cart, exists, err := store.Get(c, "session-1")
		assert.NoError(t, err)
		assert.True(t, exists)
		assert.Empty(t, cart.Items)
		assert.Equal(t, int64(0), cart.TotalInCents())
	})

	t.Run("Clear unknown cart is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		svc, _ := setupService(t, ctrl)

		// when
		err := svc.clearCart(c, "session-unknown")

		// then
		assert.NoError(t, err)
	})
}

func TestOnPaymentCompleted(t *testing.T) {
	c := context.TODO()

	t.Run("Completed payment clears the session's cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		svc, store := setupService(t, ctrl)

		// given
		_, err := svc.addItem(c, "session-1", shirt)
		assert.NoError(t, err)

		// when
		err = svc.OnPaymentCompleted(c, checkoutevents.TopicName, checkoutevents.PaymentCompleted{
			SessionUID: "session-1",
			OrderUID:   "ORDER123",
		})

		// then
		assert.NoError(t, err)
		cart, _, err := store.Get(c, "session-1")
		assert.NoError(t, err)
		assert.Empty(t, cart.Items)
	})

	t.Run("Completed payment without session is ignored", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		svc, _ := setupService(t, ctrl)

		// when
		err := svc.OnPaymentCompleted(c, checkoutevents.TopicName, checkoutevents.PaymentCompleted{
			OrderUID: "ORDER123",
		})

		// then
		assert.NoError(t, err)
	})

	t.Run("Failed capture keeps the cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		svc, store := setupService(t, ctrl)

		// given
		_, err := svc.addItem(c, "session-1", shirt)
		assert.NoError(t, err)

		// when
		err = svc.OnPaymentCaptureFailed(c, checkoutevents.TopicName, checkoutevents.PaymentCaptureFailed{
			SessionUID: "session-1",
			OrderUID:   "ORDER123",
			Detail:     `{"name":"UNPROCESSABLE_ENTITY"}`,
		})

		// then
		assert.NoError(t, err)
		cart, _, err := store.Get(c, "session-1")
		assert.NoError(t, err)
		assert.Equal(t, []CartItem{shirt}, cart.Items)
	})
}

func setupService(t *testing.T, ctrl *gomock.Controller) (*service, mystore.Store[Cart]) {
	t.Helper()

	store, cleanup, err := mystore.NewInMemoryStore[Cart](context.TODO())
	assert.NoError(t, err)
	t.Cleanup(cleanup)

	nower := mytime.NewMockNower(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()

	return newService(store, nower, mylog.New("cart-test")), store
}
