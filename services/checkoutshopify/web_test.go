package checkoutshopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/storefrontbackend/lib/mypublisher"
	"github.com/MarcGrol/storefrontbackend/lib/mystore"
	"github.com/MarcGrol/storefrontbackend/services/cart"
	"github.com/MarcGrol/storefrontbackend/services/checkoutevents"
)

func TestCreateCartEndpoint(t *testing.T) {

	t.Run("Create cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, _, creator, _ := setup(t, ctrl)

		// given
		creator.EXPECT().CreateCart(gomock.Any(), []CartLine{{MerchandiseID: "variant-shirt", Quantity: 2}}).
			Return("https://shop.example.com/checkout/abc", nil)

		// when
		response := doRequest(router, http.MethodPost, "/create-cart", `{"items":[{"variantId":"variant-shirt","quantity":2}]}`, "")

		// then
		assert.Equal(t, 200, response.Code)
		got := createCartPageResponse{}
		assert.NoError(t, json.Unmarshal(response.Body.Bytes(), &got))
		assert.Equal(t, "https://shop.example.com/checkout/abc", got.CheckoutURL)
	})

	t.Run("Create cart with handle instead of variant-id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, _, creator, _ := setup(t, ctrl)

		// given
		creator.EXPECT().CreateCart(gomock.Any(), []CartLine{{MerchandiseID: "classic-shirt", Quantity: 1}}).
			Return("https://shop.example.com/checkout/abc", nil)

		// when
		response := doRequest(router, http.MethodPost, "/create-cart", `{"items":[{"handle":"classic-shirt"}]}`, "")

		// then
		assert.Equal(t, 200, response.Code)
	})

	t.Run("Create cart without items issues no storefront call", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup: the creator mock has no expectations, a call would fail the test
		router, _, _, _ := setup(t, ctrl)

		// when
		response := doRequest(router, http.MethodPost, "/create-cart", `{"items":[]}`, "")

		// then
		assert.Equal(t, 400, response.Code)
	})
}

func TestCheckoutEndpoint(t *testing.T) {

	t.Run("Checkout redirects to hosted checkout", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, cartStore, creator, publisher := setup(t, ctrl)

		// given
		err := cartStore.Put(context.TODO(), "session-1", cart.Cart{
			UID: "session-1",
			Items: []cart.CartItem{
				{VariantID: "variant-shirt", PriceInCents: 2500, Quantity: 2},
			},
		})
		assert.NoError(t, err)
		creator.EXPECT().CreateCart(gomock.Any(), []CartLine{{MerchandiseID: "variant-shirt", Quantity: 2}}).
			Return("https://shop.example.com/checkout/abc", nil)
		publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.CheckoutStarted{
			SessionUID:   "session-1",
			CheckoutURL:  "https://shop.example.com/checkout/abc",
			ItemCount:    2,
			TotalInCents: 5000,
		}).Return(nil)

		// when
		response := doRequest(router, http.MethodPost, "/checkout/session-1", "", "")

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "https://shop.example.com/checkout/abc", response.Header().Get("Location"))
	})

	t.Run("Checkout with empty cart issues no storefront call", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, _, _, _ := setup(t, ctrl)

		// when
		response := doRequest(router, http.MethodPost, "/checkout/session-unknown", "", "")

		// then
		assert.Equal(t, 400, response.Code)
		assert.Contains(t, response.Body.String(), "empty")
	})
}

func TestPrivateAccessTokenEndpoint(t *testing.T) {

	t.Run("Exchange token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, _, _, _ := setup(t, ctrl)

		// when
		response := doRequest(router, http.MethodGet, "/private_access_tokens?id=shop-1", "", "my-internal-token")

		// then
		assert.Equal(t, 200, response.Code)
		got := privateAccessTokenPageResponse{}
		assert.NoError(t, json.Unmarshal(response.Body.Bytes(), &got))
		assert.True(t, got.Ok)
		assert.Equal(t, "shop-1", got.ID)
		assert.Equal(t, "my-storefront-token", got.Token)
	})

	t.Run("Exchange token without id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, _, _, _ := setup(t, ctrl)

		// when
		response := doRequest(router, http.MethodGet, "/private_access_tokens", "", "my-internal-token")

		// then
		assert.Equal(t, 400, response.Code)
	})

	t.Run("Exchange token with wrong bearer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, _, _, _ := setup(t, ctrl)

		// when
		response := doRequest(router, http.MethodGet, "/private_access_tokens?id=shop-1", "", "wrong-token")

		// then
		assert.Equal(t, 401, response.Code)
	})

	t.Run("Exchange token without bearer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, _, _, _ := setup(t, ctrl)

		// when
		response := doRequest(router, http.MethodGet, "/private_access_tokens?id=shop-1", "", "")

		// then
		assert.Equal(t, 401, response.Code)
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (*mux.Router, mystore.Store[cart.Cart], *MockCartCreator, *mypublisher.MockPublisher) {
	t.Helper()

	c := context.TODO()
	router := mux.NewRouter()

	cartStore, cleanup, err := mystore.NewInMemoryStore[cart.Cart](c)
	assert.NoError(t, err)
	t.Cleanup(cleanup)

	creator := NewMockCartCreator(ctrl)
	publisher := mypublisher.NewMockPublisher(ctrl)

	webService := NewWebService(Config{
		StoreDomain:           "shop.example.com",
		StorefrontAccessToken: "my-storefront-token",
		InternalAccessToken:   "my-internal-token",
	}, cartStore, creator, publisher)
	err = webService.RegisterEndpoints(c, router)
	assert.NoError(t, err)

	return router, cartStore, creator, publisher
}

func doRequest(router *mux.Router, method string, url string, body string, bearerToken string) *httptest.ResponseRecorder {
	request, _ := http.NewRequest(method, url, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if bearerToken != "" {
		request.Header.Set("Authorization", "Bearer "+bearerToken)
	}
	request.Host = "localhost:8888"
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)

	return response
}
