package checkoutpaypal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/storefrontbackend/lib/myerrors"
)

func TestCreateOrder(t *testing.T) {
	c := context.TODO()

	t.Run("Create order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		processor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/checkout/orders", r.URL.Path)
			assert.Equal(t, "Bearer my-token", r.Header.Get("Authorization"))

			body, _ := io.ReadAll(r.Body)
			req := createOrderRequest{}
			assert.NoError(t, json.Unmarshal(body, &req))
			assert.Equal(t, "CAPTURE", req.Intent)
			assert.Equal(t, "PAY_NOW", req.ApplicationContext.UserAction)
			assert.Equal(t, []purchaseUnit{{Amount: Amount{CurrencyCode: "USD", Value: "20.00"}}}, req.PurchaseUnits)

			fmt.Fprint(w, `{"id":"ORDER123","status":"CREATED"}`)
		}))
		defer processor.Close()

		payer := newTestPayer(ctrl, processor.URL)

		// when
		orderUID, err := payer.CreateOrder(c, Amount{CurrencyCode: "USD", Value: "20.00"})

		// then
		assert.NoError(t, err)
		assert.Equal(t, "ORDER123", orderUID)
	})

	t.Run("Create order rejected upstream", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		processor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"name":"UNPROCESSABLE_ENTITY"}`)
		}))
		defer processor.Close()

		payer := newTestPayer(ctrl, processor.URL)

		// when
		_, err := payer.CreateOrder(c, Amount{CurrencyCode: "USD", Value: "20.00"})

		// then
		assert.Error(t, err)
		assert.Equal(t, 502, myerrors.GetHttpStatus(err))
		assert.Contains(t, err.Error(), "UNPROCESSABLE_ENTITY")
	})

	t.Run("Create order response without id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		processor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"status":"CREATED"}`)
		}))
		defer processor.Close()

		payer := newTestPayer(ctrl, processor.URL)

		// when
		_, err := payer.CreateOrder(c, Amount{CurrencyCode: "USD", Value: "20.00"})

		// then
		assert.Error(t, err)
		assert.Equal(t, 502, myerrors.GetHttpStatus(err))
	})
}

func TestCaptureOrder(t *testing.T) {
	c := context.TODO()

	t.Run("Capture completed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		processor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/checkout/orders/ORDER123/capture", r.URL.Path)
			fmt.Fprint(w, `{
				"id":"ORDER123",
				"status":"COMPLETED",
				"purchase_units":[{"payments":{"captures":[{"id":"CAP456","status":"COMPLETED","amount":{"currency_code":"USD","value":"20.00"}}]}}],
				"payer":{"email_address":"shopper@example.com"}
			}`)
		}))
		defer processor.Close()

		payer := newTestPayer(ctrl, processor.URL)

		// when
		result, err := payer.CaptureOrder(c, "ORDER123")

		// then
		assert.NoError(t, err)
		assert.True(t, result.Ok)
		assert.Equal(t, "CAP456", result.CaptureUID)
		assert.Equal(t, "COMPLETED", result.Status)
		assert.Equal(t, "20.00", result.Amount)
		assert.Equal(t, "USD", result.Currency)
		assert.Equal(t, "shopper@example.com", result.PayerEmail)
	})

	t.Run("Capture rejected upstream is not an error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		processor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"name":"ORDER_ALREADY_CAPTURED"}`)
		}))
		defer processor.Close()

		payer := newTestPayer(ctrl, processor.URL)

		// when
		result, err := payer.CaptureOrder(c, "ORDER123")

		// then
		assert.NoError(t, err)
		assert.False(t, result.Ok)
		assert.Equal(t, "capture failed", result.Error)
		assert.Contains(t, string(result.Detail), "ORDER_ALREADY_CAPTURED")
	})

	t.Run("Token failure propagates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		tokenProvider := NewMockTokenProvider(ctrl)
		tokenProvider.EXPECT().GetToken(gomock.Any()).Return("", myerrors.NewUpstreamErrorf("token fetch failed"))

		payer := NewPayer("http://localhost:1", tokenProvider)

		// when
		_, err := payer.CaptureOrder(c, "ORDER123")

		// then
		assert.Error(t, err)
		assert.Equal(t, 502, myerrors.GetHttpStatus(err))
	})
}

func newTestPayer(ctrl *gomock.Controller, baseURL string) *httpPayer {
	tokenProvider := NewMockTokenProvider(ctrl)
	tokenProvider.EXPECT().GetToken(gomock.Any()).Return("my-token", nil).AnyTimes()

	return NewPayer(baseURL, tokenProvider)
}
