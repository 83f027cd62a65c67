package checkoutshopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MarcGrol/storefrontbackend/lib/myerrors"
	"github.com/MarcGrol/storefrontbackend/lib/mylog"
)

const httpClientTimeout = 5 * time.Second

const cartCreateMutation = `mutation cartCreate($input: CartInput!) {
  cartCreate(input: $input) {
    cart {
      id
      checkoutUrl
    }
    userErrors {
      field
      message
    }
  }
}`

//go:generate mockgen -source=client.go -package checkoutshopify -destination cart_creator_mock.go CartCreator
type CartCreator interface {
	CreateCart(c context.Context, lines []CartLine) (string, error)
}

// httpCartCreator submits the cartCreate mutation to the storefront API
type httpCartCreator struct {
	logger     mylog.Logger
	url        string
	token      string
	httpClient *http.Client
}

func NewCartCreator(url string, token string) *httpCartCreator {
	return &httpCartCreator{
		logger: mylog.New("shopifyclient"),
		url:    url,
		token:  token,
		httpClient: &http.Client{
			Timeout: httpClientTimeout,
		},
	}
}

// CreateCart returns the hosted checkout-url for the given lines
func (cc *httpCartCreator) CreateCart(c context.Context, lines []CartLine) (string, error) {
	payload := graphqlRequest{
		Query: cartCreateMutation,
		Variables: map[string]any{
			"input": map[string]any{
				"lines": lines,
			},
		},
	}
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", myerrors.NewInternalError(fmt.Errorf("error marshalling cart-create request: %s", err))
	}

	httpReq, err := http.NewRequestWithContext(c, http.MethodPost, cc.url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", myerrors.NewInternalError(fmt.Errorf("error creating cart-create request: %s", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Shopify-Storefront-Access-Token", cc.token)

	httpResp, err := cc.httpClient.Do(httpReq)
	if err != nil {
		return "", myerrors.NewUpstreamError(fmt.Errorf("error calling storefront api: %s", err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", myerrors.NewUpstreamError(fmt.Errorf("error reading storefront response: %s", err))
	}

	cc.logger.Log(c, "", mylog.SeverityInfo, "Storefront cartCreate -> %d", httpResp.StatusCode)

	if httpResp.StatusCode != http.StatusOK {
		return "", myerrors.NewUpstreamErrorf("cart-create failed: %d: %s", httpResp.StatusCode, respBody)
	}

	resp := cartCreateResponse{}
	err = json.Unmarshal(respBody, &resp)
	if err != nil {
		return "", myerrors.NewUpstreamError(fmt.Errorf("error parsing cart-create response: %s", err))
	}

	if len(resp.Errors) > 0 {
		return "", myerrors.NewUpstreamErrorf("cart-create returned errors: %s", resp.Errors)
	}
	if len(resp.Data.CartCreate.UserErrors) > 0 {
		return "", myerrors.NewUpstreamErrorf("cart-create rejected: %s", resp.Data.CartCreate.UserErrors[0].Message)
	}

	checkoutURL := resp.Data.CartCreate.Cart.CheckoutURL
	if checkoutURL == "" {
		return "", myerrors.NewUpstreamErrorf("checkout-url missing in response: %s", respBody)
	}

	return checkoutURL, nil
}
