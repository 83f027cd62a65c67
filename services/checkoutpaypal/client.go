package checkoutpaypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/MarcGrol/storefrontbackend/lib/myerrors"
	"github.com/MarcGrol/storefrontbackend/lib/mylog"
)

const httpClientTimeout = 5 * time.Second

// httpPayer talks to the processor's v2 checkout API.
// Neither call is ever retried: a failed create is a new, independent
// attempt by the caller and a duplicate capture must be left to the
// processor's own at-most-once handling.
type httpPayer struct {
	logger        mylog.Logger
	baseURL       string
	tokenProvider TokenProvider
	httpClient    *http.Client
}

func NewPayer(baseURL string, tokenProvider TokenProvider) *httpPayer {
	return &httpPayer{
		logger:        mylog.New("paypalclient"),
		baseURL:       baseURL,
		tokenProvider: tokenProvider,
		httpClient: &http.Client{
			Timeout: httpClientTimeout,
		},
	}
}

func (p *httpPayer) CreateOrder(c context.Context, amount Amount) (string, error) {
	payload := createOrderRequest{
		Intent: "CAPTURE",
		ApplicationContext: applicationContext{
			LandingPage: "LOGIN",
			UserAction:  "PAY_NOW",
		},
		PurchaseUnits: []purchaseUnit{
			{Amount: amount},
		},
	}

	httpStatus, respBody, err := p.send(c, "/v2/checkout/orders", payload)
	if err != nil {
		return "", err
	}

	if !is2xx(httpStatus) {
		return "", myerrors.NewUpstreamErrorf("create-order failed: %d: %s", httpStatus, respBody)
	}

	resp := createOrderResponse{}
	err = json.Unmarshal(respBody, &resp)
	if err != nil {
		return "", myerrors.NewUpstreamError(fmt.Errorf("error parsing create-order response: %s", err))
	}

	if resp.UID == "" {
		return "", myerrors.NewUpstreamErrorf("order id missing in response: %s", respBody)
	}

	p.logger.Log(c, resp.UID, mylog.SeverityInfo, "Created order %s at processor", resp.UID)

	return resp.UID, nil
}

func (p *httpPayer) CaptureOrder(c context.Context, orderUID string) (CaptureResult, error) {
	path := fmt.Sprintf("/v2/checkout/orders/%s/capture", url.PathEscape(orderUID))

	httpStatus, respBody, err := p.send(c, path, nil)
	if err != nil {
		return CaptureResult{}, err
	}

	if !is2xx(httpStatus) {
		p.logger.Log(c, orderUID, mylog.SeverityWarn, "Capture of order %s rejected by processor: %d", orderUID, httpStatus)

		return CaptureResult{
			Ok:     false,
			Error:  "capture failed",
			Detail: json.RawMessage(respBody),
		}, nil
	}

	resp := captureOrderResponse{}
	err = json.Unmarshal(respBody, &resp)
	if err != nil {
		return CaptureResult{}, myerrors.NewUpstreamError(fmt.Errorf("error parsing capture response: %s", err))
	}

	result := CaptureResult{
		Ok:    true,
		Payer: resp.Payer,
	}

	if len(resp.PurchaseUnits) > 0 && len(resp.PurchaseUnits[0].Payments.Captures) > 0 {
		capture := resp.PurchaseUnits[0].Payments.Captures[0]
		result.CaptureUID = capture.UID
		result.Status = capture.Status
		result.Amount = capture.Amount.Value
		result.Currency = capture.Amount.CurrencyCode
	}

	result.PayerEmail = extractPayerEmail(resp.Payer)

	return result, nil
}

func (p *httpPayer) send(c context.Context, path string, payload any) (int, []byte, error) {
	token, err := p.tokenProvider.GetToken(c)
	if err != nil {
		return 0, nil, err
	}

	var body io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, myerrors.NewInternalError(fmt.Errorf("error marshalling request: %s", err))
		}
		body = bytes.NewReader(jsonBody)
	}

	httpReq, err := http.NewRequestWithContext(c, http.MethodPost, p.baseURL+path, body)
	if err != nil {
		return 0, nil, myerrors.NewInternalError(fmt.Errorf("error creating request for %s: %s", path, err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, myerrors.NewUpstreamError(fmt.Errorf("error calling %s: %s", path, err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return 0, nil, myerrors.NewUpstreamError(fmt.Errorf("error reading response of %s: %s", path, err))
	}

	p.logger.Log(c, "", mylog.SeverityInfo, "Processor call POST %s -> %d", path, httpResp.StatusCode)

	return httpResp.StatusCode, respBody, nil
}

func extractPayerEmail(payer json.RawMessage) string {
	if len(payer) == 0 {
		return ""
	}

	parsed := struct {
		EmailAddress string `json:"email_address"`
	}{}
	if err := json.Unmarshal(payer, &parsed); err != nil {
		return ""
	}

	return parsed.EmailAddress
}

func is2xx(httpStatus int) bool {
	return httpStatus >= 200 && httpStatus <= 299
}
