package checkoutpaypal

import "encoding/json"

// PaymentOrder is a payable order opened at the processor.
// Immutable once created: its UID is handed to the payment widget and
// later used to capture.
type PaymentOrder struct {
	UID      string `json:"orderID"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// CaptureResult is the normalized outcome of a capture attempt.
// A rejected capture is a normal business outcome, not an error:
// callers branch on Ok.
type CaptureResult struct {
	Ok         bool            `json:"ok"`
	CaptureUID string          `json:"captureId,omitempty"`
	Status     string          `json:"status,omitempty"`
	Amount     string          `json:"amount,omitempty"`
	Currency   string          `json:"currency,omitempty"`
	Payer      json.RawMessage `json:"payer,omitempty"`
	PayerEmail string          `json:"-"`
	Error      string          `json:"error,omitempty"`
	Detail     json.RawMessage `json:"detail,omitempty"`
}

type Amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// wire types for the processor's v2 checkout API

type createOrderRequest struct {
	Intent             string             `json:"intent"`
	ApplicationContext applicationContext `json:"application_context"`
	PurchaseUnits      []purchaseUnit     `json:"purchase_units"`
}

type applicationContext struct {
	LandingPage string `json:"landing_page"`
	UserAction  string `json:"user_action"`
}

type purchaseUnit struct {
	Amount Amount `json:"amount"`
}

type createOrderResponse struct {
	UID    string `json:"id"`
	Status string `json:"status"`
}

type captureOrderResponse struct {
	UID           string                 `json:"id"`
	Status        string                 `json:"status"`
	PurchaseUnits []capturedPurchaseUnit `json:"purchase_units"`
	Payer         json.RawMessage        `json:"payer"`
}

type capturedPurchaseUnit struct {
	Payments capturePayments `json:"payments"`
}

type capturePayments struct {
	Captures []captureRecord `json:"captures"`
}

type captureRecord struct {
	UID    string `json:"id"`
	Status string `json:"status"`
	Amount Amount `json:"amount"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}
