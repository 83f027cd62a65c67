package checkoutpaypal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/storefrontbackend/lib/mycontext"
	"github.com/MarcGrol/storefrontbackend/lib/myerrors"
	"github.com/MarcGrol/storefrontbackend/lib/myhttp"
	"github.com/MarcGrol/storefrontbackend/lib/mylog"
	"github.com/MarcGrol/storefrontbackend/lib/mypublisher"
	"github.com/MarcGrol/storefrontbackend/services/checkoutevents"
)

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(payer Payer, publisher mypublisher.Publisher) *webService {
	logger := mylog.New("checkoutpaypal")

	return &webService{
		logger:  logger,
		service: newService(payer, publisher, logger),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/create-order", s.createOrderPage()).Methods("POST")
	router.HandleFunc("/capture-order", s.captureOrderPage()).Methods("POST")

	return s.service.publisher.CreateTopic(c, checkoutevents.TopicName)
}

type createOrderPageRequest struct {
	Amount   json.RawMessage `json:"amount"`
	Currency string          `json:"currency"`
}

// amountAsString tolerates both `"12.50"` and `12.5` in the request body
func (r createOrderPageRequest) amountAsString() string {
	if len(r.Amount) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(r.Amount, &asString); err == nil {
		return asString
	}

	var asNumber float64
	if err := json.Unmarshal(r.Amount, &asNumber); err == nil {
		return fmt.Sprintf("%v", asNumber)
	}

	return string(r.Amount)
}

func (s *webService) createOrderPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		req := createOrderPageRequest{}
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("error parsing request: %s", err)))
			return
		}

		order, err := s.service.createOrder(c, req.amountAsString(), req.Currency)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, order)
	}
}

type captureOrderPageRequest struct {
	OrderUID   string `json:"orderID"`
	SessionUID string `json:"sessionUid"`
	VariantID  string `json:"variantId"`
	Quantity   int    `json:"quantity"`
	Email      string `json:"email"`
}

func (s *webService) captureOrderPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		req := captureOrderPageRequest{}
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("error parsing request: %s", err)))
			return
		}

		result, err := s.service.captureOrder(c, req.OrderUID, req.SessionUID)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		if !result.Ok {
			// a rejected capture is reported as a regular response with
			// upstream status so the widget can branch on ok
			errorWriter.Write(c, w, http.StatusBadGateway, result)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, result)
	}
}
