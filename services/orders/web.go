package orders

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
	"github.com/MarcGrol/storefrontbackend/lib/mypubsub"
	"github.com/MarcGrol/storefrontbackend/lib/mystore"
	"github.com/MarcGrol/storefrontbackend/lib/mytime"
	"github.com/MarcGrol/storefrontbackend/lib/myuuid"
	"github.com/MarcGrol/storefrontbackend/services/checkoutevents"
)

type webService struct {
	logger      mylog.Logger
	service     *service
	subscriber  mypubsub.PubSub
	ownHostname string
}

func NewWebService(orderStore mystore.Store[Order], nower mytime.Nower, uuider myuuid.UUIDer, subscriber mypubsub.PubSub, ownHostname string) *webService {
	logger := mylog.New("orders")

	return &webService{
		logger:      logger,
		service:     newService(orderStore, nower, uuider, logger),
		subscriber:  subscriber,
		ownHostname: ownHostname,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/activate-order", s.activateOrderPage()).Methods("POST")
	router.HandleFunc("/orders", s.listOrdersPage()).Methods("GET")
	router.HandleFunc("/orders/{orderUID}", s.getOrderPage()).Methods("GET")

	// endpoint that the pub-sub push subscription delivers to
	router.HandleFunc("/orders/event", s.eventPage()).Methods("POST")

	err := s.Subscribe(c)
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", checkoutevents.TopicName, err)
	}

	return nil
}

func (s *webService) Subscribe(c context.Context) error {
	return s.subscriber.Subscribe(c, checkoutevents.TopicName, s.ownHostname+"/orders/event")
}

type activateOrderPageRequest struct {
	OrderUID      string `json:"orderID"`
	PayerEmail    string `json:"payerEmail"`
	ProductHandle string `json:"productHandle"`
}

func (s *webService) activateOrderPage() http.HandlerFunc {
	responseWriter := myhttp.NewWriter(s.logger)
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)

		req := activateOrderPageRequest{}
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			responseWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("error parsing request: %s", err)))
			return
		}

		order, err := s.service.activateOrder(c, req.OrderUID, req.PayerEmail, req.ProductHandle)
		if err != nil {
			responseWriter.WriteError(c, w, 2, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, order)
	}
}

func (s *webService) getOrderPage() http.HandlerFunc {
	responseWriter := myhttp.NewWriter(s.logger)
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)

		order, err := s.service.getOrder(c, mux.Vars(r)["orderUID"])
		if err != nil {
			responseWriter.WriteError(c, w, 3, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, order)
	}
}

func (s *webService) listOrdersPage() http.HandlerFunc {
	responseWriter := myhttp.NewWriter(s.logger)
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)

		orders, err := s.service.listOrders(c)
		if err != nil {
			responseWriter.WriteError(c, w, 4, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, orders)
	}
}

func (s *webService) eventPage() http.HandlerFunc {
	responseWriter := myhttp.NewWriter(s.logger)
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)

		err := checkoutevents.DispatchEvent(c, r.Body, s.service)
		if err != nil {
			responseWriter.WriteError(c, w, 5, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{Message: "event processed"})
	}
}
