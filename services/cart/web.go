package cart

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/form/v4"
	"github.com/gorilla/mux"

	"github.com/MarcGrol/storefrontbackend/lib/mycontext"
	"github.com/MarcGrol/storefrontbackend/lib/myerrors"
	"github.com/MarcGrol/storefrontbackend/lib/myhttp"
	"github.com/MarcGrol/storefrontbackend/lib/mylog"
	"github.com/MarcGrol/storefrontbackend/lib/mypubsub"
	"github.com/MarcGrol/storefrontbackend/lib/mystore"
	"github.com/MarcGrol/storefrontbackend/lib/mytime"
	"github.com/MarcGrol/storefrontbackend/services/checkoutevents"
)

type webService struct {
	logger      mylog.Logger
	service     *service
	subscriber  mypubsub.PubSub
	ownHostname string
}

func NewWebService(cartStore mystore.Store[Cart], nower mytime.Nower, subscriber mypubsub.PubSub, ownHostname string) *webService {
	logger := mylog.New("cart")

	return &webService{
		logger:      logger,
		service:     newService(cartStore, nower, logger),
		subscriber:  subscriber,
		ownHostname: ownHostname,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/cart/{sessionUID}", s.getCartPage()).Methods("GET")
	router.HandleFunc("/cart/{sessionUID}", s.clearCartPage()).Methods("DELETE")
	router.HandleFunc("/cart/{sessionUID}/items", s.addItemPage()).Methods("POST")
	router.HandleFunc("/cart/{sessionUID}/items/{variantID}", s.removeItemPage()).Methods("DELETE")
	router.HandleFunc("/cart/{sessionUID}/visibility/{state}", s.setVisibilityPage()).Methods("PUT")

	// endpoint that the pub-sub push subscription delivers to
	router.HandleFunc("/cart/event", s.eventPage()).Methods("POST")

	err := s.Subscribe(c)
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", checkoutevents.TopicName, err)
	}

	return nil
}

func (s *webService) Subscribe(c context.Context) error {
	return s.subscriber.Subscribe(c, checkoutevents.TopicName, s.ownHostname+"/cart/event")
}

func (s *webService) getCartPage() http.HandlerFunc {
	responseWriter := myhttp.NewWriter(s.logger)
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)

		cart, err := s.service.getCart(c, mux.Vars(r)["sessionUID"])
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, cartToResponse(cart))
	}
}

func (s *webService) addItemPage() http.HandlerFunc {
	responseWriter := myhttp.NewWriter(s.logger)
	formDecoder := form.NewDecoder()
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)

		err := r.ParseForm()
		if err != nil {
			responseWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(fmt.Errorf("error parsing form: %s", err)))
			return
		}

		item := CartItem{}
		err = formDecoder.Decode(&item, r.Form)
		if err != nil {
			responseWriter.WriteError(c, w, 3, myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %s", err)))
			return
		}

		cart, err := s.service.addItem(c, mux.Vars(r)["sessionUID"], item)
		if err != nil {
			responseWriter.WriteError(c, w, 4, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, cartToResponse(cart))
	}
}

func (s *webService) removeItemPage() http.HandlerFunc {
	responseWriter := myhttp.NewWriter(s.logger)
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		pathParams := mux.Vars(r)

		cart, err := s.service.removeItem(c, pathParams["sessionUID"], pathParams["variantID"])
		if err != nil {
			responseWriter.WriteError(c, w, 5, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, cartToResponse(cart))
	}
}

func (s *webService) clearCartPage() http.HandlerFunc {
	responseWriter := myhttp.NewWriter(s.logger)
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)

		err := s.service.clearCart(c, mux.Vars(r)["sessionUID"])
		if err != nil {
			responseWriter.WriteError(c, w, 6, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{Message: "cart cleared"})
	}
}

func (s *webService) setVisibilityPage() http.HandlerFunc {
	responseWriter := myhttp.NewWriter(s.logger)
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		pathParams := mux.Vars(r)

		state := pathParams["state"]
		if state != "show" && state != "hide" {
			responseWriter.WriteError(c, w, 7, myerrors.NewInvalidInputError(fmt.Errorf("unknown visibility state %s", state)))
			return
		}

		err := s.service.setShowCart(c, pathParams["sessionUID"], state == "show")
		if err != nil {
			responseWriter.WriteError(c, w, 8, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{Message: "visibility set to " + state})
	}
}

func (s *webService) eventPage() http.HandlerFunc {
	responseWriter := myhttp.NewWriter(s.logger)
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)

		err := checkoutevents.DispatchEvent(c, r.Body, s.service)
		if err != nil {
			responseWriter.WriteError(c, w, 9, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{Message: "event processed"})
	}
}

// cartResponse is the wire shape the storefront sidebar renders from
type cartResponse struct {
	SessionUID   string             `json:"sessionUid"`
	Items        []cartItemResponse `json:"items"`
	ItemCount    int                `json:"itemCount"`
	TotalInCents int64              `json:"totalInCents"`
	ShowCart     bool               `json:"showCart"`
}

type cartItemResponse struct {
	VariantID    string `json:"variantId"`
	Title        string `json:"title"`
	PriceInCents int64  `json:"priceInCents"`
	Quantity     int    `json:"quantity"`
	ImageURL     string `json:"imageUrl,omitempty"`
}

func cartToResponse(cart Cart) cartResponse {
	items := make([]cartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, cartItemResponse{
			VariantID:    item.VariantID,
			Title:        item.Title,
			PriceInCents: item.PriceInCents,
			Quantity:     item.Quantity,
			ImageURL:     item.ImageURL,
		})
	}

	return cartResponse{
		SessionUID:   cart.UID,
		Items:        items,
		ItemCount:    cart.ItemCount(),
		TotalInCents: cart.TotalInCents(),
		ShowCart:     cart.ShowCart,
	}
}
