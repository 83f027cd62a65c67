package checkoutshopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/storefrontbackend/lib/mycontext"
	"github.com/MarcGrol/storefrontbackend/lib/myerrors"
	"github.com/MarcGrol/storefrontbackend/lib/myhttp"
	"github.com/MarcGrol/storefrontbackend/lib/mylog"
	"github.com/MarcGrol/storefrontbackend/lib/mypublisher"
	"github.com/MarcGrol/storefrontbackend/lib/mystore"
	"github.com/MarcGrol/storefrontbackend/services/cart"
)

type webService struct {
	logger  mylog.Logger
	service *service
	config  Config
}

func NewWebService(config Config, cartStore mystore.Store[cart.Cart], cartCreator CartCreator, publisher mypublisher.Publisher) *webService {
	logger := mylog.New("checkoutshopify")

	return &webService{
		logger:  logger,
		service: newService(cartStore, cartCreator, publisher, logger),
		config:  config,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/create-cart", s.createCartPage()).Methods("POST")
	router.HandleFunc("/checkout/{sessionUID}", s.checkoutPage()).Methods("POST")
	router.HandleFunc("/private_access_tokens", s.privateAccessTokenPage()).Methods("GET")

	return nil
}

type createCartPageRequest struct {
	Items []createCartPageItem `json:"items"`
}

type createCartPageItem struct {
	VariantID string `json:"variantId"`
	Handle    string `json:"handle"`
	Quantity  int    `json:"quantity"`
}

type createCartPageResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
}

func (s *webService) createCartPage() http.HandlerFunc {
	responseWriter := myhttp.NewWriter(s.logger)
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)

		req := createCartPageRequest{}
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			responseWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("error parsing request: %s", err)))
			return
		}

		lines := make([]CartLine, 0, len(req.Items))
		for _, item := range req.Items {
			merchandiseID := item.VariantID
			if merchandiseID == "" {
				merchandiseID = item.Handle
			}
			lines = append(lines, CartLine{
				MerchandiseID: merchandiseID,
				Quantity:      item.Quantity,
			})
		}

		checkoutURL, err := s.service.createCart(c, lines)
		if err != nil {
			responseWriter.WriteError(c, w, 2, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, createCartPageResponse{CheckoutURL: checkoutURL})
	}
}

func (s *webService) checkoutPage() http.HandlerFunc {
	responseWriter := myhttp.NewWriter(s.logger)
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		sessionUID := mux.Vars(r)["sessionUID"]

		checkoutURL, err := s.service.checkout(c, sessionUID)
		if err != nil {
			responseWriter.WriteError(c, w, 3, err)
			return
		}

		// hand the shopper over to the hosted checkout
		http.Redirect(w, r, checkoutURL, http.StatusSeeOther)
	}
}

type privateAccessTokenPageResponse struct {
	Ok    bool   `json:"ok"`
	ID    string `json:"id"`
	Token string `json:"token"`
}

// privateAccessTokenPage exchanges the internal static token for the
// storefront access-token belonging to the requested shop id
func (s *webService) privateAccessTokenPage() http.HandlerFunc {
	responseWriter := myhttp.NewWriter(s.logger)
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)

		if !s.isAuthorized(r) {
			responseWriter.WriteError(c, w, 4, myerrors.NewUnauthorizedError(fmt.Errorf("missing or invalid bearer token")))
			return
		}

		id := r.URL.Query().Get("id")
		if id == "" {
			responseWriter.WriteError(c, w, 5, myerrors.NewInvalidInputError(fmt.Errorf("missing id")))
			return
		}

		responseWriter.Write(c, w, http.StatusOK, privateAccessTokenPageResponse{
			Ok:    true,
			ID:    id,
			Token: s.config.StorefrontAccessToken,
		})
	}
}

func (s *webService) isAuthorized(r *http.Request) bool {
	if s.config.InternalAccessToken == "" {
		return false
	}

	authHeader := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(authHeader, "Bearer ")

	return found && token == s.config.InternalAccessToken
}
