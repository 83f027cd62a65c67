package checkoutshopify

import "encoding/json"

// CartLine is a single line handed to the commerce platform
type CartLine struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// graphql wire types for the cartCreate mutation

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type cartCreateResponse struct {
	Data struct {
		CartCreate struct {
			Cart struct {
				ID          string `json:"id"`
				CheckoutURL string `json:"checkoutUrl"`
			} `json:"cart"`
			UserErrors []userError `json:"userErrors"`
		} `json:"cartCreate"`
	} `json:"data"`
	Errors json.RawMessage `json:"errors,omitempty"`
}

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}
