package checkoutshopify

import (
	"fmt"
	"os"
)

const storefrontAPIVersion = "2023-10"

type Config struct {
	// StoreDomain is the myshopify hostname, without scheme
	StoreDomain string
	// StorefrontAccessToken authenticates cartCreate calls against the storefront API
	StorefrontAccessToken string
	// InternalAccessToken guards the private token-exchange endpoint
	InternalAccessToken string
}

func ConfigFromEnv() Config {
	return Config{
		StoreDomain:           os.Getenv("SHOPIFY_STORE_DOMAIN"),
		StorefrontAccessToken: os.Getenv("SHOPIFY_STOREFRONT_ACCESS_TOKEN"),
		InternalAccessToken:   os.Getenv("INTERNAL_ACCESS_TOKEN"),
	}
}

func (c Config) StorefrontURL() string {
	return fmt.Sprintf("https://%s/api/%s/graphql.json", c.StoreDomain, storefrontAPIVersion)
}
