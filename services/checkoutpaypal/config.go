package checkoutpaypal

import (
	"os"
	"strings"
)

const (
	liveBaseURL    = "https://api-m.paypal.com"
	sandboxBaseURL = "https://api-m.sandbox.paypal.com"
)

type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
}

// ConfigFromEnv selects the live or sandbox endpoint and credential pair.
// Absence of credentials is detected at call time, not here: a storefront
// without payment configured must still be able to start.
func ConfigFromEnv() Config {
	mode := strings.ToLower(os.Getenv("PAYPAL_MODE"))
	if mode == "" {
		mode = strings.ToLower(os.Getenv("PAYPAL_ENV"))
	}

	if mode == "live" {
		return Config{
			BaseURL:      liveBaseURL,
			ClientID:     envWithFallback("PAYPAL_LIVE_CLIENT_ID", "PAYPAL_CLIENT_ID"),
			ClientSecret: envWithFallback("PAYPAL_LIVE_CLIENT_SECRET", "PAYPAL_CLIENT_SECRET"),
		}
	}

	return Config{
		BaseURL:      sandboxBaseURL,
		ClientID:     envWithFallback("PAYPAL_SANDBOX_CLIENT_ID", "PAYPAL_CLIENT_ID"),
		ClientSecret: envWithFallback("PAYPAL_SANDBOX_CLIENT_SECRET", "PAYPAL_CLIENT_SECRET"),
	}
}

func envWithFallback(name string, fallback string) string {
	value := os.Getenv(name)
	if value == "" {
		value = os.Getenv(fallback)
	}

	return value
}
