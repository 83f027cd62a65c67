package myhttp

import (
	"fmt"
	"net/http"
	"os"
)

func HostnameWithScheme(r *http.Request) string {
	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// GuessHostnameWithScheme determines our own public address without an
// incoming request to look at. Used for pub-sub push subscriptions.
func GuessHostnameWithScheme() string {
	hostname := os.Getenv("OWN_HOSTNAME")
	if hostname != "" {
		return hostname
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return fmt.Sprintf("http://localhost:%s", port)
}
