package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/MarcGrol/storefrontbackend/lib/myhttp"
	"github.com/MarcGrol/storefrontbackend/lib/mypublisher"
	"github.com/MarcGrol/storefrontbackend/lib/mypubsub"
	"github.com/MarcGrol/storefrontbackend/lib/myqueue"
	"github.com/MarcGrol/storefrontbackend/lib/mystore"
	"github.com/MarcGrol/storefrontbackend/lib/mytime"
	"github.com/MarcGrol/storefrontbackend/lib/myuuid"
	"github.com/MarcGrol/storefrontbackend/services/cart"
	"github.com/MarcGrol/storefrontbackend/services/checkoutpaypal"
	"github.com/MarcGrol/storefrontbackend/services/checkoutshopify"
	"github.com/MarcGrol/storefrontbackend/services/orders"
)

func main() {
	c := context.Background()

	// .env is optional: on cloud runtimes everything comes in via real env vars
	err := godotenv.Load()
	if err != nil {
		log.Printf("No .env file found: using environment as-is")
	}

	router := mux.NewRouter()
	nower := mytime.RealNower{}
	uuider := myuuid.RealUUIDer{}

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		log.Fatalf("Error creating task queue: %s", err)
	}
	defer queueCleanup()

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	publisher, publisherCleanup, err := mypublisher.New(c, pubsub, queue, nower)
	if err != nil {
		log.Fatalf("Error creating publisher: %s", err)
	}
	defer publisherCleanup()
	publisher.RegisterEndpoints(c, router)

	cartStore, cartStoreCleanup, err := mystore.New[cart.Cart](c)
	if err != nil {
		log.Fatalf("Error creating cart store: %s", err)
	}
	defer cartStoreCleanup()

	orderStore, orderStoreCleanup, err := mystore.New[orders.Order](c)
	if err != nil {
		log.Fatalf("Error creating order store: %s", err)
	}
	defer orderStoreCleanup()

	paypalConfig := checkoutpaypal.ConfigFromEnv()
	tokenProvider := checkoutpaypal.NewCachedTokenProvider(paypalConfig, nower)
	payer := checkoutpaypal.NewPayer(paypalConfig.BaseURL, tokenProvider)
	paypalService := checkoutpaypal.NewWebService(payer, publisher)
	err = paypalService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering paypal checkout endpoints: %s", err)
	}

	cartService := cart.NewWebService(cartStore, nower, pubsub, myhttp.GuessHostnameWithScheme())
	err = cartService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering cart endpoints: %s", err)
	}

	shopifyConfig := checkoutshopify.ConfigFromEnv()
	cartCreator := checkoutshopify.NewCartCreator(shopifyConfig.StorefrontURL(), shopifyConfig.StorefrontAccessToken)
	shopifyService := checkoutshopify.NewWebService(shopifyConfig, cartStore, cartCreator, publisher)
	err = shopifyService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering shopify checkout endpoints: %s", err)
	}

	orderService := orders.NewWebService(orderStore, nower, uuider, pubsub, myhttp.GuessHostnameWithScheme())
	err = orderService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering order endpoints: %s", err)
	}

	startWebServerBlocking(router)
}

func startWebServerBlocking(router *mux.Router) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting webserver on port %s (try http://localhost:%s)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
