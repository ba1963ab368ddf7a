package router

import (
	"github.com/antinvestor/mpesa-api/service/handlers"
	"github.com/gorilla/mux"
)

func NewRouter(cs *handlers.C2BServer) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/health", handlers.HealthHandler).Methods("GET")
	// Safaricom posts confirmations here
	router.HandleFunc("/c2b/confirmation", cs.HandleConfirmation).Methods("POST")
	router.HandleFunc("/c2b/confirmation/forward", cs.ForwardConfirmation).Methods("POST")
	router.HandleFunc("/c2b/confirmation/{transID}", cs.GetConfirmation).Methods("GET")
	return router
}
