package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/prathvinaik206-create/farmdirect/internal/auth"
	"github.com/prathvinaik206-create/farmdirect/internal/middleware"
)

// Handlers groups every route handler the API serves.
type Handlers struct {
	Health   *HealthHandler
	Users    *UserHandler
	Products *ProductHandler
	Orders   *OrderHandler
}

// NewRouter registers the API routes. Account and product edits and deletes
// require a bearer token issued by tokens.
func NewRouter(h Handlers, tokens *auth.TokenManager) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", h.Health.Health).Methods("GET", "HEAD")

	router.HandleFunc("/api/auth/signup", h.Users.Signup).Methods("POST")
	router.HandleFunc("/api/auth/login", h.Users.Login).Methods("POST")
	router.Handle("/api/users/{id}", protect(tokens, h.Users.UpdateUser)).Methods("PUT")
	router.Handle("/api/users/{id}", protect(tokens, h.Users.DeleteUser)).Methods("DELETE")

	router.HandleFunc("/api/products", h.Products.GetProducts).Methods("GET")
	router.HandleFunc("/api/products", h.Products.CreateProduct).Methods("POST")
	router.HandleFunc("/api/products/farmer/{farmerId}", h.Products.GetFarmerProducts).Methods("GET")
	router.Handle("/api/products/{id}", protect(tokens, h.Products.UpdateProduct)).Methods("PUT")
	router.Handle("/api/products/{id}", protect(tokens, h.Products.DeleteProduct)).Methods("DELETE")

	router.HandleFunc("/api/orders", h.Orders.CreateOrder).Methods("POST")
	router.HandleFunc("/api/orders/quote", h.Orders.QuoteOrder).Methods("POST")
	router.HandleFunc("/api/orders/consumer/{consumerId}", h.Orders.GetConsumerOrders).Methods("GET")
	router.HandleFunc("/api/farmer/stats/{farmerId}", h.Orders.GetFarmerStats).Methods("GET")

	return router
}

func protect(tokens *auth.TokenManager, fn http.HandlerFunc) http.Handler {
	return middleware.RequireToken(tokens, fn)
}
