package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/prathvinaik206-create/farmdirect/internal/models"
	"github.com/prathvinaik206-create/farmdirect/internal/services"
)

type OrderHandler struct {
	orders *services.OrderService
	stats  *services.StatsService
}

func NewOrderHandler(orders *services.OrderService, stats *services.StatsService) *OrderHandler {
	return &OrderHandler{orders: orders, stats: stats}
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req services.PlaceOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.orders.PlaceOrder(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "order", "place order")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Order placed successfully",
		"order":   res.Order,
	})
}

func (h *OrderHandler) QuoteOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items []models.OrderItem `json:"items"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	quote, err := h.orders.Quote(req.Items)
	if err != nil {
		respondServiceError(w, err, "order", "quote order")
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

func (h *OrderHandler) GetConsumerOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListByConsumer(r.Context(), mux.Vars(r)["consumerId"])
	if err != nil {
		respondServiceError(w, err, "order", "fetch orders")
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetFarmerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.FarmerStats(r.Context(), mux.Vars(r)["farmerId"])
	if err != nil {
		respondServiceError(w, err, "farmer", "fetch stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
