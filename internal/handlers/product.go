package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/prathvinaik206-create/farmdirect/internal/auth"
	"github.com/prathvinaik206-create/farmdirect/internal/services"
)

type ProductHandler struct {
	service *services.ProductService
}

func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

func (h *ProductHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		respondServiceError(w, err, "product", "fetch products")
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) GetFarmerProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListByFarmer(r.Context(), mux.Vars(r)["farmerId"])
	if err != nil {
		respondServiceError(w, err, "product", "fetch products")
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req services.CreateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := h.service.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "product", "add product")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Product added successfully",
		"product": product,
	})
}

// UpdateProduct must run behind middleware.RequireToken.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authorization required")
		return
	}
	var update services.ProductUpdate
	if !decodeJSON(w, r, &update) {
		return
	}

	product, err := h.service.Update(r.Context(), claims.UserID, mux.Vars(r)["id"], update)
	if err != nil {
		respondServiceError(w, err, "product", "update product")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Product updated successfully",
		"product": product,
	})
}

// DeleteProduct must run behind middleware.RequireToken.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	if err := h.service.Delete(r.Context(), claims.UserID, mux.Vars(r)["id"]); err != nil {
		respondServiceError(w, err, "product", "delete product")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}
