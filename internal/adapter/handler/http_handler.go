package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/blinkhq/storefront/internal/core/domain"
	"github.com/blinkhq/storefront/internal/core/service"
)

// HTTPHandler exposes the toolkit over a small JSON API so renderer
// collaborators outside the process can read state and trigger cart
// operations.
type HTTPHandler struct {
	shop    *service.ShopService
	catalog *service.CatalogService
	cart    *service.CartService
}

// NewHTTPHandler wires the facade over the three state managers.
func NewHTTPHandler(shop *service.ShopService, catalog *service.CatalogService, cart *service.CartService) *HTTPHandler {
	return &HTTPHandler{shop: shop, catalog: catalog, cart: cart}
}

// Routes returns the handler's route table.
func (h *HTTPHandler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("GET /api/shop", h.GetShop)
	mux.HandleFunc("GET /api/products", h.GetProducts)
	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("POST /api/cart/lines", h.AddLine)
	mux.HandleFunc("PATCH /api/cart/lines/{id}", h.UpdateLine)
	mux.HandleFunc("DELETE /api/cart/lines/{id}", h.RemoveLine)
	mux.HandleFunc("POST /api/cart/clear", h.ClearCart)
	return mux
}

type addLineRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type updateLineRequest struct {
	Quantity int `json:"quantity"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type cartResponse struct {
	ItemCount   int          `json:"item_count"`
	IsEmpty     bool         `json:"is_empty"`
	Subtotal    string       `json:"subtotal"`
	Total       string       `json:"total"`
	CheckoutURL string       `json:"checkout_url,omitempty"`
	Cart        *domain.Cart `json:"cart,omitempty"`
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) GetShop(w http.ResponseWriter, r *http.Request) {
	shop, err := h.shop.Shop(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shop)
}

func (h *HTTPHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if raw := r.URL.Query().Get("ids"); raw != "" {
		ids = strings.Split(raw, ",")
	}
	if err := h.catalog.FetchProducts(r.Context(), ids); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.catalog.Products())
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cartResponse())
}

func (h *HTTPHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	var req addLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.VariantID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "variant_id is required"})
		return
	}
	if err := h.cart.Add(r.Context(), req.VariantID, req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cartResponse())
}

func (h *HTTPHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	var req updateLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.cart.UpdateLineItemQuantity(r.Context(), r.PathValue("id"), req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cartResponse())
}

func (h *HTTPHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.RemoveLineItem(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cartResponse())
}

func (h *HTTPHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cartResponse())
}

func (h *HTTPHandler) cartResponse() cartResponse {
	return cartResponse{
		ItemCount:   h.cart.ItemCount(),
		IsEmpty:     h.cart.IsEmpty(),
		Subtotal:    h.cart.Subtotal(),
		Total:       h.cart.Total(),
		CheckoutURL: h.cart.CheckoutURL(),
		Cart:        h.cart.Cart(),
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway

	var opErr *service.CartOperationError
	switch {
	case errors.As(err, &opErr):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNoCart):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrProductNotFound):
		status = http.StatusNotFound
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
