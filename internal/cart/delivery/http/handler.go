package http

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/allergy-scan/internal/cart/domain"
	"github.com/tair/allergy-scan/internal/cart/usecase/command"
	"github.com/tair/allergy-scan/internal/cart/usecase/query"
	"github.com/tair/allergy-scan/pkg/httpx"
	"github.com/tair/allergy-scan/pkg/metrics"
)

// CartHandler handles HTTP requests for the cart
type CartHandler struct {
	addHandler    *command.AddToCartHandler
	removeHandler *command.RemoveFromCartHandler
	clearHandler  *command.ClearCartHandler
	updateHandler *command.UpdateCartItemHandler
	listHandler   *query.ListCartHandler
}

// NewCartHandler creates a new cart handler
func NewCartHandler(
	addHandler *command.AddToCartHandler,
	removeHandler *command.RemoveFromCartHandler,
	clearHandler *command.ClearCartHandler,
	updateHandler *command.UpdateCartItemHandler,
	listHandler *query.ListCartHandler,
) *CartHandler {
	return &CartHandler{
		addHandler:    addHandler,
		removeHandler: removeHandler,
		clearHandler:  clearHandler,
		updateHandler: updateHandler,
		listHandler:   listHandler,
	}
}

// RegisterRoutes registers the cart routes. protect guards mutating routes.
func (h *CartHandler) RegisterRoutes(router *mux.Router, protect func(http.HandlerFunc) http.HandlerFunc) {
	router.HandleFunc("/api/cart", metrics.Instrument("/api/cart", h.ListCart)).Methods("GET")
	router.HandleFunc("/api/cart", metrics.Instrument("/api/cart", protect(h.AddToCart))).Methods("POST")
	router.HandleFunc("/api/cart", metrics.Instrument("/api/cart", protect(h.ClearCart))).Methods("DELETE")
	router.HandleFunc("/api/cart/{barcode}", metrics.Instrument("/api/cart/{barcode}", protect(h.UpdateCartItem))).Methods("PATCH")
	router.HandleFunc("/api/cart/{barcode}", metrics.Instrument("/api/cart/{barcode}", protect(h.RemoveFromCart))).Methods("DELETE")
}

// ListCart handles GET /api/cart
func (h *CartHandler) ListCart(w http.ResponseWriter, r *http.Request) {
	httpx.RespondData(w, http.StatusOK, "", h.listHandler.Handle())
}

// AddToCart handles POST /api/cart
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Barcode   string   `json:"barcode"`
		Name      string   `json:"name"`
		Image     string   `json:"image"`
		Allergens []string `json:"allergens"`
		Checked   *bool    `json:"checked"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Items come from the scanner, which always checks them
	checked := req.Checked == nil || *req.Checked

	item, added, err := h.addHandler.Handle(r.Context(), command.AddToCartCommand{
		Barcode:   req.Barcode,
		Name:      req.Name,
		Image:     req.Image,
		Allergens: req.Allergens,
		Checked:   checked,
	})
	if err != nil {
		httpx.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !added {
		httpx.RespondData(w, http.StatusOK, "Already in cart", item)
		return
	}
	httpx.RespondData(w, http.StatusCreated, "Added to cart!", item)
}

// RemoveFromCart handles DELETE /api/cart/{barcode}
func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	removed := h.removeHandler.Handle(r.Context(), command.RemoveFromCartCommand{Barcode: mux.Vars(r)["barcode"]})
	httpx.RespondData(w, http.StatusOK, "Removed from cart", map[string]int{"removed": removed})
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.clearHandler.Handle(r.Context())
	httpx.RespondData(w, http.StatusOK, "Cart cleared", nil)
}

// UpdateCartItem handles PATCH /api/cart/{barcode}
func (h *CartHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var patch domain.CartItemPatch
	if err := httpx.DecodeJSON(r, &patch); err != nil || patch.Empty() {
		httpx.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.updateHandler.Handle(r.Context(), command.UpdateCartItemCommand{
		Barcode: mux.Vars(r)["barcode"],
		Patch:   patch,
	})
	if errors.Is(err, domain.ErrItemNotFound) {
		httpx.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		httpx.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.RespondData(w, http.StatusOK, "Cart item updated", item)
}
