package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/allergy-scan/internal/allergen"
	"github.com/tair/allergy-scan/internal/product/domain"
	"github.com/tair/allergy-scan/internal/product/usecase/query"
	"github.com/tair/allergy-scan/pkg/httpx"
	"github.com/tair/allergy-scan/pkg/logger"
	"github.com/tair/allergy-scan/pkg/metrics"
)

// ProductHandler serves the scanner and the allergen matcher
type ProductHandler struct {
	scanHandler *query.ScanProductHandler
	lookups     *query.ScreenLookups
	registry    *allergen.Registry
}

// NewProductHandler creates a new product handler
func NewProductHandler(
	scanHandler *query.ScanProductHandler,
	lookups *query.ScreenLookups,
	registry *allergen.Registry,
) *ProductHandler {
	return &ProductHandler{
		scanHandler: scanHandler,
		lookups:     lookups,
		registry:    registry,
	}
}

// RegisterRoutes registers the scanner routes. protect guards mutating routes.
func (h *ProductHandler) RegisterRoutes(router *mux.Router, protect func(http.HandlerFunc) http.HandlerFunc) {
	router.HandleFunc("/api/products/{barcode}", metrics.Instrument("/api/products/{barcode}", h.ScanProduct)).Methods("GET")
	router.HandleFunc("/api/products/{barcode}/retry", metrics.Instrument("/api/products/{barcode}/retry", protect(h.RetryProduct))).Methods("POST")
	router.HandleFunc("/api/screens/{screen}", metrics.Instrument("/api/screens/{screen}", h.CloseScreen)).Methods("DELETE")

	router.HandleFunc("/api/allergens", metrics.Instrument("/api/allergens", h.ListAllergens)).Methods("GET")
	router.HandleFunc("/api/allergens/detect", metrics.Instrument("/api/allergens/detect", h.DetectAllergens)).Methods("POST")
}

// ScanProduct handles GET /api/products/{barcode}
func (h *ProductHandler) ScanProduct(w http.ResponseWriter, r *http.Request) {
	h.scan(w, r, false)
}

// RetryProduct handles POST /api/products/{barcode}/retry
func (h *ProductHandler) RetryProduct(w http.ResponseWriter, r *http.Request) {
	h.scan(w, r, true)
}

func (h *ProductHandler) scan(w http.ResponseWriter, r *http.Request, retry bool) {
	q := query.ScanProductQuery{
		Barcode: mux.Vars(r)["barcode"],
		Screen:  r.URL.Query().Get("screen"),
		Retry:   retry,
	}

	result, err := h.scanHandler.Handle(r.Context(), q)
	switch {
	case errors.Is(err, domain.ErrInvalidBarcode):
		httpx.RespondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, query.ErrLookupInFlight):
		httpx.RespondError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, query.ErrLookupDiscarded):
		httpx.RespondError(w, http.StatusGone, err.Error())
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		httpx.RespondError(w, http.StatusServiceUnavailable, "Lookup cancelled")
		return
	case err != nil:
		logger.Error(r.Context()).Err(err).Str("barcode", q.Barcode).Msg("Scan failed")
		httpx.RespondError(w, http.StatusInternalServerError, domain.MessageError)
		return
	}

	switch result.Outcome {
	case domain.OutcomeFound:
		httpx.RespondData(w, http.StatusOK, "", result)
	case domain.OutcomeNotFound:
		httpx.RespondJSON(w, http.StatusNotFound, httpx.Response{
			Success: false,
			Error:   result.Message,
			Data:    result,
		})
	default:
		httpx.RespondJSON(w, http.StatusBadGateway, httpx.Response{
			Success: false,
			Error:   result.Message,
			Data:    result,
		})
	}
}

// CloseScreen handles DELETE /api/screens/{screen}
func (h *ProductHandler) CloseScreen(w http.ResponseWriter, r *http.Request) {
	h.lookups.Close(mux.Vars(r)["screen"])
	httpx.RespondData(w, http.StatusOK, "Screen closed", nil)
}

// ListAllergens handles GET /api/allergens
func (h *ProductHandler) ListAllergens(w http.ResponseWriter, r *http.Request) {
	httpx.RespondData(w, http.StatusOK, "", map[string]interface{}{
		"allergens": h.registry.Current().Allergens(),
	})
}

// DetectAllergens handles POST /api/allergens/detect
func (h *ProductHandler) DetectAllergens(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text        string   `json:"text"`
		Allergens   []string `json:"allergens"`
		UseSynonyms bool     `json:"use_synonyms"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var detected []string
	if req.UseSynonyms {
		detected = h.registry.Current().Detect(req.Text, req.Allergens)
	} else {
		detected = allergen.DetectAllergens(req.Text, req.Allergens)
	}

	httpx.RespondData(w, http.StatusOK, "", map[string]interface{}{
		"detected": detected,
	})
}
