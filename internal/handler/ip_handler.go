package handler

import (
	"encoding/json"
	"net/http"

	"github.com/adibenmati/ip2distance/internal/geoip"
	"github.com/adibenmati/ip2distance/internal/models"
	"github.com/adibenmati/ip2distance/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// IPHandler handles HTTP requests for IP geolocation
// This is the handler layer - it deals with HTTP concerns only
//
// Responsibilities:
//   - Parse HTTP requests (path parameters, JSON bodies)
//   - Call service methods
//   - Format HTTP responses and status codes
//   - NO business logic (that's in the service layer)
type IPHandler struct {
	service   *service.IPService
	validator *validator.Validate
}

// NewIPHandler creates a new IP handler with the given service
func NewIPHandler(service *service.IPService) *IPHandler {
	return &IPHandler{
		service:   service,
		validator: validator.New(),
	}
}

// LookupIP handles GET /ip/{ip}
// @Summary      Look up a single IP address
// @Description  Resolve geolocation information (country, city, coordinates) for one IP address
// @Tags         IP Lookup
// @Produce      json
// @Param        ip   path       string  true  "IP address"  example(8.8.8.8)
// @Success      200  {object}   models.IPInfo
// @Failure      400  {string}   string  "Rejected IP address, e.g. 'abc: incorrect IP format'"
// @Failure      429  {object}   models.ErrorResponse  "Rate limit exceeded"
// @Failure      500  {object}   models.ErrorResponse  "Upstream failure"
// @Router       /ip/{ip} [get]
func (h *IPHandler) LookupIP(w http.ResponseWriter, r *http.Request) {
	ip := chi.URLParam(r, "ip")

	info, err := h.service.LookupIP(r.Context(), ip)
	if err != nil {
		h.respondLookupError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, info)
}

// PairSummary handles POST /ip
// @Summary      Summarize a pair of IP addresses
// @Description  Resolve two IP addresses concurrently and compute the great-circle distance between them
// @Tags         IP Lookup
// @Accept       json
// @Produce      json
// @Param        request  body       models.IPPairSummaryRequest  true  "The two IP addresses"
// @Success      200  {object}   models.IPPairSummary
// @Failure      400  {string}   string  "Malformed body, missing field, or rejected IP address"
// @Failure      429  {object}   models.ErrorResponse  "Rate limit exceeded"
// @Failure      500  {object}   models.ErrorResponse  "Upstream failure"
// @Router       /ip [post]
func (h *IPHandler) PairSummary(w http.ResponseWriter, r *http.Request) {
	var req models.IPPairSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Presence only; IP syntax stays the upstream's call
	if err := h.validator.Struct(req); err != nil {
		http.Error(w, "ip1 and ip2 are required", http.StatusBadRequest)
		return
	}

	summary, err := h.service.PairSummary(r.Context(), req.IP1, req.IP2)
	if err != nil {
		h.respondLookupError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, summary)
}

// respondLookupError maps lookup failures onto HTTP statuses: an address the
// upstream rejected is the caller's mistake and comes back as a plain-text
// 400 carrying the rejection message; everything else is an upstream failure
// reported as an opaque 500.
func (h *IPHandler) respondLookupError(w http.ResponseWriter, err error) {
	if geoip.IsInvalidIP(err) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.respondError(w, http.StatusInternalServerError, "Internal server error")
}

// respondJSON writes a JSON response with the given status code
func (h *IPHandler) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// If encoding fails, we can't change the status code since headers are already sent
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondError writes an error response with consistent formatting
func (h *IPHandler) respondError(w http.ResponseWriter, statusCode int, message string) {
	h.respondJSON(w, statusCode, models.ErrorResponse{Error: message})
}
