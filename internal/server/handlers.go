package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/ethicart/internal/pipeline"
	"github.com/jonathan/ethicart/internal/types"
)

// maxRequestBytes bounds the analyze request body. Product detections are
// small; anything bigger is malformed or hostile.
const maxRequestBytes = 64 << 10

var validate = validator.New()

// locationPayload mirrors types.Coordinate with range validation.
type locationPayload struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// preferencesPayload is the user settings snapshot sent by the extension.
type preferencesPayload struct {
	AvoidedBrands        []string         `json:"avoided_brands" validate:"max=50,dive,min=1,max=100"`
	Location             *locationPayload `json:"location"`
	SupportLocalEnabled  bool             `json:"support_local_enabled"`
	SustainablePreferred bool             `json:"sustainable_preferred"`
}

// analyzeRequest is the body of POST /analyze.
type analyzeRequest struct {
	ProductName  string             `json:"product_name" validate:"required,min=1,max=300"`
	CategoryHint string             `json:"category_hint" validate:"max=100"`
	SiteHostname string             `json:"site_hostname" validate:"max=255"`
	Preferences  preferencesPayload `json:"preferences"`
}

// handleAnalyze runs one product analysis and returns the scored analysis
// plus alternatives.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := decoder.Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid_request", "request body is not valid JSON")
		return
	}

	// Struct validation recurses into Preferences and the optional
	// location payload.
	if err := validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	result, err := s.runner.Run(r.Context(), pipeline.Request{
		Product: types.ProductQuery{
			Name:         req.ProductName,
			CategoryHint: req.CategoryHint,
		},
		Preferences:         req.Preferences.toTypes(),
		CurrentSiteHostname: req.SiteHostname,
	})
	if err != nil {
		s.pipelineError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// pipelineError maps pipeline error types onto distinct HTTP statuses so
// the extension can distinguish "try later" from "misconfigured".
func (s *Server) pipelineError(w http.ResponseWriter, err error) {
	var rateErr *pipeline.RateLimitError
	var netErr *pipeline.NetworkError
	var cfgErr *pipeline.ConfigError

	switch {
	case errors.As(err, &rateErr):
		w.Header().Set("Retry-After", "60")
		s.errorResponse(w, http.StatusTooManyRequests, "provider_rate_limited",
			"An upstream provider is rate limited. Please try again later.")
	case errors.As(err, &netErr):
		s.errorResponse(w, http.StatusBadGateway, "provider_unavailable",
			"An upstream provider could not be reached.")
	case errors.As(err, &cfgErr):
		s.errorResponse(w, http.StatusBadRequest, "invalid_request", cfgErr.Message)
	default:
		log.Printf("[SERVER] analysis failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "internal_error",
			"Product analysis failed.")
	}
}

func (p preferencesPayload) toTypes() types.UserPreferences {
	prefs := types.UserPreferences{
		AvoidedBrands:        p.AvoidedBrands,
		SupportLocalEnabled:  p.SupportLocalEnabled,
		SustainablePreferred: p.SustainablePreferred,
	}
	if p.Location != nil {
		prefs.Location = &types.Coordinate{Lat: p.Location.Lat, Lon: p.Location.Lon}
	}
	return prefs
}
