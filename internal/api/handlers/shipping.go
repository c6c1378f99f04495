package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kaido-imports/kaido/internal/shipping"
	"github.com/kaido-imports/kaido/internal/state"
)

// Form bounds enforced at this layer. The calculation engine itself only
// rejects negative values.
const (
	maxDimensionCm = 1000.0
	minWeightKg    = 500.0
	maxWeightKg    = 3000.0
)

// QuoteHandler computes a shipping quote and writes quote telemetry behind
// the response. The telemetry write may fail freely; the quote never does
// because of it.
type QuoteHandler struct {
	Store  state.Store
	Logger *zap.SugaredLogger

	// LogTimeout bounds the write-behind. Zero means 3s.
	LogTimeout time.Duration
}

type quoteRequest struct {
	Length      float64 `json:"length"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Weight      float64 `json:"weight"`
	Destination string  `json:"destination"`
}

func (h QuoteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_json", "message": err.Error()})
		return
	}

	if field, reason := validateQuoteBounds(req); field != "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "invalid_dimensions",
			"field":   field,
			"message": reason,
		})
		return
	}

	dims := shipping.Dimensions{
		Length: req.Length,
		Width:  req.Width,
		Height: req.Height,
		Weight: req.Weight,
	}

	calc, err := shipping.Calculate(dims, shipping.OriginJapan, req.Destination)
	if err != nil {
		var invalid shipping.InvalidDimensionsError
		var unknown shipping.UnknownDestinationError
		switch {
		case errors.As(err, &invalid):
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":   "invalid_dimensions",
				"field":   invalid.Field,
				"message": invalid.Reason,
			})
		case errors.As(err, &unknown):
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error": "unknown_destination",
				"code":  unknown.Code,
			})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "calculation_failed", "message": err.Error()})
		}
		return
	}

	h.logQuote(req, calc)

	writeJSON(w, http.StatusOK, calc)
}

// logQuote is fire-and-forget telemetry on its own context: the calling
// request may finish (or die) before the write does.
func (h QuoteHandler) logQuote(req quoteRequest, calc shipping.Calculation) {
	if h.Store == nil {
		return
	}

	timeout := h.LogTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	rec := state.QuoteLogRecord{
		Destination: req.Destination,
		Dimensions: shipping.Dimensions{
			Length: req.Length,
			Width:  req.Width,
			Height: req.Height,
			Weight: req.Weight,
		},
		Calculation: calc,
		CreatedAt:   time.Now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := h.Store.InsertQuoteLog(ctx, rec); err != nil && h.Logger != nil {
			h.Logger.Warnw("quote log write failed", "destination", rec.Destination, "err", err)
		}
	}()
}

func validateQuoteBounds(req quoteRequest) (field, reason string) {
	switch {
	case req.Length <= 0 || req.Length > maxDimensionCm:
		return "length", "must be in (0, 1000] cm"
	case req.Width <= 0 || req.Width > maxDimensionCm:
		return "width", "must be in (0, 1000] cm"
	case req.Height <= 0 || req.Height > maxDimensionCm:
		return "height", "must be in (0, 1000] cm"
	case req.Weight < minWeightKg || req.Weight > maxWeightKg:
		return "weight", "must be in [500, 3000] kg"
	}
	return "", ""
}

// DestinationsHandler serves the fixed destination list.
type DestinationsHandler struct{}

func (DestinationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"destinations": shipping.Destinations(),
	})
}
