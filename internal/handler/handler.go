// Package handler exposes the discount resolver and offer recommendation
// services over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/endirim/backend/internal/domain/catalog"
	"github.com/endirim/backend/internal/domain/offer"
	"github.com/endirim/backend/internal/domain/purchase"
	"github.com/endirim/backend/internal/domain/recommend"
)

// Summarizer produces a natural-language summary of structured purchase
// data. A nil Summarizer disables narrative summaries; failures degrade to
// the structured result alone.
type Summarizer interface {
	Summarize(ctx context.Context, data any) (string, error)
}

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// TopN limits how many recommended offers are returned per profile.
	TopN int
}

// Handler routes HTTP requests to the domain services.
type Handler struct {
	products   catalog.Repository
	offers     offer.Repository
	resolver   *purchase.Service
	scorer     recommend.Scorer
	summarizer Summarizer
	demo       *recommend.Profile
	topN       int
}

// NewHandler constructs a Handler. summarizer and demo may be nil: without
// a summarizer, purchase responses carry no narrative; without a demo
// profile, GET /offers/demo reports 404.
func NewHandler(
	cfg Config,
	products catalog.Repository,
	offers offer.Repository,
	resolver *purchase.Service,
	scorer recommend.Scorer,
	summarizer Summarizer,
	demo *recommend.Profile,
) *Handler {
	topN := cfg.TopN
	if topN <= 0 {
		topN = 5
	}
	return &Handler{
		products:   products,
		offers:     offers,
		resolver:   resolver,
		scorer:     scorer,
		summarizer: summarizer,
		demo:       demo,
		topN:       topN,
	}
}

// Routes returns the router for all API endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.root)
	r.Post("/offers", h.recommendOffers)
	r.Get("/offers/demo", h.demoOffers)
	r.Get("/products", h.listProducts)
	r.Post("/products/purchase", h.purchaseProduct)
	return r
}

func (h *Handler) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "endirim",
		"status":  "ok",
	})
}

// writeJSON encodes v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already written; a failed encode only means the
	// client went away.
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends a uniform JSON error body.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"code":    status,
		"message": message,
	})
}

// internalError logs the error and hides details from the client.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
