package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/endirim/backend/internal/domain/catalog"
	"github.com/endirim/backend/internal/domain/purchase"
)

// purchaseRequest accepts user_id and product_id as either JSON numbers or
// strings, matching the clients already in the field.
type purchaseRequest struct {
	UserID    any `json:"user_id"`
	ProductID any `json:"product_id"`
}

type candidateDTO struct {
	OfferID            int     `json:"offer_id"`
	OfferName          string  `json:"offer_name"`
	Partner            string  `json:"partner"`
	DiscountType       string  `json:"discount_type"`
	DiscountPercentage float64 `json:"discount_percentage"`
	DiscountAmount     float64 `json:"discount_amount"`
	FinalPrice         float64 `json:"final_price"`
	CashbackAmount     float64 `json:"cashback_amount"`
}

func toCandidateDTO(c purchase.Candidate) candidateDTO {
	return candidateDTO{
		OfferID:            c.OfferID,
		OfferName:          c.OfferName,
		Partner:            c.Partner,
		DiscountType:       string(c.DiscountType),
		DiscountPercentage: c.DiscountPercentage.InexactFloat64(),
		DiscountAmount:     c.DiscountAmount.InexactFloat64(),
		FinalPrice:         c.FinalPrice.InexactFloat64(),
		CashbackAmount:     c.CashbackAmount.InexactFloat64(),
	}
}

type purchaseResultDTO struct {
	UserID          string         `json:"user_id"`
	Product         productDTO     `json:"product"`
	Status          string         `json:"status"`
	OriginalPrice   float64        `json:"original_price"`
	DiscountApplied bool           `json:"discount_applied"`
	OfferDetails    *candidateDTO  `json:"offer_details,omitempty"`
	AllOffers       []candidateDTO `json:"all_applicable_offers,omitempty"`
	Message         string         `json:"message"`
}

func toPurchaseResultDTO(res *purchase.Result) purchaseResultDTO {
	dto := purchaseResultDTO{
		UserID:          res.UserID,
		Product:         toProductDTO(res.Product),
		Status:          res.Status,
		OriginalPrice:   res.OriginalPrice.InexactFloat64(),
		DiscountApplied: res.DiscountApplied,
		Message:         res.Message,
	}
	if res.BestOffer != nil {
		best := toCandidateDTO(*res.BestOffer)
		dto.OfferDetails = &best
	}
	if len(res.Offers) > 0 {
		dto.AllOffers = make([]candidateDTO, len(res.Offers))
		for i, c := range res.Offers {
			dto.AllOffers[i] = toCandidateDTO(c)
		}
	}
	return dto
}

// purchaseEnvelope wraps the structured result with the narrative summary
// outcome. A summarizer fault never discards the structured data.
type purchaseEnvelope struct {
	Status       string            `json:"status"`
	OriginalData purchaseResultDTO `json:"original_data"`
	Summary      string            `json:"summary,omitempty"`
	Message      string            `json:"message,omitempty"`
}

// purchaseProduct resolves the applicable discount for a purchase and
// attaches an optional narrative summary.
func (h *Handler) purchaseProduct(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var req purchaseRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid purchase body")
		return
	}

	productID, err := parseProductID(req.ProductID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "product_id must be an integer")
		return
	}

	result, err := h.resolver.Resolve(r.Context(), purchase.ResolveRequest{
		UserID:    stringValue(req.UserID),
		ProductID: productID,
	})
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"error":      "Product not found",
				"product_id": productID,
			})
			return
		}
		internalError(w, r, err)
		return
	}

	envelope := purchaseEnvelope{
		Status:       "success",
		OriginalData: toPurchaseResultDTO(result),
	}

	if h.summarizer != nil {
		summary, err := h.summarizer.Summarize(r.Context(), envelope.OriginalData)
		if err != nil {
			zctx.From(r.Context()).Warn("summary generation failed", zap.Error(err))
			envelope.Status = "error"
			envelope.Message = err.Error()
		} else {
			envelope.Summary = summary
		}
	}

	writeJSON(w, http.StatusOK, envelope)
}

// parseProductID coerces the identifier to an int. Clients send both
// numeric and quoted values, so "3" and 3 are equally valid; "3.0" is not.
func parseProductID(v any) (int, error) {
	s := strings.TrimSpace(stringValue(v))
	if s == "" {
		return 0, errors.New("empty product id")
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrap(err, "parse product id")
	}
	return id, nil
}

// stringValue flattens a decoded JSON scalar to its textual form.
func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
