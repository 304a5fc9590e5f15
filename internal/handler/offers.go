package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/endirim/backend/internal/domain/offer"
	"github.com/endirim/backend/internal/domain/recommend"
)

type profileRequest struct {
	Name              string          `json:"name"`
	Age               int             `json:"age"`
	City              string          `json:"city"`
	Interests         []string        `json:"interests"`
	SpendingLevel     string          `json:"spending_level"`
	AvgMonthlySpend   decimal.Decimal `json:"avg_monthly_spend"`
	PreferredPartners []string        `json:"preferred_partners"`
}

func (p profileRequest) toDomain() recommend.Profile {
	return recommend.Profile{
		Name:              p.Name,
		Age:               p.Age,
		City:              p.City,
		Interests:         p.Interests,
		SpendingLevel:     p.SpendingLevel,
		AvgMonthlySpend:   p.AvgMonthlySpend,
		PreferredPartners: p.PreferredPartners,
	}
}

type conditionsDTO struct {
	MinPurchase   float64  `json:"min_purchase"`
	DiscountType  string   `json:"discount_type"`
	DiscountValue float64  `json:"discount_value"`
	MaxDiscount   *float64 `json:"max_discount,omitempty"`
	MaxCashback   *float64 `json:"max_cashback,omitempty"`
}

type recommendedOfferDTO struct {
	ID           int           `json:"id"`
	CampaignName string        `json:"campaign_name"`
	PartnerName  string        `json:"partner_name"`
	Category     string        `json:"category"`
	Subcategory  string        `json:"subcategory,omitempty"`
	Conditions   conditionsDTO `json:"conditions"`
	Score        float64       `json:"score"`
}

func toRecommendedOfferDTO(s recommend.ScoredOffer) recommendedOfferDTO {
	return recommendedOfferDTO{
		ID:           s.Offer.ID,
		CampaignName: s.Offer.CampaignName,
		PartnerName:  s.Offer.PartnerName,
		Category:     s.Offer.Category,
		Subcategory:  s.Offer.Subcategory,
		Conditions:   toConditionsDTO(s.Offer.Conditions),
		Score:        s.Score.InexactFloat64(),
	}
}

func toConditionsDTO(c offer.Conditions) conditionsDTO {
	dto := conditionsDTO{
		MinPurchase:   c.MinPurchase.InexactFloat64(),
		DiscountType:  string(c.DiscountType),
		DiscountValue: c.DiscountValue.InexactFloat64(),
	}
	if c.MaxDiscount != nil {
		v := c.MaxDiscount.InexactFloat64()
		dto.MaxDiscount = &v
	}
	if c.MaxCashback != nil {
		v := c.MaxCashback.InexactFloat64()
		dto.MaxCashback = &v
	}
	return dto
}

// recommendOffers scores the offer catalog against the profile in the
// request body and returns the top matches.
func (h *Handler) recommendOffers(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile body")
		return
	}

	h.respondRecommendations(w, r, req.toDomain(), false)
}

// demoOffers returns recommendations for the demo profile bundled with the
// catalog snapshot.
func (h *Handler) demoOffers(w http.ResponseWriter, r *http.Request) {
	if h.demo == nil {
		writeError(w, http.StatusNotFound, "no demo profile available")
		return
	}

	h.respondRecommendations(w, r, *h.demo, true)
}

func (h *Handler) respondRecommendations(w http.ResponseWriter, r *http.Request, profile recommend.Profile, includeUser bool) {
	offers, err := h.offers.List(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}

	scored, err := h.scorer.Score(r.Context(), profile, offers, h.topN)
	if err != nil {
		internalError(w, r, err)
		return
	}

	dtos := make([]recommendedOfferDTO, len(scored))
	for i, s := range scored {
		dtos[i] = toRecommendedOfferDTO(s)
	}

	resp := map[string]any{"recommended_offers": dtos}
	if includeUser {
		resp["user"] = profile.Name
	}
	writeJSON(w, http.StatusOK, resp)
}
