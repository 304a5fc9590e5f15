package recommend

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/endirim/backend/internal/domain/offer"
)

// Profile describes the user a recommendation is computed for.
type Profile struct {
	Name              string
	Age               int
	City              string
	Interests         []string
	SpendingLevel     string
	AvgMonthlySpend   decimal.Decimal
	PreferredPartners []string
}

// Spending levels as stored on profiles.
const (
	SpendingLow    = "low"
	SpendingMedium = "medium"
	SpendingHigh   = "high"
)

// ScoredOffer pairs an offer with its relevance score for a profile.
type ScoredOffer struct {
	Offer offer.Offer
	Score decimal.Decimal
}

// Scorer ranks offers by relevance for a user profile. Implementations may
// use any strategy (rule-based, model-based); callers only rely on the
// result being at most topN offers drawn from the given slice, best first.
type Scorer interface {
	Score(ctx context.Context, profile Profile, offers []offer.Offer, topN int) ([]ScoredOffer, error)
}
