package recommend

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/endirim/backend/internal/domain/offer"
)

// Scoring weights. Interest match dominates, partner preference and
// affordability refine the ordering, and the discount value breaks up
// otherwise-equal offers.
var (
	weightInterest   = decimal.NewFromInt(3)
	weightPartner    = decimal.NewFromInt(2)
	weightAffordable = decimal.NewFromInt(1)
	hundred          = decimal.NewFromInt(100)
)

// Spending level to assumed purchase budget, in AZN. Offers whose minimum
// purchase exceeds the budget get no affordability credit.
var spendingBudgets = map[string]decimal.Decimal{
	SpendingLow:    decimal.NewFromInt(100),
	SpendingMedium: decimal.NewFromInt(500),
	SpendingHigh:   decimal.NewFromInt(2000),
}

// AffinityScorer is the default rule-based Scorer: a deterministic
// weighted sum of interest match, partner preference, affordability, and
// discount generosity. It holds no state and is safe for concurrent use.
type AffinityScorer struct{}

// NewAffinityScorer creates the default rule-based scorer.
func NewAffinityScorer() *AffinityScorer {
	return &AffinityScorer{}
}

// Score ranks offers for the profile, best first, and returns at most topN.
// Ties keep catalog order, so results are reproducible for a fixed catalog.
func (s *AffinityScorer) Score(_ context.Context, profile Profile, offers []offer.Offer, topN int) ([]ScoredOffer, error) {
	if topN <= 0 || len(offers) == 0 {
		return nil, nil
	}

	scored := make([]ScoredOffer, len(offers))
	for i, o := range offers {
		scored[i] = ScoredOffer{Offer: o, Score: s.scoreOne(profile, o)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score.GreaterThan(scored[j].Score)
	})

	if len(scored) > topN {
		scored = scored[:topN]
	}
	return scored, nil
}

func (s *AffinityScorer) scoreOne(profile Profile, o offer.Offer) decimal.Decimal {
	score := decimal.Zero

	if matchesInterests(profile.Interests, o) {
		score = score.Add(weightInterest)
	}
	if containsFold(profile.PreferredPartners, o.PartnerName) {
		score = score.Add(weightPartner)
	}
	if budget, ok := spendingBudgets[profile.SpendingLevel]; ok {
		if o.Conditions.MinPurchase.LessThanOrEqual(budget) {
			score = score.Add(weightAffordable)
		}
	}

	// Generosity tiebreaker: discount value scaled to (0, 1].
	return score.Add(o.Conditions.DiscountValue.Div(hundred))
}

// matchesInterests reports whether any profile interest names the offer's
// category or subcategory.
func matchesInterests(interests []string, o offer.Offer) bool {
	return containsFold(interests, o.Category) || containsFold(interests, o.Subcategory)
}

func containsFold(haystack []string, needle string) bool {
	if needle == "" {
		return false
	}
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}
