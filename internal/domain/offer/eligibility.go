package offer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// allPrefix marks subcategories that cover a whole category
// (e.g. "all_electronics").
const allPrefix = "all_"

// FilterEligible returns the offers that apply to a purchase of the given
// amount in the given canonical category. The result is an order-preserving
// subsequence of offers; the input is never modified.
//
// An offer is eligible when its category rule matches AND the purchase
// amount meets the minimum (non-strict). Matching is exact and
// case-sensitive.
func FilterEligible(canonicalCategory string, amount decimal.Decimal, offers []Offer) []Offer {
	var eligible []Offer
	for _, o := range offers {
		if !categoryMatches(o, canonicalCategory) {
			continue
		}
		if amount.LessThan(o.Conditions.MinPurchase) {
			continue
		}
		eligible = append(eligible, o)
	}
	return eligible
}

// categoryMatches reports whether the offer's category rule covers the
// canonical category. Three branches: exact category match, an
// "all_"-prefixed subcategory whose category also matches, and an exact
// subcategory match. The middle branch is subsumed by the first but stays
// separate to keep the matching rules readable as written.
func categoryMatches(o Offer, canonicalCategory string) bool {
	if o.Category == canonicalCategory {
		return true
	}
	if strings.HasPrefix(o.Subcategory, allPrefix) && o.Category == canonicalCategory {
		return true
	}
	return o.Subcategory == canonicalCategory
}
