package purchase

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/endirim/backend/internal/domain/catalog"
	"github.com/endirim/backend/internal/domain/offer"
)

var hundred = decimal.NewFromInt(100)

// Candidate is a priced, eligible offer for a specific purchase.
type Candidate struct {
	OfferID            int
	OfferName          string
	Partner            string
	DiscountType       offer.DiscountType
	DiscountPercentage decimal.Decimal
	DiscountAmount     decimal.Decimal
	FinalPrice         decimal.Decimal
	CashbackAmount     decimal.Decimal
}

// PriceAndRank computes a candidate for every eligible offer and ranks them
// by discount amount, best first. Ties keep the catalog order of eligible,
// so the ranking is deterministic for a fixed catalog. The second return
// value is the best candidate, or nil when eligible is empty.
func PriceAndRank(p catalog.Product, eligible []offer.Offer) ([]Candidate, *Candidate) {
	if len(eligible) == 0 {
		return nil, nil
	}

	ranked := make([]Candidate, len(eligible))
	for i, o := range eligible {
		ranked[i] = price(p, o)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DiscountAmount.GreaterThan(ranked[j].DiscountAmount)
	})

	return ranked, &ranked[0]
}

// price computes the capped discount and final price for one offer.
func price(p catalog.Product, o offer.Offer) Candidate {
	amount := p.Price.Mul(o.Conditions.DiscountValue).Div(hundred)
	if cap := capFor(o.Conditions); cap != nil {
		amount = decimal.Min(amount, *cap)
	}
	amount = amount.Round(2)

	return Candidate{
		OfferID:            o.ID,
		OfferName:          o.CampaignName,
		Partner:            o.PartnerName,
		DiscountType:       emittedType(o.Conditions.DiscountType),
		DiscountPercentage: o.Conditions.DiscountValue,
		DiscountAmount:     amount,
		FinalPrice:         p.Price.Sub(amount).Round(2),
		// Cashback offers are surfaced as instant discounts, so no amount
		// is ever paid out after purchase.
		CashbackAmount: decimal.Zero,
	}
}

// capFor selects the cap that applies to the offer's stored discount type:
// MaxCashback for cashback offers, MaxDiscount for everything else.
// A nil result means the discount is unbounded.
func capFor(c offer.Conditions) *decimal.Decimal {
	if c.DiscountType == offer.DiscountCashback {
		return c.MaxCashback
	}
	return c.MaxDiscount
}

// emittedType normalizes the stored discount type for presentation.
// Cashback becomes an instant price reduction; other types pass through.
func emittedType(stored offer.DiscountType) offer.DiscountType {
	if stored == offer.DiscountCashback {
		return offer.DiscountInstant
	}
	return stored
}
