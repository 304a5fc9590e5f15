package offer

import (
	"context"

	"github.com/shopspring/decimal"
)

// DiscountType enumerates the discount strategies stored on offers.
type DiscountType string

const (
	// DiscountPercentage reduces the price by a percentage at purchase time.
	DiscountPercentage DiscountType = "percentage_discount"
	// DiscountCashback is stored on offers but always surfaced to the
	// purchaser as DiscountInstant. See purchase.PriceAndRank.
	DiscountCashback DiscountType = "cashback"
	// DiscountInstant is the label emitted for cashback offers: the amount
	// is taken off the price immediately, never paid out after purchase.
	DiscountInstant DiscountType = "instant_discount"
)

// Conditions holds an offer's eligibility gate and discount rule.
// MaxDiscount caps percentage discounts, MaxCashback caps cashback offers;
// a nil cap means the computed amount is unbounded.
type Conditions struct {
	MinPurchase   decimal.Decimal
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	MaxDiscount   *decimal.Decimal
	MaxCashback   *decimal.Decimal
}

// Offer is a time-bound promotional campaign from a partner. Offers are
// immutable once loaded from the catalog.
type Offer struct {
	ID           int
	CampaignName string
	PartnerName  string
	Category     string
	Subcategory  string
	Conditions   Conditions
}

// Repository provides read access to the offer catalog.
type Repository interface {
	List(ctx context.Context) ([]Offer, error)
}
