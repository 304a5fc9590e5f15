package catalogfile

import (
	"github.com/shopspring/decimal"

	"github.com/endirim/backend/internal/domain/catalog"
	"github.com/endirim/backend/internal/domain/offer"
	"github.com/endirim/backend/internal/domain/recommend"
)

// Wire shapes of the snapshot files. The offers file keeps the exporter's
// historical uppercase keys.

type productJSON struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
}

func (p productJSON) toDomain() catalog.Product {
	return catalog.Product{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
		Image:    p.Image,
	}
}

type offersSnapshot struct {
	MonthlyOffers []offerJSON  `json:"MONTHLY_OFFERS"`
	DemoUser      *profileJSON `json:"DEMO_USER"`
}

type offerJSON struct {
	ID           int            `json:"id"`
	CampaignName string         `json:"campaign_name"`
	PartnerName  string         `json:"partner_name"`
	Category     string         `json:"category"`
	Subcategory  string         `json:"subcategory"`
	Conditions   conditionsJSON `json:"conditions"`
}

type conditionsJSON struct {
	MinPurchase   decimal.Decimal  `json:"min_purchase"`
	DiscountType  string           `json:"discount_type"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	MaxDiscount   *decimal.Decimal `json:"max_discount,omitempty"`
	MaxCashback   *decimal.Decimal `json:"max_cashback,omitempty"`
}

func (o offerJSON) toDomain() offer.Offer {
	return offer.Offer{
		ID:           o.ID,
		CampaignName: o.CampaignName,
		PartnerName:  o.PartnerName,
		Category:     o.Category,
		Subcategory:  o.Subcategory,
		Conditions: offer.Conditions{
			MinPurchase:   o.Conditions.MinPurchase,
			DiscountType:  offer.DiscountType(o.Conditions.DiscountType),
			DiscountValue: o.Conditions.DiscountValue,
			MaxDiscount:   o.Conditions.MaxDiscount,
			MaxCashback:   o.Conditions.MaxCashback,
		},
	}
}

type profileJSON struct {
	Name              string          `json:"name"`
	Age               int             `json:"age"`
	City              string          `json:"city"`
	Interests         []string        `json:"interests"`
	SpendingLevel     string          `json:"spending_level"`
	AvgMonthlySpend   decimal.Decimal `json:"avg_monthly_spend"`
	PreferredPartners []string        `json:"preferred_partners"`
}

func (p profileJSON) toDomain() recommend.Profile {
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
