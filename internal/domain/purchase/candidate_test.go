package purchase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/endirim/backend/internal/domain/catalog"
	"github.com/endirim/backend/internal/domain/offer"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func phone(price string) catalog.Product {
	return catalog.Product{
		ID:       1,
		Name:     "Smartfon",
		Category: "telefon",
		Price:    dec(price),
	}
}

func TestPriceAndRank_PercentageNoCap(t *testing.T) {
	o := offer.Offer{
		ID:           10,
		CampaignName: "Tech Week",
		PartnerName:  "Kontakt",
		Category:     "electronics",
		Conditions: offer.Conditions{
			MinPurchase:   dec("50"),
			DiscountType:  offer.DiscountPercentage,
			DiscountValue: dec("10"),
		},
	}

	ranked, best := PriceAndRank(phone("100"), []offer.Offer{o})

	require.Len(t, ranked, 1)
	require.NotNil(t, best)
	assert.Equal(t, 10, best.OfferID)
	assert.Equal(t, offer.DiscountPercentage, best.DiscountType)
	assert.True(t, dec("10.00").Equal(best.DiscountAmount), "got %s", best.DiscountAmount)
	assert.True(t, dec("90.00").Equal(best.FinalPrice), "got %s", best.FinalPrice)
	assert.True(t, decimal.Zero.Equal(best.CashbackAmount))
}

func TestPriceAndRank_CashbackCappedAndNormalized(t *testing.T) {
	o := offer.Offer{
		ID:           11,
		CampaignName: "Cashback Fest",
		PartnerName:  "Umico",
		Category:     "electronics",
		Conditions: offer.Conditions{
			MinPurchase:   dec("50"),
			DiscountType:  offer.DiscountCashback,
			DiscountValue: dec("20"),
			MaxCashback:   decPtr("15"),
		},
	}

	ranked, best := PriceAndRank(phone("100"), []offer.Offer{o})

	require.Len(t, ranked, 1)
	require.NotNil(t, best)
	// Raw 20% of 100 = 20, capped to 15, emitted as an instant discount.
	assert.Equal(t, offer.DiscountInstant, best.DiscountType)
	assert.True(t, dec("15.00").Equal(best.DiscountAmount), "got %s", best.DiscountAmount)
	assert.True(t, dec("85.00").Equal(best.FinalPrice), "got %s", best.FinalPrice)
	assert.True(t, decimal.Zero.Equal(best.CashbackAmount))
}

func TestPriceAndRank_CapSelection(t *testing.T) {
	tests := []struct {
		name       string
		conditions offer.Conditions
		wantAmount string
	}{
		{
			name: "percentage uses max_discount",
			conditions: offer.Conditions{
				DiscountType:  offer.DiscountPercentage,
				DiscountValue: dec("50"),
				MaxDiscount:   decPtr("30"),
				// The cashback cap must be ignored for percentage offers.
				MaxCashback: decPtr("5"),
			},
			wantAmount: "30.00",
		},
		{
			name: "cashback uses max_cashback",
			conditions: offer.Conditions{
				DiscountType:  offer.DiscountCashback,
				DiscountValue: dec("50"),
				MaxDiscount:   decPtr("5"),
				MaxCashback:   decPtr("30"),
			},
			wantAmount: "30.00",
		},
		{
			name: "absent cap leaves the discount unbounded",
			conditions: offer.Conditions{
				DiscountType:  offer.DiscountPercentage,
				DiscountValue: dec("50"),
			},
			wantAmount: "100.00",
		},
		{
			name: "cap above the raw discount does not clamp",
			conditions: offer.Conditions{
				DiscountType:  offer.DiscountPercentage,
				DiscountValue: dec("10"),
				MaxDiscount:   decPtr("500"),
			},
			wantAmount: "20.00",
		},
		{
			name: "unknown stored type treated as percentage for cap selection",
			conditions: offer.Conditions{
				DiscountType:  offer.DiscountType("loyalty_bonus"),
				DiscountValue: dec("50"),
				MaxDiscount:   decPtr("25"),
			},
			wantAmount: "25.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := offer.Offer{ID: 1, Conditions: tt.conditions}

			ranked, best := PriceAndRank(phone("200"), []offer.Offer{o})

			require.Len(t, ranked, 1)
			assert.True(t, dec(tt.wantAmount).Equal(best.DiscountAmount),
				"expected %s, got %s", tt.wantAmount, best.DiscountAmount)
		})
	}
}

func TestPriceAndRank_NonCashbackTypePassesThrough(t *testing.T) {
	o := offer.Offer{
		ID: 1,
		Conditions: offer.Conditions{
			DiscountType:  offer.DiscountType("loyalty_bonus"),
			DiscountValue: dec("10"),
		},
	}

	_, best := PriceAndRank(phone("100"), []offer.Offer{o})

	require.NotNil(t, best)
	assert.Equal(t, offer.DiscountType("loyalty_bonus"), best.DiscountType)
}

func TestPriceAndRank_Rounding(t *testing.T) {
	// 33.335% of 99.99 = 33.331... rounds to 2 decimal places.
	o := offer.Offer{
		ID: 1,
		Conditions: offer.Conditions{
			DiscountType:  offer.DiscountPercentage,
			DiscountValue: dec("33.335"),
		},
	}

	_, best := PriceAndRank(phone("99.99"), []offer.Offer{o})

	require.NotNil(t, best)
	assert.Equal(t, int32(-2), best.DiscountAmount.Exponent())
	assert.True(t, best.DiscountAmount.Add(best.FinalPrice).Equal(dec("99.99")))
}

func TestPriceAndRank_RanksByAmountDescending(t *testing.T) {
	offers := []offer.Offer{
		{ID: 1, Conditions: offer.Conditions{DiscountType: offer.DiscountPercentage, DiscountValue: dec("10")}},
		{ID: 2, Conditions: offer.Conditions{DiscountType: offer.DiscountPercentage, DiscountValue: dec("15")}},
		{ID: 3, Conditions: offer.Conditions{DiscountType: offer.DiscountPercentage, DiscountValue: dec("5")}},
	}

	ranked, best := PriceAndRank(phone("100"), offers)

	require.Len(t, ranked, 3)
	assert.Equal(t, 2, best.OfferID)
	for i := 0; i < len(ranked)-1; i++ {
		assert.True(t, ranked[i].DiscountAmount.GreaterThanOrEqual(ranked[i+1].DiscountAmount),
			"rank %d (%s) must be >= rank %d (%s)",
			i, ranked[i].DiscountAmount, i+1, ranked[i+1].DiscountAmount)
	}
}

func TestPriceAndRank_TiesKeepCatalogOrder(t *testing.T) {
	// Same discount amount three times; the catalog order must survive.
	same := offer.Conditions{DiscountType: offer.DiscountPercentage, DiscountValue: dec("10")}
	offers := []offer.Offer{
		{ID: 7, Conditions: same},
		{ID: 3, Conditions: same},
		{ID: 9, Conditions: same},
	}

	ranked, best := PriceAndRank(phone("100"), offers)

	require.Len(t, ranked, 3)
	assert.Equal(t, 7, best.OfferID)
	assert.Equal(t, []int{7, 3, 9}, []int{ranked[0].OfferID, ranked[1].OfferID, ranked[2].OfferID})
}

func TestPriceAndRank_EmptyEligibleSet(t *testing.T) {
	ranked, best := PriceAndRank(phone("100"), nil)

	assert.Nil(t, ranked)
	assert.Nil(t, best)
}

func TestPriceAndRank_Deterministic(t *testing.T) {
	offers := []offer.Offer{
		{ID: 1, Conditions: offer.Conditions{DiscountType: offer.DiscountCashback, DiscountValue: dec("20"), MaxCashback: decPtr("15")}},
		{ID: 2, Conditions: offer.Conditions{DiscountType: offer.DiscountPercentage, DiscountValue: dec("15")}},
		{ID: 3, Conditions: offer.Conditions{DiscountType: offer.DiscountPercentage, DiscountValue: dec("15")}},
	}

	first, _ := PriceAndRank(phone("100"), offers)
	for range 10 {
		again, _ := PriceAndRank(phone("100"), offers)
		require.Equal(t, first, again)
	}
}
