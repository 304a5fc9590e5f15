package purchase

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/endirim/backend/internal/domain/catalog"
	"github.com/endirim/backend/internal/domain/offer"
)

// --- Mock implementations ---

type mockProductRepo struct {
	byID   map[int]*catalog.Product
	getErr error
}

func (m *mockProductRepo) List(_ context.Context) ([]catalog.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id int) (*catalog.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.byID[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return p, nil
}

type mockOfferRepo struct {
	offers  []offer.Offer
	listErr error
}

func (m *mockOfferRepo) List(_ context.Context) ([]offer.Offer, error) {
	return m.offers, m.listErr
}

// --- Helpers ---

func newProductRepo(products ...catalog.Product) *mockProductRepo {
	byID := make(map[int]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return &mockProductRepo{byID: byID}
}

func percentOffer(id int, category string, minPurchase, value string) offer.Offer {
	return offer.Offer{
		ID:           id,
		CampaignName: "Campaign " + category,
		PartnerName:  "Partner",
		Category:     category,
		Conditions: offer.Conditions{
			MinPurchase:   dec(minPurchase),
			DiscountType:  offer.DiscountPercentage,
			DiscountValue: dec(value),
		},
	}
}

// --- Tests ---

func TestResolve_ProductNotFound(t *testing.T) {
	svc := NewService(newProductRepo(), &mockOfferRepo{})

	_, err := svc.Resolve(context.Background(), ResolveRequest{UserID: "u1", ProductID: 42})

	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestResolve_ProductRepoError(t *testing.T) {
	svc := NewService(&mockProductRepo{getErr: errors.New("db down")}, &mockOfferRepo{})

	_, err := svc.Resolve(context.Background(), ResolveRequest{UserID: "u1", ProductID: 1})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "get product")
}

func TestResolve_OfferRepoError(t *testing.T) {
	svc := NewService(newProductRepo(phone("100")), &mockOfferRepo{listErr: errors.New("db down")})

	_, err := svc.Resolve(context.Background(), ResolveRequest{UserID: "u1", ProductID: 1})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "list offers")
}

func TestResolve_BestOfferApplied(t *testing.T) {
	// Product category "telefon" normalizes to "electronics".
	offers := &mockOfferRepo{offers: []offer.Offer{
		percentOffer(1, "electronics", "50", "10"),
		percentOffer(2, "electronics", "50", "15"),
		percentOffer(3, "clothing", "0", "50"),
	}}
	svc := NewService(newProductRepo(phone("100")), offers)

	result, err := svc.Resolve(context.Background(), ResolveRequest{UserID: "u1", ProductID: 1})

	require.NoError(t, err)
	assert.Equal(t, "u1", result.UserID)
	assert.Equal(t, StatusPurchased, result.Status)
	assert.True(t, dec("100").Equal(result.OriginalPrice))
	assert.True(t, result.DiscountApplied)
	require.NotNil(t, result.BestOffer)
	assert.Equal(t, 2, result.BestOffer.OfferID)
	assert.True(t, dec("15.00").Equal(result.BestOffer.DiscountAmount))
	require.Len(t, result.Offers, 2)
	assert.Equal(t, result.Offers[0], *result.BestOffer)
	assert.Contains(t, result.Message, "Campaign electronics")
	assert.Contains(t, result.Message, "15% percentage_discount")
	assert.Contains(t, result.Message, "AZN")
}

func TestResolve_MinPurchaseExcludesOffer(t *testing.T) {
	offers := &mockOfferRepo{offers: []offer.Offer{
		{
			ID:          1,
			Category:    "electronics",
			Subcategory: "all_electronics",
			Conditions: offer.Conditions{
				MinPurchase:   dec("200"),
				DiscountType:  offer.DiscountPercentage,
				DiscountValue: dec("10"),
			},
		},
	}}
	svc := NewService(newProductRepo(phone("100")), offers)

	result, err := svc.Resolve(context.Background(), ResolveRequest{UserID: "u1", ProductID: 1})

	require.NoError(t, err)
	assert.False(t, result.DiscountApplied)
	assert.Nil(t, result.BestOffer)
	assert.Empty(t, result.Offers)
	assert.Equal(t, "No discount offers available for this product", result.Message)
}

func TestResolve_NoMatchingCategory(t *testing.T) {
	offers := &mockOfferRepo{offers: []offer.Offer{
		percentOffer(1, "clothing", "0", "10"),
	}}
	svc := NewService(newProductRepo(phone("100")), offers)

	result, err := svc.Resolve(context.Background(), ResolveRequest{UserID: "u1", ProductID: 1})

	require.NoError(t, err)
	assert.False(t, result.DiscountApplied)
	assert.Nil(t, result.BestOffer)
	assert.Equal(t, "No discount offers available for this product", result.Message)
}

func TestResolve_EligibilityMonotonicInPrice(t *testing.T) {
	// Raising the price past the threshold can only make the offer
	// eligible, never the reverse.
	offers := &mockOfferRepo{offers: []offer.Offer{
		percentOffer(1, "electronics", "150", "10"),
	}}

	cheap := phone("100")
	expensive := phone("150")
	expensive.ID = 2

	svc := NewService(newProductRepo(cheap, expensive), offers)

	below, err := svc.Resolve(context.Background(), ResolveRequest{UserID: "u1", ProductID: 1})
	require.NoError(t, err)
	assert.False(t, below.DiscountApplied)

	atThreshold, err := svc.Resolve(context.Background(), ResolveRequest{UserID: "u1", ProductID: 2})
	require.NoError(t, err)
	assert.True(t, atThreshold.DiscountApplied)
}

func TestResolve_Deterministic(t *testing.T) {
	offers := &mockOfferRepo{offers: []offer.Offer{
		percentOffer(1, "electronics", "50", "15"),
		percentOffer(2, "electronics", "50", "15"),
		percentOffer(3, "electronics", "50", "10"),
	}}
	svc := NewService(newProductRepo(phone("100")), offers)

	first, err := svc.Resolve(context.Background(), ResolveRequest{UserID: "u1", ProductID: 1})
	require.NoError(t, err)

	for range 5 {
		again, err := svc.Resolve(context.Background(), ResolveRequest{UserID: "u1", ProductID: 1})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	// Equal amounts ranked in catalog order.
	require.Len(t, first.Offers, 3)
	assert.Equal(t, 1, first.Offers[0].OfferID)
	assert.Equal(t, 2, first.Offers[1].OfferID)
}

func TestResolve_CashbackSurfacedAsInstantDiscount(t *testing.T) {
	offers := &mockOfferRepo{offers: []offer.Offer{
		{
			ID:           1,
			CampaignName: "Cashback Fest",
			PartnerName:  "Umico",
			Category:     "electronics",
			Conditions: offer.Conditions{
				MinPurchase:   dec("50"),
				DiscountType:  offer.DiscountCashback,
				DiscountValue: dec("20"),
				MaxCashback:   decPtr("15"),
			},
		},
	}}
	svc := NewService(newProductRepo(phone("100")), offers)

	result, err := svc.Resolve(context.Background(), ResolveRequest{UserID: "u1", ProductID: 1})

	require.NoError(t, err)
	require.NotNil(t, result.BestOffer)
	assert.Equal(t, offer.DiscountInstant, result.BestOffer.DiscountType)
	assert.True(t, decimal.Zero.Equal(result.BestOffer.CashbackAmount))
	assert.Contains(t, result.Message, "instant_discount")
}
