package purchase

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/endirim/backend/internal/domain/catalog"
	"github.com/endirim/backend/internal/domain/offer"
)

// StatusPurchased is the purchase status recorded on every Result.
const StatusPurchased = "purchased"

// ResolveRequest identifies the purchase being resolved.
type ResolveRequest struct {
	UserID    string
	ProductID int
}

// Result is the structured outcome of a discount resolution. Exactly one
// Result is produced per request; BestOffer is always drawn from Offers.
type Result struct {
	UserID          string
	Product         catalog.Product
	Status          string
	OriginalPrice   decimal.Decimal
	DiscountApplied bool
	BestOffer       *Candidate
	Offers          []Candidate
	Message         string
}

// Service resolves which offer (if any) applies to a product purchase.
// It is stateless: every call reads immutable catalog snapshots, so
// concurrent use needs no locking.
type Service struct {
	products catalog.Repository
	offers   offer.Repository
}

// NewService creates a resolver backed by the given catalog repositories.
func NewService(products catalog.Repository, offers offer.Repository) *Service {
	return &Service{products: products, offers: offers}
}

// Resolve looks up the product, filters the offer catalog down to eligible
// offers, prices and ranks them, and returns the assembled result.
// A missing product surfaces as catalog.ErrNotFound; an empty eligible set
// is a successful no-discount outcome, not an error.
func (s *Service) Resolve(ctx context.Context, req ResolveRequest) (*Result, error) {
	p, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, catalog.ErrNotFound
		}
		return nil, errors.Wrap(err, "get product")
	}

	offers, err := s.offers.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list offers")
	}

	canonical := catalog.NormalizeCategory(p.Category)
	eligible := offer.FilterEligible(canonical, p.Price, offers)
	ranked, best := PriceAndRank(*p, eligible)

	result := &Result{
		UserID:        req.UserID,
		Product:       *p,
		Status:        StatusPurchased,
		OriginalPrice: p.Price,
		BestOffer:     best,
		Offers:        ranked,
	}

	if best != nil {
		result.DiscountApplied = true
		result.Message = fmt.Sprintf(
			"Your purchase qualifies for '%s' from %s! You will get %s%% %s (%s AZN)",
			best.OfferName, best.Partner,
			best.DiscountPercentage, best.DiscountType, best.DiscountAmount,
		)
	} else {
		result.Message = "No discount offers available for this product"
	}

	return result, nil
}
