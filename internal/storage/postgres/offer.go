package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/endirim/backend/internal/domain/offer"
)

const (
	listOffersSQL = `SELECT id, campaign_name, partner_name, category, subcategory,
			min_purchase, discount_type, discount_value, max_discount, max_cashback
		FROM offers ORDER BY id`

	upsertOfferSQL = `INSERT INTO offers (id, campaign_name, partner_name, category, subcategory,
			min_purchase, discount_type, discount_value, max_discount, max_cashback)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			campaign_name = EXCLUDED.campaign_name,
			partner_name = EXCLUDED.partner_name,
			category = EXCLUDED.category,
			subcategory = EXCLUDED.subcategory,
			min_purchase = EXCLUDED.min_purchase,
			discount_type = EXCLUDED.discount_type,
			discount_value = EXCLUDED.discount_value,
			max_discount = EXCLUDED.max_discount,
			max_cashback = EXCLUDED.max_cashback`
)

var _ offer.Repository = (*OfferRepository)(nil)

// OfferRepository implements offer.Repository backed by PostgreSQL.
type OfferRepository struct {
	pool *pgxpool.Pool
}

// NewOfferRepository returns an OfferRepository that uses the given pool.
func NewOfferRepository(pool *pgxpool.Pool) *OfferRepository {
	return &OfferRepository{pool: pool}
}

// List returns the full offer catalog ordered by ID. Catalog order is the
// ranking tiebreaker downstream, so the ordering here must stay stable.
func (r *OfferRepository) List(ctx context.Context) ([]offer.Offer, error) {
	rows, err := r.pool.Query(ctx, listOffersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing offers: %w", err)
	}
	return pgx.CollectRows(rows, scanOffer)
}

// Upsert inserts or updates an offer. Used by the seed command.
func (r *OfferRepository) Upsert(ctx context.Context, o offer.Offer) error {
	_, err := r.pool.Exec(ctx, upsertOfferSQL,
		o.ID, o.CampaignName, o.PartnerName, o.Category, o.Subcategory,
		o.Conditions.MinPurchase, string(o.Conditions.DiscountType), o.Conditions.DiscountValue,
		toNull(o.Conditions.MaxDiscount), toNull(o.Conditions.MaxCashback),
	)
	if err != nil {
		return fmt.Errorf("upserting offer %d: %w", o.ID, err)
	}
	return nil
}

func scanOffer(row pgx.CollectableRow) (offer.Offer, error) {
	var (
		o            offer.Offer
		discountType string
		maxDiscount  decimal.NullDecimal
		maxCashback  decimal.NullDecimal
	)
	err := row.Scan(
		&o.ID, &o.CampaignName, &o.PartnerName, &o.Category, &o.Subcategory,
		&o.Conditions.MinPurchase, &discountType, &o.Conditions.DiscountValue,
		&maxDiscount, &maxCashback,
	)
	o.Conditions.DiscountType = offer.DiscountType(discountType)
	o.Conditions.MaxDiscount = fromNull(maxDiscount)
	o.Conditions.MaxCashback = fromNull(maxCashback)
	return o, err
}

func toNull(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func fromNull(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	return &d.Decimal
}
