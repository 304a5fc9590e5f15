// Package catalogfile serves the product and offer catalogs from JSON
// snapshot files, the same format the data pipeline exports. Snapshots are
// loaded once at startup and never mutated, so reads need no locking.
package catalogfile

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"

	"github.com/endirim/backend/internal/domain/catalog"
	"github.com/endirim/backend/internal/domain/offer"
	"github.com/endirim/backend/internal/domain/recommend"
)

// Store holds an immutable in-memory snapshot of both catalogs plus the
// bundled demo user profile.
type Store struct {
	products []catalog.Product
	byID     map[int]*catalog.Product
	offers   []offer.Offer
	demo     *recommend.Profile
}

// Open loads the product and offer snapshots. Files ending in .gz are
// decompressed transparently.
func Open(productsPath, offersPath string) (*Store, error) {
	s := &Store{byID: make(map[int]*catalog.Product)}

	var products []productJSON
	if err := readSnapshot(productsPath, &products); err != nil {
		return nil, errors.Wrap(err, "load products")
	}
	s.products = make([]catalog.Product, len(products))
	for i, p := range products {
		s.products[i] = p.toDomain()
	}
	for i := range s.products {
		s.byID[s.products[i].ID] = &s.products[i]
	}

	var offersFile offersSnapshot
	if err := readSnapshot(offersPath, &offersFile); err != nil {
		return nil, errors.Wrap(err, "load offers")
	}
	s.offers = make([]offer.Offer, len(offersFile.MonthlyOffers))
	for i, o := range offersFile.MonthlyOffers {
		s.offers[i] = o.toDomain()
	}
	if offersFile.DemoUser != nil {
		p := offersFile.DemoUser.toDomain()
		s.demo = &p
	}

	return s, nil
}

// Products returns the catalog.Repository view of the snapshot.
func (s *Store) Products() *ProductRepository { return &ProductRepository{s: s} }

// Offers returns the offer.Repository view of the snapshot.
func (s *Store) Offers() *OfferRepository { return &OfferRepository{s: s} }

// DemoProfile returns the bundled demo user profile, if the offers
// snapshot carries one.
func (s *Store) DemoProfile() (recommend.Profile, bool) {
	if s.demo == nil {
		return recommend.Profile{}, false
	}
	return *s.demo, true
}

var _ catalog.Repository = (*ProductRepository)(nil)

// ProductRepository implements catalog.Repository over the snapshot.
type ProductRepository struct {
	s *Store
}

// List returns all products in snapshot order.
func (r *ProductRepository) List(_ context.Context) ([]catalog.Product, error) {
	out := make([]catalog.Product, len(r.s.products))
	copy(out, r.s.products)
	return out, nil
}

// GetByID returns a single product, or catalog.ErrNotFound.
func (r *ProductRepository) GetByID(_ context.Context, id int) (*catalog.Product, error) {
	p, ok := r.s.byID[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

var _ offer.Repository = (*OfferRepository)(nil)

// OfferRepository implements offer.Repository over the snapshot.
type OfferRepository struct {
	s *Store
}

// List returns all offers in snapshot order.
func (r *OfferRepository) List(_ context.Context) ([]offer.Offer, error) {
	out := make([]offer.Offer, len(r.s.offers))
	copy(out, r.s.offers)
	return out, nil
}

// readSnapshot decodes a JSON file into v, decompressing .gz files with
// pgzip first.
func readSnapshot(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	if err := json.NewDecoder(r).Decode(v); err != nil {
		return errors.Wrapf(err, "parse %s", path)
	}
	return nil
}
