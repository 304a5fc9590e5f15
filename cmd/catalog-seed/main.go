// Command catalog-seed loads the JSON catalog snapshot into PostgreSQL.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/endirim/backend/internal/storage/catalogfile"
	"github.com/endirim/backend/internal/storage/postgres"
)

func main() {
	var (
		databaseURL  string
		productsFile string
		offersFile   string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&offersFile, "offers-file", "db/seed/offers.json", "path to offers JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, offersFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, offersFile string) error {
	slog.Info("reading catalog snapshot",
		slog.String("products", productsFile),
		slog.String("offers", offersFile),
	)

	store, err := catalogfile.Open(productsFile, offersFile)
	if err != nil {
		return errors.Wrap(err, "open catalog snapshot")
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return seedProducts(gctx, postgres.NewProductRepository(pool), store)
	})
	g.Go(func() error {
		return seedOffers(gctx, postgres.NewOfferRepository(pool), store)
	})
	return g.Wait()
}

func seedProducts(ctx context.Context, repo *postgres.ProductRepository, store *catalogfile.Store) error {
	products, err := store.Products().List(ctx)
	if err != nil {
		return errors.Wrap(err, "list products")
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, p := range products {
		if err := repo.Upsert(ctx, p); err != nil {
			return errors.Wrapf(err, "upsert product %d", p.ID)
		}

		slog.Info("upserted product", slog.Int("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}

func seedOffers(ctx context.Context, repo *postgres.OfferRepository, store *catalogfile.Store) error {
	offers, err := store.Offers().List(ctx)
	if err != nil {
		return errors.Wrap(err, "list offers")
	}

	slog.Info("upserting offers", slog.Int("count", len(offers)))

	for _, o := range offers {
		if err := repo.Upsert(ctx, o); err != nil {
			return errors.Wrapf(err, "upsert offer %d", o.ID)
		}

		slog.Info("upserted offer", slog.Int("id", o.ID), slog.String("campaign", o.CampaignName))
	}

	return nil
}
