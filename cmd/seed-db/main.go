// Command seed-db runs migrations and loads the initial catalog and site
// settings. Safe to re-run: products are upserted and an existing settings
// row is left untouched.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/inkpaper/atelier-api/internal/domain/product"
	"github.com/inkpaper/atelier-api/internal/domain/settings"
	"github.com/inkpaper/atelier-api/internal/repository"
)

type productJSON struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category"`
	Size          *string         `json:"size"`
	PaperType     *string         `json:"paper_type"`
	ImageURL      *string         `json:"image_url"`
	StockQuantity int             `json:"stock_quantity"`
	IsAvailable   bool            `json:"is_available"`
}

func main() {
	var (
		databaseURL  string
		productsFile string
		artistName   string
		tagline      string
		bio          string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&artistName, "artist-name", "Ink & Paper Studio", "artist name for the initial settings row")
	flag.StringVar(&tagline, "tagline", "Small-batch sketches, prints and ceramics", "tagline for the initial settings row")
	flag.StringVar(&bio, "bio", "", "bio for the initial settings row")
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

	if err := run(ctx, databaseURL, productsFile, artistName, tagline, bio); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, artistName, tagline, bio string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, repository.NewProductRepository(pool), productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if err := seedSettings(ctx, repository.NewSettingsRepository(pool), artistName, tagline, bio); err != nil {
		return errors.Wrap(err, "seed settings")
	}

	return nil
}

func seedProducts(ctx context.Context, repo *repository.ProductRepository, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, p := range products {
		if err := repo.Upsert(ctx, p.toDomain()); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}

		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}

// seedSettings creates the initial settings row only when none exists, so a
// re-run never clobbers credentials the admin configured through the API.
func seedSettings(ctx context.Context, repo *repository.SettingsRepository, artistName, tagline, bio string) error {
	if _, err := repo.Get(ctx); err == nil {
		slog.Info("settings row already present, skipping")
		return nil
	} else if !errors.Is(err, settings.ErrNotFound) {
		return errors.Wrap(err, "check existing settings")
	}

	slog.Info("creating initial settings row", slog.String("artist_name", artistName))

	return repo.Update(ctx, &settings.SiteSettings{
		ID:         "default",
		ArtistName: artistName,
		Tagline:    tagline,
		Bio:        bio,
	})
}

func (p *productJSON) toDomain() *product.Product {
	return &product.Product{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Category:      p.Category,
		Size:          p.Size,
		PaperType:     p.PaperType,
		ImageURL:      p.ImageURL,
		StockQuantity: p.StockQuantity,
		IsAvailable:   p.IsAvailable,
	}
}
