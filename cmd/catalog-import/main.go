// Command catalog-import bulk-loads a product catalog from gzip-compressed
// JSONL files, one product per line. Files are decompressed and parsed
// concurrently while a pool of workers upserts rows, so re-importing a
// revised catalog is idempotent.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/inkpaper/atelier-api/internal/domain/product"
	"github.com/inkpaper/atelier-api/internal/repository"
)

const progressEvery = 1000

type productLine struct {
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
		dataDir     string
		databaseURL string
		workers     int
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing catalog*.jsonl.gz files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.IntVar(&workers, "workers", 4, "number of concurrent upsert workers")
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

	if err := run(ctx, dataDir, databaseURL, workers); err != nil {
		slog.Error("catalog import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog import completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string, workers int) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "catalog*.jsonl.gz"))
	if err != nil {
		return errors.Wrap(err, "glob catalog files")
	}
	if len(files) == 0 {
		return errors.Errorf("no catalog*.jsonl.gz files in %s", dataDir)
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := repository.NewProductRepository(pool)
	lines := make(chan *product.Product, workers*4)
	var imported atomic.Uint64

	g, ctx := errgroup.WithContext(ctx)

	// Readers: one per file, decompressing and parsing concurrently.
	readers, rctx := errgroup.WithContext(ctx)
	for _, f := range files {
		readers.Go(streamCatalogFile(rctx, f, lines))
	}
	g.Go(func() error {
		defer close(lines)
		return readers.Wait()
	})

	// Workers: upsert rows as they arrive.
	for range workers {
		g.Go(func() error {
			for p := range lines {
				if err := repo.Upsert(ctx, p); err != nil {
					return err
				}
				if n := imported.Add(1); n%progressEvery == 0 {
					slog.Info("import progress", slog.Uint64("products", n))
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("import finished", slog.Uint64("products", imported.Load()))
	return nil
}

// streamCatalogFile decompresses one JSONL file and sends each parsed product
// to out.
func streamCatalogFile(ctx context.Context, path string, out chan<- *product.Product) func() error {
	return func() error {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "open %s", path)
		}
		defer func() { _ = f.Close() }()

		gz, err := pgzip.NewReader(f)
		if err != nil {
			return errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()

		var count uint64
		scanner := bufio.NewScanner(gz)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var row productLine
			if err := json.Unmarshal(line, &row); err != nil {
				return errors.Wrapf(err, "parse line %d of %s", count+1, path)
			}
			if row.ID == "" || row.Name == "" {
				return errors.Errorf("line %d of %s: id and name are required", count+1, path)
			}
			count++

			p := &product.Product{
				ID:            row.ID,
				Name:          row.Name,
				Description:   row.Description,
				Price:         row.Price,
				Category:      row.Category,
				Size:          row.Size,
				PaperType:     row.PaperType,
				ImageURL:      row.ImageURL,
				StockQuantity: row.StockQuantity,
				IsAvailable:   row.IsAvailable,
			}

			select {
			case out <- p:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := scanner.Err(); err != nil {
			return errors.Wrapf(err, "scan %s", path)
		}

		slog.Info("file parsed", slog.String("path", path), slog.Uint64("products", count))
		return nil
	}
}
