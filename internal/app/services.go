package app

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/tradeflow/tradeflow/internal/docgen"
	"github.com/tradeflow/tradeflow/internal/documents"
	"github.com/tradeflow/tradeflow/internal/observability"
	"github.com/tradeflow/tradeflow/internal/pdf"
	"github.com/tradeflow/tradeflow/internal/pdf/logo"
	"github.com/tradeflow/tradeflow/report"
)

// Services is the document pipeline shared by the server, worker and CLI.
type Services struct {
	Documents *documents.Repository
	Storage   *report.Storage
	Logos     *logo.Fetcher
	Renderer  *pdf.Renderer
	Generator *docgen.Service
}

// NewServices wires repository, logo fetcher, renderer and generator.
// redisClient and metrics may be nil.
func NewServices(cfg *Config, pool *pgxpool.Pool, redisClient *redis.Client, metrics *observability.Metrics, logger *slog.Logger) (*Services, error) {
	loc, err := cfg.FooterLocation()
	if err != nil {
		return nil, err
	}
	repo := documents.NewRepository(pool)
	storage := report.NewStorage(cfg.StorageURL, cfg.StorageBucket)
	logos := logo.NewFetcher(logo.Config{
		Cache:    redisClient,
		TTL:      cfg.LogoCacheTTL,
		Timeout:  cfg.LogoFetchTimeout,
		Observer: metrics,
		Logger:   logger,
	})
	renderer := pdf.NewRenderer(logos, logger)
	renderer.WithLocation(loc)

	return &Services{
		Documents: repo,
		Storage:   storage,
		Logos:     logos,
		Renderer:  renderer,
		Generator: docgen.NewService(repo, renderer, storage, metrics, logger),
	}, nil
}

// NewArchiver builds the S3 archiver from configuration.
func NewArchiver(ctx context.Context, cfg *Config) (*report.Archiver, error) {
	return report.NewArchiver(ctx, report.ArchiveConfig{
		Bucket:          cfg.ArchiveBucket,
		Region:          cfg.ArchiveRegion,
		Endpoint:        cfg.ArchiveEndpoint,
		AccessKeyID:     cfg.ArchiveAccessKey,
		SecretAccessKey: cfg.ArchiveSecretKey,
	})
}
