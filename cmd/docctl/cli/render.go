package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tradeflow/tradeflow/internal/app"
	"github.com/tradeflow/tradeflow/internal/docgen"
	"github.com/tradeflow/tradeflow/internal/documents"
	"github.com/tradeflow/tradeflow/internal/platform/cache"
	"github.com/tradeflow/tradeflow/internal/platform/db"
)

// Generator renders one document for its owner.
type Generator interface {
	Generate(ctx context.Context, userID uuid.UUID, t documents.Type, id uuid.UUID) (docgen.Document, error)
}

// RenderCLI renders documents straight from the database.
type RenderCLI struct {
	generator Generator
	close     func()
}

// NewRenderCLI loads configuration and connects to Postgres and Redis.
func NewRenderCLI(ctx context.Context) (*RenderCLI, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, db.Options{ApplicationName: "docctl", MaxConns: 2})
	if err != nil {
		return nil, err
	}
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, logos will not be cached", slog.Any("error", err))
		_ = redisClient.Close()
		redisClient = nil
	}
	services, err := app.NewServices(cfg, pool, redisClient, nil, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return &RenderCLI{
		generator: services.Generator,
		close: func() {
			if redisClient != nil {
				_ = redisClient.Close()
			}
			pool.Close()
		},
	}, nil
}

// Render returns the rendered document.
func (c *RenderCLI) Render(ctx context.Context, userID uuid.UUID, t documents.Type, id uuid.UUID) (docgen.Document, error) {
	return c.generator.Generate(ctx, userID, t, id)
}

// Close releases connections.
func (c *RenderCLI) Close() {
	if c != nil && c.close != nil {
		c.close()
	}
}
