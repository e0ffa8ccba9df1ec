package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/tradeflow/tradeflow/internal/docgen"
	"github.com/tradeflow/tradeflow/internal/documents"
	jobmetrics "github.com/tradeflow/tradeflow/internal/jobs"
	"github.com/tradeflow/tradeflow/report"
)

// DocumentGenerator renders a document for its owner.
type DocumentGenerator interface {
	Generate(ctx context.Context, userID uuid.UUID, t documents.Type, id uuid.UUID) (docgen.Document, error)
}

// DocumentStore uploads rendered PDFs.
type DocumentStore interface {
	Put(ctx context.Context, key string, pdf []byte) (string, error)
}

// ArchiveJob handles TaskPDFArchive.
type ArchiveJob struct {
	Generator DocumentGenerator
	Store     DocumentStore
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// NewArchiveJob initialises the archive handler.
func NewArchiveJob(gen DocumentGenerator, store DocumentStore, logger *slog.Logger, metrics *jobmetrics.Metrics) *ArchiveJob {
	return &ArchiveJob{Generator: gen, Store: store, Logger: logger, Metrics: metrics}
}

// Handle renders the document and uploads it under {user_id}/{type}-{id}.pdf.
// Missing documents are not retried.
func (j *ArchiveJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Generator == nil || j.Store == nil {
		return errors.New("pdf archive: handler not configured")
	}
	var payload ArchivePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	docType, err := documents.ParseType(payload.Type)
	if err != nil || payload.UserID == uuid.Nil || payload.ID == uuid.Nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskPDFArchive)
	logger := j.logger().With(
		slog.String("type", string(docType)),
		slog.String("id", payload.ID.String()),
	)

	doc, err := j.Generator.Generate(ctx, payload.UserID, docType, payload.ID)
	if errors.Is(err, documents.ErrNotFound) {
		logger.Warn("archive skipped, document not found")
		tracker.End(err)
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	if err != nil {
		logger.Error("archive render failed", slog.Any("error", err))
		return tracker.End(err)
	}

	key, err := j.Store.Put(ctx, report.ArchiveKey(payload.UserID.String(), doc.Name), doc.PDF)
	if err != nil {
		logger.Error("archive upload failed", slog.Any("error", err))
		return tracker.End(err)
	}
	j.metrics().IncArchived()
	logger.Info("document archived", slog.String("key", key), slog.Int("pages", doc.Pages))
	return tracker.End(nil)
}

func (j *ArchiveJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskPDFArchive))
	}
	return slog.Default().With(slog.String("job", TaskPDFArchive))
}

func (j *ArchiveJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
