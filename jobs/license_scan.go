package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/tradeflow/tradeflow/internal/jobs"
	"github.com/tradeflow/tradeflow/internal/licenses"
)

// LicenseScanner runs one expiration scan.
type LicenseScanner interface {
	Scan(ctx context.Context, today time.Time) (licenses.ScanResult, error)
}

// LicenseScanJob handles TaskLicenseScan.
type LicenseScanJob struct {
	Scanner LicenseScanner
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewLicenseScanJob initialises the license scan handler.
func NewLicenseScanJob(scanner LicenseScanner, logger *slog.Logger, metrics *jobmetrics.Metrics) *LicenseScanJob {
	return &LicenseScanJob{
		Scanner: scanner,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the scan.
func (j *LicenseScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Scanner == nil {
		return errors.New("license scan: handler not configured")
	}
	var payload LicenseScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	day, err := payload.Day(j.now())
	if err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskLicenseScan)
	logger := j.logger().With(slog.String("date", day.Format(dateLayout)))
	logger.Info("starting license scan")

	start := time.Now()
	res, err := j.Scanner.Scan(ctx, day)
	if err != nil {
		logger.Error("license scan failed", slog.Any("error", err))
		return tracker.End(err)
	}
	for rule, n := range res.ByRule {
		j.metrics().AddNotifications(string(rule), n)
	}
	logger.Info("completed license scan",
		slog.Int("checked", res.Checked),
		slog.Int("notified", res.Notified),
		slog.Int("skipped", res.Skipped),
		slog.Duration("duration", time.Since(start)),
	)
	return tracker.End(nil)
}

func (j *LicenseScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskLicenseScan))
	}
	return slog.Default().With(slog.String("job", TaskLicenseScan))
}

func (j *LicenseScanJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *LicenseScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
