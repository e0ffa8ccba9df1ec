package licenses

import (
	"context"
	"log/slog"
	"time"
)

// Store is the persistence the scan needs.
type Store interface {
	ListExpiringBy(ctx context.Context, cutoff time.Time) ([]License, error)
	CreateNotification(ctx context.Context, n Notification) (bool, error)
}

// ScanResult summarises one scan.
type ScanResult struct {
	Checked  int
	Notified int
	Skipped  int
	ByRule   map[Rule]int
}

// Service runs expiration scans.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// Scan raises due reminders for every license expiring within Horizon days
// of today, or already expired. Reminders already sent are skipped.
func (s *Service) Scan(ctx context.Context, today time.Time) (ScanResult, error) {
	res := ScanResult{ByRule: map[Rule]int{}}
	items, err := s.store.ListExpiringBy(ctx, dateOnly(today).AddDate(0, 0, Horizon))
	if err != nil {
		return res, err
	}
	for _, l := range items {
		res.Checked++
		rule, ok := RuleFor(l.ExpirationDate, today)
		if !ok {
			continue
		}
		created, err := s.store.CreateNotification(ctx, NewNotification(l, rule, today))
		if err != nil {
			return res, err
		}
		if !created {
			res.Skipped++
			continue
		}
		res.Notified++
		res.ByRule[rule]++
		s.logger.Info("license reminder created",
			slog.String("license_id", l.ID.String()),
			slog.String("rule", string(rule)),
		)
	}
	return res, nil
}
