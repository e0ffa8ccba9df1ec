package licenses

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists licenses and their reminders in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListExpiringBy returns licenses whose expiration date is on or before cutoff.
func (r *Repository) ListExpiringBy(ctx context.Context, cutoff time.Time) ([]License, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, COALESCE(name, ''), COALESCE(license_number, ''), expiration_date
FROM licenses
WHERE expiration_date IS NOT NULL AND expiration_date <= $1
ORDER BY expiration_date, id`, dateOnly(cutoff))
	if err != nil {
		return nil, fmt.Errorf("list licenses: %w", err)
	}
	defer rows.Close()

	var out []License
	for rows.Next() {
		var l License
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.Number, &l.ExpirationDate); err != nil {
			return nil, fmt.Errorf("scan license: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// CreateNotification stores n unless a notification for the same license
// and rule already exists. It reports whether a row was inserted.
func (r *Repository) CreateNotification(ctx context.Context, n Notification) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
INSERT INTO notifications (id, user_id, license_id, rule, title, message, created_at)
SELECT $1, $2, $3, $4, $5, $6, NOW()
WHERE NOT EXISTS (
	SELECT 1 FROM notifications WHERE license_id = $3 AND rule = $4
)`, n.ID, n.UserID, n.LicenseID, string(n.Rule), n.Title, n.Message)
	if err != nil {
		return false, fmt.Errorf("insert notification: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
