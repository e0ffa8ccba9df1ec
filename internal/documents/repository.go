package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradeflow/tradeflow/internal/platform/db"
)

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository loads documents from Postgres. Every root lookup is scoped by
// the owning user id.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const customerColumns = `
	COALESCE(c.id::text, ''), COALESCE(c.name, ''), COALESCE(c.email, ''), COALESCE(c.phone, ''),
	COALESCE(c.billing_address, ''), COALESCE(c.property_address, '')`

const estimateQuery = `
SELECT e.estimate_number, COALESCE(e.status, ''), e.issue_date, e.expiry_date,
	COALESCE(e.subtotal, 0), COALESCE(e.tax_rate, 0), COALESCE(e.tax_amount, 0), COALESCE(e.total, 0),
	COALESCE(e.notes, ''),` + customerColumns + `
FROM estimates e
LEFT JOIN customers c ON c.id = e.customer_id AND c.user_id = e.user_id
WHERE e.id = $1 AND e.user_id = $2`

const invoiceQuery = `
SELECT i.invoice_number, COALESCE(i.status, ''), i.issue_date, i.due_date,
	COALESCE(i.subtotal, 0), COALESCE(i.tax_rate, 0), COALESCE(i.tax_amount, 0), COALESCE(i.total, 0),
	COALESCE(i.amount_paid, 0), COALESCE(i.balance_due, 0), COALESCE(i.notes, ''),` + customerColumns + `
FROM invoices i
LEFT JOIN customers c ON c.id = i.customer_id AND c.user_id = i.user_id
WHERE i.id = $1 AND i.user_id = $2`

const contractQuery = `
SELECT k.contract_number, COALESCE(k.status, ''), k.issue_date, k.start_date, k.end_date,
	COALESCE(k.scope_of_work, ''), COALESCE(k.terms, ''), COALESCE(k.total_amount, 0),
	COALESCE(k.notes, ''),` + customerColumns + `
FROM contracts k
LEFT JOIN customers c ON c.id = k.customer_id AND c.user_id = k.user_id
WHERE k.id = $1 AND k.user_id = $2`

const companyQuery = `
SELECT COALESCE(company_name, ''), COALESCE(address, ''), COALESCE(phone, ''), COALESCE(email, ''),
	COALESCE(logo_url, '')
FROM company_profiles
WHERE user_id = $1`

const estimateItemsQuery = `
SELECT COALESCE(description, ''), COALESCE(quantity, 0), COALESCE(rate, 0), COALESCE(amount, 0)
FROM estimate_items
WHERE estimate_id = $1
ORDER BY created_at, id`

const invoiceItemsQuery = `
SELECT COALESCE(description, ''), COALESCE(quantity, 0), COALESCE(rate, 0), COALESCE(amount, 0)
FROM invoice_items
WHERE invoice_id = $1
ORDER BY created_at, id`

const paymentsQuery = `
SELECT COALESCE(amount, 0), payment_date, COALESCE(payment_method, '')
FROM payments
WHERE invoice_id = $1
ORDER BY payment_date, id`

// GetEstimate loads an estimate with its customer, items and the issuing company.
func (r *Repository) GetEstimate(ctx context.Context, userID, id uuid.UUID) (Estimate, error) {
	est := Estimate{ID: id}
	err := db.WithReadSnapshot(ctx, r.pool, func(tx pgx.Tx) error {
		var issue *time.Time
		var customerID string
		err := tx.QueryRow(ctx, estimateQuery, id, userID).Scan(
			&est.Number, &est.Status, &issue, &est.ExpiryDate,
			&est.Subtotal, &est.TaxRate, &est.TaxAmount, &est.Total, &est.Notes,
			&customerID, &est.Customer.Name, &est.Customer.Email, &est.Customer.Phone,
			&est.Customer.BillingAddress, &est.Customer.PropertyAddress,
		)
		if err != nil {
			return notFound(err, TypeEstimate, id)
		}
		est.IssueDate = deref(issue)
		est.Customer.ID = parseID(customerID)

		if est.Items, err = loadItems(ctx, tx, estimateItemsQuery, id); err != nil {
			return fmt.Errorf("documents: estimate items: %w", err)
		}
		if est.Company, err = loadCompany(ctx, tx, userID); err != nil {
			return err
		}
		return nil
	})
	return est, err
}

// GetInvoice loads an invoice with its customer, items, payments and the issuing company.
func (r *Repository) GetInvoice(ctx context.Context, userID, id uuid.UUID) (Invoice, error) {
	inv := Invoice{ID: id}
	err := db.WithReadSnapshot(ctx, r.pool, func(tx pgx.Tx) error {
		var issue *time.Time
		var customerID string
		err := tx.QueryRow(ctx, invoiceQuery, id, userID).Scan(
			&inv.Number, &inv.Status, &issue, &inv.DueDate,
			&inv.Subtotal, &inv.TaxRate, &inv.TaxAmount, &inv.Total,
			&inv.StoredAmountPaid, &inv.StoredBalanceDue, &inv.Notes,
			&customerID, &inv.Customer.Name, &inv.Customer.Email, &inv.Customer.Phone,
			&inv.Customer.BillingAddress, &inv.Customer.PropertyAddress,
		)
		if err != nil {
			return notFound(err, TypeInvoice, id)
		}
		inv.IssueDate = deref(issue)
		inv.Customer.ID = parseID(customerID)

		if inv.Items, err = loadItems(ctx, tx, invoiceItemsQuery, id); err != nil {
			return fmt.Errorf("documents: invoice items: %w", err)
		}
		if inv.Payments, err = loadPayments(ctx, tx, id); err != nil {
			return fmt.Errorf("documents: payments: %w", err)
		}
		if inv.Company, err = loadCompany(ctx, tx, userID); err != nil {
			return err
		}
		return nil
	})
	return inv, err
}

// GetContract loads a contract with its customer and the issuing company.
func (r *Repository) GetContract(ctx context.Context, userID, id uuid.UUID) (Contract, error) {
	con := Contract{ID: id}
	err := db.WithReadSnapshot(ctx, r.pool, func(tx pgx.Tx) error {
		var issue *time.Time
		var customerID string
		err := tx.QueryRow(ctx, contractQuery, id, userID).Scan(
			&con.Number, &con.Status, &issue, &con.StartDate, &con.EndDate,
			&con.ScopeOfWork, &con.Terms, &con.Total, &con.Notes,
			&customerID, &con.Customer.Name, &con.Customer.Email, &con.Customer.Phone,
			&con.Customer.BillingAddress, &con.Customer.PropertyAddress,
		)
		if err != nil {
			return notFound(err, TypeContract, id)
		}
		con.IssueDate = deref(issue)
		con.Customer.ID = parseID(customerID)

		if con.Company, err = loadCompany(ctx, tx, userID); err != nil {
			return err
		}
		return nil
	})
	return con, err
}

func loadItems(ctx context.Context, q querier, query string, parentID uuid.UUID) ([]LineItem, error) {
	rows, err := q.Query(ctx, query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LineItem
	for rows.Next() {
		var it LineItem
		if err := rows.Scan(&it.Description, &it.Quantity, &it.Rate, &it.Amount); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func loadPayments(ctx context.Context, q querier, invoiceID uuid.UUID) ([]Payment, error) {
	rows, err := q.Query(ctx, paymentsQuery, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var payments []Payment
	for rows.Next() {
		var p Payment
		var paid *time.Time
		if err := rows.Scan(&p.Amount, &paid, &p.Method); err != nil {
			return nil, err
		}
		p.Date = deref(paid)
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// loadCompany returns an empty profile when the user has not set one up.
func loadCompany(ctx context.Context, q querier, userID uuid.UUID) (Company, error) {
	var c Company
	err := q.QueryRow(ctx, companyQuery, userID).Scan(&c.Name, &c.Address, &c.Phone, &c.Email, &c.LogoURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, nil
		}
		return Company{}, fmt.Errorf("documents: company profile: %w", err)
	}
	return c, nil
}

func notFound(err error, t Type, id uuid.UUID) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", t, id, ErrNotFound)
	}
	return fmt.Errorf("documents: load %s: %w", t, err)
}

func deref(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func parseID(raw string) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}
