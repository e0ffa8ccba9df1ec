// Package documents holds the read model of estimates, invoices and
// contracts and loads it from Postgres for rendering.
package documents

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when the requested document does not exist for the user.
var ErrNotFound = errors.New("document not found")

// ErrUnknownType is returned for document types other than estimate, invoice and contract.
var ErrUnknownType = errors.New("unknown document type")

// Type identifies a document kind.
type Type string

const (
	TypeEstimate Type = "estimate"
	TypeInvoice  Type = "invoice"
	TypeContract Type = "contract"
)

// ParseType validates a raw type string.
func ParseType(raw string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(raw))); t {
	case TypeEstimate, TypeInvoice, TypeContract:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, raw)
	}
}

// FileName follows the {type}-{id}.pdf convention.
func (t Type) FileName(id uuid.UUID) string {
	return fmt.Sprintf("%s-%s.pdf", t, id)
}

// Customer is the party a document is addressed to.
type Customer struct {
	ID              uuid.UUID
	Name            string
	Email           string
	Phone           string
	BillingAddress  string
	PropertyAddress string
}

// Company is the contractor issuing the document.
type Company struct {
	Name    string
	Address string
	Phone   string
	Email   string
	LogoURL string
}

// LineItem is one billable row. Amount is stored independently of
// Quantity*Rate and rendered as stored.
type LineItem struct {
	Description string
	Quantity    float64
	Rate        float64
	Amount      float64
}

// Payment is a recorded payment against an invoice.
type Payment struct {
	Amount float64
	Date   time.Time
	Method string
}

// Estimate is a priced proposal.
type Estimate struct {
	ID         uuid.UUID
	Number     string
	Status     string
	IssueDate  time.Time
	ExpiryDate *time.Time
	Subtotal   float64
	TaxRate    float64
	TaxAmount  float64
	Total      float64
	Notes      string
	Customer   Customer
	Company    Company
	Items      []LineItem
}

// Invoice is a bill with optional payments. StoredAmountPaid and
// StoredBalanceDue are the values persisted on the invoice row; rendering
// derives both from Payments instead.
type Invoice struct {
	ID               uuid.UUID
	Number           string
	Status           string
	IssueDate        time.Time
	DueDate          *time.Time
	Subtotal         float64
	TaxRate          float64
	TaxAmount        float64
	Total            float64
	StoredAmountPaid float64
	StoredBalanceDue float64
	Notes            string
	Customer         Customer
	Company          Company
	Items            []LineItem
	Payments         []Payment
}

// AmountPaid sums the payment rows.
func (inv Invoice) AmountPaid() float64 {
	return SumPayments(inv.Payments)
}

// BalanceDue is the total less the summed payments.
func (inv Invoice) BalanceDue() float64 {
	paid := decimal.NewFromFloat(inv.AmountPaid())
	v, _ := decimal.NewFromFloat(inv.Total).Sub(paid).Float64()
	return v
}

// Drift reports whether the stored paid/balance fields disagree with the
// values derived from payments, to the cent.
func (inv Invoice) Drift() bool {
	cents := func(v float64) decimal.Decimal { return decimal.NewFromFloat(v).Round(2) }
	return !cents(inv.StoredAmountPaid).Equal(cents(inv.AmountPaid())) ||
		!cents(inv.StoredBalanceDue).Equal(cents(inv.BalanceDue()))
}

// Contract is an agreement with scope and terms.
type Contract struct {
	ID          uuid.UUID
	Number      string
	Status      string
	IssueDate   time.Time
	StartDate   *time.Time
	EndDate     *time.Time
	ScopeOfWork string
	Terms       string
	Total       float64
	Notes       string
	Customer    Customer
	Company     Company
}

// SumPayments adds payment amounts in decimal so the sum carries no binary
// drift before it is formatted.
func SumPayments(payments []Payment) float64 {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(decimal.NewFromFloat(p.Amount))
	}
	v, _ := sum.Float64()
	return v
}
