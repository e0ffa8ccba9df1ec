// Package pdf lays out estimates, invoices and contracts as PDF documents.
package pdf

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/tradeflow/tradeflow/internal/documents"
)

// Result is a rendered document.
type Result struct {
	PDF   []byte
	Pages int
}

// Renderer turns documents into PDF bytes.
type Renderer struct {
	logos      LogoSource
	logger     *slog.Logger
	now        func() time.Time
	location   *time.Location
	newSurface func() Surface
}

// NewRenderer constructs a Renderer. logos may be nil to never draw logos.
func NewRenderer(logos LogoSource, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		logos:      logos,
		logger:     logger,
		now:        time.Now,
		location:   time.UTC,
		newSurface: func() Surface { return NewFPDFSurface() },
	}
}

// WithNow overrides the clock for deterministic tests.
func (r *Renderer) WithNow(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// WithLocation sets the time zone of the generated-on stamp.
func (r *Renderer) WithLocation(loc *time.Location) {
	if loc != nil {
		r.location = loc
	}
}

// WithSurface overrides the drawing backend factory.
func (r *Renderer) WithSurface(factory func() Surface) {
	if factory != nil {
		r.newSurface = factory
	}
}

// RenderEstimate lays out header, customer, items, totals, notes and footer.
func (r *Renderer) RenderEstimate(ctx context.Context, est documents.Estimate) (Result, error) {
	c := NewContext(r.newSurface())
	DrawHeader(c, Header{
		Title:   "ESTIMATE",
		Number:  est.Number,
		Company: est.Company,
		Dates:   []DateLine{{"Date", est.IssueDate}, {"Valid Until", derefTime(est.ExpiryDate)}},
	}, resolveLogo(ctx, r.logos, est.Company.LogoURL, r.logger))
	DrawCustomer(c, "CUSTOMER", AddressProperty, est.Customer)
	DrawLineItems(c, est.Items)
	DrawTotals(c, Totals{
		Subtotal:  est.Subtotal,
		TaxRate:   est.TaxRate,
		TaxAmount: est.TaxAmount,
		Total:     est.Total,
	})
	DrawTextBlock(c, "Notes", est.Notes)
	return r.finish(c)
}

// RenderInvoice is RenderEstimate plus the payment rows. Amount paid and
// balance due come from the payment rows, not the stored invoice fields.
func (r *Renderer) RenderInvoice(ctx context.Context, inv documents.Invoice) (Result, error) {
	if inv.Drift() {
		r.logger.Warn("invoice stored balance disagrees with payments",
			slog.String("invoice_id", inv.ID.String()),
			slog.Float64("stored_amount_paid", inv.StoredAmountPaid),
			slog.Float64("stored_balance_due", inv.StoredBalanceDue),
			slog.Float64("payments_total", inv.AmountPaid()),
		)
	}
	c := NewContext(r.newSurface())
	DrawHeader(c, Header{
		Title:   "INVOICE",
		Number:  inv.Number,
		Company: inv.Company,
		Dates:   []DateLine{{"Date", inv.IssueDate}, {"Due Date", derefTime(inv.DueDate)}},
	}, resolveLogo(ctx, r.logos, inv.Company.LogoURL, r.logger))
	DrawCustomer(c, "BILL TO", AddressBilling, inv.Customer)
	DrawLineItems(c, inv.Items)
	DrawTotals(c, Totals{
		Subtotal:  inv.Subtotal,
		TaxRate:   inv.TaxRate,
		TaxAmount: inv.TaxAmount,
		Total:     inv.Total,
		Paid:      &PaidSummary{AmountPaid: inv.AmountPaid(), BalanceDue: inv.BalanceDue()},
	})
	DrawTextBlock(c, "Notes", inv.Notes)
	return r.finish(c)
}

// RenderContract lays out scope of work, terms, the contract amount and the
// signature block instead of a line-item table.
func (r *Renderer) RenderContract(ctx context.Context, con documents.Contract) (Result, error) {
	c := NewContext(r.newSurface())
	DrawHeader(c, Header{
		Title:   "CONTRACT",
		Number:  con.Number,
		Company: con.Company,
		Dates: []DateLine{
			{"Date", con.IssueDate},
			{"Start Date", derefTime(con.StartDate)},
			{"End Date", derefTime(con.EndDate)},
		},
	}, resolveLogo(ctx, r.logos, con.Company.LogoURL, r.logger))
	DrawCustomer(c, "CLIENT", AddressProperty, con.Customer)
	DrawTextBlock(c, "Scope of Work", con.ScopeOfWork)
	DrawTextBlock(c, "Terms and Conditions", con.Terms)
	DrawContractAmount(c, con.Total)
	DrawSignatures(c, con.Company.Name, con.Customer.Name)
	DrawTextBlock(c, "Notes", con.Notes)
	return r.finish(c)
}

func (r *Renderer) finish(c *Context) (Result, error) {
	DrawFooter(c, r.now().In(r.location))
	var buf bytes.Buffer
	if err := c.surface.Output(&buf); err != nil {
		return Result{}, err
	}
	return Result{PDF: buf.Bytes(), Pages: c.PageCount()}, nil
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
