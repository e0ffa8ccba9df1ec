package pdf

// Totals carries the money fields drawn in the totals block. Values are
// drawn exactly as given; nothing here recomputes tax or totals.
type Totals struct {
	Subtotal  float64
	TaxRate   float64
	TaxAmount float64
	Total     float64
	// Paid is set for invoices only.
	Paid *PaidSummary
}

// PaidSummary holds the payment-derived rows of an invoice.
type PaidSummary struct {
	AmountPaid float64
	BalanceDue float64
}

// TotalsRow is one label/value pair of the totals block.
type TotalsRow struct {
	Label     string
	Value     string
	Emphasis  bool
	Highlight bool
}

const (
	totalsLabelX    = 370.0
	totalsRowHeight = 18.0
)

// TotalsRows lays out the rows for t.
func TotalsRows(t Totals) []TotalsRow {
	rows := []TotalsRow{
		{Label: "Subtotal:", Value: Money(t.Subtotal)},
		{Label: "Tax (" + Percent(t.TaxRate) + "):", Value: Money(t.TaxAmount)},
		{Label: "Total:", Value: Money(t.Total), Emphasis: true},
	}
	if t.Paid != nil {
		rows = append(rows,
			TotalsRow{Label: "Amount Paid:", Value: Money(t.Paid.AmountPaid)},
			TotalsRow{Label: "Balance Due:", Value: Money(t.Paid.BalanceDue), Emphasis: true, Highlight: true},
		)
	}
	return rows
}

// DrawTotals draws the right-hand totals block, keeping it on one page.
func DrawTotals(c *Context, t Totals) []TotalsRow {
	rows := TotalsRows(t)
	c.EnsureSpace(float64(len(rows))*totalsRowHeight + 10)
	for _, row := range rows {
		style := regular(10)
		if row.Emphasis {
			style = bold(11)
			drawLine(c, totalsLabelX, c.Y()+12, ContentRight, c.Y()+12, Stroke{Width: 0.5, Color: ColorRule})
		}
		if row.Highlight {
			style.Color = ColorHighlight
		}
		drawText(c, totalsLabelX, c.Y(), row.Label, style)
		drawTextRight(c, ContentRight, c.Y(), row.Value, style)
		c.Advance(totalsRowHeight)
	}
	c.Advance(SectionGap)
	return rows
}
