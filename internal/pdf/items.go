package pdf

import "github.com/tradeflow/tradeflow/internal/documents"

// Column x offsets of the line-item table.
const (
	colDescription = 50.0
	colQuantity    = 300.0
	colRate        = 370.0
	colAmount      = 500.0

	RowHeight        = 20.0
	descriptionWidth = colQuantity - colDescription - 10
	headerRowOffset  = 25.0
)

// TableResult summarises a drawn line-item table.
type TableResult struct {
	Rows       int
	PageBreaks int
}

// DrawLineItems draws the column header and one row per item. Before each
// row, a cursor below BottomLimit moves the table onto a new page.
func DrawLineItems(c *Context, items []documents.LineItem) TableResult {
	c.EnsureSpace(headerRowOffset + RowHeight)
	y := c.Y()
	head := bold(10)
	drawText(c, colDescription, y, "Description", head)
	drawText(c, colQuantity, y, "Quantity", head)
	drawText(c, colRate, y, "Rate", head)
	drawText(c, colAmount, y, "Amount", head)
	drawRule(c, y-6)
	c.Advance(headerRowOffset)

	var res TableResult
	desc := Style{Font: FontRegular, Size: 10, Color: ColorBlack, MaxWidth: descriptionWidth}
	cell := regular(10)
	for _, it := range items {
		if c.BreakIfBelowLimit() {
			res.PageBreaks++
		}
		y := c.Y()
		drawText(c, colDescription, y, it.Description, desc)
		drawText(c, colQuantity, y, Quantity(it.Quantity), cell)
		drawText(c, colRate, y, Money(it.Rate), cell)
		drawText(c, colAmount, y, Money(it.Amount), cell)
		c.Advance(RowHeight)
		res.Rows++
	}
	c.Advance(10)
	return res
}
