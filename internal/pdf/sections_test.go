package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeflow/tradeflow/internal/documents"
	"github.com/tradeflow/tradeflow/internal/pdf/logo"
)

func makeItems(n int) []documents.LineItem {
	items := make([]documents.LineItem, n)
	for i := range items {
		items[i] = documents.LineItem{Description: fmt.Sprintf("Item %d", i+1), Quantity: 1, Rate: 10, Amount: 10}
	}
	return items
}

func pngLogo(t *testing.T, w, h int) logo.Image {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 20, G: 80, B: 160, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return logo.Image{Data: buf.Bytes(), Kind: logo.KindPNG}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$100.00", Money(100))
	assert.Equal(t, "$1234.50", Money(1234.5))
	assert.Equal(t, "$0.01", Money(0.005))
	assert.Equal(t, "-$5.00", Money(-5))
	assert.Equal(t, "$0.00", Money(0))
}

func TestQuantityAndPercent(t *testing.T) {
	assert.Equal(t, "3", Quantity(3))
	assert.Equal(t, "2.5", Quantity(2.5))
	assert.Equal(t, "8%", Percent(8))
	assert.Equal(t, "8.25%", Percent(8.25))
}

func TestLineItemsPaginate(t *testing.T) {
	const n = 80
	rec := newRecorder()
	c := NewContext(rec)
	c.MoveTo(500)

	res := DrawLineItems(c, makeItems(n))

	assert.Equal(t, n, res.Rows)
	rows := rec.withPrefix("Item ")
	require.Len(t, rows, n)
	for _, row := range rows {
		assert.GreaterOrEqual(t, row.Y, BottomLimit)
		assert.Equal(t, colDescription, row.X)
	}

	firstRowY := rows[0].Y
	firstPage := int(math.Floor((firstRowY-BottomLimit)/RowHeight)) + 1
	perPage := int(math.Floor((c.Top()-BottomLimit)/RowHeight)) + 1
	wantPages := 1 + int(math.Ceil(float64(n-firstPage)/float64(perPage)))

	assert.Equal(t, wantPages, c.PageCount())
	assert.Equal(t, wantPages-1, res.PageBreaks)
	assert.Equal(t, wantPages, c.Cursor().Page)
	assert.Equal(t, wantPages, rows[n-1].Page)
}

func TestLineItemsFitOnOnePage(t *testing.T) {
	rec := newRecorder()
	c := NewContext(rec)
	c.MoveTo(500)

	res := DrawLineItems(c, makeItems(3))

	assert.Equal(t, 3, res.Rows)
	assert.Zero(t, res.PageBreaks)
	assert.Equal(t, 1, c.PageCount())
	assert.Len(t, rec.find("Description"), 1)
}

func TestTotalsArePassThrough(t *testing.T) {
	rows := TotalsRows(Totals{Subtotal: 100, TaxRate: 8, TaxAmount: 5, Total: 105})
	require.Len(t, rows, 3)
	assert.Equal(t, TotalsRow{Label: "Subtotal:", Value: "$100.00"}, rows[0])
	assert.Equal(t, TotalsRow{Label: "Tax (8%):", Value: "$5.00"}, rows[1])
	assert.Equal(t, TotalsRow{Label: "Total:", Value: "$105.00", Emphasis: true}, rows[2])
}

func TestTotalsWithPayments(t *testing.T) {
	rec := newRecorder()
	c := NewContext(rec)
	DrawTotals(c, Totals{Total: 500, Paid: &PaidSummary{AmountPaid: 250, BalanceDue: 250}})

	paid, ok := rec.valueBeside("Amount Paid:")
	require.True(t, ok)
	assert.Equal(t, "$250.00", paid.Text)

	due, ok := rec.valueBeside("Balance Due:")
	require.True(t, ok)
	assert.Equal(t, "$250.00", due.Text)
	assert.Equal(t, ColorHighlight, due.Style.Color)
}

func TestTotalsMoveToNewPageWhenShort(t *testing.T) {
	c := NewContext(newRecorder())
	c.MoveTo(BottomLimit + 20)
	DrawTotals(c, Totals{Total: 1})
	assert.Equal(t, 2, c.PageCount())
}

func TestAddressKindForHeading(t *testing.T) {
	assert.Equal(t, AddressBilling, AddressKindForHeading("BILL TO"))
	assert.Equal(t, AddressBilling, AddressKindForHeading("Billing"))
	assert.Equal(t, AddressProperty, AddressKindForHeading("CUSTOMER"))
}

func TestDrawCustomerPrintsSelectedAddress(t *testing.T) {
	cust := documents.Customer{Name: "Dana Reyes", BillingAddress: "PO Box 9", PropertyAddress: "12 Oak St"}

	rec := newRecorder()
	DrawCustomer(NewContext(rec), "BILL TO", AddressKindForHeading("BILL TO"), cust)
	assert.Len(t, rec.find("PO Box 9"), 1)
	assert.Empty(t, rec.find("12 Oak St"))

	rec = newRecorder()
	DrawCustomer(NewContext(rec), "CUSTOMER", AddressKindForHeading("CUSTOMER"), cust)
	assert.Len(t, rec.find("12 Oak St"), 1)
	assert.Empty(t, rec.find("PO Box 9"))
}

func TestHeaderWithoutLogoUsesMinimumHeight(t *testing.T) {
	rec := newRecorder()
	c := NewContext(rec)
	res := DrawHeader(c, Header{Title: "ESTIMATE"}, nil)

	assert.False(t, res.LogoDrawn)
	assert.Equal(t, c.Top()-HeaderMinHeight, res.SeparatorY)
	assert.True(t, rec.horizontalRuleAt(res.SeparatorY))
	assert.Equal(t, res.SeparatorY-SectionGap, c.Y())
}

func TestHeaderTallLogoPushesSeparator(t *testing.T) {
	rec := newRecorder()
	c := NewContext(rec)
	img := pngLogo(t, 100, 300)
	res := DrawHeader(c, Header{Title: "INVOICE"}, &img)

	assert.True(t, res.LogoDrawn)
	assert.Equal(t, 1, rec.images)
	assert.InDelta(t, c.Top()-logoMaxHeight, res.SeparatorY, 0.001)
}

func TestHeaderWideLogoKeepsMinimum(t *testing.T) {
	c := NewContext(newRecorder())
	img := pngLogo(t, 300, 100)
	res := DrawHeader(c, Header{Title: "INVOICE"}, &img)

	assert.True(t, res.LogoDrawn)
	assert.Equal(t, c.Top()-HeaderMinHeight, res.SeparatorY)
}

func TestHeaderUndecodableLogoIsSkipped(t *testing.T) {
	rec := newRecorder()
	c := NewContext(rec)
	img := logo.Image{Data: []byte("\x89PNG\r\n\x1a\nnot really"), Kind: logo.KindPNG}
	res := DrawHeader(c, Header{Title: "INVOICE"}, &img)

	assert.False(t, res.LogoDrawn)
	assert.Zero(t, rec.images)
	assert.Equal(t, c.Top()-HeaderMinHeight, res.SeparatorY)

	var buf bytes.Buffer
	require.NoError(t, rec.Output(&buf))
}

func TestFitBox(t *testing.T) {
	w, h := fitBox(300, 100, 150, 150)
	assert.Equal(t, 150.0, w)
	assert.Equal(t, 50.0, h)

	w, h = fitBox(40, 30, 150, 150)
	assert.Equal(t, 40.0, w)
	assert.Equal(t, 30.0, h)
}

func TestTextBlockWrapsAndPaginates(t *testing.T) {
	rec := newRecorder()
	c := NewContext(rec)
	c.MoveTo(300)

	var body bytes.Buffer
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&body, "Paragraph %d runs long enough that it has to wrap across more than one line of the notes block, "+
			"because the crew needs every detail about access, parking, disposal and the order in which rooms are finished.\n", i)
	}
	lines := DrawTextBlock(c, "Notes", body.String())

	assert.Greater(t, lines, 60)
	assert.Greater(t, c.PageCount(), 1)
	for _, run := range rec.texts {
		assert.GreaterOrEqual(t, run.Y, BottomLimit, run.Text)
		assert.LessOrEqual(t, rec.TextWidth(run.Text, run.Style.Font, run.Style.Size), TextBlockWidth+0.001)
	}
}

func TestTextBlockSkipsBlankBody(t *testing.T) {
	rec := newRecorder()
	c := NewContext(rec)
	assert.Zero(t, DrawTextBlock(c, "Notes", "  \n "))
	assert.Empty(t, rec.texts)
}

func TestTextIsClippedToMaxWidth(t *testing.T) {
	s := NewFPDFSurface()
	s.AddPage()
	long := "An exceptionally long line item description that would run into the quantity column"
	full := s.TextWidth(long, FontRegular, 10)
	require.Greater(t, full, descriptionWidth)

	s.useFont(FontRegular, 10)
	clipped := s.clip(toWinAnsi(long), descriptionWidth)
	assert.Less(t, len(clipped), len(long))
	assert.LessOrEqual(t, s.TextWidth(clipped, FontRegular, 10), descriptionWidth)
}

func TestToWinAnsi(t *testing.T) {
	assert.Equal(t, "caf\xe9 \x80 ?", toWinAnsi("café € 日"))
}
