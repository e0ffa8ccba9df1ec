package pdf

import (
	"strings"

	"github.com/tradeflow/tradeflow/internal/documents"
)

// AddressKind selects which customer address a block prints.
type AddressKind int

const (
	AddressProperty AddressKind = iota
	AddressBilling
)

// AddressKindForHeading maps a display heading to an address kind for
// callers that only carry a heading: anything mentioning "bill" prints the
// billing address.
func AddressKindForHeading(heading string) AddressKind {
	if strings.Contains(strings.ToLower(heading), "bill") {
		return AddressBilling
	}
	return AddressProperty
}

// Address returns the customer address of the given kind.
func (k AddressKind) Address(c documents.Customer) string {
	if k == AddressBilling {
		return c.BillingAddress
	}
	return c.PropertyAddress
}

// DrawCustomer draws the labelled customer block at the cursor.
func DrawCustomer(c *Context, heading string, kind AddressKind, cust documents.Customer) {
	const width = 300.0
	c.EnsureSpace(60)
	drawText(c, Margin, c.Y(), heading, Style{Font: FontBold, Size: 12, Color: ColorMuted})
	c.Advance(18)
	drawText(c, Margin, c.Y(), cust.Name, Style{Font: FontBold, Size: 11, Color: ColorBlack, MaxWidth: width})
	c.Advance(14)
	lines := nonEmpty(splitLines(kind.Address(cust))...)
	lines = append(lines, nonEmpty(cust.Phone, cust.Email)...)
	for _, line := range lines {
		c.BreakIfBelowLimit()
		drawText(c, Margin, c.Y(), line, Style{Font: FontRegular, Size: 10, Color: ColorBlack, MaxWidth: width})
		c.Advance(14)
	}
	c.Advance(16)
}

func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
