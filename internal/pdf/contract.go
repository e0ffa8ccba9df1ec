package pdf

const (
	signatureBlockHeight = 110.0
	signatureLineWidth   = 200.0
	signatureRightX      = 330.0
)

// DrawContractAmount prints the agreed amount as a single emphasised line.
func DrawContractAmount(c *Context, total float64) {
	c.EnsureSpace(30)
	drawText(c, Margin, c.Y(), "Contract Amount:", bold(12))
	drawText(c, Margin+120, c.Y(), Money(total), bold(12))
	c.Advance(30)
}

// DrawSignatures draws contractor and customer signature lines with a date
// line under each. The block is never split across pages.
func DrawSignatures(c *Context, contractor, customer string) {
	c.EnsureSpace(signatureBlockHeight)
	stroke := Stroke{Width: 0.75, Color: ColorBlack}
	label := muted(9)

	sigY := c.Y() - 40
	drawLine(c, Margin, sigY, Margin+signatureLineWidth, sigY, stroke)
	drawLine(c, signatureRightX, sigY, signatureRightX+signatureLineWidth, sigY, stroke)
	drawText(c, Margin, sigY-14, signatureLabel("Contractor Signature", contractor), label)
	drawText(c, signatureRightX, sigY-14, signatureLabel("Customer Signature", customer), label)

	dateY := sigY - 50
	drawLine(c, Margin, dateY, Margin+signatureLineWidth, dateY, stroke)
	drawLine(c, signatureRightX, dateY, signatureRightX+signatureLineWidth, dateY, stroke)
	drawText(c, Margin, dateY-14, "Date", label)
	drawText(c, signatureRightX, dateY-14, "Date", label)

	c.MoveTo(dateY - 14 - SectionGap)
}

func signatureLabel(role, name string) string {
	if name == "" {
		return role
	}
	return role + " (" + name + ")"
}
