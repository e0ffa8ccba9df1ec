package pdf

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// drawText places a run with its left edge at x on the cursor page.
func drawText(c *Context, x, y float64, text string, style Style) {
	if text == "" {
		return
	}
	c.surface.SetPage(c.cursor.Page)
	c.surface.Text(x, y, text, style)
}

// drawTextRight places a run whose right edge sits at right.
func drawTextRight(c *Context, right, y float64, text string, style Style) {
	if text == "" {
		return
	}
	w := c.surface.TextWidth(text, style.Font, style.Size)
	if style.MaxWidth > 0 && w > style.MaxWidth {
		w = style.MaxWidth
	}
	drawText(c, right-w, y, text, style)
}

func drawLine(c *Context, x1, y1, x2, y2 float64, stroke Stroke) {
	c.surface.SetPage(c.cursor.Page)
	c.surface.Line(x1, y1, x2, y2, stroke)
}

func drawRule(c *Context, y float64) {
	drawLine(c, Margin, y, ContentRight, y, Stroke{Width: 1, Color: ColorRule})
}

func regular(size float64) Style {
	return Style{Font: FontRegular, Size: size, Color: ColorBlack}
}

func bold(size float64) Style {
	return Style{Font: FontBold, Size: size, Color: ColorBlack}
}

func muted(size float64) Style {
	return Style{Font: FontRegular, Size: size, Color: ColorMuted}
}

// Money formats an amount as dollars with two decimals, rounding half away
// from zero.
func Money(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// Quantity prints a quantity without trailing zeros.
func Quantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Percent prints a rate such as 8 or 8.25 without a trailing ".00".
func Percent(v float64) string {
	s := decimal.NewFromFloat(v).Round(4).String()
	return s + "%"
}

func nonEmpty(lines ...string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, strings.TrimSpace(l))
		}
	}
	return out
}
