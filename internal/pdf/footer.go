package pdf

import (
	"fmt"
	"time"
)

// DrawFooter stamps the generation time on the current (last) page and a
// page number on every page.
func DrawFooter(c *Context, generatedAt time.Time) {
	style := muted(8)
	drawText(c, Margin, FooterBaseline, "Generated on "+generatedAt.Format("January 2, 2006 at 3:04 PM MST"), style)

	last := c.cursor.Page
	total := c.surface.PageCount()
	for p := 1; p <= total; p++ {
		c.surface.SetPage(p)
		label := fmt.Sprintf("Page %d of %d", p, total)
		w := c.surface.TextWidth(label, style.Font, style.Size)
		c.surface.Text(ContentRight-w, FooterBaseline, label, style)
	}
	c.surface.SetPage(last)
}
