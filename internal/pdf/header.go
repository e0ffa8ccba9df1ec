package pdf

import (
	"context"
	"log/slog"
	"time"

	"github.com/tradeflow/tradeflow/internal/documents"
	"github.com/tradeflow/tradeflow/internal/pdf/logo"
)

const (
	logoMaxWidth  = 150.0
	logoMaxHeight = 150.0
	logoGap       = 20.0
	titleColWidth = 180.0
)

// LogoSource fetches a logo image by URL.
type LogoSource interface {
	Fetch(ctx context.Context, url string) (logo.Image, error)
}

// DateLine is one labelled date under the document title.
type DateLine struct {
	Label string
	Date  time.Time
}

// Header is everything drawn above the separator.
type Header struct {
	Title   string
	Number  string
	Dates   []DateLine
	Company documents.Company
}

// HeaderResult reports how the header was laid out.
type HeaderResult struct {
	LogoDrawn  bool
	SeparatorY float64
}

// DrawHeader draws logo, company identity and title columns, then a
// separator below the taller of HeaderMinHeight and the logo. The cursor
// ends SectionGap below the separator.
func DrawHeader(c *Context, h Header, logoImg *logo.Image) HeaderResult {
	top := c.Top()
	c.MoveTo(top)

	height := HeaderMinHeight
	companyX := Margin
	drawn := false
	if logoImg != nil {
		if w, hgt, ok := placeLogo(c, *logoImg, top); ok {
			drawn = true
			companyX = Margin + w + logoGap
			if hgt > height {
				height = hgt
			}
		}
	}

	companyWidth := ContentRight - titleColWidth - companyX - 10
	y := top - 14
	drawText(c, companyX, y, h.Company.Name, Style{Font: FontBold, Size: 16, Color: ColorBlack, MaxWidth: companyWidth})
	y -= 18
	for _, line := range nonEmpty(splitLines(h.Company.Address)...) {
		drawText(c, companyX, y, line, Style{Font: FontRegular, Size: 10, Color: ColorBlack, MaxWidth: companyWidth})
		y -= 14
	}
	for _, line := range nonEmpty(h.Company.Phone, h.Company.Email) {
		drawText(c, companyX, y, line, Style{Font: FontRegular, Size: 10, Color: ColorMuted, MaxWidth: companyWidth})
		y -= 14
	}

	titleStyle := bold(24)
	titleStyle.MaxWidth = titleColWidth
	drawTextRight(c, ContentRight, top-20, h.Title, titleStyle)
	if h.Number != "" {
		drawTextRight(c, ContentRight, top-40, "#"+h.Number, regular(11))
	}
	dy := top - 58.0
	for _, d := range h.Dates {
		if d.Date.IsZero() {
			continue
		}
		drawTextRight(c, ContentRight, dy, d.Label+": "+formatDate(d.Date), regular(10))
		dy -= 14
	}

	separator := top - height
	drawRule(c, separator)
	c.MoveTo(separator - SectionGap)
	return HeaderResult{LogoDrawn: drawn, SeparatorY: separator}
}

// placeLogo registers and draws the logo scaled into the logo box. A logo
// the backend cannot decode is skipped.
func placeLogo(c *Context, img logo.Image, top float64) (float64, float64, bool) {
	size, err := c.surface.RegisterImage("logo", img)
	if err != nil || size.Width <= 0 || size.Height <= 0 {
		return 0, 0, false
	}
	w, h := fitBox(size.Width, size.Height, logoMaxWidth, logoMaxHeight)
	c.surface.SetPage(c.cursor.Page)
	c.surface.Image("logo", Margin, top-h, w, h)
	return w, h, true
}

// fitBox scales (w, h) down to fit inside (maxW, maxH), keeping the aspect ratio.
func fitBox(w, h, maxW, maxH float64) (float64, float64) {
	scale := 1.0
	if w > maxW {
		scale = maxW / w
	}
	if h*scale > maxH {
		scale = maxH / h
	}
	return w * scale, h * scale
}

// resolveLogo fetches the company logo. Any failure means rendering goes on
// without one.
func resolveLogo(ctx context.Context, src LogoSource, url string, logger *slog.Logger) *logo.Image {
	if src == nil || url == "" {
		return nil
	}
	img, err := src.Fetch(ctx, url)
	if err != nil {
		logger.Warn("logo unavailable, rendering without it", slog.String("url", url), slog.Any("error", err))
		return nil
	}
	return &img
}

func formatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}
