package pdf

import (
	"io"

	"github.com/tradeflow/tradeflow/internal/pdf/logo"
)

// US Letter in points.
const (
	PageWidth  = 612.0
	PageHeight = 792.0
)

// Font selects one of the embedded core font faces.
type Font int

const (
	FontRegular Font = iota
	FontBold
)

// Color is an RGB triple in 0-255.
type Color struct {
	R, G, B int
}

var (
	ColorBlack     = Color{0, 0, 0}
	ColorMuted     = Color{102, 102, 102}
	ColorRule      = Color{204, 204, 204}
	ColorHighlight = Color{192, 32, 32}
)

// Style describes how a single text run is drawn. A positive MaxWidth
// clips the run to that many points.
type Style struct {
	Font     Font
	Size     float64
	Color    Color
	MaxWidth float64
}

// Stroke describes a line segment.
type Stroke struct {
	Width float64
	Color Color
}

// ImageSize is the natural size of a registered image in points.
type ImageSize struct {
	Width  float64
	Height float64
}

// Surface is the drawing backend. Coordinates are in points with the
// origin at the bottom-left corner of the page; text y is the baseline.
// Drawing calls apply to the page last selected with AddPage or SetPage.
type Surface interface {
	PageSize() (width, height float64)
	AddPage() int
	SetPage(n int)
	PageCount() int
	Text(x, y float64, text string, style Style)
	Line(x1, y1, x2, y2 float64, stroke Stroke)
	RegisterImage(name string, img logo.Image) (ImageSize, error)
	Image(name string, x, y, w, h float64)
	TextWidth(text string, font Font, size float64) float64
	Output(w io.Writer) error
}
