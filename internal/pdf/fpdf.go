package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/tradeflow/tradeflow/internal/pdf/logo"
)

const coreFamily = "Helvetica"

// FPDFSurface draws onto a go-pdf/fpdf document using core fonts.
type FPDFSurface struct {
	doc    *fpdf.Fpdf
	width  float64
	height float64
}

// NewFPDFSurface creates an empty US Letter document measured in points.
func NewFPDFSurface() *FPDFSurface {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(0, 0, 0)
	doc.SetCompression(true)
	doc.SetCreator("tradeflow", true)
	return &FPDFSurface{doc: doc, width: PageWidth, height: PageHeight}
}

func (s *FPDFSurface) PageSize() (float64, float64) {
	return s.width, s.height
}

func (s *FPDFSurface) AddPage() int {
	s.doc.AddPage()
	return s.doc.PageNo()
}

func (s *FPDFSurface) SetPage(n int) {
	s.doc.SetPage(n)
}

func (s *FPDFSurface) PageCount() int {
	return s.doc.PageCount()
}

func (s *FPDFSurface) Text(x, y float64, text string, style Style) {
	s.useFont(style.Font, style.Size)
	s.doc.SetTextColor(style.Color.R, style.Color.G, style.Color.B)
	encoded := toWinAnsi(text)
	if style.MaxWidth > 0 {
		encoded = s.clip(encoded, style.MaxWidth)
	}
	if encoded == "" {
		return
	}
	s.doc.Text(x, s.height-y, encoded)
}

func (s *FPDFSurface) Line(x1, y1, x2, y2 float64, stroke Stroke) {
	s.doc.SetDrawColor(stroke.Color.R, stroke.Color.G, stroke.Color.B)
	s.doc.SetLineWidth(stroke.Width)
	s.doc.Line(x1, s.height-y1, x2, s.height-y2)
}

func (s *FPDFSurface) RegisterImage(name string, img logo.Image) (ImageSize, error) {
	if len(img.Data) == 0 {
		return ImageSize{}, fmt.Errorf("pdf: image %s is empty", name)
	}
	info := s.doc.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: string(img.Kind)}, bytes.NewReader(img.Data))
	if s.doc.Err() {
		err := s.doc.Error()
		s.doc.ClearError()
		return ImageSize{}, fmt.Errorf("pdf: register image %s: %w", name, err)
	}
	if info == nil {
		return ImageSize{}, fmt.Errorf("pdf: register image %s: no image info", name)
	}
	return ImageSize{Width: info.Width(), Height: info.Height()}, nil
}

func (s *FPDFSurface) Image(name string, x, y, w, h float64) {
	s.doc.ImageOptions(name, x, s.height-y-h, w, h, false, fpdf.ImageOptions{}, 0, "")
}

func (s *FPDFSurface) TextWidth(text string, font Font, size float64) float64 {
	s.useFont(font, size)
	return s.doc.GetStringWidth(toWinAnsi(text))
}

func (s *FPDFSurface) Output(w io.Writer) error {
	if err := s.doc.Output(w); err != nil {
		return fmt.Errorf("pdf: output: %w", err)
	}
	return nil
}

func (s *FPDFSurface) useFont(font Font, size float64) {
	style := ""
	if font == FontBold {
		style = "B"
	}
	s.doc.SetFont(coreFamily, style, size)
}

// clip drops trailing runes until the run fits; the font must already be set.
func (s *FPDFSurface) clip(text string, maxWidth float64) string {
	if s.doc.GetStringWidth(text) <= maxWidth {
		return text
	}
	// text is single-byte WinAnsi here, so byte slicing is safe.
	for n := len(text) - 1; n > 0; n-- {
		if s.doc.GetStringWidth(text[:n]) <= maxWidth {
			return text[:n]
		}
	}
	return ""
}

// toWinAnsi transcodes UTF-8 into the single-byte encoding used by the
// core fonts. Runes outside Windows-1252 become '?'.
func toWinAnsi(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r < 0x80 {
			b.WriteByte(byte(r))
			continue
		}
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('?')
	}
	return b.String()
}
