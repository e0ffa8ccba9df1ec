package pdf

import (
	"context"
	"errors"
	"strings"

	"github.com/tradeflow/tradeflow/internal/pdf/logo"
)

type textRun struct {
	Page  int
	X, Y  float64
	Text  string
	Style Style
}

type lineSeg struct {
	Page           int
	X1, Y1, X2, Y2 float64
}

// recorder draws through to a real fpdf document and remembers every call.
type recorder struct {
	*FPDFSurface
	page   int
	texts  []textRun
	lines  []lineSeg
	images int
}

func newRecorder() *recorder {
	return &recorder{FPDFSurface: NewFPDFSurface()}
}

func (r *recorder) AddPage() int {
	r.page = r.FPDFSurface.AddPage()
	return r.page
}

func (r *recorder) SetPage(n int) {
	r.page = n
	r.FPDFSurface.SetPage(n)
}

func (r *recorder) Text(x, y float64, text string, style Style) {
	r.texts = append(r.texts, textRun{Page: r.page, X: x, Y: y, Text: text, Style: style})
	r.FPDFSurface.Text(x, y, text, style)
}

func (r *recorder) Line(x1, y1, x2, y2 float64, stroke Stroke) {
	r.lines = append(r.lines, lineSeg{Page: r.page, X1: x1, Y1: y1, X2: x2, Y2: y2})
	r.FPDFSurface.Line(x1, y1, x2, y2, stroke)
}

func (r *recorder) Image(name string, x, y, w, h float64) {
	r.images++
	r.FPDFSurface.Image(name, x, y, w, h)
}

func (r *recorder) find(text string) []textRun {
	var out []textRun
	for _, t := range r.texts {
		if t.Text == text {
			out = append(out, t)
		}
	}
	return out
}

func (r *recorder) withPrefix(prefix string) []textRun {
	var out []textRun
	for _, t := range r.texts {
		if strings.HasPrefix(t.Text, prefix) {
			out = append(out, t)
		}
	}
	return out
}

// valueBeside returns the run drawn on the same page and baseline as label,
// to its right.
func (r *recorder) valueBeside(label string) (textRun, bool) {
	for _, l := range r.find(label) {
		for _, t := range r.texts {
			if t.Page == l.Page && t.Y == l.Y && t.X > l.X {
				return t, true
			}
		}
	}
	return textRun{}, false
}

// horizontalRuleAt reports whether a full-width rule was drawn at y.
func (r *recorder) horizontalRuleAt(y float64) bool {
	for _, l := range r.lines {
		if l.Y1 == y && l.Y2 == y && l.X1 == Margin && l.X2 == ContentRight {
			return true
		}
	}
	return false
}

type stubLogos struct {
	img logo.Image
	err error
}

func (s stubLogos) Fetch(context.Context, string) (logo.Image, error) {
	if s.err != nil {
		return logo.Image{}, s.err
	}
	return s.img, nil
}

var errLogoDown = errors.New("storage unavailable")
