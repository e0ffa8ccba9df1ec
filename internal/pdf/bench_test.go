package pdf

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func BenchmarkRenderEstimate(b *testing.B) {
	r := NewRenderer(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	est := sampleEstimate()
	est.Items = makeItems(60)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.RenderEstimate(ctx, est); err != nil {
			b.Fatalf("render: %v", err)
		}
	}
}

func BenchmarkWrapText(b *testing.B) {
	s := NewFPDFSurface()
	text := "Remove existing finishes down to studs, install cement board and waterproofing membrane, then set porcelain tile on the floor and surround. "
	for i := 0; i < 4; i++ {
		text += text
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = WrapText(s, text, FontRegular, 10, TextBlockWidth)
	}
}
