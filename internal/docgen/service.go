// Package docgen loads a document for its owner and renders it to PDF.
package docgen

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tradeflow/tradeflow/internal/documents"
	"github.com/tradeflow/tradeflow/internal/pdf"
)

// Fetcher loads documents scoped to their owning user.
type Fetcher interface {
	GetEstimate(ctx context.Context, userID, id uuid.UUID) (documents.Estimate, error)
	GetInvoice(ctx context.Context, userID, id uuid.UUID) (documents.Invoice, error)
	GetContract(ctx context.Context, userID, id uuid.UUID) (documents.Contract, error)
}

// Renderer lays documents out as PDF.
type Renderer interface {
	RenderEstimate(ctx context.Context, est documents.Estimate) (pdf.Result, error)
	RenderInvoice(ctx context.Context, inv documents.Invoice) (pdf.Result, error)
	RenderContract(ctx context.Context, con documents.Contract) (pdf.Result, error)
}

// URLResolver turns a stored logo path into a fetchable URL.
type URLResolver interface {
	PublicURL(path string) string
}

// RenderObserver records render outcomes.
type RenderObserver interface {
	ObserveRender(docType string, pages int, err error)
}

// Document is a rendered PDF ready to be served.
type Document struct {
	Type  documents.Type
	ID    uuid.UUID
	Name  string
	PDF   []byte
	Pages int
}

// Service generates PDFs on demand.
type Service struct {
	fetcher  Fetcher
	renderer Renderer
	urls     URLResolver
	observer RenderObserver
	logger   *slog.Logger
}

// NewService constructs a Service. urls and observer may be nil.
func NewService(fetcher Fetcher, renderer Renderer, urls URLResolver, observer RenderObserver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{fetcher: fetcher, renderer: renderer, urls: urls, observer: observer, logger: logger}
}

// Generate fetches the document of type t owned by userID and renders it.
func (s *Service) Generate(ctx context.Context, userID uuid.UUID, t documents.Type, id uuid.UUID) (Document, error) {
	res, err := s.render(ctx, userID, t, id)
	if s.observer != nil {
		s.observer.ObserveRender(string(t), res.Pages, err)
	}
	if err != nil {
		return Document{}, err
	}
	s.logger.Debug("document rendered",
		slog.String("type", string(t)),
		slog.String("id", id.String()),
		slog.Int("pages", res.Pages),
		slog.Int("bytes", len(res.PDF)),
	)
	return Document{Type: t, ID: id, Name: t.FileName(id), PDF: res.PDF, Pages: res.Pages}, nil
}

func (s *Service) render(ctx context.Context, userID uuid.UUID, t documents.Type, id uuid.UUID) (pdf.Result, error) {
	switch t {
	case documents.TypeEstimate:
		est, err := s.fetcher.GetEstimate(ctx, userID, id)
		if err != nil {
			return pdf.Result{}, err
		}
		est.Company.LogoURL = s.logoURL(est.Company.LogoURL)
		return s.renderer.RenderEstimate(ctx, est)
	case documents.TypeInvoice:
		inv, err := s.fetcher.GetInvoice(ctx, userID, id)
		if err != nil {
			return pdf.Result{}, err
		}
		inv.Company.LogoURL = s.logoURL(inv.Company.LogoURL)
		return s.renderer.RenderInvoice(ctx, inv)
	case documents.TypeContract:
		con, err := s.fetcher.GetContract(ctx, userID, id)
		if err != nil {
			return pdf.Result{}, err
		}
		con.Company.LogoURL = s.logoURL(con.Company.LogoURL)
		return s.renderer.RenderContract(ctx, con)
	default:
		return pdf.Result{}, fmt.Errorf("generate: %w: %q", documents.ErrUnknownType, t)
	}
}

func (s *Service) logoURL(path string) string {
	if s.urls == nil {
		return path
	}
	return s.urls.PublicURL(path)
}
