package docgen

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tradeflow/tradeflow/internal/auth"
	"github.com/tradeflow/tradeflow/internal/documents"
	"github.com/tradeflow/tradeflow/internal/platform/httpx"
)

// ArchiveQueue schedules a copy of a rendered document to archive storage.
type ArchiveQueue interface {
	EnqueueArchive(ctx context.Context, userID uuid.UUID, t documents.Type, id uuid.UUID) error
}

// Handler serves GET /generate-pdf.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	archive   ArchiveQueue
	validator *validator.Validate
}

// NewHandler constructs a Handler. archive may be nil.
func NewHandler(logger *slog.Logger, service *Service, archive ArchiveQueue) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, archive: archive, validator: validator.New()}
}

// MountRoutes registers the generate endpoint. The router is expected to
// carry auth.Middleware.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/generate-pdf", h.generate)
}

type generateQuery struct {
	Type string `validate:"required,oneof=estimate invoice contract"`
	ID   string `validate:"required,uuid"`
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, fmt.Errorf("%w: no user on request", auth.ErrUnauthorized))
		return
	}

	q := generateQuery{
		Type: strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type"))),
		ID:   strings.TrimSpace(r.URL.Query().Get("id")),
	}
	if err := h.validator.Struct(q); err != nil {
		httpx.RespondError(w, queryError(err))
		return
	}
	docType, err := documents.ParseType(q.Type)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error()))
		return
	}
	id := uuid.MustParse(q.ID)

	doc, err := h.service.Generate(r.Context(), user.ID, docType, id)
	if err != nil {
		h.logger.Error("generate pdf failed",
			slog.String("type", string(docType)),
			slog.String("id", id.String()),
			slog.Any("error", err),
		)
		httpx.RespondError(w, err)
		return
	}

	if h.archive != nil {
		if err := h.archive.EnqueueArchive(r.Context(), user.ID, docType, id); err != nil {
			h.logger.Warn("enqueue archive failed", slog.String("id", id.String()), slog.Any("error", err))
		}
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Name))
	httpx.Binary(w, "application/pdf", doc.PDF)
}

func queryError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, "missing "+field+" parameter")
		case "oneof":
			msgs = append(msgs, field+" must be one of estimate, invoice, contract")
		case "uuid":
			msgs = append(msgs, field+" must be a uuid")
		default:
			msgs = append(msgs, fe.Error())
		}
	}
	return fmt.Errorf("%w: %s", httpx.ErrValidation, strings.Join(msgs, "; "))
}
