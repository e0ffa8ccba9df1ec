package docgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeflow/tradeflow/internal/auth"
	"github.com/tradeflow/tradeflow/internal/documents"
	"github.com/tradeflow/tradeflow/internal/pdf"
	"github.com/tradeflow/tradeflow/internal/platform/httpx"
	_ "github.com/tradeflow/tradeflow/testing"
)

type staticVerifier struct {
	user auth.User
}

func (v staticVerifier) Verify(_ context.Context, token string) (auth.User, error) {
	if token != "valid" {
		return auth.User{}, fmt.Errorf("%w: bad token", auth.ErrUnauthorized)
	}
	return v.user, nil
}

type archiveCall struct {
	userID uuid.UUID
	typ    documents.Type
	id     uuid.UUID
}

type fakeArchive struct {
	calls []archiveCall
	err   error
}

func (a *fakeArchive) EnqueueArchive(_ context.Context, userID uuid.UUID, t documents.Type, id uuid.UUID) error {
	a.calls = append(a.calls, archiveCall{userID, t, id})
	return a.err
}

func newTestRouter(fetcher Fetcher, archive ArchiveQueue, user auth.User) http.Handler {
	svc := NewService(fetcher, pdf.NewRenderer(nil, nil), nil, nil, nil)
	r := chi.NewRouter()
	r.Use(auth.Middleware(staticVerifier{user: user}, nil))
	NewHandler(nil, svc, archive).MountRoutes(r)
	return r
}

func get(h http.Handler, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body httpx.ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func TestGeneratePDFServesInvoice(t *testing.T) {
	user := auth.User{ID: uuid.New()}
	fetcher := &fakeFetcher{invoice: documents.Invoice{
		Number: "INV-7",
		Total:  500,
		Items:  []documents.LineItem{{Description: "Deck stain", Quantity: 1, Rate: 500, Amount: 500}},
		Payments: []documents.Payment{
			{Amount: 100}, {Amount: 150},
		},
	}}
	archive := &fakeArchive{}
	h := newTestRouter(fetcher, archive, user)
	id := uuid.New()

	rec := get(h, "/generate-pdf?type=invoice&id="+id.String(), "valid")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, fmt.Sprintf(`inline; filename="invoice-%s.pdf"`, id), rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
	assert.Equal(t, user.ID, fetcher.userID)
	assert.Equal(t, []archiveCall{{user.ID, documents.TypeInvoice, id}}, archive.calls)
}

func TestGeneratePDFArchiveFailureStillServes(t *testing.T) {
	h := newTestRouter(&fakeFetcher{}, &fakeArchive{err: errors.New("redis down")}, auth.User{ID: uuid.New()})

	rec := get(h, "/generate-pdf?type=estimate&id="+uuid.NewString(), "valid")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGeneratePDFRejectsBadToken(t *testing.T) {
	h := newTestRouter(&fakeFetcher{}, nil, auth.User{ID: uuid.New()})

	for _, token := range []string{"", "stale"} {
		rec := get(h, "/generate-pdf?type=estimate&id="+uuid.NewString(), token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.NotEmpty(t, decodeError(t, rec))
	}
}

func TestGeneratePDFValidatesQuery(t *testing.T) {
	h := newTestRouter(&fakeFetcher{}, nil, auth.User{ID: uuid.New()})

	cases := map[string]string{
		"/generate-pdf?id=" + uuid.NewString():              "missing type parameter",
		"/generate-pdf?type=estimate":                        "missing id parameter",
		"/generate-pdf?type=receipt&id=" + uuid.NewString(): "type must be one of",
		"/generate-pdf?type=contract&id=42":                  "id must be a uuid",
	}
	for target, want := range cases {
		rec := get(h, target, "valid")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Contains(t, decodeError(t, rec), want, target)
	}
}

func TestGeneratePDFNotFoundIsServerError(t *testing.T) {
	id := uuid.New()
	missing := fmt.Errorf("contract %s: %w", id, documents.ErrNotFound)
	h := newTestRouter(&fakeFetcher{err: missing}, nil, auth.User{ID: uuid.New()})

	rec := get(h, "/generate-pdf?type=contract&id="+id.String(), "valid")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeError(t, rec), "document not found")
}
