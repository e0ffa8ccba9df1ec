package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tradeflow/tradeflow/internal/platform/httpx"
)

// TokenVerifier is satisfied by Verifier and by test fakes.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (User, error)
}

// Middleware rejects requests without a valid bearer token and stores the
// verified user in the request context.
func Middleware(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				httpx.RespondError(w, fmt.Errorf("%w: %s", ErrUnauthorized, err.Error()))
				return
			}
			user, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.Warn("token rejected", slog.String("path", r.URL.Path), slog.Any("error", err))
				httpx.RespondError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}
