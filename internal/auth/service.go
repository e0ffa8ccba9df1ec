package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Verifier resolves access tokens to users by asking the auth service.
type Verifier struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewVerifier constructs a Verifier. baseURL is the auth service root, for
// example https://project.example.co.
func NewVerifier(baseURL, apiKey string) *Verifier {
	return &Verifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithHTTPClient replaces the HTTP client, mainly for tests.
func (v *Verifier) WithHTTPClient(c *http.Client) *Verifier {
	if c != nil {
		v.httpClient = c
	}
	return v
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Verify returns the user owning token. Rejected tokens yield ErrUnauthorized;
// transport failures are returned as-is.
func (v *Verifier) Verify(ctx context.Context, token string) (User, error) {
	if strings.TrimSpace(token) == "" {
		return User{}, fmt.Errorf("%w: missing token", ErrUnauthorized)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return User{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", v.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("auth: verify token: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return User{}, fmt.Errorf("%w: invalid token", ErrUnauthorized)
	case resp.StatusCode >= 400:
		return User{}, fmt.Errorf("auth: verify token: status %d", resp.StatusCode)
	}

	var body userResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return User{}, fmt.Errorf("auth: decode user: %w", err)
	}
	id, err := uuid.Parse(body.ID)
	if err != nil {
		return User{}, fmt.Errorf("%w: user id %q", ErrUnauthorized, body.ID)
	}
	return User{ID: id, Email: body.Email}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errors.New("authorization header must use the Bearer scheme")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.New("bearer token is empty")
	}
	return token, nil
}
