// Package report talks to object storage: it builds public URLs for files
// such as contractor logos and archives rendered PDFs.
package report

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Storage builds public URLs for objects kept in the storage service.
type Storage struct {
	baseURL    string
	bucket     string
	httpClient *http.Client
}

// NewStorage constructs a Storage rooted at the public object endpoint, for
// example https://project.example.co/storage/v1/object/public.
func NewStorage(baseURL, bucket string) *Storage {
	return &Storage{
		baseURL: strings.TrimRight(baseURL, "/"),
		bucket:  strings.Trim(bucket, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// PublicURL resolves a stored path into a fetchable URL. Values that are
// already absolute http(s) URLs pass through; blank paths stay blank.
func (s *Storage) PublicURL(path string) string {
	return PublicURL(s.baseURL, s.bucket, path)
}

// PublicURL joins base, bucket and path, escaping each path segment.
func PublicURL(base, bucket, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if u, err := url.Parse(path); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return path
	}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	parts := []string{strings.TrimRight(base, "/")}
	if b := strings.Trim(bucket, "/"); b != "" {
		parts = append(parts, b)
	}
	return strings.Join(append(parts, segments...), "/")
}

// Ping checks that the storage endpoint answers.
func (s *Storage) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.baseURL, nil)
	if err != nil {
		return err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("storage returned status %d", resp.StatusCode)
	}
	return nil
}
