package logo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	cacheKeyPrefix = "logo:"
	maxLogoBytes   = 5 << 20
)

// Observer receives fetch outcomes; observability.Metrics satisfies it.
type Observer interface {
	ObserveLogoFetch(source, outcome string)
}

// Config wires the fetcher dependencies. Cache and Observer are optional.
type Config struct {
	HTTPClient *http.Client
	Cache      *redis.Client
	TTL        time.Duration
	Timeout    time.Duration
	Observer   Observer
	Logger     *slog.Logger
}

// Fetcher downloads logos over plain HTTP, caching the raw bytes in Redis
// and collapsing concurrent fetches of the same URL.
type Fetcher struct {
	client   *http.Client
	cache    *redis.Client
	ttl      time.Duration
	observer Observer
	logger   *slog.Logger
	group    singleflight.Group
}

// NewFetcher constructs a Fetcher.
func NewFetcher(cfg Config) *Fetcher {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{client: client, cache: cfg.Cache, ttl: ttl, observer: cfg.Observer, logger: logger}
}

// Fetch returns the logo at rawURL. Every failure is returned to the caller;
// deciding to render without a logo is the caller's job.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Image, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return Image{}, ErrNoURL
	}
	key := cacheKey(rawURL)

	if data, ok := f.fromCache(ctx, key); ok {
		kind, err := Sniff(rawURL, data)
		if err == nil {
			f.observe("cache", "ok")
			return Image{Data: data, Kind: kind}, nil
		}
		f.observe("cache", "invalid")
	}

	res, err, _ := f.group.Do(key, func() (interface{}, error) {
		return f.download(ctx, rawURL)
	})
	if err != nil {
		f.observe("remote", "error")
		return Image{}, err
	}
	data := res.([]byte)
	kind, err := Sniff(rawURL, data)
	if err != nil {
		f.observe("remote", "unsupported")
		return Image{}, err
	}
	f.observe("remote", "ok")
	f.toCache(ctx, key, data)
	return Image{Data: data, Kind: kind}, nil
}

func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("logo: build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("logo: fetch: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("logo: fetch returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("logo: read body: %w", err)
	}
	if len(data) > maxLogoBytes {
		return nil, errors.New("logo: image exceeds size limit")
	}
	if len(data) == 0 {
		return nil, errors.New("logo: empty body")
	}
	return data, nil
}

func (f *Fetcher) fromCache(ctx context.Context, key string) ([]byte, bool) {
	if f.cache == nil {
		return nil, false
	}
	data, err := f.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			f.logger.Warn("logo cache read", slog.Any("error", err))
		}
		return nil, false
	}
	return data, true
}

func (f *Fetcher) toCache(ctx context.Context, key string, data []byte) {
	if f.cache == nil {
		return
	}
	if err := f.cache.Set(ctx, key, data, f.ttl).Err(); err != nil {
		f.logger.Warn("logo cache write", slog.Any("error", err))
	}
}

func (f *Fetcher) observe(source, outcome string) {
	if f.observer != nil {
		f.observer.ObserveLogoFetch(source, outcome)
	}
}

func cacheKey(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
