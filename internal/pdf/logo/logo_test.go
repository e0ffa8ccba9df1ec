package logo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	fakePNG  = append([]byte("\x89PNG\r\n\x1a\n"), 0, 0, 0, 13)
	fakeJPEG = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 16}
)

func TestSniff(t *testing.T) {
	cases := []struct {
		name string
		url  string
		data []byte
		want Kind
		err  error
	}{
		{"png extension", "https://cdn.example.com/a/logo.PNG", fakePNG, KindPNG, nil},
		{"jpeg extension", "https://cdn.example.com/logo.jpeg?token=1", fakeJPEG, KindJPEG, nil},
		{"jpg extension with unknown bytes", "https://cdn.example.com/logo.jpg", []byte("????"), KindJPEG, nil},
		{"extension disagrees with content", "https://cdn.example.com/logo.png", fakeJPEG, KindJPEG, nil},
		{"no extension png bytes", "https://cdn.example.com/logo", fakePNG, KindPNG, nil},
		{"no extension jpeg bytes", "https://cdn.example.com/logo", fakeJPEG, KindJPEG, nil},
		{"gif", "https://cdn.example.com/logo.gif", []byte("GIF89a"), "", ErrUnsupportedFormat},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Sniff(tc.url, tc.data)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func newCache(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

type countingObserver struct {
	events []string
}

func (o *countingObserver) ObserveLogoFetch(source, outcome string) {
	o.events = append(o.events, source+":"+outcome)
}

func TestFetchCachesBytes(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write(fakePNG)
	}))
	defer srv.Close()

	obs := &countingObserver{}
	f := NewFetcher(Config{Cache: newCache(t), TTL: time.Minute, Observer: obs})

	img, err := f.Fetch(context.Background(), srv.URL+"/logo.png")
	require.NoError(t, err)
	assert.Equal(t, KindPNG, img.Kind)
	assert.Equal(t, fakePNG, img.Data)

	img, err = f.Fetch(context.Background(), srv.URL+"/logo.png")
	require.NoError(t, err)
	assert.Equal(t, KindPNG, img.Kind)

	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, []string{"remote:ok", "cache:ok"}, obs.events)
}

func TestFetchWithoutCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(fakeJPEG)
	}))
	defer srv.Close()

	f := NewFetcher(Config{})
	img, err := f.Fetch(context.Background(), srv.URL+"/brand")
	require.NoError(t, err)
	assert.Equal(t, KindJPEG, img.Kind)
}

func TestFetchFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.png":
			http.NotFound(w, r)
		case "/logo.bmp":
			_, _ = w.Write([]byte("BM...."))
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	f := NewFetcher(Config{Cache: newCache(t)})

	_, err := f.Fetch(context.Background(), "")
	require.ErrorIs(t, err, ErrNoURL)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")

	_, err = f.Fetch(context.Background(), srv.URL+"/logo.bmp")
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = f.Fetch(context.Background(), srv.URL+"/empty.png")
	require.Error(t, err)

	_, err = f.Fetch(context.Background(), "http://127.0.0.1:0/unreachable.png")
	require.Error(t, err)
}
