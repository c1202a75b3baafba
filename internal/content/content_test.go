package content

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStatic(t *testing.T) *Static {
	t.Helper()
	s, err := NewStatic()
	require.NoError(t, err)
	return s
}

type memoryCache struct {
	mu       sync.Mutex
	chapters map[int]Chapter
}

func newMemoryCache() *memoryCache {
	return &memoryCache{chapters: make(map[int]Chapter)}
}

func (c *memoryCache) GetChapters(_ context.Context, start, end int) ([]Chapter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Chapter
	for n := start; n <= end; n++ {
		if ch, ok := c.chapters[n]; ok {
			ch.Source = SourceCache
			out = append(out, ch)
		}
	}
	return out, nil
}

func (c *memoryCache) PutChapters(_ context.Context, chapters []Chapter) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range chapters {
		c.chapters[ch.Number] = ch
	}
	return nil
}

// sefariaServer fakes the texts API and counts requests.
func sefariaServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		n := strings.TrimPrefix(r.URL.Path, "/api/v3/texts/Psalms.")
		assert.Equal(t, "hebrew", r.URL.Query().Get("version"))
		json.NewEncoder(w).Encode(map[string]any{
			"versions": []map[string]any{{
				"language": "he",
				"text":     []string{"<b>פסוק</b> " + n + "&nbsp;א", "פסוק  ב"},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

type failingProvider struct{ calls atomic.Int32 }

func (p *failingProvider) FetchUnits(context.Context, int, int) ([]Chapter, error) {
	p.calls.Add(1)
	return nil, ErrUnavailable
}

func TestValidateRange(t *testing.T) {
	assert.NoError(t, ValidateRange(1, 150))
	assert.NoError(t, ValidateRange(119, 119))
	for _, r := range [][2]int{{0, 1}, {5, 4}, {150, 151}} {
		assert.ErrorIs(t, ValidateRange(r[0], r[1]), ErrInvalidRange)
	}
}

func TestStatic(t *testing.T) {
	s := newStatic(t)

	got, err := s.FetchUnits(context.Background(), 22, 24)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, SourcePlaceholder, got[0].Source)
	assert.Equal(t, []string{PlaceholderVerse}, got[0].Verses)

	assert.Equal(t, 23, got[1].Number)
	assert.Equal(t, SourceStatic, got[1].Source)
	assert.Len(t, got[1].Verses, 6)
	assert.True(t, strings.HasPrefix(got[1].Verses[0], "מזמור לדוד"))

	assert.Equal(t, 24, got[2].Number)

	for _, n := range []int{1, 121, 150} {
		assert.Equal(t, SourceStatic, s.Chapter(n).Source, n)
	}
}

func TestSefariaClient(t *testing.T) {
	var calls atomic.Int32
	srv := sefariaServer(t, &calls)
	client := NewSefariaClient(srv.URL + "/")

	got, err := client.FetchUnits(context.Background(), 10, 17)
	require.NoError(t, err)
	require.Len(t, got, 8)
	assert.Equal(t, int32(8), calls.Load())

	for i, ch := range got {
		assert.Equal(t, 10+i, ch.Number)
		assert.Equal(t, SourceSefaria, ch.Source)
	}
	assert.Equal(t, []string{"פסוק 10 א", "פסוק ב"}, got[0].Verses)
}

func TestSefariaClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"api error", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error": "Could not find title"}`))
		}},
		{"no text", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"versions": []}`))
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewSefariaClient(srv.URL).FetchUnits(context.Background(), 1, 2)
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestResilient_RemoteFillsCache(t *testing.T) {
	var calls atomic.Int32
	srv := sefariaServer(t, &calls)
	cache := newMemoryCache()
	r := NewResilient(NewSefariaClient(srv.URL), cache, newStatic(t), 0, quietLogger())
	ctx := context.Background()

	got, err := r.FetchUnits(ctx, 1, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, SourceSefaria, got[0].Source)
	assert.Equal(t, int32(3), calls.Load())

	// Served from cache without another request.
	got, err = r.FetchUnits(ctx, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, SourceCache, got[2].Source)
	assert.Equal(t, int32(3), calls.Load())

	// Only the uncached span is fetched.
	got, err = r.FetchUnits(ctx, 2, 5)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, SourceCache, got[0].Source)
	assert.Equal(t, SourceSefaria, got[3].Source)
	assert.Equal(t, int32(5), calls.Load())
}

func TestResilient_FallsBackToStatic(t *testing.T) {
	remote := &failingProvider{}
	r := NewResilient(remote, nil, newStatic(t), 0, quietLogger())

	got, err := r.FetchUnits(context.Background(), 120, 121)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, SourcePlaceholder, got[0].Source)
	assert.Equal(t, SourceStatic, got[1].Source)
	assert.Equal(t, int32(1), remote.calls.Load())
}

func TestResilient_Offline(t *testing.T) {
	r := NewResilient(nil, nil, newStatic(t), 0, quietLogger())

	got, err := r.FetchUnits(context.Background(), 150, 150)
	require.NoError(t, err)
	assert.Equal(t, SourceStatic, got[0].Source)
}

func TestResilient_Errors(t *testing.T) {
	r := NewResilient(&failingProvider{}, nil, newStatic(t), 0, quietLogger())

	_, err := r.FetchUnits(context.Background(), 0, 3)
	assert.ErrorIs(t, err, ErrInvalidRange)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.FetchUnits(ctx, 1, 3)
	assert.True(t, errors.Is(err, context.Canceled))
}
