package loader

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhad/plenum/internal/models"
	"github.com/xhad/plenum/pkg/manifest"
	"github.com/xhad/plenum/pkg/store"
)

// protocolServer serves MMP<period>-<index>.html for the given indices
// and 404 for everything else, counting all requests.
func protocolServer(t *testing.T, period int, indices ...int) (*httptest.Server, *int32) {
	t.Helper()

	available := make(map[string]bool, len(indices))
	for _, i := range indices {
		available[fmt.Sprintf("/MMP%d-%d.html", period, i)] = true
	}

	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		if !available[r.URL.Path] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, "<html><body>%s</body></html>", r.URL.Path)
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func newTestLoader(t *testing.T, baseURL string, maxMisses int) (*Loader, *store.Store) {
	t.Helper()

	st, err := store.New(t.TempDir())
	require.NoError(t, err)

	l, err := NewWithConfig(st, LoaderConfig{
		BaseURL:   baseURL + "/",
		MaxIndex:  50,
		MaxMisses: maxMisses,
		RateLimit: 1000,
	})
	require.NoError(t, err)
	return l, st
}

func TestLoadSingleDocument(t *testing.T) {
	server, requests := protocolServer(t, 14, 5)
	l, st := newTestLoader(t, server.URL, 3)

	m, err := manifest.Load(st.Dir(), 14)
	require.NoError(t, err)

	result, err := l.Load(context.Background(), m, 5, false)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Fetched)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, int32(1), atomic.LoadInt32(requests))
	assert.True(t, st.HasRaw(14, 5))
	assert.Equal(t, models.StatusFetched, m.Status(5))
}

func TestFetchedIndexIsSkippedWithoutNetwork(t *testing.T) {
	server, requests := protocolServer(t, 14, 5)
	l, st := newTestLoader(t, server.URL, 3)

	m, err := manifest.Load(st.Dir(), 14)
	require.NoError(t, err)

	_, err = l.Load(context.Background(), m, 5, false)
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(requests))

	result, err := l.Load(context.Background(), m, 5, false)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Fetched)
	assert.Equal(t, int32(1), atomic.LoadInt32(requests), "no network traffic for a fetched index")
}

func TestFailedFetchWritesNoDocument(t *testing.T) {
	server, _ := protocolServer(t, 14) // nothing available
	l, st := newTestLoader(t, server.URL, 3)

	m, err := manifest.Load(st.Dir(), 14)
	require.NoError(t, err)

	result, err := l.Load(context.Background(), m, 5, false)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, http.StatusNotFound, result.Errors[0].StatusCode)
	assert.False(t, st.HasRaw(14, 5))
	assert.Equal(t, models.StatusFailed, m.Status(5))
}

func TestFailedIndexIsRetriedOnNextRun(t *testing.T) {
	server, requests := protocolServer(t, 14)
	l, st := newTestLoader(t, server.URL, 3)

	m, err := manifest.Load(st.Dir(), 14)
	require.NoError(t, err)

	_, err = l.Load(context.Background(), m, 5, false)
	require.NoError(t, err)
	_, err = l.Load(context.Background(), m, 5, false)
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(requests))
}

func TestForceRefetchesAndOverwrites(t *testing.T) {
	server, requests := protocolServer(t, 14, 5)
	l, st := newTestLoader(t, server.URL, 3)

	m, err := manifest.Load(st.Dir(), 14)
	require.NoError(t, err)

	_, err = l.Load(context.Background(), m, 5, false)
	require.NoError(t, err)

	require.NoError(t, st.WriteRaw(14, 5, []byte("stale")))

	result, err := l.Load(context.Background(), m, 5, true)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Fetched)
	assert.Equal(t, int32(2), atomic.LoadInt32(requests))

	body, err := st.ReadRaw(14, 5)
	require.NoError(t, err)
	assert.NotEqual(t, "stale", string(body))
}

func TestDiscoveryStopsAfterConsecutiveMisses(t *testing.T) {
	server, requests := protocolServer(t, 14, 1, 2, 3)
	l, st := newTestLoader(t, server.URL, 2)

	m, err := manifest.Load(st.Dir(), 14)
	require.NoError(t, err)

	result, err := l.Load(context.Background(), m, 0, false)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Fetched)
	assert.Equal(t, 2, result.Failed)
	// indices 1-3 plus the two misses that triggered the cutoff
	assert.Equal(t, int32(5), atomic.LoadInt32(requests))

	for i := 1; i <= 3; i++ {
		assert.Equal(t, models.StatusFetched, m.Status(i))
	}
	assert.Equal(t, models.StatusFailed, m.Status(4))
	assert.Equal(t, models.StatusFailed, m.Status(5))
	assert.Equal(t, models.StatusUnknown, m.Status(6))
}

func TestFailureIsIsolatedPerIndex(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		switch r.URL.Path {
		case "/MMP14-1.html", "/MMP14-3.html":
			fmt.Fprint(w, "<html><body>ok</body></html>")
		case "/MMP14-2.html":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	l, st := newTestLoader(t, server.URL, 2)

	m, err := manifest.Load(st.Dir(), 14)
	require.NoError(t, err)

	result, err := l.Load(context.Background(), m, 0, false)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Fetched)
	assert.Equal(t, models.StatusFetched, m.Status(1))
	assert.Equal(t, models.StatusFailed, m.Status(2))
	assert.Equal(t, models.StatusFetched, m.Status(3))
	assert.True(t, st.HasRaw(14, 3), "failure of index 2 must not abort the run")
}

func TestProtocolURL(t *testing.T) {
	st, err := store.New(t.TempDir())
	require.NoError(t, err)

	l, err := NewWithConfig(st, LoaderConfig{BaseURL: "https://archive.example.com/documents/"})
	require.NoError(t, err)

	assert.Equal(t,
		"https://archive.example.com/documents/MMP16-12.html",
		l.ProtocolURL(16, 12))
}
