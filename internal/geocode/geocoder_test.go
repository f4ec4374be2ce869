package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shareplaces/backend/cache"
	"github.com/shareplaces/backend/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1600 Amphitheatre Parkway", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "1600 Amphitheatre Pkwy, Mountain View, CA 94043, USA",
				"geometry": {"location": {"lat": 37.4224764, "lng": -122.0842499}}
			}]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 5*time.Second)
	result, err := client.Resolve(context.Background(), "1600 Amphitheatre Parkway")
	require.NoError(t, err)

	assert.Equal(t, "1600 Amphitheatre Pkwy, Mountain View, CA 94043, USA", result.FormattedAddress)
	assert.InDelta(t, 37.4224764, result.Lat, 1e-9)
	assert.InDelta(t, -122.0842499, result.Lng, 1e-9)
}

func TestResolveZeroTimeoutUsesDefault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "Berlin, Germany",
				"geometry": {"location": {"lat": 52.52, "lng": 13.405}}
			}]
		}`))
	}))
	defer server.Close()

	// 未配置超时不能导致请求立即过期
	client := NewClient(server.URL, "test-key", 0)
	result, err := client.Resolve(context.Background(), "Berlin")
	require.NoError(t, err)
	assert.Equal(t, "Berlin, Germany", result.FormattedAddress)
}

func TestResolveZeroResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 5*time.Second)
	_, err := client.Resolve(context.Background(), "xyzzy nowhere")

	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "No coordinates found for address", apperr.MessageOf(err))
}

func TestResolveUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 5*time.Second)
	_, err := client.Resolve(context.Background(), "somewhere")

	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
	assert.Equal(t, "Failed to resolve address", apperr.MessageOf(err))
}

func TestResolveDeniedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "REQUEST_DENIED", "results": [{"formatted_address": "x"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 5*time.Second)
	_, err := client.Resolve(context.Background(), "somewhere")

	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
}

func TestCachedResolverOnlyHitsUpstreamOnce(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "Berlin, Germany",
				"geometry": {"location": {"lat": 52.52, "lng": 13.405}}
			}]
		}`))
	}))
	defer server.Close()

	memCache, err := cache.NewMemoryCache()
	require.NoError(t, err)
	defer memCache.Close()

	resolver := NewCachedResolver(NewClient(server.URL, "test-key", 5*time.Second), memCache, time.Minute)

	first, err := resolver.Resolve(context.Background(), "Berlin")
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), "Berlin")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), calls.Load())
}

func TestCachedResolverDoesNotCacheFailures(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer server.Close()

	memCache, err := cache.NewMemoryCache()
	require.NoError(t, err)
	defer memCache.Close()

	resolver := NewCachedResolver(NewClient(server.URL, "test-key", 5*time.Second), memCache, time.Minute)

	_, err = resolver.Resolve(context.Background(), "nowhere")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	_, err = resolver.Resolve(context.Background(), "nowhere")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	assert.Equal(t, int64(2), calls.Load())
}
