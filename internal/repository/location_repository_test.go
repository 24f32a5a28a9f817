package repository

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/model"
	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const londonGeocodeBody = `{"results":[{"id":2643743,"name":"London","latitude":51.5,"longitude":-0.12,"country":"GB"}],"generationtime_ms":0.5}`

func newMockHTTPClient(fn func(req *http.Request) *http.Response) *http.Client {
	return &http.Client{Transport: RoundTripperFunc(fn)}
}

func newTestCache(t *testing.T) (*miniredis.Miniredis, *redisv9.Client) {
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestResolve_Success(t *testing.T) {
	var captured *http.Request
	repo := NewLocationRepository(nil, newMockHTTPClient(func(req *http.Request) *http.Response {
		captured = req
		return JSONResponse(http.StatusOK, londonGeocodeBody)
	}))

	loc, err := repo.Resolve(context.Background(), "  London ")
	require.NoError(t, err)
	assert.Equal(t, model.Location{Latitude: 51.5, Longitude: -0.12, Name: "London", Country: "GB"}, loc)

	require.NotNil(t, captured)
	q := captured.URL.Query()
	assert.Equal(t, "London", q.Get("name"))
	assert.Equal(t, "1", q.Get("count"))
	assert.Equal(t, "en", q.Get("language"))
	assert.Equal(t, "json", q.Get("format"))
	assert.Equal(t, http.MethodGet, captured.Method)
}

func TestResolve_EncodesQuery(t *testing.T) {
	var rawQuery string
	repo := NewLocationRepository(nil, newMockHTTPClient(func(req *http.Request) *http.Response {
		rawQuery = req.URL.RawQuery
		return JSONResponse(http.StatusOK, `{"results":[{"name":"São Paulo","latitude":-23.5,"longitude":-46.6,"country":"Brazil"}]}`)
	}))

	loc, err := repo.Resolve(context.Background(), "São Paulo")
	require.NoError(t, err)
	assert.Equal(t, "São Paulo", loc.Name)
	assert.Contains(t, rawQuery, "name=S%C3%A3o+Paulo")
}

func TestResolve_NotFound(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty results", `{"results":[]}`},
		{"missing results", `{"generationtime_ms":0.3}`},
		{"malformed payload", `not-json`},
		{"no coordinates", `{"results":[{"name":"Nowhere"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewLocationRepository(nil, newMockHTTPClient(func(req *http.Request) *http.Response {
				return JSONResponse(http.StatusOK, tt.body)
			}))
			_, err := repo.Resolve(context.Background(), "Atlantis")
			var notFound *model.NotFoundError
			assert.ErrorAs(t, err, &notFound)
			assert.Equal(t, "Atlantis", notFound.Query)
		})
	}
}

func TestResolve_EmptyQuerySkipsNetwork(t *testing.T) {
	var calls int32
	repo := NewLocationRepository(nil, newMockHTTPClient(func(req *http.Request) *http.Response {
		atomic.AddInt32(&calls, 1)
		return JSONResponse(http.StatusOK, londonGeocodeBody)
	}))

	_, err := repo.Resolve(context.Background(), "   ")
	var notFound *model.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestResolve_TransportFailure(t *testing.T) {
	netErr := errors.New("connection refused")
	repo := NewLocationRepository(nil, &http.Client{Transport: FailingRoundTripper{Err: netErr}})

	_, err := repo.Resolve(context.Background(), "London")
	var resErr *model.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.ErrorIs(t, err, netErr)
}

func TestResolve_ServerError(t *testing.T) {
	repo := NewLocationRepository(nil, newMockHTTPClient(func(req *http.Request) *http.Response {
		return JSONResponse(http.StatusInternalServerError, `{"error":true,"reason":"boom"}`)
	}))

	_, err := repo.Resolve(context.Background(), "London")
	var resErr *model.ResolutionError
	assert.ErrorAs(t, err, &resErr)
}

func TestResolve_CacheHitSkipsNetwork(t *testing.T) {
	mr, cache := newTestCache(t)
	require.NoError(t, mr.Set("geocode:london", `{"latitude":1,"longitude":2,"name":"London","country":"GB"}`))

	var calls int32
	repo := NewLocationRepository(cache, newMockHTTPClient(func(req *http.Request) *http.Response {
		atomic.AddInt32(&calls, 1)
		return JSONResponse(http.StatusOK, londonGeocodeBody)
	}))

	loc, err := repo.Resolve(context.Background(), "LONDON")
	require.NoError(t, err)
	assert.Equal(t, 1.0, loc.Latitude)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestResolve_CacheMissStoresResult(t *testing.T) {
	mr, cache := newTestCache(t)

	var calls int32
	repo := NewLocationRepository(cache, newMockHTTPClient(func(req *http.Request) *http.Response {
		atomic.AddInt32(&calls, 1)
		return JSONResponse(http.StatusOK, londonGeocodeBody)
	}))

	_, err := repo.Resolve(context.Background(), "London")
	require.NoError(t, err)
	_, err = repo.Resolve(context.Background(), "london")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.True(t, mr.Exists("geocode:london"))
	assert.Equal(t, 10*time.Minute, mr.TTL("geocode:london"))
}

func TestResolve_NotFoundIsNotCached(t *testing.T) {
	mr, cache := newTestCache(t)
	repo := NewLocationRepository(cache, newMockHTTPClient(func(req *http.Request) *http.Response {
		return JSONResponse(http.StatusOK, `{"results":[]}`)
	}))

	_, err := repo.Resolve(context.Background(), "Atlantis")
	assert.Error(t, err)
	assert.False(t, mr.Exists("geocode:atlantis"))
}

func TestResolve_CacheUnavailableFallsBackToNetwork(t *testing.T) {
	mr, cache := newTestCache(t)
	mr.Close()

	repo := NewLocationRepository(cache, newMockHTTPClient(func(req *http.Request) *http.Response {
		return JSONResponse(http.StatusOK, londonGeocodeBody)
	}))

	loc, err := repo.Resolve(context.Background(), "London")
	require.NoError(t, err)
	assert.Equal(t, "London", loc.Name)
}

func TestGetFromCache_UnmarshalError(t *testing.T) {
	mr, cache := newTestCache(t)
	require.NoError(t, mr.Set("geocode:london", "not-json"))

	repo := &locationRepository{cache: cache, httpClient: http.DefaultClient}
	_, err := repo.getFromCache(context.Background(), "London")
	assert.Error(t, err)
}
