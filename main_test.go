package main

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/config"
	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/middleware"
	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/redis"
	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_UsesConfiguredTimeouts(t *testing.T) {
	srv := newServer(http.NotFoundHandler())

	assert.Equal(t, ":"+config.GetServerPort(), srv.Addr)
	assert.Equal(t, 15*time.Second, srv.ReadHeaderTimeout)
	assert.Equal(t, 15*time.Second, srv.ReadTimeout)
	assert.Equal(t, 10*time.Second, srv.WriteTimeout)
	assert.Equal(t, 30*time.Second, srv.IdleTimeout)
}

func TestNewMux_Routes(t *testing.T) {
	mr := miniredis.RunT(t)
	viper.Set("redis.addr", mr.Addr())
	redis.ResetClientForTest()
	t.Cleanup(redis.ResetClientForTest)

	limiter := middleware.NewRateLimiter(middleware.Limit{PerMinute: 600, Burst: 100}, middleware.Limit{PerMinute: 600, Burst: 100}, "q")
	srv := httptest.NewServer(newMux(newSessions(), limiter))
	defer srv.Close()

	tests := []struct {
		path       string
		wantStatus int
		wantType   string
	}{
		{"/healthz", http.StatusOK, "application/json"},
		{"/", http.StatusOK, "text/html; charset=utf-8"},
		{"/static/style.css", http.StatusOK, "text/css; charset=utf-8"},
		{"/api/weather", http.StatusOK, "application/json"},
		{"/api/search", http.StatusBadRequest, "application/json"},
		{"/missing", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, resp.Header.Get("Content-Type"))
			}
		})
	}
}

func TestNewMux_LimitsOnlySearch(t *testing.T) {
	mr := miniredis.RunT(t)
	viper.Set("redis.addr", mr.Addr())
	redis.ResetClientForTest()
	t.Cleanup(redis.ResetClientForTest)

	geocoder := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer geocoder.Close()
	viper.Set("openmeteo.geocoding_url", geocoder.URL)
	t.Cleanup(func() { viper.Set("openmeteo.geocoding_url", nil) })

	srv := httptest.NewServer(newMux(newSessions(), middleware.NewRateLimiterFromConfig()))
	defer srv.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	browser := &http.Client{Jar: jar}

	// Ordinary browsing never touches the search buckets.
	for i := 0; i < 10; i++ {
		resp, err := browser.Get(srv.URL + "/")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, "page load %d", i+1)

		resp, err = browser.Get(srv.URL + "/static/style.css")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, "stylesheet %d", i+1)

		unit := "imperial"
		if i%2 == 1 {
			unit = "metric"
		}
		resp, err = browser.PostForm(srv.URL+"/units", url.Values{"unit": {unit}})
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, "unit toggle %d", i+1)
	}

	// The same search is limited after the configured burst of 5.
	for i := 0; i < 5; i++ {
		resp, err := browser.Get(srv.URL + "/api/search?q=Atlantis")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "search %d", i+1)
	}
	resp, err := browser.Get(srv.URL + "/api/search?q=atlantis")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}
