package integrationtest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"

	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/config"
	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/handler"
	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/redis"
	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/repository"
	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/service"

	"github.com/alicebob/miniredis/v2"
)

var (
	miniRedisMock *miniredis.Miniredis
)

// Mock Open-Meteo payloads.
const (
	londonGeocodeBody = `{"results":[{"name":"London","latitude":51.5085,"longitude":-0.1257,"country":"United Kingdom"}]}`
	emptyGeocodeBody  = `{"generationtime_ms":0.4}`

	forecastBody = `{
  "timezone": "Europe/London",
  "current": {
    "temperature_2m": 11.6,
    "apparent_temperature": 9.4,
    "relative_humidity_2m": 71,
    "pressure_msl": 1012.6,
    "wind_speed_10m": 4.2,
    "weather_code": 3,
    "is_day": 1
  },
  "daily": {
    "time": ["2024-03-04", "2024-03-05", "2024-03-06", "2024-03-07", "2024-03-08"],
    "weather_code": [3, 61, 95, 0, 71],
    "temperature_2m_max": [12.1, 10.4, 9.9, 13.0, 14.5],
    "temperature_2m_min": [6.3, 5.2, 4.8, 7.1, 8.0]
  }
}`
)

// MockOpenMeteo serves the geocoding and forecast endpoints and counts calls.
type MockOpenMeteo struct {
	Geocoding *httptest.Server
	Forecast  *httptest.Server

	GeocodeCalls  atomic.Int32
	ForecastCalls atomic.Int32
	// LastUnit is the temperature_unit of the latest forecast request.
	LastUnit atomic.Value
}

func newMockOpenMeteo() *MockOpenMeteo {
	m := &MockOpenMeteo{}
	m.Geocoding = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.GeocodeCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if strings.EqualFold(r.URL.Query().Get("name"), "london") {
			_, _ = w.Write([]byte(londonGeocodeBody))
			return
		}
		_, _ = w.Write([]byte(emptyGeocodeBody))
	}))
	m.Forecast = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.ForecastCalls.Add(1)
		m.LastUnit.Store(r.URL.Query().Get("temperature_unit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(forecastBody))
	}))
	return m
}

func (m *MockOpenMeteo) Close() {
	m.Geocoding.Close()
	m.Forecast.Close()
}

func createMockRedisServer() {
	miniRedisMock = miniredis.NewMiniRedis()
	err := miniRedisMock.StartAddr(config.GetTestRedisMockPort())
	if err != nil {
		panic(err)
	}
}

// setupIntegrationTestServer wires the real repositories, sessions and
// handlers, reading endpoints and redis.addr from the current config.
func setupIntegrationTestServer() *httptest.Server {
	client := repository.NewOpenMeteoClient()
	locations := repository.NewLocationRepository(redis.GetClient(), client)
	weather := repository.NewWeatherRepository(client)

	sessions := service.NewSessions(func() *service.Dashboard {
		return service.NewDashboard(locations, weather, service.DashboardConfig{})
	}, config.GetSessionIdleTimeout())

	mux := http.NewServeMux()
	handler.NewDashboardHandler(sessions).Register(mux)
	mux.HandleFunc("/healthz", handler.HealthHandler(redis.Ping))
	return httptest.NewServer(mux)
}
