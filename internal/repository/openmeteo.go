package repository

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/config"
	"golang.org/x/time/rate"
)

// limitedTransport holds every outbound request until the shared limiter
// grants a token or the request context ends.
type limitedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return t.base.RoundTrip(req)
}

// NewRateLimitedClient wraps base (http.DefaultTransport when nil) so that at
// most rps requests per second, with bursts of burst, leave the process.
func NewRateLimitedClient(base http.RoundTripper, timeout time.Duration, rps float64, burst int) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &limitedTransport{
			base:    base,
			limiter: rate.NewLimiter(rate.Limit(rps), burst),
		},
	}
}

// NewOpenMeteoClient builds the HTTP client shared by the geocoding and
// forecast repositories from the openmeteo.* configuration.
func NewOpenMeteoClient() *http.Client {
	rps, burst := config.GetOpenMeteoRateConfig()
	return NewRateLimitedClient(nil, config.GetOpenMeteoTimeout(), rps, burst)
}
