package repository

import (
	"io"
	"net/http"
	"strings"
)

// RoundTripperFunc allows us to easily mock http.Client responses in tests.
type RoundTripperFunc func(*http.Request) *http.Response

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

// FailingRoundTripper fails every request with Err, simulating a network outage.
type FailingRoundTripper struct {
	Err error
}

func (f FailingRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, f.Err
}

// JSONResponse builds a canned response with the given status and body.
func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}
