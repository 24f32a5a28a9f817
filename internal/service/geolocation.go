package service

import (
	"context"

	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/model"
)

// Geolocator reports the user's position, or a
// *model.CapabilityUnavailableError when it cannot.
type Geolocator interface {
	Locate(ctx context.Context) (lat, lon float64, err error)
}

// Position is a Geolocator that always reports the same coordinates, as
// relayed by the browser.
type Position struct {
	Latitude  float64
	Longitude float64
}

func (p Position) Locate(context.Context) (float64, float64, error) {
	return p.Latitude, p.Longitude, nil
}

// Reasons a position can be unavailable.
const (
	ReasonUnsupported = "not supported"
	ReasonDenied      = "permission denied"
	ReasonInvalid     = "invalid coordinates"
)

// Unavailable is a Geolocator for clients that denied or lack geolocation.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Locate(context.Context) (float64, float64, error) {
	reason := u.Reason
	if reason == "" {
		reason = ReasonUnsupported
	}
	return 0, 0, &model.CapabilityUnavailableError{Reason: reason}
}
