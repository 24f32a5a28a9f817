package model

import "fmt"

// ResolutionError means the geocoding service could not be reached or
// answered with a failure status.
type ResolutionError struct {
	Query string
	Err   error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %q: %v", e.Query, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// NotFoundError means the geocoding service returned no usable match.
type NotFoundError struct {
	Query string
	Err   error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("location %q not found: %v", e.Query, e.Err)
	}
	return fmt.Sprintf("location %q not found", e.Query)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// DataUnavailableError means the weather query failed or returned incomplete data.
type DataUnavailableError struct {
	Reason string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("weather data unavailable: %s: %v", e.Reason, e.Err)
	}
	return "weather data unavailable: " + e.Reason
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

// CapabilityUnavailableError means geolocation is unsupported or was denied.
type CapabilityUnavailableError struct {
	Reason string
}

func (e *CapabilityUnavailableError) Error() string {
	return "geolocation unavailable: " + e.Reason
}
