package model

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidUnit is returned when a unit system name is neither metric nor imperial.
var ErrInvalidUnit = errors.New("invalid unit system")

// UnitSystem selects both the units requested from the provider and the
// suffixes used when rendering.
type UnitSystem int

const (
	Metric UnitSystem = iota
	Imperial
)

// ParseUnitSystem parses "metric" or "imperial", case-insensitively.
func ParseUnitSystem(s string) (UnitSystem, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "metric":
		return Metric, nil
	case "imperial":
		return Imperial, nil
	}
	return Metric, ErrInvalidUnit
}

func (u UnitSystem) String() string {
	if u == Imperial {
		return "imperial"
	}
	return "metric"
}

// TemperatureUnit is the provider's temperature_unit query value.
func (u UnitSystem) TemperatureUnit() string {
	if u == Imperial {
		return "fahrenheit"
	}
	return "celsius"
}

// WindSpeedUnit is the provider's wind_speed_unit query value.
func (u UnitSystem) WindSpeedUnit() string {
	if u == Imperial {
		return "mph"
	}
	return "ms"
}

func (u UnitSystem) TemperatureSuffix() string {
	if u == Imperial {
		return "°F"
	}
	return "°C"
}

func (u UnitSystem) SpeedSuffix() string {
	if u == Imperial {
		return "mph"
	}
	return "m/s"
}

// Category is the coarse condition group a weather code belongs to.
type Category string

const (
	Clear        Category = "Clear"
	Clouds       Category = "Clouds"
	Mist         Category = "Mist"
	Drizzle      Category = "Drizzle"
	Rain         Category = "Rain"
	Snow         Category = "Snow"
	Thunderstorm Category = "Thunderstorm"
)

// Icon is an abstract pictogram token such as "01d" or "11n".
type Icon string

// Condition is the resolved category/description/icon triple for one code.
type Condition struct {
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Icon        Icon     `json:"icon"`
}

// DefaultLocationName is used for locations obtained from geolocation.
const DefaultLocationName = "Current Location"

// Location is a resolved place. It is treated as an immutable value.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
	Country   string  `json:"country,omitempty"`
}

// CurrentConditions is rebuilt in full on every fetch.
type CurrentConditions struct {
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feels_like"`
	Humidity    int       `json:"humidity"`
	Pressure    int       `json:"pressure"`
	WindSpeed   float64   `json:"wind_speed"`
	IsDay       bool      `json:"is_day"`
	Condition   Condition `json:"condition"`
}

// ForecastDay is one entry of the daily forecast, in chronological order.
type ForecastDay struct {
	Time      time.Time `json:"time"`
	TempMax   float64   `json:"temp_max"`
	TempMin   float64   `json:"temp_min"`
	Condition Condition `json:"condition"`
}
