// Package weathercode translates WMO weather interpretation codes, as returned
// by Open-Meteo, into condition categories, descriptions and icon tokens.
package weathercode

import (
	"sort"

	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/model"
)

const fallbackDescription = "Clear sky"

// iconBase is an icon token without its day/night suffix.
type iconBase string

const (
	iconClear        iconBase = "01"
	iconPartlyCloudy iconBase = "02"
	iconOvercast     iconBase = "03"
	iconShowers      iconBase = "09"
	iconRain         iconBase = "10"
	iconThunderstorm iconBase = "11"
	iconSnow         iconBase = "13"
	iconFog          iconBase = "50"
)

type entry struct {
	category    model.Category
	description string
	icon        iconBase
}

// See https://open-meteo.com/en/docs, "WMO Weather interpretation codes".
var table = map[int]entry{
	0:  {model.Clear, "Clear sky", iconClear},
	1:  {model.Clear, "Mainly clear", iconClear},
	2:  {model.Clouds, "Partly cloudy", iconPartlyCloudy},
	3:  {model.Clouds, "Overcast", iconOvercast},
	45: {model.Mist, "Foggy", iconFog},
	48: {model.Mist, "Depositing rime fog", iconFog},
	51: {model.Drizzle, "Light drizzle", iconShowers},
	53: {model.Drizzle, "Moderate drizzle", iconShowers},
	55: {model.Drizzle, "Dense drizzle", iconShowers},
	56: {model.Drizzle, "Light freezing drizzle", iconShowers},
	57: {model.Drizzle, "Dense freezing drizzle", iconShowers},
	61: {model.Rain, "Slight rain", iconRain},
	63: {model.Rain, "Moderate rain", iconRain},
	65: {model.Rain, "Heavy rain", iconRain},
	66: {model.Rain, "Light freezing rain", iconRain},
	67: {model.Rain, "Heavy freezing rain", iconRain},
	71: {model.Snow, "Slight snow fall", iconSnow},
	73: {model.Snow, "Moderate snow fall", iconSnow},
	75: {model.Snow, "Heavy snow fall", iconSnow},
	77: {model.Snow, "Snow grains", iconSnow},
	80: {model.Rain, "Slight rain showers", iconShowers},
	81: {model.Rain, "Moderate rain showers", iconShowers},
	82: {model.Rain, "Violent rain showers", iconShowers},
	85: {model.Snow, "Slight snow showers", iconSnow},
	86: {model.Snow, "Heavy snow showers", iconSnow},
	95: {model.Thunderstorm, "Thunderstorm", iconThunderstorm},
	96: {model.Thunderstorm, "Thunderstorm with slight hail", iconThunderstorm},
	99: {model.Thunderstorm, "Thunderstorm with heavy hail", iconThunderstorm},
}

// Known reports whether code is a recognized WMO code.
func Known(code int) bool {
	_, ok := table[code]
	return ok
}

// Codes returns every recognized code in ascending order.
func Codes() []int {
	codes := make([]int, 0, len(table))
	for c := range table {
		codes = append(codes, c)
	}
	sort.Ints(codes)
	return codes
}

// Condition maps code to its category. Unrecognized codes are Clear.
func Condition(code int) model.Category {
	if e, ok := table[code]; ok {
		return e.category
	}
	return model.Clear
}

// Description maps code to a short phrase. Unrecognized codes are "Clear sky".
func Description(code int) string {
	if e, ok := table[code]; ok {
		return e.description
	}
	return fallbackDescription
}

// IconID maps code to a day or night icon token. Unrecognized codes get the
// clear-sky token for the given time of day.
func IconID(code int, isDay bool) model.Icon {
	base := iconClear
	if e, ok := table[code]; ok {
		base = e.icon
	}
	if isDay {
		return model.Icon(base + "d")
	}
	return model.Icon(base + "n")
}

// Lookup resolves all three lookups for code at once.
func Lookup(code int, isDay bool) model.Condition {
	return model.Condition{
		Category:    Condition(code),
		Description: Description(code),
		Icon:        IconID(code, isDay),
	}
}
