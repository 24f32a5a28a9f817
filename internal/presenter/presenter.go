// Package presenter turns normalized weather data into the dashboard's
// visible state: text fields, icon glyphs, the forecast strip and the
// background theme.
package presenter

import (
	"math"
	"strconv"
	"strings"

	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxForecastDays is the number of upcoming days shown after today.
const MaxForecastDays = 5

// Field names a text slot on the dashboard.
type Field string

const (
	FieldLocation    Field = "location"
	FieldTemperature Field = "current-temp"
	FieldCondition   Field = "weather-condition"
	FieldFeelsLike   Field = "feels-like"
	FieldWind        Field = "wind"
	FieldHumidity    Field = "humidity"
	FieldPressure    Field = "pressure"
	FieldInput       Field = "location-input"
	FieldWeatherIcon Field = "weather-icon"
)

// ForecastItem is one rendered forecast entry.
type ForecastItem struct {
	Day       string `json:"day"`
	Glyph     string `json:"glyph"`
	Condition string `json:"condition"`
	TempMax   string `json:"temp_max"`
	TempMin   string `json:"temp_min"`
}

// Surface is the mutable interface the dashboard draws on.
type Surface interface {
	SetText(field Field, text string)
	SetIcon(field Field, glyph string)
	SetTheme(theme string)
	ClearForecast()
	AppendForecast(item ForecastItem)
	SetActiveUnit(units model.UnitSystem)
	SetLoading(loading bool)
	ShowNotice(text string)
}

var glyphs = map[model.Icon]string{
	"01d": "fas fa-sun",
	"01n": "fas fa-moon",
	"02d": "fas fa-cloud-sun",
	"02n": "fas fa-cloud-moon",
	"03d": "fas fa-cloud",
	"03n": "fas fa-cloud",
	"04d": "fas fa-cloud-meatball",
	"04n": "fas fa-cloud-meatball",
	"09d": "fas fa-cloud-rain",
	"09n": "fas fa-cloud-rain",
	"10d": "fas fa-cloud-sun-rain",
	"10n": "fas fa-cloud-moon-rain",
	"11d": "fas fa-bolt",
	"11n": "fas fa-bolt",
	"13d": "far fa-snowflake",
	"13n": "far fa-snowflake",
	"50d": "fas fa-smog",
	"50n": "fas fa-smog",
}

// UnknownGlyph is shown for icon tokens without a pictogram.
const UnknownGlyph = "fas fa-question"

// Themes lists every background theme class; at most one is active.
var Themes = []string{
	"clear-sky", "few-clouds", "scattered-clouds", "broken-clouds",
	"shower-rain", "rain", "thunderstorm", "snow", "mist",
}

var themes = map[model.Category]string{
	model.Clear:        "clear-sky",
	model.Clouds:       "scattered-clouds",
	model.Drizzle:      "shower-rain",
	model.Rain:         "rain",
	model.Thunderstorm: "thunderstorm",
	model.Snow:         "snow",
	model.Mist:         "mist",
	"Smoke":            "mist",
	"Haze":             "mist",
	"Dust":             "mist",
	"Fog":              "mist",
	"Sand":             "mist",
	"Ash":              "mist",
	"Squall":           "mist",
	"Tornado":          "thunderstorm",
}

// Glyph returns the icon-font class for an icon token.
func Glyph(icon model.Icon) string {
	if g, ok := glyphs[icon]; ok {
		return g
	}
	return UnknownGlyph
}

// Theme returns the background theme for a category, or "" for no override.
func Theme(category model.Category) string {
	return themes[category]
}

var titleCaser = cases.Title(language.English)

// TitleCase upper-cases the first letter of every word.
func TitleCase(s string) string {
	return titleCaser.String(s)
}

// round matches the browser's Math.round: halves go towards +Inf.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

func formatTemp(v float64, units model.UnitSystem) string {
	return strconv.Itoa(round(v)) + units.TemperatureSuffix()
}

// Presenter renders weather data on a Surface. It holds no state.
type Presenter struct{}

// RenderCurrent updates every current-weather field, the main icon and the theme.
func (p *Presenter) RenderCurrent(s Surface, loc model.Location, c model.CurrentConditions, units model.UnitSystem) {
	name := loc.Name
	if loc.Country != "" {
		name += ", " + loc.Country
	}
	s.SetText(FieldLocation, name)
	s.SetText(FieldTemperature, formatTemp(c.Temperature, units))
	s.SetText(FieldCondition, TitleCase(c.Condition.Description))
	s.SetIcon(FieldWeatherIcon, Glyph(c.Condition.Icon))

	s.SetText(FieldFeelsLike, formatTemp(c.FeelsLike, units))
	s.SetText(FieldWind, strconv.FormatFloat(c.WindSpeed, 'f', -1, 64)+" "+units.SpeedSuffix())
	s.SetText(FieldHumidity, strconv.Itoa(c.Humidity)+"%")
	s.SetText(FieldPressure, strconv.Itoa(c.Pressure)+" hPa")

	s.SetTheme(Theme(c.Condition.Category))
}

// RenderForecast replaces the forecast strip. Index 0 is today and is
// skipped; at most MaxForecastDays entries follow.
func (p *Presenter) RenderForecast(s Surface, days []model.ForecastDay, units model.UnitSystem) {
	s.ClearForecast()
	if len(days) < 2 {
		return
	}

	upcoming := days[1:]
	if len(upcoming) > MaxForecastDays {
		upcoming = upcoming[:MaxForecastDays]
	}
	for _, d := range upcoming {
		s.AppendForecast(ForecastItem{
			Day:       d.Time.Format("Mon"),
			Glyph:     Glyph(d.Condition.Icon),
			Condition: string(d.Condition.Category),
			TempMax:   formatTemp(d.TempMax, units),
			TempMin:   formatTemp(d.TempMin, units),
		})
	}
}

// IsTheme reports whether name is one of the known theme classes.
func IsTheme(name string) bool {
	for _, t := range Themes {
		if strings.EqualFold(t, name) {
			return true
		}
	}
	return false
}
