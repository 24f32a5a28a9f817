package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/config"
	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/model"
	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/weathercode"
)

const (
	currentFields = "temperature_2m,apparent_temperature,relative_humidity_2m,pressure_msl,surface_pressure,wind_speed_10m,weather_code,is_day"
	hourlyFields  = "temperature_2m,weather_code"
	dailyFields   = "weather_code,temperature_2m_max,temperature_2m_min"
	forecastDays  = 5
	dateLayout    = "2006-01-02"
)

// WeatherRepository fetches current conditions and the daily forecast for a
// pair of coordinates.
type WeatherRepository interface {
	Fetch(ctx context.Context, lat, lon float64, units model.UnitSystem) (model.CurrentConditions, []model.ForecastDay, error)
}

type weatherRepository struct {
	httpClient *http.Client
	baseURL    string
}

// NewWeatherRepository creates a repository backed by the Open-Meteo forecast API.
func NewWeatherRepository(httpClient ...*http.Client) WeatherRepository {
	client := http.DefaultClient
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return &weatherRepository{
		httpClient: client,
		baseURL:    config.GetForecastURL(),
	}
}

type forecastResponse struct {
	Timezone string `json:"timezone"`
	Current  *struct {
		Temperature         *float64 `json:"temperature_2m"`
		ApparentTemperature *float64 `json:"apparent_temperature"`
		RelativeHumidity    *float64 `json:"relative_humidity_2m"`
		PressureMSL         *float64 `json:"pressure_msl"`
		SurfacePressure     *float64 `json:"surface_pressure"`
		WindSpeed           *float64 `json:"wind_speed_10m"`
		WeatherCode         *int     `json:"weather_code"`
		IsDay               *int     `json:"is_day"`
	} `json:"current"`
	Daily *struct {
		Time        []string   `json:"time"`
		WeatherCode []*int     `json:"weather_code"`
		TempMax     []*float64 `json:"temperature_2m_max"`
		TempMin     []*float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

func buildForecastQuery(lat, lon float64, units model.UnitSystem) url.Values {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("current", currentFields)
	params.Set("hourly", hourlyFields)
	params.Set("daily", dailyFields)
	params.Set("timezone", "auto")
	params.Set("forecast_days", strconv.Itoa(forecastDays))
	params.Set("temperature_unit", units.TemperatureUnit())
	params.Set("wind_speed_unit", units.WindSpeedUnit())
	return params
}

// Fetch issues exactly one forecast request and normalizes the answer.
func (r *weatherRepository) Fetch(ctx context.Context, lat, lon float64, units model.UnitSystem) (model.CurrentConditions, []model.ForecastDay, error) {
	endpoint := r.baseURL + "?" + buildForecastQuery(lat, lon, units).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.CurrentConditions{}, nil, &model.DataUnavailableError{Reason: "failed to create request", Err: err}
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return model.CurrentConditions{}, nil, &model.DataUnavailableError{Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.CurrentConditions{}, nil, &model.DataUnavailableError{Reason: fmt.Sprintf("forecast API returned status %d", resp.StatusCode)}
	}

	var data forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return model.CurrentConditions{}, nil, &model.DataUnavailableError{Reason: "malformed response", Err: err}
	}

	current, err := normalizeCurrent(&data)
	if err != nil {
		return model.CurrentConditions{}, nil, err
	}
	days, err := normalizeDaily(&data)
	if err != nil {
		return model.CurrentConditions{}, nil, err
	}
	return current, days, nil
}

func normalizeCurrent(data *forecastResponse) (model.CurrentConditions, error) {
	c := data.Current
	if c == nil {
		return model.CurrentConditions{}, &model.DataUnavailableError{Reason: "response has no current block"}
	}
	if c.Temperature == nil || c.ApparentTemperature == nil || c.RelativeHumidity == nil ||
		c.PressureMSL == nil || c.WindSpeed == nil || c.WeatherCode == nil {
		return model.CurrentConditions{}, &model.DataUnavailableError{Reason: "current block is missing required fields"}
	}

	isDay := c.IsDay == nil || *c.IsDay != 0
	return model.CurrentConditions{
		Temperature: *c.Temperature,
		FeelsLike:   *c.ApparentTemperature,
		Humidity:    int(math.Round(*c.RelativeHumidity)),
		Pressure:    int(math.Round(*c.PressureMSL)),
		WindSpeed:   *c.WindSpeed,
		IsDay:       isDay,
		Condition:   weathercode.Lookup(*c.WeatherCode, isDay),
	}, nil
}

func normalizeDaily(data *forecastResponse) ([]model.ForecastDay, error) {
	d := data.Daily
	if d == nil {
		return nil, &model.DataUnavailableError{Reason: "response has no daily block"}
	}
	n := len(d.Time)
	if len(d.WeatherCode) != n || len(d.TempMax) != n || len(d.TempMin) != n {
		return nil, &model.DataUnavailableError{Reason: "daily arrays have mismatched lengths"}
	}

	loc := time.UTC
	if data.Timezone != "" {
		if tz, err := time.LoadLocation(data.Timezone); err == nil {
			loc = tz
		}
	}

	days := make([]model.ForecastDay, 0, n)
	for i := 0; i < n; i++ {
		t, err := time.ParseInLocation(dateLayout, d.Time[i], loc)
		if err != nil {
			return nil, &model.DataUnavailableError{Reason: "invalid daily date", Err: err}
		}
		if d.WeatherCode[i] == nil || d.TempMax[i] == nil || d.TempMin[i] == nil {
			return nil, &model.DataUnavailableError{Reason: fmt.Sprintf("daily entry %d is incomplete", i)}
		}
		days = append(days, model.ForecastDay{
			Time:    t,
			TempMax: *d.TempMax[i],
			TempMin: *d.TempMin[i],
			// Daily entries only carry max/min, so the day icon is always used.
			Condition: weathercode.Lookup(*d.WeatherCode[i], true),
		})
	}
	return days, nil
}
