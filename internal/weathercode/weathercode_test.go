package weathercode

import (
	"strings"
	"testing"

	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestLookup_KnownCodes(t *testing.T) {
	tests := []struct {
		name        string
		code        int
		isDay       bool
		category    model.Category
		description string
		icon        model.Icon
	}{
		{"clear day", 0, true, model.Clear, "Clear sky", "01d"},
		{"mainly clear night", 1, false, model.Clear, "Mainly clear", "01n"},
		{"partly cloudy", 2, true, model.Clouds, "Partly cloudy", "02d"},
		{"overcast", 3, true, model.Clouds, "Overcast", "03d"},
		{"fog", 45, false, model.Mist, "Foggy", "50n"},
		{"dense drizzle", 55, true, model.Drizzle, "Dense drizzle", "09d"},
		{"heavy rain", 65, true, model.Rain, "Heavy rain", "10d"},
		{"rain night", 61, false, model.Rain, "Slight rain", "10n"},
		{"snow grains", 77, true, model.Snow, "Snow grains", "13d"},
		{"rain showers", 80, true, model.Rain, "Slight rain showers", "09d"},
		{"snow showers", 86, false, model.Snow, "Heavy snow showers", "13n"},
		{"thunderstorm", 95, true, model.Thunderstorm, "Thunderstorm", "11d"},
		{"hail", 99, false, model.Thunderstorm, "Thunderstorm with heavy hail", "11n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lookup(tt.code, tt.isDay)
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.description, got.Description)
			assert.Equal(t, tt.icon, got.Icon)
			assert.True(t, Known(tt.code))
		})
	}
}

func TestLookup_UnknownCodeFallsBack(t *testing.T) {
	for _, code := range []int{777, -1, 4, 100} {
		assert.False(t, Known(code))
		assert.Equal(t, model.Clear, Condition(code))
		assert.Equal(t, "Clear sky", Description(code))
		assert.Equal(t, model.Icon("01d"), IconID(code, true))
		assert.Equal(t, model.Icon("01n"), IconID(code, false))
	}
}

// Every recognized code must produce a coherent triple: the icon family has to
// agree with the category.
func TestTablesAreConsistent(t *testing.T) {
	iconsByCategory := map[model.Category][]string{
		model.Clear:        {"01"},
		model.Clouds:       {"02", "03"},
		model.Mist:         {"50"},
		model.Drizzle:      {"09"},
		model.Rain:         {"09", "10"},
		model.Snow:         {"13"},
		model.Thunderstorm: {"11"},
	}

	codes := Codes()
	assert.Len(t, codes, 28)
	for i := 1; i < len(codes); i++ {
		assert.Less(t, codes[i-1], codes[i])
	}

	for _, code := range codes {
		c := Lookup(code, true)
		assert.NotEmpty(t, c.Description, "code %d", code)
		assert.Contains(t, iconsByCategory[c.Category], string(c.Icon)[:2], "code %d", code)
		assert.True(t, strings.HasSuffix(string(IconID(code, true)), "d"))
		assert.True(t, strings.HasSuffix(string(IconID(code, false)), "n"))
		if c.Category == model.Thunderstorm {
			assert.Contains(t, c.Description, "Thunderstorm")
		}
	}
}

func TestLookup_Deterministic(t *testing.T) {
	for _, code := range Codes() {
		assert.Equal(t, Lookup(code, true), Lookup(code, true))
	}
}
