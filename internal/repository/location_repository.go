package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/config"
	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/model"
	redisv9 "github.com/redis/go-redis/v9"
)

const geocodeKeyPrefix = "geocode:"

// Cache is the subset of the Redis client used to memoize geocoding results.
type Cache interface {
	Get(ctx context.Context, key string) *redisv9.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redisv9.StatusCmd
}

// LocationRepository resolves free-text place names to coordinates.
type LocationRepository interface {
	Resolve(ctx context.Context, name string) (model.Location, error)
}

type locationRepository struct {
	cache      Cache
	httpClient *http.Client
	baseURL    string
}

// NewLocationRepository creates a geocoding repository backed by the
// Open-Meteo geocoding API. cache may be nil to disable memoization.
func NewLocationRepository(cache Cache, httpClient ...*http.Client) LocationRepository {
	client := http.DefaultClient
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return &locationRepository{
		cache:      cache,
		httpClient: client,
		baseURL:    config.GetGeocodingURL(),
	}
}

type geocodingResponse struct {
	Results []struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
		Name      string   `json:"name"`
		Country   string   `json:"country"`
	} `json:"results"`
}

// Resolve returns the single best match for name, checking the cache first.
func (r *locationRepository) Resolve(ctx context.Context, name string) (model.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Location{}, &model.NotFoundError{Query: name, Err: errors.New("empty query")}
	}

	if loc, err := r.getFromCache(ctx, name); err == nil {
		return loc, nil
	}

	loc, err := r.fetchFromExternalAPI(ctx, name)
	if err != nil {
		return model.Location{}, err
	}

	r.cacheLocation(ctx, name, loc)
	return loc, nil
}

func cacheKey(name string) string {
	return geocodeKeyPrefix + strings.ToLower(name)
}

func (r *locationRepository) getFromCache(ctx context.Context, name string) (model.Location, error) {
	if r.cache == nil {
		return model.Location{}, redisv9.Nil
	}

	val, err := r.cache.Get(ctx, cacheKey(name)).Result()
	if err != nil {
		if !errors.Is(err, redisv9.Nil) {
			config.GetLogger().Warnw("Geocoding cache read failed", "query", name, "error", err)
		}
		return model.Location{}, err
	}

	var loc model.Location
	if err := json.Unmarshal([]byte(val), &loc); err != nil {
		return model.Location{}, err
	}
	return loc, nil
}

func (r *locationRepository) fetchFromExternalAPI(ctx context.Context, name string) (model.Location, error) {
	params := url.Values{}
	params.Set("name", name)
	params.Set("count", "1")
	params.Set("language", "en")
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return model.Location{}, &model.ResolutionError{Query: name, Err: err}
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return model.Location{}, &model.ResolutionError{Query: name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.Location{}, &model.ResolutionError{
			Query: name,
			Err:   fmt.Errorf("geocoding API returned status %d", resp.StatusCode),
		}
	}

	var data geocodingResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return model.Location{}, &model.NotFoundError{Query: name, Err: fmt.Errorf("malformed geocoding response: %w", err)}
	}
	if len(data.Results) == 0 {
		return model.Location{}, &model.NotFoundError{Query: name}
	}

	top := data.Results[0]
	if top.Latitude == nil || top.Longitude == nil {
		return model.Location{}, &model.NotFoundError{Query: name, Err: errors.New("result has no coordinates")}
	}

	loc := model.Location{
		Latitude:  *top.Latitude,
		Longitude: *top.Longitude,
		Name:      top.Name,
		Country:   top.Country,
	}
	if loc.Name == "" {
		loc.Name = name
	}
	return loc, nil
}

func (r *locationRepository) cacheLocation(ctx context.Context, name string, loc model.Location) {
	if r.cache == nil {
		return
	}
	b, err := json.Marshal(loc)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKey(name), b, config.GetCacheExpiration()).Err(); err != nil {
		config.GetLogger().Warnw("Geocoding cache write failed", "query", name, "error", err)
	}
}
