package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/config"
	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/model"
	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/presenter"
	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/repository"
	"go.uber.org/zap"
)

// Notices shown to the user.
const (
	MsgGeolocationFailed      = "Unable to retrieve your location. Please try again or search for a city."
	MsgGeolocationUnsupported = "Geolocation is not supported by your browser. Please search for a city."
	MsgLocationNotFound       = "Could not find the specified location. Please try again."
	MsgFetchFailed            = "Unable to fetch weather data. Please try again."
)

// Dashboard wires user intents to the resolve, fetch and present pipeline for
// one session. It owns the session's unit system and current location.
//
// The lock guards session state and the page but is never held across a
// network call, so overlapping requests are not cancelled: the last one to
// finish is what the page shows.
type Dashboard struct {
	mu       sync.Mutex
	units    model.UnitSystem
	location *model.Location
	loading  int

	page            *presenter.Page
	presenter       *presenter.Presenter
	locations       repository.LocationRepository
	weather         repository.WeatherRepository
	defaultLocation string
	logger          *zap.SugaredLogger
}

// DashboardConfig carries the optional settings of a Dashboard.
type DashboardConfig struct {
	// DefaultLocation is searched when geolocation fails. Defaults to the
	// dashboard.default_location setting.
	DefaultLocation string
	// Page is drawn on. A fresh page is created when nil.
	Page   *presenter.Page
	Logger *zap.SugaredLogger
}

func NewDashboard(locations repository.LocationRepository, weather repository.WeatherRepository, cfg DashboardConfig) *Dashboard {
	if cfg.DefaultLocation == "" {
		cfg.DefaultLocation = config.GetDefaultLocation()
	}
	if cfg.Page == nil {
		cfg.Page = presenter.NewPage(nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = config.GetLogger()
	}
	cfg.Page.SetActiveUnit(model.Metric)
	return &Dashboard{
		units:           model.Metric,
		page:            cfg.Page,
		presenter:       &presenter.Presenter{},
		locations:       locations,
		weather:         weather,
		defaultLocation: cfg.DefaultLocation,
		logger:          cfg.Logger,
	}
}

// Start is the page-load entry point: it tries geolocation first.
func (d *Dashboard) Start(ctx context.Context, geo Geolocator) error {
	return d.Geolocate(ctx, geo)
}

// Geolocate fetches weather for the user's position. When the position is
// unavailable a notice is shown and the default location is fetched instead.
func (d *Dashboard) Geolocate(ctx context.Context, geo Geolocator) error {
	lat, lon, err := geo.Locate(ctx)
	if err != nil {
		d.logger.Warnw("Geolocation unavailable, falling back to default location",
			"default", d.defaultLocation, "error", err)
		d.notify(geolocationNotice(err))
		return d.SearchByName(ctx, d.defaultLocation)
	}
	return d.FetchByCoords(ctx, model.Location{
		Latitude:  lat,
		Longitude: lon,
		Name:      model.DefaultLocationName,
	})
}

// geolocationNotice picks the notice for a failed Locate.
func geolocationNotice(err error) string {
	var capErr *model.CapabilityUnavailableError
	if errors.As(err, &capErr) && capErr.Reason == ReasonUnsupported {
		return MsgGeolocationUnsupported
	}
	return MsgGeolocationFailed
}

// SearchByName resolves query and fetches its weather. A blank query is
// ignored. When resolution fails the weather API is not called.
func (d *Dashboard) SearchByName(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	d.mu.Lock()
	d.page.SetText(presenter.FieldInput, query)
	d.mu.Unlock()

	done := d.beginLoading()
	defer done()

	loc, err := d.locations.Resolve(ctx, query)
	if err != nil {
		d.logger.Errorw("Failed to resolve location", "query", query, "error", err)
		d.notify(MsgLocationNotFound)
		return err
	}

	if err := d.FetchByCoords(ctx, loc); err != nil {
		return err
	}

	d.mu.Lock()
	d.page.SetText(presenter.FieldInput, "")
	d.mu.Unlock()
	return nil
}

// FetchByCoords fetches weather for loc under the active unit system, renders
// it and makes loc the current location.
func (d *Dashboard) FetchByCoords(ctx context.Context, loc model.Location) error {
	d.mu.Lock()
	units := d.units
	d.mu.Unlock()

	done := d.beginLoading()
	defer done()

	current, days, err := d.weather.Fetch(ctx, loc.Latitude, loc.Longitude, units)
	if err != nil {
		d.logger.Errorw("Failed to fetch weather data",
			"location", loc.Name, "lat", loc.Latitude, "lon", loc.Longitude, "units", units.String(), "error", err)
		d.notify(MsgFetchFailed)
		return err
	}

	d.mu.Lock()
	if units != d.units {
		d.mu.Unlock()
		// Units changed while this request was in flight. The toggle only
		// re-fetches the location it already knew, so fetch loc again.
		d.logger.Debugw("Refetching with the current units", "location", loc.Name, "stale_units", units.String())
		return d.FetchByCoords(ctx, loc)
	}
	defer d.mu.Unlock()
	d.presenter.RenderCurrent(d.page, loc, current, units)
	d.presenter.RenderForecast(d.page, days, units)
	d.location = &loc
	d.logger.Infow("Rendered weather", "location", loc.Name, "units", units.String(), "days", len(days))
	return nil
}

// ToggleUnits switches the unit system. When it changes and a location is
// known, that location is fetched again, exactly once, under the new units.
func (d *Dashboard) ToggleUnits(ctx context.Context, units model.UnitSystem) error {
	d.mu.Lock()
	if units == d.units {
		d.mu.Unlock()
		return nil
	}
	d.units = units
	d.page.SetActiveUnit(units)
	loc := d.location
	d.mu.Unlock()

	if loc == nil {
		return nil
	}
	return d.FetchByCoords(ctx, *loc)
}

// Units returns the active unit system.
func (d *Dashboard) Units() model.UnitSystem {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.units
}

// Location returns the current location, if one is known.
func (d *Dashboard) Location() (model.Location, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.location == nil {
		return model.Location{}, false
	}
	return *d.location, true
}

// Snapshot returns the page as it is currently visible.
func (d *Dashboard) Snapshot() presenter.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.page.Snapshot()
}

// beginLoading turns the loading indicator on and returns the func that
// turns it off. Nested calls keep it on until the outermost one finishes.
func (d *Dashboard) beginLoading() func() {
	d.mu.Lock()
	d.loading++
	d.page.SetLoading(true)
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		d.loading--
		d.page.SetLoading(d.loading > 0)
		d.mu.Unlock()
	}
}

func (d *Dashboard) notify(msg string) {
	d.mu.Lock()
	d.page.ShowNotice(msg)
	d.mu.Unlock()
}
