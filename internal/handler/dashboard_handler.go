package handler

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/config"
	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/model"
	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/presenter"
	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/service"
)

// SessionCookie carries the dashboard session ID.
const SessionCookie = "weatherly_session"

//go:embed static/*
var staticFS embed.FS

type DashboardHandler struct {
	Sessions *service.Sessions
}

func NewDashboardHandler(sessions *service.Sessions) *DashboardHandler {
	return &DashboardHandler{Sessions: sessions}
}

// Register mounts the page, form and JSON routes on mux. Form routes
// redirect back to the page; their /api/ twins answer with JSON.
func (h *DashboardHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", h.HandleIndex)
	mux.Handle("/static/", http.FileServer(http.FS(staticFS)))

	mux.HandleFunc("/search", h.form(h.searchForm))
	mux.HandleFunc("/locate", h.form(h.locate))
	mux.HandleFunc("/units", h.form(h.units))

	mux.HandleFunc("/api/weather", h.api(func(context.Context, *service.Dashboard, *http.Request) (int, error) {
		return http.StatusOK, nil
	}))
	mux.HandleFunc("/api/search", h.api(h.search))
	mux.HandleFunc("/api/locate", h.api(h.locate))
	mux.HandleFunc("/api/units", h.api(h.units))
}

// action runs one user intent against a dashboard. A non-nil error with a 4xx
// status is a bad request; other errors have already been shown as notices.
type action func(ctx context.Context, d *service.Dashboard, r *http.Request) (int, error)

func (h *DashboardHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		config.GetLogger().Errorw("could not encode json", "error", err)
	}
}

// session returns the caller's dashboard, creating one (and its cookie) when
// the cookie is missing or stale.
func (h *DashboardHandler) session(w http.ResponseWriter, r *http.Request) *service.Dashboard {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if d, ok := h.Sessions.Get(c.Value); ok {
			return d
		}
	}
	id, d := h.Sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return d
}

func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	return false
}

func (h *DashboardHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !allowMethods(w, r, http.MethodGet, http.MethodHead) {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	d := h.session(w, r)
	if _, known := d.Location(); !known && hasPosition(r) {
		// Failures are already on the page as notices.
		_ = d.Start(r.Context(), geolocatorFor(r))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := presenter.Render(w, d.Snapshot()); err != nil {
		config.GetLogger().Errorw("could not render dashboard", "error", err)
	}
}

func (h *DashboardHandler) form(run action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		d := h.session(w, r)
		if status, err := run(r.Context(), d, r); err != nil && status >= 400 && status < 500 {
			http.Error(w, err.Error(), status)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (h *DashboardHandler) api(run action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
			h.writeJSONResponse(w, http.StatusMethodNotAllowed, model.NewErrorResponse("Method not allowed"))
			return
		}
		d := h.session(w, r)
		status, err := run(r.Context(), d, r)
		if err != nil {
			resp := model.NewErrorResponse(err.Error())
			if status >= 500 || status == http.StatusNotFound {
				// The dashboard already turned the failure into a notice.
				resp = model.NewErrorResponse(d.Snapshot().Notice)
				resp.Data = d.Snapshot()
			}
			h.writeJSONResponse(w, status, resp)
			return
		}
		h.writeJSONResponse(w, status, model.NewSuccessResponse(d.Snapshot()))
	}
}

// statusFor maps a pipeline error to the status the JSON API reports.
func statusFor(err error) int {
	var notFound *model.NotFoundError
	var resolution *model.ResolutionError
	var unavailable *model.DataUnavailableError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &resolution), errors.As(err, &unavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *DashboardHandler) search(ctx context.Context, d *service.Dashboard, r *http.Request) (int, error) {
	q := strings.TrimSpace(r.FormValue("q"))
	if q == "" {
		return http.StatusBadRequest, errors.New("Missing 'q' query parameter")
	}
	err := d.SearchByName(ctx, q)
	return statusFor(err), err
}

// searchForm is search for the HTML form, where a blank submission is a no-op.
func (h *DashboardHandler) searchForm(ctx context.Context, d *service.Dashboard, r *http.Request) (int, error) {
	if strings.TrimSpace(r.FormValue("q")) == "" {
		return http.StatusOK, nil
	}
	return h.search(ctx, d, r)
}

func (h *DashboardHandler) locate(ctx context.Context, d *service.Dashboard, r *http.Request) (int, error) {
	err := d.Geolocate(ctx, geolocatorFor(r))
	return statusFor(err), err
}

func (h *DashboardHandler) units(ctx context.Context, d *service.Dashboard, r *http.Request) (int, error) {
	units, err := model.ParseUnitSystem(r.FormValue("unit"))
	if err != nil {
		return http.StatusBadRequest, errors.New("Invalid 'unit' parameter: expected metric or imperial")
	}
	err = d.ToggleUnits(ctx, units)
	return statusFor(err), err
}

// hasPosition reports whether the browser relayed a geolocation result.
func hasPosition(r *http.Request) bool {
	q := r.URL.Query()
	return q.Has("lat") || q.Has("lon") || q.Has("denied")
}

// geolocatorFor turns the coordinates the browser relayed into a Geolocator.
func geolocatorFor(r *http.Request) service.Geolocator {
	if r.FormValue("denied") != "" {
		return service.Unavailable{Reason: service.ReasonDenied}
	}
	latStr, lonStr := r.FormValue("lat"), r.FormValue("lon")
	if latStr == "" || lonStr == "" {
		return service.Unavailable{Reason: service.ReasonUnsupported}
	}
	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return service.Unavailable{Reason: service.ReasonInvalid}
	}
	return service.Position{Latitude: lat, Longitude: lon}
}

// HealthHandler reports liveness. The geocoding cache is optional, so an
// unreachable Redis is reported without failing the check.
func HealthHandler(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok", "cache": "ok"}
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				status["cache"] = "unavailable"
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(model.NewSuccessResponse(status))
	}
}
