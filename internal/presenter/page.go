package presenter

import (
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// Page is an in-memory Surface that renders as the dashboard HTML document.
// It is not safe for concurrent use; callers serialize access.
type Page struct {
	now      func() time.Time
	texts    map[Field]string
	icons    map[Field]string
	theme    string
	forecast []ForecastItem
	units    model.UnitSystem
	loading  bool
	notice   *Notice
}

// NewPage returns an empty page. now is used to age notices; nil means time.Now.
func NewPage(now func() time.Time) *Page {
	if now == nil {
		now = time.Now
	}
	return &Page{
		now:   now,
		texts: make(map[Field]string),
		icons: make(map[Field]string),
	}
}

func (p *Page) SetText(field Field, text string) { p.texts[field] = text }

func (p *Page) SetIcon(field Field, glyph string) { p.icons[field] = glyph }

// SetTheme activates theme, dropping any previous one. Unknown names clear it.
func (p *Page) SetTheme(theme string) {
	if !IsTheme(theme) {
		theme = ""
	}
	p.theme = theme
}

func (p *Page) ClearForecast() { p.forecast = nil }

func (p *Page) AppendForecast(item ForecastItem) { p.forecast = append(p.forecast, item) }

func (p *Page) SetActiveUnit(units model.UnitSystem) { p.units = units }

func (p *Page) SetLoading(loading bool) { p.loading = loading }

// ShowNotice replaces any existing notice.
func (p *Page) ShowNotice(text string) {
	p.notice = &Notice{Text: text, ShownAt: p.now()}
}

// Snapshot is the visible state of a Page at one instant.
type Snapshot struct {
	Location    string         `json:"location"`
	Temperature string         `json:"temperature"`
	Condition   string         `json:"condition"`
	Icon        string         `json:"icon"`
	FeelsLike   string         `json:"feels_like"`
	Wind        string         `json:"wind"`
	Humidity    string         `json:"humidity"`
	Pressure    string         `json:"pressure"`
	Input       string         `json:"input"`
	Theme       string         `json:"theme,omitempty"`
	Units       string         `json:"units"`
	Loading     bool           `json:"loading"`
	Notice      string         `json:"notice,omitempty"`
	NoticeState string         `json:"notice_state"`
	Forecast    []ForecastItem `json:"forecast"`
}

// Snapshot copies the current state, dropping a notice whose time is up.
func (p *Page) Snapshot() Snapshot {
	state := p.notice.State(p.now())
	if state == NoticeRemoved {
		p.notice = nil
	}

	s := Snapshot{
		Location:    p.texts[FieldLocation],
		Temperature: p.texts[FieldTemperature],
		Condition:   p.texts[FieldCondition],
		Icon:        p.icons[FieldWeatherIcon],
		FeelsLike:   p.texts[FieldFeelsLike],
		Wind:        p.texts[FieldWind],
		Humidity:    p.texts[FieldHumidity],
		Pressure:    p.texts[FieldPressure],
		Input:       p.texts[FieldInput],
		Theme:       p.theme,
		Units:       p.units.String(),
		Loading:     p.loading,
		NoticeState: state.String(),
		Forecast:    append([]ForecastItem(nil), p.forecast...),
	}
	if p.notice != nil {
		s.Notice = p.notice.Text
	}
	return s
}

// Render writes snap as the dashboard HTML document.
func Render(w io.Writer, snap Snapshot) error {
	return dashboardTemplate.Execute(w, snap)
}
