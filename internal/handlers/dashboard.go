package handlers

import (
	"bytes"
	"errors"
	"html/template"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"funolympics/internal/chart"
	"funolympics/internal/config"
	"funolympics/internal/db"
	"funolympics/internal/export"
	"funolympics/internal/metrics"
	"funolympics/internal/middleware"
	"funolympics/internal/models"
	"funolympics/internal/validation"
	"funolympics/internal/views"
)

// DashboardHandler serves the HTML dashboard pages.
type DashboardHandler struct {
	svc *views.Service
	db  *db.DB
	cfg *config.Config
}

// NewDashboardHandler creates a new dashboard handler. database may be nil,
// in which case exports are not logged.
func NewDashboardHandler(svc *views.Service, database *db.DB, cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{svc: svc, db: database, cfg: cfg}
}

// control is one selector as drawn on the view page.
type control struct {
	Name      string
	Label     string
	Options   []string
	Value     string
	Clearable bool
	Cascades  bool // continent selector that refreshes the country list
}

// Index renders the landing page.
func (h *DashboardHandler) Index(c fiber.Ctx) error {
	metrics.RecordViewRender(views.Home, models.OutcomeRendered)

	return c.Render("index", MergeBranding(fiber.Map{
		"Title":   h.cfg.SiteTitle,
		"Views":   h.navViews(),
		"Current": views.Home,
		"Summary": views.Landing,
		"User":    middleware.CurrentUser(c),
	}, h.cfg))
}

// Show renders one analysis view for the current selection.
func (h *DashboardHandler) Show(c fiber.Ctx) error {
	v, err := h.lookup(c)
	if err != nil {
		return err
	}
	if v.Name == views.Home {
		return c.Redirect().To("/")
	}

	res, err := h.render(c, v, true)
	if err != nil {
		return err
	}

	var figure template.JS
	if !res.Empty() {
		raw, err := res.Chart.Figure().JSON()
		if err != nil {
			return err
		}
		figure = template.JS(raw)
	}

	return c.Render("view", MergeBranding(fiber.Map{
		"Title":    v.Label,
		"View":     v,
		"Views":    h.navViews(),
		"Current":  v.Name,
		"Controls": controls(v, res),
		"Result":   res,
		"Figure":   figure,
		"Empty":    res.Empty(),
		"User":     middleware.CurrentUser(c),
	}, h.cfg))
}

// Countries returns the country <option> list for a continent. It backs the
// HTMX continent to country cascade.
func (h *DashboardHandler) Countries(c fiber.Ctx) error {
	v, err := h.lookup(c)
	if err != nil {
		return err
	}
	if !v.Has(views.SelectCountry) {
		return fiber.NewError(fiber.StatusNotFound, "view has no country selector")
	}

	continent := c.Query("continent")
	country := c.Query("country")
	for _, value := range []string{continent, country} {
		if ok, msg := validation.ValidateSelectorValue(value); !ok {
			return htmxError(c, msg)
		}
	}

	selected, options, err := h.svc.Cascade(continent, country)
	if err != nil {
		return htmxError(c, "failed to load countries")
	}

	return c.Render("partials/country_options", fiber.Map{
		"Options":  options,
		"Selected": selected,
	}, "")
}

// ChartPNG renders the view's chart as a PNG image. Empty results answer
// 204 and chart kinds without a raster renderer answer 415.
func (h *DashboardHandler) ChartPNG(c fiber.Ctx) error {
	v, err := h.lookup(c)
	if err != nil {
		return err
	}

	res, err := h.render(c, v, false)
	if err != nil {
		return err
	}
	if res.Empty() {
		return c.SendStatus(fiber.StatusNoContent)
	}

	var buf bytes.Buffer
	if err := chart.RenderPNG(res.Chart, &buf); err != nil {
		return viewError(err)
	}

	h.recordExport(c, v, models.FormatPNG, res)
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(buf.Bytes())
}

// Export downloads the view's aggregated result as an xlsx workbook.
func (h *DashboardHandler) Export(c fiber.Ctx) error {
	v, err := h.lookup(c)
	if err != nil {
		return err
	}

	res, err := h.render(c, v, false)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch {
	case res.Matrix != nil:
		err = export.WriteMatrix(&buf, v.Name, res.Matrix)
	case res.Table != nil:
		err = export.WriteTable(&buf, v.Name, res.Table)
	default:
		return fiber.NewError(fiber.StatusNotFound, "view has no data to export")
	}
	if err != nil {
		return err
	}

	h.recordExport(c, v, models.FormatXLSX, res)
	c.Attachment(v.Name + ".xlsx")
	c.Set(fiber.HeaderContentType, export.ContentType)
	return c.Send(buf.Bytes())
}

func (h *DashboardHandler) lookup(c fiber.Ctx) (views.View, error) {
	name := c.Params("view")
	if !validation.ValidateViewName(name) {
		return views.View{}, fiber.NewError(fiber.StatusNotFound, "view not found")
	}
	v, err := h.svc.Lookup(name)
	if err != nil {
		return views.View{}, viewError(err)
	}
	return v, nil
}

// render resolves the selection from the request and session, runs the
// view's query and records the outcome. The session is only updated when
// save is set, so downloads never change what the page shows.
func (h *DashboardHandler) render(c fiber.Ctx, v views.View, save bool) (*views.Result, error) {
	params, err := selectorParams(c)
	if err != nil {
		metrics.RecordViewRender(v.Name, models.OutcomeInvalid)
		return nil, err
	}

	sel, err := h.svc.Resolve(v, params, loadSelection(c))
	if err != nil {
		metrics.RecordViewRender(v.Name, models.OutcomeInvalid)
		return nil, viewError(err)
	}

	start := time.Now()
	res, err := h.svc.Render(v, sel)
	metrics.ObserveQuery(v.Name, time.Since(start))
	if err != nil {
		if errors.Is(err, views.ErrInvalidMetric) {
			metrics.RecordViewRender(v.Name, models.OutcomeInvalid)
		}
		return nil, viewError(err)
	}

	if save {
		saveSelection(c, v, sel)
	}

	outcome := models.OutcomeRendered
	if res.Empty() {
		outcome = models.OutcomeEmpty
	}
	metrics.RecordViewRender(v.Name, outcome)
	return res, nil
}

// recordExport counts a download and, when a usage store is configured,
// appends it to the export log. Logging failures never fail the download.
func (h *DashboardHandler) recordExport(c fiber.Ctx, v views.View, format string, res *views.Result) {
	metrics.RecordExport(v.Name, format)
	if h.db == nil {
		return
	}

	rec := &models.ExportRecord{
		View:      v.Name,
		Format:    format,
		Selection: res.Selection.Values(v.Selectors),
		Rows:      res.Records,
	}
	if user := middleware.CurrentUser(c); user != nil {
		sub := user.Sub
		rec.UserSub = &sub
	}
	if err := h.db.RecordExport(c.Context(), rec); err != nil {
		log.Error().Err(err).Str("view", v.Name).Str("format", format).Msg("failed to log export")
	}
}

// navViews lists the analysis views for the navigation buttons.
func (h *DashboardHandler) navViews() []views.View {
	all := h.svc.Views()
	out := make([]views.View, 0, len(all))
	for _, v := range all {
		if v.Name != views.Home {
			out = append(out, v)
		}
	}
	return out
}

func controls(v views.View, res *views.Result) []control {
	out := make([]control, 0, len(v.Selectors))
	for _, sel := range views.AllSelectors {
		if !v.Has(sel) {
			continue
		}
		out = append(out, control{
			Name:      string(sel),
			Label:     views.SelectorLabel(sel),
			Options:   res.Options[sel],
			Value:     res.Selection.Get(sel),
			Clearable: v.IsClearable(sel),
			Cascades:  sel == views.SelectContinent && v.Has(views.SelectCountry),
		})
	}
	return out
}
