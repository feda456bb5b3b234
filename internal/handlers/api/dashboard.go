package api

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"funolympics/internal/metrics"
	"funolympics/internal/models"
	"funolympics/internal/query"
	"funolympics/internal/validation"
	"funolympics/internal/views"
)

// DashboardHandler exposes the dashboard views and the query engine as JSON.
// It is stateless: selections come from the query string only.
type DashboardHandler struct {
	svc *views.Service
}

// NewDashboardHandler creates a new API dashboard handler.
func NewDashboardHandler(svc *views.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Options returns the selector choices of the loaded dataset.
func (h *DashboardHandler) Options(c fiber.Ctx) error {
	ds := h.svc.Dataset()
	opts := ds.Options()
	return jsonSuccess(c, models.OptionsResponse{
		Months:     opts.Months,
		Continents: opts.Continents,
		Genders:    opts.Genders,
		Sports:     opts.Sports,
		Metrics:    h.svc.Metrics(),
		Records:    ds.Len(),
	})
}

// Views lists the enabled views.
func (h *DashboardHandler) Views(c fiber.Ctx) error {
	all := h.svc.Views()
	out := make([]models.ViewSummary, 0, len(all))
	for _, v := range all {
		out = append(out, viewSummary(v))
	}
	return jsonSuccess(c, out)
}

// View renders one view for the selection in the query string.
func (h *DashboardHandler) View(c fiber.Ctx) error {
	v, ok := h.lookup(c)
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "view not found")
	}

	params, err := selectorParams(c)
	if err != nil {
		metrics.RecordViewRender(v.Name, models.OutcomeInvalid)
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	sel, err := h.svc.Resolve(v, params, views.Selection{})
	if err != nil {
		metrics.RecordViewRender(v.Name, models.OutcomeInvalid)
		return jsonFailure(c, err)
	}

	start := time.Now()
	res, err := h.svc.Render(v, sel)
	metrics.ObserveQuery(v.Name, time.Since(start))
	if err != nil {
		if errors.Is(err, views.ErrInvalidMetric) {
			metrics.RecordViewRender(v.Name, models.OutcomeInvalid)
		}
		return jsonFailure(c, err)
	}

	outcome := models.OutcomeRendered
	if res.Empty() && v.Name != views.Home {
		outcome = models.OutcomeEmpty
	}
	metrics.RecordViewRender(v.Name, outcome)

	resp := models.ViewResponse{
		View:      v.Name,
		Selection: res.Selection.Values(v.Selectors),
		Options:   make(map[string][]string, len(res.Options)),
		Summary:   res.Summary,
		Empty:     res.Empty(),
	}
	for sel, opts := range res.Options {
		resp.Options[string(sel)] = opts
	}
	if res.Table != nil {
		resp.Result = queryResponse(res.Table, res.Matrix)
	}
	if res.Chart != nil {
		resp.Figure = res.Chart.Figure()
	}
	return jsonSuccess(c, resp)
}

// Countries recomputes the country choices for a continent.
func (h *DashboardHandler) Countries(c fiber.Ctx) error {
	v, ok := h.lookup(c)
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "view not found")
	}
	if !v.Has(views.SelectCountry) {
		return jsonError(c, fiber.StatusNotFound, "view has no country selector")
	}

	continent := c.Query("continent")
	country := c.Query("country")
	for _, value := range []string{continent, country} {
		if ok, msg := validation.ValidateSelectorValue(value); !ok {
			return jsonError(c, fiber.StatusBadRequest, msg)
		}
	}

	selected, options, err := h.svc.Cascade(continent, country)
	if err != nil {
		return err
	}
	return jsonSuccess(c, models.CascadeResponse{
		Continent: continent,
		Country:   selected,
		Countries: options,
	})
}

// Query runs an ad-hoc filter and group against the dataset.
func (h *DashboardHandler) Query(c fiber.Ctx) error {
	var req models.QueryRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if ok, msg := validation.ValidateQueryRequest(&req); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	order, err := query.ParseOrder(req.Order)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	group := query.GroupSpec{
		Columns:     req.GroupBy,
		CountColumn: req.CountColumn,
		Order:       order,
	}
	table, err := query.Run(h.svc.Dataset(), query.Filters(req.Filters), group)
	if err != nil {
		return jsonFailure(c, err)
	}

	var matrix *query.Matrix
	if req.Pivot {
		matrix, err = query.Pivot(table, req.GroupBy[0], req.GroupBy[1])
		if err != nil {
			return jsonFailure(c, err)
		}
	}
	return jsonSuccess(c, queryResponse(table, matrix))
}

func (h *DashboardHandler) lookup(c fiber.Ctx) (views.View, bool) {
	name := c.Params("view")
	if !validation.ValidateViewName(name) {
		return views.View{}, false
	}
	v, err := h.svc.Lookup(name)
	return v, err == nil
}

// viewSummary describes a view for the API listing.
func viewSummary(v views.View) models.ViewSummary {
	selectors := make([]string, len(v.Selectors))
	for i, sel := range v.Selectors {
		selectors[i] = string(sel)
	}
	return models.ViewSummary{
		Name:      v.Name,
		Label:     v.Label,
		Heading:   v.Heading,
		Selectors: selectors,
		Chart:     string(v.Chart),
	}
}

func queryResponse(t *query.Table, m *query.Matrix) *models.QueryResponse {
	resp := &models.QueryResponse{
		GroupBy:     t.GroupColumns,
		CountColumn: t.CountColumn,
		Rows:        make([]models.QueryRow, len(t.Rows)),
		Total:       t.Total(),
	}
	for i, r := range t.Rows {
		resp.Rows[i] = models.QueryRow{Keys: r.Keys, Count: r.Count}
	}
	if m != nil {
		resp.Matrix = &models.MatrixResponse{
			RowColumn: m.RowColumn,
			ColColumn: m.ColColumn,
			Rows:      m.Rows,
			Cols:      m.Cols,
			Cells:     m.Cells,
		}
	}
	return resp
}

// selectorParams reads selector values from the query string.
func selectorParams(c fiber.Ctx) (views.Params, error) {
	args := c.RequestCtx().QueryArgs()
	params := views.Params{}
	for _, sel := range views.AllSelectors {
		if !args.Has(string(sel)) {
			continue
		}
		value := c.Query(string(sel))
		if ok, msg := validation.ValidateSelectorValue(value); !ok {
			return nil, errors.New(string(sel) + ": " + msg)
		}
		params[sel] = value
	}
	return params, nil
}
