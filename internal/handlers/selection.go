package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/rs/zerolog/log"

	"funolympics/internal/validation"
	"funolympics/internal/views"
)

// sessionSelection holds the JSON-encoded views.Selection shared by all views.
const sessionSelection = "selection"

// selectorParams reads selector values from the query string. Selectors
// absent from the query are absent from the result.
func selectorParams(c fiber.Ctx) (views.Params, error) {
	args := c.RequestCtx().QueryArgs()
	params := views.Params{}
	for _, sel := range views.AllSelectors {
		if !args.Has(string(sel)) {
			continue
		}
		value := c.Query(string(sel))
		if ok, msg := validation.ValidateSelectorValue(value); !ok {
			return nil, fiber.NewError(fiber.StatusBadRequest, string(sel)+": "+msg)
		}
		params[sel] = value
	}
	return params, nil
}

// loadSelection returns the selection stored in the session, or the zero
// selection when there is none.
func loadSelection(c fiber.Ctx) views.Selection {
	var sel views.Selection
	sess := session.FromContext(c)
	if sess == nil {
		return sel
	}
	raw, _ := sess.Get(sessionSelection).(string)
	if raw == "" {
		return sel
	}
	if err := json.Unmarshal([]byte(raw), &sel); err != nil {
		log.Warn().Err(err).Msg("discarding unreadable stored selection")
		return views.Selection{}
	}
	return sel
}

// saveSelection stores the view's selectors into the session, keeping the
// values of selectors the view does not show.
func saveSelection(c fiber.Ctx, v views.View, sel views.Selection) {
	sess := session.FromContext(c)
	if sess == nil {
		return
	}
	stored := loadSelection(c)
	stored.Merge(sel, v.Selectors)

	raw, err := json.Marshal(stored)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode selection")
		return
	}
	sess.Set(sessionSelection, string(raw))
}
