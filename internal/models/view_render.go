package models

import "time"

// View render outcome constants
const (
	OutcomeRendered = "rendered"
	OutcomeEmpty    = "empty"
	OutcomeInvalid  = "invalid"
)

// ViewRender is the lifetime render count of a view by outcome.
type ViewRender struct {
	View       string
	Outcome    string
	Count      int64
	LastSeenAt time.Time
}
