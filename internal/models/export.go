package models

import "time"

// Export format constants
const (
	FormatXLSX = "xlsx"
	FormatPNG  = "png"
)

// ExportRecord is one download of a view's result.
type ExportRecord struct {
	ID        int64             `json:"id"`
	View      string            `json:"view"`
	Format    string            `json:"format"`
	Selection map[string]string `json:"selection"`
	Rows      int               `json:"rows"`
	UserSub   *string           `json:"user_sub,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
