package models

// OptionsResponse lists the selector choices offered by the loaded dataset.
type OptionsResponse struct {
	Months     []string `json:"months"`
	Continents []string `json:"continents"`
	Genders    []string `json:"genders"`
	Sports     []string `json:"sports"`
	Metrics    []string `json:"metrics"`
	Records    int      `json:"records"`
}

// ViewSummary describes one analysis view in the API view list.
type ViewSummary struct {
	Name      string   `json:"name"`
	Label     string   `json:"label"`
	Heading   string   `json:"heading"`
	Selectors []string `json:"selectors"`
	Chart     string   `json:"chart,omitempty"`
}

// CascadeResponse is the result of re-deriving the country selector.
type CascadeResponse struct {
	Continent string   `json:"continent"`
	Country   string   `json:"country"`
	Countries []string `json:"countries"`
}

// QueryRequest is the body of POST /api/query.
type QueryRequest struct {
	Filters     map[string]string `json:"filters"`
	GroupBy     []string          `json:"group_by"`
	CountColumn string            `json:"count_column"`
	Order       string            `json:"order"`
	Pivot       bool              `json:"pivot"`
}

// QueryRow is one group of a query result.
type QueryRow struct {
	Keys  []string `json:"keys"`
	Count int      `json:"count"`
}

// MatrixResponse is a pivoted two-column result. Missing cells are null.
type MatrixResponse struct {
	RowColumn string   `json:"row_column"`
	ColColumn string   `json:"col_column"`
	Rows      []string `json:"rows"`
	Cols      []string `json:"cols"`
	Cells     [][]*int `json:"cells"`
}

// QueryResponse is the result of POST /api/query and of a view render.
type QueryResponse struct {
	GroupBy     []string        `json:"group_by"`
	CountColumn string          `json:"count_column"`
	Rows        []QueryRow      `json:"rows"`
	Total       int             `json:"total"`
	Matrix      *MatrixResponse `json:"matrix,omitempty"`
}

// ViewResponse is the rendered state of a view for the API.
type ViewResponse struct {
	View      string              `json:"view"`
	Selection map[string]string   `json:"selection"`
	Options   map[string][]string `json:"options"`
	Summary   string              `json:"summary"`
	Empty     bool                `json:"empty"`
	Result    *QueryResponse      `json:"result,omitempty"`
	Figure    any                 `json:"figure,omitempty"`
}
