package domain

// Output is the envelope every public engine operation returns. Data is a
// JSON-serializable list or object; Meta describes how the hit set was built.
// Both sides of the API boundary treat Data opaquely.
type Output struct {
	Data any  `json:"data"`
	Meta Meta `json:"meta"`
}

// Filters records the constraints actually applied to a search.
type Filters struct {
	Platforms  []string `json:"platforms"`
	TimeWindow *string  `json:"time_window"`
	Brand      *string  `json:"brand"`
	SKU        *string  `json:"sku"`
	MinReviews int      `json:"min_reviews"`
}

// Meta is the metadata half of every Output. Field order is fixed by the
// struct so repeated identical calls marshal to identical bytes.
type Meta struct {
	ProductQuery     string    `json:"product_query"`
	DetectedCategory *string   `json:"detected_category"`
	BrandGuess       *string   `json:"brand_guess"`
	Confidence       float64   `json:"confidence"`
	Filters          Filters   `json:"filters"`
	Notes            string    `json:"notes"`
	BinEdges         []float64 `json:"bin_edges,omitempty"`
	TSGenerated      string    `json:"ts_generated"`
}

// AppendNote appends a "; "-separated trace fragment to the notes string.
func (m *Meta) AppendNote(note string) {
	if m.Notes == "" {
		m.Notes = note
		return
	}
	m.Notes += "; " + note
}

// OptString maps the empty string to a JSON null.
func OptString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
