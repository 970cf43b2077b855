package domain

// Resolution is the Query Resolver's output: which platforms/category/brand
// apply to a query and how confident that choice is. Built fresh per search
// call and immutable once returned.
type Resolution struct {
	DetectedCategory string
	BrandGuess       string
	QueryTokens      []string
	Platforms        []string
	Confidence       float64
	Notes            string
	Query            string
}

// ResolutionData is the JSON shape of a resolution's data payload.
type ResolutionData struct {
	DetectedCategory *string  `json:"detected_category"`
	BrandGuess       *string  `json:"brand_guess"`
	QueryTokens      []string `json:"query_tokens"`
	Platforms        []string `json:"platforms"`
}

// Data returns the resolution's JSON payload.
func (r Resolution) Data() ResolutionData {
	return ResolutionData{
		DetectedCategory: OptString(r.DetectedCategory),
		BrandGuess:       OptString(r.BrandGuess),
		QueryTokens:      r.QueryTokens,
		Platforms:        r.Platforms,
	}
}
