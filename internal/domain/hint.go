package domain

// Hint carries caller-supplied optional search constraints. The zero value
// means "no constraints". Hints are advisory: values not present in the
// catalog vocabulary are silently treated as absent.
type Hint struct {
	Platforms  []string `json:"platforms,omitempty"`
	Category   string   `json:"category,omitempty"`
	Brand      string   `json:"brand,omitempty"`
	MinReviews int      `json:"min_reviews,omitempty"`
}

// WithMinReviews returns a copy of h with MinReviews set to min unless the
// hint already carries its own threshold.
func (h Hint) WithMinReviews(min int) Hint {
	if h.MinReviews <= 0 && min > 0 {
		h.MinReviews = min
	}
	return h
}

// WithPlatforms returns a copy of h constrained to the given platforms when
// they are non-empty, keeping the hint's own platforms otherwise.
func (h Hint) WithPlatforms(platforms []string) Hint {
	if len(platforms) > 0 {
		h.Platforms = platforms
	}
	return h
}

// WithBrand returns a copy of h with the brand filled in when non-empty.
func (h Hint) WithBrand(brand string) Hint {
	if brand != "" {
		h.Brand = brand
	}
	return h
}

// WithCategory returns a copy of h with the category filled in when non-empty.
func (h Hint) WithCategory(category string) Hint {
	if category != "" {
		h.Category = category
	}
	return h
}
