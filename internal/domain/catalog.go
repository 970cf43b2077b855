package domain

// Row is one product listing scraped from a marketplace. Numeric fields are
// coerced at load time: price/sold/review_count default to 0 on parse failure,
// rating keeps an explicit presence flag so aggregates can drop absent values.
type Row struct {
	SKU           string  `json:"sku"`
	ProductName   string  `json:"product_name"`
	Platform      string  `json:"platform"`
	SuperCategory string  `json:"super_category"`
	Categories    string  `json:"categories"`
	Brand         string  `json:"brand"`
	Price         float64 `json:"price"`
	Sold          float64 `json:"sold"`
	Rating        float64 `json:"rating"`
	HasRating     bool    `json:"-"`
	ReviewCount   int     `json:"review_count"`
	SellerName    string  `json:"seller_name"`
	URL           string  `json:"url"`
}

// DefaultPlatforms is the closed marketplace set used when the catalog scan
// yields no platform vocabulary.
var DefaultPlatforms = []string{"Lazada", "Shopee", "Tiki", "TikTokShop", "Sendo"}

// Vocabulary holds the known category/brand/platform values discovered by
// scanning the catalog at load time. The engine never infers vocabulary itself.
type Vocabulary struct {
	Categories []string
	Brands     []string
	Platforms  []string
}

// KnownPlatforms returns the scanned platform set, falling back to
// DefaultPlatforms for an empty catalog.
func (v Vocabulary) KnownPlatforms() []string {
	if len(v.Platforms) > 0 {
		return v.Platforms
	}
	return DefaultPlatforms
}

// HasCategory reports whether c is a known super-category.
func (v Vocabulary) HasCategory(c string) bool { return contains(v.Categories, c) }

// HasBrand reports whether b is a known brand.
func (v Vocabulary) HasBrand(b string) bool { return contains(v.Brands, b) }

// HasPlatform reports whether p is a known platform.
func (v Vocabulary) HasPlatform(p string) bool { return contains(v.KnownPlatforms(), p) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
