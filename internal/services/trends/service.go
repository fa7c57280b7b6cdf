package trends

import (
	"hash/fnv"
	"time"
)

// TrendingColor is one color with its popularity score and direction
type TrendingColor struct {
	Color      string  `json:"color"`
	Popularity float64 `json:"popularity"`
	Trend      string  `json:"trend"`
}

// TrendingStyle is one style with its popularity score and category
type TrendingStyle struct {
	Style      string  `json:"style"`
	Popularity float64 `json:"popularity"`
	Category   string  `json:"category"`
}

// SeasonalTrends holds the colors, styles and materials on trend for a season
type SeasonalTrends struct {
	Season    string   `json:"season"`
	Colors    []string `json:"colors"`
	Styles    []string `json:"styles"`
	Materials []string `json:"materials"`
}

// BrandPerformance holds performance metrics for a single brand
type BrandPerformance struct {
	PopularityScore      float64  `json:"popularity_score"`
	PriceRange           string   `json:"price_range"`
	TrendingProducts     []string `json:"trending_products"`
	CustomerSatisfaction float64  `json:"customer_satisfaction"`
}

// Report aggregates every trend insight into one document
type Report struct {
	Timestamp      time.Time       `json:"timestamp"`
	TrendingColors []TrendingColor `json:"trending_colors"`
	TrendingStyles []TrendingStyle `json:"trending_styles"`
	SeasonalTrends SeasonalTrends  `json:"seasonal_trends"`
}

// Service serves curated fashion trend data. The data is a static editorial
// snapshot; a live trend feed would slot in behind the same interface.
type Service struct {
	now func() time.Time
}

// NewService creates a new trend service
func NewService() *Service {
	return &Service{now: time.Now}
}

// TrendingColors returns trending colors for the given timeframe.
// The timeframe currently selects the same snapshot; it is part of the
// contract for a future live data source.
func (s *Service) TrendingColors(timeframe string) []TrendingColor {
	return []TrendingColor{
		{Color: "sage green", Popularity: 0.85, Trend: "rising"},
		{Color: "lavender", Popularity: 0.78, Trend: "stable"},
		{Color: "terracotta", Popularity: 0.72, Trend: "rising"},
		{Color: "navy blue", Popularity: 0.68, Trend: "stable"},
		{Color: "coral", Popularity: 0.65, Trend: "declining"},
	}
}

// TrendingStyles returns trending styles, filtered by category when it is
// not "all"
func (s *Service) TrendingStyles(category string) []TrendingStyle {
	styles := []TrendingStyle{
		{Style: "minimalist", Popularity: 0.82, Category: "all"},
		{Style: "vintage", Popularity: 0.75, Category: "apparel"},
		{Style: "athleisure", Popularity: 0.88, Category: "apparel"},
		{Style: "sustainable", Popularity: 0.70, Category: "all"},
		{Style: "oversized", Popularity: 0.73, Category: "apparel"},
	}

	if category == "" || category == "all" {
		return styles
	}

	filtered := make([]TrendingStyle, 0, len(styles))
	for _, st := range styles {
		if st.Category == category || st.Category == "all" {
			filtered = append(filtered, st)
		}
	}
	return filtered
}

// Seasonal returns trends for the given season, defaulting to the current
// season when the argument is empty
func (s *Service) Seasonal(season string) SeasonalTrends {
	if season == "" {
		season = currentSeason(s.now().Month())
	}

	seasons := map[string]SeasonalTrends{
		"spring": {
			Season:    "spring",
			Colors:    []string{"pastel pink", "mint green", "lavender"},
			Styles:    []string{"floral", "light layers", "pastel tones"},
			Materials: []string{"cotton", "linen", "chiffon"},
		},
		"summer": {
			Season:    "summer",
			Colors:    []string{"bright white", "coral", "turquoise"},
			Styles:    []string{"maxi dresses", "shorts", "tank tops"},
			Materials: []string{"cotton", "linen", "rayon"},
		},
		"fall": {
			Season:    "fall",
			Colors:    []string{"burgundy", "mustard", "olive green"},
			Styles:    []string{"layering", "boots", "sweaters"},
			Materials: []string{"wool", "cashmere", "denim"},
		},
		"winter": {
			Season:    "winter",
			Colors:    []string{"navy", "black", "deep red"},
			Styles:    []string{"coats", "sweaters", "boots"},
			Materials: []string{"wool", "cashmere", "leather"},
		},
	}

	if t, ok := seasons[season]; ok {
		return t
	}
	return seasons["spring"]
}

// BrandPerformanceFor returns synthetic performance metrics for the given
// brands. Scores are derived from a stable hash so repeated calls agree.
func (s *Service) BrandPerformanceFor(brands []string) map[string]BrandPerformance {
	perf := make(map[string]BrandPerformance, len(brands))

	for _, brand := range brands {
		h := brandHash(brand)
		priceRange := "premium"
		if h%2 == 0 {
			priceRange = "mid-range"
		}
		perf[brand] = BrandPerformance{
			PopularityScore:      0.7 + float64(h%30)/100,
			PriceRange:           priceRange,
			TrendingProducts:     []string{"shirt", "jeans", "dress"},
			CustomerSatisfaction: 0.8 + float64(h%20)/100,
		}
	}

	return perf
}

// GenerateReport builds the full trend report
func (s *Service) GenerateReport() Report {
	return Report{
		Timestamp:      s.now().UTC(),
		TrendingColors: s.TrendingColors("30d"),
		TrendingStyles: s.TrendingStyles("all"),
		SeasonalTrends: s.Seasonal(""),
	}
}

func currentSeason(month time.Month) string {
	switch month {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "fall"
	}
}

func brandHash(brand string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(brand))
	return h.Sum32()
}
