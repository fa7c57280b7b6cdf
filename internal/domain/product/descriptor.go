package product

import (
	"smartretail/pkg/errors"
)

// Gender defines the audience segment of a catalog item
type Gender string

const (
	GenderMen    Gender = "men"
	GenderWomen  Gender = "women"
	GenderUnisex Gender = "unisex"
	GenderBoys   Gender = "boys"
	GenderGirls  Gender = "girls"
)

// Valid checks if gender is valid
func (g Gender) Valid() bool {
	switch g {
	case GenderMen, GenderWomen, GenderUnisex, GenderBoys, GenderGirls:
		return true
	}
	return false
}

// String returns string representation
func (g Gender) String() string {
	return string(g)
}

// Descriptor is the request-time representation of an item to price.
// Constructed per request, immutable, discarded after the response.
type Descriptor struct {
	ProductName     string  `json:"product_name"`
	Brand           string  `json:"brand"`
	Gender          Gender  `json:"gender"`
	Category        string  `json:"category"`
	Fabric          string  `json:"fabric,omitempty"`
	Pattern         string  `json:"pattern,omitempty"`
	Color           string  `json:"color,omitempty"`
	RatingCount     int     `json:"rating_count"`
	DiscountPercent float64 `json:"discount_percent"`
}

const (
	maxProductNameLen = 500
	maxBrandLen       = 100
	maxCategoryLen    = 100
)

// Validate checks every field and returns all violations at once.
// Out-of-range values are rejected here, never silently clamped.
func (d *Descriptor) Validate() error {
	v := &errors.ValidationErrors{}

	if d.ProductName == "" {
		v.Add("product_name", "is required")
	} else if len(d.ProductName) > maxProductNameLen {
		v.Add("product_name", "must be 500 characters or less")
	}

	if d.Brand == "" {
		v.Add("brand", "is required")
	} else if len(d.Brand) > maxBrandLen {
		v.Add("brand", "must be 100 characters or less")
	}

	if !d.Gender.Valid() {
		v.Add("gender", "must be one of: men, women, unisex, boys, girls")
	}

	if d.Category == "" {
		v.Add("category", "is required")
	} else if len(d.Category) > maxCategoryLen {
		v.Add("category", "must be 100 characters or less")
	}

	if d.RatingCount < 0 {
		v.Add("rating_count", "must be non-negative")
	}

	if d.DiscountPercent < 0 || d.DiscountPercent > 100 {
		v.Add("discount_percent", "must be between 0 and 100")
	}

	return v.ToError()
}
