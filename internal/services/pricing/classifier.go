package pricing

import (
	"strings"

	"smartretail/internal/domain/product"
)

// ClassifyProduct assigns a descriptor to one of the fixed product-type
// buckets by keyword matching. Sets are checked in priority order, so an
// item mentioning both "silk" and "ring" lands in jewelry. Deterministic
// and total: every descriptor maps to exactly one type, apparel being the
// default bucket.
func ClassifyProduct(d *product.Descriptor) product.Type {
	category := strings.ToLower(d.Category)
	name := strings.ToLower(d.ProductName)

	for _, kw := range product.JewelryKeywords {
		if strings.Contains(category, kw) || strings.Contains(name, kw) {
			return product.TypeJewelry
		}
	}

	for _, kw := range product.WatchKeywords {
		if strings.Contains(category, kw) || strings.Contains(name, kw) {
			return product.TypeWatches
		}
	}

	// Luxury keywords only apply to the product name
	for _, kw := range product.LuxuryKeywords {
		if strings.Contains(name, kw) {
			return product.TypeLuxuryApparel
		}
	}

	return product.TypeApparel
}
