package pricing

import (
	"regexp"
	"strconv"
	"strings"

	"smartretail/internal/domain/product"
)

var (
	sizeTokenRe = regexp.MustCompile(`(?i)\b(?:xs|s|m|l|xl|xxl|xxxl|small|medium|large)\b`)
	karatRe     = regexp.MustCompile(`(?i)(\d+)\s*kt`)
)

// Extractor derives feature records from descriptors. Pure beyond the
// frozen brand prestige lookup; the same descriptor always yields the same
// record.
type Extractor struct {
	prestige product.PrestigeTable
}

// NewExtractor creates an extractor bound to a brand prestige table
func NewExtractor(prestige product.PrestigeTable) *Extractor {
	if prestige == nil {
		prestige = product.PrestigeTable{}
	}
	return &Extractor{prestige: prestige}
}

// ExtractFor derives the enriched feature record and filters it down to
// exactly the names in the given feature set. Callers pass the registered
// model's declared set, so the record always matches what that model was
// trained with.
func (e *Extractor) ExtractFor(d *product.Descriptor, set product.FeatureSet) product.FeatureRecord {
	derived := e.deriveAll(d)

	rec := make(product.FeatureRecord, set.Size())
	for _, name := range set.Categorical {
		rec[name] = derived[name]
	}
	for _, name := range set.Numerical {
		rec[name] = derived[name]
	}
	return rec
}

// ExtractUniform produces the feature record for tiers without product-type
// routing: raw descriptor fields only
func (e *Extractor) ExtractUniform(d *product.Descriptor) product.FeatureRecord {
	return product.FeatureRecord{
		"brand":            product.Categorical(d.Brand),
		"gender":           product.Categorical(d.Gender.String()),
		"category":         product.Categorical(d.Category),
		"fabric":           product.Categorical(d.Fabric),
		"pattern":          product.Categorical(d.Pattern),
		"color":            product.Categorical(d.Color),
		"rating_count":     product.Numeric(float64(d.RatingCount)),
		"discount_percent": product.Numeric(d.DiscountPercent),
	}
}

// deriveAll computes the full enriched feature map. Individual model types
// consume subsets of it, selected by their declared feature lists.
func (e *Extractor) deriveAll(d *product.Descriptor) product.FeatureRecord {
	name := d.ProductName
	lowerName := strings.ToLower(name)

	rec := product.FeatureRecord{
		"brand":            product.Categorical(d.Brand),
		"gender":           product.Categorical(d.Gender.String()),
		"fabric":           product.Categorical(d.Fabric),
		"pattern":          product.Categorical(d.Pattern),
		"color":            product.Categorical(d.Color),
		"has_size":         product.Flag(sizeTokenRe.MatchString(name)),
		"name_length":      product.Numeric(float64(len(name))),
		"word_count":       product.Numeric(float64(len(strings.Fields(name)))),
		"has_discount":     product.Flag(d.DiscountPercent > 0),
		"rating_count":     product.Numeric(float64(d.RatingCount)),
		"discount_percent": product.Numeric(d.DiscountPercent),
	}

	for _, mat := range product.MaterialKeywords {
		rec["has_"+mat] = product.Flag(strings.Contains(lowerName, mat))
	}

	for _, style := range product.StyleKeywords {
		rec["has_"+style] = product.Flag(strings.Contains(lowerName, style))
	}

	for _, mat := range product.JewelryMaterialKeywords {
		rec["jewelry_"+mat] = product.Flag(strings.Contains(lowerName, mat))
	}

	rec["karat"] = product.Numeric(extractKarat(name))

	for _, feat := range product.WatchFeatureKeywords {
		rec["watch_"+feat] = product.Flag(strings.Contains(lowerName, feat))
	}

	for _, kw := range product.LuxuryFeatureKeywords {
		rec["luxury_"+kw] = product.Flag(strings.Contains(lowerName, kw))
	}

	avgPrice := e.prestige.AvgPrice(d.Brand)
	rec["brand_avg_price"] = product.Numeric(avgPrice)
	rec["brand_prestige"] = product.Categorical(product.TierFor(avgPrice).String())

	// Unknown at inference time; models learned it as a constant default
	rec["price_range"] = product.Categorical("medium")

	return rec
}

// extractKarat pulls the first integer preceding a "kt" token, 0 if absent
func extractKarat(name string) float64 {
	m := karatRe.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	karat, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return float64(karat)
}
