package product

// PriceBand is a [min, max] clamp applied to raw model output to keep
// predictions inside a domain-sane range
type PriceBand struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Clamp forces price into the band
func (b PriceBand) Clamp(price float64) float64 {
	if price < b.Min {
		return b.Min
	}
	if price > b.Max {
		return b.Max
	}
	return price
}

// ConstraintPolicy maps each product type to its price band. Applied
// unconditionally after every multi-model prediction.
type ConstraintPolicy map[Type]PriceBand

// DefaultConstraints are the domain-constant bands. Artifacts may override
// them per deployment; these are the values used when the manifest carries
// none.
func DefaultConstraints() ConstraintPolicy {
	return ConstraintPolicy{
		TypeJewelry:       {Min: 100, Max: 200000},
		TypeWatches:       {Min: 500, Max: 100000},
		TypeLuxuryApparel: {Min: 1000, Max: 50000},
		TypeApparel:       {Min: 50, Max: 10000},
	}
}

// BandFor returns the band for a product type, falling back to the apparel
// band for anything unmapped
func (p ConstraintPolicy) BandFor(t Type) PriceBand {
	if band, ok := p[t]; ok {
		return band
	}
	return PriceBand{Min: 50, Max: 10000}
}
