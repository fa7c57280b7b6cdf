package product

import "sort"

// FeatureKind tags a feature value as categorical or numeric
type FeatureKind uint8

const (
	KindCategorical FeatureKind = iota
	KindNumeric
)

// FeatureValue is a tagged scalar: either a categorical string consumed by
// one-hot encoding, or a number consumed directly or standardized.
// Boolean flags are numerics with value 0 or 1, matching how they were fed
// to training.
type FeatureValue struct {
	Kind   FeatureKind
	Text   string
	Number float64
}

// Categorical wraps a string feature value
func Categorical(s string) FeatureValue {
	return FeatureValue{Kind: KindCategorical, Text: s}
}

// Numeric wraps a numeric feature value
func Numeric(f float64) FeatureValue {
	return FeatureValue{Kind: KindNumeric, Number: f}
}

// Flag wraps a boolean feature value as 0/1
func Flag(b bool) FeatureValue {
	if b {
		return FeatureValue{Kind: KindNumeric, Number: 1}
	}
	return FeatureValue{Kind: KindNumeric, Number: 0}
}

// FeatureRecord is a name-indexed feature vector derived from a Descriptor.
// Lookup is by name, never positional; ordering is imposed by the model's
// declared feature lists at encode time.
type FeatureRecord map[string]FeatureValue

// Names returns the sorted feature names present in the record
func (r FeatureRecord) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FeatureSet declares the exact ordered feature names a registered model
// was trained with
type FeatureSet struct {
	Categorical []string `json:"categorical_features"`
	Numerical   []string `json:"numerical_features"`
}

// Size returns the total number of declared features
func (s FeatureSet) Size() int {
	return len(s.Categorical) + len(s.Numerical)
}

// Contains reports whether name is declared in either group
func (s FeatureSet) Contains(name string) bool {
	for _, n := range s.Categorical {
		if n == name {
			return true
		}
	}
	for _, n := range s.Numerical {
		if n == name {
			return true
		}
	}
	return false
}

// Base feature groups shared by every specialized model
var (
	baseCategorical = []string{"brand", "gender", "fabric", "pattern", "color", "brand_prestige"}
	baseNumerical   = []string{"rating_count", "discount_percent", "name_length", "word_count", "has_discount", "brand_avg_price"}
)

// FeatureSetFor returns the feature names the specialized model for the
// given product type was trained with. The lists mirror the training-side
// selection exactly; this shared declaration is what keeps training and
// serving from drifting apart.
func FeatureSetFor(t Type) FeatureSet {
	withPriceRange := append(append([]string{}, baseCategorical...), "price_range")

	switch t {
	case TypeJewelry:
		num := append([]string{}, baseNumerical...)
		num = append(num, "karat")
		for _, mat := range []string{"gold", "silver", "platinum", "diamond", "gem", "stone"} {
			num = append(num, "jewelry_"+mat)
		}
		return FeatureSet{Categorical: withPriceRange, Numerical: num}

	case TypeWatches:
		num := append([]string{}, baseNumerical...)
		for _, feat := range []string{"automatic", "quartz", "chronograph", "digital", "analog"} {
			num = append(num, "watch_"+feat)
		}
		return FeatureSet{Categorical: withPriceRange, Numerical: num}

	case TypeLuxuryApparel:
		num := append([]string{}, baseNumerical...)
		for _, kw := range []string{"designer", "couture", "premium", "exclusive", "limited", "handmade"} {
			num = append(num, "luxury_"+kw)
		}
		return FeatureSet{Categorical: withPriceRange, Numerical: num}

	default: // regular apparel
		num := append([]string{}, baseNumerical...)
		for _, mat := range []string{"cotton", "polyester", "silk", "wool", "denim", "leather", "cashmere"} {
			num = append(num, "has_"+mat)
		}
		return FeatureSet{Categorical: append([]string{}, baseCategorical...), Numerical: num}
	}
}

// UniformFeatureSet returns the feature names used by the general
// single-model and bootstrap tiers, which skip product-type routing and
// consume raw descriptor fields only.
func UniformFeatureSet() FeatureSet {
	return FeatureSet{
		Categorical: []string{"brand", "gender", "category", "fabric", "pattern", "color"},
		Numerical:   []string{"rating_count", "discount_percent"},
	}
}
