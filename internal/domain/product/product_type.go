package product

// Type defines the closed product taxonomy used to route predictions
// to a specialized model
type Type string

const (
	TypeJewelry       Type = "jewelry"
	TypeWatches       Type = "watches"
	TypeLuxuryApparel Type = "luxury_apparel"
	TypeApparel       Type = "apparel"
)

// AllTypes lists every product type in classification priority order
var AllTypes = []Type{TypeJewelry, TypeWatches, TypeLuxuryApparel, TypeApparel}

// Valid checks if product type is valid
func (t Type) Valid() bool {
	switch t {
	case TypeJewelry, TypeWatches, TypeLuxuryApparel, TypeApparel:
		return true
	}
	return false
}

// String returns string representation
func (t Type) String() string {
	return string(t)
}
