package product

// KeywordConfigVersion identifies the revision of the keyword lists and
// prestige thresholds below. Training exports record this version into the
// artifact manifest so serving can detect drift between the feature
// engineering used at training time and at inference time.
const KeywordConfigVersion = 1

// Classification keyword sets, checked in priority order:
// jewelry (category+name), watches (category+name), luxury (name only).
// An item mentioning both "silk" and "ring" is jewelry because jewelry
// wins the tie-break.
var (
	JewelryKeywords = []string{
		"ring", "chain", "earring", "necklace", "bracelet", "pendant", "bangle",
		"diamond", "gold", "silver", "platinum", "karat", "kt", "gem", "stone",
	}

	WatchKeywords = []string{
		"watch", "chronograph", "automatic", "quartz", "movement", "dial", "strap",
		"timepiece", "wristwatch", "casio", "titan", "fastrack", "fossil",
	}

	LuxuryKeywords = []string{
		"designer", "couture", "premium", "exclusive", "limited", "handmade",
		"cashmere", "silk", "leather", "wool", "pashmina", "georgette", "velvet",
	}
)

// Feature-derivation keyword sets. Each produces one boolean flag per
// keyword, tested as a case-insensitive substring of the product name.
var (
	MaterialKeywords = []string{
		"cotton", "polyester", "silk", "wool", "denim", "leather", "cashmere",
		"pashmina", "georgette", "velvet", "linen", "chiffon", "organza", "net", "lace",
	}

	StyleKeywords = []string{
		"casual", "formal", "sport", "party", "wedding", "ethnic", "western",
		"traditional", "vintage", "retro", "modern", "classic", "trendy", "elegant", "chic",
	}

	JewelryMaterialKeywords = []string{
		"gold", "silver", "platinum", "diamond", "gem", "stone", "pearl", "crystal",
	}

	WatchFeatureKeywords = []string{
		"automatic", "quartz", "chronograph", "digital", "analog", "waterproof", "water resistant",
	}

	LuxuryFeatureKeywords = []string{
		"designer", "couture", "premium", "exclusive", "limited", "handmade",
		"embroidered", "sequined", "beaded", "crystal", "swarovski",
	}
)

// Brand prestige tier thresholds in catalog currency units.
// brand_avg_price >= threshold maps to the tier.
const (
	PrestigeMidRangeThreshold     = 500.0
	PrestigePremiumThreshold      = 2000.0
	PrestigeUltraPremiumThreshold = 5000.0
)
