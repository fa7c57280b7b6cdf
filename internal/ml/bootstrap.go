package ml

import (
	"math"
	"math/rand"

	"smartretail/internal/domain/product"
	"smartretail/pkg/errors"
)

// Synthetic catalog rules for the bootstrap tier. The generated dataset is
// deliberately tiny and low fidelity; it exists so the service never starts
// with zero pricing capability.
var (
	bootstrapBrands     = []string{"roadster", "h&m", "zara", "nike", "adidas"}
	bootstrapGenders    = []string{"men", "women"}
	bootstrapCategories = []string{"shirt", "jeans", "dress", "shoes"}
	bootstrapFabrics    = []string{"cotton", "polyester", "denim", "silk"}
	bootstrapPatterns   = []string{"solid", "striped", "printed"}
	bootstrapColors     = []string{"blue", "black", "white", "red"}

	bootstrapBrandMultiplier = map[string]float64{
		"nike": 1.5, "adidas": 1.4, "zara": 1.2, "h&m": 1.0, "roadster": 0.8,
	}
	bootstrapCategoryMultiplier = map[string]float64{
		"shoes": 1.3, "dress": 1.2, "jeans": 1.1, "shirt": 1.0,
	}
)

const bootstrapBasePrice = 1000.0

// TrainBootstrap generates a synthetic dataset with a fixed seed and fits a
// linear model over the uniform feature set. The result is shaped like any
// other loaded bundle so the registry treats all tiers identically.
func TrainBootstrap(seed int64, samples int) (*Bundle, error) {
	if samples <= 0 {
		samples = 500
	}

	rng := rand.New(rand.NewSource(seed))
	set := product.UniformFeatureSet()

	categories := map[string][]string{
		"brand":    bootstrapBrands,
		"gender":   bootstrapGenders,
		"category": bootstrapCategories,
		"fabric":   bootstrapFabrics,
		"pattern":  bootstrapPatterns,
		"color":    bootstrapColors,
	}

	type row struct {
		rec   product.FeatureRecord
		price float64
	}

	rows := make([]row, samples)
	ratingSum, ratingSqSum := 0.0, 0.0
	discountSum, discountSqSum := 0.0, 0.0

	for i := 0; i < samples; i++ {
		brand := bootstrapBrands[rng.Intn(len(bootstrapBrands))]
		category := bootstrapCategories[rng.Intn(len(bootstrapCategories))]
		rating := float64(10 + rng.Intn(990))
		discount := rng.Float64() * 70

		price := bootstrapBasePrice
		price *= bootstrapBrandMultiplier[brand]
		price *= bootstrapCategoryMultiplier[category]
		price *= 1 - discount/100
		price += rng.NormFloat64() * 100
		if price < 100 {
			price = 100
		}

		rows[i] = row{
			rec: product.FeatureRecord{
				"brand":            product.Categorical(brand),
				"gender":           product.Categorical(bootstrapGenders[rng.Intn(len(bootstrapGenders))]),
				"category":         product.Categorical(category),
				"fabric":           product.Categorical(bootstrapFabrics[rng.Intn(len(bootstrapFabrics))]),
				"pattern":          product.Categorical(bootstrapPatterns[rng.Intn(len(bootstrapPatterns))]),
				"color":            product.Categorical(bootstrapColors[rng.Intn(len(bootstrapColors))]),
				"rating_count":     product.Numeric(rating),
				"discount_percent": product.Numeric(discount),
			},
			price: price,
		}

		ratingSum += rating
		ratingSqSum += rating * rating
		discountSum += discount
		discountSqSum += discount * discount
	}

	n := float64(samples)
	scaler := ScalerParams{
		Mean:  []float64{ratingSum / n, discountSum / n},
		Scale: []float64{stddev(ratingSqSum, ratingSum, n), stddev(discountSqSum, discountSum, n)},
	}

	enc, err := NewEncoder(set, categories, scaler)
	if err != nil {
		return nil, errors.Wrap(err, "bootstrap encoder")
	}

	x := make([][]float32, samples)
	y := make([]float64, samples)
	for i, r := range rows {
		vec, err := enc.Encode(r.rec)
		if err != nil {
			return nil, errors.Wrap(err, "encode synthetic row")
		}
		x[i] = vec
		y[i] = math.Log1p(r.price)
	}

	reg, err := FitRidge(x, y, 300, 0.1, 0.01)
	if err != nil {
		return nil, errors.Wrap(err, "fit bootstrap model")
	}

	return &Bundle{
		Manifest: Manifest{
			Version:              1,
			KeywordConfigVersion: product.KeywordConfigVersion,
			BrandPrestige:        product.PrestigeTable{},
			Models: map[string]ModelSpec{
				DefaultModelKey: {
					Kind:                "linear",
					Weights:             reg.Weights(),
					Intercept:           reg.Intercept(),
					CategoricalFeatures: set.Categorical,
					NumericalFeatures:   set.Numerical,
					Categories:          categories,
					Scaler:              scaler,
				},
			},
		},
		Pipelines: map[string]*RegressionPipeline{
			DefaultModelKey: NewRegressionPipeline(enc, reg),
		},
	}, nil
}

// stddev computes population standard deviation from running sums
func stddev(sqSum, sum, n float64) float64 {
	variance := sqSum/n - (sum/n)*(sum/n)
	if variance <= 0 {
		return 1
	}
	return math.Sqrt(variance)
}
