package ml

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartretail/internal/domain/product"
)

func TestTrainBootstrap_ProducesGeneralModel(t *testing.T) {
	bundle, err := TrainBootstrap(42, 500)
	require.NoError(t, err)
	defer bundle.Close()

	require.Contains(t, bundle.Pipelines, DefaultModelKey)
	pipeline := bundle.Pipelines[DefaultModelKey]
	assert.Equal(t, product.UniformFeatureSet(), pipeline.FeatureSet())

	spec, ok := bundle.Models[DefaultModelKey]
	require.True(t, ok)
	assert.Equal(t, "linear", spec.Kind)
	assert.Equal(t, product.KeywordConfigVersion, bundle.KeywordConfigVersion)
}

func TestTrainBootstrap_Deterministic(t *testing.T) {
	a, err := TrainBootstrap(42, 300)
	require.NoError(t, err)
	defer a.Close()

	b, err := TrainBootstrap(42, 300)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, a.Models[DefaultModelKey].Weights, b.Models[DefaultModelKey].Weights)
	assert.Equal(t, a.Models[DefaultModelKey].Intercept, b.Models[DefaultModelKey].Intercept)
}

func TestTrainBootstrap_SanePredictions(t *testing.T) {
	bundle, err := TrainBootstrap(42, 500)
	require.NoError(t, err)
	defer bundle.Close()

	pipeline := bundle.Pipelines[DefaultModelKey]

	rec := product.FeatureRecord{
		"brand":            product.Categorical("nike"),
		"gender":           product.Categorical("men"),
		"category":         product.Categorical("shoes"),
		"fabric":           product.Categorical("cotton"),
		"pattern":          product.Categorical("solid"),
		"color":            product.Categorical("black"),
		"rating_count":     product.Numeric(500),
		"discount_percent": product.Numeric(0),
	}

	logPrice, err := pipeline.Predict(rec)
	require.NoError(t, err)

	price := math.Expm1(logPrice)
	assert.Greater(t, price, 100.0)
	assert.Less(t, price, 10000.0)
}

func TestTrainBootstrap_DefaultSampleCount(t *testing.T) {
	bundle, err := TrainBootstrap(1, 0)
	require.NoError(t, err)
	defer bundle.Close()
	assert.Contains(t, bundle.Pipelines, DefaultModelKey)
}
