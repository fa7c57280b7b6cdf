package pricing

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartretail/internal/domain/product"
	"smartretail/internal/ml"
	"smartretail/pkg/logger"
)

func simpleSpec() ml.ModelSpec {
	return ml.ModelSpec{
		Kind:                "linear",
		Weights:             []float64{0.5, 0.5, 1.0},
		Intercept:           7.0,
		CategoricalFeatures: []string{"brand"},
		NumericalFeatures:   []string{"rating_count"},
		Categories:          map[string][]string{"brand": {"nike", "zara"}},
		Scaler:              ml.ScalerParams{Mean: []float64{100}, Scale: []float64{50}},
	}
}

func writeTierManifest(t *testing.T, dir string, models map[string]ml.ModelSpec, prestige product.PrestigeTable) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))

	data, err := json.Marshal(ml.Manifest{
		Version:              1,
		KeywordConfigVersion: product.KeywordConfigVersion,
		BrandPrestige:        prestige,
		Models:               models,
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ml.ManifestFile), data, 0o644))
}

func TestLoadRegistry_FastTier(t *testing.T) {
	root := t.TempDir()
	multiDir := filepath.Join(root, "multi")
	writeTierManifest(t, multiDir, map[string]ml.ModelSpec{
		"jewelry": simpleSpec(),
		"apparel": simpleSpec(),
	}, product.PrestigeTable{"nike": 1200})

	r := LoadRegistry(LoadConfig{
		MultiModelDir:  multiDir,
		SingleModelDir: filepath.Join(root, "missing"),
	}, logger.Get())
	defer r.Close()

	assert.Equal(t, TierFastMultiModel, r.Tier())

	status := r.Status()
	assert.True(t, status.FastModelsLoaded)
	assert.False(t, status.OriginalModelLoaded)
	assert.Equal(t, TierFastMultiModel, status.ActiveTier)

	_, ok := r.ModelFor(product.TypeJewelry)
	assert.True(t, ok)
	_, ok = r.ModelFor(product.TypeWatches)
	assert.False(t, ok)

	assert.Equal(t, 1200.0, r.Prestige().AvgPrice("nike"))
}

func TestLoadRegistry_SkipsUnknownProductTypes(t *testing.T) {
	root := t.TempDir()
	multiDir := filepath.Join(root, "multi")
	writeTierManifest(t, multiDir, map[string]ml.ModelSpec{
		"jewelry":     simpleSpec(),
		"electronics": simpleSpec(),
	}, nil)

	r := LoadRegistry(LoadConfig{MultiModelDir: multiDir}, logger.Get())
	defer r.Close()

	assert.Equal(t, TierFastMultiModel, r.Tier())
	_, ok := r.ModelFor(product.Type("electronics"))
	assert.False(t, ok)
}

func TestLoadRegistry_FallsThroughToSingleModel(t *testing.T) {
	root := t.TempDir()
	multiDir := filepath.Join(root, "multi")
	singleDir := filepath.Join(root, "single")

	// Corrupt multi-model artifact forces the next tier
	require.NoError(t, os.MkdirAll(multiDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(multiDir, ml.ManifestFile), []byte("garbage"), 0o644))

	writeTierManifest(t, singleDir, map[string]ml.ModelSpec{ml.DefaultModelKey: simpleSpec()}, nil)

	r := LoadRegistry(LoadConfig{
		MultiModelDir:  multiDir,
		SingleModelDir: singleDir,
	}, logger.Get())
	defer r.Close()

	assert.Equal(t, TierOriginalSingle, r.Tier())
	assert.False(t, r.Status().FastModelsLoaded)
	assert.True(t, r.Status().OriginalModelLoaded)
	require.NotNil(t, r.General())
}

func TestLoadRegistry_FallsThroughToBootstrap(t *testing.T) {
	root := t.TempDir()

	r := LoadRegistry(LoadConfig{
		MultiModelDir:    filepath.Join(root, "missing-multi"),
		SingleModelDir:   filepath.Join(root, "missing-single"),
		BootstrapSeed:    42,
		BootstrapSamples: 200,
	}, logger.Get())
	defer r.Close()

	assert.Equal(t, TierFallback, r.Tier())
	assert.True(t, r.Status().FallbackModelLoaded)
	assert.Equal(t, TierFallback, r.Status().ActiveTier)
	require.NotNil(t, r.General())
}

func TestLoadRegistry_AlwaysHasDefaultConstraints(t *testing.T) {
	r := LoadRegistry(LoadConfig{BootstrapSeed: 1, BootstrapSamples: 100}, logger.Get())
	defer r.Close()

	band := r.Constraints().BandFor(product.TypeJewelry)
	assert.Equal(t, product.PriceBand{Min: 100, Max: 200000}, band)
}
