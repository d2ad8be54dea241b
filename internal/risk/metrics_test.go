package risk

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storage-valuation/internal/model"
)

func TestQuantileInterpolation(t *testing.T) {
	sorted := []float64{-10, -5, 0, 5, 10}

	assert.Equal(t, -10.0, Quantile(sorted, 0))
	assert.Equal(t, 10.0, Quantile(sorted, 1))
	assert.Equal(t, 0.0, Quantile(sorted, 0.5))
	// rank 0.2*(5-1) = 0.8: interpolate between -10 and -5.
	assert.InDelta(t, -6.0, Quantile(sorted, 0.2), 1e-12)
	assert.InDelta(t, -9.0, Quantile(sorted, 0.05), 1e-12)
}

func TestComputeKnownDistribution(t *testing.T) {
	values := []float64{-10, -5, 0, 5, 10}

	m, err := Compute(values, 0.80)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, m.MeanValue, 1e-12)
	// VaR at 80%: negative of the 0.2 quantile (-6).
	assert.InDelta(t, 6.0, m.ValueAtRisk, 1e-12)
	// Tail at or below -6 is just {-10}.
	assert.InDelta(t, 10.0, m.ConditionalValueAtRisk, 1e-12)
}

func TestComputeOrderIndependent(t *testing.T) {
	values := []float64{4, -7, 12, 0.5, -3, 9, -1}
	shuffled := []float64{12, -1, 4, 9, -7, 0.5, -3}

	a, err := Compute(values, 0.9)
	require.NoError(t, err)
	b, err := Compute(shuffled, 0.9)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestCVaRAtLeastAsSevereAsVaR(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for trial := 0; trial < 50; trial++ {
		values := make([]float64, 200)
		for i := range values {
			values[i] = rng.NormFloat64()*50 + 10
		}
		for _, c := range []float64{0.8, 0.9, 0.95, 0.99} {
			m, err := Compute(values, c)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, m.ConditionalValueAtRisk, m.ValueAtRisk,
				"expected shortfall must be at least the threshold loss (c=%.2f)", c)
		}
	}
}

func TestSampleStdDev(t *testing.T) {
	m, err := Compute([]float64{1, 2, 3, 4}, 0.9)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, m.MeanValue, 1e-12)
	// Sample (n-1) variance of {1,2,3,4} is 5/3.
	assert.InDelta(t, 1.2909944487358056, m.StdDev, 1e-12)
}

func TestComputeRejectsBadInput(t *testing.T) {
	var cfgErr *model.ConfigurationError

	_, err := Compute([]float64{1, 2, 3}, 0)
	require.True(t, errors.As(err, &cfgErr))

	_, err = Compute([]float64{1, 2, 3}, 1)
	require.True(t, errors.As(err, &cfgErr))

	_, err = Compute([]float64{1}, 0.95)
	require.True(t, errors.As(err, &cfgErr))

	_, err = Compute(nil, 0.95)
	require.True(t, errors.As(err, &cfgErr))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{3, -1, 7, 0})
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, -1.0, s.Min)
	assert.Equal(t, 7.0, s.Max)
	assert.InDelta(t, 2.25, s.Mean, 1e-12)
	assert.Equal(t, Summary{}, Summarize(nil))
}
