package analysis

import (
	"errors"
	"testing"

	"gocohort/adapters/stats/primitives"
	"gocohort/domain/battery"
	"gocohort/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalityChecker_Check(t *testing.T) {
	res, err := NewNormalityChecker().Check([]float64{1, 2, 4})
	require.NoError(t, err)
	assert.Equal(t, 3, res.N)
	assert.InDelta(t, 0.9642857, res.W, 1e-6)
	assert.InDelta(t, 0.6368868, res.PValue, 1e-5)
}

func TestNormalityChecker_ConstantValues(t *testing.T) {
	res, err := NewNormalityChecker().Check([]float64{5, 5, 5, 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInsufficientData))
	assert.Equal(t, 4, res.N)
}

func TestComparisonEngine_Compare(t *testing.T) {
	a := []float64{7, 8, 9, 10}
	b := []float64{1, 2, 3, 4}

	res, err := NewComparisonEngine().Compare(a, b, battery.Greater)
	require.NoError(t, err)
	assert.Equal(t, 16.0, res.U)
	assert.Equal(t, primitives.MethodExact, res.Method)
	assert.InDelta(t, 1.0/70, res.PValue, 1e-12)
	assert.Equal(t, battery.Greater, res.Alternative)
	assert.Equal(t, 4, res.N1)
	assert.Equal(t, 4, res.N2)

	res, err = NewComparisonEngine().Compare(a, b, battery.Less)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.PValue, 1e-12)
}

func TestComparisonEngine_TooSmall(t *testing.T) {
	res, err := NewComparisonEngine().Compare([]float64{1}, []float64{2, 3}, battery.TwoSided)
	require.Error(t, err)
	assert.Equal(t, "insufficient_data", core.ErrorKind(err))
	assert.Equal(t, 1, res.N1)
}

func TestComparisonEngine_Correlate(t *testing.T) {
	rho, p, n, err := NewComparisonEngine().Correlate([]float64{1, 2, 3, 4, 5}, []float64{5, 6, 7, 8, 7})
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.InDelta(t, 0.8207827, rho, 1e-6)
	assert.InDelta(t, 0.0885870, p, 1e-5)

	_, _, _, err = NewComparisonEngine().Correlate([]float64{1, 2, 3}, []float64{4, 4, 4})
	assert.ErrorIs(t, err, core.ErrZeroVariance)
}
