package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjust(t *testing.T) {
	pvals := []float64{0.01, 0.04, 0.03, 0.20}

	assert.Nil(t, Adjust(pvals, CorrectionNone))

	assert.InDeltaSlice(t, []float64{0.04, 0.16, 0.12, 0.80}, Adjust(pvals, CorrectionBonferroni), 1e-12)

	// sorted: 0.01*4, 0.03*3, 0.04*2, 0.20*1 -> 0.04, 0.09, 0.09 (monotone), 0.20
	assert.InDeltaSlice(t, []float64{0.04, 0.09, 0.09, 0.20}, Adjust(pvals, CorrectionHolm), 1e-12)

	// sorted: 0.01*4/1, 0.03*4/2, 0.04*4/3, 0.20*4/4 -> 0.04, 0.0533, 0.0533, 0.20
	assert.InDeltaSlice(t, []float64{0.04, 0.16 / 3, 0.16 / 3, 0.20}, Adjust(pvals, CorrectionBH), 1e-12)
}

func TestAdjust_ClipsAtOne(t *testing.T) {
	got := Adjust([]float64{0.6, 0.9}, CorrectionBonferroni)
	assert.Equal(t, []float64{1, 1}, got)
}

func TestParseCorrection(t *testing.T) {
	c, err := ParseCorrection("holm")
	require.NoError(t, err)
	assert.Equal(t, CorrectionHolm, c)

	_, err = ParseCorrection("sidak")
	assert.Error(t, err)
}
