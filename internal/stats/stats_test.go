package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finlytics/ledger-analytics-service/internal/domain"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 100.0, Mean([]float64{100}))
	assert.Equal(t, 20.0, Mean([]float64{10, 20, 30}))
}

func TestSampleVsPopulationVariance(t *testing.T) {
	values := []float64{2, 4, 6}

	// Sample divides by n-1, population by n. They must not agree.
	assert.InDelta(t, 4.0, SampleVariance(values), 1e-9)
	assert.InDelta(t, 8.0/3.0, PopulationVariance(values), 1e-9)
}

func TestSampleVarianceSinglePoint(t *testing.T) {
	assert.Equal(t, 0.0, SampleVariance([]float64{42}))
}

func TestCVZeroMean(t *testing.T) {
	_, err := SampleCV([]float64{-5, 5})
	require.ErrorIs(t, err, domain.ErrInsufficientData)

	_, err = PopulationCV(nil)
	require.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestCVIdenticalAmounts(t *testing.T) {
	cv, err := SampleCV([]float64{100, 100, 100})
	require.NoError(t, err)
	assert.Equal(t, 0.0, cv)
}

func TestConfidenceFromCV(t *testing.T) {
	tests := []struct {
		name string
		cv   float64
		want float64
	}{
		{"zero dispersion", 0, 1.0},
		{"low", 0.1, 0.95},
		{"first segment boundary", 0.2, 0.9},
		{"mid segment", 0.3, 0.8},
		{"second segment boundary", 0.4, 0.7},
		{"high", 0.7, 0.6},
		{"at floor", 1.0, 0.5},
		{"beyond floor", 5.0, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ConfidenceFromCV(tt.cv), 1e-9)
		})
	}
}

func TestConfidenceMonotonic(t *testing.T) {
	prev := ConfidenceFromCV(0)
	for cv := 0.01; cv <= 2.0; cv += 0.01 {
		c := ConfidenceFromCV(cv)
		assert.LessOrEqual(t, c, prev, "confidence must not increase with cv")
		assert.GreaterOrEqual(t, c, 0.5)
		assert.LessOrEqual(t, c, 1.0)
		prev = c
	}
}
