// Package stats holds the statistical primitives behind budget suggestion
// scoring and recurrence classification.
package stats

import (
	"math"

	"github.com/finlytics/ledger-analytics-service/internal/domain"
)

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SampleVariance divides by n-1. Used for recurring-pattern dispersion,
// where the observed charges are a sample of the merchant's behavior.
// Returns 0 when fewer than 2 values are present.
func SampleVariance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values)-1)
}

// PopulationVariance divides by n. Used when scoring an entire population,
// such as all of a category's transactions in the window.
// Note: this deliberately differs from SampleVariance; the two call sites
// produce different dispersion values and must stay separate.
func PopulationVariance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values))
}

// SampleStdDev is the square root of the sample variance.
func SampleStdDev(values []float64) float64 {
	return math.Sqrt(SampleVariance(values))
}

// PopulationStdDev is the square root of the population variance.
func PopulationStdDev(values []float64) float64 {
	return math.Sqrt(PopulationVariance(values))
}

// SampleCV returns stdDev/mean using the sample variant. A zero mean has
// no defined dispersion; callers treat the error as "not recurring".
func SampleCV(values []float64) (float64, error) {
	return cv(values, SampleStdDev)
}

// PopulationCV returns stdDev/mean using the population variant.
func PopulationCV(values []float64) (float64, error) {
	return cv(values, PopulationStdDev)
}

func cv(values []float64, stdDev func([]float64) float64) (float64, error) {
	if len(values) == 0 {
		return 0, domain.ErrInsufficientData
	}
	mean := Mean(values)
	if mean == 0 {
		return 0, domain.ErrInsufficientData
	}
	return stdDev(values) / mean, nil
}

// ConfidenceFromCV maps a coefficient of variation onto a [0.5, 1.0]
// confidence score. Piecewise linear:
//
//	cv < 0.2         -> 0.9 .. 1.0
//	0.2 <= cv < 0.4  -> 0.7 .. 0.9
//	cv >= 0.4        -> 0.7 decaying toward the 0.5 floor
func ConfidenceFromCV(cv float64) float64 {
	switch {
	case cv < 0.2:
		return 1.0 - (cv/0.2)*0.1
	case cv < 0.4:
		return 0.9 - ((cv-0.2)/0.2)*0.2
	default:
		return math.Max(0.5, 0.7-((cv-0.4)/0.6)*0.2)
	}
}
