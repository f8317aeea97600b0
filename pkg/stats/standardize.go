// Package stats holds the column statistics used by the pipeline stages.
package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// zeroVarianceTolerance is the std, relative to |mean|, at or below which a
// column is constant
const zeroVarianceTolerance = 1e-12

// Standardize rescales values to mean 0 and population standard deviation 1.
// A constant column (including a single value) maps to all zeros.
func Standardize(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	mean, std := stat.PopMeanStdDev(values, nil)
	if std == 0 || std <= zeroVarianceTolerance*math.Abs(mean) {
		return out
	}

	for i, v := range values {
		out[i] = (v - mean) / std
	}
	return out
}

// Mean returns the arithmetic mean, or NaN for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// RowMean returns the element-wise mean of equal-length columns
func RowMean(cols ...[]float64) []float64 {
	if len(cols) == 0 {
		return nil
	}
	out := make([]float64, len(cols[0]))
	for _, col := range cols {
		floats.Add(out, col)
	}
	floats.Scale(1/float64(len(cols)), out)
	return out
}
