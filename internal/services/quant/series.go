package quant

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"StockPulse/internal/domain/models"
)

var (
	ErrInsufficientData = errors.New("quant: insufficient data")
	ErrZeroDivisor      = errors.New("quant: zero divisor")
)

// Closes extracts the close series from a price history.
func Closes(bars []models.PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts the volume series from a price history.
func Volumes(bars []models.PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}

// SMA returns the mean of the trailing window of xs.
func SMA(xs []float64, window int) (float64, error) {
	if window <= 0 {
		return 0, fmt.Errorf("%w: window %d", ErrInsufficientData, window)
	}
	if len(xs) < window {
		return 0, fmt.Errorf("%w: need %d values, have %d", ErrInsufficientData, window, len(xs))
	}
	return stat.Mean(xs[len(xs)-window:], nil), nil
}

// PctChangeReturns computes simple returns r_t = (x_t - x_{t-1}) / x_{t-1}.
// The result has length len(xs)-1. A zero value anywhere before the last
// element is a zero-divisor error, not a silent Inf.
func PctChangeReturns(xs []float64) ([]float64, error) {
	if len(xs) < 2 {
		return nil, fmt.Errorf("%w: need 2 values, have %d", ErrInsufficientData, len(xs))
	}
	out := make([]float64, 0, len(xs)-1)
	for i := 1; i < len(xs); i++ {
		prev := xs[i-1]
		if prev == 0 {
			return nil, fmt.Errorf("%w: value at index %d is 0", ErrZeroDivisor, i-1)
		}
		out = append(out, (xs[i]-prev)/prev)
	}
	return out, nil
}

// SampleStd returns the sample standard deviation (n-1 denominator) of xs.
func SampleStd(xs []float64) (float64, error) {
	if len(xs) < 2 {
		return 0, fmt.Errorf("%w: need 2 values, have %d", ErrInsufficientData, len(xs))
	}
	return stat.StdDev(xs, nil), nil
}

// Tail returns the last n elements of xs (all of xs when n exceeds its length).
func Tail(xs []float64, n int) []float64 {
	if n >= len(xs) {
		return xs
	}
	return xs[len(xs)-n:]
}
