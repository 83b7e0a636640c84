// Package quantile maps a quantile level to an order statistic of a sample.
package quantile

import (
	"errors"
	"math"
)

// ErrEmptySample is returned when a quantile of an empty sample is requested.
var ErrEmptySample = errors.New("empty sample")

// Of returns the q-quantile of sorted, which must be sorted ascending.
// The target rank is h = q*(n-1), 0-indexed; policy decides what happens when h
// is not an integer. q is clamped to [0, 1]; callers validate the open interval.
func Of(sorted []float64, q float64, policy Interpolation) (float64, error) {
	n := len(sorted)
	if n == 0 {
		return 0, ErrEmptySample
	}
	if !policy.Valid() {
		return 0, ErrUnknownInterpolation
	}
	if n == 1 {
		return sorted[0], nil
	}

	q = math.Max(0, math.Min(1, q))
	h := q * float64(n-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if hi > n-1 {
		hi = n - 1
	}
	if lo > hi {
		lo = hi
	}

	switch policy {
	case Higher:
		return sorted[hi], nil
	case Nearest:
		return sorted[int(math.RoundToEven(h))], nil
	case Linear:
		frac := h - float64(lo)
		return sorted[lo] + frac*(sorted[hi]-sorted[lo]), nil
	case Midpoint:
		return (sorted[lo] + sorted[hi]) / 2, nil
	default:
		return sorted[lo], nil
	}
}
