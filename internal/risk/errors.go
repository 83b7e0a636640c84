package risk

import "errors"

// Query errors. Input-shape errors (empty matrix, unknown asset) come from package pnl.
var (
	// ErrInvalidQuantile is returned when q is not in the open interval (0, 1).
	ErrInvalidQuantile = errors.New("invalid quantile: q must be in (0, 1)")

	// ErrEmptyTailSet is returned when no day is strictly worse than VaR(q).
	ErrEmptyTailSet = errors.New("empty tail set: no day is strictly below VaR")

	// ErrNoObservations is returned when the selected assets have no known P&L on any tail day.
	ErrNoObservations = errors.New("no observations for selected assets on tail days")
)
