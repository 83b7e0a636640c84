// Package storage defines the P&L point store and its sentinel errors.
package storage

import "errors"

// Storage errors. Stores are append-only: a stored point is never overwritten.
var (
	// ErrNotFound is returned when a scenario has no stored points.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when a (scenario, date, asset) cell is inserted twice,
	// either within one batch or against a stored point.
	ErrDuplicateKey = errors.New("duplicate key: stored P&L points cannot be overwritten")

	// ErrInvalidInput is returned when a point fails validation.
	ErrInvalidInput = errors.New("invalid input")
)
