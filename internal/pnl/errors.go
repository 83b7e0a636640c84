package pnl

import "errors"

// Matrix construction and selection errors.
var (
	// ErrEmptyInput is returned when a matrix has no rows or no columns where data is required.
	ErrEmptyInput = errors.New("empty input: matrix has no rows or no columns")

	// ErrUnknownAsset is returned when a requested asset identifier is not a column of the matrix.
	ErrUnknownAsset = errors.New("unknown asset")

	// ErrDuplicateCell is returned when a (date, asset) cell is set twice.
	ErrDuplicateCell = errors.New("duplicate cell")

	// ErrDuplicateDate is returned when row labels are not unique.
	ErrDuplicateDate = errors.New("duplicate date")

	// ErrDuplicateAsset is returned when column labels are not unique.
	ErrDuplicateAsset = errors.New("duplicate asset")

	// ErrShapeMismatch is returned when row data does not match the declared labels.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInvalidValue is returned for infinite cell values.
	ErrInvalidValue = errors.New("invalid value")
)
