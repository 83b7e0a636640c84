package orchestrator

import (
	"context"
	"errors"

	"tail-risk-lab/internal/ingestion"
	"tail-risk-lab/internal/pnl"
	"tail-risk-lab/internal/quantile"
	"tail-risk-lab/internal/risk"
	"tail-risk-lab/internal/storage"
)

// Error kinds used as the "kind" metric label and log field.
const (
	KindInvalidQuantile = "invalid_quantile"
	KindEmptyInput      = "empty_input"
	KindEmptyTailSet    = "empty_tail_set"
	KindNoObservations  = "no_observations"
	KindUnknownAsset    = "unknown_asset"
	KindInvalidData     = "invalid_data"
	KindNotFound        = "not_found"
	KindDuplicate       = "duplicate"
	KindMalformedInput  = "malformed_input"
	KindCanceled        = "canceled"
	KindOther           = "other"
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{risk.ErrInvalidQuantile, KindInvalidQuantile},
	{quantile.ErrUnknownInterpolation, KindInvalidQuantile},
	{pnl.ErrEmptyInput, KindEmptyInput},
	{risk.ErrEmptyTailSet, KindEmptyTailSet},
	{risk.ErrNoObservations, KindNoObservations},
	{pnl.ErrUnknownAsset, KindUnknownAsset},
	{pnl.ErrDuplicateCell, KindInvalidData},
	{pnl.ErrInvalidValue, KindInvalidData},
	{storage.ErrNotFound, KindNotFound},
	{storage.ErrDuplicateKey, KindDuplicate},
	{storage.ErrInvalidInput, KindInvalidData},
	{ingestion.ErrMalformedCSV, KindMalformedInput},
	{context.Canceled, KindCanceled},
	{context.DeadlineExceeded, KindCanceled},
}

// ErrorKind classifies err by the sentinel it wraps.
func ErrorKind(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindOther
}
