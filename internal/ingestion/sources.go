package ingestion

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"tail-risk-lab/internal/domain"
)

// PnLSource provides raw P&L points of one scenario from an external source.
type PnLSource interface {
	// Fetch returns the known cells of a scenario. Points may be unordered;
	// Manager enforces deterministic ordering.
	Fetch(ctx context.Context, scenarioID string) ([]*domain.PnLPoint, error)
}

// CSVSource reads scenarios from wide P&L files named <scenario>.csv in Dir.
type CSVSource struct {
	Dir string
}

// NewCSVSource creates a CSVSource over dir.
func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{Dir: dir}
}

var _ PnLSource = (*CSVSource)(nil)

// Fetch reads <Dir>/<scenarioID>.csv.
func (s *CSVSource) Fetch(ctx context.Context, scenarioID string) ([]*domain.PnLPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := LoadMatrix(s.Dir, scenarioID)
	if err != nil {
		return nil, err
	}
	return Points(m, scenarioID), nil
}

// Scenarios lists the scenario ids available in Dir, ascending.
func (s *CSVSource) Scenarios() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("read csv dir: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".csv"))
	}
	sort.Strings(ids)
	return ids, nil
}
