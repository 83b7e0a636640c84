package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"tail-risk-lab/internal/domain"
	"tail-risk-lab/internal/pnl"
)

// ErrMalformedCSV is returned for wide P&L files that cannot be read as a matrix.
var ErrMalformedCSV = errors.New("malformed pnl csv")

// dateColumn is the header of the first column of a wide P&L file.
const dateColumn = "date"

// ReadMatrix reads a wide P&L file: a header "date,<asset>,<asset>..." followed by
// one row per date. Empty, "NA" and "NaN" cells are missing. Every declared date and
// asset is kept, even when all of its cells are missing.
func ReadMatrix(r io.Reader) (*pnl.Matrix, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMalformedCSV)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	assets, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	b := pnl.NewBuilder()
	for _, a := range assets {
		b.AddAsset(a)
	}

	seen := make(map[domain.Date]int)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// csv.ParseError already carries the line number.
			return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}
		line, _ := cr.FieldPos(0)

		date, err := domain.ParseDate(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedCSV, line, err)
		}
		if first, dup := seen[date]; dup {
			return nil, fmt.Errorf("%w: line %d: date %s already on line %d", ErrMalformedCSV, line, date, first)
		}
		seen[date] = line
		b.AddDate(date)

		for j, cell := range record[1:] {
			v, known, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d, column %q: %v", ErrMalformedCSV, line, assets[j], err)
			}
			if !known {
				continue
			}
			if err := b.Set(date, assets[j], v); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedCSV, line, err)
			}
		}
	}

	return b.Build(), nil
}

// ReadPoints reads a wide P&L file and returns its known cells as points of scenarioID
// in row order, then column order.
func ReadPoints(r io.Reader, scenarioID string) ([]*domain.PnLPoint, error) {
	m, err := ReadMatrix(r)
	if err != nil {
		return nil, err
	}
	return Points(m, scenarioID), nil
}

// Points flattens the known cells of m into points of scenarioID.
func Points(m *pnl.Matrix, scenarioID string) []*domain.PnLPoint {
	points := make([]*domain.PnLPoint, 0, m.Known())
	for _, d := range m.Dates() {
		for _, a := range m.Assets() {
			if v, ok := m.Value(d, a); ok {
				points = append(points, &domain.PnLPoint{ScenarioID: scenarioID, Date: d, AssetID: a, PnL: v})
			}
		}
	}
	return points
}

// ScenarioFile returns the path of scenarioID's file under dir.
func ScenarioFile(dir, scenarioID string) string {
	return filepath.Join(dir, scenarioID+".csv")
}

// LoadMatrix reads <dir>/<scenarioID>.csv.
func LoadMatrix(dir, scenarioID string) (*pnl.Matrix, error) {
	f, err := os.Open(ScenarioFile(dir, scenarioID))
	if err != nil {
		return nil, fmt.Errorf("open scenario %s: %w", scenarioID, err)
	}
	defer f.Close()

	m, err := ReadMatrix(f)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", scenarioID, err)
	}
	return m, nil
}

func parseHeader(header []string) ([]string, error) {
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: header needs a date column and at least one asset", ErrMalformedCSV)
	}
	if !strings.EqualFold(strings.TrimSpace(header[0]), dateColumn) {
		return nil, fmt.Errorf("%w: first column must be %q, got %q", ErrMalformedCSV, dateColumn, header[0])
	}

	assets := make([]string, 0, len(header)-1)
	seen := make(map[string]struct{}, len(header)-1)
	for _, h := range header[1:] {
		a := strings.TrimSpace(h)
		if a == "" {
			return nil, fmt.Errorf("%w: empty asset name in header", ErrMalformedCSV)
		}
		if _, dup := seen[a]; dup {
			return nil, fmt.Errorf("%w: asset %q appears twice in header", ErrMalformedCSV, a)
		}
		seen[a] = struct{}{}
		assets = append(assets, a)
	}
	return assets, nil
}

func parseCell(cell string) (v float64, known bool, err error) {
	s := strings.TrimSpace(cell)
	switch strings.ToLower(s) {
	case "", "na", "nan":
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("not a number: %q", s)
	}
	if math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("infinite value: %q", s)
	}
	return v, true, nil
}
