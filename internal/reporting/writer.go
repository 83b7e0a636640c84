package reporting

import (
	"fmt"
	"os"
	"path/filepath"
)

// Document is a report that renders to Markdown and CSV.
type Document interface {
	Markdown() string
	CSV() (string, error)
}

// Markdown implements Document.
func (r *SummaryReport) Markdown() string { return RenderSummaryMarkdown(r) }

// CSV implements Document.
func (r *SummaryReport) CSV() (string, error) { return RenderSummaryCSV(r) }

// Markdown implements Document.
func (r *AttributionReport) Markdown() string { return RenderAttributionMarkdown(r) }

// CSV implements Document.
func (r *AttributionReport) CSV() (string, error) { return RenderAttributionCSV(r) }

// WriteFiles writes <dir>/<name>.md and <dir>/<name>.csv, creating dir if needed.
// Returns the written paths.
func WriteFiles(dir, name string, doc Document) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	csvData, err := doc.CSV()
	if err != nil {
		return nil, fmt.Errorf("render csv: %w", err)
	}

	mdPath := filepath.Join(dir, name+".md")
	if err := os.WriteFile(mdPath, []byte(doc.Markdown()), 0644); err != nil {
		return nil, fmt.Errorf("write markdown: %w", err)
	}

	csvPath := filepath.Join(dir, name+".csv")
	if err := os.WriteFile(csvPath, []byte(csvData), 0644); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}

	return []string{mdPath, csvPath}, nil
}
