package reporting

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// csvPlaces is the number of decimals written to CSV exports.
const csvPlaces = 6

var printer = message.NewPrinter(language.English)

// formatAmount renders a P&L amount for humans: thousands separators, two decimals.
// Missing values render as "n/a".
func formatAmount(v float64, known bool) string {
	if !known {
		return "n/a"
	}
	return printer.Sprintf("%.2f", v)
}

// csvAmount renders a P&L amount for machines: no grouping, fixed decimals.
// Missing values render as an empty cell.
func csvAmount(v float64, known bool) string {
	if !known {
		return ""
	}
	return decimal.NewFromFloat(v).StringFixed(csvPlaces)
}
