package domain

// PnLPoint is one known cell of a scenario's daily P&L matrix.
// Corresponds to the pnl_points table. A (scenario, date, asset) triple without a
// row is a missing cell, which is not the same as a zero P&L.
type PnLPoint struct {
	ScenarioID string  // portfolio scenario, e.g. "before_hedge"
	Date       Date    // trading day
	AssetID    string  // asset / position identifier
	PnL        float64 // signed daily P&L amount
}
