package model

import "math"

// RiskMeasures holds the per-symbol risk/return figures of one generation run.
type RiskMeasures struct {
	Symbol      string
	SharpeRatio float64 // NaN when return variance is zero
	MaxDrawdown float64 // in [-1, 0]
}

// SharpeDefined reports whether the Sharpe ratio is a finite number.
func (m RiskMeasures) SharpeDefined() bool {
	return !math.IsNaN(m.SharpeRatio) && !math.IsInf(m.SharpeRatio, 0)
}

// SymbolResult is the outcome of processing one symbol.
// Err set means the symbol produced no chart line; MeasureErr set means no figures.
type SymbolResult struct {
	Symbol     string
	Series     *PriceSeries
	Normalized *NormalizedSeries
	Measures   *RiskMeasures
	Err        error
	MeasureErr error
}

// Plotted reports whether the symbol contributed a chart line.
func (r SymbolResult) Plotted() bool { return r.Err == nil && r.Normalized != nil }
