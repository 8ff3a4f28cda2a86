package model

import "time"

// OHLCV represents a single daily bar.
type OHLCV struct {
	Time     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   float64
}

// Point is one observation of a price series.
type Point struct {
	Time  time.Time
	Value float64
}

// PriceSeries holds one price field of one symbol, ordered by time ascending.
type PriceSeries struct {
	Symbol string
	Field  PriceField
	Points []Point
}

// Values returns the raw prices of the series.
func (s PriceSeries) Values() []float64 {
	vals := make([]float64, len(s.Points))
	for i, p := range s.Points {
		vals[i] = p.Value
	}
	return vals
}

// Len returns the number of observations.
func (s PriceSeries) Len() int { return len(s.Points) }

// NormalizedSeries is a PriceSeries rescaled so that its first value is 1.0.
type NormalizedSeries struct {
	Symbol string
	Field  PriceField
	Points []Point
}
