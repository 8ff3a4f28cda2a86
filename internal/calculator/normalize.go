package calculator

import "FinCharts/internal/model"

// Normalize rescales a series so its first value is exactly 1.0.
// The input series is not modified.
func Normalize(series model.PriceSeries) (model.NormalizedSeries, error) {
	if len(series.Points) == 0 || series.Points[0].Value == 0 {
		return model.NormalizedSeries{}, model.ErrData
	}
	base := series.Points[0].Value
	points := make([]model.Point, len(series.Points))
	for i, p := range series.Points {
		points[i] = model.Point{Time: p.Time, Value: p.Value / base}
	}
	points[0].Value = 1.0
	return model.NormalizedSeries{Symbol: series.Symbol, Field: series.Field, Points: points}, nil
}
