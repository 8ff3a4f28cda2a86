package collector

import (
	"context"
	"time"

	"FinCharts/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchBars returns daily bars with start <= Time < end+1 day, oldest first.
	FetchBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error)
	// Probe checks that the symbol has at least minimal recent history.
	Probe(ctx context.Context, symbol string) error
	Name() string
}

// inRange reports whether t falls on a day within [start, end].
func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end.AddDate(0, 0, 1))
}

// filterRange keeps bars within [start, end] in place.
func filterRange(bars []model.OHLCV, start, end time.Time) []model.OHLCV {
	out := bars[:0]
	for _, b := range bars {
		if inRange(b.Time, start, end) {
			out = append(out, b)
		}
	}
	return out
}
