package collector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"FinCharts/internal/model"

	"go.uber.org/zap"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars      map[string][]model.OHLCV
	Errors    map[string]error
	ProbeErrs map[string]error
	Calls     []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	m.Calls = append(m.Calls, symbol)
	if err := m.Errors[symbol]; err != nil {
		return nil, err
	}
	bars := append([]model.OHLCV(nil), m.Bars[symbol]...)
	return filterRange(bars, start, end), nil
}

func (m *MockFetcher) Probe(_ context.Context, symbol string) error {
	if err := m.ProbeErrs[symbol]; err != nil {
		return err
	}
	if len(m.Bars[symbol]) == 0 && m.Errors[symbol] == nil {
		return fmt.Errorf("mock: no bars for %s", symbol)
	}
	return nil
}

// MockBars builds one bar per day starting at start, with every price field set to the given close.
func MockBars(start time.Time, closes ...float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:     start.AddDate(0, 0, i),
			Open:     c * 0.999,
			High:     c * 1.005,
			Low:      c * 0.995,
			Close:    c,
			AdjClose: c,
			Volume:   1000000,
		}
	}
	return bars
}

// Collector turns raw bars from a Fetcher into single-field price series.
type Collector struct {
	Fetcher Fetcher
	Logger  *zap.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{Fetcher: fetcher, Logger: logger}
}

// Collect fetches bars for symbol over [start, end] and extracts the given field.
// Fetch failures wrap model.ErrDataFetch; an empty result wraps model.ErrNoData.
func (c *Collector) Collect(ctx context.Context, symbol string, start, end time.Time, field model.PriceField) (model.PriceSeries, error) {
	bars, err := c.Fetcher.FetchBars(ctx, symbol, start, end)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("%w for %s: %v", model.ErrDataFetch, symbol, err)
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	series := model.PriceSeries{Symbol: symbol, Field: field, Points: make([]model.Point, 0, len(bars))}
	skipped := 0
	for _, b := range bars {
		v := field.Value(b)
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			skipped++
			continue
		}
		series.Points = append(series.Points, model.Point{Time: b.Time, Value: v})
	}
	if skipped > 0 {
		c.Logger.Debug("skipped bars without a usable price",
			zap.String("symbol", symbol), zap.String("field", field.Label()), zap.Int("count", skipped))
	}
	if len(series.Points) == 0 {
		return model.PriceSeries{}, fmt.Errorf("%w for %s", model.ErrNoData, symbol)
	}
	return series, nil
}

// Probe checks a symbol via the underlying fetcher.
func (c *Collector) Probe(ctx context.Context, symbol string) error {
	if err := c.Fetcher.Probe(ctx, symbol); err != nil {
		return fmt.Errorf("%w: %s: %v", model.ErrSymbolValidation, symbol, err)
	}
	return nil
}

// Name returns the data source name.
func (c *Collector) Name() string { return c.Fetcher.Name() }
