package collector

import (
	"context"
	"fmt"
	"time"

	"FinCharts/internal/model"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// barsGetter is the subset of *marketdata.Client used here.
type barsGetter interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// AlpacaFetcher implements Fetcher using the Alpaca market data API.
// Raw bars provide OHLC; an all-adjusted request provides AdjClose.
type AlpacaFetcher struct {
	Client barsGetter
	now    func() time.Time
}

// NewAlpacaFetcher creates a fetcher authenticated with the given key pair.
// An empty baseURL uses the client's default endpoint.
func NewAlpacaFetcher(apiKey, apiSecret, baseURL string) *AlpacaFetcher {
	return &AlpacaFetcher{
		Client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
			BaseURL:   baseURL,
		}),
		now: time.Now,
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

func (f *AlpacaFetcher) getBars(symbol string, start, end time.Time, adj marketdata.Adjustment) ([]marketdata.Bar, error) {
	return f.Client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: adj,
		Start:      start,
		End:        end,
	})
}

func (f *AlpacaFetcher) FetchBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rangeEnd := end.AddDate(0, 0, 1)
	raw, err := f.getBars(symbol, start, rangeEnd, marketdata.Raw)
	if err != nil {
		return nil, fmt.Errorf("alpaca raw bars: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	adjusted, err := f.getBars(symbol, start, rangeEnd, marketdata.All)
	if err != nil {
		return nil, fmt.Errorf("alpaca adjusted bars: %w", err)
	}
	adjClose := make(map[int64]float64, len(adjusted))
	for _, b := range adjusted {
		adjClose[b.Timestamp.Unix()] = b.Close
	}

	bars := make([]model.OHLCV, len(raw))
	for i, b := range raw {
		ac, ok := adjClose[b.Timestamp.Unix()]
		if !ok {
			ac = b.Close
		}
		bars[i] = model.OHLCV{
			Time:     b.Timestamp,
			Open:     b.Open,
			High:     b.High,
			Low:      b.Low,
			Close:    b.Close,
			AdjClose: ac,
			Volume:   float64(b.Volume),
		}
	}
	return filterRange(bars, start, end), nil
}

// Probe looks for any bar in the last ten calendar days.
func (f *AlpacaFetcher) Probe(ctx context.Context, symbol string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := f.now()
	bars, err := f.getBars(symbol, now.AddDate(0, 0, -10), now, marketdata.Raw)
	if err != nil {
		return fmt.Errorf("alpaca probe: %w", err)
	}
	if len(bars) == 0 {
		return fmt.Errorf("alpaca: no recent bars for %s", symbol)
	}
	return nil
}
