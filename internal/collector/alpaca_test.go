package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

type stubBars struct {
	raw, adjusted []marketdata.Bar
	err           error
	requests      []marketdata.GetBarsRequest
}

func (s *stubBars) GetBars(_ string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	if req.Adjustment == marketdata.All {
		return s.adjusted, nil
	}
	return s.raw, nil
}

func TestAlpacaFetcher_MergesAdjustedClose(t *testing.T) {
	d1 := time.Date(2024, 1, 2, 5, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	stub := &stubBars{
		raw: []marketdata.Bar{
			{Timestamp: d1, Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 100},
			{Timestamp: d2, Open: 10.5, High: 12, Low: 10, Close: 11, Volume: 200},
		},
		adjusted: []marketdata.Bar{{Timestamp: d1, Close: 5.25}},
	}
	f := &AlpacaFetcher{Client: stub, now: time.Now}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars, err := f.FetchBars(context.Background(), "AAPL", start, start.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[0].AdjClose != 5.25 || bars[1].AdjClose != 11 {
		t.Errorf("unexpected adj closes: %v, %v", bars[0].AdjClose, bars[1].AdjClose)
	}
	if len(stub.requests) != 2 || stub.requests[0].TimeFrame != marketdata.OneDay {
		t.Errorf("unexpected requests: %+v", stub.requests)
	}
}

func TestAlpacaFetcher_ProbeAndErrors(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	stub := &stubBars{}
	f := &AlpacaFetcher{Client: stub, now: func() time.Time { return now }}
	if err := f.Probe(context.Background(), "AAPL"); err == nil {
		t.Error("expected probe failure with no bars")
	}
	if got := stub.requests[0].Start; !got.Equal(now.AddDate(0, 0, -10)) {
		t.Errorf("unexpected probe start: %v", got)
	}

	stub.err = errors.New("forbidden")
	if _, err := f.FetchBars(context.Background(), "AAPL", now.AddDate(0, -1, 0), now); err == nil {
		t.Error("expected fetch error to propagate")
	}
}
