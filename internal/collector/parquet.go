package collector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"FinCharts/internal/model"

	"github.com/parquet-go/parquet-go"
)

// ParquetBar is the on-disk row layout of {SYMBOL}.parquet files, shared with
// the crawler packet format (t in Unix milliseconds).
type ParquetBar struct {
	Timestamp    int64   `parquet:"t"`
	Open         float64 `parquet:"o"`
	High         float64 `parquet:"h"`
	Low          float64 `parquet:"l"`
	Close        float64 `parquet:"c"`
	Volume       int64   `parquet:"v"`
	VWAP         float64 `parquet:"vw,optional"`
	Transactions int64   `parquet:"n,optional"`
}

// ParquetFetcher reads daily bars from {Dir}/{SYMBOL}.parquet.
// The files carry no adjusted close, so AdjClose mirrors Close.
type ParquetFetcher struct {
	Dir string
}

func NewParquetFetcher(dir string) *ParquetFetcher { return &ParquetFetcher{Dir: dir} }

func (f *ParquetFetcher) Name() string { return "parquet" }

func (f *ParquetFetcher) path(symbol string) string {
	return filepath.Join(f.Dir, symbol+".parquet")
}

func (f *ParquetFetcher) FetchBars(_ context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	bars, err := f.readAll(symbol)
	if err != nil {
		return nil, err
	}
	return filterRange(bars, start, end), nil
}

func (f *ParquetFetcher) Probe(_ context.Context, symbol string) error {
	bars, err := f.readAll(symbol)
	if err != nil {
		return err
	}
	if len(bars) == 0 {
		return fmt.Errorf("parquet: %s has no rows", f.path(symbol))
	}
	return nil
}

func (f *ParquetFetcher) readAll(symbol string) ([]model.OHLCV, error) {
	path := f.path(symbol)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	rows, err := parquet.ReadFile[ParquetBar](path)
	if err != nil {
		return nil, fmt.Errorf("parquet: read %s: %w", path, err)
	}
	bars := make([]model.OHLCV, len(rows))
	for i, r := range rows {
		bars[i] = model.OHLCV{
			Time:     time.UnixMilli(r.Timestamp),
			Open:     r.Open,
			High:     r.High,
			Low:      r.Low,
			Close:    r.Close,
			AdjClose: r.Close,
			Volume:   float64(r.Volume),
		}
	}
	return bars, nil
}
