package collector

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"FinCharts/internal/model"
)

// CSVFetcher reads {Dir}/{SYMBOL}.csv files in the Yahoo download layout:
//
//	Date,Open,High,Low,Close,Adj Close,Volume
//
// Columns are matched by header name; "Adj Close" is optional and falls back to Close.
type CSVFetcher struct {
	Dir string
}

func NewCSVFetcher(dir string) *CSVFetcher { return &CSVFetcher{Dir: dir} }

func (f *CSVFetcher) Name() string { return "csv" }

func (f *CSVFetcher) path(symbol string) string {
	return filepath.Join(f.Dir, symbol+".csv")
}

func (f *CSVFetcher) FetchBars(_ context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	bars, err := f.readAll(symbol, start.Location())
	if err != nil {
		return nil, err
	}
	return filterRange(bars, start, end), nil
}

// Probe succeeds when the symbol's file exists and holds at least one bar.
func (f *CSVFetcher) Probe(_ context.Context, symbol string) error {
	bars, err := f.readAll(symbol, time.UTC)
	if err != nil {
		return err
	}
	if len(bars) == 0 {
		return fmt.Errorf("csv: %s has no rows", f.path(symbol))
	}
	return nil
}

func (f *CSVFetcher) readAll(symbol string, loc *time.Location) ([]model.OHLCV, error) {
	records, err := readCsvFile(f.path(symbol))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"date", "open", "high", "low", "close"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("csv: %s: missing column %q", f.path(symbol), required)
		}
	}

	bars := make([]model.OHLCV, 0, len(records)-1)
	for n, line := range records[1:] {
		if cols["date"] >= len(line) {
			return nil, fmt.Errorf("csv: %s line %d: short row", f.path(symbol), n+2)
		}
		day, err := time.ParseInLocation(model.DateLayout, line[cols["date"]], loc)
		if err != nil {
			return nil, fmt.Errorf("csv: %s line %d: %w", f.path(symbol), n+2, err)
		}
		bar := model.OHLCV{Time: day}
		fields := []struct {
			name string
			dst  *float64
		}{
			{"open", &bar.Open}, {"high", &bar.High}, {"low", &bar.Low}, {"close", &bar.Close},
			{"adj close", &bar.AdjClose}, {"volume", &bar.Volume},
		}
		for _, fd := range fields {
			i, ok := cols[fd.name]
			if !ok || i >= len(line) || line[i] == "" || line[i] == "null" {
				continue
			}
			v, err := strconv.ParseFloat(line[i], 64)
			if err != nil {
				return nil, fmt.Errorf("csv: %s line %d column %s: %w", f.path(symbol), n+2, fd.name, err)
			}
			*fd.dst = v
		}
		if bar.AdjClose == 0 {
			bar.AdjClose = bar.Close
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func readCsvFile(filePath string) ([][]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	csvReader := csv.NewReader(f)
	csvReader.FieldsPerRecord = -1
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, err
	}

	return records, nil
}
