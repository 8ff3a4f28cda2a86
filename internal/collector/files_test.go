package collector

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
)

func TestCSVFetcher(t *testing.T) {
	dir := t.TempDir()
	content := "Date,Open,High,Low,Close,Adj Close,Volume\n" +
		"2024-01-02,10,11,9,10.5,10.4,1000\n" +
		"2024-01-03,10.5,12,10,11.5,,2000\n" +
		"2024-02-01,20,21,19,20.5,20.4,3000\n"
	if err := os.WriteFile(filepath.Join(dir, "AAPL.csv"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	f := NewCSVFetcher(dir)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars, err := f.FetchBars(context.Background(), "AAPL", start, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars in January, got %d", len(bars))
	}
	if bars[0].AdjClose != 10.4 || bars[1].AdjClose != 11.5 {
		t.Errorf("unexpected adj closes: %v, %v", bars[0].AdjClose, bars[1].AdjClose)
	}

	missing, err := f.FetchBars(context.Background(), "MSFT", start, start.AddDate(0, 1, 0))
	if err != nil || len(missing) != 0 {
		t.Errorf("expected no bars and no error for missing file, got %v, %v", missing, err)
	}
	if err := f.Probe(context.Background(), "AAPL"); err != nil {
		t.Errorf("expected probe success, got %v", err)
	}
	if err := f.Probe(context.Background(), "MSFT"); err == nil {
		t.Error("expected probe failure for missing file")
	}
}

func TestCSVFetcher_MissingColumn(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "BAD.csv"), []byte("Date,Close\n2024-01-02,1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := NewCSVFetcher(dir).FetchBars(context.Background(), "BAD", time.Time{}, time.Now())
	if err == nil {
		t.Fatal("expected error for missing columns")
	}
}

func TestParquetFetcher(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	rows := []ParquetBar{
		{Timestamp: day.UnixMilli(), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
		{Timestamp: day.AddDate(0, 0, 1).UnixMilli(), Open: 1.5, High: 2.5, Low: 1, Close: 2, Volume: 20},
		{Timestamp: day.AddDate(0, 2, 0).UnixMilli(), Open: 3, High: 3, Low: 3, Close: 3, Volume: 30},
	}
	if err := parquet.WriteFile(filepath.Join(dir, "MSFT.parquet"), rows); err != nil {
		t.Fatal(err)
	}
	f := NewParquetFetcher(dir)
	bars, err := f.FetchBars(context.Background(), "MSFT", day, day.AddDate(0, 0, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[1].Close != 2 || bars[1].AdjClose != 2 || bars[1].Volume != 20 {
		t.Errorf("unexpected bar: %+v", bars[1])
	}
	if err := f.Probe(context.Background(), "MSFT"); err != nil {
		t.Errorf("expected probe success, got %v", err)
	}
	if err := f.Probe(context.Background(), "NONE"); err == nil {
		t.Error("expected probe failure for missing file")
	}
}

func TestSQLiteFetcher(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "prices.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	stmts := []string{
		`CREATE TABLE prices (symbol TEXT NOT NULL, date TEXT NOT NULL, open REAL, high REAL, low REAL, close REAL, adj_close REAL, volume REAL)`,
		`INSERT INTO prices VALUES ('GOOGL', '2024-01-03', 2, 2, 2, 2, NULL, 10)`,
		`INSERT INTO prices VALUES ('GOOGL', '2024-01-02', 1, 1, 1, 1, 0.9, 10)`,
		`INSERT INTO prices VALUES ('GOOGL', '2024-03-01', 5, 5, 5, 5, 5, 10)`,
		`INSERT INTO prices VALUES ('AAPL', '2024-01-02', 7, 7, 7, 7, 7, 10)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatal(err)
		}
	}
	db.Close()

	f, err := NewSQLiteFetcher(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars, err := f.FetchBars(context.Background(), "GOOGL", start, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[0].AdjClose != 0.9 || bars[1].AdjClose != 2 {
		t.Errorf("unexpected adj closes: %+v", bars)
	}
	if err := f.Probe(context.Background(), "AAPL"); err != nil {
		t.Errorf("expected probe success, got %v", err)
	}
	if err := f.Probe(context.Background(), "TSLA"); err == nil {
		t.Error("expected probe failure for unknown symbol")
	}
}
