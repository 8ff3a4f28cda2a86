package collector

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"FinCharts/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteFetcher reads daily bars from a local price database. It only issues
// SELECTs against a table of this shape:
//
//	CREATE TABLE prices (
//		symbol    TEXT NOT NULL,
//		date      TEXT NOT NULL, -- YYYY-MM-DD
//		open      REAL,
//		high      REAL,
//		low       REAL,
//		close     REAL,
//		adj_close REAL,
//		volume    REAL
//	)
type SQLiteFetcher struct {
	db *sql.DB
}

// NewSQLiteFetcher opens the database at dbPath.
func NewSQLiteFetcher(dbPath string) (*SQLiteFetcher, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &SQLiteFetcher{db: db}, nil
}

func (f *SQLiteFetcher) Name() string { return "sqlite" }

func (f *SQLiteFetcher) FetchBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	rows, err := f.db.QueryContext(ctx, `SELECT date, open, high, low, close, adj_close, volume
		FROM prices
		WHERE symbol = ? AND date >= ? AND date <= ?
		ORDER BY date`,
		symbol, start.Format(model.DateLayout), end.Format(model.DateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("query prices: %w", err)
	}
	defer rows.Close()

	var bars []model.OHLCV
	for rows.Next() {
		var (
			date              string
			o, h, l, c, ac, v sql.NullFloat64
		)
		if err := rows.Scan(&date, &o, &h, &l, &c, &ac, &v); err != nil {
			return nil, fmt.Errorf("scan price row: %w", err)
		}
		day, err := time.ParseInLocation(model.DateLayout, date, start.Location())
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", date, err)
		}
		bar := model.OHLCV{
			Time:     day,
			Open:     o.Float64,
			High:     h.Float64,
			Low:      l.Float64,
			Close:    c.Float64,
			AdjClose: ac.Float64,
			Volume:   v.Float64,
		}
		if !ac.Valid {
			bar.AdjClose = bar.Close
		}
		bars = append(bars, bar)
	}
	return bars, rows.Err()
}

func (f *SQLiteFetcher) Probe(ctx context.Context, symbol string) error {
	var n int
	if err := f.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM prices WHERE symbol = ?`, symbol).Scan(&n); err != nil {
		return fmt.Errorf("count prices: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("sqlite: no rows for %s", symbol)
	}
	return nil
}

func (f *SQLiteFetcher) Close() error {
	return f.db.Close()
}
