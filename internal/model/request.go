package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the date format used in artifact names and file-backed sources.
const DateLayout = "2006-01-02"

// GenerationRequest is the validated input of one generation run. Immutable once built.
type GenerationRequest struct {
	symbols []string
	start   time.Time
	end     time.Time
	field   PriceField
}

// NewGenerationRequest validates and builds a request. Symbols are trimmed,
// upper-cased and de-duplicated keeping the first occurrence.
func NewGenerationRequest(symbols []string, start, end time.Time, field PriceField) (GenerationRequest, error) {
	if len(symbols) == 0 {
		return GenerationRequest{}, ErrInvalidSymbols
	}
	seen := make(map[string]bool, len(symbols))
	clean := make([]string, 0, len(symbols))
	for _, s := range symbols {
		sym := strings.ToUpper(strings.TrimSpace(s))
		if sym == "" {
			return GenerationRequest{}, ErrInvalidSymbols
		}
		if seen[sym] {
			continue
		}
		seen[sym] = true
		clean = append(clean, sym)
	}
	if end.Before(start) {
		return GenerationRequest{}, fmt.Errorf("%w: end date %s is before start date %s",
			ErrInvalidInput, end.Format(DateLayout), start.Format(DateLayout))
	}
	if !field.Valid() {
		return GenerationRequest{}, fmt.Errorf("%w: unknown price field %q", ErrInvalidInput, string(field))
	}
	return GenerationRequest{symbols: clean, start: start, end: end, field: field}, nil
}

// FormInput is the raw text a user typed into the generation form.
type FormInput struct {
	Months  string
	Symbols string // comma-separated
	Field   string
}

// RequestFromForm converts raw form text into a request anchored at now:
// end is now truncated to the day, start is end minus the given months.
func RequestFromForm(in FormInput, now time.Time) (GenerationRequest, error) {
	months, err := strconv.Atoi(strings.TrimSpace(in.Months))
	if err != nil || months <= 0 {
		return GenerationRequest{}, ErrInvalidMonths
	}
	if strings.TrimSpace(in.Symbols) == "" {
		return GenerationRequest{}, ErrInvalidSymbols
	}
	field, err := ParsePriceField(in.Field)
	if err != nil {
		return GenerationRequest{}, err
	}
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := end.AddDate(0, -months, 0)
	return NewGenerationRequest(strings.Split(in.Symbols, ","), start, end, field)
}

// WithSymbols returns a copy of r restricted to the given symbols.
func (r GenerationRequest) WithSymbols(symbols []string) (GenerationRequest, error) {
	return NewGenerationRequest(symbols, r.start, r.end, r.field)
}

// Symbols returns a copy of the requested symbols in request order.
func (r GenerationRequest) Symbols() []string {
	out := make([]string, len(r.symbols))
	copy(out, r.symbols)
	return out
}

// Start is the first day of the requested range.
func (r GenerationRequest) Start() time.Time { return r.start }

// End is the last day of the requested range, inclusive.
func (r GenerationRequest) End() time.Time { return r.end }

// Field is the price field charted and measured.
func (r GenerationRequest) Field() PriceField { return r.field }

// maxSymbolKeyLen bounds the symbol part of an artifact key so that
// "financial_chart_<key>.png" stays under the 255-byte file name limit.
const maxSymbolKeyLen = 160

// ArtifactKey is the deterministic name fragment shared by a request's output
// files, e.g. "AAPL-MSFT_2024-01-02_2024-04-02". Symbols outside
// [A-Z0-9.] or a symbol list longer than maxSymbolKeyLen get a truncated
// readable part followed by a hash of the full list, so distinct symbol
// lists never share a file.
func (r GenerationRequest) ArtifactKey() string {
	parts := make([]string, len(r.symbols))
	exact := true
	for i, s := range r.symbols {
		parts[i] = sanitizeSymbol(s)
		exact = exact && plainSymbol(s)
	}
	key := strings.Join(parts, "-")
	if !exact || len(key) > maxSymbolKeyLen {
		if len(key) > maxSymbolKeyLen {
			key = key[:maxSymbolKeyLen]
		}
		key += "_" + symbolsHash(r.symbols)
	}
	return fmt.Sprintf("%s_%s_%s", key, r.start.Format(DateLayout), r.end.Format(DateLayout))
}

// symbolsHash returns 16 hex characters of the SHA-256 of the ordered symbol list.
func symbolsHash(symbols []string) string {
	sum := sha256.Sum256([]byte(strings.Join(symbols, "\n")))
	return hex.EncodeToString(sum[:8])
}

// plainSymbol reports whether s is made only of A-Z, 0-9 and '.'.
func plainSymbol(s string) bool {
	for _, r := range s {
		if !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '.') {
			return false
		}
	}
	return true
}

func sanitizeSymbol(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return '_'
		}
	}, s)
}
