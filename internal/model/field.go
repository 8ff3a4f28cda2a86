package model

import (
	"fmt"
	"strings"
)

// PriceField selects which bar price a series is built from.
type PriceField string

const (
	FieldOpen     PriceField = "Open"
	FieldHigh     PriceField = "High"
	FieldLow      PriceField = "Low"
	FieldClose    PriceField = "Close"
	FieldAdjClose PriceField = "Adj Close"
)

// DefaultField is used when no field is chosen.
const DefaultField = FieldAdjClose

// PriceFields lists the selectable fields in display order.
var PriceFields = []PriceField{FieldOpen, FieldHigh, FieldLow, FieldClose, FieldAdjClose}

// ParsePriceField accepts display labels and common spellings, case-insensitively.
// An empty string yields DefaultField.
func ParsePriceField(s string) (PriceField, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	switch key {
	case "":
		return DefaultField, nil
	case "open":
		return FieldOpen, nil
	case "high":
		return FieldHigh, nil
	case "low":
		return FieldLow, nil
	case "close":
		return FieldClose, nil
	case "adjclose", "adjustedclose":
		return FieldAdjClose, nil
	default:
		return "", fmt.Errorf("%w: unknown price field %q", ErrInvalidInput, s)
	}
}

// Valid reports whether f is one of PriceFields.
func (f PriceField) Valid() bool {
	for _, pf := range PriceFields {
		if f == pf {
			return true
		}
	}
	return false
}

// Label returns the human-readable name used in chart titles.
func (f PriceField) Label() string { return string(f) }

// Value extracts the field from a bar.
func (f PriceField) Value(b OHLCV) float64 {
	switch f {
	case FieldOpen:
		return b.Open
	case FieldHigh:
		return b.High
	case FieldLow:
		return b.Low
	case FieldClose:
		return b.Close
	default:
		return b.AdjClose
	}
}
