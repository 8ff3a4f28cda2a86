package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrSymbolValidation = errors.New("symbol has no recent history")
	ErrDataFetch        = errors.New("data fetch failed")
	ErrNoData           = errors.New("no data found")
	ErrInsufficientData = errors.New("insufficient data: at least two observations required")
	ErrData             = errors.New("cannot normalize empty or zero-based series")
	ErrNoValidData      = errors.New("no valid data available for the provided stock symbols")
	ErrNoValidSymbols   = errors.New("no valid stock symbols found")
	ErrViewerLaunch     = errors.New("image viewer launch failed")
)

var (
	ErrInvalidMonths  = fmt.Errorf("%w: number of past months must be a positive integer", ErrInvalidInput)
	ErrInvalidSymbols = fmt.Errorf("%w: symbol list must be non-empty with no blank entries", ErrInvalidInput)
)
