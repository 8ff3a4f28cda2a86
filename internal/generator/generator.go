package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"FinCharts/internal/calculator"
	"FinCharts/internal/chart"
	"FinCharts/internal/model"
	"FinCharts/internal/notifier"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SeriesSource provides single-field price series per symbol.
type SeriesSource interface {
	Collect(ctx context.Context, symbol string, start, end time.Time, field model.PriceField) (model.PriceSeries, error)
	Probe(ctx context.Context, symbol string) error
}

// Renderer produces the two output images.
type Renderer interface {
	RenderChart(series []model.NormalizedSeries, field model.PriceField, path string) error
	RenderText(body, path string) error
}

// Viewer displays a produced image.
type Viewer interface {
	Open(path string) error
}

// Result is the outcome of a successful generation run.
type Result struct {
	Message      string
	ChartPath    string
	MeasuresPath string
	Report       string
	Symbols      []model.SymbolResult
}

// Generator drives fetching, normalization, measures, rendering and display for one request.
type Generator struct {
	Source    SeriesSource
	Renderer  Renderer
	Viewer    Viewer
	OutputDir string
	Logger    *zap.Logger
}

// New creates a Generator. A nil viewer disables image display.
func New(source SeriesSource, renderer Renderer, viewer Viewer, outputDir string, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if outputDir == "" {
		outputDir = "."
	}
	return &Generator{Source: source, Renderer: renderer, Viewer: viewer, OutputDir: outputDir, Logger: logger}
}

// Generate processes each symbol in request order. Per-symbol failures are
// recorded in the result and reported inline; only a batch with no usable
// symbol fails, with model.ErrNoValidData, before any file is written.
func (g *Generator) Generate(ctx context.Context, req model.GenerationRequest) (*Result, error) {
	logger := g.Logger.With(zap.String("run_id", uuid.NewString()))
	logger.Info("generation started",
		zap.Strings("symbols", req.Symbols()),
		zap.String("start", req.Start().Format(model.DateLayout)),
		zap.String("end", req.End().Format(model.DateLayout)),
		zap.String("field", req.Field().Label()))

	results := make([]model.SymbolResult, 0, len(req.Symbols()))
	var plotted []model.NormalizedSeries
	for _, symbol := range req.Symbols() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := g.processSymbol(ctx, logger, req, symbol)
		if res.Plotted() {
			plotted = append(plotted, *res.Normalized)
		}
		results = append(results, res)
	}

	if len(plotted) == 0 {
		logger.Warn("no symbol produced data", zap.String("reasons", joinFailedReasons(results)))
		return nil, fmt.Errorf("%w (%s)", model.ErrNoValidData, joinFailedReasons(results))
	}

	report := notifier.FormatMeasuresReport(results)
	chartPath := chart.ChartPath(g.OutputDir, req)
	measuresPath := chart.MeasuresPath(g.OutputDir, req)

	if err := g.Renderer.RenderChart(plotted, req.Field(), chartPath); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	logger.Info("chart written", zap.String("path", chartPath), zap.Int("series", len(plotted)))
	if err := g.Renderer.RenderText(report, measuresPath); err != nil {
		return nil, fmt.Errorf("render measures: %w", err)
	}
	logger.Info("measures written", zap.String("path", measuresPath))

	g.display(logger, chartPath)
	g.display(logger, measuresPath)

	return &Result{
		Message:      fmt.Sprintf("Chart for selected stocks successfully created as '%s'.", chartPath),
		ChartPath:    chartPath,
		MeasuresPath: measuresPath,
		Report:       report,
		Symbols:      results,
	}, nil
}

func (g *Generator) processSymbol(ctx context.Context, logger *zap.Logger, req model.GenerationRequest, symbol string) model.SymbolResult {
	logger = logger.With(zap.String("symbol", symbol))
	res := model.SymbolResult{Symbol: symbol}

	series, err := g.Source.Collect(ctx, symbol, req.Start(), req.End(), req.Field())
	if err != nil {
		logger.Warn("skipping symbol", zap.Error(err))
		res.Err = err
		return res
	}
	res.Series = &series

	norm, err := calculator.Normalize(series)
	if err != nil {
		logger.Warn("skipping symbol", zap.Error(err))
		res.Err = fmt.Errorf("%s: %w", symbol, err)
		return res
	}
	res.Normalized = &norm

	measures, err := calculator.ComputeMeasures(series)
	if err != nil {
		logger.Warn("measures unavailable", zap.Error(err))
		res.MeasureErr = err
		return res
	}
	res.Measures = &measures
	logger.Debug("measures computed",
		zap.Int("observations", series.Len()),
		zap.Float64("sharpe", measures.SharpeRatio),
		zap.Float64("max_drawdown", measures.MaxDrawdown))
	return res
}

// display opens path in the viewer. Failures are logged and never returned.
func (g *Generator) display(logger *zap.Logger, path string) {
	if g.Viewer == nil {
		return
	}
	if err := g.Viewer.Open(path); err != nil {
		logger.Warn("could not open image viewer", zap.String("path", path), zap.Error(err))
	}
}

// ValidateSymbols probes each symbol and drops those without recent history.
// It fails with model.ErrNoValidSymbols when none remain.
func (g *Generator) ValidateSymbols(ctx context.Context, symbols []string) ([]string, error) {
	valid := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if err := g.Source.Probe(ctx, s); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			g.Logger.Warn("invalid stock symbol or no data found", zap.String("symbol", s), zap.Error(err))
			continue
		}
		valid = append(valid, s)
	}
	if len(valid) == 0 {
		return nil, model.ErrNoValidSymbols
	}
	return valid, nil
}

// Submit runs the full form flow: parse input, validate symbols, generate.
func (g *Generator) Submit(ctx context.Context, in model.FormInput, now time.Time) (*Result, error) {
	req, err := model.RequestFromForm(in, now)
	if err != nil {
		return nil, err
	}
	valid, err := g.ValidateSymbols(ctx, req.Symbols())
	if err != nil {
		return nil, err
	}
	req, err = req.WithSymbols(valid)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, req)
}

// StatusMessage renders the one-line outcome shown to the user.
func StatusMessage(res *Result, err error) string {
	switch {
	case err == nil && res != nil:
		return res.Message
	case errors.Is(err, model.ErrInvalidMonths):
		return "Invalid input. Please enter a valid number of past months."
	case errors.Is(err, model.ErrInvalidSymbols):
		return "Invalid input. Please enter a valid list of stock symbols."
	case errors.Is(err, model.ErrInvalidInput):
		return "Invalid input. " + strings.TrimPrefix(err.Error(), model.ErrInvalidInput.Error()+": ")
	case errors.Is(err, model.ErrNoValidSymbols):
		return "No valid stock symbols found."
	case err != nil:
		return "Error: " + err.Error()
	default:
		return ""
	}
}

func joinFailedReasons(results []model.SymbolResult) string {
	var b strings.Builder
	n := 0
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		if n > 0 {
			b.WriteString("; ")
		}
		if n >= 5 {
			b.WriteString(fmt.Sprintf("+%d more", countFailed(results)-5))
			break
		}
		b.WriteString(r.Err.Error())
		n++
	}
	return b.String()
}

func countFailed(results []model.SymbolResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
