package notifier

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"FinCharts/internal/model"
)

func TestFormatMeasuresReport(t *testing.T) {
	results := []model.SymbolResult{
		{Symbol: "AAPL", Measures: &model.RiskMeasures{Symbol: "AAPL", SharpeRatio: 1.23456, MaxDrawdown: -0.111111}},
		{Symbol: "FLAT", Measures: &model.RiskMeasures{Symbol: "FLAT", SharpeRatio: math.NaN(), MaxDrawdown: 0}},
		{Symbol: "GONE", Err: fmt.Errorf("%w for GONE", model.ErrNoData)},
		{Symbol: "ONE", MeasureErr: model.ErrInsufficientData},
	}
	got := FormatMeasuresReport(results)
	want := "Calculated Measures:\n\n" +
		"AAPL\nSharpe Ratio: 1.2346\nMDD: -11.1111%\n\n" +
		"FLAT\nSharpe Ratio: N/A\nMDD: 0.0000%\n\n" +
		"GONE\nError calculating measures: no data found for GONE\n\n" +
		"ONE\nError calculating measures: insufficient data: at least two observations required"
	if got != want {
		t.Errorf("unexpected report:\n%s\n--- want ---\n%s", got, want)
	}
}

func TestFormatSharpe_Infinite(t *testing.T) {
	if got := FormatSharpe(model.RiskMeasures{SharpeRatio: math.Inf(1)}); got != "N/A" {
		t.Errorf("expected N/A, got %s", got)
	}
}

func TestFormatTelegramReport_Escapes(t *testing.T) {
	msg := FormatTelegramReport("Error: <bad>", "A & B")
	if strings.Contains(msg, "<bad>") || !strings.Contains(msg, "&lt;bad&gt;") {
		t.Errorf("status not escaped: %s", msg)
	}
	if !strings.Contains(msg, "<pre>A &amp; B</pre>") {
		t.Errorf("report not wrapped/escaped: %s", msg)
	}
	if strings.Contains(FormatTelegramReport("ok", ""), "<pre>") {
		t.Error("expected no pre block for empty report")
	}
}
