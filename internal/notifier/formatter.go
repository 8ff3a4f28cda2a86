package notifier

import (
	"fmt"
	"html"
	"strings"

	"FinCharts/internal/model"
)

// FormatSharpe renders a Sharpe ratio with four decimals, or N/A when undefined.
func FormatSharpe(m model.RiskMeasures) string {
	if !m.SharpeDefined() {
		return "N/A"
	}
	return fmt.Sprintf("%.4f", m.SharpeRatio)
}

// FormatDrawdown renders a drawdown fraction as a percentage with four decimals.
func FormatDrawdown(d float64) string {
	return fmt.Sprintf("%.4f%%", d*100)
}

// FormatMeasuresReport renders the measures text block in request order.
// Symbols without figures get an inline error line.
func FormatMeasuresReport(results []model.SymbolResult) string {
	var b strings.Builder
	b.WriteString("Calculated Measures:\n\n")
	for _, r := range results {
		b.WriteString(r.Symbol)
		b.WriteString("\n")
		switch {
		case r.Err != nil:
			b.WriteString(fmt.Sprintf("Error calculating measures: %v\n\n", r.Err))
		case r.MeasureErr != nil:
			b.WriteString(fmt.Sprintf("Error calculating measures: %v\n\n", r.MeasureErr))
		case r.Measures != nil:
			b.WriteString(fmt.Sprintf("Sharpe Ratio: %s\nMDD: %s\n\n", FormatSharpe(*r.Measures), FormatDrawdown(r.Measures.MaxDrawdown)))
		default:
			b.WriteString("Error calculating measures: no result\n\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatTelegramReport wraps a status line and measures block for HTML parse mode.
func FormatTelegramReport(status, report string) string {
	var b strings.Builder
	b.WriteString("📊 <b>FinCharts</b>\n\n")
	b.WriteString(html.EscapeString(status))
	if report != "" {
		b.WriteString("\n\n<pre>")
		b.WriteString(html.EscapeString(report))
		b.WriteString("</pre>")
	}
	return b.String()
}
