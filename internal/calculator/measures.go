package calculator

import (
	"math"

	"FinCharts/internal/model"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the annualization basis for daily returns.
const TradingDaysPerYear = 252

// Returns computes period-over-period fractional changes: r[i] = p[i+1]/p[i] - 1.
func Returns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, model.ErrInsufficientData
	}
	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns[i-1] = prices[i]/prices[i-1] - 1
	}
	return returns, nil
}

// Sharpe returns the annualized Sharpe ratio of daily returns using the sample
// standard deviation. NaN when the deviation is zero or undefined.
func Sharpe(returns []float64) float64 {
	if len(returns) < 2 {
		return math.NaN()
	}
	mean, std := stat.MeanStdDev(returns, nil)
	if std == 0 || math.IsNaN(std) {
		return math.NaN()
	}
	return math.Sqrt(TradingDaysPerYear) * mean / std
}

// Drawdowns returns the drawdown of cumulative growth from its running peak
// at every step. The cumulative value starts at the first return, so a $1
// position is taken at the second observation.
func Drawdowns(returns []float64) []float64 {
	drawdowns := make([]float64, len(returns))
	cumulative := 1.0
	peak := math.Inf(-1)
	for i, r := range returns {
		cumulative *= 1 + r
		if cumulative > peak {
			peak = cumulative
		}
		drawdowns[i] = (cumulative - peak) / peak
	}
	return drawdowns
}

// MaxDrawdown returns the most negative drawdown, or 0 if the series never declines.
func MaxDrawdown(returns []float64) float64 {
	worst := 0.0
	for _, d := range Drawdowns(returns) {
		if d < worst {
			worst = d
		}
	}
	return worst
}

// ComputeMeasures derives Sharpe ratio and maximum drawdown from raw prices.
func ComputeMeasures(series model.PriceSeries) (model.RiskMeasures, error) {
	returns, err := Returns(series.Values())
	if err != nil {
		return model.RiskMeasures{}, err
	}
	return model.RiskMeasures{
		Symbol:      series.Symbol,
		SharpeRatio: Sharpe(returns),
		MaxDrawdown: MaxDrawdown(returns),
	}, nil
}
