package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"FinCharts/internal/model"
)

func seriesOf(symbol string, prices ...float64) model.PriceSeries {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	points := make([]model.Point, len(prices))
	for i, p := range prices {
		points[i] = model.Point{Time: start.AddDate(0, 0, i), Value: p}
	}
	return model.PriceSeries{Symbol: symbol, Field: model.FieldClose, Points: points}
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-4 }

func TestReturns_WorkedExample(t *testing.T) {
	returns, err := Returns([]float64{100, 90, 80, 100, 120})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{-0.10, -0.1111, 0.25, 0.20}
	if len(returns) != len(want) {
		t.Fatalf("expected %d returns, got %d", len(want), len(returns))
	}
	for i := range want {
		if !almostEqual(returns[i], want[i]) {
			t.Errorf("return[%d]: expected %.4f, got %.4f", i, want[i], returns[i])
		}
	}
}

func TestDrawdowns_WorkedExample(t *testing.T) {
	returns, _ := Returns([]float64{100, 90, 80, 100, 120})
	dd := Drawdowns(returns)
	want := []float64{0, -0.1111, 0, 0}
	for i := range want {
		if !almostEqual(dd[i], want[i]) {
			t.Errorf("drawdown[%d]: expected %.4f, got %.4f", i, want[i], dd[i])
		}
	}
	if mdd := MaxDrawdown(returns); !almostEqual(mdd, -0.1111) {
		t.Errorf("expected max drawdown -0.1111, got %.4f", mdd)
	}
}

func TestComputeMeasures_ConstantSeries(t *testing.T) {
	for n := 2; n <= 6; n++ {
		prices := make([]float64, n)
		for i := range prices {
			prices[i] = 42
		}
		m, err := ComputeMeasures(seriesOf("FLAT", prices...))
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if m.SharpeDefined() {
			t.Errorf("n=%d: expected undefined Sharpe, got %v", n, m.SharpeRatio)
		}
		if m.MaxDrawdown != 0 {
			t.Errorf("n=%d: expected zero drawdown, got %v", n, m.MaxDrawdown)
		}
	}
}

func TestComputeMeasures_StrictlyIncreasing(t *testing.T) {
	m, err := ComputeMeasures(seriesOf("UP", 10, 11, 11.5, 13, 20, 20.1))
	if err != nil {
		t.Fatal(err)
	}
	if m.MaxDrawdown != 0 {
		t.Errorf("expected zero drawdown, got %v", m.MaxDrawdown)
	}
	if !m.SharpeDefined() || m.SharpeRatio <= 0 {
		t.Errorf("expected positive Sharpe, got %v", m.SharpeRatio)
	}
}

func TestComputeMeasures_InsufficientData(t *testing.T) {
	for _, s := range []model.PriceSeries{seriesOf("NONE"), seriesOf("ONE", 100)} {
		if _, err := ComputeMeasures(s); !errors.Is(err, model.ErrInsufficientData) {
			t.Errorf("%s: expected ErrInsufficientData, got %v", s.Symbol, err)
		}
	}
}

func TestSharpe_KnownValue(t *testing.T) {
	returns := []float64{0.01, -0.02, 0.03}
	// mean = 0.006667, sample std = 0.025166
	want := math.Sqrt(252) * 0.0066667 / 0.0251661
	if got := Sharpe(returns); math.Abs(got-want) > 1e-3 {
		t.Errorf("expected %.4f, got %.4f", want, got)
	}
}

func TestSharpe_SingleReturnUndefined(t *testing.T) {
	if got := Sharpe([]float64{0.05}); !math.IsNaN(got) {
		t.Errorf("expected NaN, got %v", got)
	}
}

func TestMaxDrawdown_Bounds(t *testing.T) {
	returns, _ := Returns([]float64{50, 100, 1, 0.5, 75})
	mdd := MaxDrawdown(returns)
	if mdd < -1 || mdd > 0 {
		t.Fatalf("drawdown out of [-1, 0]: %v", mdd)
	}
	if !almostEqual(mdd, -0.995) {
		t.Errorf("expected -0.995, got %.4f", mdd)
	}
}
