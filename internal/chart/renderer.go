package chart

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"FinCharts/internal/model"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

// Renderer draws the normalized-price chart and the measures panel as PNG files.
type Renderer struct {
	ChartWidth  vg.Length
	ChartHeight vg.Length
	PanelWidth  vg.Length
	PanelHeight vg.Length // minimum; grows with the number of text lines
	FontSize    vg.Length
}

// NewRenderer returns a Renderer with a 10x6in chart and a 10x3in panel.
func NewRenderer() *Renderer {
	return &Renderer{
		ChartWidth:  10 * vg.Inch,
		ChartHeight: 6 * vg.Inch,
		PanelWidth:  10 * vg.Inch,
		PanelHeight: 3 * vg.Inch,
		FontSize:    vg.Points(10),
	}
}

// ChartPath returns the chart file location for a request.
func ChartPath(dir string, req model.GenerationRequest) string {
	return filepath.Join(dir, "financial_chart_"+req.ArtifactKey()+".png")
}

// MeasuresPath returns the measures panel file location for a request.
func MeasuresPath(dir string, req model.GenerationRequest) string {
	return filepath.Join(dir, "measures_"+req.ArtifactKey()+".png")
}

// RenderChart overlays all series on one time axis with a legend and writes a PNG to path.
func (r *Renderer) RenderChart(series []model.NormalizedSeries, field model.PriceField, path string) error {
	if len(series) == 0 {
		return fmt.Errorf("render chart: no series")
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Normalized %s for Selected Stocks", field.Label())
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Normalized " + field.Label()
	p.X.Tick.Marker = plot.TimeTicks{Format: model.DateLayout}
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = true

	for i, s := range series {
		xys := make(plotter.XYs, len(s.Points))
		for j, pt := range s.Points {
			xys[j].X = float64(pt.Time.Unix())
			xys[j].Y = pt.Value
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("render chart: %s: %w", s.Symbol, err)
		}
		line.LineStyle.Color = plotutil.Color(i)
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.Symbol, line)
	}

	wt, err := p.WriterTo(r.ChartWidth, r.ChartHeight, "png")
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return writeAtomic(path, wt)
}

// RenderText draws a centered multi-line text block and writes a PNG to path.
func (r *Renderer) RenderText(body, path string) error {
	p := plot.New()
	p.HideAxes()

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: 0.5, Y: 0.5}},
		Labels: []string{body},
	})
	if err != nil {
		return fmt.Errorf("render text: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YCenter
		labels.TextStyle[i].Font.Size = r.FontSize
	}
	p.Add(labels)
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	lines := strings.Count(body, "\n") + 1
	height := vg.Length(lines)*r.FontSize*1.4 + vg.Inch
	if height < r.PanelHeight {
		height = r.PanelHeight
	}
	wt, err := p.WriterTo(r.PanelWidth, height, "png")
	if err != nil {
		return fmt.Errorf("render text: %w", err)
	}
	return writeAtomic(path, wt)
}

// writeAtomic writes to a temporary file in the target directory and renames
// it into place, so path is either absent, the previous image, or complete.
func writeAtomic(path string, wt io.WriterTo) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".fincharts-*.png")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := wt.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close image: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("move image into place: %w", err)
	}
	return nil
}
