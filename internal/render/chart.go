// Package render draws PNG temperature charts from weather records.
package render

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/couchcryptid/city-weather-charts/internal/domain"
)

const (
	marginLeft   = 70.0
	marginRight  = 30.0
	marginTop    = 50.0
	marginBottom = 80.0

	yAxisLabel       = "Temperature (°C)"
	forecastXLabel   = "Dates"
	snapshotXLabel   = "Cities"
	tickCount        = 6
	forecastTimeTick = "Jan 02 15:04"
)

// Renderer draws forecast line charts and snapshot bar charts. It is a pure
// sink: it reads its input and writes one PNG per call.
type Renderer struct {
	style  Style
	logger *slog.Logger
}

// NewRenderer creates a chart renderer with the given style.
func NewRenderer(style Style, logger *slog.Logger) *Renderer {
	return &Renderer{style: style, logger: logger}
}

// RenderForecasts plots each city's temperature series on shared axes, one
// labeled line per city. Cities with empty forecasts are skipped with a
// notice; with nothing left to plot the call is a logged no-op.
func (r *Renderer) RenderForecasts(forecasts []domain.Forecast, path string) error {
	series := make([]domain.Forecast, 0, len(forecasts))
	for _, f := range forecasts {
		if f.Empty() {
			r.logger.Info("no forecast data to plot, skipping city", "city", f.City)
			continue
		}
		series = append(series, f)
	}
	if len(series) == 0 {
		r.logger.Info("no forecast data to plot")
		return nil
	}

	minTime, maxTime := series[0].Points[0].Timestamp, series[0].Points[0].Timestamp
	var temps []float64
	for _, f := range series {
		for _, p := range f.Points {
			if p.Timestamp.Before(minTime) {
				minTime = p.Timestamp
			}
			if p.Timestamp.After(maxTime) {
				maxTime = p.Timestamp
			}
			temps = append(temps, p.Temperature)
		}
	}
	minTemp, maxTemp := valueRange(temps, false)
	if !maxTime.After(minTime) {
		maxTime = minTime.Add(time.Hour)
	}

	dc := r.newCanvas()
	plot := r.plotArea()

	r.drawFrame(dc, plot, r.style.ForecastTitle, forecastXLabel)
	r.drawYTicks(dc, plot, minTemp, maxTemp)

	// Time axis ticks.
	span := maxTime.Sub(minTime)
	for i := 0; i <= tickCount; i++ {
		frac := float64(i) / tickCount
		tickTime := minTime.Add(time.Duration(frac * float64(span)))
		x := plot.x0 + frac*plot.width()
		dc.SetHexColor(r.style.GridColor)
		dc.DrawLine(x, plot.y0, x, plot.y1)
		dc.Stroke()
		dc.SetHexColor(r.style.Foreground)
		dc.DrawStringAnchored(tickTime.Format(forecastTimeTick), x, plot.y1+14, 0.5, 0.5)
	}

	for i, f := range series {
		dc.SetHexColor(r.seriesColor(i))
		dc.SetLineWidth(2)
		for j, p := range f.Points {
			frac := p.Timestamp.Sub(minTime).Seconds() / span.Seconds()
			px := plot.x0 + frac*plot.width()
			py := plot.yFor(p.Temperature, minTemp, maxTemp)
			if j == 0 {
				dc.MoveTo(px, py)
			} else {
				dc.LineTo(px, py)
			}
		}
		dc.Stroke()
	}

	r.drawLegend(dc, plot, legendEntries(series, r.style.SeriesColors))

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save forecast chart %s: %w", path, err)
	}
	r.logger.Info("forecast chart rendered", "path", path, "series", len(series))
	return nil
}

// RenderSnapshots draws three grouped bars (current, min, max) per city.
// An empty batch is a logged no-op.
func (r *Renderer) RenderSnapshots(snapshots []domain.Snapshot, path string) error {
	if len(snapshots) == 0 {
		r.logger.Info("no weather data to plot")
		return nil
	}

	var values []float64
	for _, s := range snapshots {
		values = append(values, s.Temperature, s.TempMin, s.TempMax)
	}
	minVal, maxVal := valueRange(values, true)

	dc := r.newCanvas()
	plot := r.plotArea()

	r.drawFrame(dc, plot, r.style.SnapshotTitle, snapshotXLabel)
	r.drawYTicks(dc, plot, minVal, maxVal)

	groupWidth := plot.width() / float64(len(snapshots))
	barWidth := groupWidth * 0.22
	baseline := plot.yFor(0, minVal, maxVal)

	bars := []struct {
		color string
		value func(domain.Snapshot) float64
	}{
		{r.style.BarColors.Current, func(s domain.Snapshot) float64 { return s.Temperature }},
		{r.style.BarColors.Min, func(s domain.Snapshot) float64 { return s.TempMin }},
		{r.style.BarColors.Max, func(s domain.Snapshot) float64 { return s.TempMax }},
	}

	for i, snap := range snapshots {
		groupLeft := plot.x0 + float64(i)*groupWidth + groupWidth*0.1
		for b, bar := range bars {
			x := groupLeft + float64(b)*barWidth
			y := plot.yFor(bar.value(snap), minVal, maxVal)
			top := math.Min(y, baseline)
			dc.SetHexColor(bar.color)
			dc.DrawRectangle(x, top, barWidth*0.9, math.Abs(baseline-y))
			dc.Fill()
		}

		// Rotated city label under the group, right-aligned at the tick.
		cx := groupLeft + 1.5*barWidth
		dc.SetHexColor(r.style.Foreground)
		dc.Push()
		dc.RotateAbout(gg.Radians(r.style.TickRotationDegrees), cx, plot.y1+12)
		dc.DrawStringAnchored(snap.City, cx, plot.y1+12, 1, 0.5)
		dc.Pop()
	}

	r.drawLegend(dc, plot, []legendEntry{
		{"Current Temperature", r.style.BarColors.Current},
		{"Minimum Temperature", r.style.BarColors.Min},
		{"Maximum Temperature", r.style.BarColors.Max},
	})

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save snapshot chart %s: %w", path, err)
	}
	r.logger.Info("snapshot chart rendered", "path", path, "cities", len(snapshots))
	return nil
}

// --- drawing helpers ---

type plotArea struct {
	x0, y0, x1, y1 float64
}

func (p plotArea) width() float64  { return p.x1 - p.x0 }
func (p plotArea) height() float64 { return p.y1 - p.y0 }

// yFor maps a value into plot pixel space (larger values higher up).
func (p plotArea) yFor(v, minV, maxV float64) float64 {
	return p.y1 - (v-minV)/(maxV-minV)*p.height()
}

func (r *Renderer) newCanvas() *gg.Context {
	dc := gg.NewContext(r.style.Width, r.style.Height)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetHexColor(r.style.Background)
	dc.Clear()
	return dc
}

func (r *Renderer) plotArea() plotArea {
	return plotArea{
		x0: marginLeft,
		y0: marginTop,
		x1: float64(r.style.Width) - marginRight,
		y1: float64(r.style.Height) - marginBottom,
	}
}

func (r *Renderer) drawFrame(dc *gg.Context, plot plotArea, title, xLabel string) {
	dc.SetHexColor(r.style.Foreground)
	dc.SetLineWidth(1)

	dc.DrawLine(plot.x0, plot.y0, plot.x0, plot.y1)
	dc.DrawLine(plot.x0, plot.y1, plot.x1, plot.y1)
	dc.Stroke()

	dc.DrawStringAnchored(title, float64(r.style.Width)/2, marginTop/2, 0.5, 0.5)
	dc.DrawStringAnchored(xLabel, plot.x0+plot.width()/2, float64(r.style.Height)-18, 0.5, 0.5)

	dc.Push()
	dc.RotateAbout(gg.Radians(-90), 20, plot.y0+plot.height()/2)
	dc.DrawStringAnchored(yAxisLabel, 20, plot.y0+plot.height()/2, 0.5, 0.5)
	dc.Pop()
}

func (r *Renderer) drawYTicks(dc *gg.Context, plot plotArea, minV, maxV float64) {
	for i := 0; i <= tickCount; i++ {
		v := minV + (maxV-minV)*float64(i)/tickCount
		y := plot.yFor(v, minV, maxV)
		dc.SetHexColor(r.style.GridColor)
		dc.DrawLine(plot.x0, y, plot.x1, y)
		dc.Stroke()
		dc.SetHexColor(r.style.Foreground)
		dc.DrawStringAnchored(fmt.Sprintf("%.1f", v), plot.x0-8, y, 1, 0.5)
	}
}

type legendEntry struct {
	label string
	color string
}

func legendEntries(series []domain.Forecast, palette []string) []legendEntry {
	entries := make([]legendEntry, len(series))
	for i, f := range series {
		entries[i] = legendEntry{label: f.City, color: palette[i%len(palette)]}
	}
	return entries
}

func (r *Renderer) seriesColor(i int) string {
	return r.style.SeriesColors[i%len(r.style.SeriesColors)]
}

func (r *Renderer) drawLegend(dc *gg.Context, plot plotArea, entries []legendEntry) {
	const swatch = 10.0
	y := plot.y0 + 12
	for _, e := range entries {
		w, _ := dc.MeasureString(e.label)
		x := plot.x1 - w - swatch - 16

		dc.SetHexColor(e.color)
		dc.DrawRectangle(x, y-swatch/2, swatch, swatch)
		dc.Fill()

		dc.SetHexColor(r.style.Foreground)
		dc.DrawStringAnchored(e.label, x+swatch+6, y, 0, 0.5)
		y += 16
	}
}

// valueRange pads the observed min/max so lines and bars never sit on the
// plot border. Bar charts anchor the range at zero so bar heights stay
// proportional to the values.
func valueRange(values []float64, includeZero bool) (float64, float64) {
	minV, maxV := values[0], values[0]
	for _, v := range values {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	if includeZero {
		minV = math.Min(minV, 0)
		maxV = math.Max(maxV, 0)
	}
	pad := (maxV - minV) * 0.1
	if pad == 0 {
		pad = 1
	}
	return minV - pad, maxV + pad
}
