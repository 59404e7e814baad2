package render

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Style controls chart appearance. Zero-valued fields in a loaded style
// file fall back to the defaults.
type Style struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	Background string `yaml:"background"`
	Foreground string `yaml:"foreground"`
	GridColor  string `yaml:"grid_color"`

	// Line colors assigned to forecast series in city order, cycling when
	// there are more cities than colors.
	SeriesColors []string `yaml:"series_colors"`

	BarColors BarColors `yaml:"bar_colors"`

	ForecastTitle string `yaml:"forecast_title"`
	SnapshotTitle string `yaml:"snapshot_title"`

	// Rotation of the snapshot chart's city labels, degrees clockwise.
	TickRotationDegrees float64 `yaml:"tick_rotation_degrees"`
}

// BarColors are the grouped-bar colors of the snapshot chart.
type BarColors struct {
	Current string `yaml:"current"`
	Min     string `yaml:"min"`
	Max     string `yaml:"max"`
}

// DefaultStyle returns the built-in chart appearance.
func DefaultStyle() Style {
	return Style{
		Width:      1024,
		Height:     640,
		Background: "#ffffff",
		Foreground: "#1a1a1a",
		GridColor:  "#dddddd",
		SeriesColors: []string{
			"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728",
			"#9467bd", "#8c564b", "#e377c2", "#7f7f7f",
		},
		BarColors: BarColors{
			Current: "#ee82ee",
			Min:     "#d62728",
			Max:     "#1f77b4",
		},
		ForecastTitle:       "Temperature Forecast for the next five days",
		SnapshotTitle:       "Temperatures of Different Cities",
		TickRotationDegrees: 45,
	}
}

// LoadStyle reads a YAML style file over the defaults. An empty path
// returns the defaults unchanged.
func LoadStyle(path string) (Style, error) {
	style := DefaultStyle()
	if path == "" {
		return style, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Style{}, fmt.Errorf("read style file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &style); err != nil {
		return Style{}, fmt.Errorf("parse style file %s: %w", path, err)
	}
	return style.withPaletteDefaults(), nil
}

// withPaletteDefaults restores any color the file emptied out. The chart
// code assumes a non-empty palette, so a style file can recolor it but
// never remove it.
func (s Style) withPaletteDefaults() Style {
	defaults := DefaultStyle()
	if len(s.SeriesColors) == 0 {
		s.SeriesColors = defaults.SeriesColors
	}
	if s.BarColors.Current == "" {
		s.BarColors.Current = defaults.BarColors.Current
	}
	if s.BarColors.Min == "" {
		s.BarColors.Min = defaults.BarColors.Min
	}
	if s.BarColors.Max == "" {
		s.BarColors.Max = defaults.BarColors.Max
	}
	return s
}
