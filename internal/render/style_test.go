package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStyle_EmptyPathReturnsDefaults(t *testing.T) {
	style, err := LoadStyle("")
	require.NoError(t, err)
	assert.Equal(t, DefaultStyle(), style)
}

func TestLoadStyle_OverridesOnlyNamedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"width: 800\nbar_colors:\n  current: \"#123456\"\n"), 0o644))

	style, err := LoadStyle(path)
	require.NoError(t, err)

	assert.Equal(t, 800, style.Width)
	assert.Equal(t, "#123456", style.BarColors.Current)
	// Untouched fields keep their defaults.
	assert.Equal(t, DefaultStyle().Height, style.Height)
	assert.Equal(t, DefaultStyle().BarColors.Min, style.BarColors.Min)
	assert.Equal(t, DefaultStyle().SeriesColors, style.SeriesColors)
}

func TestLoadStyle_EmptiedPaletteFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"series_colors: []\nbar_colors:\n  min: \"\"\n"), 0o644))

	style, err := LoadStyle(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultStyle().SeriesColors, style.SeriesColors)
	assert.Equal(t, DefaultStyle().BarColors.Min, style.BarColors.Min)
	assert.Equal(t, DefaultStyle().BarColors.Current, style.BarColors.Current)
}

func TestLoadStyle_MissingFile(t *testing.T) {
	_, err := LoadStyle(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadStyle_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: [not an int"), 0o644))

	_, err := LoadStyle(path)
	require.Error(t, err)
}
