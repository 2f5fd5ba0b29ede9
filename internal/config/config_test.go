package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def, cfg)
	assert.Equal(t, "frames", cfg.OutputDir)
	assert.Equal(t, 1.5, cfg.Resolution)
	assert.Equal(t, 40, cfg.Stride)
	assert.True(t, cfg.DarkMode)
}

func TestLoadOverridesAndDefaults(t *testing.T) {
	content := `
output_dir: out
resolution: 2.5
dark_mode: false
profiles:
  - instrument: ITP
    instrument_id: "8"
    profile_number: "1301"
    source: ITP8-1301.csv
    depth_window:
      min: 240
      max: 250
    interpolate: true
    subsample: true
    plot_salinity: true
`
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, 2.5, cfg.Resolution)
	assert.False(t, cfg.DarkMode)
	// Unset fields fall back to script defaults.
	assert.Equal(t, 40, cfg.Stride)
	assert.Equal(t, 12, cfg.FPS)
	assert.Equal(t, "test_2_pfs", cfg.FrameName)

	require.Len(t, cfg.Profiles, 1)
	req := cfg.Profiles[0]
	assert.Equal(t, "ITP", req.Instrument)
	assert.Equal(t, "8", req.InstrumentID)
	require.NotNil(t, req.DepthWindow)
	assert.Equal(t, 240.0, req.DepthWindow.Min)
	assert.Equal(t, 250.0, req.DepthWindow.Max)
	assert.Nil(t, req.Inset)
	assert.True(t, req.Interpolate)
	assert.True(t, req.PlotSalinity)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profiles: [unclosed"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.FrameName = "two_itps"
	cfg.Profiles = []ProfileRequest{{
		Instrument:    "AIDJEX",
		InstrumentID:  "BlueFox",
		ProfileNumber: "001",
		Source:        "BlueFox_001",
	}}

	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestResampleConfig(t *testing.T) {
	cfg := Default()
	rc := cfg.ResampleConfig(7)
	assert.Equal(t, 1.5, rc.Resolution)
	assert.Equal(t, 40, rc.Stride)
	assert.Equal(t, 7, rc.PhaseOffset)
	assert.NoError(t, rc.Validate())
}
