// Package config holds the run configuration for the profiler. Every
// parameter that was a hardcoded literal in the original research scripts
// is a field here, with that literal as its default.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/user/itp_profiler_go/internal/resample"
)

// ProfileRequest names one profile to load and how to treat it in a
// comparison plot.
type ProfileRequest struct {
	Instrument    string                `yaml:"instrument"`     // "ITP" or "AIDJEX"
	InstrumentID  string                `yaml:"instrument_id"`  // e.g. "8" or "BlueFox"
	ProfileNumber string                `yaml:"profile_number"` // e.g. "1301"
	Source        string                `yaml:"source"`         // path to the profile CSV or AIDJEX station file
	DepthWindow   *resample.DepthWindow `yaml:"depth_window"`   // optional exclusive depth limits
	Inset         *resample.DepthWindow `yaml:"inset"`          // optional depth range to highlight
	Interpolate   bool                  `yaml:"interpolate"`
	Subsample     bool                  `yaml:"subsample"` // only honoured when Interpolate is set
	ShowMarkers   bool                  `yaml:"show_markers"`
	PlotSalinity  bool                  `yaml:"plot_salinity"`
}

// Config represents the application configuration.
type Config struct {
	OutputDir         string           `yaml:"output_dir"`          // directory for rendered frames
	FrameName         string           `yaml:"frame_name"`          // base name for frames, CSVs and the GIF
	Resolution        float64          `yaml:"resolution"`          // subsample depth resolution
	Stride            int              `yaml:"stride"`              // subsampling rate; interpolation spacing is resolution/stride
	FPS               int              `yaml:"fps"`                 // GIF frame rate
	DarkMode          bool             `yaml:"dark_mode"`           // dark plot background
	MarkerRadius      float64          `yaml:"marker_radius"`       // subsample marker radius in points
	WriteSubsampleCSV bool             `yaml:"write_subsample_csv"` // accumulate subsampled points into a CSV
	Profiles          []ProfileRequest `yaml:"profiles"`
}

// Default returns the configuration matching the original scripts'
// hardcoded parameters.
func Default() *Config {
	return &Config{
		OutputDir:    "frames",
		FrameName:    "test_2_pfs",
		Resolution:   1.5,
		Stride:       40,
		FPS:          12,
		DarkMode:     true,
		MarkerRadius: 3,
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResampleConfig builds the resampler configuration for one phase offset.
func (c *Config) ResampleConfig(offset int) resample.Config {
	return resample.Config{
		Resolution:  c.Resolution,
		Stride:      c.Stride,
		PhaseOffset: offset,
	}
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
	if c.FrameName == "" {
		c.FrameName = def.FrameName
	}
	if c.Resolution == 0 {
		c.Resolution = def.Resolution
	}
	if c.Stride == 0 {
		c.Stride = def.Stride
	}
	if c.FPS == 0 {
		c.FPS = def.FPS
	}
	if c.MarkerRadius == 0 {
		c.MarkerRadius = def.MarkerRadius
	}
}
