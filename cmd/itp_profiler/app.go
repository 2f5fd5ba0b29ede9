package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/user/itp_profiler_go/internal/config"
	"github.com/user/itp_profiler_go/internal/log"
	"github.com/user/itp_profiler_go/internal/parser"
	"github.com/user/itp_profiler_go/internal/report"
	"github.com/user/itp_profiler_go/internal/resample"
)

// App runs the pipeline stages against one run configuration.
type App struct {
	cfg *config.Config
}

// NewApp creates a new App around a loaded configuration.
func NewApp(cfg *config.Config) *App {
	return &App{cfg: cfg}
}

// loadedProfile pairs a request with the profile loaded for it.
type loadedProfile struct {
	req     config.ProfileRequest
	profile *parser.Profile
}

// loadSource picks the loader from the request. AIDJEX station files are
// whitespace tables unless already converted to CSV; MATLAB cormat files
// must be converted upstream.
func loadSource(source, instrument, instrumentID, profileNumber string) (*parser.Profile, error) {
	switch {
	case strings.HasSuffix(source, ".mat"):
		return nil, fmt.Errorf("%w: MATLAB cormat file %s (convert to CSV upstream)", parser.ErrUnrecognizedSchema, source)
	case instrument == "AIDJEX" && !strings.HasSuffix(source, ".csv"):
		return parser.LoadAIDJEX(source, instrumentID, profileNumber)
	default:
		return parser.LoadProfileCSV(source, instrument, instrumentID, profileNumber)
	}
}

// RunConvert loads one raw profile and writes it out as a temp,salt,p CSV.
func (a *App) RunConvert(source, instrument, instrumentID, profileNumber, outPath string) error {
	log.Infof("Accessing %s", source)
	profile, err := loadSource(source, instrument, instrumentID, profileNumber)
	if err != nil {
		if errors.Is(err, parser.ErrDownCast) {
			log.Warnf("Skipping down-cast: %s", source)
		}
		return err
	}
	for _, w := range profile.ParseWarnings {
		log.Warnf("%s: %s", source, w)
	}
	if err := parser.WriteProfileCSV(outPath, profile); err != nil {
		return err
	}
	log.Infof("Wrote %d samples to %s", len(profile.Samples), outPath)
	return nil
}

// loadAll loads every configured profile. Down-casts are skipped with a
// warning, as the original conversion scripts did; any other load failure
// aborts the run.
func (a *App) loadAll() ([]loadedProfile, error) {
	if len(a.cfg.Profiles) == 0 {
		return nil, fmt.Errorf("no profiles configured")
	}
	var loaded []loadedProfile
	for _, req := range a.cfg.Profiles {
		log.Infof("Accessing %s", req.Source)
		profile, err := loadSource(req.Source, req.Instrument, req.InstrumentID, req.ProfileNumber)
		if err != nil {
			if errors.Is(err, parser.ErrDownCast) {
				log.Warnf("Skipping down-cast: %s", req.Source)
				continue
			}
			return nil, fmt.Errorf("loading %s: %w", req.Source, err)
		}
		for _, w := range profile.ParseWarnings {
			log.Warnf("%s: %s", req.Source, w)
		}
		loaded = append(loaded, loadedProfile{req: req, profile: profile})
	}
	if len(loaded) == 0 {
		return nil, fmt.Errorf("%w: every configured profile was skipped", parser.ErrEmptyProfile)
	}
	return loaded, nil
}

// panelsFor builds the frame panels for one profile at one phase offset and
// returns the subsample rows the frame retained.
func (a *App) panelsFor(lp loadedProfile, offset int) ([]report.Panel, []parser.SubsampleRow, error) {
	req := lp.req

	var interpolated, subsampled *parser.Profile
	var err error
	if req.Interpolate {
		interpolated, subsampled, err = resample.Run(lp.profile, a.cfg.ResampleConfig(offset), req.DepthWindow)
		if err != nil {
			return nil, nil, fmt.Errorf("resampling %s: %w", lp.profile.Label(), err)
		}
		if !req.Subsample {
			subsampled = nil
		}
	} else {
		// No interpolation requested: plot the windowed original points.
		interpolated, err = resample.FilterWindow(lp.profile, req.DepthWindow)
		if err != nil {
			return nil, nil, fmt.Errorf("filtering %s: %w", lp.profile.Label(), err)
		}
	}

	panel := report.Panel{
		Title:        lp.profile.Label(),
		Interpolated: interpolated,
		Subsampled:   subsampled,
		ShowMarkers:  req.ShowMarkers,
		Window:       req.DepthWindow,
		Inset:        req.Inset,
	}
	panels := []report.Panel{panel}
	if req.PlotSalinity {
		saltPanel := panel
		saltPanel.Salinity = true
		panels = append(panels, saltPanel)
	}

	var rows []parser.SubsampleRow
	if subsampled != nil {
		for _, s := range subsampled.Samples {
			rows = append(rows, parser.SubsampleRow{
				Instrument:    subsampled.Instrument,
				InstrumentID:  subsampled.InstrumentID,
				ProfileNumber: subsampled.ProfileNumber,
				Offset:        offset,
				Sample:        s,
			})
		}
	}
	return panels, rows, nil
}

// renderOffset renders the comparison frame for one phase offset.
func (a *App) renderOffset(loaded []loadedProfile, offset int) ([]byte, []parser.SubsampleRow, error) {
	spec := report.FrameSpec{
		Caption:      fmt.Sprintf("Subsampled at %g m resolution, offset: %02d", a.cfg.Resolution, offset),
		Dark:         a.cfg.DarkMode,
		MarkerRadius: a.cfg.MarkerRadius,
	}
	var rows []parser.SubsampleRow
	for _, lp := range loaded {
		panels, lpRows, err := a.panelsFor(lp, offset)
		if err != nil {
			return nil, nil, err
		}
		spec.Panels = append(spec.Panels, panels...)
		rows = append(rows, lpRows...)
	}
	png, err := report.RenderFrame(spec)
	if err != nil {
		return nil, nil, err
	}
	return png, rows, nil
}

// RunFrames renders one PNG frame per phase offset in [0, stride) into the
// output directory, replacing any previous frame set, and optionally
// accumulates the subsampled points into a provenance CSV.
func (a *App) RunFrames() error {
	if err := a.cfg.ResampleConfig(0).Validate(); err != nil {
		return err
	}
	loaded, err := a.loadAll()
	if err != nil {
		return err
	}

	if err := os.RemoveAll(a.cfg.OutputDir); err != nil {
		return fmt.Errorf("failed to clear frame directory: %w", err)
	}
	if err := os.MkdirAll(a.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create frame directory: %w", err)
	}

	var allRows []parser.SubsampleRow
	for offset := 0; offset < a.cfg.Stride; offset++ {
		png, rows, err := a.renderOffset(loaded, offset)
		if err != nil {
			return fmt.Errorf("frame %d: %w", offset, err)
		}
		name := fmt.Sprintf("%s-%03d.png", a.cfg.FrameName, offset)
		if err := os.WriteFile(filepath.Join(a.cfg.OutputDir, name), png, 0644); err != nil {
			return fmt.Errorf("failed to write frame: %w", err)
		}
		log.Debugf("Rendered %s", name)
		allRows = append(allRows, rows...)
	}
	log.Infof("Rendered %d frames to %s", a.cfg.Stride, a.cfg.OutputDir)

	if a.cfg.WriteSubsampleCSV && len(allRows) > 0 {
		csvPath := a.cfg.FrameName + ".csv"
		if err := parser.WriteSubsampleCSV(csvPath, allRows); err != nil {
			return err
		}
		log.Infof("Wrote %d subsampled points to %s", len(allRows), csvPath)
	}
	return nil
}

// RunGIF stitches the rendered frames into an animated GIF.
func (a *App) RunGIF() error {
	outPath := a.cfg.FrameName + ".gif"
	log.Infof("Saving gif to %s", outPath)
	return report.BuildGIF(a.cfg.OutputDir, outPath, a.cfg.FPS)
}

// RunAnimate runs frames then gif.
func (a *App) RunAnimate() error {
	if err := a.RunFrames(); err != nil {
		return err
	}
	return a.RunGIF()
}

// RunTSPlot renders a temperature-salinity scatter from a subsample CSV.
func (a *App) RunTSPlot(csvPath, outPath string) error {
	rows, err := parser.LoadSubsampleCSV(csvPath)
	if err != nil {
		return err
	}
	groups, err := report.GroupSubsamples(rows)
	if err != nil {
		return err
	}
	png, err := report.RenderTSPlot(groups, a.cfg.DarkMode)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, png, 0644); err != nil {
		return fmt.Errorf("failed to write T-S plot: %w", err)
	}
	log.Infof("Wrote T-S plot for %d profiles to %s", len(groups), outPath)
	return nil
}

// RunReport renders the offset-zero comparison and writes the PDF summary.
func (a *App) RunReport(outPath string) error {
	if err := a.cfg.ResampleConfig(0).Validate(); err != nil {
		return err
	}
	loaded, err := a.loadAll()
	if err != nil {
		return err
	}
	png, rows, err := a.renderOffset(loaded, 0)
	if err != nil {
		return err
	}

	summary := report.RunSummary{
		Title:      fmt.Sprintf("Profile comparison: %s", a.cfg.FrameName),
		Resolution: a.cfg.Resolution,
		Stride:     a.cfg.Stride,
	}
	for _, lp := range loaded {
		line := fmt.Sprintf("%s from %s", lp.profile.Label(), lp.req.Source)
		if w := lp.req.DepthWindow; w != nil {
			line += fmt.Sprintf(", depth window (%g, %g)", w.Min, w.Max)
		}
		summary.Profiles = append(summary.Profiles, line)
	}

	if err := report.BuildPDFReport(outPath, summary, png, rows); err != nil {
		return err
	}
	log.Infof("Wrote report to %s", outPath)
	return nil
}
