// Package resample turns an instrument profile into a uniformly spaced
// interpolated profile and an evenly strided subsample of it. Stepping the
// phase offset through [0, stride) and rendering each subsample yields the
// frames of an animation in which the sampled points slide down the cast.
// Every stage is a pure function: inputs are never mutated and each stage
// returns a new profile.
package resample

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/user/itp_profiler_go/internal/parser"
)

var (
	// ErrResolution reports a non-positive target resolution or spacing.
	ErrResolution = errors.New("resample: resolution must be positive")
	// ErrTooFewSamples reports a profile too short to interpolate.
	ErrTooFewSamples = errors.New("resample: at least two samples are required for interpolation")
	// ErrEmptyWindow reports a depth window that excludes every sample.
	ErrEmptyWindow = errors.New("resample: no samples inside depth window")
	// ErrStride reports a subsampling stride below 1.
	ErrStride = errors.New("resample: stride must be at least 1")
	// ErrPhaseOffset reports a phase offset outside [0, stride).
	ErrPhaseOffset = errors.New("resample: phase offset must be in [0, stride)")
)

// Config governs one resampling run. The interpolation grid spacing is
// Resolution/Stride, so that a subsample taken every Stride-th point lands
// on depths Resolution apart regardless of the phase offset.
type Config struct {
	Resolution  float64 // depth spacing of the subsampled points
	Stride      int     // keep every Stride-th interpolated point
	PhaseOffset int     // index of the first kept point, in [0, Stride)
}

// Validate rejects configurations the pipeline would refuse anyway, so
// callers can fail before doing any work.
func (c Config) Validate() error {
	if c.Resolution <= 0 {
		return fmt.Errorf("%w: got %g", ErrResolution, c.Resolution)
	}
	if c.Stride < 1 {
		return fmt.Errorf("%w: got %d", ErrStride, c.Stride)
	}
	if c.PhaseOffset < 0 || c.PhaseOffset >= c.Stride {
		return fmt.Errorf("%w: got offset %d with stride %d", ErrPhaseOffset, c.PhaseOffset, c.Stride)
	}
	return nil
}

// Spacing is the interpolation grid spacing, Resolution/Stride.
func (c Config) Spacing() float64 {
	return c.Resolution / float64(c.Stride)
}

// DepthWindow restricts a profile to Min < depth < Max before
// interpolation. Both bounds are exclusive.
type DepthWindow struct {
	Min float64
	Max float64
}

// derived returns a new profile carrying src's provenance but its own
// sample slice. Parse warnings belong to the source file and are not
// propagated to derived values.
func derived(src *parser.Profile, samples []parser.Sample) *parser.Profile {
	return &parser.Profile{
		Instrument:    src.Instrument,
		InstrumentID:  src.InstrumentID,
		ProfileNumber: src.ProfileNumber,
		Samples:       samples,
	}
}

// FilterWindow returns the samples of p strictly inside the window. A nil
// window passes the profile through unchanged. An empty result is an
// error, not an empty profile.
func FilterWindow(p *parser.Profile, w *DepthWindow) (*parser.Profile, error) {
	if w == nil {
		return p, nil
	}
	kept := make([]parser.Sample, 0, len(p.Samples))
	for _, s := range p.Samples {
		if s.Depth > w.Min && s.Depth < w.Max {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: (%g, %g) on %s", ErrEmptyWindow, w.Min, w.Max, p.Label())
	}
	return derived(p, kept), nil
}

// Interpolate resamples p onto the uniform depth grid
// d_min, d_min+spacing, d_min+2*spacing, ... up to but excluding d_max,
// with temperature and salinity linearly interpolated between the
// bracketing original samples. The grid never extends past the input
// bounds, so no extrapolation happens. The profile must have a strictly
// increasing depth axis and at least two samples.
func Interpolate(p *parser.Profile, spacing float64) (*parser.Profile, error) {
	if spacing <= 0 {
		return nil, fmt.Errorf("%w: spacing %g", ErrResolution, spacing)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(p.Samples) < 2 {
		return nil, fmt.Errorf("%w: %s has %d", ErrTooFewSamples, p.Label(), len(p.Samples))
	}

	depths := p.Depths()
	var tempFn, saltFn interp.PiecewiseLinear
	if err := tempFn.Fit(depths, p.Temperatures()); err != nil {
		return nil, fmt.Errorf("resample: fitting temperature for %s: %w", p.Label(), err)
	}
	if err := saltFn.Fit(depths, p.Salinities()); err != nil {
		return nil, fmt.Errorf("resample: fitting salinity for %s: %w", p.Label(), err)
	}

	dMin := depths[0]
	dMax := depths[len(depths)-1]
	n := int(math.Ceil((dMax - dMin) / spacing))
	samples := make([]parser.Sample, 0, n)
	for i := 0; i < n; i++ {
		d := dMin + float64(i)*spacing
		if d >= dMax {
			break
		}
		samples = append(samples, parser.Sample{
			Depth:       d,
			Temperature: tempFn.Predict(d),
			Salinity:    saltFn.Predict(d),
		})
	}
	return derived(p, samples), nil
}

// Subsample keeps the points of p at indices offset, offset+stride,
// offset+2*stride, ... Invalid stride or offset is rejected outright,
// never clamped.
func Subsample(p *parser.Profile, stride, offset int) (*parser.Profile, error) {
	if stride < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrStride, stride)
	}
	if offset < 0 || offset >= stride {
		return nil, fmt.Errorf("%w: got offset %d with stride %d", ErrPhaseOffset, offset, stride)
	}
	samples := make([]parser.Sample, 0, (len(p.Samples)+stride-1)/stride)
	for i := offset; i < len(p.Samples); i += stride {
		samples = append(samples, p.Samples[i])
	}
	return derived(p, samples), nil
}

// Run applies the full pipeline for one frame: window filter, uniform
// interpolation at cfg.Spacing(), then a strided subsample at
// cfg.PhaseOffset. Both the interpolated profile and the subsample are
// returned since plots draw both.
func Run(p *parser.Profile, cfg Config, w *DepthWindow) (interpolated, subsampled *parser.Profile, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	windowed, err := FilterWindow(p, w)
	if err != nil {
		return nil, nil, err
	}
	interpolated, err = Interpolate(windowed, cfg.Spacing())
	if err != nil {
		return nil, nil, err
	}
	subsampled, err = Subsample(interpolated, cfg.Stride, cfg.PhaseOffset)
	if err != nil {
		return nil, nil, err
	}
	return interpolated, subsampled, nil
}
