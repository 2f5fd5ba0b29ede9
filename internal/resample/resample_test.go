package resample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/itp_profiler_go/internal/parser"
)

func profileOf(samples ...parser.Sample) *parser.Profile {
	return &parser.Profile{
		Instrument:    "ITP",
		InstrumentID:  "8",
		ProfileNumber: "1301",
		Samples:       samples,
	}
}

func rampProfile(n int, spacing float64) *parser.Profile {
	samples := make([]parser.Sample, n)
	for i := range samples {
		d := float64(i) * spacing
		samples[i] = parser.Sample{Depth: d, Temperature: d / 10, Salinity: d / 5}
	}
	return profileOf(samples...)
}

func TestInterpolateKnownValues(t *testing.T) {
	p := profileOf(
		parser.Sample{Depth: 0, Temperature: 0, Salinity: 0},
		parser.Sample{Depth: 10, Temperature: 1, Salinity: 2},
		parser.Sample{Depth: 20, Temperature: 2, Salinity: 4},
	)

	out, err := Interpolate(p, 5)
	require.NoError(t, err)
	require.Len(t, out.Samples, 4)

	wantDepths := []float64{0, 5, 10, 15}
	wantTemps := []float64{0, 0.5, 1, 1.5}
	wantSalts := []float64{0, 1, 2, 3}
	for i, s := range out.Samples {
		assert.InDelta(t, wantDepths[i], s.Depth, 1e-12)
		assert.InDelta(t, wantTemps[i], s.Temperature, 1e-12)
		assert.InDelta(t, wantSalts[i], s.Salinity, 1e-12)
	}
}

func TestInterpolateGridBounds(t *testing.T) {
	p := profileOf(
		parser.Sample{Depth: 2.3, Temperature: -1.1, Salinity: 30.2},
		parser.Sample{Depth: 4.1, Temperature: -1.0, Salinity: 30.9},
		parser.Sample{Depth: 9.7, Temperature: -0.4, Salinity: 31.6},
		parser.Sample{Depth: 15.2, Temperature: 0.3, Salinity: 32.4},
	)

	out, err := Interpolate(p, 0.7)
	require.NoError(t, err)
	require.NotEmpty(t, out.Samples)

	// Grid starts at d_min, stays strictly increasing, and never reaches d_max.
	assert.Equal(t, 2.3, out.Samples[0].Depth)
	for i := 1; i < len(out.Samples); i++ {
		assert.Greater(t, out.Samples[i].Depth, out.Samples[i-1].Depth)
	}
	assert.Less(t, out.Samples[len(out.Samples)-1].Depth, 15.2)
}

func TestInterpolateNeverExtrapolates(t *testing.T) {
	p := rampProfile(50, 1.0)
	out, err := Interpolate(p, 0.3)
	require.NoError(t, err)
	for _, s := range out.Samples {
		assert.GreaterOrEqual(t, s.Depth, p.Samples[0].Depth)
		assert.Less(t, s.Depth, p.Samples[len(p.Samples)-1].Depth)
	}
}

func TestInterpolateRejectsBadInput(t *testing.T) {
	p := rampProfile(10, 1.0)

	_, err := Interpolate(p, 0)
	assert.ErrorIs(t, err, ErrResolution)

	_, err = Interpolate(p, -0.5)
	assert.ErrorIs(t, err, ErrResolution)

	_, err = Interpolate(profileOf(parser.Sample{Depth: 1}), 0.5)
	assert.ErrorIs(t, err, ErrTooFewSamples)

	_, err = Interpolate(profileOf(), 0.5)
	assert.ErrorIs(t, err, parser.ErrEmptyProfile)
}

func TestInterpolateRejectsDownCast(t *testing.T) {
	p := profileOf(
		parser.Sample{Depth: 20, Temperature: 2, Salinity: 4},
		parser.Sample{Depth: 10, Temperature: 1, Salinity: 2},
		parser.Sample{Depth: 0, Temperature: 0, Salinity: 0},
	)
	_, err := Interpolate(p, 5)
	assert.ErrorIs(t, err, parser.ErrDownCast)
}

func TestInterpolateRejectsNonMonotonic(t *testing.T) {
	p := profileOf(
		parser.Sample{Depth: 0},
		parser.Sample{Depth: 5},
		parser.Sample{Depth: 5},
		parser.Sample{Depth: 9},
	)
	_, err := Interpolate(p, 1)
	assert.ErrorIs(t, err, parser.ErrNonMonotonic)
}

func TestSubsampleIdentity(t *testing.T) {
	p := rampProfile(9, 0.5)
	out, err := Subsample(p, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, p.Samples, out.Samples)
}

func TestSubsampleIndices(t *testing.T) {
	p := rampProfile(8, 1.0)
	out, err := Subsample(p, 3, 1)
	require.NoError(t, err)
	require.Len(t, out.Samples, 3)
	assert.Equal(t, p.Samples[1], out.Samples[0])
	assert.Equal(t, p.Samples[4], out.Samples[1])
	assert.Equal(t, p.Samples[7], out.Samples[2])
}

func TestSubsamplePartition(t *testing.T) {
	p := rampProfile(17, 0.25)
	const stride = 5

	// The union of all phase offsets covers every point exactly once.
	seen := make(map[float64]int)
	for offset := 0; offset < stride; offset++ {
		out, err := Subsample(p, stride, offset)
		require.NoError(t, err)
		for _, s := range out.Samples {
			seen[s.Depth]++
		}
	}
	require.Len(t, seen, len(p.Samples))
	for _, count := range seen {
		assert.Equal(t, 1, count)
	}
}

func TestSubsampleRejectsBadParams(t *testing.T) {
	p := rampProfile(8, 1.0)

	_, err := Subsample(p, 0, 0)
	assert.ErrorIs(t, err, ErrStride)

	_, err = Subsample(p, 3, 3)
	assert.ErrorIs(t, err, ErrPhaseOffset)

	_, err = Subsample(p, 3, -1)
	assert.ErrorIs(t, err, ErrPhaseOffset)
}

func TestFilterWindowExclusiveBounds(t *testing.T) {
	p := rampProfile(6, 1.0) // depths 0..5
	out, err := FilterWindow(p, &DepthWindow{Min: 1, Max: 4})
	require.NoError(t, err)
	require.Len(t, out.Samples, 2)
	assert.Equal(t, 2.0, out.Samples[0].Depth)
	assert.Equal(t, 3.0, out.Samples[1].Depth)
}

func TestFilterWindowNilPassesThrough(t *testing.T) {
	p := rampProfile(4, 1.0)
	out, err := FilterWindow(p, nil)
	require.NoError(t, err)
	assert.Same(t, p, out)
}

func TestFilterWindowIdempotent(t *testing.T) {
	p := rampProfile(30, 0.5)
	w := &DepthWindow{Min: 3, Max: 11}

	once, err := FilterWindow(p, w)
	require.NoError(t, err)
	twice, err := FilterWindow(once, w)
	require.NoError(t, err)
	assert.Equal(t, once.Samples, twice.Samples)
}

func TestFilterWindowEmptyResult(t *testing.T) {
	p := rampProfile(5, 1.0)
	_, err := FilterWindow(p, &DepthWindow{Min: 100, Max: 200})
	assert.ErrorIs(t, err, ErrEmptyWindow)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{Resolution: 1.5, Stride: 40, PhaseOffset: 0}.Validate())
	assert.ErrorIs(t, Config{Resolution: 0, Stride: 1}.Validate(), ErrResolution)
	assert.ErrorIs(t, Config{Resolution: 1, Stride: 0}.Validate(), ErrStride)
	assert.ErrorIs(t, Config{Resolution: 1, Stride: 4, PhaseOffset: 4}.Validate(), ErrPhaseOffset)
}

func TestConfigSpacing(t *testing.T) {
	cfg := Config{Resolution: 1.5, Stride: 40}
	assert.InDelta(t, 0.0375, cfg.Spacing(), 1e-12)
}

func TestRunPipeline(t *testing.T) {
	p := rampProfile(200, 0.5) // depths 0..99.5
	cfg := Config{Resolution: 2, Stride: 4, PhaseOffset: 1}
	w := &DepthWindow{Min: 10, Max: 50}

	interpolated, subsampled, err := Run(p, cfg, w)
	require.NoError(t, err)
	require.NotEmpty(t, interpolated.Samples)
	require.NotEmpty(t, subsampled.Samples)

	// Interpolated grid respects the window and the spacing.
	assert.Greater(t, interpolated.Samples[0].Depth, 10.0)
	assert.Less(t, interpolated.Samples[len(interpolated.Samples)-1].Depth, 50.0)
	assert.InDelta(t, cfg.Spacing(), interpolated.Samples[1].Depth-interpolated.Samples[0].Depth, 1e-12)

	// The subsample is the strided selection of the interpolated grid.
	for i, s := range subsampled.Samples {
		assert.Equal(t, interpolated.Samples[cfg.PhaseOffset+i*cfg.Stride], s)
	}

	// Provenance carries through the pipeline.
	assert.Equal(t, p.Instrument, subsampled.Instrument)
	assert.Equal(t, p.ProfileNumber, subsampled.ProfileNumber)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	p := rampProfile(10, 1.0)
	_, _, err := Run(p, Config{Resolution: 1, Stride: 2, PhaseOffset: 2}, nil)
	assert.ErrorIs(t, err, ErrPhaseOffset)
}
