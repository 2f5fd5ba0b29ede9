package parser

import (
	"errors"
	"fmt"
)

// Sample is a single depth-indexed measurement triple.
type Sample struct {
	Depth       float64 // dbar (ITP) or metres (AIDJEX)
	Temperature float64 // degrees C
	Salinity    float64 // g/kg
}

// Profile holds one instrument cast, ordered by increasing depth.
// Loaders fill Samples and ParseWarnings; callers should run Validate
// before handing the profile to the resampler.
type Profile struct {
	Instrument    string // "ITP" or "AIDJEX"
	InstrumentID  string // e.g. "8" or "BlueFox"
	ProfileNumber string // e.g. "1301" or "001"
	Samples       []Sample
	ParseWarnings []string // non-fatal issues found while loading (dropped rows etc.)
}

// Load and validation errors. Loaders wrap these with file/context detail.
var (
	ErrUnrecognizedSchema = errors.New("parser: unrecognized profile schema")
	ErrEmptyProfile       = errors.New("parser: no usable samples in profile")
	ErrDownCast           = errors.New("parser: down-cast profile (depth decreases from first to last sample)")
	ErrNonMonotonic       = errors.New("parser: depth axis is not strictly increasing")
)

// Label returns the human-readable name used in plot titles and logs,
// e.g. "ITP8 profile 1301".
func (p *Profile) Label() string {
	if p.Instrument == "AIDJEX" {
		return fmt.Sprintf("AIDJEX %s profile %s", p.InstrumentID, p.ProfileNumber)
	}
	return fmt.Sprintf("%s%s profile %s", p.Instrument, p.InstrumentID, p.ProfileNumber)
}

// Depths returns a newly allocated slice of the depth values.
func (p *Profile) Depths() []float64 {
	out := make([]float64, len(p.Samples))
	for i, s := range p.Samples {
		out[i] = s.Depth
	}
	return out
}

// Temperatures returns a newly allocated slice of the temperature values.
func (p *Profile) Temperatures() []float64 {
	out := make([]float64, len(p.Samples))
	for i, s := range p.Samples {
		out[i] = s.Temperature
	}
	return out
}

// Salinities returns a newly allocated slice of the salinity values.
func (p *Profile) Salinities() []float64 {
	out := make([]float64, len(p.Samples))
	for i, s := range p.Samples {
		out[i] = s.Salinity
	}
	return out
}

// Validate checks the depth axis invariants. A profile recorded on the way
// down (first depth above the last) is reported as ErrDownCast and is never
// reversed; any other ordering violation, including duplicate depths, is
// ErrNonMonotonic.
func (p *Profile) Validate() error {
	if len(p.Samples) == 0 {
		return ErrEmptyProfile
	}
	if p.Samples[0].Depth > p.Samples[len(p.Samples)-1].Depth {
		return ErrDownCast
	}
	for i := 1; i < len(p.Samples); i++ {
		if p.Samples[i].Depth <= p.Samples[i-1].Depth {
			return fmt.Errorf("%w: sample %d (%g) does not exceed sample %d (%g)",
				ErrNonMonotonic, i, p.Samples[i].Depth, i-1, p.Samples[i-1].Depth)
		}
	}
	return nil
}
