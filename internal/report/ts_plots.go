package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/user/itp_profiler_go/internal/parser"
)

// maxTSGroups limits how many profiles a T-S figure compares, matching the
// two-panel layout of the comparison frames.
const maxTSGroups = 2

// TSGroup is the set of subsample rows belonging to one profile.
type TSGroup struct {
	Label string
	Rows  []parser.SubsampleRow
}

// GroupSubsamples splits subsample rows by originating profile, preserving
// first-seen order. More than maxTSGroups distinct profiles is an error.
func GroupSubsamples(rows []parser.SubsampleRow) ([]TSGroup, error) {
	var groups []TSGroup
	index := make(map[string]int)
	for _, r := range rows {
		key := r.Instrument + "|" + r.InstrumentID + "|" + r.ProfileNumber
		i, ok := index[key]
		if !ok {
			if len(groups) == maxTSGroups {
				return nil, fmt.Errorf("subsample CSV holds more than %d distinct profiles", maxTSGroups)
			}
			label := fmt.Sprintf("%s%s profile %s", r.Instrument, r.InstrumentID, r.ProfileNumber)
			if r.Instrument == "AIDJEX" {
				label = fmt.Sprintf("AIDJEX %s profile %s", r.InstrumentID, r.ProfileNumber)
			}
			i = len(groups)
			index[key] = i
			groups = append(groups, TSGroup{Label: label})
		}
		groups[i].Rows = append(groups[i].Rows, r)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("no subsample rows to plot")
	}
	return groups, nil
}

// RenderTSPlot draws one temperature-against-salinity scatter panel per
// group, side by side, and returns the figure as PNG bytes.
func RenderTSPlot(groups []TSGroup, dark bool) ([]byte, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("no groups to plot")
	}
	pal := PaletteFor(dark)

	plots := make([]*plot.Plot, len(groups))
	for i, g := range groups {
		p := plot.New()
		p.Title.Text = g.Label
		p.X.Label.Text = "Salinity (g/kg)"
		if i == 0 {
			p.Y.Label.Text = "Temperature (°C)"
		}
		applyPalette(p, pal)

		pts := make(plotter.XYs, len(g.Rows))
		for j, r := range g.Rows {
			pts[j] = plotter.XY{X: r.Sample.Salinity, Y: r.Sample.Temperature}
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create T-S scatter for %s: %w", g.Label, err)
		}
		scatter.GlyphStyle.Color = pal.Foreground
		scatter.GlyphStyle.Radius = vg.Points(1)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)

		plots[i] = p
	}
	return composeRow(plots, pal)
}
