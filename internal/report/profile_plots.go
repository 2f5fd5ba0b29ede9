package report

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/user/itp_profiler_go/internal/parser"
	"github.com/user/itp_profiler_go/internal/resample"
)

// Palette is the set of colors used across all rendered artifacts. The
// dark palette follows matplotlib's dark_background style with the
// lightcoral/silver pair the original figures used.
type Palette struct {
	Background  color.Color
	Foreground  color.Color // axes, ticks, titles, guide lines
	Temperature color.Color
	Salinity    color.Color
}

var (
	colorLightCoral = color.NRGBA{R: 240, G: 128, B: 128, A: 255}
	colorSilver     = color.NRGBA{R: 192, G: 192, B: 192, A: 255}
)

// DarkPalette returns the dark-mode colors.
func DarkPalette() Palette {
	return Palette{
		Background:  color.Black,
		Foreground:  color.White,
		Temperature: colorLightCoral,
		Salinity:    colorSilver,
	}
}

// LightPalette returns the light-mode colors.
func LightPalette() Palette {
	return Palette{
		Background:  color.White,
		Foreground:  color.Black,
		Temperature: colorLightCoral,
		Salinity:    colorSilver,
	}
}

// PaletteFor picks the palette for the configured plot mode.
func PaletteFor(dark bool) Palette {
	if dark {
		return DarkPalette()
	}
	return LightPalette()
}

// Panel describes one column of a comparison frame: a single variable of a
// single profile, with an optional subsample overlay.
type Panel struct {
	Title        string
	Salinity     bool // plot salinity instead of temperature
	Interpolated *parser.Profile
	Subsampled   *parser.Profile       // nil disables the overlay
	ShowMarkers  bool                  // mark every point of the full-resolution profile
	Window       *resample.DepthWindow // extent of the vertical guide lines; profile bounds when nil
	Inset        *resample.DepthWindow // depth band to highlight, replaces the original's inset axes
}

// FrameSpec describes one rendered animation frame.
type FrameSpec struct {
	Caption      string // second title line on every panel, e.g. the phase offset
	Panels       []Panel
	Dark         bool
	MarkerRadius float64 // subsample marker radius in points
}

const (
	panelWidth  = 340 // points
	panelHeight = 480
)

// withAlpha returns c with its alpha scaled, for the translucent
// full-resolution line under the subsample overlay.
func withAlpha(c color.Color, alpha uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: alpha}
}

// profileXYs maps a profile onto plot coordinates: the measured variable on
// x and negated depth on y, so deeper water is lower on the page.
func profileXYs(p *parser.Profile, salinity bool) plotter.XYs {
	pts := make(plotter.XYs, len(p.Samples))
	for i, s := range p.Samples {
		v := s.Temperature
		if salinity {
			v = s.Salinity
		}
		pts[i] = plotter.XY{X: v, Y: -s.Depth}
	}
	return pts
}

func valueRange(p *parser.Profile, salinity bool) (min, max float64) {
	for i, s := range p.Samples {
		v := s.Temperature
		if salinity {
			v = s.Salinity
		}
		if i == 0 || v < min {
			min = v
		}
		if i == 0 || v > max {
			max = v
		}
	}
	return min, max
}

// applyPalette recolors every text and line element of the plot frame.
func applyPalette(p *plot.Plot, pal Palette) {
	p.BackgroundColor = pal.Background
	p.Title.TextStyle.Color = pal.Foreground
	p.Legend.TextStyle.Color = pal.Foreground
	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.LineStyle.Color = pal.Foreground
		ax.Label.TextStyle.Color = pal.Foreground
		ax.Tick.LineStyle.Color = pal.Foreground
		ax.Tick.Label.Color = pal.Foreground
	}
}

// renderPanel draws one panel. firstCol controls whether the pressure axis
// gets its label, matching the original's outer-axes-only labelling.
func renderPanel(panel Panel, spec FrameSpec, pal Palette, firstCol bool) (*plot.Plot, error) {
	interpProfile := panel.Interpolated
	if interpProfile == nil || len(interpProfile.Samples) == 0 {
		return nil, fmt.Errorf("panel %q has no samples to plot", panel.Title)
	}

	varColor := pal.Temperature
	varName := "T"
	xLabel := "Temperature (°C)"
	if panel.Salinity {
		varColor = pal.Salinity
		varName = "S"
		xLabel = "Salinity (g/kg)"
	}

	p := plot.New()
	p.Title.Text = panel.Title
	if spec.Caption != "" {
		p.Title.Text += "\n" + spec.Caption
	}
	p.X.Label.Text = xLabel
	if firstCol {
		p.Y.Label.Text = "Pressure (dbar)"
	}
	applyPalette(p, pal)

	// Full-resolution profile, translucent under the overlay.
	line, err := plotter.NewLine(profileXYs(interpProfile, panel.Salinity))
	if err != nil {
		return nil, fmt.Errorf("failed to create profile line: %w", err)
	}
	line.Color = withAlpha(varColor, 178)
	line.LineStyle.Width = vg.Points(2)
	p.Add(line)
	p.Legend.Add(fmt.Sprintf("Original %s profile", varName), line)

	if panel.ShowMarkers {
		marks, err := plotter.NewScatter(profileXYs(interpProfile, panel.Salinity))
		if err != nil {
			return nil, fmt.Errorf("failed to create profile markers: %w", err)
		}
		marks.GlyphStyle.Color = withAlpha(varColor, 178)
		marks.GlyphStyle.Radius = vg.Points(spec.MarkerRadius / 2)
		marks.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(marks)
	}

	if panel.Subsampled != nil && len(panel.Subsampled.Samples) > 0 {
		if err := addSubsampleOverlay(p, panel, spec, pal, varColor, varName); err != nil {
			return nil, err
		}
	}

	if panel.Inset != nil {
		addDepthBand(p, panel, pal)
	}

	p.Legend.Top = true
	return p, nil
}

// addSubsampleOverlay draws the dashed subsampled profile, its point
// markers, and the sampling guide grid (vertical lines at the sampled
// values, horizontal lines at the sampled depths).
func addSubsampleOverlay(p *plot.Plot, panel Panel, spec FrameSpec, pal Palette, varColor color.Color, varName string) error {
	sub := panel.Subsampled

	dashed, err := plotter.NewLine(profileXYs(sub, panel.Salinity))
	if err != nil {
		return fmt.Errorf("failed to create subsample line: %w", err)
	}
	dashed.Color = varColor
	dashed.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	p.Add(dashed)
	p.Legend.Add(fmt.Sprintf("Subsampled %s profile", varName), dashed)

	points, err := plotter.NewScatter(profileXYs(sub, panel.Salinity))
	if err != nil {
		return fmt.Errorf("failed to create subsample markers: %w", err)
	}
	points.GlyphStyle.Color = varColor
	points.GlyphStyle.Radius = vg.Points(spec.MarkerRadius)
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(points)

	// Guide lines span the depth window when one is set, otherwise the
	// interpolated profile's own bounds.
	depthMin := panel.Interpolated.Samples[0].Depth
	depthMax := panel.Interpolated.Samples[len(panel.Interpolated.Samples)-1].Depth
	if panel.Window != nil {
		depthMin, depthMax = panel.Window.Min, panel.Window.Max
	}
	vMin, vMax := valueRange(panel.Interpolated, panel.Salinity)

	guideVal := withAlpha(varColor, 128)
	guideDepth := withAlpha(pal.Foreground, 128)
	for _, s := range sub.Samples {
		v := s.Temperature
		if panel.Salinity {
			v = s.Salinity
		}
		vline, err := plotter.NewLine(plotter.XYs{{X: v, Y: -depthMax}, {X: v, Y: -depthMin}})
		if err != nil {
			return fmt.Errorf("failed to create guide line: %w", err)
		}
		vline.Color = guideVal
		vline.LineStyle.Width = vg.Points(1)
		vline.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(vline)

		hline, err := plotter.NewLine(plotter.XYs{{X: vMin, Y: -s.Depth}, {X: vMax, Y: -s.Depth}})
		if err != nil {
			return fmt.Errorf("failed to create guide line: %w", err)
		}
		hline.Color = guideDepth
		hline.LineStyle.Width = vg.Points(1)
		hline.LineStyle.Dashes = []vg.Length{vg.Points(1), vg.Points(3)}
		p.Add(hline)
	}
	return nil
}

// addDepthBand marks the inset depth range with a pair of horizontal rules.
// gonum/plot has no nested inset axes, so the zoom region is annotated on
// the main panel instead.
func addDepthBand(p *plot.Plot, panel Panel, pal Palette) {
	vMin, vMax := valueRange(panel.Interpolated, panel.Salinity)
	for _, depth := range []float64{panel.Inset.Min, panel.Inset.Max} {
		rule, err := plotter.NewLine(plotter.XYs{{X: vMin, Y: -depth}, {X: vMax, Y: -depth}})
		if err != nil {
			continue
		}
		rule.Color = pal.Foreground
		rule.LineStyle.Width = vg.Points(1)
		p.Add(rule)
	}
}

// RenderFrame renders one comparison frame with the panels side by side
// and returns it as PNG bytes.
func RenderFrame(spec FrameSpec) ([]byte, error) {
	if len(spec.Panels) == 0 {
		return nil, fmt.Errorf("no panels to render")
	}
	pal := PaletteFor(spec.Dark)

	plots := make([]*plot.Plot, len(spec.Panels))
	for i, panel := range spec.Panels {
		p, err := renderPanel(panel, spec, pal, i == 0)
		if err != nil {
			return nil, err
		}
		plots[i] = p
	}
	return composeRow(plots, pal)
}

// composeRow tiles the plots into a single-row PNG image.
func composeRow(plots []*plot.Plot, pal Palette) ([]byte, error) {
	img := vgimg.NewWith(
		vgimg.UseWH(vg.Points(panelWidth*float64(len(plots))), vg.Points(panelHeight)),
		vgimg.UseBackgroundColor(pal.Background),
	)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 1,
		Cols: len(plots),
		PadX: vg.Points(12),
		PadY: vg.Points(8),
	}
	canvases := plot.Align([][]*plot.Plot{plots}, tiles, dc)
	for i, p := range plots {
		p.Draw(canvases[0][i])
	}

	buf := new(bytes.Buffer)
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to encode frame PNG: %w", err)
	}
	return buf.Bytes(), nil
}
