package report

import (
	"bytes"
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/user/itp_profiler_go/internal/parser"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
)

// Longest subsample table before it is cut off with a row-count note.
const maxTableRows = 40

// pdfStyler holds reusable styling and state for PDF generation
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func() // map of style name to function that sets font, color etc.
	lineHeight  float64
	currentY    float64 // To manually track Y position for flowing content
	pageHeight  float64
	contentTopY float64 // Top Y after margin
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6,                                        // mm, default line height
		pageHeight:  pdfPageHeightLandscape - (2 * pdfMargin), // Usable height
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200) // Light grey
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]() // Default
	}
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.pdf.AddPage()
		s.currentY = s.contentTopY
	}
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	_, fontHeight := s.pdf.GetFontSize()
	estimatedHeight := math.Max(fontHeight, s.lineHeight)

	s.checkAddPage(estimatedHeight)

	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() // Update Y based on what MultiCell consumed
	s.currentY += 1           // Small gap after paragraph
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
	if s.currentY > s.pageHeight { // If spacer itself causes overflow
		s.pdf.AddPage()
		s.currentY = s.contentTopY
	}
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width float64, height float64, caption string) {
	s.pdf.RegisterImageReader(imageName, "PNG", bytes.NewReader(imageBytes))

	if width > pdfContentWidth {
		ratio := pdfContentWidth / width
		width = pdfContentWidth
		height *= ratio
	}

	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	s.pdf.Image(imageName, pdfMargin, s.currentY, width, height, false, "PNG", 0, "")
	s.currentY += height

	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, "normal", "C") // Centered caption
	}
	s.addSpacer(2)
}

func (s *pdfStyler) writeTableRow(widths []float64, cells []string, styleName string) {
	s.checkAddPage(s.lineHeight)
	x := pdfMargin
	fill := styleName == "tableHeader"
	for i, cell := range cells {
		s.pdf.SetXY(x, s.currentY)
		s.applyStyle(styleName)
		s.pdf.CellFormat(widths[i], s.lineHeight, cell, "1", 0, "C", fill, 0, "")
		x += widths[i]
	}
	s.currentY += s.lineHeight
}

// RunSummary carries the parameters of the run the report describes.
type RunSummary struct {
	Title      string
	Resolution float64
	Stride     int
	Profiles   []string // one descriptive line per plotted profile
}

// BuildPDFReport creates the PDF summary: run parameters, the rendered
// comparison plot, and the offset-zero subsampled points.
func BuildPDFReport(filepath string, summary RunSummary, plotImage []byte, rows []parser.SubsampleRow) error {
	pdf := gofpdf.New("L", "mm", "Letter", "") // Landscape, mm, Letter size
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.AddPage()

	styler := newPDFStyler(pdf)

	styler.writeParagraph(summary.Title, "h1", "C")
	styler.addSpacer(3)
	styler.writeParagraph(fmt.Sprintf("Subsample resolution: %g m, stride: %d (interpolation spacing %g m)",
		summary.Resolution, summary.Stride, summary.Resolution/float64(summary.Stride)), "normal", "L")
	for _, line := range summary.Profiles {
		styler.writeParagraph(line, "normal", "L")
	}
	styler.addSpacer(5)

	if len(plotImage) > 0 {
		// Frames are rendered wider than tall; scale to the content width.
		w := pdfContentWidth
		h := w * float64(panelHeight) / float64(panelWidth*max(1, len(summary.Profiles)))
		styler.addImage(plotImage, "comparison_plot", w, h, "Comparison at phase offset 0")
	}

	if len(rows) > 0 {
		styler.pdf.AddPage()
		styler.currentY = styler.contentTopY
		styler.writeParagraph("Subsampled points (phase offset 0)", "h2", "L")

		headers := []string{"Instrument", "ID", "Profile", "Offset", "Pressure", "Temperature", "Salinity"}
		colWidthsRel := []float64{0.16, 0.12, 0.12, 0.1, 0.16, 0.17, 0.17}
		widths := make([]float64, len(colWidthsRel))
		for i, rel := range colWidthsRel {
			widths[i] = rel * pdfContentWidth
		}

		styler.writeTableRow(widths, headers, "tableHeader")
		shown := rows
		if len(shown) > maxTableRows {
			shown = shown[:maxTableRows]
		}
		for _, r := range shown {
			styler.writeTableRow(widths, []string{
				r.Instrument,
				r.InstrumentID,
				r.ProfileNumber,
				fmt.Sprintf("%d", r.Offset),
				fmt.Sprintf("%.3f", r.Sample.Depth),
				fmt.Sprintf("%.4f", r.Sample.Temperature),
				fmt.Sprintf("%.4f", r.Sample.Salinity),
			}, "tableCell")
		}
		if len(rows) > maxTableRows {
			styler.addSpacer(1)
			styler.writeParagraph(fmt.Sprintf("... and %d more rows", len(rows)-maxTableRows), "normal", "L")
		}
	}

	return pdf.OutputFileAndClose(filepath)
}
