// Implements a PDF backend to render territory maps,
// by wrapping github.com/jung-kurt/gofpdf.
package svgpdf

import (
	"image/color"
	"io"

	"github.com/benoitkugler/svgmap/svgmap"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/math/fixed"
)

// assert interface conformance
var (
	_ svgmap.Driver  = (*Renderer)(nil)
	_ svgmap.Labeler = (*Renderer)(nil)
	_ svgmap.Drawer  = filler{}
	_ svgmap.Stroker = stroker{}
)

type Renderer struct {
	pdf      *gofpdf.Fpdf
	tr       func(string) string // font encoding
	fontSize float64

	path *pather // last path, used to fit the labels
}

// implements the common path commands,
// shared by the filler and the stroker
type pather struct {
	pdf         *gofpdf.Fpdf
	a           fixed.Point26_6     // current point, used to compute boundingBox
	boundingBox fixed.Rectangle26_6 // bounding box for the current path
}

// implements the filling operation
type filler struct {
	*pather
}

// implements the stroking operation
type stroker struct {
	*pather
}

// NewRenderer returns a renderer which will
// write to the given `pdf`. Labels use the current font of `pdf`,
// with at most `fontSize` points.
func NewRenderer(pdf *gofpdf.Fpdf, fontSize float64) *Renderer {
	return &Renderer{
		pdf:      pdf,
		tr:       pdf.UnicodeTranslatorFromDescriptor(""),
		fontSize: fontSize,
		path:     &pather{pdf: pdf},
	}
}

// SetupDrawers implements svgmap.Driver.
func (r *Renderer) SetupDrawers(willFill, willStroke bool) (svgmap.Drawer, svgmap.Stroker) {
	var (
		f svgmap.Drawer
		s svgmap.Stroker
	)
	if willFill {
		f = filler{r.path}
	}
	if willStroke {
		s = stroker{r.path}
	}
	return f, s
}

func fixedTof(a fixed.Point26_6) (float64, float64) {
	return float64(a.X) / 64, float64(a.Y) / 64
}

func toRGB(c color.Color) (r, g, b int, alpha float64) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return int(n.R), int(n.G), int(n.B), float64(n.A) / 255
}

func (p *pather) Clear() {
	p.boundingBox = fixed.Rectangle26_6{}
	p.a = fixed.Point26_6{}
}

func (p *pather) Start(a fixed.Point26_6) {
	p.pdf.MoveTo(fixedTof(a))
	p.a = a
	p.boundingBox = fixed.Rectangle26_6{Min: a, Max: a} // degenerate case
}

func (p *pather) Line(b fixed.Point26_6) {
	p.pdf.LineTo(fixedTof(b))
	p.boundingBox = p.boundingBox.Union(segmentBox(p.a, b))
	p.a = b
}

func (p *pather) Stop(closeLoop bool) {
	if closeLoop {
		p.pdf.ClosePath()
	}
}

func (f filler) SetColor(c color.Color, opacity float64) {
	r, g, b, a := toRGB(c)
	f.pdf.SetFillColor(r, g, b)
	f.pdf.SetAlpha(a*opacity, "")
}

func (f filler) Draw() {
	f.pdf.DrawPath("F")
}

func (s stroker) SetColor(c color.Color, opacity float64) {
	r, g, b, a := toRGB(c)
	s.pdf.SetDrawColor(r, g, b)
	s.pdf.SetAlpha(a*opacity, "")
}

func (s stroker) SetLineWidth(width float64) {
	s.pdf.SetLineWidth(width)
}

func (s stroker) Draw() {
	s.pdf.DrawPath("D")
}

// Label writes `text` centered on `at`, shrinking the font
// so that the text fits in the last drawn territory.
func (r *Renderer) Label(text string, at fixed.Point26_6) {
	text = r.tr(text)
	size := r.fontSize
	r.pdf.SetFontSize(size)
	width := r.pdf.GetStringWidth(text)
	if boxW := float64(r.path.boundingBox.Max.X-r.path.boundingBox.Min.X) / 64; width > boxW && boxW > 0 {
		size = labelSize(size, width, boxW)
		r.pdf.SetFontSize(size)
		width = r.pdf.GetStringWidth(text)
	}
	x, y := fixedTof(at)
	r.pdf.SetAlpha(1, "")
	r.pdf.Text(x-width/2, y+size/3, text) // roughly centered on the x-height
}

// Options defines the output document.
type Options struct {
	Width, Height float64 // page size, in points
	Margin        float64
	FontSize      float64 // 0 disables labels
	Style         svgmap.Style
}

// DefaultOptions renders a landscape A4 page with labels.
var DefaultOptions = Options{Width: 842, Height: 595, Margin: 20, FontSize: 8, Style: svgmap.DefaultStyle}

// NewDocument renders the map on a single page, fitted to the map bounds.
func NewDocument(m *svgmap.TerritoryMap, opts Options) (*gofpdf.Fpdf, error) {
	bounds, err := m.Bounds()
	if err != nil {
		return nil, err
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: opts.Width, Ht: opts.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", opts.FontSize)

	style := opts.Style
	style.Labels = opts.FontSize > 0
	tr := svgmap.Fit(bounds, opts.Width, opts.Height, opts.Margin)
	if err = svgmap.Draw(m, NewRenderer(pdf, opts.FontSize), tr, style); err != nil {
		return nil, err
	}
	return pdf, pdf.Error()
}

// RenderPDF renders the map into the given file.
func RenderPDF(m *svgmap.TerritoryMap, filename string, opts Options) error {
	pdf, err := NewDocument(m, opts)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(filename)
}

// WritePDF renders the map to `out`.
func WritePDF(out io.Writer, m *svgmap.TerritoryMap, opts Options) error {
	pdf, err := NewDocument(m, opts)
	if err != nil {
		return err
	}
	return pdf.Output(out)
}
