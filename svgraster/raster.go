// Implements a raster backend to render territory maps,
// by wrapping rasterx.
package svgraster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/benoitkugler/svgmap/svgmap"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

var _ svgmap.Driver = (*Renderer)(nil) // assert interface conformance

type Renderer struct {
	dasher *rasterx.Dasher // to avoid shared state
	filler *rasterx.Filler // we use separated instance
}

// NewRenderer returns a renderer with default values.
// If scanner is nil, a default scanner rasterx.ScannerGV is used,
// painting on a new image of the given size.
func NewRenderer(width, height int, scanner rasterx.Scanner) *Renderer {
	if scanner == nil {
		img := image.NewRGBA(image.Rect(0, 0, width, height))
		scanner = rasterx.NewScannerGV(width, height, img, img.Bounds())
	}
	return &Renderer{dasher: rasterx.NewDasher(width, height, scanner), filler: rasterx.NewFiller(width, height, scanner)}
}

// SetupDrawers implements svgmap.Driver.
func (rd *Renderer) SetupDrawers(willFill, willStroke bool) (svgmap.Drawer, svgmap.Stroker) {
	var (
		f svgmap.Drawer
		s svgmap.Stroker
	)
	if willFill {
		f = filler{rd.filler}
	}
	if willStroke {
		s = stroker{rd.dasher}
	}
	return f, s
}

type filler struct{ *rasterx.Filler }

func (f filler) SetColor(c color.Color, opacity float64) {
	f.Scanner.SetColor(rasterx.ApplyOpacity(c, opacity))
}

type stroker struct{ *rasterx.Dasher }

func (s stroker) SetColor(c color.Color, opacity float64) {
	s.Scanner.SetColor(rasterx.ApplyOpacity(c, opacity))
}

func (s stroker) SetLineWidth(width float64) {
	s.SetStroke(fixed.Int26_6(width*64), 4<<6, rasterx.RoundCap, nil, rasterx.RoundGap, rasterx.Round, nil, 0)
}

// Options defines the output image.
type Options struct {
	Width, Height int
	Margin        float64     // in pixels, on each side
	Background    color.Color // nil for a transparent image
	Style         svgmap.Style
}

// DefaultOptions renders a 1024x768 image on a white background.
var DefaultOptions = Options{Width: 1024, Height: 768, Margin: 8, Background: color.White, Style: svgmap.DefaultStyle}

// RenderPNG uses a ScannerGV instance to render the
// map into an image, fitted to its bounds, and returns it.
func RenderPNG(m *svgmap.TerritoryMap, opts Options) (*image.RGBA, error) {
	bounds, err := m.Bounds()
	if err != nil {
		return nil, err
	}
	w, h := opts.Width, opts.Height
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if opts.Background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	renderer := NewRenderer(w, h, scanner)
	tr := svgmap.Fit(bounds, float64(w), float64(h), opts.Margin)
	if err = svgmap.Draw(m, renderer, tr, opts.Style); err != nil {
		return nil, err
	}
	return img, nil
}

// WritePNG renders the map and encodes it to `out`.
func WritePNG(out io.Writer, m *svgmap.TerritoryMap, opts Options) error {
	img, err := RenderPNG(m, opts)
	if err != nil {
		return err
	}
	return png.Encode(out, img)
}

// WritePNGFile is the same as WritePNG, for a file.
func WritePNGFile(filename string, m *svgmap.TerritoryMap, opts Options) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if errC := f.Close(); err == nil {
			err = errC
		}
	}()
	return WritePNG(f, m, opts)
}
