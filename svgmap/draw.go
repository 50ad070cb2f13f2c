package svgmap

import (
	"image/color"
	"math"

	"golang.org/x/image/colornames"
	"golang.org/x/image/math/fixed"
)

// Given a territory map, implements how to
// draw it on a target surface.
// This requires a driver implementing the actual draw operations,
// such as a rasterizer to output .png images or a pdf writer.

// Drawer knows how to do the actual draw operations
// but doesn't need any map knowledge.
// The points are already mapped to the target surface.
type Drawer interface {
	// Clear must reset the internal state (used before starting a new polygon)
	Clear()

	// Start starts a new path at the given point.
	Start(a fixed.Point26_6)

	// Line adds a line from the current point to `b`
	Line(b fixed.Point26_6)

	// Stop closes the path to the start point if `closeLoop` is true
	Stop(closeLoop bool)

	// SetColor sets the color for the current path
	SetColor(c color.Color, opacity float64)

	// Draw fills or strokes the accumulated path
	Draw()
}

// Stroker is a Drawer able to set the stroke width.
type Stroker interface {
	Drawer

	// SetLineWidth sets the stroke width, in target units
	SetLineWidth(width float64)
}

// Driver provides the drawers used to paint a territory map.
type Driver interface {
	// SetupDrawers returns the backend painters, and
	// will be called at the beginning of every territory.
	// If the `willXXX` boolean is false, the returned drawer may be nil.
	SetupDrawers(willFill, willStroke bool) (Drawer, Stroker)
}

// Labeler is optionally implemented by drivers able to write text.
type Labeler interface {
	Label(text string, at fixed.Point26_6)
}

// Bounds defines a bounding box, such as a viewport
// or a dataset extent.
type Bounds struct{ X, Y, W, H float64 }

// Empty is true if the box has no area.
func (b Bounds) Empty() bool { return b.W <= 0 || b.H <= 0 }

// extent accumulates min/max coordinates
type extent struct {
	minX, minY, maxX, maxY float64
	seen                   bool
}

func (e *extent) add(points []float64) {
	for i := 0; i+1 < len(points); i += 2 {
		x, y := points[i], points[i+1]
		if !e.seen {
			e.minX, e.maxX, e.minY, e.maxY = x, x, y, y
			e.seen = true
			continue
		}
		e.minX, e.maxX = math.Min(e.minX, x), math.Max(e.maxX, x)
		e.minY, e.maxY = math.Min(e.minY, y), math.Max(e.maxY, y)
	}
}

func (e extent) bounds() Bounds {
	if !e.seen {
		return Bounds{}
	}
	return Bounds{X: e.minX, Y: e.minY, W: e.maxX - e.minX, H: e.maxY - e.minY}
}

// Transform maps map coordinates to target coordinates.
type Transform struct {
	Scale  float64
	DX, DY float64
}

// Fit returns the uniform transform placing `b` in a `width` x `height`
// surface, centered, with the given margin on each side.
// The y axis points down, as in the source drawing.
func Fit(b Bounds, width, height, margin float64) Transform {
	w, h := width-2*margin, height-2*margin
	scale := 1.
	switch {
	case b.W > 0 && b.H > 0:
		scale = math.Min(w/b.W, h/b.H)
	case b.W > 0:
		scale = w / b.W
	case b.H > 0:
		scale = h / b.H
	}
	return Transform{
		Scale: scale,
		DX:    margin + (w-b.W*scale)/2 - b.X*scale,
		DY:    margin + (h-b.H*scale)/2 - b.Y*scale,
	}
}

// Apply returns the target coordinates of (x, y).
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.Scale + t.DX, y*t.Scale + t.DY
}

func (t Transform) fixed(x, y float64) fixed.Point26_6 {
	x, y = t.Apply(x, y)
	return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
}

// Style controls how territories are painted.
type Style struct {
	// Palette gives the fill color of the groups, in order, cycling.
	// An empty palette disables filling.
	Palette     []color.Color
	FillOpacity float64

	// Outline is the stroke color, nil to disable stroking.
	Outline   color.Color
	LineWidth float64

	// Labels enables territory labels, for drivers implementing Labeler.
	Labels bool
}

// DefaultPalette is used by DefaultStyle.
var DefaultPalette = []color.Color{
	colornames.Steelblue, colornames.Indianred, colornames.Olivedrab,
	colornames.Goldenrod, colornames.Mediumpurple, colornames.Teal,
	colornames.Sandybrown, colornames.Slategray,
}

// DefaultStyle fills with DefaultPalette and strokes in black.
var DefaultStyle = Style{
	Palette:     DefaultPalette,
	FillOpacity: 0.8,
	Outline:     colornames.Black,
	LineWidth:   1,
}

// GroupColor returns the palette color of the i-th group, or nil.
func (s Style) GroupColor(i int) color.Color {
	if len(s.Palette) == 0 {
		return nil
	}
	return s.Palette[i%len(s.Palette)]
}

func (t Transform) path(d Drawer, points []float64) {
	d.Start(t.fixed(points[0], points[1]))
	for i := 2; i+1 < len(points); i += 2 {
		d.Line(t.fixed(points[i], points[i+1]))
	}
	d.Stop(true)
}

// centroid returns the mean of the vertices.
func centroid(points []float64) (x, y float64) {
	n := len(points) / 2
	for i := 0; i < n; i++ {
		x += points[2*i]
		y += points[2*i+1]
	}
	return x / float64(n), y / float64(n)
}

// Draw paints every territory of the map with the given driver,
// group after group.
// Polygons with less than two points are skipped.
func Draw(m *TerritoryMap, d Driver, tr Transform, style Style) error {
	labeler, _ := d.(Labeler)
	for i, g := range m.Groups() {
		fillColor := style.GroupColor(i)
		for _, t := range g.Territories {
			points, err := t.Polygon.Points()
			if err != nil {
				return &PathError{Group: g.Label, Territory: t.Label, Err: err}
			}
			if len(points) < 4 {
				continue
			}
			willFill, willStroke := fillColor != nil, style.Outline != nil
			filler, stroker := d.SetupDrawers(willFill, willStroke)
			if willFill && filler != nil {
				filler.Clear()
				filler.SetColor(fillColor, style.FillOpacity)
				tr.path(filler, points)
				filler.Draw()
			}
			if willStroke && stroker != nil {
				stroker.Clear()
				stroker.SetLineWidth(style.LineWidth)
				stroker.SetColor(style.Outline, 1)
				tr.path(stroker, points)
				stroker.Draw()
			}
			if style.Labels && labeler != nil {
				labeler.Label(t.Label, tr.fixed(centroid(points)))
			}
		}
	}
	return nil
}
