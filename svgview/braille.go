package svgview

import (
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/benoitkugler/svgmap/svgmap"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/math/fixed"
)

var _ svgmap.Driver = (*canvas)(nil) // assert interface conformance

// brailleBuf is a grid of braille cells, each one holding
// 2x4 micro pixels.
type brailleBuf struct {
	w, h  int       // in cells
	m     [][]uint8 // per-cell 8-bit mask
	color [][]string
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	c := make([][]string, h)
	for i := range m {
		m[i] = make([]uint8, w)
		c[i] = make([]string, w)
	}
	return &brailleBuf{w: w, h: h, m: m, color: c}
}

// dots gives the bit of each micro pixel, indexed by [ry][rx]
var dots = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell).
// A non empty color is recorded for the whole cell.
func (b *brailleBuf) setPixel(mx, my int, color string) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= dots[my%4][mx%2]
	if color != "" {
		b.color[cy][cx] = color
	}
}

// clipLine restricts the segment to the microgrid, using the
// Liang-Barsky algorithm. It returns false if nothing is visible.
func (b *brailleBuf) clipLine(x0, y0, x1, y1 int) (int, int, int, int, bool) {
	maxX, maxY := float64(2*b.w-1), float64(4*b.h-1)
	if maxX < 0 || maxY < 0 {
		return 0, 0, 0, 0, false
	}
	fx0, fy0 := float64(x0), float64(y0)
	dx, dy := float64(x1-x0), float64(y1-y0)
	t0, t1 := 0., 1.
	for _, edge := range [4][2]float64{
		{-dx, fx0}, {dx, maxX - fx0},
		{-dy, fy0}, {dy, maxY - fy0},
	} {
		p, q := edge[0], edge[1]
		if p == 0 {
			if q < 0 { // parallel and outside
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			t0 = math.Max(t0, r)
		} else {
			t1 = math.Min(t1, r)
		}
		if t0 > t1 {
			return 0, 0, 0, 0, false
		}
	}
	return int(math.Round(fx0 + t0*dx)), int(math.Round(fy0 + t0*dy)),
		int(math.Round(fx0 + t1*dx)), int(math.Round(fy0 + t1*dy)), true
}

// drawLineMicro draws a line on the microgrid using Bresenham,
// after clipping it to the grid.
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int, color string) {
	x0, y0, x1, y1, ok := b.clipLine(x0, y0, x1, y1)
	if !ok {
		return
	}
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// fillMicro paints the inside of the ring, using the even-odd rule per scanline.
func (b *brailleBuf) fillMicro(ring [][2]int, color string) {
	if len(ring) < 3 {
		return
	}
	minY, maxY := ring[0][1], ring[0][1]
	for _, p := range ring {
		minY, maxY = min(minY, p[1]), max(maxY, p[1])
	}
	minY, maxY = max(minY, 0), min(maxY, 4*b.h-1)
	var xs []int
	for y := minY; y <= maxY; y++ {
		xs = xs[:0]
		for i := range ring {
			a, c := ring[i], ring[(i+1)%len(ring)]
			if a[1] == c[1] { // horizontal edge: skip
				continue
			}
			if (y >= a[1] && y < c[1]) || (y >= c[1] && y < a[1]) {
				t := float64(y-a[1]) / float64(c[1]-a[1])
				xs = append(xs, a[0]+int(t*float64(c[0]-a[0])))
			}
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := max(0, xs[i]); x <= xs[i+1] && x < 2*b.w; x++ {
				b.setPixel(x, y, color)
			}
		}
	}
}

func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		var row strings.Builder
		for x := 0; x < b.w; x++ {
			mask := b.m[y][x]
			if mask == 0 {
				row.WriteByte(' ')
				continue
			}
			r := string(rune(0x2800 + int(mask)))
			if c := b.color[y][x]; c != "" {
				r = lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(r)
			}
			row.WriteString(r)
		}
		out[y] = row.String()
	}
	return out
}

func (b *brailleBuf) String() string { return strings.Join(b.toLines(), "\n") }

// canvas adapts a brailleBuf to svgmap.Driver.
// Its target units are micro pixels.
type canvas struct {
	buf *brailleBuf
}

func (c canvas) SetupDrawers(willFill, willStroke bool) (svgmap.Drawer, svgmap.Stroker) {
	var (
		f svgmap.Drawer
		s svgmap.Stroker
	)
	if willFill {
		f = &filler{pather: pather{buf: c.buf}}
	}
	if willStroke {
		s = &stroker{pather: pather{buf: c.buf}}
	}
	return f, s
}

// pather accumulates the points of a ring, rounded to micro pixels.
type pather struct {
	buf   *brailleBuf
	ring  [][2]int
	color string
}

func (p *pather) Clear() { p.ring = p.ring[:0] }

func (p *pather) Start(a fixed.Point26_6) { p.Line(a) }

func (p *pather) Line(b fixed.Point26_6) {
	p.ring = append(p.ring, [2]int{b.X.Round(), b.Y.Round()})
}

func (p *pather) Stop(closeLoop bool) {}

func (p *pather) SetColor(c color.Color, opacity float64) { p.color = hexColor(c) }

type filler struct{ pather }

func (f *filler) Draw() { f.buf.fillMicro(f.ring, f.color) }

type stroker struct{ pather }

func (s *stroker) SetLineWidth(float64) {}

// Draw traces the edges without changing the cell colors,
// so that the fill color of the territory is kept.
func (s *stroker) Draw() {
	r := s.ring
	for i := range r {
		a, b := r[i], r[(i+1)%len(r)]
		s.buf.drawLineMicro(a[0], a[1], b[0], b[1], "")
	}
}

func hexColor(c color.Color) string {
	if c == nil {
		return ""
	}
	const hex = "0123456789ABCDEF"
	r, g, b, _ := c.RGBA()
	out := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range [3]uint32{r >> 8, g >> 8, b >> 8} {
		out[1+2*i] = hex[v>>4]
		out[2+2*i] = hex[v&0xF]
	}
	return string(out)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
