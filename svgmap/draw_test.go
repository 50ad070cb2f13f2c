package svgmap

import (
	"image/color"
	"testing"

	"github.com/benoitkugler/svgmap/svgpath"
	"golang.org/x/image/math/fixed"
)

type recorder struct {
	name   string
	ops    *[]string
	points *[]fixed.Point26_6
}

func (r recorder) Clear()                  { *r.ops = append(*r.ops, r.name+" clear") }
func (r recorder) Start(a fixed.Point26_6) { *r.ops = append(*r.ops, r.name+" start"); *r.points = append(*r.points, a) }
func (r recorder) Line(b fixed.Point26_6)  { *r.ops = append(*r.ops, r.name+" line"); *r.points = append(*r.points, b) }
func (r recorder) Stop(closeLoop bool)     { *r.ops = append(*r.ops, r.name+" stop") }
func (r recorder) SetColor(color.Color, float64) {
	*r.ops = append(*r.ops, r.name+" color")
}
func (r recorder) Draw()                { *r.ops = append(*r.ops, r.name+" draw") }
func (r recorder) SetLineWidth(float64) { *r.ops = append(*r.ops, r.name+" width") }

type recordingDriver struct {
	ops    []string
	points []fixed.Point26_6
	labels []string
}

func (d *recordingDriver) SetupDrawers(willFill, willStroke bool) (Drawer, Stroker) {
	var (
		f Drawer
		s Stroker
	)
	if willFill {
		f = recorder{"fill", &d.ops, &d.points}
	}
	if willStroke {
		s = recorder{"stroke", &d.ops, &d.points}
	}
	return f, s
}

func (d *recordingDriver) Label(text string, _ fixed.Point26_6) { d.labels = append(d.labels, text) }

func TestFit(t *testing.T) {
	tr := Fit(Bounds{W: 10, H: 20}, 100, 100, 0)
	if tr.Scale != 5 {
		t.Errorf("unexpected scale %g", tr.Scale)
	}
	if x, y := tr.Apply(10, 20); x != 75 || y != 100 {
		t.Errorf("unexpected point (%g, %g)", x, y)
	}
	if x, y := tr.Apply(0, 0); x != 25 || y != 0 {
		t.Errorf("unexpected point (%g, %g)", x, y)
	}

	tr = Fit(Bounds{X: 10, Y: 10, W: 10}, 120, 50, 10)
	if x, y := tr.Apply(10, 10); x != 10 || y != 25 {
		t.Errorf("unexpected point (%g, %g)", x, y)
	}
}

func TestDraw(t *testing.T) {
	m := NewTerritoryMap()
	m.Set("g", "square", svgpath.NewPolygon([]float64{0, 0, 1, 0, 1, 1, 0, 0}))
	m.Set("g", "dot", svgpath.NewPolygon([]float64{3, 3}))

	var d recordingDriver
	style := DefaultStyle
	style.Labels = true
	if err := Draw(m, &d, Transform{Scale: 1}, style); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"fill clear", "fill color", "fill start", "fill line", "fill line", "fill line", "fill stop", "fill draw",
		"stroke clear", "stroke width", "stroke color", "stroke start", "stroke line", "stroke line", "stroke line", "stroke stop", "stroke draw",
	}
	if len(d.ops) != len(want) {
		t.Fatalf("expected %v, got %v", want, d.ops)
	}
	for i := range want {
		if d.ops[i] != want[i] {
			t.Errorf("op %d: expected %s, got %s", i, want[i], d.ops[i])
		}
	}
	if d.points[2] != (fixed.Point26_6{X: 64, Y: 64}) {
		t.Errorf("unexpected point %v", d.points[2])
	}
	if len(d.labels) != 1 || d.labels[0] != "square" {
		t.Errorf("unexpected labels %v", d.labels)
	}

	d = recordingDriver{}
	if err := Draw(m, &d, Transform{Scale: 1}, Style{}); err != nil {
		t.Fatal(err)
	}
	if len(d.ops) != 0 {
		t.Errorf("nothing should be drawn, got %v", d.ops)
	}
}
