package svgmap

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/benoitkugler/svgmap/svgpath"
)

const header = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
`

func extractString(t *testing.T, body string, opts Options) (*TerritoryMap, Report, error) {
	t.Helper()
	tree, err := ReadTree(strings.NewReader(header + body + "</svg>"))
	if err != nil {
		t.Fatal(err)
	}
	return Extract(tree, opts)
}

func mustExtract(t *testing.T, body string, opts Options) (*TerritoryMap, Report) {
	t.Helper()
	m, r, err := extractString(t, body, opts)
	if err != nil {
		t.Fatal(err)
	}
	return m, r
}

func TestExtract(t *testing.T) {
	m, report := mustExtract(t, `
	<g inkscape:label="Europe">
		<path inkscape:label="France" d="M 0,0 L 10,10 Z"/>
		<path inkscape:label="Spain" d="m 5,5 l 5,0"/>
		<path inkscape:label="Empty" d=""/>
	</g>
	<g>
		<path d="M 1 1 H 2"/>
	</g>`, Options{})

	var buf bytes.Buffer
	if err := m.WriteJSON(&buf, DefaultIndent); err != nil {
		t.Fatal(err)
	}
	want := `{
    "Europe": {
        "France": [
            "0.00, 0.00, 10.00, 10.00, 0.00, 0.00"
        ],
        "Spain": [
            "5.00, 5.00, 10.00, 5.00"
        ]
    },
    "Unknown": {
        "Unknown": [
            "1.00, 1.00, 2.00, 1.00"
        ]
    }
}`
	if buf.String() != want {
		t.Errorf("expected\n%s\ngot\n%s", want, buf.String())
	}

	if len(report.Warnings) != 3 || report.Count(EmptyPath) != 1 || report.Count(MissingLabel) != 2 {
		t.Errorf("unexpected report %v", report.Warnings)
	}
	if w := report.Warnings[0]; w.Group != "Europe" || w.Territory != "Empty" {
		t.Errorf("unexpected warning %v", w)
	}
}

func TestExtractNested(t *testing.T) {
	m, _ := mustExtract(t, `
	<g inkscape:label="A">
		<path inkscape:label="a" d="M 0 0"/>
		<g inkscape:label="B">
			<path inkscape:label="b" d="M 1 1"/>
		</g>
	</g>`, Options{})

	groups := m.Groups()
	if len(groups) != 2 || groups[0].Label != "A" || groups[1].Label != "B" {
		t.Fatalf("unexpected groups %v", groups)
	}
	// a group collects every descendant path
	if len(groups[0].Territories) != 2 || len(groups[1].Territories) != 1 {
		t.Errorf("unexpected territories %v %v", groups[0].Territories, groups[1].Territories)
	}
}

func TestExtractLabels(t *testing.T) {
	m, _ := mustExtract(t, `
	<g inkscape:label="">
		<path label="plain" id="p1" d="M 0 0"/>
	</g>
	<x:g xmlns:x="urn:other" inkscape:label="Other">
		<path inkscape:label="o" d="M 0 0"/>
	</x:g>`, Options{Fallback: "?"})

	// an empty label is kept, only a missing one is replaced
	if _, ok := m.Get("", "?"); !ok || m.Len() != 1 {
		t.Errorf("unexpected map %v", m.Groups())
	}

	m, _ = mustExtract(t, `
	<g id="g1"><path id="p1" d="M 0 0"/></g>`, Options{LabelAttr: "id"})
	if _, ok := m.Get("g1", "p1"); !ok {
		t.Errorf("expected id labels, got %v", m.Groups())
	}

	// a namespace alone keeps the "label" local name
	m, _ = mustExtract(t, `
	<g xmlns:my="urn:labels" my:label="G" inkscape:label="ignored">
		<path my:label="T" d="M 0 0"/>
	</g>`, Options{LabelSpace: "urn:labels"})
	if _, ok := m.Get("G", "T"); !ok || m.Len() != 1 {
		t.Errorf("expected urn:labels labels, got %v", m.Groups())
	}
}

func TestExtractDuplicates(t *testing.T) {
	const body = `
	<g inkscape:label="A">
		<path inkscape:label="t" d="M 0 0"/>
		<path inkscape:label="t" d="M 1 1"/>
		<path inkscape:label="u" d="M 2 2"/>
	</g>
	<g inkscape:label="B"><path inkscape:label="v" d="M 0 0"/></g>
	<g inkscape:label="A"><path inkscape:label="w" d="M 3 3"/></g>`

	m, report := mustExtract(t, body, Options{})
	if report.Count(DuplicateTerritory) != 1 || report.Count(DuplicateGroup) != 1 {
		t.Errorf("unexpected report %v", report.Warnings)
	}
	groups := m.Groups()
	if len(groups) != 2 || groups[0].Label != "A" || groups[1].Label != "B" {
		t.Fatalf("unexpected groups %v", groups)
	}
	if ts := groups[0].Territories; len(ts) != 1 || ts[0].Label != "w" {
		t.Errorf("the reused group should restart from empty, got %v", ts)
	}

	m, _ = mustExtract(t, `<g inkscape:label="A">
		<path inkscape:label="t" d="M 0 0"/>
		<path inkscape:label="u" d="M 2 2"/>
		<path inkscape:label="t" d="M 1 1"/>
	</g>`, Options{})
	ts := m.Group("A").Territories
	if len(ts) != 2 || ts[0].Label != "t" || ts[0].Polygon.String() != "1.00, 1.00" {
		t.Errorf("the last territory should win at the first position, got %v", ts)
	}

	_, _, err := extractString(t, body, Options{Strict: true})
	var dup *DuplicateError
	if !errors.As(err, &dup) || dup.Kind != DuplicateTerritory || dup.Territory != "t" {
		t.Errorf("expected a duplicate error, got %v", err)
	}
}

func TestExtractPathError(t *testing.T) {
	const body = `<g inkscape:label="A"><path inkscape:label="curve" d="M 0 0 C 1 1 2 2 3 3"/></g>`
	_, _, err := extractString(t, body, Options{Mode: svgpath.StrictErrorMode})
	var pathErr *PathError
	if !errors.As(err, &pathErr) || pathErr.Group != "A" || pathErr.Territory != "curve" {
		t.Fatalf("expected a path error, got %v", err)
	}
	var cmdErr *svgpath.UnsupportedCommandError
	if !errors.As(err, &cmdErr) {
		t.Errorf("expected the cause to be kept, got %v", err)
	}

	m, _ := mustExtract(t, body, Options{Mode: svgpath.IgnoreErrorMode})
	if p, _ := m.Get("A", "curve"); p.String() != "0.00, 0.00, 1.00, 1.00, 2.00, 2.00, 3.00, 3.00" {
		t.Errorf("unexpected ignore mode output %s", p)
	}
}

func TestReadTreeCharset(t *testing.T) {
	src := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		`<svg xmlns="http://www.w3.org/2000/svg" xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">` +
		"<g inkscape:label=\"Outre-mer\"><path inkscape:label=\"R\xe9union\" d=\"M 0 0\"/></g></svg>"
	tree, err := ReadTree(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	m, _, err := Extract(tree, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Get("Outre-mer", "Réunion"); !ok {
		t.Errorf("label not decoded: %v", m.Group("Outre-mer").Territories)
	}
}

func TestReadTreeInvalid(t *testing.T) {
	for _, src := range []string{"", "not xml", "<svg"} {
		if _, err := ReadTree(strings.NewReader(src)); err == nil {
			t.Errorf("%q: expected error", src)
		}
	}
}

type fakeNode map[string]string

func (n fakeNode) Attr(space, local string) (string, bool) {
	v, ok := n[space+" "+local]
	return v, ok
}

type fakeGroup struct {
	fakeNode
	paths []Node
}

func (g fakeGroup) Paths() []Node { return g.paths }

type fakeTree []Group

func (t fakeTree) Groups() []Group { return t }

func TestExtractCustomTree(t *testing.T) {
	tree := fakeTree{fakeGroup{
		fakeNode: fakeNode{InkscapeNamespace + " label": "g"},
		paths: []Node{
			fakeNode{InkscapeNamespace + " label": "t", " d": "M 1 2 3 4"},
		},
	}}
	m, _, err := Extract(tree, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if p, _ := m.Get("g", "t"); p.String() != "1.00, 2.00, 3.00, 4.00" {
		t.Errorf("unexpected polygon %v", p)
	}
}
