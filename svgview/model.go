// Implements a terminal preview of a territory map,
// drawn with braille characters, as a bubbletea program.
package svgview

import (
	"fmt"
	"image/color"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/benoitkugler/svgmap/svgmap"
)

const (
	sidebarWidth = 28
	maxZoom      = 64
	minZoom      = 0.05
)

type groupItem struct {
	label   string
	count   int
	visible bool
}

func (g groupItem) Title() string {
	mark := "●"
	if !g.visible {
		mark = "○"
	}
	return mark + " " + g.label
}

func (g groupItem) Description() string { return fmt.Sprintf("%d territories", g.count) }
func (g groupItem) FilterValue() string { return g.label }

// Model is the bubbletea model of the viewer.
type Model struct {
	width  int
	height int

	title string
	data  *svgmap.TerritoryMap
	box   svgmap.Bounds
	style svgmap.Style

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	groups list.Model
	hidden map[string]bool

	status string
}

// New returns a viewer for `m`, titled with `title`
// (usually the file name). The map must not be modified
// while the program runs.
func New(m *svgmap.TerritoryMap, title string) Model {
	out := Model{
		title:       title,
		data:        m,
		style:       svgmap.DefaultStyle,
		showSidebar: true,
		helpVisible: true,
		zoom:        1,
		hidden:      make(map[string]bool),
	}
	box, err := m.Bounds()
	if err != nil {
		out.status = err.Error()
	} else {
		out.box = box
		out.status = fmt.Sprintf("%d groups, %d territories", len(m.Groups()), m.Len())
	}

	var items []list.Item
	for _, g := range m.Groups() {
		items = append(items, groupItem{label: g.Label, count: len(g.Territories), visible: true})
	}
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	out.groups = list.New(items, d, sidebarWidth-2, 10)
	out.groups.Title = "Groups"
	out.groups.SetShowHelp(false)
	out.groups.SetShowStatusBar(false)
	out.groups.SetFilteringEnabled(false)
	return out
}

func (m Model) Init() tea.Cmd { return nil }

// visible returns the map restricted to the visible groups,
// with the palette matching the colors of the full map.
func (m Model) visible() (*svgmap.TerritoryMap, svgmap.Style) {
	style := m.style
	if len(m.hidden) == 0 {
		return m.data, style
	}
	out := svgmap.NewTerritoryMap()
	var palette []color.Color
	for i, g := range m.data.Groups() {
		if m.hidden[g.Label] {
			continue
		}
		for _, t := range g.Territories {
			out.Set(g.Label, t.Label, t.Polygon)
		}
		if len(style.Palette) != 0 {
			palette = append(palette, style.GroupColor(i))
		}
	}
	style.Palette = palette
	return out, style
}

// transform maps the map to the micro pixels of a `w` x `h` cells area,
// applying zoom and pan.
func (m Model) transform(w, h int) svgmap.Transform {
	mw, mh := float64(2*w), float64(4*h)
	tr := svgmap.Fit(m.box, mw, mh, 1)
	cx, cy := mw/2, mh/2
	return svgmap.Transform{
		Scale: tr.Scale * m.zoom,
		DX:    cx + (tr.DX-cx)*m.zoom + float64(2*m.offsetX),
		DY:    cy + (tr.DY-cy)*m.zoom + float64(4*m.offsetY),
	}
}

// renderMap draws the visible groups in a `w` x `h` cells area.
func (m Model) renderMap(w, h int) string {
	buf := newBrailleBuf(w, h)
	data, style := m.visible()
	if err := svgmap.Draw(data, canvas{buf}, m.transform(w, h), style); err != nil {
		return err.Error()
	}
	return buf.String()
}
