package svgview

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.groups.SetSize(sidebarWidth-2, max(1, m.height-3))
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "+", "=":
			if m.zoom < maxZoom {
				m.zoom *= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "-", "_":
			if m.zoom > minZoom {
				m.zoom /= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "0":
			m.zoom, m.offsetX, m.offsetY = 1, 0, 0
			m.status = "view reset"
		case "left":
			m.offsetX += 2
		case "right":
			m.offsetX -= 2
		case "up", "down", "k", "j":
			if m.showSidebar {
				var cmd tea.Cmd
				m.groups, cmd = m.groups.Update(msg)
				return m, cmd
			}
			switch msg.String() {
			case "up", "k":
				m.offsetY += 1
			default:
				m.offsetY -= 1
			}
		case "tab":
			m.showSidebar = !m.showSidebar
		case "h":
			m.helpVisible = !m.helpVisible
		case " ", "enter":
			if m.showSidebar {
				return m, m.toggle(m.groups.Index())
			}
		case "a":
			m.hidden = make(map[string]bool)
			var cmds []tea.Cmd
			for i, it := range m.groups.Items() {
				g := it.(groupItem)
				g.visible = true
				cmds = append(cmds, m.groups.SetItem(i, g))
			}
			m.status = "all groups visible"
			return m, tea.Batch(cmds...)
		}
	}
	return m, nil
}

// toggle switches the visibility of the i-th group.
func (m *Model) toggle(i int) tea.Cmd {
	items := m.groups.Items()
	if i < 0 || i >= len(items) {
		return nil
	}
	g := items[i].(groupItem)
	g.visible = !g.visible
	hidden := make(map[string]bool, len(m.hidden)+1)
	for k, v := range m.hidden {
		hidden[k] = v
	}
	if g.visible {
		delete(hidden, g.label)
		m.status = fmt.Sprintf("group %q shown", g.label)
	} else {
		hidden[g.label] = true
		m.status = fmt.Sprintf("group %q hidden", g.label)
	}
	m.hidden = hidden
	return m.groups.SetItem(i, g)
}
