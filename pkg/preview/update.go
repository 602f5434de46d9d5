package preview

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "+", "=":
			if m.zoom < 64 {
				m.zoom *= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "-", "_":
			if m.zoom > 0.05 {
				m.zoom /= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "0":
			m.zoom = 1.0
			m.offsetX, m.offsetY = 0, 0
			m.status = "view reset"
		case "a":
			m.showAttrs = !m.showAttrs
			if m.showAttrs {
				m.refreshAttrs()
				m.status = "attributes"
			} else {
				m.status = "map"
			}
		case "h":
			m.helpVisible = !m.helpVisible
		case "up":
			m.offsetY--
		case "down":
			m.offsetY++
		case "left":
			m.offsetX -= 2
		case "right":
			m.offsetX += 2
		}
	}
	return m, nil
}
