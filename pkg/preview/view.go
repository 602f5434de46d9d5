package preview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	headerHeight := 1
	footerHeight := 2
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 4 {
		contentHeight = 4
	}
	contentWidth := max(10, m.width)

	header := titleStyle.Render(" wedge preview ")
	header = lipgloss.NewStyle().Width(contentWidth).Render(header)

	mapWidth := max(8, contentWidth)
	mapHeight := max(4, contentHeight)
	ascii := m.renderCanvas(mapWidth, mapHeight)
	mapView := lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(ascii)

	// таблица атрибутов поверх карты, по центру
	body := mapView
	if m.showAttrs {
		box := boxStyle.Render(m.tbl.View())
		body = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, box)
	}

	help := m.renderHelp()
	status := dimStyle.Render(" " + m.status + " ")
	footer := lipgloss.NewStyle().Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, status, help))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"0 reset",
		"a attrs",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
