package preview

import (
	"fmt"
	"strconv"

	table "github.com/charmbracelet/bubbles/table"
)

const maxColW = 24

// refreshAttrs перестраивает таблицу атрибутов по текущим фигурам.
// Порядок обязателен: сперва сброс строк, потом колонки, потом строки —
// иначе bubbles паникует на несовпадении ширин.
func (m *Model) refreshAttrs() {
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "id", Width: maxColW},
		{Title: "case", Width: 14},
		{Title: "sweep", Width: 8},
		{Title: "area", Width: 14},
		{Title: "rings", Width: 6},
	}
	rows := make([]table.Row, 0, len(m.feats))
	for i, ft := range m.feats {
		id := ft.id
		if len(id) > maxColW {
			id = id[:maxColW-1] + "…"
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			id,
			ft.kind.String(),
			fmt.Sprintf("%.1f°", ft.theta),
			fmt.Sprintf("%.2f", ft.area),
			strconv.Itoa(len(ft.rings)),
		})
	}
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
	m.tbl.SetHeight(min(len(rows)+1, 16))
}
