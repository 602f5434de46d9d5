package preview

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/0x0FACED/go-wedge/pkg/wedge"
)

// feature — подготовленная к отрисовке фигура: кольца уже сняты с хендла,
// чтобы просмотрщик не держал бекенд живым.
type feature struct {
	id    string
	kind  wedge.SectorCase
	theta float64
	area  float64
	rings [][]wedge.Point
}

type Model struct {
	width  int
	height int

	zoom    float64
	offsetX int
	offsetY int

	status      string
	helpVisible bool
	showAttrs   bool

	feats  []feature
	bounds wedge.Bounds

	tbl table.Model
}

// New собирает модель просмотрщика из готовой коллекции. Спеки нужны,
// чтобы подписать каждую фигуру ее классом и разверткой.
func New(coll *wedge.Collection, specs []wedge.WedgeSpec) Model {
	byID := make(map[string]wedge.WedgeSpec, len(specs))
	for _, s := range specs {
		byID[s.ID] = s
	}

	m := Model{
		zoom:        1.0,
		helpVisible: true,
		bounds:      wedge.NewBounds(),
	}
	for _, f := range coll.Features {
		ft := feature{id: f.ID, rings: f.Shape.Rings(), area: f.Shape.Area()}
		if s, ok := byID[f.ID]; ok {
			ft.kind, ft.theta = wedge.Classify(s.StartBearing, s.EndBearing)
		}
		m.bounds.ExtendRings(ft.rings)
		m.feats = append(m.feats, ft)
	}

	m.tbl = table.New(table.WithFocused(false))
	m.refreshAttrs()

	m.status = fmt.Sprintf("%d wedge(s), %d skipped", len(coll.Features), len(coll.Skipped))
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// Run запускает полноэкранный просмотрщик и блокируется до выхода.
func Run(coll *wedge.Collection, specs []wedge.WedgeSpec) error {
	_, err := tea.NewProgram(New(coll, specs), tea.WithAltScreen()).Run()
	return err
}
