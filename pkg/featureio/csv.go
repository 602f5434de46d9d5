package featureio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/0x0FACED/go-wedge/pkg/wedge"
	"github.com/google/uuid"
)

// Columns — имена колонок входной таблицы. Сопоставление с заголовком
// идет без учета регистра. Inner и ID могут отсутствовать: без ID
// строки получают сгенерированный идентификатор.
type Columns struct {
	ID    string
	X     string
	Y     string
	Start string
	End   string
	Outer string
	Inner string
}

func DefaultColumns() Columns {
	return Columns{
		ID:    "id",
		X:     "x",
		Y:     "y",
		Start: "start_bearing",
		End:   "end_bearing",
		Outer: "outer_radius",
		Inner: "inner_radius",
	}
}

// Row — разобранный клин вместе с остальными колонками строки.
// Атрибуты позже присоединяются к выходной таблице по ID.
type Row struct {
	Spec  wedge.WedgeSpec
	Attrs map[string]string
}

// RowError — строка, отброшенная при разборе. Отбрасывается только
// сама строка, чтение продолжается.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

// ReadCSV читает клинья из CSV с заголовком.
func ReadCSV(r io.Reader, cols Columns) ([]Row, []RowError, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("csv has no header row")
	}
	return RowsFromRecords(records[0], records[1:], cols)
}

// RowsFromRecords собирает клинья из уже прочитанного заголовка и строк.
// Общий путь для CSV и табличного хранилища.
func RowsFromRecords(header []string, records [][]string, cols Columns) ([]Row, []RowError, error) {
	find := func(name string) int {
		if name == "" {
			return -1
		}
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
		return -1
	}

	ix := find(cols.X)
	iy := find(cols.Y)
	istart := find(cols.Start)
	iend := find(cols.End)
	iouter := find(cols.Outer)
	iid := find(cols.ID)
	iinner := find(cols.Inner)

	var missing []string
	for _, c := range []struct {
		name string
		idx  int
	}{
		{cols.X, ix}, {cols.Y, iy}, {cols.Start, istart}, {cols.End, iend}, {cols.Outer, iouter},
	} {
		if c.idx < 0 {
			missing = append(missing, c.name)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("header misses required column(s): %s", strings.Join(missing, ", "))
	}

	required := map[int]bool{ix: true, iy: true, istart: true, iend: true, iouter: true}
	if iid >= 0 {
		required[iid] = true
	}
	if iinner >= 0 {
		required[iinner] = true
	}

	cell := func(rec []string, i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var rows []Row
	var bad []RowError
	for n, rec := range records {
		line := n + 2 // после заголовка, нумерация с единицы

		parse := func(name string, i int) (float64, error) {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell(rec, i)), 64)
			if err != nil {
				return 0, fmt.Errorf("column %s: bad number %q", name, cell(rec, i))
			}
			return v, nil
		}

		x, err := parse(cols.X, ix)
		if err != nil {
			bad = append(bad, RowError{Line: line, Err: err})
			continue
		}
		y, err := parse(cols.Y, iy)
		if err != nil {
			bad = append(bad, RowError{Line: line, Err: err})
			continue
		}
		start, err := parse(cols.Start, istart)
		if err != nil {
			bad = append(bad, RowError{Line: line, Err: err})
			continue
		}
		end, err := parse(cols.End, iend)
		if err != nil {
			bad = append(bad, RowError{Line: line, Err: err})
			continue
		}
		outer, err := ParseRadius(cell(rec, iouter))
		if err != nil {
			bad = append(bad, RowError{Line: line, Err: err})
			continue
		}

		var inner *float64
		if iinner >= 0 {
			inner, err = ParseInnerRadius(cell(rec, iinner))
			if err != nil {
				bad = append(bad, RowError{Line: line, Err: err})
				continue
			}
		}

		id := strings.TrimSpace(cell(rec, iid))
		if id == "" {
			id = uuid.NewString()
		}

		attrs := make(map[string]string)
		for i, h := range header {
			if required[i] {
				continue
			}
			attrs[strings.TrimSpace(h)] = cell(rec, i)
		}

		rows = append(rows, Row{
			Spec: wedge.WedgeSpec{
				ID:           id,
				CenterX:      x,
				CenterY:      y,
				StartBearing: start,
				EndBearing:   end,
				OuterRadius:  outer,
				InnerRadius:  inner,
			},
			Attrs: attrs,
		})
	}

	return rows, bad, nil
}

// Specs выдергивает спеки из строк, сохраняя порядок.
func Specs(rows []Row) []wedge.WedgeSpec {
	specs := make([]wedge.WedgeSpec, 0, len(rows))
	for _, r := range rows {
		specs = append(specs, r.Spec)
	}
	return specs
}

// AttrsByID собирает атрибуты строк в одну мапу по идентификатору.
func AttrsByID(rows []Row) map[string]map[string]string {
	out := make(map[string]map[string]string, len(rows))
	for _, r := range rows {
		if len(r.Attrs) > 0 {
			out[r.Spec.ID] = r.Attrs
		}
	}
	return out
}
