package preview

import (
	"sort"
	"strings"
)

// renderCanvas рисует все фигуры коллекции в текстовый холст w x h.
func (m Model) renderCanvas(w, h int) string {
	lines := make([]string, h)
	blank := strings.Repeat(" ", w)
	for y := range lines {
		lines[y] = blank
	}
	if m.bounds.Empty() {
		return strings.Join(lines, "\n")
	}

	grid := newDotGrid(w, h)
	for _, ft := range m.feats {
		// проецируем кольца в микрокоординаты
		var mic [][][2]int
		for _, ring := range ft.rings {
			var sm [][2]int
			for _, p := range ring {
				mx, my, ok := m.screenMicro(p.X, p.Y, w, h)
				if !ok {
					continue
				}
				sm = append(sm, [2]int{mx, my})
			}
			if len(sm) >= 3 {
				mic = append(mic, sm)
			}
		}
		if len(mic) == 0 {
			continue
		}
		m.fillEvenOdd(grid, mic, h)
		for _, ring := range mic {
			for i := 0; i < len(ring); i++ {
				a := ring[i]
				b := ring[(i+1)%len(ring)]
				grid.line(a[0], a[1], b[0], b[1])
			}
		}
	}

	// накладываем брайль на пустой холст
	braLines := grid.toLines()
	for y := 0; y < h && y < len(braLines); y++ {
		base := []rune(lines[y])
		over := []rune(braLines[y])
		for x := 0; x < len(base) && x < len(over); x++ {
			if over[x] != ' ' {
				base[x] = over[x]
			}
		}
		lines[y] = string(base)
	}
	return strings.Join(lines, "\n")
}

// fillEvenOdd заливает полигон построчно по правилу четности. Пересечения
// собираются по всем кольцам сразу, поэтому дырки колец-вырезов
// (внутренний круг арочной полосы) остаются пустыми сами собой.
func (m Model) fillEvenOdd(grid *dotGrid, rings [][][2]int, h int) {
	hMic := h * 4
	for yMic := 0; yMic < hMic; yMic++ {
		var xs []int
		for _, ring := range rings {
			for i := 0; i < len(ring); i++ {
				a := ring[i]
				b := ring[(i+1)%len(ring)]
				if a[1] == b[1] {
					continue // горизонтальное ребро не дает пересечения
				}
				y0, y1 := a[1], b[1]
				x0, x1 := a[0], b[0]
				if (yMic >= y0 && yMic < y1) || (yMic >= y1 && yMic < y0) {
					t := float64(yMic-y0) / float64(y1-y0)
					xs = append(xs, int(float64(x0)+t*float64(x1-x0)))
				}
			}
		}
		if len(xs) < 2 {
			continue
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			xstart, xend := xs[i], xs[i+1]
			if xstart > xend {
				xstart, xend = xend, xstart
			}
			for xMic := max(0, xstart); xMic <= xend; xMic++ {
				grid.set(xMic, yMic)
			}
		}
	}
}

// screenMicro проецирует точку плоскости в микросетку 2x4 с учетом
// зума вокруг центра рамки и панорамирования.
func (m Model) screenMicro(x, y float64, w, h int) (int, int, bool) {
	b := m.bounds
	if !(b.MaxX > b.MinX && b.MaxY > b.MinY) {
		return 0, 0, false
	}
	nx := (x - b.MinX) / (b.MaxX - b.MinX)
	ny := (y - b.MinY) / (b.MaxY - b.MinY)
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	wMic := w * 2
	hMic := h * 4
	sx := int(zx*float64(wMic-1)) + m.offsetX*2
	sy := int((1.0-zy)*float64(hMic-1)) + m.offsetY*4
	return sx, sy, true
}
