package preview

// dotGrid — буфер брайлевских ячеек: каждая терминальная клетка несет
// микросетку 2x4, так контуры секторов выходят заметно глаже ASCII.
type dotGrid struct {
	w, h  int // в клетках
	cells [][]uint8
}

func newDotGrid(w, h int) *dotGrid {
	cells := make([][]uint8, h)
	for i := range cells {
		cells[i] = make([]uint8, w)
	}
	return &dotGrid{w: w, h: h, cells: cells}
}

// set зажигает микропиксель в координатах микросетки.
func (g *dotGrid) set(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= g.h || cx >= g.w {
		return
	}
	// Раскладка битов брайля: столбцы независимы, нижний ряд — отдельные биты.
	var bit uint8
	if rx == 0 {
		switch ry {
		case 0:
			bit = 0x01
		case 1:
			bit = 0x02
		case 2:
			bit = 0x04
		case 3:
			bit = 0x40
		}
	} else {
		switch ry {
		case 0:
			bit = 0x08
		case 1:
			bit = 0x10
		case 2:
			bit = 0x20
		case 3:
			bit = 0x80
		}
	}
	g.cells[cy][cx] |= bit
}

// line проводит отрезок по микросетке алгоритмом Брезенхэма.
func (g *dotGrid) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		g.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// toLines переводит маски в руны блока U+2800.
func (g *dotGrid) toLines() []string {
	out := make([]string, g.h)
	for y := 0; y < g.h; y++ {
		row := make([]rune, g.w)
		for x := 0; x < g.w; x++ {
			mask := g.cells[y][x]
			if mask == 0 {
				row[x] = ' '
			} else {
				row[x] = rune(0x2800 + int(mask))
			}
		}
		out[y] = string(row)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
