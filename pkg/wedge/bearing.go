package wedge

import (
	"math"
)

// SectorCase — класс сектора по паре азимутов.
type SectorCase int

const (
	// Standard — обычный сектор, строится за один проход клипа.
	Standard SectorCase = iota
	// FullCircle — развертка кратна 360° при разных азимутах: полный круг.
	FullCircle
	// ZeroDegree — нулевая развертка, фигуры нет, клин пропускается.
	ZeroDegree
	// NearHalfTurn — развертка в полосе (135°, 225°), где отсекающий
	// треугольник вырождается. Такой сектор собирается из двух половин.
	NearHalfTurn
)

func (c SectorCase) String() string {
	switch c {
	case Standard:
		return "standard"
	case FullCircle:
		return "full-circle"
	case ZeroDegree:
		return "zero-degree"
	case NearHalfTurn:
		return "near-half-turn"
	default:
		return "unknown"
	}
}

// mod360 приводит угол в [0, 360). math.Mod сохраняет знак делимого,
// поэтому отрицательные значения добираются до диапазона вручную.
func mod360(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	return m
}

// Classify определяет класс сектора и его развертку в градусах.
//
// Проверка полного круга обязана идти по исходным азимутам ДО приведения:
// пара 120 → 480 задает полный круг, пара 120 → 120 — нулевой сектор,
// а после приведения к [0, 360) они неразличимы.
func Classify(start, end float64) (SectorCase, float64) {
	if mod360(end-start) == 0 && end != start {
		return FullCircle, 360
	}

	s := mod360(start)
	e := mod360(end)
	theta := mod360(e - s)

	switch {
	case theta == 0:
		return ZeroDegree, 0
	case 135 < theta && theta < 225:
		return NearHalfTurn, theta
	default:
		return Standard, theta
	}
}

type clipMode int

const (
	modeClip clipMode = iota
	modeErase
)

func (m clipMode) String() string {
	if m == modeErase {
		return "erase"
	}
	return "clip"
}

// clipOrErase выбирает операцию над кругом: до 180° треугольник накрывает
// сам сектор (пересечение), после — его дополнение (вычитание).
func clipOrErase(theta float64) clipMode {
	if mod360(theta) > 180 {
		return modeErase
	}
	return modeClip
}

const degToRad = math.Pi / 180

// triangleVertices возвращает замкнутый треугольник (центр, A, B, центр),
// отсекающий сектор [start, end] из круга радиуса r вокруг (cx, cy).
//
// Гипотенуза берется по модулю: при развертке больше 180° косинус
// отрицателен, и знаковое значение зеркалило бы треугольник через центр.
// X считается через синус, Y через косинус — азимуты меряются от севера.
// Не определен при развертке ровно 180°, классификация туда не пускает.
func triangleVertices(cx, cy, r, start, end float64) [4]Point {
	theta := (end - start) * degToRad
	hyp := math.Abs(r / math.Cos(theta/2))

	a := Point{
		X: cx + hyp*math.Sin(start*degToRad),
		Y: cy + hyp*math.Cos(start*degToRad),
	}
	b := Point{
		X: cx + hyp*math.Sin(end*degToRad),
		Y: cy + hyp*math.Cos(end*degToRad),
	}
	center := Point{X: cx, Y: cy}

	return [4]Point{center, a, b, center}
}
