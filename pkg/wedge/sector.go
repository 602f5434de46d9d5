package wedge

import (
	"go.uber.org/zap"
)

// buildSector строит сектор [start, end] радиуса r вокруг (cx, cy).
// Для нулевой развертки возвращает nil без ошибки — вызывающий
// фиксирует пропуск сам.
//
// Все промежуточные дескрипторы (круг, треугольник, половины,
// несшитое объединение) освобождаются на любом пути, в том числе при
// отказе бэкенда. Наружу уходит только результат.
func (p *Processor) buildSector(cx, cy, r, start, end float64) (Polygon, error) {
	sc, theta := Classify(start, end)

	switch sc {
	case FullCircle:
		// Круг отдается как есть, без клипа.
		return p.Backend.BufferPoint(cx, cy, r)

	case ZeroDegree:
		return nil, nil

	case NearHalfTurn:
		return p.buildSplit(cx, cy, r, start, theta)

	default:
		s := mod360(start)
		e := mod360(end)
		return p.buildStandard(cx, cy, r, s, e, theta)
	}
}

// buildStandard — один проход: круг, треугольник, пересечение или
// вычитание по величине развертки. Азимуты уже приведены в [0, 360).
func (p *Processor) buildStandard(cx, cy, r, start, end, theta float64) (Polygon, error) {
	mode := clipOrErase(theta)

	p.Logger.Debug("[sector] строим сектор",
		zap.Float64("start", start),
		zap.Float64("end", end),
		zap.Float64("theta", theta),
		zap.String("mode", mode.String()),
	)

	circle, err := p.Backend.BufferPoint(cx, cy, r)
	if err != nil {
		return nil, err
	}
	defer p.Backend.Release(circle)

	verts := triangleVertices(cx, cy, r, start, end)
	tri, err := p.Backend.MakePolygon(verts[:])
	if err != nil {
		return nil, err
	}
	defer p.Backend.Release(tri)

	if mode == modeErase {
		return p.Backend.Subtract(circle, tri)
	}
	return p.Backend.Intersect(circle, tri)
}

// buildSplit собирает сектор с разверткой из полосы (135°, 225°) из двух
// половин [start, mid] и [mid, end]. Половинная развертка не превышает
// 112.5° и всегда безопасна, поэтому половины строятся напрямую через
// buildStandard: второй уровень деления исключен самой структурой кода.
// Шов между половинами убирается объединением и последующей сшивкой.
func (p *Processor) buildSplit(cx, cy, r, start, theta float64) (Polygon, error) {
	s := mod360(start)
	mid := mod360(s + theta/2)
	e := mod360(s + theta)

	p.Logger.Debug("[sector] развертка в мертвой зоне, делим пополам",
		zap.Float64("start", s),
		zap.Float64("mid", mid),
		zap.Float64("end", e),
		zap.Float64("theta", theta),
	)

	half1, err := p.buildStandard(cx, cy, r, s, mid, theta/2)
	if err != nil {
		return nil, err
	}
	defer p.Backend.Release(half1)

	half2, err := p.buildStandard(cx, cy, r, mid, e, theta/2)
	if err != nil {
		return nil, err
	}
	defer p.Backend.Release(half2)

	merged, err := p.Backend.Union([]Polygon{half1, half2})
	if err != nil {
		return nil, err
	}
	defer p.Backend.Release(merged)

	return p.Backend.Dissolve(merged)
}
