package wedge

import (
	"go.uber.org/zap"
)

// trimInner вырезает из сектора внутренний круг, превращая клин в
// кольцевую полосу. Сектор считается потребленным: и он, и внутренний
// круг освобождаются здесь на любом пути, наружу уходит только результат.
// Для полного круга вырез дает правильное кольцо без особых случаев.
func (p *Processor) trimInner(cx, cy, inner float64, sector Polygon) (Polygon, error) {
	defer p.Backend.Release(sector)

	p.Logger.Debug("[arcband] вырезаем внутренний радиус", zap.Float64("inner", inner))

	innerCircle, err := p.Backend.BufferPoint(cx, cy, inner)
	if err != nil {
		return nil, err
	}
	defer p.Backend.Release(innerCircle)

	return p.Backend.Subtract(sector, innerCircle)
}
