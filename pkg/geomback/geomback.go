// Package geomback — геометрический бэкенд на float64-полигонах
// пакета geom. Альтернатива целочисленному клипперу: без сетки и
// масштаба, булевы операции прямо в метрах.
package geomback

import (
	"fmt"
	"math"

	"github.com/0x0FACED/go-wedge/pkg/wedge"
	"github.com/ctessum/geom"
)

const circleSegments = 720

type Backend struct{}

func New() *Backend {
	return &Backend{}
}

type poly struct {
	g geom.Polygon
}

func (p *poly) Rings() [][]wedge.Point {
	rings := make([][]wedge.Point, 0, len(p.g))
	for _, ring := range p.g {
		if len(ring) == 0 {
			continue
		}
		out := make([]wedge.Point, 0, len(ring)+1)
		for _, pt := range ring {
			out = append(out, wedge.Point{X: pt.X, Y: pt.Y})
		}
		if out[0] != out[len(out)-1] {
			out = append(out, out[0])
		}
		rings = append(rings, out)
	}
	return rings
}

func (p *poly) Area() float64 {
	return p.g.Area()
}

func polyOf(p wedge.Polygon) (geom.Polygon, error) {
	gp, ok := p.(*poly)
	if !ok {
		return nil, fmt.Errorf("foreign polygon handle %T", p)
	}
	return gp.g, nil
}

func (b *Backend) BufferPoint(x, y, radius float64) (wedge.Polygon, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("buffer radius must be > 0, got %v", radius)
	}
	ring := make([]geom.Point, 0, circleSegments+1)
	for i := 0; i < circleSegments; i++ {
		angle := float64(i) / circleSegments * 2 * math.Pi
		ring = append(ring, geom.Point{
			X: x + radius*math.Cos(angle),
			Y: y + radius*math.Sin(angle),
		})
	}
	ring = append(ring, ring[0])
	return &poly{g: geom.Polygon{ring}}, nil
}

func (b *Backend) MakePolygon(ring []wedge.Point) (wedge.Polygon, error) {
	if len(ring) < 4 {
		return nil, fmt.Errorf("closed ring needs at least 3 distinct vertices, got %d points", len(ring))
	}
	out := make([]geom.Point, 0, len(ring))
	for _, pt := range ring {
		out = append(out, geom.Point{X: pt.X, Y: pt.Y})
	}
	return &poly{g: geom.Polygon{out}}, nil
}

func (b *Backend) Intersect(a, c wedge.Polygon) (wedge.Polygon, error) {
	ga, err := polyOf(a)
	if err != nil {
		return nil, err
	}
	gc, err := polyOf(c)
	if err != nil {
		return nil, err
	}
	return &poly{g: ga.Intersection(gc)}, nil
}

func (b *Backend) Subtract(a, c wedge.Polygon) (wedge.Polygon, error) {
	ga, err := polyOf(a)
	if err != nil {
		return nil, err
	}
	gc, err := polyOf(c)
	if err != nil {
		return nil, err
	}
	return &poly{g: ga.Difference(gc)}, nil
}

func (b *Backend) Union(ps []wedge.Polygon) (wedge.Polygon, error) {
	if len(ps) == 0 {
		return nil, fmt.Errorf("union of empty polygon set")
	}
	acc, err := polyOf(ps[0])
	if err != nil {
		return nil, err
	}
	for _, p := range ps[1:] {
		g, err := polyOf(p)
		if err != nil {
			return nil, err
		}
		acc = acc.Union(g)
	}
	return &poly{g: acc}, nil
}

// Dissolve — самообъединение: булев union полигона с самим собой
// возвращает простой контур без внутренних границ.
func (b *Backend) Dissolve(p wedge.Polygon) (wedge.Polygon, error) {
	g, err := polyOf(p)
	if err != nil {
		return nil, err
	}
	return &poly{g: g.Union(g)}, nil
}

// Release ничего не делает: дескрипторы собирает GC.
func (b *Backend) Release(p wedge.Polygon) {}
