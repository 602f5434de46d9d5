// Package clipback — геометрический бэкенд на целочисленном клиппере
// (алгоритм Ватти). Метры переводятся в микрометровую сетку, булевы
// операции выполняются в целых числах и возвращаются обратно в метры.
package clipback

import (
	"fmt"
	"math"

	"github.com/0x0FACED/go-wedge/pkg/wedge"
	clipper "github.com/ctessum/go.clipper"
)

const (
	// coordScale — метры в целочисленную сетку: 1e6 дает микрометры.
	coordScale = 1e6
	// circleSegments — вершин на полный круг у BufferPoint.
	circleSegments = 720
)

type Backend struct{}

func New() *Backend {
	return &Backend{}
}

// poly держит контуры в сетке клиппера и наружу отдает метры.
type poly struct {
	paths clipper.Paths
}

func (p *poly) Rings() [][]wedge.Point {
	rings := make([][]wedge.Point, 0, len(p.paths))
	for _, path := range p.paths {
		if len(path) == 0 {
			continue
		}
		ring := make([]wedge.Point, 0, len(path)+1)
		for _, ip := range path {
			ring = append(ring, wedge.Point{
				X: float64(ip.X) / coordScale,
				Y: float64(ip.Y) / coordScale,
			})
		}
		// клиппер контуры не замыкает
		if ring[0] != ring[len(ring)-1] {
			ring = append(ring, ring[0])
		}
		rings = append(rings, ring)
	}
	return rings
}

func (p *poly) Area() float64 {
	// дырки ориентированы противоположно, сумма дает чистую площадь
	return clipper.AreaCombined(p.paths) / (coordScale * coordScale)
}

func toPath(ring []wedge.Point) clipper.Path {
	n := len(ring)
	if n > 1 && ring[0] == ring[n-1] {
		n--
	}
	path := make(clipper.Path, 0, n)
	for _, pt := range ring[:n] {
		path = append(path, &clipper.IntPoint{
			X: clipper.Round(pt.X * coordScale),
			Y: clipper.Round(pt.Y * coordScale),
		})
	}
	return path
}

func pathsOf(p wedge.Polygon) (clipper.Paths, error) {
	cp, ok := p.(*poly)
	if !ok {
		return nil, fmt.Errorf("foreign polygon handle %T", p)
	}
	return cp.paths, nil
}

func (b *Backend) BufferPoint(x, y, radius float64) (wedge.Polygon, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("buffer radius must be > 0, got %v", radius)
	}
	path := make(clipper.Path, 0, circleSegments)
	for i := 0; i < circleSegments; i++ {
		angle := float64(i) / circleSegments * 2 * math.Pi
		path = append(path, &clipper.IntPoint{
			X: clipper.Round((x + radius*math.Cos(angle)) * coordScale),
			Y: clipper.Round((y + radius*math.Sin(angle)) * coordScale),
		})
	}
	return &poly{paths: clipper.Paths{path}}, nil
}

func (b *Backend) MakePolygon(ring []wedge.Point) (wedge.Polygon, error) {
	if len(ring) < 4 {
		return nil, fmt.Errorf("closed ring needs at least 3 distinct vertices, got %d points", len(ring))
	}
	return &poly{paths: clipper.Paths{toPath(ring)}}, nil
}

func (b *Backend) Intersect(a, c wedge.Polygon) (wedge.Polygon, error) {
	return b.execute(clipper.CtIntersection, a, c)
}

func (b *Backend) Subtract(a, c wedge.Polygon) (wedge.Polygon, error) {
	return b.execute(clipper.CtDifference, a, c)
}

func (b *Backend) Union(ps []wedge.Polygon) (wedge.Polygon, error) {
	if len(ps) == 0 {
		return nil, fmt.Errorf("union of empty polygon set")
	}
	c := clipper.NewClipper(clipper.IoNone)
	for i, p := range ps {
		paths, err := pathsOf(p)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			c.AddPaths(paths, clipper.PtSubject, true)
		} else {
			c.AddPaths(paths, clipper.PtClip, true)
		}
	}
	solution, ok := c.Execute1(clipper.CtUnion, clipper.PftNonZero, clipper.PftNonZero)
	if !ok {
		return nil, fmt.Errorf("clipper union failed")
	}
	return &poly{paths: solution}, nil
}

// Dissolve — самообъединение со StrictlySimple, фирменный способ самой
// библиотеки привести полигон к простому виду. Коллинеарные шовные
// вершины при сборке результата отбрасываются.
func (b *Backend) Dissolve(p wedge.Polygon) (wedge.Polygon, error) {
	paths, err := pathsOf(p)
	if err != nil {
		return nil, err
	}
	c := clipper.NewClipper(clipper.IoNone)
	c.StrictlySimple = true
	c.AddPaths(paths, clipper.PtSubject, true)
	solution, ok := c.Execute1(clipper.CtUnion, clipper.PftNonZero, clipper.PftNonZero)
	if !ok {
		return nil, fmt.Errorf("clipper dissolve failed")
	}
	return &poly{paths: solution}, nil
}

// Release ничего не делает: дескрипторы живут в куче и собираются GC.
// Ядро все равно зовет его на каждом пути — контракт общий для всех
// бэкендов.
func (b *Backend) Release(p wedge.Polygon) {}

func (b *Backend) execute(op clipper.ClipType, subj, clip wedge.Polygon) (wedge.Polygon, error) {
	ps, err := pathsOf(subj)
	if err != nil {
		return nil, err
	}
	pc, err := pathsOf(clip)
	if err != nil {
		return nil, err
	}
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPaths(ps, clipper.PtSubject, true)
	c.AddPaths(pc, clipper.PtClip, true)
	solution, ok := c.Execute1(op, clipper.PftNonZero, clipper.PftNonZero)
	if !ok {
		return nil, fmt.Errorf("clipper boolean op %d failed", op)
	}
	return &poly{paths: solution}, nil
}
