package wedge

import (
	"math"
)

type Point struct {
	X float64
	Y float64
}

type Bounds struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

func NewBounds() Bounds {
	return Bounds{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
}

func (b *Bounds) Extend(p Point) {
	if p.X < b.MinX {
		b.MinX = p.X
	}
	if p.Y < b.MinY {
		b.MinY = p.Y
	}
	if p.X > b.MaxX {
		b.MaxX = p.X
	}
	if p.Y > b.MaxY {
		b.MaxY = p.Y
	}
}

func (b *Bounds) ExtendRings(rings [][]Point) {
	for _, ring := range rings {
		for _, p := range ring {
			b.Extend(p)
		}
	}
}

func (b Bounds) Empty() bool {
	return math.IsInf(b.MinX, 1)
}

func (b Bounds) Width() float64 {
	return b.MaxX - b.MinX
}

func (b Bounds) Height() float64 {
	return b.MaxY - b.MinY
}
