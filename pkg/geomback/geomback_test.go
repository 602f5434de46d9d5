package geomback

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0FACED/go-wedge/pkg/logger"
	"github.com/0x0FACED/go-wedge/pkg/wedge"
)

func build(t *testing.T, spec wedge.WedgeSpec) wedge.Polygon {
	t.Helper()
	proc := wedge.NewProcessor(New(), logger.Nop())
	coll, err := proc.Process(context.Background(), []wedge.WedgeSpec{spec})
	require.NoError(t, err)
	require.Len(t, coll.Features, 1)
	return coll.Features[0].Shape
}

const areaEps = 1e-4

// The same acceptance set as the clipper driver runs, checked on areas:
// a float backend is free to keep harmless extra vertices on the split
// seam, so ring layouts are only pinned where they are forced.

func TestQuarterSectorArea(t *testing.T) {
	shape := build(t, wedge.WedgeSpec{
		ID: "q", StartBearing: 0, EndBearing: 90, OuterRadius: 1000,
	})
	assert.InEpsilon(t, math.Pi*1000*1000/4, shape.Area(), areaEps)
}

func TestFullLapIsCircle(t *testing.T) {
	shape := build(t, wedge.WedgeSpec{
		ID: "lap", StartBearing: 120, EndBearing: 480, OuterRadius: 500,
	})
	assert.InEpsilon(t, math.Pi*500*500, shape.Area(), areaEps)
}

func TestHalfAnnulusArea(t *testing.T) {
	shape := build(t, wedge.WedgeSpec{
		ID:           "half",
		StartBearing: 0, EndBearing: 180,
		OuterRadius: 1000, InnerRadius: wedge.Inner(500),
	})
	assert.InEpsilon(t, math.Pi/2*(1000*1000-500*500), shape.Area(), areaEps)
}

func TestSplitSectorArea(t *testing.T) {
	shape := build(t, wedge.WedgeSpec{
		ID: "split", StartBearing: 10, EndBearing: 200, OuterRadius: 300,
	})
	assert.InEpsilon(t, 190.0/360.0*math.Pi*300*300, shape.Area(), areaEps)
}

func TestEraseModeSector(t *testing.T) {
	shape := build(t, wedge.WedgeSpec{
		ID: "wide", StartBearing: 0, EndBearing: 270, OuterRadius: 100,
	})
	assert.InEpsilon(t, 0.75*math.Pi*100*100, shape.Area(), areaEps)
}

func TestFullRingHasHole(t *testing.T) {
	shape := build(t, wedge.WedgeSpec{
		ID:           "ring",
		StartBearing: 0, EndBearing: 360,
		OuterRadius: 500, InnerRadius: wedge.Inner(200),
	})
	assert.InEpsilon(t, math.Pi*(500*500-200*200), shape.Area(), areaEps)
	assert.Len(t, shape.Rings(), 2)
}

func TestBufferPoint(t *testing.T) {
	b := New()
	shape, err := b.BufferPoint(-5, 7, 50)
	require.NoError(t, err)

	assert.InEpsilon(t, math.Pi*50*50, shape.Area(), areaEps)

	rings := shape.Rings()
	require.Len(t, rings, 1)
	ring := rings[0]
	assert.Equal(t, ring[0], ring[len(ring)-1])
	for _, p := range ring {
		assert.InDelta(t, 50, math.Hypot(p.X+5, p.Y-7), 1e-9)
	}
}

func TestBufferPointRejectsBadRadius(t *testing.T) {
	b := New()
	_, err := b.BufferPoint(0, 0, 0)
	assert.Error(t, err)
}

func TestMakePolygonRejectsShortRing(t *testing.T) {
	b := New()
	_, err := b.MakePolygon([]wedge.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}})
	assert.Error(t, err)
}

type foreignShape struct{}

func (foreignShape) Rings() [][]wedge.Point { return nil }
func (foreignShape) Area() float64          { return 0 }

func TestRejectsForeignHandle(t *testing.T) {
	b := New()
	circle, err := b.BufferPoint(0, 0, 10)
	require.NoError(t, err)

	_, err = b.Union([]wedge.Polygon{circle, foreignShape{}})
	assert.Error(t, err)
	_, err = b.Dissolve(foreignShape{})
	assert.Error(t, err)
}
