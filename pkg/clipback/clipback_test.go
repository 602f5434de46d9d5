package clipback

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0FACED/go-wedge/pkg/logger"
	"github.com/0x0FACED/go-wedge/pkg/wedge"
)

// build runs a single wedge through the processor on this backend.
func build(t *testing.T, spec wedge.WedgeSpec) wedge.Polygon {
	t.Helper()
	proc := wedge.NewProcessor(New(), logger.Nop())
	coll, err := proc.Process(context.Background(), []wedge.WedgeSpec{spec})
	require.NoError(t, err)
	require.Len(t, coll.Features, 1)
	return coll.Features[0].Shape
}

// Areas are compared with a relative tolerance that leaves room for the
// polygonized circle: a 720-gon undershoots the disc by about 1.3e-5.
const areaEps = 1e-4

func TestQuarterSectorArea(t *testing.T) {
	shape := build(t, wedge.WedgeSpec{
		ID: "q", StartBearing: 0, EndBearing: 90, OuterRadius: 1000,
	})
	want := math.Pi * 1000 * 1000 / 4 // ≈ 785398.16
	assert.InEpsilon(t, want, shape.Area(), areaEps)
	assert.Len(t, shape.Rings(), 1)
}

func TestZeroSweepSkipped(t *testing.T) {
	proc := wedge.NewProcessor(New(), logger.Nop())
	coll, err := proc.Process(context.Background(), []wedge.WedgeSpec{
		{ID: "z", StartBearing: 120, EndBearing: 120, OuterRadius: 500},
	})
	require.NoError(t, err)
	assert.Empty(t, coll.Features)
	assert.Equal(t, []string{"z"}, coll.Skipped)
}

func TestFullLapIsCircle(t *testing.T) {
	shape := build(t, wedge.WedgeSpec{
		ID: "lap", StartBearing: 120, EndBearing: 480, OuterRadius: 500,
	})
	want := math.Pi * 500 * 500
	assert.InEpsilon(t, want, shape.Area(), areaEps)
	assert.Len(t, shape.Rings(), 1)
}

// TestHalfAnnulus builds the 0..180 wedge with an inner cut. The sweep
// sits exactly on the degenerate half turn, so this exercises the split,
// the merge and the trim in one go.
func TestHalfAnnulus(t *testing.T) {
	shape := build(t, wedge.WedgeSpec{
		ID:           "half",
		StartBearing: 0, EndBearing: 180,
		OuterRadius: 1000, InnerRadius: wedge.Inner(500),
	})
	want := math.Pi / 2 * (1000*1000 - 500*500)
	assert.InEpsilon(t, want, shape.Area(), areaEps)
	// half a ring has a single boundary, no hole
	assert.Len(t, shape.Rings(), 1)
}

// TestSplitLeavesNoSeam checks a 190° sector: the two halves meet on a
// shared edge and the dissolve must weld them into one ring with no
// leftover seam inside.
func TestSplitLeavesNoSeam(t *testing.T) {
	shape := build(t, wedge.WedgeSpec{
		ID: "seam", StartBearing: 10, EndBearing: 200, OuterRadius: 300,
	})
	want := 190.0 / 360.0 * math.Pi * 300 * 300
	assert.InEpsilon(t, want, shape.Area(), areaEps)
	assert.Len(t, shape.Rings(), 1, "halves must dissolve into a single ring")
}

func TestEraseModeSector(t *testing.T) {
	shape := build(t, wedge.WedgeSpec{
		ID: "wide", StartBearing: 0, EndBearing: 270, OuterRadius: 100,
	})
	want := 0.75 * math.Pi * 100 * 100
	assert.InEpsilon(t, want, shape.Area(), areaEps)
}

// TestFullRingHasHole cuts an inner circle out of a full lap and
// expects a proper annulus: two rings, net area between the radii.
func TestFullRingHasHole(t *testing.T) {
	shape := build(t, wedge.WedgeSpec{
		ID:           "ring",
		StartBearing: 0, EndBearing: 360,
		OuterRadius: 500, InnerRadius: wedge.Inner(200),
	})
	want := math.Pi * (500*500 - 200*200)
	assert.InEpsilon(t, want, shape.Area(), areaEps)
	assert.Len(t, shape.Rings(), 2)
}

func TestBufferPoint(t *testing.T) {
	b := New()
	shape, err := b.BufferPoint(10, -20, 100)
	require.NoError(t, err)

	assert.InEpsilon(t, math.Pi*100*100, shape.Area(), areaEps)

	rings := shape.Rings()
	require.Len(t, rings, 1)
	ring := rings[0]
	require.GreaterOrEqual(t, len(ring), 4)
	assert.Equal(t, ring[0], ring[len(ring)-1], "rings come back closed")

	// every vertex sits on the circle around the center
	for _, p := range ring[:len(ring)-1] {
		d := math.Hypot(p.X-10, p.Y+20)
		assert.InDelta(t, 100, d, 1e-3)
	}
}

func TestBufferPointRejectsBadRadius(t *testing.T) {
	b := New()
	_, err := b.BufferPoint(0, 0, 0)
	assert.Error(t, err)
	_, err = b.BufferPoint(0, 0, -5)
	assert.Error(t, err)
}

func TestMakePolygonRejectsShortRing(t *testing.T) {
	b := New()
	_, err := b.MakePolygon([]wedge.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 0}})
	assert.Error(t, err)
}

type foreignShape struct{}

func (foreignShape) Rings() [][]wedge.Point { return nil }
func (foreignShape) Area() float64          { return 0 }

func TestRejectsForeignHandle(t *testing.T) {
	b := New()
	circle, err := b.BufferPoint(0, 0, 10)
	require.NoError(t, err)

	_, err = b.Intersect(circle, foreignShape{})
	assert.Error(t, err)
	_, err = b.Subtract(foreignShape{}, circle)
	assert.Error(t, err)
}

// TestDissolveWeldsTouchingSquares unions two squares sharing an edge
// and expects one clean ring covering both.
func TestDissolveWeldsTouchingSquares(t *testing.T) {
	b := New()
	left, err := b.MakePolygon([]wedge.Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 0}})
	require.NoError(t, err)
	right, err := b.MakePolygon([]wedge.Point{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 0}, {X: 1, Y: 0}})
	require.NoError(t, err)

	merged, err := b.Union([]wedge.Polygon{left, right})
	require.NoError(t, err)
	welded, err := b.Dissolve(merged)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, welded.Area(), 1e-9)
	assert.Len(t, welded.Rings(), 1)
}
