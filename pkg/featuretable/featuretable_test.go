package featuretable

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0FACED/go-wedge/pkg/featureio"
	"github.com/0x0FACED/go-wedge/pkg/logger"
	"github.com/0x0FACED/go-wedge/pkg/wedge"
)

type testShape struct {
	rings [][]wedge.Point
	area  float64
}

func (s testShape) Rings() [][]wedge.Point { return s.rings }
func (s testShape) Area() float64          { return s.area }

func square(x, y, side float64) testShape {
	return testShape{
		rings: [][]wedge.Point{{
			{X: x, Y: y},
			{X: x + side, Y: y},
			{X: x + side, Y: y + side},
			{X: x, Y: y + side},
			{X: x, Y: y},
		}},
		area: side * side,
	}
}

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:", logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// TestReadRows loads wedges from a table with mixed column affinities:
// numbers come back as int64/float64, radii as text with units, a NULL
// inner cell must read as "no cut".
func TestReadRows(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	_, err := s.db.ExecContext(ctx, `CREATE TABLE "wedges" (
		id TEXT, x INTEGER, y REAL,
		start_bearing REAL, end_bearing REAL,
		outer_radius TEXT, inner_radius TEXT,
		site TEXT
	)`)
	require.NoError(t, err)

	_, err = s.db.ExecContext(ctx, `INSERT INTO "wedges" VALUES
		('b1', 10, 20.5, 0, 90, '1 KILOMETERS', NULL, 'north'),
		('b2', 0, 0, 120, 480, '500', '200', 'south'),
		('bad', 1, 1, 0, 90, 'NOT A NUMBER', NULL, 'junk')`)
	require.NoError(t, err)

	rows, bad, err := s.ReadRows(ctx, "wedges", featureio.DefaultColumns())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Len(t, bad, 1)

	spec := rows[0].Spec
	assert.Equal(t, "b1", spec.ID)
	assert.Equal(t, 10.0, spec.CenterX)
	assert.Equal(t, 20.5, spec.CenterY)
	assert.Equal(t, 1000.0, spec.OuterRadius)
	assert.Nil(t, spec.InnerRadius)
	assert.Equal(t, "north", rows[0].Attrs["site"])

	spec = rows[1].Spec
	assert.Equal(t, 500.0, spec.OuterRadius)
	require.NotNil(t, spec.InnerRadius)
	assert.Equal(t, 200.0, *spec.InnerRadius)

	assert.Contains(t, bad[0].Err.Error(), "NOT A NUMBER")
}

// TestWriteFeatures writes two shapes with uneven attributes and checks
// the resulting schema: id, wkt, area plus the sorted attribute union,
// NULL where a shape has no value for a column.
func TestWriteFeatures(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	coll := &wedge.Collection{Features: []wedge.Feature{
		{ID: "a", Shape: square(0, 0, 10)},
		{ID: "b", Shape: square(20, 0, 5)},
	}}
	attrs := map[string]map[string]string{
		"a": {"name": "north", "zone": "red"},
		"b": {"name": "south"},
	}

	require.NoError(t, s.WriteFeatures(ctx, "features", coll, attrs))

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, wkt, area, "name", "zone" FROM "features" ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	type rec struct {
		id, wkt string
		area    float64
		name    sql.NullString
		zone    sql.NullString
	}
	var got []rec
	for rows.Next() {
		var r rec
		require.NoError(t, rows.Scan(&r.id, &r.wkt, &r.area, &r.name, &r.zone))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())
	require.Len(t, got, 2)

	assert.Equal(t, "a", got[0].id)
	assert.Equal(t, "POLYGON ((0 0, 10 0, 10 10, 0 10, 0 0))", got[0].wkt)
	assert.Equal(t, 100.0, got[0].area)
	assert.Equal(t, "north", got[0].name.String)
	assert.Equal(t, "red", got[0].zone.String)

	assert.Equal(t, "b", got[1].id)
	assert.Equal(t, "south", got[1].name.String)
	assert.False(t, got[1].zone.Valid, "missing attribute must be NULL, not empty text")
}

// TestWriteFeaturesReplace: writing the same batch twice must not
// duplicate rows, the id is the primary key.
func TestWriteFeaturesReplace(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	coll := &wedge.Collection{Features: []wedge.Feature{
		{ID: "a", Shape: square(0, 0, 1)},
	}}

	require.NoError(t, s.WriteFeatures(ctx, "features", coll, nil))
	require.NoError(t, s.WriteFeatures(ctx, "features", coll, nil))

	var n int
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "features"`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestOpenBadPath(t *testing.T) {
	_, err := Open(context.Background(), "/no/such/dir/x.db", logger.Nop())
	assert.Error(t, err)
}
