package featureio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		"id,x,y,start_bearing,end_bearing,outer_radius,inner_radius,name",
		"north,10,20,0,90,1000,,station north",
		"band,0,0,120,480,2 KILOMETERS,500 FEET,ring road",
	}, "\n")

	rows, bad, err := ReadCSV(strings.NewReader(input), DefaultColumns())
	require.NoError(t, err)
	require.Empty(t, bad)
	require.Len(t, rows, 2)

	s := rows[0].Spec
	assert.Equal(t, "north", s.ID)
	assert.Equal(t, 10.0, s.CenterX)
	assert.Equal(t, 20.0, s.CenterY)
	assert.Equal(t, 0.0, s.StartBearing)
	assert.Equal(t, 90.0, s.EndBearing)
	assert.Equal(t, 1000.0, s.OuterRadius)
	assert.Nil(t, s.InnerRadius, "blank inner cell means no cut")
	assert.Equal(t, map[string]string{"name": "station north"}, rows[0].Attrs)

	s = rows[1].Spec
	assert.Equal(t, 2000.0, s.OuterRadius)
	require.NotNil(t, s.InnerRadius)
	assert.InDelta(t, 152.4, *s.InnerRadius, 1e-9)
}

// TestReadCSVHeaderCase: header matching ignores case and padding, the
// column set itself can be renamed through Columns.
func TestReadCSVHeaderCase(t *testing.T) {
	input := strings.Join([]string{
		"ID, X ,Y,Start_Bearing,END_BEARING,Outer_Radius",
		"a,1,2,10,40,300",
	}, "\n")

	rows, bad, err := ReadCSV(strings.NewReader(input), DefaultColumns())
	require.NoError(t, err)
	require.Empty(t, bad)
	require.Len(t, rows, 1)
	assert.Equal(t, 300.0, rows[0].Spec.OuterRadius)
}

func TestReadCSVColumnOverride(t *testing.T) {
	cols := Columns{
		ID:    "object",
		X:     "easting",
		Y:     "northing",
		Start: "from_deg",
		End:   "to_deg",
		Outer: "range",
		Inner: "cutout",
	}
	input := strings.Join([]string{
		"object,easting,northing,from_deg,to_deg,range,cutout",
		"w1,100,200,45,135,2 KILOMETERS,1 KILOMETERS",
	}, "\n")

	rows, bad, err := ReadCSV(strings.NewReader(input), cols)
	require.NoError(t, err)
	require.Empty(t, bad)
	require.Len(t, rows, 1)
	assert.Equal(t, "w1", rows[0].Spec.ID)
	assert.Equal(t, 2000.0, rows[0].Spec.OuterRadius)
	require.NotNil(t, rows[0].Spec.InnerRadius)
	assert.Equal(t, 1000.0, *rows[0].Spec.InnerRadius)
}

// TestReadCSVBadRowsIsolated: a broken row is reported with its line
// number and only that row is dropped.
func TestReadCSVBadRowsIsolated(t *testing.T) {
	input := strings.Join([]string{
		"id,x,y,start_bearing,end_bearing,outer_radius",
		"ok1,0,0,0,90,100",
		"broken,0,zzz,0,90,100",
		"units,0,0,0,90,9 LIGHTYEARS",
		"ok2,5,5,10,40,200",
	}, "\n")

	rows, bad, err := ReadCSV(strings.NewReader(input), DefaultColumns())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ok1", rows[0].Spec.ID)
	assert.Equal(t, "ok2", rows[1].Spec.ID)

	require.Len(t, bad, 2)
	assert.Equal(t, 3, bad[0].Line)
	assert.Contains(t, bad[0].Err.Error(), "zzz")
	assert.Equal(t, 4, bad[1].Line)
	assert.Contains(t, bad[1].Err.Error(), "LIGHTYEARS")
}

func TestReadCSVMissingColumns(t *testing.T) {
	input := "id,x,y,start_bearing\nq,1,2,3\n"
	_, _, err := ReadCSV(strings.NewReader(input), DefaultColumns())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end_bearing")
	assert.Contains(t, err.Error(), "outer_radius")
}

// TestReadCSVGeneratesID: rows without an id get a generated one so the
// batch report can still point at them.
func TestReadCSVGeneratesID(t *testing.T) {
	input := strings.Join([]string{
		"id,x,y,start_bearing,end_bearing,outer_radius",
		",0,0,0,90,100",
		",0,0,0,180,100",
	}, "\n")

	rows, bad, err := ReadCSV(strings.NewReader(input), DefaultColumns())
	require.NoError(t, err)
	require.Empty(t, bad)
	require.Len(t, rows, 2)
	assert.NotEmpty(t, rows[0].Spec.ID)
	assert.NotEmpty(t, rows[1].Spec.ID)
	assert.NotEqual(t, rows[0].Spec.ID, rows[1].Spec.ID)
}

func TestSpecsAndAttrsByID(t *testing.T) {
	input := strings.Join([]string{
		"id,x,y,start_bearing,end_bearing,outer_radius,zone",
		"a,0,0,0,90,100,red",
		"b,1,1,0,180,200,",
	}, "\n")

	rows, _, err := ReadCSV(strings.NewReader(input), DefaultColumns())
	require.NoError(t, err)

	specs := Specs(rows)
	require.Len(t, specs, 2)
	assert.Equal(t, "a", specs[0].ID)
	assert.Equal(t, "b", specs[1].ID)

	attrs := AttrsByID(rows)
	assert.Equal(t, "red", attrs["a"]["zone"])
	assert.Equal(t, "", attrs["b"]["zone"])
}
