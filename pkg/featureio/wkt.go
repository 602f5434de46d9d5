package featureio

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/0x0FACED/go-wedge/pkg/wedge"
)

func appendCoord(sb *strings.Builder, p wedge.Point) {
	sb.WriteString(strconv.FormatFloat(p.X, 'f', -1, 64))
	sb.WriteByte(' ')
	sb.WriteString(strconv.FormatFloat(p.Y, 'f', -1, 64))
}

func appendRing(sb *strings.Builder, ring []wedge.Point) {
	sb.WriteByte('(')
	for i, p := range ring {
		if i > 0 {
			sb.WriteString(", ")
		}
		appendCoord(sb, p)
	}
	sb.WriteByte(')')
}

// FormatWKT сериализует фигуру как POLYGON или MULTIPOLYGON.
func FormatWKT(shape wedge.Polygon) string {
	polys := groupRings(shape.Rings())
	if len(polys) == 0 {
		return "POLYGON EMPTY"
	}

	var sb strings.Builder
	writePoly := func(poly [][]wedge.Point) {
		sb.WriteByte('(')
		for i, ring := range poly {
			if i > 0 {
				sb.WriteString(", ")
			}
			appendRing(&sb, ring)
		}
		sb.WriteByte(')')
	}

	if len(polys) == 1 {
		sb.WriteString("POLYGON ")
		writePoly(polys[0])
		return sb.String()
	}

	sb.WriteString("MULTIPOLYGON (")
	for i, poly := range polys {
		if i > 0 {
			sb.WriteString(", ")
		}
		writePoly(poly)
	}
	sb.WriteByte(')')
	return sb.String()
}

// WriteWKT пишет по фигуре на строку: id, табуляция, WKT.
func WriteWKT(w io.Writer, coll *wedge.Collection) error {
	for _, f := range coll.Features {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", f.ID, FormatWKT(f.Shape)); err != nil {
			return fmt.Errorf("write wkt: %w", err)
		}
	}
	return nil
}
