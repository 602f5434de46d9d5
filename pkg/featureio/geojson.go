package featureio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/0x0FACED/go-wedge/pkg/wedge"
)

type geoGeometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

type geoFeature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   geoGeometry    `json:"geometry"`
}

type geoCollection struct {
	Type     string       `json:"type"`
	Features []geoFeature `json:"features"`
}

// ringArea — знаковая площадь кольца по формуле шнуровки. Нужна только
// чтобы отличить внешние контуры от дырок, у них противоположные знаки.
func ringArea(ring []wedge.Point) float64 {
	a := 0.0
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		a += (ring[j].X + ring[i].X) * (ring[j].Y - ring[i].Y)
		j = i
	}
	return a / 2
}

// groupRings раскладывает кольца бэкенда по полигонам: кольцо со знаком
// первого кольца открывает новый полигон, с противоположным — дырка
// последнего. Первым бэкенды всегда отдают внешний контур, поэтому
// привязки к конкретному направлению обхода нет.
func groupRings(rings [][]wedge.Point) [][][]wedge.Point {
	if len(rings) == 0 {
		return nil
	}
	outerPositive := ringArea(rings[0]) >= 0

	var polys [][][]wedge.Point
	for _, ring := range rings {
		if (ringArea(ring) >= 0) == outerPositive || len(polys) == 0 {
			polys = append(polys, [][]wedge.Point{ring})
			continue
		}
		polys[len(polys)-1] = append(polys[len(polys)-1], ring)
	}
	return polys
}

func geometryOf(shape wedge.Polygon) geoGeometry {
	polys := groupRings(shape.Rings())

	coords := make([][][][]float64, 0, len(polys))
	for _, poly := range polys {
		rings := make([][][]float64, 0, len(poly))
		for _, ring := range poly {
			pts := make([][]float64, 0, len(ring))
			for _, p := range ring {
				pts = append(pts, []float64{p.X, p.Y})
			}
			rings = append(rings, pts)
		}
		coords = append(coords, rings)
	}

	if len(coords) == 1 {
		return geoGeometry{Type: "Polygon", Coordinates: coords[0]}
	}
	return geoGeometry{Type: "MultiPolygon", Coordinates: coords}
}

// WriteGeoJSON пишет коллекцию как FeatureCollection. Атрибуты исходных
// строк присоединяются к properties своей фигуры по идентификатору.
func WriteGeoJSON(w io.Writer, coll *wedge.Collection, attrs map[string]map[string]string) error {
	out := geoCollection{Type: "FeatureCollection", Features: []geoFeature{}}

	for _, f := range coll.Features {
		props := map[string]any{"id": f.ID}
		for k, v := range attrs[f.ID] {
			if k == "id" {
				continue
			}
			props[k] = v
		}
		out.Features = append(out.Features, geoFeature{
			Type:       "Feature",
			Properties: props,
			Geometry:   geometryOf(f.Shape),
		})
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode geojson: %w", err)
	}
	return nil
}
