// Package firezone answers point-in-polygon queries against the state Very
// High Fire Hazard Severity Zone layer. Parcels inside a zone are
// unbuildable for the product this system underwrites, so the lookup is a
// hard screen, not a score input.
package firezone

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"
)

// Index holds the zone polygons with precomputed bounding boxes for a
// cheap reject before the ring test. Immutable after Load.
type Index struct {
	polys  []*geom.Polygon
	bounds []*geom.Bounds
}

// Load reads a GeoJSON FeatureCollection of zone polygons. MultiPolygon
// features are flattened; non-areal geometries are skipped with a warning
// rather than failing the load.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "firezone: read %s", path)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "firezone: parse %s", path)
	}

	idx := &Index{}
	skipped := 0
	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case *geom.Polygon:
			idx.add(g)
		case *geom.MultiPolygon:
			for i := 0; i < g.NumPolygons(); i++ {
				idx.add(g.Polygon(i))
			}
		default:
			skipped++
		}
	}
	if skipped > 0 {
		zap.L().Warn("firezone: skipped non-areal features", zap.Int("skipped", skipped))
	}
	zap.L().Info("fire zone layer loaded",
		zap.String("path", path),
		zap.Int("polygons", len(idx.polys)),
	)
	return idx, nil
}

func (idx *Index) add(p *geom.Polygon) {
	if p.NumLinearRings() == 0 {
		return
	}
	idx.polys = append(idx.polys, p)
	idx.bounds = append(idx.bounds, p.Bounds())
}

// Len returns the number of indexed polygons.
func (idx *Index) Len() int { return len(idx.polys) }

// Contains reports whether (lat, lng) falls inside any zone polygon.
// GeoJSON coordinates are (lng, lat) order. Holes are respected.
func (idx *Index) Contains(lat, lng float64) bool {
	pt := geom.Coord{lng, lat}
	for i, p := range idx.polys {
		if !idx.bounds[i].OverlapsPoint(geom.XY, pt) {
			continue
		}
		if !xy.IsPointInRing(geom.XY, pt, p.LinearRing(0).FlatCoords()) {
			continue
		}
		inHole := false
		for r := 1; r < p.NumLinearRings(); r++ {
			if xy.IsPointInRing(geom.XY, pt, p.LinearRing(r).FlatCoords()) {
				inHole = true
				break
			}
		}
		if !inHole {
			return true
		}
	}
	return false
}
