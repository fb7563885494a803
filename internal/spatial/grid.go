// Package spatial provides a flat-earth grid index for fast radius queries
// over point datasets. Cells are keyed by floor(coord/cellSize); a radius
// query scans the covering block of cells and filters candidates by a
// square (per-axis) degree test. At Los Angeles latitudes one degree is
// roughly 69 miles N-S and 57 miles E-W; the square filter slightly
// over-includes diagonal neighbors, which the estimators tolerate on
// purpose — wider samples beat geodesic precision at these radii.
package spatial

import "math"

// Point is anything with a geographic position.
type Point interface {
	Coords() (lat, lng float64)
}

// Grid is an immutable cell index over a point slice. Build once per
// dataset snapshot; queries are safe for concurrent use.
type Grid[T Point] struct {
	cell  float64
	cells map[[2]int][]T
	size  int
}

// Build indexes pts into cells of cellSize degrees.
func Build[T Point](pts []T, cellSize float64) *Grid[T] {
	g := &Grid[T]{
		cell:  cellSize,
		cells: make(map[[2]int][]T),
		size:  len(pts),
	}
	for _, p := range pts {
		lat, lng := p.Coords()
		k := g.key(lat, lng)
		g.cells[k] = append(g.cells[k], p)
	}
	return g
}

func (g *Grid[T]) key(lat, lng float64) [2]int {
	return [2]int{
		int(math.Floor(lat / g.cell)),
		int(math.Floor(lng / g.cell)),
	}
}

// Len returns the number of indexed points.
func (g *Grid[T]) Len() int { return g.size }

// Query returns all points within radius degrees of (lat, lng) on both
// axes. Order follows insertion order within each cell; callers needing a
// stable cross-cell order must sort.
func (g *Grid[T]) Query(lat, lng, radius float64) []T {
	span := int(math.Ceil(radius / g.cell))
	ck := g.key(lat, lng)

	var out []T
	for di := -span; di <= span; di++ {
		for dj := -span; dj <= span; dj++ {
			for _, p := range g.cells[[2]int{ck[0] + di, ck[1] + dj}] {
				plat, plng := p.Coords()
				if math.Abs(plat-lat) <= radius && math.Abs(plng-lng) <= radius {
					out = append(out, p)
				}
			}
		}
	}
	return out
}

// QueryCells returns every point in the (2*rings+1)^2 block of cells
// centered on the cell containing (lat, lng), with no per-point distance
// filter. Used for neighborhood statistics where cell membership, not
// exact distance, defines the neighborhood.
func (g *Grid[T]) QueryCells(lat, lng float64, rings int) []T {
	ck := g.key(lat, lng)
	var out []T
	for di := -rings; di <= rings; di++ {
		for dj := -rings; dj <= rings; dj++ {
			out = append(out, g.cells[[2]int{ck[0] + di, ck[1] + dj}]...)
		}
	}
	return out
}

// QueryFunc is Query with an extra predicate applied before collection.
func (g *Grid[T]) QueryFunc(lat, lng, radius float64, keep func(T) bool) []T {
	span := int(math.Ceil(radius / g.cell))
	ck := g.key(lat, lng)

	var out []T
	for di := -span; di <= span; di++ {
		for dj := -span; dj <= span; dj++ {
			for _, p := range g.cells[[2]int{ck[0] + di, ck[1] + dj}] {
				plat, plng := p.Coords()
				if math.Abs(plat-lat) <= radius && math.Abs(plng-lng) <= radius && keep(p) {
					out = append(out, p)
				}
			}
		}
	}
	return out
}
