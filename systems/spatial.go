// Package systems holds the simulation fields and their spatial queries.
package systems

import "math"

// SpatialGrid buckets item indices into square cells over a bounded arena.
// It stores indices into a caller-owned slice, so lookups never touch the ECS world
// and concurrent readers are safe once the grid is built.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]int32
}

// NewSpatialGrid creates a spatial grid covering the given arena size.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]int32, cols*rows)
	for i := range cells {
		cells[i] = make([]int32, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear removes all items from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an item index to the cell containing (x, y).
func (g *SpatialGrid) Insert(idx int32, x, y float64) {
	c := g.cellIndex(x, y)
	g.cells[c] = append(g.cells[c], idx)
}

// Visit calls fn for every item in a cell overlapping the square around (x, y)
// with half-size radius. Callers filter by exact distance.
func (g *SpatialGrid) Visit(x, y, radius float64, fn func(idx int32)) {
	if radius < 0 {
		return
	}
	col0, row0 := g.cellCoord(x-radius, y-radius)
	col1, row1 := g.cellCoord(x+radius, y+radius)

	for row := row0; row <= row1; row++ {
		base := row * g.cols
		for col := col0; col <= col1; col++ {
			for _, idx := range g.cells[base+col] {
				fn(idx)
			}
		}
	}
}

// cellCoord returns the clamped column and row for a position.
func (g *SpatialGrid) cellCoord(x, y float64) (int, int) {
	col := clampCell(x/g.cellSize, g.cols)
	row := clampCell(y/g.cellSize, g.rows)
	return col, row
}

// cellIndex returns the flat index for a position.
func (g *SpatialGrid) cellIndex(x, y float64) int {
	col, row := g.cellCoord(x, y)
	return row*g.cols + col
}

func clampCell(v float64, n int) int {
	if math.IsInf(v, 1) || v >= float64(n) {
		return n - 1
	}
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return int(v)
}
