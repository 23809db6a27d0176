// Package systems provides the grid fields and spatial index the behavior
// systems read and write.
package systems

import (
	"github.com/mlange-42/ark/ecs"
)

// NearbyEntry is one spatial query hit. The index only guarantees cell-level
// locality; callers apply their own distance filter (combat uses Chebyshev
// distance <= 1) on the returned coordinates.
type NearbyEntry struct {
	Entity ecs.Entity
	X, Y   int
	Colony uint8
}

// SpatialGrid is a uniform bucket grid over ant positions, rebuilt from
// scratch every tick. O(ants) rebuild, O(ants-per-cell) query; no removal
// API because the full-rebuild model never needs one.
type SpatialGrid struct {
	cells    [][]NearbyEntry
	cols     int
	rows     int
	cellSize int
}

// NewSpatialGrid creates a grid covering a world of the given tile
// dimensions. cellSize 8 works well for adjacency-bounded combat checks.
func NewSpatialGrid(worldWidth, worldHeight, cellSize int) *SpatialGrid {
	cols := worldWidth/cellSize + 1
	rows := worldHeight/cellSize + 1
	cells := make([][]NearbyEntry, cols*rows)
	for i := range cells {
		cells[i] = make([]NearbyEntry, 0, 8)
	}
	return &SpatialGrid{
		cells:    cells,
		cols:     cols,
		rows:     rows,
		cellSize: cellSize,
	}
}

// Clear empties every bucket, keeping capacity. Called at the start of each
// tick before reinsertion.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entity at (x, y). Positions outside the grid are dropped.
func (g *SpatialGrid) Insert(e ecs.Entity, x, y int, colony uint8) {
	cx := x / g.cellSize
	cy := y / g.cellSize
	if x < 0 || y < 0 || cx >= g.cols || cy >= g.rows {
		return
	}
	idx := cy*g.cols + cx
	g.cells[idx] = append(g.cells[idx], NearbyEntry{Entity: e, X: x, Y: y, Colony: colony})
}

// QueryNearby returns every entity in the 3x3 block of cells centered on the
// cell containing (x, y).
func (g *SpatialGrid) QueryNearby(x, y int) []NearbyEntry {
	cx := x / g.cellSize
	cy := y / g.cellSize

	var results []NearbyEntry
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx := cx + dx
			ny := cy + dy
			if nx < 0 || ny < 0 || nx >= g.cols || ny >= g.rows {
				continue
			}
			results = append(results, g.cells[ny*g.cols+nx]...)
		}
	}
	return results
}
