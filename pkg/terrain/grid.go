// Package terrain holds the height/material grid the renderer reads, plus a
// procedural source used by the demo driver.
package terrain

// Material is the color class of a cell.
type Material uint8

const (
	MaterialFloor Material = iota
	MaterialLow
	MaterialMid
	MaterialHigh
	MaterialSpike
)

// Elevation thresholds separating the material ramp.
const (
	FloorMax = 1.1
	LowMax   = 3.0
	MidMax   = 6.0
)

// MaterialFor returns the ramp material for an elevation.
func MaterialFor(h float64) Material {
	switch {
	case h <= FloorMax:
		return MaterialFloor
	case h <= LowMax:
		return MaterialLow
	case h <= MidMax:
		return MaterialMid
	default:
		return MaterialHigh
	}
}

// CellChange records a single cell write.
type CellChange struct {
	I, J int
}

// Grid is a square heightfield. Elevation 0 is void.
//
// The grid is not safe for concurrent use; the simulation writes cells
// between frames on the same goroutine that renders.
type Grid struct {
	size     int
	elev     []float32
	mat      []Material
	origElev []float32
	origMat  []Material
	changes  []CellChange
}

// New creates an all-void grid of size×size cells.
func New(size int) *Grid {
	if size < 1 {
		size = 1
	}
	return &Grid{
		size: size,
		elev: make([]float32, size*size),
		mat:  make([]Material, size*size),
	}
}

// Size returns the edge length in cells.
func (g *Grid) Size() int {
	return g.size
}

// InBounds reports whether (i, j) addresses a cell.
func (g *Grid) InBounds(i, j int) bool {
	return i >= 0 && j >= 0 && i < g.size && j < g.size
}

// Height returns the elevation at (i, j), or 0 outside the grid.
func (g *Grid) Height(i, j int) float64 {
	if !g.InBounds(i, j) {
		return 0
	}
	return float64(g.elev[j*g.size+i])
}

// HeightOr returns the elevation at (i, j), or fallback outside the grid.
func (g *Grid) HeightOr(i, j int, fallback float64) float64 {
	if !g.InBounds(i, j) {
		return fallback
	}
	return float64(g.elev[j*g.size+i])
}

// Material returns the material at (i, j), or MaterialFloor outside the grid.
func (g *Grid) Material(i, j int) Material {
	if !g.InBounds(i, j) {
		return MaterialFloor
	}
	return g.mat[j*g.size+i]
}

// Set writes one cell and queues a change event. Negative elevations are
// clamped to 0 and out-of-grid writes are ignored.
func (g *Grid) Set(i, j int, h float64, m Material) {
	if !g.InBounds(i, j) {
		return
	}
	if h < 0 {
		h = 0
	}
	idx := j*g.size + i
	g.elev[idx] = float32(h)
	g.mat[idx] = m
	g.changes = append(g.changes, CellChange{I: i, J: j})
}

// Fill writes a cell without queueing a change. It is meant for building a
// grid before it is snapshotted.
func (g *Grid) Fill(i, j int, h float64, m Material) {
	if !g.InBounds(i, j) {
		return
	}
	if h < 0 {
		h = 0
	}
	g.elev[j*g.size+i] = float32(h)
	g.mat[j*g.size+i] = m
}

// Destroy turns a cell into void.
func (g *Grid) Destroy(i, j int) {
	g.Set(i, j, 0, MaterialFloor)
}

// Spike raises a cell to h with the hazard material.
func (g *Grid) Spike(i, j int, h float64) {
	g.Set(i, j, h, MaterialSpike)
}

// Pending returns the number of queued changes.
func (g *Grid) Pending() int {
	return len(g.changes)
}

// Drain hands every queued change to fn in write order and empties the queue.
func (g *Grid) Drain(fn func(CellChange)) {
	for _, c := range g.changes {
		fn(c)
	}
	g.changes = g.changes[:0]
}

// Snapshot records the current cells as the restart baseline.
func (g *Grid) Snapshot() {
	g.origElev = append(g.origElev[:0], g.elev...)
	g.origMat = append(g.origMat[:0], g.mat...)
}

// Reset restores the last snapshot and discards queued changes. Without a
// snapshot it only clears the queue.
func (g *Grid) Reset() {
	if g.origElev != nil {
		copy(g.elev, g.origElev)
		copy(g.mat, g.origMat)
	}
	g.changes = g.changes[:0]
}
