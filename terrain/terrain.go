// Package terrain provides the tile grid the simulation runs on.
package terrain

// TileKind classifies a tile.
type TileKind uint8

const (
	Open TileKind = iota // air or carved-out space
	Tunnel               // ant-dug, reinforced passage
	Soil                 // diggable, can collapse
	DenseSoil            // ant-hardened soil, diggable but more stable
	Solid                // bedrock, indestructible
	Surface              // the grass line between air and ground
)

func (k TileKind) String() string {
	switch k {
	case Open:
		return "open"
	case Tunnel:
		return "tunnel"
	case Soil:
		return "soil"
	case DenseSoil:
		return "dense-soil"
	case Solid:
		return "solid"
	case Surface:
		return "surface"
	}
	return "unknown"
}

// Passable reports whether an ant can occupy the tile.
func (k TileKind) Passable() bool {
	return k == Open || k == Tunnel || k == Surface
}

// Diggable reports whether the tile can be excavated.
func (k TileKind) Diggable() bool {
	return k == Soil || k == DenseSoil
}

// Grid is the read/write grid interface the simulation consumes.
// Out-of-bounds reads return neutral values, out-of-bounds writes are no-ops.
type Grid interface {
	Width() int
	Height() int
	Get(x, y int) TileKind
	Set(x, y int, k TileKind)
	IsPassable(x, y int) bool
	IsDiggable(x, y int) bool
}

// Tiles is the concrete tile grid.
type Tiles struct {
	width  int
	height int
	tiles  []TileKind
}

// New creates a grid filled with Open tiles.
func New(width, height int) *Tiles {
	return &Tiles{
		width:  width,
		height: height,
		tiles:  make([]TileKind, width*height),
	}
}

func (t *Tiles) Width() int  { return t.width }
func (t *Tiles) Height() int { return t.height }

func (t *Tiles) index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return 0, false
	}
	return y*t.width + x, true
}

// Get returns the tile kind at (x, y). Out of bounds reads return Solid so
// the world edge behaves like bedrock for every caller.
func (t *Tiles) Get(x, y int) TileKind {
	i, ok := t.index(x, y)
	if !ok {
		return Solid
	}
	return t.tiles[i]
}

// Set writes the tile kind at (x, y). Out of bounds writes are dropped.
func (t *Tiles) Set(x, y int, k TileKind) {
	if i, ok := t.index(x, y); ok {
		t.tiles[i] = k
	}
}

// IsPassable reports whether an ant can occupy (x, y).
func (t *Tiles) IsPassable(x, y int) bool {
	return t.Get(x, y).Passable()
}

// IsDiggable reports whether (x, y) can be excavated.
func (t *Tiles) IsDiggable(x, y int) bool {
	return t.Get(x, y).Diggable()
}

// SurfaceY returns the y of the topmost impassable tile in column x, or
// the grid height if the column is entirely open.
func SurfaceY(g Grid, x int) int {
	for y := 0; y < g.Height(); y++ {
		if !g.IsPassable(x, y) {
			return y
		}
	}
	return g.Height()
}

// SurfaceY returns the y of the topmost impassable tile in column x, or
// height if the column is entirely open.
func (t *Tiles) SurfaceY(x int) int {
	return SurfaceY(t, x)
}
