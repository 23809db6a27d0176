package systems

import (
	"math/rand"

	"github.com/pthm-cable/formicary/terrain"
)

// WaterCell is one tile of the fluid grid.
type WaterCell struct {
	Depth    uint8
	Pressure uint8
	FlowDX   int8
	FlowDY   int8
	Stagnant uint16
}

// WaterParams are the tunable fluid constants, injected once at startup.
type WaterParams struct {
	MaxDepth           uint8
	PassableThreshold  uint8 // depth at and above which ants cannot enter
	DangerousThreshold uint8 // depth at and above which submersion accrues
	EvaporationDepth   uint8 // deepest cell that can evaporate
	StagnantTicks      uint16
	RainChance         uint32 // 1-in-N start chance per tick
	RainIntensityMin   uint8
	RainIntensityMax   uint8
	RainDurationMin    uint32
	RainDurationMax    uint32
	RainCoverageMin    float32
	RainCoverageMax    float32
}

// RainEvent is an active rain spell.
type RainEvent struct {
	Intensity uint8
	Duration  uint32
	Coverage  float32
}

// WaterGrid is the cellular fluid simulation: per-tile depth, pressure, flow
// direction and stagnation.
type WaterGrid struct {
	width  int
	height int
	params WaterParams
	cells  []WaterCell

	rain *RainEvent
}

// NewWaterGrid creates a dry grid.
func NewWaterGrid(width, height int, params WaterParams) *WaterGrid {
	return &WaterGrid{
		width:  width,
		height: height,
		params: params,
		cells:  make([]WaterCell, width*height),
	}
}

func (w *WaterGrid) index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= w.width || y >= w.height {
		return 0, false
	}
	return y*w.width + x, true
}

// Get returns the cell at (x, y); out-of-bounds reads return a dry cell.
func (w *WaterGrid) Get(x, y int) WaterCell {
	if i, ok := w.index(x, y); ok {
		return w.cells[i]
	}
	return WaterCell{}
}

// Depth returns the water depth at (x, y), 0 out of bounds.
func (w *WaterGrid) Depth(x, y int) uint8 {
	return w.Get(x, y).Depth
}

// IsPassable reports whether an ant can enter water of this depth.
func (w *WaterGrid) IsPassable(x, y int) bool {
	return w.Depth(x, y) < w.params.PassableThreshold
}

// IsDangerous reports whether the depth at (x, y) accrues submersion.
func (w *WaterGrid) IsDangerous(x, y int) bool {
	return w.Depth(x, y) >= w.params.DangerousThreshold
}

// Raining reports whether a rain event is active.
func (w *WaterGrid) Raining() bool { return w.rain != nil }

// AddWater raises depth, clamped to MaxDepth, and resets stagnation.
// Out-of-bounds writes are dropped.
func (w *WaterGrid) AddWater(x, y int, amount uint8) {
	i, ok := w.index(x, y)
	if !ok {
		return
	}
	d := uint16(w.cells[i].Depth) + uint16(amount)
	if d > uint16(w.params.MaxDepth) {
		d = uint16(w.params.MaxDepth)
	}
	w.cells[i].Depth = uint8(d)
	w.cells[i].Stagnant = 0
}

// RemoveWater lowers depth, saturating at zero.
func (w *WaterGrid) RemoveWater(x, y int, amount uint8) {
	i, ok := w.index(x, y)
	if !ok {
		return
	}
	if amount > w.cells[i].Depth {
		w.cells[i].Depth = 0
		return
	}
	w.cells[i].Depth -= amount
}

// transfer moves amount units between two cells if the source holds enough
// and the destination has room, recording the flow direction on the source.
func (w *WaterGrid) transfer(fromX, fromY, toX, toY int, amount uint8) {
	from := w.Depth(fromX, fromY)
	to := w.Depth(toX, toY)
	if from < amount || to+amount > w.params.MaxDepth {
		return
	}
	w.RemoveWater(fromX, fromY, amount)
	w.AddWater(toX, toY, amount)
	if i, ok := w.index(fromX, fromY); ok {
		w.cells[i].FlowDX = int8(toX - fromX)
		w.cells[i].FlowDY = int8(toY - fromY)
		w.cells[i].Stagnant = 0
	}
}

// CalculatePressure recomputes every cell's pressure from the connected
// water column above it. The scan breaks at the first dry or impassable
// cell. Recomputed fully each invocation: terrain and depth both change
// between calls, so incremental updates would go stale.
func (w *WaterGrid) CalculatePressure(t terrain.Grid) {
	for x := 0; x < w.width; x++ {
		for y := 0; y < w.height; y++ {
			i, _ := w.index(x, y)
			depth := w.cells[i].Depth
			if depth == 0 {
				w.cells[i].Pressure = 0
				continue
			}

			pressure := uint16(depth)
			for checkY := y - 1; checkY >= 0; checkY-- {
				above := w.Depth(x, checkY)
				if above == 0 || !t.IsPassable(x, checkY) {
					break
				}
				pressure += uint16(above)
			}
			if pressure > uint16(w.params.MaxDepth) {
				pressure = uint16(w.params.MaxDepth)
			}
			w.cells[i].Pressure = uint8(pressure)
		}
	}
}

// Flow resolves movement in two interleaved checkerboard passes (parity of
// x+y) so raster order cannot bias the flow direction. Each wet cell
// transfers at most one unit to the first eligible neighbor in priority
// order: down, the down-diagonals, sideways, then pressure-gated up.
func (w *WaterGrid) Flow(t terrain.Grid) {
	for pass := 0; pass < 2; pass++ {
		for y := 0; y < w.height; y++ {
			for x := 0; x < w.width; x++ {
				if (x+y)%2 != pass {
					continue
				}
				cell := w.Get(x, y)
				if cell.Depth == 0 {
					continue
				}

				// priority > 0: down, 0: sideways, < 0: up
				neighbors := [...]struct {
					x, y, priority int
				}{
					{x, y + 1, 2},
					{x - 1, y + 1, 1},
					{x + 1, y + 1, 1},
					{x - 1, y, 0},
					{x + 1, y, 0},
					{x, y - 1, -1},
				}

				for _, n := range neighbors {
					if !t.IsPassable(n.x, n.y) {
						continue
					}
					neighbor := w.Get(n.x, n.y)

					var shouldFlow bool
					switch {
					case n.priority > 0:
						// Downward: any spare capacity.
						shouldFlow = neighbor.Depth < w.params.MaxDepth
					case n.priority == 0:
						// Sideways: strictly lower pressure and depth.
						shouldFlow = neighbor.Pressure < cell.Pressure && neighbor.Depth < cell.Depth
					default:
						// Upward: only under significant pressure.
						shouldFlow = cell.Pressure > neighbor.Pressure+2 && neighbor.Depth < w.params.MaxDepth
					}

					if shouldFlow {
						w.transfer(x, y, n.x, n.y, 1)
						break
					}
				}
			}
		}
	}
}

// Evaporate ages shallow cells exposed to open air above; once a cell's
// stagnation counter passes the threshold one unit evaporates and the
// counter resets. Deep or covered cells never evaporate.
func (w *WaterGrid) Evaporate(t terrain.Grid) {
	for y := 0; y < w.height; y++ {
		for x := 0; x < w.width; x++ {
			i, _ := w.index(x, y)
			cell := &w.cells[i]
			if cell.Depth == 0 || cell.Depth > w.params.EvaporationDepth {
				continue
			}

			exposed := y == 0 || (t.IsPassable(x, y-1) && w.Depth(x, y-1) == 0)
			if !exposed {
				continue
			}

			cell.Stagnant++
			if cell.Stagnant > w.params.StagnantTicks {
				cell.Depth--
				cell.Stagnant = 0
			}
		}
	}
}

// Rain maybe starts a rain event (1-in-RainChance per tick while idle) and,
// while one is active, adds intensity depth to the cell above each covered
// column's surface, counting the event down to completion.
func (w *WaterGrid) Rain(rng *rand.Rand, t terrain.Grid) {
	if w.rain == nil && rng.Int31n(int32(w.params.RainChance)) == 0 {
		w.rain = &RainEvent{
			Intensity: w.params.RainIntensityMin + uint8(rng.Intn(int(w.params.RainIntensityMax-w.params.RainIntensityMin)+1)),
			Duration:  w.params.RainDurationMin + uint32(rng.Int63n(int64(w.params.RainDurationMax-w.params.RainDurationMin))),
			Coverage:  w.params.RainCoverageMin + rng.Float32()*(w.params.RainCoverageMax-w.params.RainCoverageMin),
		}
	}
	if w.rain == nil {
		return
	}

	for x := 0; x < w.width; x++ {
		if rng.Float32() >= w.rain.Coverage {
			continue
		}
		for y := 0; y < w.height; y++ {
			if !t.IsPassable(x, y) {
				if y > 0 {
					w.AddWater(x, y-1, w.rain.Intensity)
				}
				break
			}
		}
	}

	w.rain.Duration--
	if w.rain.Duration == 0 {
		w.rain = nil
	}
}

// TotalDepth sums depth over the grid. Flow moves exactly one unit between
// two cells, so only evaporation and rain may change this sum.
func (w *WaterGrid) TotalDepth() int {
	var sum int
	for i := range w.cells {
		sum += int(w.cells[i].Depth)
	}
	return sum
}

// SpawnSources seeds count underground water pockets in open space in the
// lower half of the world.
func (w *WaterGrid) SpawnSources(rng *rand.Rand, t terrain.Grid, count int) {
	spawned := 0
	for attempts := 0; spawned < count && attempts < count*20; attempts++ {
		x := rng.Intn(w.width)
		y := w.height/2 + rng.Intn(w.height-w.height/2)
		if t.IsPassable(x, y) {
			w.AddWater(x, y, 3+uint8(rng.Intn(int(w.params.MaxDepth)-2)))
			spawned++
		}
	}
}
