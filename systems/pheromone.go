package systems

import (
	"math/rand"
)

// Channel selects one pheromone signal.
type Channel uint8

const (
	ChannelFood   Channel = iota // found food, follow me
	ChannelHome                  // path back to the nest
	ChannelDanger                // enemy or hazard here
	numChannels
)

// neighborDirs is the 8-neighborhood in cardinal-first order. Diffusion and
// both gradient modes share it.
var neighborDirs = [8][2]int{
	{0, -1}, {0, 1}, {-1, 0}, {1, 0},
	{-1, -1}, {1, -1}, {-1, 1}, {1, 1},
}

// PheromoneParams are the tunable field constants, injected once at startup.
type PheromoneParams struct {
	MaxStrength   float32
	DecayFood     float32
	DecayHome     float32
	DecayDanger   float32
	SnapToZero    float32
	DiffusionRate float32
	// GradientThreshold is the minimum neighbor strength the weighted
	// gradient considers a candidate.
	GradientThreshold float32
}

// PheromoneGrid stores width x height x colonies x channels scalar
// intensities. Layout: (y*width + x) * colonies * 3 + colony * 3 + channel.
// The scratch buffer is permanent; diffusion swaps buffers instead of
// copying.
type PheromoneGrid struct {
	width    int
	height   int
	colonies int
	params   PheromoneParams

	data   []float32
	buffer []float32
}

// NewPheromoneGrid creates a zeroed field for the given world size and
// colony capacity.
func NewPheromoneGrid(width, height, colonies int, params PheromoneParams) *PheromoneGrid {
	size := width * height * colonies * int(numChannels)
	return &PheromoneGrid{
		width:    width,
		height:   height,
		colonies: colonies,
		params:   params,
		data:     make([]float32, size),
		buffer:   make([]float32, size),
	}
}

// Colonies returns the channel capacity the grid was built for.
func (p *PheromoneGrid) Colonies() int { return p.colonies }

func (p *PheromoneGrid) index(x, y int, colony uint8, ch Channel) (int, bool) {
	if x < 0 || y < 0 || x >= p.width || y >= p.height {
		return 0, false
	}
	c := int(colony)
	if c >= p.colonies {
		c = p.colonies - 1
	}
	return (y*p.width+x)*p.colonies*int(numChannels) + c*int(numChannels) + int(ch), true
}

// Get returns the intensity at (x, y). Out-of-bounds reads return 0 so
// callers never need to special-case the world edge.
func (p *PheromoneGrid) Get(x, y int, colony uint8, ch Channel) float32 {
	if i, ok := p.index(x, y, colony, ch); ok {
		return p.data[i]
	}
	return 0
}

// Deposit adds amount, clamped to MaxStrength. Out-of-bounds writes are
// dropped.
func (p *PheromoneGrid) Deposit(x, y int, colony uint8, ch Channel, amount float32) {
	if i, ok := p.index(x, y, colony, ch); ok {
		v := p.data[i] + amount
		if v > p.params.MaxStrength {
			v = p.params.MaxStrength
		}
		p.data[i] = v
	}
}

// DepositAdaptive scales the deposit by how far the cell is from saturation:
// effective = base * (1 - current/max). Repeated deposits on a hot cell yield
// diminishing increments and the cell approaches but never exceeds max, so
// saturated cells cannot become stuck beacons.
func (p *PheromoneGrid) DepositAdaptive(x, y int, colony uint8, ch Channel, base float32) {
	i, ok := p.index(x, y, colony, ch)
	if !ok {
		return
	}
	current := p.data[i]
	effective := base * (1 - current/p.params.MaxStrength)
	v := current + effective
	if v > p.params.MaxStrength {
		v = p.params.MaxStrength
	}
	p.data[i] = v
}

// Decay applies the per-channel multiplicative decay and snaps near-zero
// residues to zero. Home decays an order of magnitude slower than danger;
// the rate ordering (danger > food > home) is what makes trails persist the
// way they should, so the three rates are never merged.
func (p *PheromoneGrid) Decay() {
	keepFood := 1 - p.params.DecayFood
	keepHome := 1 - p.params.DecayHome
	keepDanger := 1 - p.params.DecayDanger
	snap := p.params.SnapToZero

	for i := 0; i < len(p.data); i += int(numChannels) {
		p.data[i] *= keepFood
		if p.data[i] < snap {
			p.data[i] = 0
		}
		p.data[i+1] *= keepHome
		if p.data[i+1] < snap {
			p.data[i+1] = 0
		}
		p.data[i+2] *= keepDanger
		if p.data[i+2] < snap {
			p.data[i+2] = 0
		}
	}
}

// Diffusion neighbor weights: cardinal 1.0, diagonal ~1/sqrt2.
const (
	cardinalWeight = float32(1.0)
	diagonalWeight = float32(0.707)
	totalWeight    = 4*cardinalWeight + 4*diagonalWeight
)

// Diffuse spreads a fraction of every non-negligible cell to its 8 neighbors,
// weighted cardinal over diagonal. The pass is computed entirely from the
// pre-pass state into the scratch buffer and the buffers are swapped at the
// end; updating in place would read half-updated neighbors and smear the
// field directionally.
func (p *PheromoneGrid) Diffuse() {
	for i := range p.buffer {
		p.buffer[i] = 0
	}

	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			for colony := 0; colony < p.colonies; colony++ {
				for ch := Channel(0); ch < numChannels; ch++ {
					i, _ := p.index(x, y, uint8(colony), ch)
					val := p.data[i]
					if val < p.params.SnapToZero {
						continue
					}

					spread := val * p.params.DiffusionRate
					p.buffer[i] += val - spread

					for d, dir := range neighborDirs {
						ni, ok := p.index(x+dir[0], y+dir[1], uint8(colony), ch)
						if !ok {
							continue
						}
						w := cardinalWeight
						if d >= 4 {
							w = diagonalWeight
						}
						p.buffer[ni] += spread * w / totalWeight
					}
				}
			}
		}
	}

	p.data, p.buffer = p.buffer, p.data
}

// Gradient returns the neighbor direction with the strongest signal, or
// ok=false when no neighbor strictly exceeds the current cell (ties keep the
// ant where it is, avoiding jitter on plateaus).
func (p *PheromoneGrid) Gradient(x, y int, colony uint8, ch Channel) (dx, dy int, ok bool) {
	best := p.Get(x, y, colony, ch)
	for _, dir := range neighborDirs {
		s := p.Get(x+dir[0], y+dir[1], colony, ch)
		if s > best {
			best = s
			dx, dy = dir[0], dir[1]
			ok = true
		}
	}
	return dx, dy, ok
}

// GradientWeighted samples a direction among neighbors above the candidate
// threshold, with probability proportional to strength squared. Squaring
// favors strong trails while leaving room for exploration. Selection walks
// the cumulative sum; if floating-point rounding leaves residual weight
// unconsumed, the last candidate is chosen deterministically.
func (p *PheromoneGrid) GradientWeighted(rng *rand.Rand, x, y int, colony uint8, ch Channel) (dx, dy int, ok bool) {
	type candidate struct {
		dx, dy int
		weight float32
	}
	var candidates []candidate
	var total float32

	for _, dir := range neighborDirs {
		s := p.Get(x+dir[0], y+dir[1], colony, ch)
		if s > p.params.GradientThreshold {
			w := s * s
			candidates = append(candidates, candidate{dir[0], dir[1], w})
			total += w
		}
	}
	if len(candidates) == 0 {
		return 0, 0, false
	}

	roll := rng.Float32() * total
	for _, c := range candidates {
		roll -= c.weight
		if roll <= 0 {
			return c.dx, c.dy, true
		}
	}
	last := candidates[len(candidates)-1]
	return last.dx, last.dy, true
}

// Total sums the whole field. Used by diagnostics and conservation tests.
func (p *PheromoneGrid) Total() float64 {
	var sum float64
	for _, v := range p.data {
		sum += float64(v)
	}
	return sum
}
