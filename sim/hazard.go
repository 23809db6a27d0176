package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/formicary/telemetry"
	"github.com/pthm-cable/formicary/terrain"
)

var cardinalDirs = [4][2]int{
	{0, -1}, {0, 1}, {-1, 0}, {1, 0},
}

// collapseChance maps the number of open 8-neighbors (air or tunnel, less
// the dense-soil support credit) to a byte-roll threshold. Better-supported tiles never
// fall; heavily undermined ones fall often.
func collapseChance(openNeighbors int) uint8 {
	switch {
	case openNeighbors <= 2:
		return 0
	case openNeighbors == 3:
		return 1
	case openNeighbors == 4:
		return 3
	case openNeighbors == 5:
		return 10
	}
	return 25
}

// caveIns collapses undermined soil. A tile over open air can give way, the
// dirt falling to the bottom of the open shaft below and crushing anything
// standing where it lands. Reinforced tunnels hold the ceiling, so tiles
// touching a tunnel are exempt.
func (s *Sim) caveIns() {
	type collapse struct {
		x, y, landing int
	}
	var collapses []collapse

	width := s.terrain.Width()
	height := s.terrain.Height()

	for y := 0; y < height-1; y++ {
		for x := 0; x < width; x++ {
			if !s.terrain.IsDiggable(x, y) {
				continue
			}
			below := s.terrain.Get(x, y+1)
			if below != terrain.Open && below != terrain.Tunnel {
				continue
			}
			if s.touchesTunnel(x, y) {
				continue
			}

			open := 0
			for _, d := range fleeDirs {
				switch s.terrain.Get(x+d[0], y+d[1]) {
				case terrain.Open, terrain.Tunnel:
					open++
				}
			}
			if s.terrain.Get(x, y) == terrain.DenseSoil {
				open -= s.cfg.Hazard.DenseBonus
			}
			if s.roll() >= collapseChance(open) {
				continue
			}

			fy := y + 1
			for s.terrain.Get(x, fy+1) == terrain.Open {
				fy++
			}
			collapses = append(collapses, collapse{x: x, y: y, landing: fy})
		}
	}

	for _, c := range collapses {
		// Re-check: an earlier collapse this pass may have filled the shaft.
		if !s.terrain.IsDiggable(c.x, c.y) || s.terrain.Get(c.x, c.landing) != terrain.Open {
			continue
		}
		// The falling dirt keeps its kind, so reinforced dense soil stays
		// dense where it lands.
		kind := s.terrain.Get(c.x, c.y)
		s.terrain.Set(c.x, c.y, terrain.Open)
		s.terrain.Set(c.x, c.landing, kind)
		s.crushAt(c.x, c.landing)
		s.collector.RecordCollapse()
	}
}

func (s *Sim) touchesTunnel(x, y int) bool {
	for _, d := range cardinalDirs {
		if s.terrain.Get(x+d[0], y+d[1]) == terrain.Tunnel {
			return true
		}
	}
	return false
}

// crushAt kills everything positioned on the landing tile: ants, food nodes
// and aphids alike are buried.
func (s *Sim) crushAt(x, y int) {
	var buried []ecs.Entity

	query := s.posFilter.Query()
	for query.Next() {
		pos := query.Get()
		if pos.X == x && pos.Y == y {
			buried = append(buried, query.Entity())
		}
	}

	for _, e := range buried {
		s.kill(e, telemetry.DeathCrushed)
	}
}
