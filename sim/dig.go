package sim

import (
	"github.com/pthm-cable/formicary/components"
	"github.com/pthm-cable/formicary/terrain"
)

// reinforceDirs are the tiles a digger shores up: the walls beside it and
// the ceiling above.
var reinforceDirs = [5][2]int{
	{-1, 0}, {1, 0}, {0, -1}, {-1, -1}, {1, -1},
}

// dig lets every digging ant excavate one neighbor and harden the walls
// around it. Tile writes are immediate; nothing here touches entity storage.
func (s *Sim) dig() {
	cfg := s.cfg.Dig

	query := s.antFilter.Query()
	for query.Next() {
		if s.deadMap.Has(query.Entity()) {
			continue
		}
		pos, ant, _, _ := query.Get()
		if ant.State != components.StateDigging {
			continue
		}

		if s.roll() < cfg.DigChance {
			for _, d := range digNeighbors {
				nx, ny := pos.X+d[0], pos.Y+d[1]
				if s.terrain.IsDiggable(nx, ny) {
					s.terrain.Set(nx, ny, terrain.Tunnel)
					break
				}
			}
		}

		for _, d := range reinforceDirs {
			nx, ny := pos.X+d[0], pos.Y+d[1]
			if s.terrain.IsDiggable(nx, ny) && s.roll() < cfg.ReinforceChance {
				s.terrain.Set(nx, ny, terrain.DenseSoil)
			}
		}
	}
}
