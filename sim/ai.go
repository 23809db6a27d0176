package sim

import (
	"github.com/pthm-cable/formicary/components"
	"github.com/pthm-cable/formicary/systems"
	"github.com/pthm-cable/formicary/terrain"
)

// digNeighbors are the tiles a digger can reach, preferring depth.
var digNeighbors = [5][2]int{
	{0, 1}, {-1, 1}, {1, 1}, {-1, 0}, {1, 0},
}

// canDig reports whether any reachable neighbor is excavatable.
func (s *Sim) canDig(x, y int) bool {
	for _, d := range digNeighbors {
		if s.terrain.IsDiggable(x+d[0], y+d[1]) {
			return true
		}
	}
	return false
}

// onGround reports whether the ant has footing: standing on the surface line
// or directly above an impassable tile.
func (s *Sim) onGround(x, y int) bool {
	if s.terrain.Get(x, y) == terrain.Surface {
		return true
	}
	return !s.terrain.IsPassable(x, y+1)
}

// updateWorkerAI drives the worker dig state machine. State writes here are
// in-place component mutation, safe inside the query.
func (s *Sim) updateWorkerAI() {
	cfg := s.cfg.Dig

	query := s.antFilter.Query()
	for query.Next() {
		if s.deadMap.Has(query.Entity()) {
			continue
		}
		pos, ant, _, _ := query.Get()
		if ant.Role != components.RoleWorker {
			continue
		}

		switch ant.State {
		case components.StateIdle:
			if s.roll() < cfg.IdleWanderChance {
				ant.SetState(components.StateWandering)
			}

		case components.StateWandering:
			if s.canDig(pos.X, pos.Y) && s.onGround(pos.X, pos.Y) && s.roll() < cfg.StartChance {
				ant.SetState(components.StateDigging)
			}

		case components.StateDigging:
			if !s.canDig(pos.X, pos.Y) {
				ant.SetState(components.StateReturning)
				break
			}
			// Diggers linger longer once they are carving actual tunnel.
			stop := cfg.StopSurface
			if s.terrain.Get(pos.X, pos.Y) == terrain.Tunnel {
				stop = cfg.StopUnderground
			}
			if s.roll() < stop {
				ant.SetState(components.StateReturning)
			}

		case components.StateReturning:
			if s.terrain.Get(pos.X, pos.Y) == terrain.Surface {
				ant.SetState(components.StateWandering)
			} else if s.canDig(pos.X, pos.Y) && s.onGround(pos.X, pos.Y) && s.roll() < cfg.DistractionChance {
				ant.SetState(components.StateDigging)
			}
		}
	}
}

// updateSoldierAI engages soldiers when their own colony's danger marker is
// hot at their position and stands them down when it has faded.
func (s *Sim) updateSoldierAI() {
	cfg := s.cfg.Combat

	query := s.antFilter.Query()
	for query.Next() {
		if s.deadMap.Has(query.Entity()) {
			continue
		}
		pos, ant, member, _ := query.Get()
		if ant.Role != components.RoleSoldier {
			continue
		}

		danger := s.pheromones.Get(pos.X, pos.Y, member.ColonyID, systems.ChannelDanger)
		switch {
		case danger > cfg.SoldierEngage:
			ant.SetState(components.StateFighting)
		case ant.State == components.StateFighting && danger < cfg.SoldierDisengage:
			ant.SetState(components.StateWandering)
		}
	}
}

// dangerSum is the total danger at (x, y) across every colony's channel.
// Workers flee from any fight, not just their own colony's.
func (s *Sim) dangerSum(x, y int) float32 {
	var sum float32
	for c := 0; c < s.colonies.Len(); c++ {
		sum += s.pheromones.Get(x, y, uint8(c), systems.ChannelDanger)
	}
	return sum
}

// maxDanger is the strongest single-colony danger reading at (x, y).
func (s *Sim) maxDanger(x, y int) float32 {
	var max float32
	for c := 0; c < s.colonies.Len(); c++ {
		if d := s.pheromones.Get(x, y, uint8(c), systems.ChannelDanger); d > max {
			max = d
		}
	}
	return max
}

// updateWorkerFlee sends workers running from hot danger zones. Carriers
// keep their cargo and hold their state.
func (s *Sim) updateWorkerFlee() {
	cfg := s.cfg.Combat

	query := s.antFilter.Query()
	for query.Next() {
		e := query.Entity()
		if s.deadMap.Has(e) {
			continue
		}
		pos, ant, _, _ := query.Get()
		if ant.Role != components.RoleWorker {
			continue
		}

		danger := s.maxDanger(pos.X, pos.Y)
		switch {
		case danger > cfg.WorkerFlee:
			if !s.carryingMap.Has(e) {
				ant.SetState(components.StateFleeing)
			}
		case ant.State == components.StateFleeing && danger < cfg.WorkerCalm:
			ant.SetState(components.StateWandering)
		}
	}
}
