package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/formicary/components"
	"github.com/pthm-cable/formicary/systems"
	"github.com/pthm-cable/formicary/terrain"
)

// wanderDirs is the random-walk table. Down appears twice so undirected ants
// drift into the nest rather than away from it; the final entry is a rest.
var wanderDirs = [8][2]int{
	{0, -1}, {0, 1}, {0, 1}, {-1, 0}, {1, 0}, {-1, 1}, {1, 1}, {0, 0},
}

// climbDirs is the way back to daylight: up first, then sideways.
var climbDirs = [5][2]int{
	{0, -1}, {-1, -1}, {1, -1}, {-1, 0}, {1, 0},
}

// canOccupy reports whether an ant may stand at (x, y): walkable terrain
// that is not flooded past wading depth.
func (s *Sim) canOccupy(x, y int) bool {
	return s.terrain.IsPassable(x, y) && s.water.IsPassable(x, y)
}

type move struct {
	entity ecs.Entity
	x, y   int
}

// moveAnts advances every mobile ant one tile according to its state. Target
// tiles are computed against the pre-move world and applied afterwards, so
// iteration order never changes what an ant sees.
func (s *Sim) moveAnts() {
	var moves []move

	query := s.antFilter.Query()
	for query.Next() {
		e := query.Entity()
		if s.deadMap.Has(e) {
			continue
		}
		pos, ant, member, _ := query.Get()
		if !ant.Role.Mobile() {
			continue
		}
		// Queens mostly stay put.
		if ant.Role == components.RoleQueen && s.roll() >= s.cfg.Movement.QueenMoveChance {
			continue
		}

		nx, ny := s.nextPosition(pos, ant, member)
		if nx != pos.X || ny != pos.Y {
			moves = append(moves, move{entity: e, x: nx, y: ny})
		}
	}

	for _, m := range moves {
		p := s.posMap.Get(m.entity)
		p.X, p.Y = m.x, m.y
	}
}

// nextPosition picks the tile an ant wants this tick. Returns the current
// position when the ant stays.
func (s *Sim) nextPosition(pos *components.Position, ant *components.Ant, member *components.ColonyMember) (int, int) {
	switch ant.State {
	case components.StateIdle:
		if s.roll() < s.cfg.Movement.IdleMoveChance {
			return s.wander(pos.X, pos.Y)
		}
		return pos.X, pos.Y
	case components.StateWandering, components.StateFollowing:
		return s.moveWandering(pos, member)
	case components.StateDigging:
		return s.moveDigging(pos)
	case components.StateReturning:
		return s.moveClimbing(pos)
	case components.StateCarrying:
		return s.moveHomeward(pos, member)
	case components.StateFighting:
		return s.moveFighting(pos, member)
	case components.StateFleeing:
		return s.moveFleeing(pos)
	}
	return pos.X, pos.Y
}

// wander takes one step from the random-walk table, staying put when the
// rolled tile is blocked.
func (s *Sim) wander(x, y int) (int, int) {
	d := wanderDirs[s.rng.Intn(len(wanderDirs))]
	nx, ny := x+d[0], y+d[1]
	if s.canOccupy(nx, ny) {
		return nx, ny
	}
	return x, y
}

// moveWandering follows the food trail when the ant is standing in one,
// otherwise wanders.
func (s *Sim) moveWandering(pos *components.Position, member *components.ColonyMember) (int, int) {
	here := s.pheromones.Get(pos.X, pos.Y, member.ColonyID, systems.ChannelFood)
	if here > s.cfg.Movement.FollowThreshold {
		dx, dy, ok := s.pheromones.GradientWeighted(s.rng, pos.X, pos.Y, member.ColonyID, systems.ChannelFood)
		if ok && s.canOccupy(pos.X+dx, pos.Y+dy) {
			return pos.X + dx, pos.Y + dy
		}
	}
	return s.wander(pos.X, pos.Y)
}

// moveDigging presses into already-carved space, preferring down. Surface
// tiles are excluded: a digger that wants daylight switches to Returning.
func (s *Sim) moveDigging(pos *components.Position) (int, int) {
	for _, d := range digNeighbors {
		nx, ny := pos.X+d[0], pos.Y+d[1]
		k := s.terrain.Get(nx, ny)
		if (k == terrain.Open || k == terrain.Tunnel) && s.water.IsPassable(nx, ny) {
			return nx, ny
		}
	}
	return pos.X, pos.Y
}

// moveClimbing heads for the surface: up if possible, sideways if not, and a
// random sidestep as a last resort so a stuck climber still unwedges itself.
func (s *Sim) moveClimbing(pos *components.Position) (int, int) {
	for _, d := range climbDirs {
		nx, ny := pos.X+d[0], pos.Y+d[1]
		if s.canOccupy(nx, ny) {
			return nx, ny
		}
	}
	dx := 1
	if s.rng.Intn(2) == 0 {
		dx = -1
	}
	if s.canOccupy(pos.X+dx, pos.Y) {
		return pos.X + dx, pos.Y
	}
	return pos.X, pos.Y
}

// moveHomeward walks a carrier toward its nest: the direct diagonal first,
// then each axis, then the home trail.
func (s *Sim) moveHomeward(pos *components.Position, member *components.ColonyMember) (int, int) {
	c := s.colonies.Get(member.ColonyID)
	if c == nil {
		return s.wander(pos.X, pos.Y)
	}
	dx := sign(c.HomeX - pos.X)
	dy := sign(c.HomeY - pos.Y)

	candidates := [3][2]int{{dx, dy}, {dx, 0}, {0, dy}}
	for _, d := range candidates {
		if d[0] == 0 && d[1] == 0 {
			continue
		}
		if s.canOccupy(pos.X+d[0], pos.Y+d[1]) {
			return pos.X + d[0], pos.Y + d[1]
		}
	}

	gx, gy, ok := s.pheromones.GradientWeighted(s.rng, pos.X, pos.Y, member.ColonyID, systems.ChannelHome)
	if ok && s.canOccupy(pos.X+gx, pos.Y+gy) {
		return pos.X + gx, pos.Y + gy
	}
	return s.wander(pos.X, pos.Y)
}

// moveFighting climbs the danger gradient toward the fight.
func (s *Sim) moveFighting(pos *components.Position, member *components.ColonyMember) (int, int) {
	dx, dy, ok := s.pheromones.Gradient(pos.X, pos.Y, member.ColonyID, systems.ChannelDanger)
	if ok && s.canOccupy(pos.X+dx, pos.Y+dy) {
		return pos.X + dx, pos.Y + dy
	}
	return s.wander(pos.X, pos.Y)
}

// fleeDirs is the full 8-neighborhood used when running from danger.
var fleeDirs = [8][2]int{
	{0, -1}, {0, 1}, {-1, 0}, {1, 0},
	{-1, -1}, {1, -1}, {-1, 1}, {1, 1},
}

// moveFleeing steps to the neighboring tile with the lowest total danger
// across all colonies, but only if that is a strict improvement.
func (s *Sim) moveFleeing(pos *components.Position) (int, int) {
	best := s.dangerSum(pos.X, pos.Y)
	bx, by := pos.X, pos.Y

	for _, d := range fleeDirs {
		nx, ny := pos.X+d[0], pos.Y+d[1]
		if !s.canOccupy(nx, ny) {
			continue
		}
		if sum := s.dangerSum(nx, ny); sum < best {
			best = sum
			bx, by = nx, ny
		}
	}
	return bx, by
}
