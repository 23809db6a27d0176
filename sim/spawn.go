package sim

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/formicary/colony"
	"github.com/pthm-cable/formicary/components"
	"github.com/pthm-cable/formicary/terrain"
)

// nestMargin keeps nests away from the world edge.
const nestMargin = 10

// spawnAnt creates one ant. Every ant carries an Age so a single pass can
// advance eggs, larvae and adults alike.
func (s *Sim) spawnAnt(role components.Role, colonyID uint8, x, y int, maxAge uint32) ecs.Entity {
	return s.antMapper.NewEntity(
		&components.Position{X: x, Y: y},
		&components.Ant{Role: role, State: components.SpawnState(role)},
		&components.ColonyMember{ColonyID: colonyID},
		&components.Age{Ticks: 0, MaxTicks: maxAge},
	)
}

// surfaceTile returns the y of the walkable surface tile in column x.
func surfaceTile(g terrain.Grid, x int) int {
	for y := 0; y < g.Height(); y++ {
		if g.Get(x, y) == terrain.Surface {
			return y
		}
	}
	return terrain.SurfaceY(g, x) - 1
}

// spawnColonies places each nest on the surface with a minimum separation,
// then seeds it with a queen and its starting workers.
func (s *Sim) spawnColonies() error {
	width := s.cfg.World.Width
	if width <= 2*nestMargin {
		return fmt.Errorf("sim: world width %d too small for nest placement", width)
	}

	for id := 0; id < s.cfg.Colony.Count; id++ {
		x, y, ok := s.findNestSite()
		if !ok {
			return fmt.Errorf("sim: no nest site found for colony %d", id)
		}

		c := colony.New(uint8(id), x, y, s.cfg.Colony.InitialFood)
		s.colonies.Add(c)

		s.spawnAnt(components.RoleQueen, uint8(id), x, y, s.cfg.Lifecycle.QueenLifespan)

		for i := 0; i < s.cfg.Colony.InitialWorkers; i++ {
			wx := x + i%5 - 2
			wy := y + i/5
			if !s.terrain.IsPassable(wx, wy) {
				wx, wy = s.findPassableNear(x, y)
			}
			s.spawnAnt(components.RoleWorker, uint8(id), wx, wy, s.cfg.Lifecycle.WorkerLifespan)
		}
	}
	return nil
}

// findNestSite tries random surface positions honoring the separation rule,
// falling back to a deterministic scan when randomness keeps failing.
func (s *Sim) findNestSite() (x, y int, ok bool) {
	width := s.cfg.World.Width

	for attempt := 0; attempt < 100; attempt++ {
		x = nestMargin + s.rng.Intn(width-2*nestMargin)
		y = surfaceTile(s.terrain, x)
		if s.nestSeparated(x, y) {
			return x, y, true
		}
	}

	for x = nestMargin; x < width-nestMargin; x += 20 {
		y = surfaceTile(s.terrain, x)
		if s.nestSeparated(x, y) {
			return x, y, true
		}
	}
	return 0, 0, false
}

func (s *Sim) nestSeparated(x, y int) bool {
	for _, c := range s.colonies.All() {
		if manhattan(x, y, c.HomeX, c.HomeY) < s.cfg.Colony.MinSeparation {
			return false
		}
	}
	return true
}

// findPassableNear scans a small window around (x, y) for a passable tile,
// returning the origin if nothing better exists.
func (s *Sim) findPassableNear(x, y int) (int, int) {
	for dy := 0; dy <= 3; dy++ {
		for dx := -2; dx <= 2; dx++ {
			if s.terrain.IsPassable(x+dx, y+dy) {
				return x + dx, y + dy
			}
		}
	}
	return x, y
}

// spawnFood scatters regrowing food nodes along the surface.
func (s *Sim) spawnFood() {
	width := s.cfg.World.Width
	for i := 0; i < s.cfg.Food.Sources; i++ {
		x := s.rng.Intn(width)
		y := surfaceTile(s.terrain, x)
		s.foodMapper.NewEntity(
			&components.Position{X: x, Y: y},
			&components.FoodSource{
				Amount:     s.cfg.Food.Amount,
				MaxAmount:  s.cfg.Food.Amount,
				RegrowRate: s.cfg.Food.RegrowRate,
			},
		)
	}
}

// spawnAphids places aphids in open space a few tiles below the surface.
func (s *Sim) spawnAphids() {
	width := s.cfg.World.Width
	depthRange := s.cfg.Aphid.MaxDepth - s.cfg.Aphid.MinDepth + 1

	for i := 0; i < s.cfg.Aphid.Count; i++ {
		for attempt := 0; attempt < 100; attempt++ {
			x := s.rng.Intn(width)
			y := surfaceTile(s.terrain, x) + s.cfg.Aphid.MinDepth + s.rng.Intn(depthRange)
			if !s.terrain.IsPassable(x, y) {
				continue
			}
			s.aphidMapper.NewEntity(
				&components.Position{X: x, Y: y},
				&components.Aphid{
					FoodPerTick: s.cfg.Aphid.FoodPerTick,
					OwnedBy:     components.NoOwner,
				},
			)
			break
		}
	}
}
