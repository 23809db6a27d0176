package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/formicary/components"
	"github.com/pthm-cable/formicary/systems"
)

// forage handles both ends of the food loop: wandering workers picking up
// from nodes they stand on, and carriers banking at the nest. Both mutate
// component storage, so candidates are collected first and applied after
// every query has closed.
func (s *Sim) forage() {
	nodes := make(map[[2]int]ecs.Entity)
	foodQuery := s.foodFilter.Query()
	for foodQuery.Next() {
		pos, food := foodQuery.Get()
		if food.Amount > 0 {
			nodes[[2]int{pos.X, pos.Y}] = foodQuery.Entity()
		}
	}

	type pickup struct {
		ant  ecs.Entity
		node ecs.Entity
	}
	var pickups []pickup
	var deposits []ecs.Entity

	query := s.antFilter.Query()
	for query.Next() {
		e := query.Entity()
		if s.deadMap.Has(e) {
			continue
		}
		pos, ant, member, _ := query.Get()
		if ant.Role != components.RoleWorker {
			continue
		}

		switch ant.State {
		case components.StateWandering:
			if node, ok := nodes[[2]int{pos.X, pos.Y}]; ok {
				pickups = append(pickups, pickup{ant: e, node: node})
			}
		case components.StateCarrying:
			c := s.colonies.Get(member.ColonyID)
			if c != nil && manhattan(pos.X, pos.Y, c.HomeX, c.HomeY) <= s.cfg.Food.DepositDistance {
				deposits = append(deposits, e)
			}
		}
	}

	for _, p := range pickups {
		_, food := s.foodMapper.Get(p.node)
		if food.Amount == 0 {
			continue
		}
		take := uint16(s.cfg.Food.PerPickup)
		if take > food.Amount {
			take = food.Amount
		}
		food.Amount -= take

		s.antMap.Get(p.ant).SetState(components.StateCarrying)
		s.carryingMap.Add(p.ant, &components.Carrying{Amount: s.cfg.Food.CarryAmount})
		s.collector.RecordFoodPickup()
	}

	for _, e := range deposits {
		amount := s.carryingMap.Get(e).Amount
		member := s.memberMap.Get(e)
		if c := s.colonies.Get(member.ColonyID); c != nil {
			c.AddFood(uint32(amount))
			s.collector.RecordFoodStored(int(amount))
		}
		s.antMap.Get(e).SetState(components.StateWandering)
		s.carryingMap.Remove(e)
	}
}

// regrowFood restores depleted nodes toward their initial stock.
func (s *Sim) regrowFood() {
	query := s.foodFilter.Query()
	for query.Next() {
		_, food := query.Get()
		if food.Amount >= food.MaxAmount {
			continue
		}
		grown := food.Amount + uint16(food.RegrowRate)
		if grown > food.MaxAmount {
			grown = food.MaxAmount
		}
		food.Amount = grown
	}
}

// depositPheromones lays each ant's trail for the tick. Carriers advertise
// food adaptively; everyone heading out or back refreshes the home trail,
// fading with distance so the signal stays anchored to the nest.
func (s *Sim) depositPheromones() {
	cfg := s.cfg.Pheromone

	query := s.antFilter.Query()
	for query.Next() {
		if s.deadMap.Has(query.Entity()) {
			continue
		}
		pos, ant, member, _ := query.Get()

		switch ant.State {
		case components.StateCarrying:
			s.pheromones.DepositAdaptive(pos.X, pos.Y, member.ColonyID, systems.ChannelFood, cfg.DepositFood)

		case components.StateWandering, components.StateReturning:
			s.depositHome(pos, member, cfg.DepositHome, cfg.HomeRadius)

		case components.StateDigging:
			s.depositHome(pos, member, cfg.DepositHome*0.5, cfg.DigHomeRadius)
		}
	}
}

func (s *Sim) depositHome(pos *components.Position, member *components.ColonyMember, base float32, radius int) {
	c := s.colonies.Get(member.ColonyID)
	if c == nil || radius <= 0 {
		return
	}
	dist := manhattan(pos.X, pos.Y, c.HomeX, c.HomeY)
	falloff := 1 - float32(dist)/float32(radius)
	if falloff <= 0 {
		return
	}
	s.pheromones.DepositAdaptive(pos.X, pos.Y, member.ColonyID, systems.ChannelHome, base*falloff)
}
