package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/formicary/components"
	"github.com/pthm-cable/formicary/telemetry"
)

// eggOffsets are the candidate tiles around a queen for a fresh egg.
var eggOffsets = [6][2]int{
	{0, 1}, {1, 0}, {-1, 0}, {0, -1}, {1, 1}, {-1, 1},
}

// layEggs has every living queen with a solvent colony lay one egg nearby.
// Spawns are collected during the query and created after it closes.
func (s *Sim) layEggs() {
	type spawn struct {
		colonyID uint8
		x, y     int
	}
	var spawns []spawn

	query := s.antFilter.Query()
	for query.Next() {
		if s.deadMap.Has(query.Entity()) {
			continue
		}
		pos, ant, member, _ := query.Get()
		if ant.Role != components.RoleQueen {
			continue
		}
		c := s.colonies.Get(member.ColonyID)
		if c == nil || !c.SpendFood(s.cfg.Lifecycle.LayCost) {
			continue
		}
		d := eggOffsets[s.rng.Intn(len(eggOffsets))]
		spawns = append(spawns, spawn{colonyID: member.ColonyID, x: pos.X + d[0], y: pos.Y + d[1]})
	}

	for _, sp := range spawns {
		s.spawnAnt(components.RoleEgg, sp.colonyID, sp.x, sp.y, s.cfg.Lifecycle.HatchAge)
		s.collector.RecordEggLaid()
	}
}

// ageAnts advances every ant's clock. Reaching the limit means hatching for
// eggs, maturation for larvae and death for adults. Metamorphosis is an
// in-place component rewrite; only the old-age deaths are deferred.
func (s *Sim) ageAnts() {
	cfg := s.cfg.Lifecycle
	var expired []ecs.Entity

	query := s.antFilter.Query()
	for query.Next() {
		e := query.Entity()
		if s.deadMap.Has(e) {
			continue
		}
		_, ant, _, age := query.Get()

		if age.Ticks < age.MaxTicks {
			age.Ticks++
			continue
		}

		switch ant.Role {
		case components.RoleEgg:
			ant.Metamorphose(components.RoleLarvae)
			age.Ticks = 0
			age.MaxTicks = cfg.MatureAge
			s.collector.RecordHatch()

		case components.RoleLarvae:
			role := components.RoleSoldier
			lifespan := cfg.SoldierLifespan
			if s.roll() < cfg.WorkerChance {
				role = components.RoleWorker
				lifespan = cfg.WorkerLifespan
			}
			ant.Metamorphose(role)
			age.Ticks = 0
			age.MaxTicks = lifespan
			s.collector.RecordMature()

		default:
			expired = append(expired, e)
		}
	}

	for _, e := range expired {
		s.kill(e, telemetry.DeathOldAge)
	}
}

// consumeFood charges each colony upkeep for its population. Larvae eat
// more than adults; eggs are free. Stores saturate at zero rather than
// going into debt.
func (s *Sim) consumeFood() {
	cfg := s.cfg.Lifecycle
	upkeep := make([]uint32, s.colonies.Len())

	query := s.antFilter.Query()
	for query.Next() {
		if s.deadMap.Has(query.Entity()) {
			continue
		}
		_, ant, member, _ := query.Get()
		if int(member.ColonyID) >= len(upkeep) {
			continue
		}
		switch ant.Role {
		case components.RoleLarvae:
			upkeep[member.ColonyID] += cfg.LarvaeAppetite
		case components.RoleEgg:
			// free
		default:
			upkeep[member.ColonyID] += cfg.AdultAppetite
		}
	}

	for id, amount := range upkeep {
		s.colonies.Get(uint8(id)).ConsumeFood(amount)
	}
}
