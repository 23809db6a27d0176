package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/formicary/telemetry"
)

// Fixed cadences of the fluid passes. Everything chance-based is in config;
// these two only set how often the grid work runs.
const (
	waterFlowInterval   = 3
	evaporationInterval = 50
)

// Step advances the world by one tick. Phase order matters: behavior reads
// the spatial index built at the top of the tick, and every death in between
// is a tombstone until the final sweep.
func (s *Sim) Step() {
	s.tick++
	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseSpatialGrid)
	s.rebuildSpatial()

	s.perf.StartPhase(telemetry.PhaseAI)
	s.updateWorkerAI()
	s.updateSoldierAI()
	s.updateWorkerFlee()

	s.perf.StartPhase(telemetry.PhaseMovement)
	s.moveAnts()

	s.perf.StartPhase(telemetry.PhaseActions)
	s.dig()
	s.forage()
	if s.tick%s.cfg.Combat.Interval == 0 {
		s.combat()
	}
	s.farmAphids()

	s.perf.StartPhase(telemetry.PhasePheromones)
	s.pheromones.Decay()
	s.pheromones.Diffuse()
	s.depositPheromones()

	s.perf.StartPhase(telemetry.PhaseLifecycle)
	if s.tick%s.cfg.Lifecycle.LayInterval == 0 {
		s.layEggs()
	}
	s.ageAnts()
	if s.tick%s.cfg.Lifecycle.ConsumeInterval == 0 {
		s.consumeFood()
	}
	if s.tick%s.cfg.Food.RegrowInterval == 0 {
		s.regrowFood()
	}

	s.perf.StartPhase(telemetry.PhaseHazards)
	if s.tick%s.cfg.Hazard.Interval == 0 {
		s.caveIns()
	}

	s.perf.StartPhase(telemetry.PhaseWater)
	if s.tick%waterFlowInterval == 0 {
		s.water.CalculatePressure(s.terrain)
		s.water.Flow(s.terrain)
	}
	if s.tick%evaporationInterval == 0 {
		s.water.Evaporate(s.terrain)
	}
	s.water.Rain(s.rng, s.terrain)
	if s.water.Raining() {
		s.collector.RecordRainTick()
	}
	s.updateDrowning()
	s.fleeFlood()

	s.perf.StartPhase(telemetry.PhaseCleanup)
	s.sweepDead()

	s.perf.EndTick()
}

// StepN advances n ticks.
func (s *Sim) StepN(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

// rebuildSpatial reindexes every living ant. Full rebuild each tick keeps
// the index trivially consistent with the post-movement positions of the
// previous tick.
func (s *Sim) rebuildSpatial() {
	s.spatial.Clear()
	query := s.antFilter.Query()
	for query.Next() {
		e := query.Entity()
		if s.deadMap.Has(e) {
			continue
		}
		pos, _, member, _ := query.Get()
		s.spatial.Insert(e, pos.X, pos.Y, member.ColonyID)
	}
}

// sweepDead removes every tombstoned entity from the world.
func (s *Sim) sweepDead() {
	var toRemove []ecs.Entity
	query := s.deadFilter.Query()
	for query.Next() {
		toRemove = append(toRemove, query.Entity())
	}
	for _, e := range toRemove {
		s.world.RemoveEntity(e)
	}
}
