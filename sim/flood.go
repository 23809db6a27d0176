package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/formicary/components"
	"github.com/pthm-cable/formicary/telemetry"
)

// survivalLimit returns how many submerged ticks an ant survives at the
// given water depth. Deeper water kills faster.
func (s *Sim) survivalLimit(depth uint8) uint32 {
	cfg := s.cfg.Drowning
	switch {
	case depth >= 7:
		return cfg.Depth7
	case depth == 6:
		return cfg.Depth6
	case depth == 5:
		return cfg.Depth5
	}
	return cfg.Depth4
}

// updateDrowning tracks submersion. An ant entering dangerous depth starts a
// counter at one; every further tick under water either kills it, once the
// counter has reached the depth's limit, or advances the counter. Surfacing
// clears the counter entirely.
func (s *Sim) updateDrowning() {
	var submerged, surfaced, drowned []ecs.Entity

	query := s.antFilter.Query()
	for query.Next() {
		e := query.Entity()
		if s.deadMap.Has(e) {
			continue
		}
		pos, _, _, _ := query.Get()
		depth := s.water.Depth(pos.X, pos.Y)

		if !s.water.IsDangerous(pos.X, pos.Y) {
			if s.drowningMap.Has(e) {
				surfaced = append(surfaced, e)
			}
			continue
		}

		if !s.drowningMap.Has(e) {
			submerged = append(submerged, e)
			continue
		}
		d := s.drowningMap.Get(e)
		if d.TicksSubmerged >= s.survivalLimit(depth) {
			drowned = append(drowned, e)
		} else {
			d.TicksSubmerged++
		}
	}

	for _, e := range submerged {
		s.drowningMap.Add(e, &components.Drowning{TicksSubmerged: 1})
	}
	for _, e := range surfaced {
		s.drowningMap.Remove(e)
	}
	for _, e := range drowned {
		s.kill(e, telemetry.DeathDrowned)
	}
}

// fleeFlood turns ants caught in rising water toward the surface. Anyone
// already fleeing or returning keeps doing so.
func (s *Sim) fleeFlood() {
	fleeDepth := s.cfg.Drowning.FleeDepth

	query := s.antFilter.Query()
	for query.Next() {
		if s.deadMap.Has(query.Entity()) {
			continue
		}
		pos, ant, _, _ := query.Get()
		if !ant.Role.Mobile() {
			continue
		}
		if s.water.Depth(pos.X, pos.Y) < fleeDepth {
			continue
		}
		if ant.State == components.StateFleeing || ant.State == components.StateReturning {
			continue
		}
		ant.SetState(components.StateReturning)
	}
}
