package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/formicary/components"
	"github.com/pthm-cable/formicary/systems"
	"github.com/pthm-cable/formicary/telemetry"
)

type combatPair struct {
	a, b ecs.Entity
}

// fightingCaste reports whether a role takes part in combat. Queens and brood
// neither initiate nor return strikes.
func fightingCaste(r components.Role) bool {
	return r == components.RoleWorker || r == components.RoleSoldier
}

// combat resolves one exchange per adjacent enemy pair. Pairs are collected
// via the spatial index first; damage, combat-stat attachment and danger
// marking happen after the query closes because the Fighter attach is a
// structural change.
func (s *Sim) combat() {
	seen := make(map[combatPair]bool)
	var pairs []combatPair

	query := s.antFilter.Query()
	for query.Next() {
		e := query.Entity()
		if s.deadMap.Has(e) {
			continue
		}
		pos, ant, member, _ := query.Get()
		if !fightingCaste(ant.Role) {
			continue
		}

		for _, n := range s.spatial.QueryNearby(pos.X, pos.Y) {
			if n.Entity == e || n.Colony == member.ColonyID {
				continue
			}
			if chebyshev(pos.X, pos.Y, n.X, n.Y) > 1 {
				continue
			}
			if !s.alive(n.Entity) || !fightingCaste(s.antMap.Get(n.Entity).Role) {
				continue
			}
			pair := combatPair{a: e, b: n.Entity}
			if seen[pair] || seen[combatPair{a: n.Entity, b: e}] {
				continue
			}
			seen[pair] = true
			pairs = append(pairs, pair)
		}
	}

	var casualties []ecs.Entity
	for _, p := range pairs {
		if !s.alive(p.a) || !s.alive(p.b) {
			continue
		}
		s.ensureFighter(p.a)
		s.ensureFighter(p.b)

		if s.strike(p.a, p.b) {
			casualties = append(casualties, p.b)
		}
		if s.strike(p.b, p.a) {
			casualties = append(casualties, p.a)
		}

		s.markDanger(p.a)
		s.markDanger(p.b)
		s.collector.RecordCombatExchange()
	}

	for _, e := range casualties {
		s.kill(e, telemetry.DeathCombat)
	}
}

// ensureFighter attaches combat stats on first contact, with strength set by
// caste. An ant with no Fighter component has simply never been in a fight.
func (s *Sim) ensureFighter(e ecs.Entity) {
	if s.fighterMap.Has(e) {
		return
	}
	cfg := s.cfg.Combat

	strength := cfg.DefaultStrength
	switch s.antMap.Get(e).Role {
	case components.RoleWorker:
		strength = cfg.WorkerStrength
	case components.RoleSoldier:
		strength = cfg.SoldierStrength
	}
	s.fighterMap.Add(e, &components.Fighter{Strength: strength, Health: cfg.DefaultHealth})
}

// strike applies one attack and reports whether the defender died.
func (s *Sim) strike(attacker, defender ecs.Entity) bool {
	cfg := s.cfg.Combat

	base := cfg.OtherDamage
	switch s.antMap.Get(attacker).Role {
	case components.RoleSoldier:
		base = cfg.SoldierDamage
	case components.RoleWorker:
		base = cfg.WorkerDamage
	}

	att := s.fighterMap.Get(attacker)
	damage := int(base) + int(att.Strength)/10 - int(cfg.DamageOffset)
	if cfg.DamageRoll > 0 {
		damage += s.rng.Intn(int(cfg.DamageRoll))
	}
	if damage < 0 {
		damage = 0
	}

	def := s.fighterMap.Get(defender)
	if damage >= int(def.Health) {
		def.Health = 0
		return true
	}
	def.Health -= uint8(damage)
	return false
}

// markDanger stamps the combatant's own danger channel at its position, the
// signal its colony's soldiers converge on and its workers run from.
func (s *Sim) markDanger(e ecs.Entity) {
	pos := s.posMap.Get(e)
	member := s.memberMap.Get(e)
	s.pheromones.Deposit(pos.X, pos.Y, member.ColonyID, systems.ChannelDanger, s.cfg.Combat.DangerDeposit)
}
