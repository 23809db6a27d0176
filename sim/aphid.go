package sim

import (
	"github.com/pthm-cable/formicary/components"
)

// farmAphids re-evaluates ownership of every aphid and credits the owning
// colony its trickle of food. An aphid belongs to whichever colony keeps the
// most adults nearby; the incumbent holds on ties, so herds do not flip-flop
// between evenly matched rivals.
func (s *Sim) farmAphids() {
	nColonies := s.colonies.Len()
	counts := make([]int, nColonies)

	query := s.aphidFilter.Query()
	for query.Next() {
		pos, aphid := query.Get()

		for i := range counts {
			counts[i] = 0
		}
		total := 0
		for _, n := range s.spatial.QueryNearby(pos.X, pos.Y) {
			if manhattan(pos.X, pos.Y, n.X, n.Y) > s.cfg.Aphid.ClaimRange {
				continue
			}
			if !s.alive(n.Entity) {
				continue
			}
			role := s.antMap.Get(n.Entity).Role
			if role != components.RoleWorker && role != components.RoleSoldier {
				continue
			}
			counts[n.Colony]++
			total++
		}

		// The herd milks for whoever owned it coming into the tick; an
		// ownership change only pays out from the next tick on.
		if prev := aphid.OwnedBy; prev != components.NoOwner {
			if c := s.colonies.Get(prev); c != nil {
				c.AddFoodFraction(aphid.FoodPerTick)
			}
		}

		if total == 0 {
			aphid.OwnedBy = components.NoOwner
			continue
		}

		maxCount := 0
		best := -1
		contested := false
		for id := 0; id < nColonies; id++ {
			switch {
			case counts[id] > maxCount:
				maxCount = counts[id]
				best = id
				contested = false
			case counts[id] == maxCount && counts[id] > 0:
				contested = true
			}
		}

		switch {
		case aphid.OwnedBy != components.NoOwner && int(aphid.OwnedBy) < nColonies && counts[aphid.OwnedBy] == maxCount:
			// The incumbent holds ties at the top.
		case !contested:
			aphid.OwnedBy = uint8(best)
		}
		// A contested top changes nothing, whether the incumbent was
		// beaten or there was none: claiming takes a strict majority.
	}
}
