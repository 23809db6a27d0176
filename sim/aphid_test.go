package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/formicary/components"
	"github.com/pthm-cable/formicary/terrain"
)

func aphidAt(s *Sim, x, y int, perTick float64) ecs.Entity {
	return s.aphidMapper.NewEntity(
		&components.Position{X: x, Y: y},
		&components.Aphid{FoodPerTick: perTick, OwnedBy: components.NoOwner},
	)
}

func TestAphidClaimedByLargestHerdingPresence(t *testing.T) {
	cfg := testConfig(t, 40, 40)
	s := testSim(t, cfg, terrain.New(40, 40), 1)
	addColony(s, 0, 2, 2, 100)
	addColony(s, 1, 35, 35, 100)

	a := aphidAt(s, 10, 10, 0.1)
	s.spawnAnt(components.RoleWorker, 0, 9, 10, 1000)
	s.spawnAnt(components.RoleSoldier, 0, 11, 10, 1000)
	s.spawnAnt(components.RoleWorker, 1, 10, 9, 1000)

	s.rebuildSpatial()
	s.farmAphids()

	_, aphid := s.aphidMapper.Get(a)
	assert.Equal(t, uint8(0), aphid.OwnedBy)
}

func TestAphidTieKeepsTheIncumbent(t *testing.T) {
	cfg := testConfig(t, 40, 40)
	s := testSim(t, cfg, terrain.New(40, 40), 1)
	addColony(s, 0, 2, 2, 100)
	addColony(s, 1, 35, 35, 100)

	a := aphidAt(s, 10, 10, 0.1)
	first := s.spawnAnt(components.RoleWorker, 0, 9, 10, 1000)
	second := s.spawnAnt(components.RoleWorker, 0, 11, 10, 1000)
	s.spawnAnt(components.RoleWorker, 1, 10, 9, 1000)

	s.rebuildSpatial()
	s.farmAphids()
	_, aphid := s.aphidMapper.Get(a)
	require.Equal(t, uint8(0), aphid.OwnedBy)

	// One herder leaves: one on one is a tie, and ties do not flip herds.
	p := s.posMap.Get(second)
	p.X, p.Y = 30, 30
	_ = first

	s.rebuildSpatial()
	s.farmAphids()
	_, aphid = s.aphidMapper.Get(a)
	assert.Equal(t, uint8(0), aphid.OwnedBy)
}

func TestAphidAbandonedGoesWild(t *testing.T) {
	cfg := testConfig(t, 40, 40)
	s := testSim(t, cfg, terrain.New(40, 40), 1)
	addColony(s, 0, 2, 2, 100)

	a := aphidAt(s, 10, 10, 0.1)
	herder := s.spawnAnt(components.RoleWorker, 0, 10, 10, 1000)

	s.rebuildSpatial()
	s.farmAphids()
	_, aphid := s.aphidMapper.Get(a)
	require.Equal(t, uint8(0), aphid.OwnedBy)

	p := s.posMap.Get(herder)
	p.X, p.Y = 30, 30

	s.rebuildSpatial()
	s.farmAphids()
	_, aphid = s.aphidMapper.Get(a)
	assert.Equal(t, components.NoOwner, aphid.OwnedBy)
}

func TestAphidFarmingTricklesWholeFoodUnits(t *testing.T) {
	cfg := testConfig(t, 40, 40)
	s := testSim(t, cfg, terrain.New(40, 40), 1)
	c := addColony(s, 0, 2, 2, 100)

	// 0.25 per tick is exactly representable. The first pass only claims
	// the herd, the next four trickle, and the fourth trickle banks
	// precisely one unit.
	aphidAt(s, 10, 10, 0.25)
	s.spawnAnt(components.RoleWorker, 0, 10, 10, 1000)
	s.rebuildSpatial()

	for i := 0; i < 4; i++ {
		s.farmAphids()
	}
	assert.Equal(t, uint32(100), c.FoodStored, "sub-unit income accumulates silently")

	s.farmAphids()
	assert.Equal(t, uint32(101), c.FoodStored)
}

func TestWildAphidTieStaysWild(t *testing.T) {
	cfg := testConfig(t, 40, 40)
	s := testSim(t, cfg, terrain.New(40, 40), 1)
	addColony(s, 0, 2, 2, 100)
	addColony(s, 1, 35, 35, 100)

	// One herder each around an unowned herd: nobody has a majority, so
	// nobody claims it.
	a := aphidAt(s, 10, 10, 0.1)
	s.spawnAnt(components.RoleWorker, 0, 9, 10, 1000)
	s.spawnAnt(components.RoleWorker, 1, 11, 10, 1000)

	s.rebuildSpatial()
	s.farmAphids()

	_, aphid := s.aphidMapper.Get(a)
	assert.Equal(t, components.NoOwner, aphid.OwnedBy)
}

func TestAphidPaysThePreviousOwnerOnHandover(t *testing.T) {
	cfg := testConfig(t, 40, 40)
	s := testSim(t, cfg, terrain.New(40, 40), 1)
	c0 := addColony(s, 0, 2, 2, 100)
	c1 := addColony(s, 1, 35, 35, 100)

	a := aphidAt(s, 10, 10, 0.25)
	s.spawnAnt(components.RoleWorker, 0, 10, 10, 1000)
	s.rebuildSpatial()
	s.farmAphids()
	_, aphid := s.aphidMapper.Get(a)
	require.Equal(t, uint8(0), aphid.OwnedBy)

	// Rivals outnumber the incumbent. The displacement tick still milks
	// for the old owner; the new owner earns from the next tick on.
	s.spawnAnt(components.RoleWorker, 1, 9, 10, 1000)
	s.spawnAnt(components.RoleWorker, 1, 11, 10, 1000)
	s.rebuildSpatial()

	for i := 0; i < 4; i++ {
		s.farmAphids()
	}
	_, aphid = s.aphidMapper.Get(a)
	assert.Equal(t, uint8(1), aphid.OwnedBy)
	assert.Equal(t, uint32(100), c0.FoodStored, "one trickle of 0.25 never banks")
	assert.Equal(t, uint32(100), c1.FoodStored)

	s.farmAphids()
	assert.Equal(t, uint32(101), c1.FoodStored, "the new owner's fourth trickle banks a unit")
}

func TestBroodAndQueensDoNotHerd(t *testing.T) {
	cfg := testConfig(t, 40, 40)
	s := testSim(t, cfg, terrain.New(40, 40), 1)
	addColony(s, 0, 2, 2, 100)

	a := aphidAt(s, 10, 10, 0.1)
	s.spawnAnt(components.RoleQueen, 0, 10, 10, 1000)
	s.spawnAnt(components.RoleEgg, 0, 9, 10, 1000)
	s.spawnAnt(components.RoleLarvae, 0, 11, 10, 1000)

	s.rebuildSpatial()
	s.farmAphids()

	_, aphid := s.aphidMapper.Get(a)
	assert.Equal(t, components.NoOwner, aphid.OwnedBy)
}

func TestAphidOutsideClaimRangeDoesNotCount(t *testing.T) {
	cfg := testConfig(t, 40, 40)
	s := testSim(t, cfg, terrain.New(40, 40), 1)
	addColony(s, 0, 2, 2, 100)

	a := aphidAt(s, 10, 10, 0.1)
	s.spawnAnt(components.RoleWorker, 0, 10+cfg.Aphid.ClaimRange+1, 10, 1000)

	s.rebuildSpatial()
	s.farmAphids()

	_, aphid := s.aphidMapper.Get(a)
	assert.Equal(t, components.NoOwner, aphid.OwnedBy)
}
