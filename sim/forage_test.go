package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/formicary/components"
	"github.com/pthm-cable/formicary/systems"
	"github.com/pthm-cable/formicary/telemetry"
	"github.com/pthm-cable/formicary/terrain"
)

func TestForagingPickupAndDeposit(t *testing.T) {
	cfg := testConfig(t, 40, 20)
	s := testSim(t, cfg, terrain.New(40, 20), 1)
	c := addColony(s, 0, 2, 2, 100)

	node := s.foodMapper.NewEntity(
		&components.Position{X: 20, Y: 5},
		&components.FoodSource{Amount: 100, MaxAmount: 100, RegrowRate: 1},
	)
	e := s.spawnAnt(components.RoleWorker, 0, 20, 5, 1000)

	s.forage()

	assert.Equal(t, components.StateCarrying, s.antMap.Get(e).State)
	require.True(t, s.carryingMap.Has(e))
	assert.Equal(t, cfg.Food.CarryAmount, s.carryingMap.Get(e).Amount)
	_, food := s.foodMapper.Get(node)
	assert.Equal(t, uint16(100)-uint16(cfg.Food.PerPickup), food.Amount)

	// Walk the carrier to the edge of the deposit radius and bank.
	p := s.posMap.Get(e)
	p.X, p.Y = 2+cfg.Food.DepositDistance, 2

	s.forage()

	assert.Equal(t, uint32(100)+uint32(cfg.Food.CarryAmount), c.FoodStored)
	assert.Equal(t, components.StateWandering, s.antMap.Get(e).State)
	assert.False(t, s.carryingMap.Has(e))

	stats := s.collector.Flush(1, telemetry.Snapshot{})
	assert.Equal(t, 1, stats.FoodPickups)
	assert.Equal(t, int(cfg.Food.CarryAmount), stats.FoodCollected)
}

func TestEmptyNodeYieldsNothing(t *testing.T) {
	cfg := testConfig(t, 40, 20)
	s := testSim(t, cfg, terrain.New(40, 20), 1)
	addColony(s, 0, 2, 2, 100)

	s.foodMapper.NewEntity(
		&components.Position{X: 20, Y: 5},
		&components.FoodSource{Amount: 0, MaxAmount: 100, RegrowRate: 1},
	)
	e := s.spawnAnt(components.RoleWorker, 0, 20, 5, 1000)

	s.forage()

	assert.Equal(t, components.StateWandering, s.antMap.Get(e).State)
	assert.False(t, s.carryingMap.Has(e))
}

func TestRegrowRestoresTowardInitialStock(t *testing.T) {
	cfg := testConfig(t, 40, 20)
	s := testSim(t, cfg, terrain.New(40, 20), 1)

	node := s.foodMapper.NewEntity(
		&components.Position{X: 20, Y: 5},
		&components.FoodSource{Amount: 98, MaxAmount: 100, RegrowRate: 5},
	)

	s.regrowFood()
	_, food := s.foodMapper.Get(node)
	assert.Equal(t, uint16(100), food.Amount, "regrowth clamps at the initial stock")

	s.regrowFood()
	_, food = s.foodMapper.Get(node)
	assert.Equal(t, uint16(100), food.Amount)
}

func TestCarrierLaysAdaptiveFoodTrail(t *testing.T) {
	cfg := testConfig(t, 40, 20)
	s := testSim(t, cfg, terrain.New(40, 20), 1)
	addColony(s, 0, 2, 2, 100)
	e := s.spawnAnt(components.RoleWorker, 0, 20, 5, 1000)
	s.antMap.Get(e).SetState(components.StateCarrying)

	s.depositPheromones()
	first := s.pheromones.Get(20, 5, 0, systems.ChannelFood)
	assert.InDelta(t, float64(cfg.Pheromone.DepositFood), float64(first), 1e-6)

	s.depositPheromones()
	second := s.pheromones.Get(20, 5, 0, systems.ChannelFood) - first
	assert.Less(t, second, first, "repeat deposits on a hot cell shrink")
}

func TestHomeTrailDepositsAreAdaptive(t *testing.T) {
	cfg := testConfig(t, 40, 20)
	s := testSim(t, cfg, terrain.New(40, 20), 1)
	addColony(s, 0, 2, 2, 100)
	s.spawnAnt(components.RoleWorker, 0, 4, 2, 1000)
	_ = cfg

	s.depositPheromones()
	first := s.pheromones.Get(4, 2, 0, systems.ChannelHome)
	require.Greater(t, first, float32(0))

	s.depositPheromones()
	second := s.pheromones.Get(4, 2, 0, systems.ChannelHome) - first
	assert.Less(t, second, first, "home deposits shrink as the cell saturates")
}

func TestHomeTrailFadesWithDistanceFromNest(t *testing.T) {
	cfg := testConfig(t, 80, 20)
	s := testSim(t, cfg, terrain.New(80, 20), 1)
	addColony(s, 0, 2, 2, 100)

	near := s.spawnAnt(components.RoleWorker, 0, 4, 2, 1000)
	far := s.spawnAnt(components.RoleWorker, 0, 22, 2, 1000)
	out := s.spawnAnt(components.RoleWorker, 0, 70, 2, 1000)
	_ = near
	_ = far
	_ = out

	s.depositPheromones()

	nearTrail := s.pheromones.Get(4, 2, 0, systems.ChannelHome)
	farTrail := s.pheromones.Get(22, 2, 0, systems.ChannelHome)
	assert.Greater(t, nearTrail, farTrail)
	assert.Greater(t, farTrail, float32(0))
	assert.Zero(t, s.pheromones.Get(70, 2, 0, systems.ChannelHome),
		"beyond the home radius nothing is deposited")
}

func TestDiggerLaysHalfStrengthHomeTrail(t *testing.T) {
	cfg := testConfig(t, 40, 20)
	s := testSim(t, cfg, terrain.New(40, 20), 1)
	addColony(s, 0, 2, 2, 100)

	wanderer := s.spawnAnt(components.RoleWorker, 0, 6, 2, 1000)
	digger := s.spawnAnt(components.RoleWorker, 0, 6, 6, 1000)
	_ = wanderer
	s.antMap.Get(digger).SetState(components.StateDigging)

	s.depositPheromones()

	w := s.pheromones.Get(6, 2, 0, systems.ChannelHome)
	d := s.pheromones.Get(6, 6, 0, systems.ChannelHome)
	assert.Greater(t, w, d, "dig trail is weaker than the foraging trail")
	assert.Greater(t, d, float32(0))
}
