package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/formicary/components"
	"github.com/pthm-cable/formicary/telemetry"
	"github.com/pthm-cable/formicary/terrain"
)

func TestDeepWaterDrownsOnTheSecondPass(t *testing.T) {
	cfg := testConfig(t, 20, 20)
	s := testSim(t, cfg, terrain.New(20, 20), 1)
	addColony(s, 0, 2, 2, 100)
	e := s.spawnAnt(components.RoleWorker, 0, 10, 10, 1000)

	s.water.AddWater(10, 10, 7)

	s.updateDrowning()
	require.True(t, s.alive(e), "the first submerged pass only starts the counter")
	require.True(t, s.drowningMap.Has(e))
	assert.Equal(t, uint32(1), s.drowningMap.Get(e).TicksSubmerged)

	s.updateDrowning()
	assert.False(t, s.alive(e), "at full depth the limit is one tick")

	stats := s.collector.Flush(1, telemetry.Snapshot{})
	assert.Equal(t, 1, stats.DeathsDrowned)
}

func TestShallowerWaterDrownsSlower(t *testing.T) {
	cfg := testConfig(t, 20, 20)
	s := testSim(t, cfg, terrain.New(20, 20), 1)
	addColony(s, 0, 2, 2, 100)
	e := s.spawnAnt(components.RoleWorker, 0, 10, 10, 1000)

	s.water.AddWater(10, 10, 5)

	// Limit at depth 5 is 10 submerged ticks: passes 1..10 survive.
	for i := 0; i < 10; i++ {
		s.updateDrowning()
		require.True(t, s.alive(e), "pass %d should not kill", i+1)
	}
	s.updateDrowning()
	assert.False(t, s.alive(e))
}

func TestSurfacingClearsTheSubmersionCounter(t *testing.T) {
	cfg := testConfig(t, 20, 20)
	s := testSim(t, cfg, terrain.New(20, 20), 1)
	addColony(s, 0, 2, 2, 100)
	e := s.spawnAnt(components.RoleWorker, 0, 10, 10, 1000)

	s.water.AddWater(10, 10, 5)
	s.updateDrowning()
	s.updateDrowning()
	require.True(t, s.drowningMap.Has(e))

	// The water drains below the dangerous threshold.
	s.water.RemoveWater(10, 10, 3)
	s.updateDrowning()
	assert.False(t, s.drowningMap.Has(e), "surfacing resets submersion entirely")

	// Going back under starts from scratch.
	s.water.AddWater(10, 10, 3)
	s.updateDrowning()
	assert.Equal(t, uint32(1), s.drowningMap.Get(e).TicksSubmerged)
}

func TestWadingDepthIsHarmless(t *testing.T) {
	cfg := testConfig(t, 20, 20)
	s := testSim(t, cfg, terrain.New(20, 20), 1)
	addColony(s, 0, 2, 2, 100)
	e := s.spawnAnt(components.RoleWorker, 0, 10, 10, 1000)

	s.water.AddWater(10, 10, cfg.Water.DangerousThreshold-1)

	for i := 0; i < 100; i++ {
		s.updateDrowning()
	}
	assert.True(t, s.alive(e))
	assert.False(t, s.drowningMap.Has(e))
}

func TestRisingWaterSendsAntsHomeward(t *testing.T) {
	cfg := testConfig(t, 20, 20)
	s := testSim(t, cfg, terrain.New(20, 20), 1)
	addColony(s, 0, 2, 2, 100)

	wanderer := s.spawnAnt(components.RoleWorker, 0, 10, 10, 1000)
	fleeing := s.spawnAnt(components.RoleWorker, 0, 11, 10, 1000)
	s.antMap.Get(fleeing).SetState(components.StateFleeing)
	dry := s.spawnAnt(components.RoleWorker, 0, 15, 15, 1000)
	egg := s.spawnAnt(components.RoleEgg, 0, 12, 10, 1000)

	s.water.AddWater(10, 10, cfg.Drowning.FleeDepth)
	s.water.AddWater(11, 10, cfg.Drowning.FleeDepth)
	s.water.AddWater(12, 10, cfg.Drowning.FleeDepth)

	s.fleeFlood()

	assert.Equal(t, components.StateReturning, s.antMap.Get(wanderer).State)
	assert.Equal(t, components.StateFleeing, s.antMap.Get(fleeing).State, "already-fleeing ants keep fleeing")
	assert.Equal(t, components.StateWandering, s.antMap.Get(dry).State)
	assert.Equal(t, components.StateIdle, s.antMap.Get(egg).State, "brood cannot move, flooded or not")
}
