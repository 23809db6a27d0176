package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pthm-cable/formicary/components"
)

func TestCollectorWindowFlush(t *testing.T) {
	c := NewCollector(100)

	c.RecordEggLaid()
	c.RecordHatch()
	c.RecordDeath(DeathCombat)
	c.RecordDeath(DeathCombat)
	c.RecordDeath(DeathDrowned)
	c.RecordCombatExchange()
	c.RecordFoodPickup()
	c.RecordFoodStored(10)
	c.RecordRainTick()

	assert.False(t, c.ShouldFlush(50))
	assert.True(t, c.ShouldFlush(100))

	stats := c.Flush(100, Snapshot{
		Population:     Population{Queens: 1, Workers: 12, Soldiers: 2},
		ColonyFood:     []float64{90, 110, 130},
		AdultAges:      []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		PheromoneTotal: 3.5,
		WaterTotal:     42,
	})

	assert.Equal(t, uint64(0), stats.WindowStartTick)
	assert.Equal(t, uint64(100), stats.WindowEndTick)
	assert.Equal(t, 1, stats.EggsLaid)
	assert.Equal(t, 1, stats.Hatched)
	assert.Equal(t, 2, stats.DeathsCombat)
	assert.Equal(t, 1, stats.DeathsDrowned)
	assert.Equal(t, 3, stats.Deaths())
	assert.Equal(t, 15, stats.Alive())
	assert.Equal(t, 10, stats.FoodCollected)
	assert.InDelta(t, 110.0, stats.FoodMean, 1e-9)
	assert.Equal(t, 90.0, stats.FoodMin)
	assert.Equal(t, 130.0, stats.FoodMax)
	assert.InDelta(t, 5.5, stats.AgeMean, 1e-9)
	assert.Equal(t, 5.0, stats.AgeP50)
	assert.Equal(t, 42, stats.WaterTotal)

	// Counters reset, window advances.
	next := c.Flush(200, Snapshot{})
	assert.Equal(t, uint64(100), next.WindowStartTick)
	assert.Equal(t, 0, next.EggsLaid)
	assert.Equal(t, 0, next.Deaths())
}

func TestNilCollectorIsInert(t *testing.T) {
	var c *Collector
	c.RecordEggLaid()
	c.RecordDeath(DeathOldAge)
	assert.False(t, c.ShouldFlush(1000))
	assert.Equal(t, uint64(0), c.WindowTicks())
}

func TestPopulationCount(t *testing.T) {
	var p Population
	for i := 0; i < 3; i++ {
		p.Count(components.RoleSoldier)
	}
	assert.Equal(t, 3, p.Soldiers)
}

func TestDistStatsEmpty(t *testing.T) {
	mean, p10, p50, p90 := distStats(nil)
	assert.Zero(t, mean)
	assert.Zero(t, p10)
	assert.Zero(t, p50)
	assert.Zero(t, p90)
}

func TestPerfCollectorPhases(t *testing.T) {
	p := NewPerfCollector(10)

	p.StartTick()
	p.StartPhase(PhaseMovement)
	time.Sleep(2 * time.Millisecond)
	p.StartPhase(PhaseCleanup)
	time.Sleep(1 * time.Millisecond)
	p.EndTick()

	stats := p.Stats()
	assert.Greater(t, stats.AvgTickDuration, time.Duration(0))
	assert.Greater(t, stats.PhasePct[PhaseMovement], 0.0)
	assert.Greater(t, stats.PhasePct[PhaseCleanup], 0.0)
	assert.Greater(t, stats.TicksPerSecond, 0.0)

	csv := stats.ToCSV(500)
	assert.Equal(t, uint64(500), csv.WindowEnd)
	assert.Equal(t, stats.PhasePct[PhaseMovement], csv.MovementPct)
}

func TestNilPerfCollectorIsInert(t *testing.T) {
	var p *PerfCollector
	p.StartTick()
	p.StartPhase(PhaseAI)
	p.EndTick()
	assert.Empty(t, p.Stats().PhasePct)
}
