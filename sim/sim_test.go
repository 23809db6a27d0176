package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/formicary/colony"
	"github.com/pthm-cable/formicary/components"
	"github.com/pthm-cable/formicary/config"
	"github.com/pthm-cable/formicary/telemetry"
	"github.com/pthm-cable/formicary/terrain"
)

// testConfig returns the embedded defaults resized to a small test world.
func testConfig(t *testing.T, width, height int) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.World.Width = width
	cfg.World.Height = height
	return cfg
}

// testSim builds a bare simulation over the given terrain: no colonies, no
// ants, no water. Tests place exactly what they need.
func testSim(t *testing.T, cfg *config.Config, tr terrain.Grid, seed int64) *Sim {
	t.Helper()
	s := newSim(cfg, tr, rand.New(rand.NewSource(seed)))
	s.collector = telemetry.NewCollector(1 << 20)
	return s
}

func addColony(s *Sim, id uint8, x, y int, food uint32) *colony.State {
	c := colony.New(id, x, y, food)
	s.colonies.Add(c)
	return c
}

func (s *Sim) countAnts(role components.Role) int {
	n := 0
	query := s.antFilter.Query()
	for query.Next() {
		_, ant, _, _ := query.Get()
		if ant.Role == role {
			n++
		}
	}
	return n
}

func TestNewRequiresConfigAndTerrain(t *testing.T) {
	_, err := New(Options{Terrain: terrain.New(10, 10)})
	assert.Error(t, err)

	cfg := testConfig(t, 100, 50)
	_, err = New(Options{Config: cfg})
	assert.Error(t, err)

	cfg.World.Width = 0
	_, err = New(Options{Config: cfg, Terrain: terrain.New(10, 10)})
	assert.Error(t, err)
}

func TestNewSeedsColoniesOnSeparatedSurfaceSites(t *testing.T) {
	cfg := testConfig(t, 160, 60)
	cfg.Colony.Count = 2
	cfg.Colony.MinSeparation = 30
	world := terrain.Generate(160, 60, 7)

	s, err := New(Options{Config: cfg, Terrain: world, Seed: 7})
	require.NoError(t, err)

	require.Equal(t, 2, s.Colonies().Len())
	a := s.Colonies().Get(0)
	b := s.Colonies().Get(1)
	assert.GreaterOrEqual(t, manhattan(a.HomeX, a.HomeY, b.HomeX, b.HomeY), 30)
	assert.Equal(t, terrain.Surface, world.Get(a.HomeX, a.HomeY))
	assert.Equal(t, cfg.Colony.InitialFood, a.FoodStored)

	assert.Equal(t, 2, s.countAnts(components.RoleQueen))
	assert.Equal(t, 2*cfg.Colony.InitialWorkers, s.countAnts(components.RoleWorker))

	foodNodes := 0
	foodQuery := s.foodFilter.Query()
	for foodQuery.Next() {
		foodNodes++
	}
	assert.Equal(t, cfg.Food.Sources, foodNodes)
}

func TestSimulationRunsAndKeepsCounting(t *testing.T) {
	cfg := testConfig(t, 120, 50)
	cfg.Colony.Count = 2
	cfg.Colony.MinSeparation = 30
	world := terrain.Generate(120, 50, 11)

	s, err := New(Options{
		Config:    cfg,
		Terrain:   world,
		Seed:      11,
		Collector: telemetry.NewCollector(100),
		Perf:      telemetry.NewPerfCollector(100),
	})
	require.NoError(t, err)

	s.StepN(300)

	assert.Equal(t, uint64(300), s.Tick())
	snap := s.Snapshot()
	assert.Greater(t, snap.Population.Queens+snap.Population.Workers, 0)
	assert.Len(t, snap.ColonyFood, 2)
}

func TestKillTombstonesUntilSweep(t *testing.T) {
	cfg := testConfig(t, 20, 20)
	s := testSim(t, cfg, terrain.New(20, 20), 1)
	addColony(s, 0, 5, 5, 100)

	e := s.spawnAnt(components.RoleWorker, 0, 5, 5, 1000)
	require.True(t, s.alive(e))

	s.kill(e, telemetry.DeathCombat)
	assert.False(t, s.alive(e))
	assert.True(t, s.world.Alive(e), "tombstoned entity must survive until the sweep")

	s.kill(e, telemetry.DeathDrowned) // double kill is a no-op

	s.sweepDead()
	assert.False(t, s.world.Alive(e))

	stats := s.collector.Flush(1, telemetry.Snapshot{})
	assert.Equal(t, 1, stats.Deaths())
}

func TestPopulationsTallyPerColony(t *testing.T) {
	cfg := testConfig(t, 20, 20)
	s := testSim(t, cfg, terrain.New(20, 20), 1)
	addColony(s, 0, 5, 5, 100)
	addColony(s, 1, 15, 15, 100)

	s.spawnAnt(components.RoleQueen, 0, 5, 5, 1000)
	s.spawnAnt(components.RoleWorker, 0, 6, 5, 1000)
	s.spawnAnt(components.RoleWorker, 0, 7, 5, 1000)
	s.spawnAnt(components.RoleEgg, 0, 5, 6, 1000)
	s.spawnAnt(components.RoleSoldier, 1, 15, 15, 1000)
	dead := s.spawnAnt(components.RoleWorker, 1, 16, 15, 1000)
	s.kill(dead, telemetry.DeathCombat)

	pops := s.Populations()
	require.Len(t, pops, 2)
	assert.Equal(t, colony.Population{Queens: 1, Workers: 2, Eggs: 1}, pops[0])
	assert.Equal(t, colony.Population{Soldiers: 1}, pops[1], "tombstoned ants are not counted")
	assert.Equal(t, 4, pops[0].Total())
}

func TestKillQueenMarksColonyQueenless(t *testing.T) {
	cfg := testConfig(t, 20, 20)
	s := testSim(t, cfg, terrain.New(20, 20), 1)
	c := addColony(s, 0, 5, 5, 100)

	queen := s.spawnAnt(components.RoleQueen, 0, 5, 5, 1000)
	require.True(t, c.QueenAlive)

	s.kill(queen, telemetry.DeathOldAge)
	assert.False(t, c.QueenAlive)
}
