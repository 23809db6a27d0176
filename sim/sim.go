// Package sim owns the colony simulation: the ECS world, the grid fields and
// the tick loop that advances them.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/formicary/colony"
	"github.com/pthm-cable/formicary/components"
	"github.com/pthm-cable/formicary/config"
	"github.com/pthm-cable/formicary/systems"
	"github.com/pthm-cable/formicary/telemetry"
	"github.com/pthm-cable/formicary/terrain"
)

// Options configures a new simulation. Collector and Perf may be nil to run
// without telemetry.
type Options struct {
	Config    *config.Config
	Terrain   terrain.Grid
	Seed      int64
	Collector *telemetry.Collector
	Perf      *telemetry.PerfCollector
}

// Sim holds the complete simulation state.
type Sim struct {
	cfg  *config.Config
	rng  *rand.Rand
	tick uint64

	terrain  terrain.Grid
	colonies *colony.Registry

	pheromones *systems.PheromoneGrid
	water      *systems.WaterGrid
	spatial    *systems.SpatialGrid

	world *ecs.World

	antMapper *ecs.Map4[components.Position, components.Ant, components.ColonyMember, components.Age]
	antFilter *ecs.Filter4[components.Position, components.Ant, components.ColonyMember, components.Age]

	foodMapper *ecs.Map2[components.Position, components.FoodSource]
	foodFilter *ecs.Filter2[components.Position, components.FoodSource]

	aphidMapper *ecs.Map2[components.Position, components.Aphid]
	aphidFilter *ecs.Filter2[components.Position, components.Aphid]

	posFilter  *ecs.Filter1[components.Position]
	deadFilter *ecs.Filter1[components.Dead]

	// Individual component mappers for lookups and side tables.
	posMap      *ecs.Map[components.Position]
	antMap      *ecs.Map[components.Ant]
	memberMap   *ecs.Map[components.ColonyMember]
	fighterMap  *ecs.Map[components.Fighter]
	carryingMap *ecs.Map[components.Carrying]
	drowningMap *ecs.Map[components.Drowning]
	deadMap     *ecs.Map[components.Dead]

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
}

// New creates a simulation and populates the world: colonies with their
// starting ants, surface food nodes, aphids and underground water pockets.
func New(opts Options) (*Sim, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("sim: config is required")
	}
	if opts.Terrain == nil {
		return nil, fmt.Errorf("sim: terrain is required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	s := newSim(opts.Config, opts.Terrain, rand.New(rand.NewSource(opts.Seed)))
	s.collector = opts.Collector
	s.perf = opts.Perf

	if err := s.spawnColonies(); err != nil {
		return nil, err
	}
	s.spawnFood()
	s.spawnAphids()
	s.water.SpawnSources(s.rng, s.terrain, s.cfg.World.WaterSources)

	return s, nil
}

// newSim wires the world, grids and mappers without spawning anything.
func newSim(cfg *config.Config, t terrain.Grid, rng *rand.Rand) *Sim {
	world := ecs.NewWorld()
	width := cfg.World.Width
	height := cfg.World.Height

	return &Sim{
		cfg:      cfg,
		rng:      rng,
		terrain:  t,
		colonies: colony.NewRegistry(),

		pheromones: systems.NewPheromoneGrid(width, height, cfg.Colony.Count, systems.PheromoneParams{
			MaxStrength:       cfg.Pheromone.MaxStrength,
			DecayFood:         cfg.Pheromone.DecayFood,
			DecayHome:         cfg.Pheromone.DecayHome,
			DecayDanger:       cfg.Pheromone.DecayDanger,
			SnapToZero:        cfg.Pheromone.SnapToZero,
			DiffusionRate:     cfg.Pheromone.DiffusionRate,
			GradientThreshold: cfg.Movement.FollowThreshold,
		}),
		water: systems.NewWaterGrid(width, height, systems.WaterParams{
			MaxDepth:           cfg.Water.MaxDepth,
			PassableThreshold:  cfg.Water.PassableThreshold,
			DangerousThreshold: cfg.Water.DangerousThreshold,
			EvaporationDepth:   cfg.Water.EvaporationDepth,
			StagnantTicks:      cfg.Water.StagnantTicks,
			RainChance:         cfg.Water.RainChance,
			RainIntensityMin:   cfg.Water.RainIntensityMin,
			RainIntensityMax:   cfg.Water.RainIntensityMax,
			RainDurationMin:    cfg.Water.RainDurationMin,
			RainDurationMax:    cfg.Water.RainDurationMax,
			RainCoverageMin:    cfg.Water.RainCoverageMin,
			RainCoverageMax:    cfg.Water.RainCoverageMax,
		}),
		spatial: systems.NewSpatialGrid(width, height, cfg.World.SpatialCellSize),

		world: world,

		antMapper: ecs.NewMap4[components.Position, components.Ant, components.ColonyMember, components.Age](world),
		antFilter: ecs.NewFilter4[components.Position, components.Ant, components.ColonyMember, components.Age](world),

		foodMapper: ecs.NewMap2[components.Position, components.FoodSource](world),
		foodFilter: ecs.NewFilter2[components.Position, components.FoodSource](world),

		aphidMapper: ecs.NewMap2[components.Position, components.Aphid](world),
		aphidFilter: ecs.NewFilter2[components.Position, components.Aphid](world),

		posFilter:  ecs.NewFilter1[components.Position](world),
		deadFilter: ecs.NewFilter1[components.Dead](world),

		posMap:      ecs.NewMap[components.Position](world),
		antMap:      ecs.NewMap[components.Ant](world),
		memberMap:   ecs.NewMap[components.ColonyMember](world),
		fighterMap:  ecs.NewMap[components.Fighter](world),
		carryingMap: ecs.NewMap[components.Carrying](world),
		drowningMap: ecs.NewMap[components.Drowning](world),
		deadMap:     ecs.NewMap[components.Dead](world),
	}
}

// Tick returns the number of completed ticks.
func (s *Sim) Tick() uint64 { return s.tick }

// Colonies returns the colony registry.
func (s *Sim) Colonies() *colony.Registry { return s.colonies }

// Terrain returns the tile grid.
func (s *Sim) Terrain() terrain.Grid { return s.terrain }

// Pheromones returns the pheromone field.
func (s *Sim) Pheromones() *systems.PheromoneGrid { return s.pheromones }

// Water returns the fluid grid.
func (s *Sim) Water() *systems.WaterGrid { return s.water }

// alive reports whether the entity exists and carries no tombstone.
func (s *Sim) alive(e ecs.Entity) bool {
	return s.world.Alive(e) && !s.deadMap.Has(e)
}

// kill marks an entity dead. The tombstone keeps it in place until the
// end-of-tick sweep so in-flight queries and the spatial index stay valid.
// Must not be called while a query is open.
func (s *Sim) kill(e ecs.Entity, cause telemetry.DeathCause) {
	if s.deadMap.Has(e) {
		return
	}
	s.deadMap.Add(e, &components.Dead{})

	if !s.antMap.Has(e) {
		return
	}
	if s.antMap.Get(e).Role == components.RoleQueen {
		member := s.memberMap.Get(e)
		if c := s.colonies.Get(member.ColonyID); c != nil {
			c.QueenAlive = false
		}
	}
	s.collector.RecordDeath(cause)
}

// Snapshot gathers the world-state inputs for a telemetry flush.
func (s *Sim) Snapshot() telemetry.Snapshot {
	var pop telemetry.Population
	var ages []float64

	query := s.antFilter.Query()
	for query.Next() {
		if s.deadMap.Has(query.Entity()) {
			continue
		}
		_, ant, _, age := query.Get()
		pop.Count(ant.Role)
		if ant.Role.Mobile() {
			ages = append(ages, float64(age.Ticks))
		}
	}

	food := make([]float64, 0, s.colonies.Len())
	for _, c := range s.colonies.All() {
		food = append(food, float64(c.FoodStored))
	}

	return telemetry.Snapshot{
		Population:     pop,
		ColonyFood:     food,
		AdultAges:      ages,
		PheromoneTotal: s.pheromones.Total(),
		WaterTotal:     s.water.TotalDepth(),
	}
}

// Populations tallies the live membership of every colony by role, indexed
// by colony id.
func (s *Sim) Populations() []colony.Population {
	pops := make([]colony.Population, s.colonies.Len())

	query := s.antFilter.Query()
	for query.Next() {
		if s.deadMap.Has(query.Entity()) {
			continue
		}
		_, ant, member, _ := query.Get()
		if int(member.ColonyID) >= len(pops) {
			continue
		}
		p := &pops[member.ColonyID]
		switch ant.Role {
		case components.RoleQueen:
			p.Queens++
		case components.RoleWorker:
			p.Workers++
		case components.RoleSoldier:
			p.Soldiers++
		case components.RoleEgg:
			p.Eggs++
		case components.RoleLarvae:
			p.Larvae++
		}
	}
	return pops
}

func manhattan(x1, y1, x2, y2 int) int {
	return abs(x1-x2) + abs(y1-y2)
}

func chebyshev(x1, y1, x2, y2 int) int {
	dx := abs(x1 - x2)
	dy := abs(y1 - y2)
	if dx > dy {
		return dx
	}
	return dy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// roll returns a uniform byte, the common currency of the behavior chances.
func (s *Sim) roll() uint8 {
	return uint8(s.rng.Intn(256))
}
