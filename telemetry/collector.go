package telemetry

import (
	"github.com/pthm-cable/formicary/components"
)

// DeathCause classifies how an ant died.
type DeathCause uint8

const (
	DeathOldAge DeathCause = iota
	DeathCombat
	DeathDrowned
	DeathCrushed
)

// Collector accumulates events within tick windows and produces WindowStats.
// A nil Collector is valid and records nothing, so the simulation can run
// with telemetry disabled.
type Collector struct {
	windowTicks     uint64
	windowStartTick uint64

	eggsLaid        int
	hatched         int
	matured         int
	deathsOldAge    int
	deathsCombat    int
	deathsDrowned   int
	deathsCrushed   int
	combatExchanges int
	foodPickups     int
	foodCollected   int
	collapses       int
	rainTicks       int
}

// NewCollector creates a collector flushing every windowTicks ticks.
func NewCollector(windowTicks uint64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

// RecordEggLaid records a queen laying an egg.
func (c *Collector) RecordEggLaid() {
	if c != nil {
		c.eggsLaid++
	}
}

// RecordHatch records an egg hatching into larvae.
func (c *Collector) RecordHatch() {
	if c != nil {
		c.hatched++
	}
}

// RecordMature records a larvae maturing into an adult.
func (c *Collector) RecordMature() {
	if c != nil {
		c.matured++
	}
}

// RecordDeath records a death by cause.
func (c *Collector) RecordDeath(cause DeathCause) {
	if c == nil {
		return
	}
	switch cause {
	case DeathOldAge:
		c.deathsOldAge++
	case DeathCombat:
		c.deathsCombat++
	case DeathDrowned:
		c.deathsDrowned++
	case DeathCrushed:
		c.deathsCrushed++
	}
}

// RecordCombatExchange records one resolved fight pair.
func (c *Collector) RecordCombatExchange() {
	if c != nil {
		c.combatExchanges++
	}
}

// RecordFoodPickup records a worker taking food from a node.
func (c *Collector) RecordFoodPickup() {
	if c != nil {
		c.foodPickups++
	}
}

// RecordFoodStored records food banked at a colony.
func (c *Collector) RecordFoodStored(amount int) {
	if c != nil {
		c.foodCollected += amount
	}
}

// RecordCollapse records a cave-in.
func (c *Collector) RecordCollapse() {
	if c != nil {
		c.collapses++
	}
}

// RecordRainTick records one tick of active rain.
func (c *Collector) RecordRainTick() {
	if c != nil {
		c.rainTicks++
	}
}

// ShouldFlush reports whether the current window is complete.
func (c *Collector) ShouldFlush(currentTick uint64) bool {
	if c == nil {
		return false
	}
	return currentTick-c.windowStartTick >= c.windowTicks
}

// WindowTicks returns the configured window length.
func (c *Collector) WindowTicks() uint64 {
	if c == nil {
		return 0
	}
	return c.windowTicks
}

// Snapshot holds the world-state inputs sampled at flush time. The caller
// gathers these; the collector only owns the per-window event counters.
type Snapshot struct {
	Population     Population
	ColonyFood     []float64
	AdultAges      []float64
	PheromoneTotal float64
	WaterTotal     int
}

// Population counts ants by role, summed over colonies.
type Population struct {
	Queens   int
	Workers  int
	Soldiers int
	Eggs     int
	Larvae   int
}

// Count adds one ant of the given role.
func (p *Population) Count(r components.Role) {
	switch r {
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

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick uint64, snap Snapshot) WindowStats {
	ageMean, ageP10, ageP50, ageP90 := distStats(snap.AdultAges)

	var foodMean, foodMin, foodMax float64
	if len(snap.ColonyFood) > 0 {
		foodMin = snap.ColonyFood[0]
		foodMax = snap.ColonyFood[0]
		var sum float64
		for _, f := range snap.ColonyFood {
			sum += f
			if f < foodMin {
				foodMin = f
			}
			if f > foodMax {
				foodMax = f
			}
		}
		foodMean = sum / float64(len(snap.ColonyFood))
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Queens:   snap.Population.Queens,
		Workers:  snap.Population.Workers,
		Soldiers: snap.Population.Soldiers,
		Eggs:     snap.Population.Eggs,
		Larvae:   snap.Population.Larvae,

		EggsLaid:        c.eggsLaid,
		Hatched:         c.hatched,
		Matured:         c.matured,
		DeathsOldAge:    c.deathsOldAge,
		DeathsCombat:    c.deathsCombat,
		DeathsDrowned:   c.deathsDrowned,
		DeathsCrushed:   c.deathsCrushed,
		CombatExchanges: c.combatExchanges,
		FoodPickups:     c.foodPickups,
		FoodCollected:   c.foodCollected,
		Collapses:       c.collapses,
		RainTicks:       c.rainTicks,

		FoodMean: foodMean,
		FoodMin:  foodMin,
		FoodMax:  foodMax,

		AgeMean: ageMean,
		AgeP10:  ageP10,
		AgeP50:  ageP50,
		AgeP90:  ageP90,

		PheromoneTotal: snap.PheromoneTotal,
		WaterTotal:     snap.WaterTotal,
	}

	c.windowStartTick = currentTick
	c.eggsLaid = 0
	c.hatched = 0
	c.matured = 0
	c.deathsOldAge = 0
	c.deathsCombat = 0
	c.deathsDrowned = 0
	c.deathsCrushed = 0
	c.combatExchanges = 0
	c.foodPickups = 0
	c.foodCollected = 0
	c.collapses = 0
	c.rainTicks = 0

	return stats
}
