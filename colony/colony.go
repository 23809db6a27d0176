// Package colony holds per-colony aggregate state. Colony records live for
// the process lifetime; a colony whose queen dies keeps its record but stops
// producing anything.
package colony

import "log/slog"

// State is one colony's aggregate record.
type State struct {
	ID         uint8
	HomeX      int
	HomeY      int
	FoodStored uint32
	QueenAlive bool

	// fracFood accumulates sub-unit food income (aphid farming) until a
	// whole unit can be banked.
	fracFood float64
}

// New creates a colony anchored at its nest position.
func New(id uint8, homeX, homeY int, initialFood uint32) *State {
	return &State{
		ID:         id,
		HomeX:      homeX,
		HomeY:      homeY,
		FoodStored: initialFood,
		QueenAlive: true,
	}
}

// AddFood credits whole food units.
func (c *State) AddFood(amount uint32) {
	c.FoodStored += amount
}

// AddFoodFraction credits fractional food, banking whole units as the
// remainder carries over. Negative amounts are ignored.
func (c *State) AddFoodFraction(amount float64) {
	if amount <= 0 {
		return
	}
	c.fracFood += amount
	for c.fracFood >= 1 {
		c.fracFood--
		c.FoodStored++
	}
}

// SpendFood deducts amount if available and reports success.
func (c *State) SpendFood(amount uint32) bool {
	if c.FoodStored < amount {
		return false
	}
	c.FoodStored -= amount
	return true
}

// ConsumeFood deducts up to amount, saturating at zero.
func (c *State) ConsumeFood(amount uint32) {
	if amount > c.FoodStored {
		c.FoodStored = 0
		return
	}
	c.FoodStored -= amount
}

// Registry is the ordered list of colonies, indexed by colony id.
type Registry struct {
	colonies []*State
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends a colony. Ids are expected to match insertion order.
func (r *Registry) Add(c *State) {
	r.colonies = append(r.colonies, c)
}

// Get returns the colony with the given id, or nil if out of range.
func (r *Registry) Get(id uint8) *State {
	if int(id) >= len(r.colonies) {
		return nil
	}
	return r.colonies[id]
}

// Len returns the number of colonies.
func (r *Registry) Len() int {
	return len(r.colonies)
}

// All returns the backing slice for iteration.
func (r *Registry) All() []*State {
	return r.colonies
}

// Population counts live members of one colony by role.
type Population struct {
	Queens   int
	Workers  int
	Soldiers int
	Eggs     int
	Larvae   int
}

// Total returns the full population count.
func (p Population) Total() int {
	return p.Queens + p.Workers + p.Soldiers + p.Eggs + p.Larvae
}

// LogValue implements slog.LogValuer for per-colony summaries.
func (p Population) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("queens", p.Queens),
		slog.Int("workers", p.Workers),
		slog.Int("soldiers", p.Soldiers),
		slog.Int("eggs", p.Eggs),
		slog.Int("larvae", p.Larvae),
		slog.Int("total", p.Total()),
	)
}
