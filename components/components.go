// Package components defines ECS components for the colony simulation.
package components

// Role is an ant's caste. Role is immutable except through metamorphosis
// (egg -> larvae -> worker/soldier), which is owned by the lifecycle system.
type Role uint8

const (
	RoleQueen Role = iota
	RoleWorker
	RoleSoldier
	RoleEgg
	RoleLarvae
)

func (r Role) String() string {
	switch r {
	case RoleQueen:
		return "queen"
	case RoleWorker:
		return "worker"
	case RoleSoldier:
		return "soldier"
	case RoleEgg:
		return "egg"
	case RoleLarvae:
		return "larvae"
	}
	return "unknown"
}

// Mobile reports whether this role can move at all.
func (r Role) Mobile() bool {
	return r != RoleEgg && r != RoleLarvae
}

// State is an ant's behavior state. Transitions go through Ant.SetState so
// role/state combinations outside the table below are unrepresentable.
type State uint8

const (
	StateIdle State = iota
	StateWandering
	StateDigging
	StateReturning
	StateCarrying
	StateFighting
	StateFleeing
	StateFollowing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWandering:
		return "wandering"
	case StateDigging:
		return "digging"
	case StateReturning:
		return "returning"
	case StateCarrying:
		return "carrying"
	case StateFighting:
		return "fighting"
	case StateFleeing:
		return "fleeing"
	case StateFollowing:
		return "following"
	}
	return "unknown"
}

// Ant bundles caste and behavior state.
type Ant struct {
	Role  Role
	State State
}

// Position is a tile coordinate. Mutated only by movement resolution after
// passability validation.
type Position struct {
	X, Y int
}

// ColonyMember ties an ant to its colony. Immutable after spawn.
type ColonyMember struct {
	ColonyID uint8
}

// Age counts ticks toward a role-dependent limit: hatching for eggs,
// maturation for larvae, natural death for adults.
type Age struct {
	Ticks    uint32
	MaxTicks uint32
}

// Fighter holds combat stats. Attached lazily on first damage with
// role defaults; absence means the ant has never been hit.
type Fighter struct {
	Strength uint8
	Health   uint8
}

// Carrying marks an ant mid-transport of food. Removed on deposit.
type Carrying struct {
	Amount uint8
}

// Drowning counts consecutive ticks spent in dangerous-depth water.
// Removed when the ant surfaces.
type Drowning struct {
	TicksSubmerged uint32
}

// Dead is a tombstone. Dead ants keep participating in nothing but are only
// removed by the end-of-tick cleanup sweep, so in-flight iteration and the
// spatial index stay valid within a phase.
type Dead struct{}

// FoodSource is a surface food node. Regrowth restores Amount toward
// MaxAmount at RegrowRate per regrow pass.
type FoodSource struct {
	Amount     uint16
	MaxAmount  uint16
	RegrowRate uint8
}

// Aphid is a farmable organism. OwnedBy is NoOwner when wild.
type Aphid struct {
	FoodPerTick float64
	OwnedBy     uint8
}

// NoOwner marks an unowned aphid.
const NoOwner uint8 = 0xFF
