package components

// allowedStates maps each role to the behavior states it may occupy.
// Bit i corresponds to State(i).
var allowedStates = [...]uint16{
	RoleQueen:   bit(StateIdle) | bit(StateWandering) | bit(StateReturning) | bit(StateFleeing),
	RoleWorker:  allStates,
	RoleSoldier: bit(StateIdle) | bit(StateWandering) | bit(StateReturning) | bit(StateFighting) | bit(StateFleeing) | bit(StateFollowing),
	RoleEgg:     bit(StateIdle),
	RoleLarvae:  bit(StateIdle),
}

const allStates = 1<<(StateFollowing+1) - 1

func bit(s State) uint16 { return 1 << s }

// CanBe reports whether the role may occupy the given state.
func (r Role) CanBe(s State) bool {
	if int(r) >= len(allowedStates) {
		return false
	}
	return allowedStates[r]&bit(s) != 0
}

// SetState transitions to s if the ant's role allows it. Returns false and
// leaves the state untouched otherwise. All behavior systems go through this,
// so an egg can never end up fleeing no matter what a system requests.
func (a *Ant) SetState(s State) bool {
	if !a.Role.CanBe(s) {
		return false
	}
	a.State = s
	return true
}

// Metamorphose changes role and resets state to the new role's spawn state.
// Used by the lifecycle system for hatching and maturation only.
func (a *Ant) Metamorphose(r Role) {
	a.Role = r
	a.State = SpawnState(r)
}

// SpawnState is the state a freshly created ant of the given role starts in.
func SpawnState(r Role) State {
	switch r {
	case RoleWorker, RoleSoldier:
		return StateWandering
	default:
		return StateIdle
	}
}
