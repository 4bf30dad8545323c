package components

import "github.com/yohamta/donburi"

// AttackKind distinguishes the two attack pose flavors.
type AttackKind int

const (
	AttackNone AttackKind = iota
	AttackLight
	AttackHeavy
)

// AttackPhase sequences a heavy attack. Light attacks only use PhaseStrike.
type AttackPhase int

const (
	PhaseWindup AttackPhase = iota
	PhaseStrike
	PhaseFollow
)

// AttackData is the attack pose sub-state for one instance.
type AttackData struct {
	Kind  AttackKind
	Phase AttackPhase
	Timer float64 // seconds remaining in the current phase

	LeftArm     bool // which arm carries the current attack
	NextArmLeft bool // alternates per attack
}

// Active reports whether an attack pose is in flight.
func (a *AttackData) Active() bool { return a.Kind != AttackNone }

var Attack = donburi.NewComponentType[AttackData]()
