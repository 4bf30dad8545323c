package ragdoll

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/automoto/beanbrawl/components"
	cfg "github.com/automoto/beanbrawl/config"
	"github.com/automoto/beanbrawl/physics"
	"github.com/automoto/beanbrawl/systems"
)

// grab is one live grab: a spring latching the grabber's hand onto the
// target's torso, plus the stiffness ceiling imposed on the target.
type grab struct {
	target string
	spring *physics.SpringJoint
}

// CreateGrabJoint latches one of grabberID's hands (picked at random) onto
// targetID's torso. A grabber holds at most one target: grabbing again
// releases the previous hold first, so the call is last-writer-wins.
// Unknown ids and self-grabs are silent no-ops. While held, the target's
// limb stiffness is capped so it goes limp in the grip.
func (m *Manager) CreateGrabJoint(grabberID, targetID string) {
	if grabberID == targetID {
		return
	}
	ge, ok := m.instances[grabberID]
	if !ok {
		return
	}
	te, ok := m.instances[targetID]
	if !ok {
		return
	}
	hand := components.BoneForearmR
	if m.rng.Intn(2) == 0 {
		hand = components.BoneForearmL
	}
	handBody := components.Skeleton.Get(ge).Body(hand)
	torso := components.Skeleton.Get(te).Body(components.BoneTorso)
	if handBody == nil || torso == nil {
		return
	}
	if _, holding := m.grabs[grabberID]; holding {
		m.ReleaseGrabJoint(grabberID, false, [3]float64{})
	}

	spring := m.pw.AddSpring(torso, handBody, mgl64.Vec3{},
		cfg.Grab.RestLength, cfg.Grab.Stiffness, cfg.Grab.Damping, true)
	m.grabs[grabberID] = &grab{target: targetID, spring: spring}

	c := components.Control.Get(te)
	c.EnsureLimbMaps()
	for _, b := range components.Bones() {
		if c.LimbCap[b] > cfg.Grab.StiffnessCap {
			c.LimbCap[b] = cfg.Grab.StiffnessCap
		}
		if c.LimbStiffness[b] > cfg.Grab.StiffnessCap {
			c.LimbStiffness[b] = cfg.Grab.StiffnessCap
		}
	}
	c.Grabbed = true
	m.log.Info().Str("grabber", grabberID).Str("target", targetID).Str("hand", hand.String()).Msg("grab created")
}

// ReleaseGrabJoint drops whatever grabberID is holding. With throw set, the
// target is launched along throwDir (a zero direction falls back to the
// default) with the configured impulse and a short hit reaction; without
// it the hold just ends. Unknown ids and empty hands are silent no-ops.
func (m *Manager) ReleaseGrabJoint(grabberID string, throw bool, throwDir [3]float64) {
	g, ok := m.grabs[grabberID]
	if !ok {
		return
	}
	m.pw.RemoveSpring(g.spring)
	delete(m.grabs, grabberID)

	te, ok := m.instances[g.target]
	if !ok {
		return
	}
	// Lift the stiffness ceiling only once nobody else is holding on.
	if !m.isGrabbed(g.target) {
		c := components.Control.Get(te)
		c.EnsureLimbMaps()
		for _, b := range components.Bones() {
			c.LimbCap[b] = cfg.Stiffness.ActiveMax
		}
		c.Grabbed = false
	}

	if throw {
		systems.ApplyThrow(te, mgl64.Vec3{throwDir[0], throwDir[1], throwDir[2]})
	}
	m.log.Info().Str("grabber", grabberID).Str("target", g.target).Bool("thrown", throw).Msg("grab released")
}

func (m *Manager) isGrabbed(targetID string) bool {
	for _, g := range m.grabs {
		if g.target == targetID {
			return true
		}
	}
	return false
}

// releaseGrabsTouching cleans up every grab where id is either side, with
// no throw. Used by Prune.
func (m *Manager) releaseGrabsTouching(id string) {
	if _, ok := m.grabs[id]; ok {
		m.ReleaseGrabJoint(id, false, [3]float64{})
	}
	for grabber, g := range m.grabs {
		if g.target == id {
			m.ReleaseGrabJoint(grabber, false, [3]float64{})
		}
	}
}
