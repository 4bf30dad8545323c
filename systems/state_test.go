package systems_test

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"

	"github.com/automoto/beanbrawl/components"
	cfg "github.com/automoto/beanbrawl/config"
	"github.com/automoto/beanbrawl/physics"
	"github.com/automoto/beanbrawl/systems"
	"github.com/automoto/beanbrawl/systems/factory"
)

const tick = 1.0 / 60.0

func spawn(t *testing.T) *donburi.Entry {
	t.Helper()
	pw := physics.NewWorld(physics.Def{})
	w := donburi.NewWorld()
	return factory.SpawnRagdoll(w, pw, 0, mgl64.Vec3{0, cfg.Pose.RootHeight, 0})
}

func assertStiffnessInRange(t *testing.T, c *components.ControlData) {
	t.Helper()
	for _, b := range components.Bones() {
		v := c.LimbStiffness[b]
		assert.GreaterOrEqual(t, v, 0.0, "%s stiffness below 0", b)
		assert.LessOrEqual(t, v, 1.0, "%s stiffness above 1", b)
	}
	assert.GreaterOrEqual(t, c.StiffnessScale, 0.0)
	assert.LessOrEqual(t, c.StiffnessScale, 1.0)
}

func TestFreshInstanceIsActiveAndStiff(t *testing.T) {
	e := spawn(t)
	c := components.Control.Get(e)
	assert.Equal(t, components.StateActive, c.CurrentState)
	systems.UpdateState(e, 0, tick)
	assert.InDelta(t, 1.0, c.StiffnessScale, 1e-9)
	assertStiffnessInRange(t, c)
}

func TestStunSoftensActiveState(t *testing.T) {
	e := spawn(t)
	c := components.Control.Get(e)
	systems.UpdateState(e, 1.0, tick)
	assert.InDelta(t, 1-cfg.Stiffness.StunSoftening, c.StiffnessScale, 1e-9)
	assert.Equal(t, components.StateActive, c.CurrentState)
	assertStiffnessInRange(t, c)
}

func TestHitDropsStiffnessAndEntersHitReaction(t *testing.T) {
	e := spawn(t)
	c := components.Control.Get(e)
	rng := rand.New(rand.NewSource(7))

	struck := systems.ApplyHitImpulse(e, mgl64.Vec3{1, 0, 0}, 18, false, components.BoneNone, rng)
	assert.Equal(t, components.StateHitReaction, c.CurrentState)
	assert.Equal(t, struck, c.LastHitBone)
	assert.InDelta(t, cfg.Combat.StiffnessDropLight/2, c.LimbStiffness[struck], 1e-9)
	for _, b := range components.Bones() {
		assert.LessOrEqual(t, c.LimbStiffness[b], cfg.Combat.StiffnessDropLight, "%s should be capped at the drop", b)
	}
	assertStiffnessInRange(t, c)
}

func TestHitHonorsTargetBone(t *testing.T) {
	e := spawn(t)
	c := components.Control.Get(e)
	rng := rand.New(rand.NewSource(7))

	struck := systems.ApplyHitImpulse(e, mgl64.Vec3{1, 0, 0}, 18, false, components.BoneHead, rng)
	assert.Equal(t, components.BoneHead, struck)
	assert.Equal(t, components.BoneHead, c.LastHitBone)
}

func TestHitReactionRecoversToActive(t *testing.T) {
	e := spawn(t)
	c := components.Control.Get(e)
	systems.ApplyHitImpulse(e, mgl64.Vec3{1, 0, 0}, 18, false, components.BoneNone, rand.New(rand.NewSource(1)))

	// Bounded: hit timer + slowest limb ramp, with slack.
	maxTicks := int((cfg.Combat.HitTimerLight + cfg.Stiffness.RecoveryBase*cfg.Stiffness.RecoveryFactorForearm + 1) / tick)
	sawRecovering := false
	for i := 0; i < maxTicks && c.CurrentState != components.StateActive; i++ {
		systems.UpdateState(e, 0, tick)
		if c.CurrentState == components.StateRecovering {
			sawRecovering = true
		}
		assertStiffnessInRange(t, c)
	}
	assert.True(t, sawRecovering, "hit reaction must pass through recovering")
	require.Equal(t, components.StateActive, c.CurrentState)
	assert.InDelta(t, 1.0, c.LimbStiffness[components.BoneForearmL], 1e-6)
}

func TestRecoveryOrderTorsoBeforeForearm(t *testing.T) {
	e := spawn(t)
	c := components.Control.Get(e)
	rng := rand.New(rand.NewSource(4))
	systems.SetKnockout(e, true, rng)
	systems.SetKnockout(e, false, rng) // straight into recovery from zero

	// Mid-recovery the torso is ahead of the forearms.
	mid := int(cfg.Stiffness.RecoveryBase / tick / 2)
	for i := 0; i < mid; i++ {
		systems.UpdateState(e, 0, tick)
	}
	require.Equal(t, components.StateRecovering, c.CurrentState)
	assert.Greater(t, c.LimbStiffness[components.BoneTorso], c.LimbStiffness[components.BoneForearmL])
}

func TestKnockoutZeroesEverything(t *testing.T) {
	e := spawn(t)
	c := components.Control.Get(e)
	systems.SetKnockout(e, true, rand.New(rand.NewSource(5)))
	systems.UpdateState(e, 0, tick)

	assert.Equal(t, components.StateKnockout, c.CurrentState)
	assert.Equal(t, 0.0, c.StiffnessScale)
	for _, b := range components.Bones() {
		assert.Equal(t, 0.0, c.LimbStiffness[b])
	}
}

func TestKnockoutRecoversAfterTimer(t *testing.T) {
	e := spawn(t)
	c := components.Control.Get(e)
	systems.SetKnockout(e, true, rand.New(rand.NewSource(6)))

	maxTicks := int((cfg.Combat.KnockoutRecoverySeconds + cfg.Stiffness.RecoveryBase*cfg.Stiffness.RecoveryFactorForearm + 1) / tick)
	for i := 0; i < maxTicks && c.CurrentState != components.StateActive; i++ {
		systems.UpdateState(e, 0, tick)
		assertStiffnessInRange(t, c)
	}
	assert.Equal(t, components.StateActive, c.CurrentState)
}

func TestKnockoutIsIdempotent(t *testing.T) {
	e := spawn(t)
	c := components.Control.Get(e)
	rng := rand.New(rand.NewSource(8))
	systems.SetKnockout(e, true, rng)
	timer := c.StateTimer
	systems.SetKnockout(e, true, rng)
	assert.Equal(t, components.StateKnockout, c.CurrentState)
	assert.Equal(t, timer, c.StateTimer, "re-knockout must not reset the downtime")
}

func TestHitDuringKnockoutStaysDown(t *testing.T) {
	e := spawn(t)
	c := components.Control.Get(e)
	rng := rand.New(rand.NewSource(2))
	systems.SetKnockout(e, true, rng)
	timer := c.StateTimer
	struck := systems.ApplyHitImpulse(e, mgl64.Vec3{0, 0, 1}, 42, true, components.BoneNone, rng)

	assert.Equal(t, components.StateKnockout, c.CurrentState)
	assert.Equal(t, timer, c.StateTimer, "downtime must not restart")
	assert.Equal(t, 0.0, c.HitTimer)
	assert.Equal(t, 0.0, c.LimbStiffness[struck], "a knocked-out limb stays limp")
	for _, b := range components.Bones() {
		assert.Equal(t, 0.0, c.LimbStiffness[b])
	}
}

func TestHeavyHitSoftensWholeBody(t *testing.T) {
	e := spawn(t)
	c := components.Control.Get(e)
	struck := systems.ApplyHitImpulse(e, mgl64.Vec3{0, 0, 1}, 42, true, components.BoneNone, rand.New(rand.NewSource(3)))

	assert.InDelta(t, cfg.Combat.StiffnessDropHeavy/2, c.LimbStiffness[struck], 1e-9)
	for _, b := range components.Bones() {
		if b == struck {
			continue
		}
		assert.LessOrEqual(t, c.LimbStiffness[b], cfg.Combat.StiffnessDropHeavy, "%s should have been softened by the spread", b)
	}
	assertStiffnessInRange(t, c)
}

func TestAttackPhaseProgression(t *testing.T) {
	e := spawn(t)
	atk := components.Attack.Get(e)

	systems.TriggerAttack(e, false)
	require.Equal(t, components.AttackLight, atk.Kind)
	for i := 0; i < int(cfg.Attack.JabSeconds/tick)+2; i++ {
		systems.UpdateAttack(e, tick)
	}
	assert.Equal(t, components.AttackNone, atk.Kind, "jab ends after its window")

	systems.TriggerAttack(e, true)
	require.Equal(t, components.AttackHeavy, atk.Kind)
	assert.Equal(t, components.PhaseWindup, atk.Phase)
	phases := []components.AttackPhase{atk.Phase}
	for i := 0; i < 200 && atk.Active(); i++ {
		systems.UpdateAttack(e, tick)
		if atk.Active() && atk.Phase != phases[len(phases)-1] {
			phases = append(phases, atk.Phase)
		}
	}
	assert.Equal(t, []components.AttackPhase{components.PhaseWindup, components.PhaseStrike, components.PhaseFollow}, phases)
	assert.False(t, atk.Active())
}

func TestAttackAlternatesArms(t *testing.T) {
	e := spawn(t)
	atk := components.Attack.Get(e)

	systems.TriggerAttack(e, false)
	first := atk.LeftArm
	for atk.Active() {
		systems.UpdateAttack(e, tick)
	}
	systems.TriggerAttack(e, false)
	assert.NotEqual(t, first, atk.LeftArm)
}

func TestTriggerAttackIgnoredWhileBusy(t *testing.T) {
	e := spawn(t)
	atk := components.Attack.Get(e)

	systems.TriggerAttack(e, true)
	require.Equal(t, components.AttackHeavy, atk.Kind)
	systems.TriggerAttack(e, false)
	assert.Equal(t, components.AttackHeavy, atk.Kind, "attack in flight must not be replaced")

	e2 := spawn(t)
	systems.SetKnockout(e2, true, rand.New(rand.NewSource(9)))
	systems.TriggerAttack(e2, false)
	assert.False(t, components.Attack.Get(e2).Active(), "knocked out beans do not punch")
}
