package ragdoll

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/automoto/beanbrawl/components"
	cfg "github.com/automoto/beanbrawl/config"
)

const tick = 1.0 / 60.0

func newTestManager() *Manager {
	return New(WithRandSource(rand.NewSource(42)))
}

func standingInput() components.ControllerInput {
	return components.ControllerInput{DT: tick}
}

func driveAndStep(m *Manager, id string, in components.ControllerInput) {
	m.DriveToPosition(id, in)
	m.Step(tick)
}

func TestEnsureIsIdempotent(t *testing.T) {
	m := newTestManager()
	m.Ensure("p1")
	e1 := m.instances["p1"]
	m.Ensure("p1")
	assert.Same(t, e1, m.instances["p1"])
	assert.Len(t, m.instances, 1)
}

func TestDriveCreatesInstanceLazily(t *testing.T) {
	m := newTestManager()
	m.DriveToPosition("p1", standingInput())
	assert.Contains(t, m.instances, "p1")
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	m := newTestManager()
	assert.NotPanics(t, func() {
		m.ApplyHitImpulse("ghost", [3]float64{1, 0, 0}, 20, true, "head")
		m.SetKnockout("ghost", true)
		m.TriggerAttackPose("ghost", false)
		m.SetAnimationTargets("ghost", map[string]components.AnimTarget{})
		m.CreateGrabJoint("ghost", "phantom")
		m.ReleaseGrabJoint("ghost", true, [3]float64{1, 0, 0})
		m.Prune(nil)
	})
	assert.Empty(t, m.instances)
	_, ok := m.BoneTransform("ghost", "head")
	assert.False(t, ok)
	assert.Nil(t, m.AllBoneTransforms("ghost"))
	assert.Equal(t, 0.0, m.Stiffness("ghost"))
	assert.Equal(t, "", m.State("ghost"))
}

func TestBoneTransformReadBack(t *testing.T) {
	m := newTestManager()
	m.Ensure("p1")

	head, ok := m.BoneTransform("p1", "head")
	require.True(t, ok)
	assert.Greater(t, head.Y, 1.0, "head starts above the floor")
	assert.InDelta(t, 1.0, head.QW, 1e-9, "identity orientation at spawn")

	_, ok = m.BoneTransform("p1", "tail")
	assert.False(t, ok, "unknown bone name")

	all := m.AllBoneTransforms("p1")
	assert.Len(t, all, int(components.BoneCount))
	for _, name := range []string{"torso", "head", "l_upperArm", "r_foreArm", "l_thigh", "r_shin"} {
		assert.Contains(t, all, name)
	}
}

func TestStiffnessStaysInRangeThroughAScuffle(t *testing.T) {
	m := newTestManager()
	check := func() {
		s := m.Stiffness("p1")
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
	for i := 0; i < 600; i++ {
		in := standingInput()
		in.Velocity = [3]float64{2 * math.Sin(float64(i)*tick), 0, 2}
		in.Position = [3]float64{0, 0, float64(i) * tick}
		m.DriveToPosition("p1", in)
		switch i {
		case 60:
			m.ApplyHitImpulse("p1", [3]float64{1, 0, 0}, 18, false, "")
		case 120:
			m.ApplyHitImpulse("p1", [3]float64{0, 0, -1}, 42, true, "")
		case 240:
			m.SetKnockout("p1", true)
		case 300:
			m.SetKnockout("p1", false)
		}
		m.Step(tick)
		check()
	}
	assert.Equal(t, "active", m.State("p1"))
}

func TestTransformsStayFiniteWhileDriven(t *testing.T) {
	m := newTestManager()
	for i := 0; i < 300; i++ {
		in := standingInput()
		in.Position = [3]float64{math.Cos(float64(i) * tick), 0, math.Sin(float64(i) * tick)}
		in.Velocity = [3]float64{-math.Sin(float64(i) * tick), 0, math.Cos(float64(i) * tick)}
		in.FacingYaw = float64(i) * tick
		driveAndStep(m, "p1", in)
	}
	for name, tr := range m.AllBoneTransforms("p1") {
		for _, v := range [7]float64{tr.X, tr.Y, tr.Z, tr.QX, tr.QY, tr.QZ, tr.QW} {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s has a non-finite component", name)
		}
		assert.Greater(t, tr.Y, -0.5, "%s fell through the floor", name)
	}
}

func TestDTClampInDrive(t *testing.T) {
	m := newTestManager()
	m.Ensure("p1")
	in := standingInput()
	in.DT = 5 // a hitch; must be treated as one clamped step
	assert.NotPanics(t, func() {
		m.DriveToPosition("p1", in)
		m.Step(5)
	})
	for _, tr := range m.AllBoneTransforms("p1") {
		assert.False(t, math.IsNaN(tr.Y))
	}
}

func TestAnimationTargetsLastOneTick(t *testing.T) {
	m := newTestManager()
	m.Ensure("p1")
	e := m.instances["p1"]

	m.SetAnimationTargets("p1", map[string]components.AnimTarget{
		"r_foreArm":  {Position: mgl64.Vec3{0.1, 0.1, 0.8}, HasPosition: true},
		"not_a_bone": {},
	})
	at := components.AnimTargets.Get(e)
	assert.True(t, at.Active)
	assert.Len(t, at.Targets, 1, "unknown bone names are dropped")

	m.DriveToPosition("p1", standingInput())
	assert.False(t, at.Active, "targets consumed by the drive")
	assert.Empty(t, at.Targets)
}

func TestGrabLifecycle(t *testing.T) {
	m := newTestManager()
	m.Ensure("a")
	m.Ensure("b")
	m.Ensure("c")

	m.CreateGrabJoint("a", "b")
	require.Contains(t, m.grabs, "a")
	assert.Equal(t, "b", m.grabs["a"].target)

	// One target per grabber, last writer wins.
	m.CreateGrabJoint("a", "c")
	assert.Equal(t, "c", m.grabs["a"].target)
	assert.False(t, components.Control.Get(m.instances["b"]).Grabbed, "old target is released")

	// Two grabbers can hold the same target.
	m.CreateGrabJoint("b", "c")
	assert.Equal(t, "c", m.grabs["b"].target)
	m.ReleaseGrabJoint("a", false, [3]float64{})
	assert.True(t, components.Control.Get(m.instances["c"]).Grabbed, "still held by b")
	m.ReleaseGrabJoint("b", false, [3]float64{})
	assert.False(t, components.Control.Get(m.instances["c"]).Grabbed)

	// Self grabs are refused, releasing empty hands is a no-op.
	m.CreateGrabJoint("a", "a")
	assert.NotContains(t, m.grabs, "a")
	assert.NotPanics(t, func() { m.ReleaseGrabJoint("a", true, [3]float64{0, 0, 1}) })
}

func TestGrabCapsTargetStiffness(t *testing.T) {
	m := newTestManager()
	m.Ensure("a")
	m.Ensure("b")
	m.CreateGrabJoint("a", "b")

	e := m.instances["b"]
	c := components.Control.Get(e)
	for _, bone := range components.Bones() {
		assert.LessOrEqual(t, c.LimbCap[bone], cfg.Grab.StiffnessCap)
	}
	assert.True(t, c.Grabbed)

	// Stiffness settles at the cap, not above, even across recovery.
	for i := 0; i < 120; i++ {
		driveAndStep(m, "b", standingInput())
	}
	assert.LessOrEqual(t, m.Stiffness("b"), cfg.Grab.StiffnessCap+1e-9)

	m.ReleaseGrabJoint("a", false, [3]float64{})
	assert.False(t, c.Grabbed)
	for _, bone := range components.Bones() {
		assert.Equal(t, cfg.Stiffness.ActiveMax, c.LimbCap[bone])
	}
}

func TestThrowOnReleaseLaunchesTarget(t *testing.T) {
	m := newTestManager()
	m.Ensure("a")
	m.Ensure("b")
	m.CreateGrabJoint("a", "b")

	e := m.instances["b"]
	head := components.Skeleton.Get(e).Body(components.BoneHead)
	m.ReleaseGrabJoint("a", true, [3]float64{0, 0, 1})

	assert.Greater(t, head.Velocity().Z(), 0.1, "thrown body moves along the throw direction")
	assert.Equal(t, "hit_reaction", m.State("b"))
}

func TestPruneRemovesInstancesAndGrabs(t *testing.T) {
	m := newTestManager()
	m.Ensure("a")
	m.Ensure("b")
	m.CreateGrabJoint("a", "b")

	m.Prune([]string{"a"})
	assert.NotContains(t, m.instances, "b")
	assert.Contains(t, m.instances, "a")
	assert.Empty(t, m.grabs, "grab touching the pruned target is released")

	// The survivor keeps working.
	assert.NotPanics(t, func() {
		for i := 0; i < 60; i++ {
			driveAndStep(m, "a", standingInput())
		}
	})
	assert.Len(t, m.AllBoneTransforms("a"), int(components.BoneCount))
}

func TestCloseTearsDownEverything(t *testing.T) {
	m := newTestManager()
	m.Ensure("a")
	m.Ensure("b")
	m.Close()
	assert.Empty(t, m.instances)
}

func TestCollisionGroupsWrapAcrossManyInstances(t *testing.T) {
	m := newTestManager()
	m.Ensure("first")
	for i := 0; i < 16; i++ {
		m.Ensure(string(rune('a' + i)))
	}
	m.Ensure("seventeenth") // group index 17 wraps onto group 1

	first := components.Skeleton.Get(m.instances["first"]).Filter
	second := components.Skeleton.Get(m.instances["a"]).Filter
	seventeenth := components.Skeleton.Get(m.instances["seventeenth"]).Filter
	assert.NotEqual(t, first.Group, second.Group)
	assert.Equal(t, second.Group, seventeenth.Group)
}
